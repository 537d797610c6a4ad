// Package config handles configuration loading for AetherFlow.
// It supports XDG config paths, project-level overrides, and environment
// variables. The loaded Config is passed explicitly to each component's
// constructor; there is no global configuration state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for AetherFlow.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Executor  ExecutorConfig  `mapstructure:"executor"`
	Router    RouterConfig    `mapstructure:"router"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key. Overridden by ANTHROPIC_API_KEY.
	APIKey string `mapstructure:"api_key"`
	// Model is the model name used for all oracle completions.
	Model string `mapstructure:"model"`
	// MaxTokens caps the completion length per oracle call.
	MaxTokens int `mapstructure:"max_tokens"`
	// UseAWSBedrock routes oracle calls through AWS Bedrock.
	UseAWSBedrock bool `mapstructure:"use_aws_bedrock"`
	// AWSRegion is the Bedrock region (e.g. "us-west-2").
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the optional AWS profile name.
	AWSProfile string `mapstructure:"aws_profile"`
}

// WorkspaceConfig holds filesystem layout settings.
type WorkspaceConfig struct {
	// Dir is the root directory holding workflow workspaces, the agent
	// index, and persona files. Defaults to ./workspace.
	Dir string `mapstructure:"dir"`
}

// ExecutorConfig holds workflow execution settings.
type ExecutorConfig struct {
	// MaxIterations bounds how many sequence entries one execution pass
	// will attempt. Remaining tasks are left pending.
	MaxIterations int `mapstructure:"max_iterations"`
}

// RouterConfig holds single-task routing settings.
type RouterConfig struct {
	// MaxIterations is the recursion budget for sub-task routing.
	MaxIterations int `mapstructure:"max_iterations"`
}

// LoggingConfig holds debug logging settings.
type LoggingConfig struct {
	// Debug enables the file-backed engine debug log.
	Debug bool `mapstructure:"debug"`
}

// Load loads configuration with the following precedence (highest first):
// environment variables, project config (.aetherflow.yaml in the current
// directory or a parent), user config (~/.config/aetherflow/config.yaml),
// built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("AETHERFLOW")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("workspace.dir", "AETHERFLOW_WORKSPACE")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Default returns a Config with built-in default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			Model:     "",
			MaxTokens: 4096,
		},
		Workspace: WorkspaceConfig{Dir: "workspace"},
		Executor:  ExecutorConfig{MaxIterations: 10},
		Router:    RouterConfig{MaxIterations: 3},
	}
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.use_aws_bedrock", false)

	v.SetDefault("workspace.dir", "workspace")

	v.SetDefault("executor.max_iterations", 10)
	v.SetDefault("router.max_iterations", 3)

	v.SetDefault("logging.debug", false)
}

// getUserConfigDir returns the XDG config directory for AetherFlow.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "aetherflow")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "aetherflow")
	}
	return filepath.Join(home, ".config", "aetherflow")
}

// findProjectConfig searches for .aetherflow.yaml in the current directory
// and its parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".aetherflow.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}
