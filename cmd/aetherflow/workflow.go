package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aetherflow-ai/aetherflow/internal/workflow"
	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

var workflowName string

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Create and manage multi-agent workflows",
}

var workflowCreateCmd = &cobra.Command{
	Use:   "create <goal>",
	Short: "Plan and execute a workflow for a goal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		goal := strings.Join(args, " ")
		w, summary, err := a.engine.Run(context.Background(), workflowName, goal)
		if err != nil {
			return err
		}

		printSummary(w, summary)
		return nil
	},
}

var workflowFeedbackCmd = &cobra.Command{
	Use:   "feedback <workflow-id> <feedback>",
	Short: "Apply feedback to a workflow and re-run affected tasks",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		feedback := strings.Join(args[1:], " ")
		w, plan, err := a.engine.Feedback(context.Background(), args[0], feedback)
		if err != nil {
			return err
		}

		color.Green("Feedback applied to %s", w.ID)
		if plan.Analysis != "" {
			fmt.Printf("Analysis: %s\n", plan.Analysis)
		}
		if len(plan.TasksToUpdate) > 0 {
			fmt.Printf("Re-ran tasks: %s\n", strings.Join(plan.TasksToUpdate, ", "))
		}
		for _, t := range plan.NewTasks {
			fmt.Printf("New task: %s (%s)\n", t.ID, t.Name)
		}
		fmt.Printf("Workflow status: %s\n", w.Status)
		return nil
	},
}

var workflowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all workflows",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		workflows, err := a.engine.Store().List()
		if err != nil {
			return err
		}
		if len(workflows) == 0 {
			fmt.Println("No workflows yet.")
			return nil
		}

		for _, w := range workflows {
			statusColor := color.New(color.FgYellow)
			if w.Status == models.WorkflowStatusCompleted {
				statusColor = color.New(color.FgGreen)
			}
			fmt.Printf("%-40s %-12s %s\n", w.ID, statusColor.Sprint(w.Status), w.Goal)
		}
		return nil
	},
}

var workflowOpenCmd = &cobra.Command{
	Use:   "open <workflow-id>",
	Short: "Show a workflow's full record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		w, err := a.engine.Store().Load(args[0])
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(w, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	},
}

func printSummary(w *models.Workflow, summary *workflow.Summary) {
	if w.Status == models.WorkflowStatusCompleted {
		color.Green("Workflow %s completed", w.ID)
	} else {
		color.Yellow("Workflow %s finished with status %s", w.ID, w.Status)
	}

	for _, taskID := range w.WorkflowSequence {
		task := w.Task(taskID)
		if task == nil {
			continue
		}
		fmt.Printf("  [%s] %s: %s\n", task.Status, task.ID, task.Name)
	}
	for _, artifact := range summary.Artifacts {
		fmt.Printf("  artifact: %s\n", artifact.FullPath)
	}
	fmt.Printf("Workspace: %s\n", w.Workspace)
}

func init() {
	workflowCreateCmd.Flags().StringVar(&workflowName, "name", "", "Workflow name (defaults to the goal's first words)")

	workflowCmd.AddCommand(workflowCreateCmd)
	workflowCmd.AddCommand(workflowFeedbackCmd)
	workflowCmd.AddCommand(workflowListCmd)
	workflowCmd.AddCommand(workflowOpenCmd)
}
