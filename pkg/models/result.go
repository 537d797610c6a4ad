package models

// TaskOutput is the structured portion of a task's result that is merged
// into workflow memory and consulted by every subsequent task's prompt.
type TaskOutput struct {
	// Summary is a short description of what the task did.
	Summary string `json:"summary"`
	// Result carries the task's output. It is the raw response text when
	// the agent returned an unstructured answer.
	Result any `json:"result"`
}

// ResultArtifact is an artifact as it appears inside a parsed task result.
// Unlike Artifact, it carries the file content inbound; the content is
// written to the workspace and never persisted in the workflow record.
type ResultArtifact struct {
	// Name is the artifact's logical name.
	Name string `json:"name"`
	// Description summarizes the artifact.
	Description string `json:"description,omitempty"`
	// Filename is the path relative to the workflow workspace.
	Filename string `json:"filename"`
	// Content is the full file content to write.
	Content string `json:"content,omitempty"`
}

// TaskResult is the normalized shape every agent response is reduced to.
type TaskResult struct {
	// Output is the structured output merged into workflow memory.
	Output TaskOutput `json:"output"`
	// Artifacts lists files the task wants written to the workspace.
	Artifacts []ResultArtifact `json:"artifacts"`
}
