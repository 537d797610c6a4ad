package result

import (
	"encoding/json"

	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

// UnstructuredSummary is the summary used when an agent's response carries
// no parseable structured result and the raw text is kept verbatim.
const UnstructuredSummary = "Task completed but returned unstructured response"

// ParseTask reduces a raw agent response to a TaskResult. It is total: for
// any input it returns a well-shaped record with a non-nil Result and a
// non-nil Artifacts slice, and it never fails. Unparseable responses are
// preserved verbatim as the result payload.
//
// Candidates are tried in order (whole text, fenced blocks, balanced
// object, greedy span); the first one that both parses and carries a
// recognizable output or artifact wins.
func ParseTask(raw string) models.TaskResult {
	for _, candidate := range objectCandidates(raw) {
		var tr models.TaskResult
		if err := json.Unmarshal([]byte(candidate), &tr); err != nil {
			continue
		}
		if tr.Output.Summary == "" && tr.Output.Result == nil && len(tr.Artifacts) == 0 {
			// Valid JSON, but not a task result shape. Keep looking.
			continue
		}
		return normalize(tr)
	}

	return models.TaskResult{
		Output: models.TaskOutput{
			Summary: UnstructuredSummary,
			Result:  raw,
		},
		Artifacts: []models.ResultArtifact{},
	}
}

// normalize guarantees the invariants callers rely on: Result and
// Artifacts are never nil.
func normalize(tr models.TaskResult) models.TaskResult {
	if tr.Output.Result == nil {
		tr.Output.Result = ""
	}
	if tr.Artifacts == nil {
		tr.Artifacts = []models.ResultArtifact{}
	}
	return tr
}
