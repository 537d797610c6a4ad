package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("OpenWorkspace: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestRecordAndQueryTaskHistory(t *testing.T) {
	db := openTestDB(t)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []models.HistoryEntry{
		{WorkflowID: "wf_1", TaskID: "task_1", Agent: "worker_agent", Timestamp: base, Status: "completed", Message: "ok"},
		{WorkflowID: "wf_1", TaskID: "task_2", Agent: "writer_agent", Timestamp: base.Add(time.Minute), Status: "failed", Message: "boom"},
		{WorkflowID: "wf_2", TaskID: "task_1", Agent: "worker_agent", Timestamp: base, Status: "completed"},
	}
	for _, e := range entries {
		if err := db.RecordTask(e); err != nil {
			t.Fatalf("RecordTask: %v", err)
		}
	}

	got, err := db.HistoryForWorkflow("wf_1")
	if err != nil {
		t.Fatalf("HistoryForWorkflow: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].TaskID != "task_1" || got[1].TaskID != "task_2" {
		t.Errorf("expected oldest-first order, got %v then %v", got[0].TaskID, got[1].TaskID)
	}
	if got[0].ID == "" {
		t.Error("expected generated entry ID")
	}
	if !got[1].Timestamp.Equal(base.Add(time.Minute)) {
		t.Errorf("timestamp round trip failed: %v", got[1].Timestamp)
	}

	failed, err := db.CountByStatus("wf_1", "failed")
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed entry, got %d", failed)
	}
}

func TestRecordFeedback(t *testing.T) {
	db := openTestDB(t)

	err := db.RecordFeedback("wf_1", models.FeedbackEntry{
		Feedback: "make it shorter",
		Analysis: `{"tasks_to_redo": ["task_1"]}`,
	})
	if err != nil {
		t.Fatalf("RecordFeedback: %v", err)
	}
}

func TestPurgeOldHistory(t *testing.T) {
	db := openTestDB(t)

	old := models.HistoryEntry{
		WorkflowID: "wf_1", TaskID: "task_1", Agent: "worker_agent",
		Timestamp: time.Now().Add(-48 * time.Hour), Status: "completed",
	}
	fresh := models.HistoryEntry{
		WorkflowID: "wf_1", TaskID: "task_2", Agent: "worker_agent",
		Timestamp: time.Now(), Status: "completed",
	}
	if err := db.RecordTask(old); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordTask(fresh); err != nil {
		t.Fatal(err)
	}

	purged, err := db.PurgeOldHistory(24 * time.Hour)
	if err != nil {
		t.Fatalf("PurgeOldHistory: %v", err)
	}
	if purged != 1 {
		t.Errorf("expected 1 purged, got %d", purged)
	}

	remaining, err := db.HistoryForWorkflow("wf_1")
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 || remaining[0].TaskID != "task_2" {
		t.Errorf("unexpected remaining entries %v", remaining)
	}
}

func TestHistoryDBPath(t *testing.T) {
	got := HistoryDBPath("/tmp/ws")
	want := filepath.Join("/tmp/ws", "history.db")
	if got != want {
		t.Errorf("HistoryDBPath = %q, want %q", got, want)
	}
}
