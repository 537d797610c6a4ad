package state

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

// RecordTask inserts one task execution record. A missing ID is filled in.
func (db *DB) RecordTask(entry models.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		INSERT INTO task_history (id, workflow_id, task_id, agent, timestamp, status, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.WorkflowID, entry.TaskID, entry.Agent,
		formatTime(entry.Timestamp), entry.Status, entry.Message)
	if err != nil {
		return fmt.Errorf("record task history: %w", err)
	}
	return nil
}

// RecordFeedback inserts one feedback record for a workflow.
func (db *DB) RecordFeedback(workflowID string, entry models.FeedbackEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		INSERT INTO feedback_history (id, workflow_id, feedback, analysis, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.New().String(), workflowID, entry.Feedback, entry.Analysis, formatTime(entry.Timestamp))
	if err != nil {
		return fmt.Errorf("record feedback history: %w", err)
	}
	return nil
}

// HistoryForWorkflow returns all task records for a workflow, oldest first.
func (db *DB) HistoryForWorkflow(workflowID string) ([]models.HistoryEntry, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query(`
		SELECT id, workflow_id, task_id, agent, timestamp, status, message
		FROM task_history
		WHERE workflow_id = ?
		ORDER BY timestamp ASC, id ASC
	`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("query task history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		var ts string
		if err := rows.Scan(&e.ID, &e.WorkflowID, &e.TaskID, &e.Agent, &ts, &e.Status, &e.Message); err != nil {
			return nil, fmt.Errorf("scan task history: %w", err)
		}
		if t, err := parseTime(ts); err == nil {
			e.Timestamp = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByStatus returns how many task records for a workflow have the
// given status.
func (db *DB) CountByStatus(workflowID, status string) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var count int
	row := db.conn.QueryRow(`
		SELECT COUNT(*) FROM task_history WHERE workflow_id = ? AND status = ?
	`, workflowID, status)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count task history: %w", err)
	}
	return count, nil
}

// PurgeOldHistory deletes task records older than the given duration and
// returns the number deleted.
func (db *DB) PurgeOldHistory(olderThan time.Duration) (int64, error) {
	cutoff := formatTime(time.Now().Add(-olderThan))

	db.mu.Lock()
	defer db.mu.Unlock()

	result, err := db.conn.Exec(`DELETE FROM task_history WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge task history: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return count, nil
}
