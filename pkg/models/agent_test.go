package models

import "testing"

func TestRecordOutcomeInitializesUnscoredAgent(t *testing.T) {
	a := &AgentInfo{}
	a.RecordOutcome(true)

	if a.UsageCount != 1 {
		t.Errorf("expected usage count 1, got %d", a.UsageCount)
	}
	if a.SuccessRate != 55 {
		t.Errorf("expected success rate 55, got %v", a.SuccessRate)
	}
}

func TestRecordOutcomeClampsAtUpperBound(t *testing.T) {
	a := &AgentInfo{UsageCount: 10, SuccessRate: 98}

	for i := 0; i < 3; i++ {
		a.RecordOutcome(true)
	}

	if a.SuccessRate != 100 {
		t.Errorf("expected success rate clamped to 100, got %v", a.SuccessRate)
	}
	if a.UsageCount != 13 {
		t.Errorf("expected usage count 13, got %d", a.UsageCount)
	}
}

func TestRecordOutcomeClampsAtLowerBound(t *testing.T) {
	a := &AgentInfo{UsageCount: 5, SuccessRate: 3}

	a.RecordOutcome(false)
	if a.SuccessRate != 0 {
		t.Errorf("expected success rate clamped to 0, got %v", a.SuccessRate)
	}

	// Further failures stay at the floor.
	a.RecordOutcome(false)
	if a.SuccessRate != 0 {
		t.Errorf("expected success rate to remain 0, got %v", a.SuccessRate)
	}

	// A success from the floor recovers by one nudge.
	a.RecordOutcome(true)
	if a.SuccessRate != 5 {
		t.Errorf("expected success rate 5, got %v", a.SuccessRate)
	}
}

func TestRecordOutcomeSequenceStaysInRange(t *testing.T) {
	a := &AgentInfo{}
	outcomes := []bool{true, false, false, false, false, false, false, false,
		false, false, false, false, true, true, true}

	for _, ok := range outcomes {
		a.RecordOutcome(ok)
		if a.SuccessRate < 0 || a.SuccessRate > 100 {
			t.Fatalf("success rate %v escaped [0,100]", a.SuccessRate)
		}
	}
}
