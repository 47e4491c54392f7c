package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/model"
)

func validSubmission() SubmitProjectInput {
	return SubmitProjectInput{
		ProjectHash:     "hash-abc",
		EstimatedCost:   500_000,
		ExpectedROI:     20,
		RiskScore:       50,
		ConfidenceLevel: 80,
		EvaluationDays:  5,
	}
}

func TestLedgerSubmitProject(t *testing.T) {
	store := NewStore()
	provider := newFakeProvider()
	ledger := NewLedgerService(store, provider, testService)
	authorize(store, "alice")

	id, err := ledger.SubmitProject(context.Background(), "alice", validSubmission())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id != 1 {
		t.Errorf("Expected first project id 1, got %d", id)
	}

	p := store.GetProject(id)
	if p == nil {
		t.Fatal("Expected project to be stored")
	}
	if p.Proposer != "alice" {
		t.Errorf("Expected proposer alice, got %s", p.Proposer)
	}
	if p.State != model.StateOpen {
		t.Errorf("Expected state open, got %s", p.State)
	}
	if len(p.Evaluators) != 0 {
		t.Error("Expected empty evaluator sequence")
	}

	// Four scalars encrypted, each granted to service and submitter
	for _, h := range []model.Handle{p.EstimatedCost, p.ExpectedROI, p.RiskScore, p.ConfidenceLevel} {
		if h == "" {
			t.Fatal("Expected encrypted handle for every scalar")
		}
		grants := provider.grants[h]
		if len(grants) != 2 || grants[0] != testService || grants[1] != "alice" {
			t.Errorf("Expected grants to [%s alice] for %s, got %v", testService, h, grants)
		}
	}

	// Deadline is submission + evaluation window
	wantDeadline := p.SubmissionTime.Add(5 * 24 * time.Hour)
	if !p.DecisionDeadline.Equal(wantDeadline) {
		t.Errorf("Expected deadline %v, got %v", wantDeadline, p.DecisionDeadline)
	}
}

func TestLedgerSubmitProjectMonotonicIDs(t *testing.T) {
	store := NewStore()
	ledger := NewLedgerService(store, newFakeProvider(), testService)
	authorize(store, "alice")

	var last uint64
	for i := 0; i < 4; i++ {
		id, err := ledger.SubmitProject(context.Background(), "alice", validSubmission())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if id == 0 {
			t.Fatal("Project id 0 must never be assigned")
		}
		if id <= last {
			t.Fatalf("Expected strictly increasing ids, got %d after %d", id, last)
		}
		last = id
	}
}

func TestLedgerSubmitProjectUnauthorized(t *testing.T) {
	store := NewStore()
	ledger := NewLedgerService(store, newFakeProvider(), testService)

	_, err := ledger.SubmitProject(context.Background(), "mallory", validSubmission())
	if !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
	if store.ProjectCount() != 0 {
		t.Error("Expected no project to be created")
	}
}

func TestLedgerSubmitProjectValidation(t *testing.T) {
	store := NewStore()
	ledger := NewLedgerService(store, newFakeProvider(), testService)
	authorize(store, "alice")

	tests := []struct {
		name   string
		mutate func(*SubmitProjectInput)
	}{
		{"risk score over 100", func(in *SubmitProjectInput) { in.RiskScore = 101 }},
		{"confidence over 100", func(in *SubmitProjectInput) { in.ConfidenceLevel = 101 }},
		{"zero evaluation days", func(in *SubmitProjectInput) { in.EvaluationDays = 0 }},
		{"evaluation days over 30", func(in *SubmitProjectInput) { in.EvaluationDays = 31 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSubmission()
			tt.mutate(&in)

			_, err := ledger.SubmitProject(context.Background(), "alice", in)
			if !errors.Is(err, model.ErrInvalidParameter) {
				t.Errorf("Expected ErrInvalidParameter, got %v", err)
			}
		})
	}

	// Boundary values are accepted
	in := validSubmission()
	in.RiskScore = 100
	in.ConfidenceLevel = 100
	in.EvaluationDays = 30
	if _, err := ledger.SubmitProject(context.Background(), "alice", in); err != nil {
		t.Errorf("Expected boundary values to be accepted, got %v", err)
	}

	// Failed validations leave no gap in the id sequence
	if store.NextProjectID() != 2 {
		t.Errorf("Expected next id 2 after one success, got %d", store.NextProjectID())
	}
}

func TestLedgerGetProjectInfo(t *testing.T) {
	store := NewStore()
	ledger := NewLedgerService(store, newFakeProvider(), testService)
	authorize(store, "alice")

	id, err := ledger.SubmitProject(context.Background(), "alice", validSubmission())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	info := ledger.GetProjectInfo(id)
	if info.ID != id || info.Proposer != "alice" || info.ProjectHash != "hash-abc" {
		t.Errorf("Unexpected projection: %+v", info)
	}
	if !info.IsActive || info.DecisionMade {
		t.Error("Expected active project with no decision")
	}

	// Unknown id yields the zero-valued projection
	zero := ledger.GetProjectInfo(999)
	if zero.ID != 0 || zero.Proposer != "" || zero.IsActive {
		t.Errorf("Expected zero-valued projection for unknown id, got %+v", zero)
	}
}

func TestLedgerOpenProjectCount(t *testing.T) {
	store := NewStore()
	ledger := NewLedgerService(store, newFakeProvider(), testService)
	authorize(store, "alice")

	if ledger.OpenProjectCount() != 0 {
		t.Error("Expected 0 open projects initially")
	}

	if _, err := ledger.SubmitProject(context.Background(), "alice", validSubmission()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	newExpiredProject(store, "alice", "bob")

	if got := ledger.OpenProjectCount(); got != 1 {
		t.Errorf("Expected 1 open project, got %d", got)
	}
}
