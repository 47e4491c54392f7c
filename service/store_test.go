package service

import (
	"errors"
	"testing"
	"time"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/model"
)

func TestStoreCreateProjectAssignsSequentialIDs(t *testing.T) {
	store := NewStore()

	if store.NextProjectID() != 1 {
		t.Fatalf("Expected next id 1, got %d", store.NextProjectID())
	}

	var last uint64
	for i := 0; i < 5; i++ {
		id := store.CreateProject(&model.Project{Proposer: "alice"})
		if id == 0 {
			t.Fatal("Project id 0 must never be assigned")
		}
		if id <= last {
			t.Fatalf("Expected strictly increasing ids, got %d after %d", id, last)
		}
		last = id
	}

	if store.NextProjectID() != 6 {
		t.Errorf("Expected next id 6, got %d", store.NextProjectID())
	}
	if store.ProjectCount() != 5 {
		t.Errorf("Expected 5 projects, got %d", store.ProjectCount())
	}
}

func TestStoreCreateProjectStartsOpen(t *testing.T) {
	store := NewStore()

	id := store.CreateProject(&model.Project{Proposer: "alice"})

	p := store.GetProject(id)
	if p == nil {
		t.Fatal("Expected to retrieve project")
	}
	if p.State != model.StateOpen {
		t.Errorf("Expected state %s, got %s", model.StateOpen, p.State)
	}
	if !p.IsActive() || p.DecisionMade() {
		t.Error("New project must be active with no decision")
	}

	if store.GetProject(999) != nil {
		t.Error("Expected nil for unknown project")
	}
}

func TestStoreAuthorization(t *testing.T) {
	store := NewStore()

	if store.IsAuthorized("alice") {
		t.Error("Expected alice to be unauthorized initially")
	}

	store.SaveAuthorization(&model.Authorization{
		Account:              "alice",
		Authorized:           true,
		EncryptedBudgetLimit: "ct-1",
	})

	if !store.IsAuthorized("alice") {
		t.Error("Expected alice to be authorized")
	}

	// Re-authorizing overwrites the budget limit
	store.SaveAuthorization(&model.Authorization{
		Account:              "alice",
		Authorized:           true,
		EncryptedBudgetLimit: "ct-2",
	})

	a := store.GetAuthorization("alice")
	if a == nil || a.EncryptedBudgetLimit != "ct-2" {
		t.Error("Expected budget limit to be overwritten")
	}
}

func TestStoreAppendEvaluation(t *testing.T) {
	store := NewStore()
	id := store.CreateProject(&model.Project{Proposer: "alice"})

	if err := store.AppendEvaluation(&model.Evaluation{ProjectID: id, Evaluator: "bob"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := store.AppendEvaluation(&model.Evaluation{ProjectID: id, Evaluator: "carol"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	evaluators := store.Evaluators(id)
	if len(evaluators) != 2 || evaluators[0] != "bob" || evaluators[1] != "carol" {
		t.Errorf("Expected [bob carol] in evaluation order, got %v", evaluators)
	}

	if !store.HasEvaluated(id, "bob") {
		t.Error("Expected bob to have evaluated")
	}
	if store.HasEvaluated(id, "dave") {
		t.Error("Expected dave to not have evaluated")
	}
	if store.GetEvaluation(id, "bob") == nil {
		t.Error("Expected to retrieve bob's evaluation")
	}
}

func TestStoreAppendEvaluationDuplicate(t *testing.T) {
	store := NewStore()
	id := store.CreateProject(&model.Project{Proposer: "alice"})

	if err := store.AppendEvaluation(&model.Evaluation{ProjectID: id, Evaluator: "bob"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	err := store.AppendEvaluation(&model.Evaluation{ProjectID: id, Evaluator: "bob"})
	if !errors.Is(err, model.ErrDuplicateEvaluation) {
		t.Errorf("Expected ErrDuplicateEvaluation, got %v", err)
	}

	if len(store.Evaluators(id)) != 1 {
		t.Error("Duplicate must not grow the evaluator sequence")
	}
}

func TestStoreAppendEvaluationInactiveProject(t *testing.T) {
	store := NewStore()

	err := store.AppendEvaluation(&model.Evaluation{ProjectID: 42, Evaluator: "bob"})
	if !errors.Is(err, model.ErrProjectNotActive) {
		t.Errorf("Expected ErrProjectNotActive for unknown project, got %v", err)
	}

	id := store.CreateProject(&model.Project{Proposer: "alice"})
	if err := store.MarkAwaitingDisclosure(id, "req-1", time.Now()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	err = store.AppendEvaluation(&model.Evaluation{ProjectID: id, Evaluator: "bob"})
	if !errors.Is(err, model.ErrProjectNotActive) {
		t.Errorf("Expected ErrProjectNotActive once awaiting disclosure, got %v", err)
	}
}

func TestStoreMarkAwaitingDisclosure(t *testing.T) {
	store := NewStore()
	id := store.CreateProject(&model.Project{Proposer: "alice"})

	if err := store.MarkAwaitingDisclosure(id, "req-1", time.Now()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	p := store.GetProject(id)
	if p.State != model.StateAwaitingDisclosure {
		t.Errorf("Expected state %s, got %s", model.StateAwaitingDisclosure, p.State)
	}

	pd := store.GetPendingDisclosure("req-1")
	if pd == nil || pd.ProjectID != id {
		t.Fatal("Expected pending entry mapping req-1 to the project")
	}
	if store.PendingDisclosureCount() != 1 {
		t.Errorf("Expected 1 pending request, got %d", store.PendingDisclosureCount())
	}

	// Re-entry is rejected
	err := store.MarkAwaitingDisclosure(id, "req-2", time.Now())
	if !errors.Is(err, model.ErrProjectNotActive) {
		t.Errorf("Expected ErrProjectNotActive on re-entry, got %v", err)
	}
	if store.GetPendingDisclosure("req-2") != nil {
		t.Error("Rejected transition must not create a pending entry")
	}

	// Unknown project
	err = store.MarkAwaitingDisclosure(999, "req-3", time.Now())
	if !errors.Is(err, model.ErrProjectNotActive) {
		t.Errorf("Expected ErrProjectNotActive for unknown project, got %v", err)
	}
}

func TestStoreCommitDecision(t *testing.T) {
	store := NewStore()
	id := store.CreateProject(&model.Project{Proposer: "alice"})
	if err := store.MarkAwaitingDisclosure(id, "req-1", time.Now()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	decision := &model.Decision{Approved: true, TotalEvaluations: 2, DecisionTime: time.Now()}
	if err := store.CommitDecision("req-1", decision); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	p := store.GetProject(id)
	if p.State != model.StateDecided {
		t.Errorf("Expected state %s, got %s", model.StateDecided, p.State)
	}
	if p.IsActive() || !p.DecisionMade() {
		t.Error("Decided project must be inactive with decision made")
	}

	got := store.GetDecision(id)
	if got == nil || !got.Approved || got.ProjectID != id {
		t.Fatalf("Expected committed decision for project %d, got %+v", id, got)
	}

	if store.GetPendingDisclosure("req-1") != nil {
		t.Error("Expected pending entry to be consumed")
	}
	if store.PendingDisclosureCount() != 0 {
		t.Errorf("Expected 0 pending requests, got %d", store.PendingDisclosureCount())
	}

	// The entry is consumed exactly once
	err := store.CommitDecision("req-1", &model.Decision{})
	if !errors.Is(err, model.ErrUnknownRequest) {
		t.Errorf("Expected ErrUnknownRequest on second commit, got %v", err)
	}
}

func TestStoreCommitDecisionUnknownRequest(t *testing.T) {
	store := NewStore()

	err := store.CommitDecision("no-such-request", &model.Decision{})
	if !errors.Is(err, model.ErrUnknownRequest) {
		t.Errorf("Expected ErrUnknownRequest, got %v", err)
	}
}

func TestStoreOpenProjectCount(t *testing.T) {
	store := NewStore()
	now := time.Now()

	// Open, inside window
	store.CreateProject(&model.Project{Proposer: "alice", DecisionDeadline: now.Add(time.Hour)})
	// Open, window passed
	store.CreateProject(&model.Project{Proposer: "bob", DecisionDeadline: now.Add(-time.Hour)})
	// Awaiting disclosure
	awaiting := store.CreateProject(&model.Project{Proposer: "carol", DecisionDeadline: now.Add(time.Hour)})
	if err := store.MarkAwaitingDisclosure(awaiting, "req-1", now); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := store.OpenProjectCount(now); got != 1 {
		t.Errorf("Expected 1 open project, got %d", got)
	}

	// Deadline boundary is inclusive
	boundary := store.GetProject(1).DecisionDeadline
	if got := store.OpenProjectCount(boundary); got != 1 {
		t.Errorf("Expected project open exactly at its deadline, got %d", got)
	}
}

func TestStoreEvaluatorsCopy(t *testing.T) {
	store := NewStore()
	id := store.CreateProject(&model.Project{Proposer: "alice"})
	store.AppendEvaluation(&model.Evaluation{ProjectID: id, Evaluator: "bob"})

	evaluators := store.Evaluators(id)
	evaluators[0] = "mallory"

	if store.Evaluators(id)[0] != "bob" {
		t.Error("Mutating the returned slice must not affect the store")
	}

	if store.Evaluators(999) != nil {
		t.Error("Expected nil for unknown project")
	}
}
