package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/model"
)

const (
	testOwner   = "owner-1"
	testService = "decision-service"
	testSeed    = "test-seed"
)

// fakeProvider is an in-process Provider for service tests. It issues
// sequential handles, records grants and disclosure requests, and
// verifies proofs with the same seed-checksum scheme as the HTTP
// client.
type fakeProvider struct {
	mu          sync.Mutex
	counter     int
	grants      map[model.Handle][]string
	requests    []string
	failEncrypt bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{grants: make(map[model.Handle][]string)}
}

func (f *fakeProvider) Encrypt(_ context.Context, value uint64) (model.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEncrypt {
		return "", fmt.Errorf("encrypt unavailable")
	}
	f.counter++
	return model.Handle(fmt.Sprintf("ct-%d", f.counter)), nil
}

func (f *fakeProvider) GrantAccess(_ context.Context, handle model.Handle, account string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grants[handle] = append(f.grants[handle], account)
	return nil
}

func (f *fakeProvider) RequestDisclosure(_ context.Context, requestID string, handles []model.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, requestID)
	return nil
}

func (f *fakeProvider) VerifyDisclosure(requestID string, values model.DisclosedValues, proof string) bool {
	return proof == testProof(requestID, values)
}

// testProof computes a valid disclosure proof for the fake provider
func testProof(requestID string, values model.DisclosedValues) string {
	data := requestID + testSeed + EncodeDisclosedValues(values)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// authorize marks an account as an authorized investor directly in
// the store
func authorize(s *Store, account string) {
	s.SaveAuthorization(&model.Authorization{
		Account:    account,
		Authorized: true,
		GrantedAt:  time.Now(),
	})
}

// newExpiredProject creates an open project whose evaluation window
// already closed, with the given evaluators attached
func newExpiredProject(s *Store, proposer string, evaluators ...string) uint64 {
	id := s.CreateProject(&model.Project{
		ProjectHash:      "hash-" + proposer,
		EstimatedCost:    "ct-cost",
		ExpectedROI:      "ct-roi",
		RiskScore:        "ct-risk",
		ConfidenceLevel:  "ct-confidence",
		Proposer:         proposer,
		SubmissionTime:   time.Now().Add(-48 * time.Hour),
		DecisionDeadline: time.Now().Add(-time.Hour),
	})
	for _, e := range evaluators {
		s.AppendEvaluation(&model.Evaluation{
			ProjectID:      id,
			Evaluator:      e,
			EvaluationTime: time.Now().Add(-2 * time.Hour),
		})
	}
	return id
}
