package service

import (
	"context"
	"fmt"
	"time"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/model"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/pkg/logger"
)

// Input bounds for submissions and evaluations
const (
	MaxScore          = 100
	MinEvaluationDays = 1
	MaxEvaluationDays = 30
)

// LedgerService owns project submission and the public read surface
// over project records.
type LedgerService struct {
	store          *Store
	provider       Provider
	serviceAccount string
}

func NewLedgerService(store *Store, provider Provider, serviceAccount string) *LedgerService {
	return &LedgerService{
		store:          store,
		provider:       provider,
		serviceAccount: serviceAccount,
	}
}

// SubmitProjectInput carries the plaintext submission parameters.
// The four scalars never leave this process unencrypted.
type SubmitProjectInput struct {
	ProjectHash     string
	EstimatedCost   uint64
	ExpectedROI     uint64
	RiskScore       uint64
	ConfidenceLevel uint64
	EvaluationDays  int
}

// SubmitProject validates the submission, encrypts its scalars and
// creates the project record. Returns the assigned sequential id.
func (s *LedgerService) SubmitProject(ctx context.Context, caller string, in SubmitProjectInput) (uint64, error) {
	if !s.store.IsAuthorized(caller) {
		return 0, model.ErrUnauthorized
	}
	if in.RiskScore > MaxScore || in.ConfidenceLevel > MaxScore {
		return 0, model.ErrInvalidParameter
	}
	if in.EvaluationDays < MinEvaluationDays || in.EvaluationDays > MaxEvaluationDays {
		return 0, model.ErrInvalidParameter
	}

	cost, err := s.encryptForSubmitter(ctx, in.EstimatedCost, caller)
	if err != nil {
		return 0, err
	}
	roi, err := s.encryptForSubmitter(ctx, in.ExpectedROI, caller)
	if err != nil {
		return 0, err
	}
	risk, err := s.encryptForSubmitter(ctx, in.RiskScore, caller)
	if err != nil {
		return 0, err
	}
	confidence, err := s.encryptForSubmitter(ctx, in.ConfidenceLevel, caller)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	project := &model.Project{
		ProjectHash:      in.ProjectHash,
		EstimatedCost:    cost,
		ExpectedROI:      roi,
		RiskScore:        risk,
		ConfidenceLevel:  confidence,
		Proposer:         caller,
		SubmissionTime:   now,
		DecisionDeadline: now.Add(time.Duration(in.EvaluationDays) * 24 * time.Hour),
	}
	id := s.store.CreateProject(project)

	logger.Info(ctx, "project submitted",
		"project_id", id,
		"proposer", caller,
		"project_hash", in.ProjectHash,
		"evaluation_days", in.EvaluationDays,
	)
	return id, nil
}

// encryptForSubmitter encrypts one scalar and grants read access to
// the workflow service account and the submitter
func (s *LedgerService) encryptForSubmitter(ctx context.Context, value uint64, submitter string) (model.Handle, error) {
	handle, err := s.provider.Encrypt(ctx, value)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt value: %w", err)
	}
	if err := s.provider.GrantAccess(ctx, handle, s.serviceAccount); err != nil {
		return "", fmt.Errorf("failed to grant service access: %w", err)
	}
	if err := s.provider.GrantAccess(ctx, handle, submitter); err != nil {
		return "", fmt.Errorf("failed to grant submitter access: %w", err)
	}
	return handle, nil
}

// GetProjectInfo returns the public projection of a project. An
// unknown id yields the zero-valued projection, matching the write
// side where id 0 is never assigned.
func (s *LedgerService) GetProjectInfo(id uint64) model.ProjectInfo {
	p := s.store.GetProject(id)
	if p == nil {
		return model.ProjectInfo{}
	}
	return model.ProjectInfo{
		ID:               p.ID,
		ProjectHash:      p.ProjectHash,
		IsActive:         p.IsActive(),
		DecisionMade:     p.DecisionMade(),
		Proposer:         p.Proposer,
		SubmissionTime:   p.SubmissionTime,
		DecisionDeadline: p.DecisionDeadline,
		EvaluatorCount:   len(p.Evaluators),
	}
}

// Evaluators returns the project's evaluator sequence in evaluation
// order
func (s *LedgerService) Evaluators(id uint64) []string {
	return s.store.Evaluators(id)
}

// NextProjectID returns the id the next submission will receive
func (s *LedgerService) NextProjectID() uint64 {
	return s.store.NextProjectID()
}

// OpenProjectCount returns how many projects are currently accepting
// evaluations
func (s *LedgerService) OpenProjectCount() int {
	return s.store.OpenProjectCount(time.Now())
}
