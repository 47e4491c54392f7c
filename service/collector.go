package service

import (
	"context"
	"fmt"
	"time"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/model"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/pkg/logger"
)

// EvaluationService collects encrypted evaluator assessments while a
// project's evaluation window is open.
type EvaluationService struct {
	store          *Store
	provider       Provider
	serviceAccount string
}

func NewEvaluationService(store *Store, provider Provider, serviceAccount string) *EvaluationService {
	return &EvaluationService{
		store:          store,
		provider:       provider,
		serviceAccount: serviceAccount,
	}
}

// SubmitEvaluationInput carries one evaluator's plaintext assessment.
// EncryptedComments is an opaque blob produced client-side; the
// workflow stores it without interpretation.
type SubmitEvaluationInput struct {
	ProjectID           uint64
	RatingScore         uint64
	PersonalROIEstimate uint64
	RiskAssessment      uint64
	EncryptedComments   string
}

// SubmitEvaluation records one evaluation for (project, caller).
//
// Preconditions run in a fixed order so a caller always sees the
// first violated check, never an arbitrary one: authorization, then
// project activity, then the window, then the duplicate check, then
// input ranges, then the self-evaluation ban.
func (s *EvaluationService) SubmitEvaluation(ctx context.Context, caller string, in SubmitEvaluationInput) error {
	if !s.store.IsAuthorized(caller) {
		return model.ErrUnauthorized
	}

	p := s.store.GetProject(in.ProjectID)
	if p == nil || p.State != model.StateOpen {
		return model.ErrProjectNotActive
	}
	if time.Now().After(p.DecisionDeadline) {
		return model.ErrEvaluationWindowClosed
	}
	if s.store.HasEvaluated(in.ProjectID, caller) {
		return model.ErrDuplicateEvaluation
	}
	if in.RatingScore > MaxScore || in.RiskAssessment > MaxScore {
		return model.ErrInvalidParameter
	}
	if caller == p.Proposer {
		return model.ErrSelfEvaluationForbidden
	}

	rating, err := s.encryptForEvaluation(ctx, in.RatingScore, caller, p.Proposer)
	if err != nil {
		return err
	}
	roi, err := s.encryptForEvaluation(ctx, in.PersonalROIEstimate, caller, p.Proposer)
	if err != nil {
		return err
	}
	risk, err := s.encryptForEvaluation(ctx, in.RiskAssessment, caller, p.Proposer)
	if err != nil {
		return err
	}

	err = s.store.AppendEvaluation(&model.Evaluation{
		ProjectID:           in.ProjectID,
		Evaluator:           caller,
		RatingScore:         rating,
		PersonalROIEstimate: roi,
		RiskAssessment:      risk,
		EncryptedComments:   in.EncryptedComments,
		EvaluationTime:      time.Now(),
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "evaluation submitted",
		"project_id", in.ProjectID,
		"evaluator", caller,
	)
	return nil
}

// encryptForEvaluation encrypts one scalar and grants read access to
// the workflow service account, the evaluator and the proposer
func (s *EvaluationService) encryptForEvaluation(ctx context.Context, value uint64, evaluator, proposer string) (model.Handle, error) {
	handle, err := s.provider.Encrypt(ctx, value)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt value: %w", err)
	}
	for _, account := range []string{s.serviceAccount, evaluator, proposer} {
		if err := s.provider.GrantAccess(ctx, handle, account); err != nil {
			return "", fmt.Errorf("failed to grant access to %s: %w", account, err)
		}
	}
	return handle, nil
}

// HasEvaluated reports whether account has evaluated the project
func (s *EvaluationService) HasEvaluated(projectID uint64, account string) bool {
	return s.store.HasEvaluated(projectID, account)
}
