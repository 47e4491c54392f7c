package service

import (
	"context"
	"fmt"
	"time"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/model"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/pkg/logger"
	"github.com/google/uuid"
)

// DecisionService drives the two-phase decision state machine: an
// owner-triggered disclosure request, then the provider's
// asynchronous resolution. The round trip is correlated through a
// fresh UUID per request, held in the store's pending table until the
// response is accepted.
type DecisionService struct {
	store        *Store
	provider     Provider
	ownerAccount string
}

func NewDecisionService(store *Store, provider Provider, ownerAccount string) *DecisionService {
	return &DecisionService{
		store:        store,
		provider:     provider,
		ownerAccount: ownerAccount,
	}
}

// TriggerDecision requests disclosure of a project's encrypted
// scalars once its evaluation window has closed. Owner-only; the sole
// open -> awaiting_disclosure transition. Returns the request id that
// will correlate the provider's response.
func (s *DecisionService) TriggerDecision(ctx context.Context, caller string, projectID uint64) (string, error) {
	if caller != s.ownerAccount {
		return "", model.ErrUnauthorized
	}

	p := s.store.GetProject(projectID)
	if p == nil {
		return "", model.ErrProjectNotActive
	}
	switch p.State {
	case model.StateDecided:
		return "", model.ErrAlreadyDecided
	case model.StateAwaitingDisclosure:
		return "", model.ErrProjectNotActive
	}
	if time.Now().Before(p.DecisionDeadline) {
		return "", model.ErrWindowStillOpen
	}
	if len(p.Evaluators) == 0 {
		return "", model.ErrNoEvaluations
	}

	requestID := uuid.New().String()
	handles := []model.Handle{p.EstimatedCost, p.ExpectedROI, p.RiskScore, p.ConfidenceLevel}
	if err := s.provider.RequestDisclosure(ctx, requestID, handles); err != nil {
		return "", fmt.Errorf("failed to request disclosure: %w", err)
	}

	if err := s.store.MarkAwaitingDisclosure(projectID, requestID, time.Now()); err != nil {
		return "", err
	}

	logger.Info(ctx, "disclosure requested",
		"project_id", projectID,
		"disclosure_request_id", requestID,
		"evaluator_count", len(p.Evaluators),
	)
	return requestID, nil
}

// ResolveDisclosure consumes the provider's disclosure response and
// commits the terminal decision. The proof is verified before any
// state changes: an unverified disclosure must never influence a
// decision, so a bad proof leaves the project awaiting and the
// pending entry intact for a retried callback.
func (s *DecisionService) ResolveDisclosure(ctx context.Context, requestID string, values model.DisclosedValues, proof string) (*model.Decision, error) {
	pd := s.store.GetPendingDisclosure(requestID)
	if pd == nil {
		return nil, model.ErrUnknownRequest
	}
	if !s.provider.VerifyDisclosure(requestID, values, proof) {
		return nil, model.ErrDisclosureVerificationFailed
	}

	p := s.store.GetProject(pd.ProjectID)
	if p == nil {
		return nil, model.ErrProjectNotActive
	}

	evaluators := s.store.Evaluators(pd.ProjectID)
	approved := EvaluateApproval(values, len(evaluators))

	decision := &model.Decision{
		Approved:         approved,
		DecisionTime:     time.Now(),
		TotalEvaluations: len(evaluators),
	}

	if approved {
		budget, err := s.encryptForProposer(ctx, values.EstimatedCost, p.Proposer)
		if err != nil {
			return nil, err
		}
		roiTarget, err := s.encryptForProposer(ctx, values.ExpectedROI, p.Proposer)
		if err != nil {
			return nil, err
		}
		decision.ApprovedBudget = budget
		decision.FinalROITarget = roiTarget
		decision.ApprovedBy = evaluators
	}

	if err := s.store.CommitDecision(requestID, decision); err != nil {
		return nil, err
	}

	logger.Info(ctx, "decision committed",
		"project_id", pd.ProjectID,
		"disclosure_request_id", requestID,
		"approved", approved,
		"total_evaluations", decision.TotalEvaluations,
	)
	return decision, nil
}

// encryptForProposer encrypts one approved outcome value and grants
// read access to the proposer
func (s *DecisionService) encryptForProposer(ctx context.Context, value uint64, proposer string) (model.Handle, error) {
	handle, err := s.provider.Encrypt(ctx, value)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt outcome: %w", err)
	}
	if err := s.provider.GrantAccess(ctx, handle, proposer); err != nil {
		return "", fmt.Errorf("failed to grant proposer access: %w", err)
	}
	return handle, nil
}

// GetDecision returns the terminal decision for a project, or nil
func (s *DecisionService) GetDecision(projectID uint64) *model.Decision {
	return s.store.GetDecision(projectID)
}
