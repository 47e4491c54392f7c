package model

import (
	"time"
)

// Handle is an opaque reference to an encrypted value. The plaintext
// behind a handle is held by the confidential computation provider
// until an authorized disclosure.
type Handle string

// ProjectState is the lifecycle state of a project. Transitions only
// move forward: open -> awaiting_disclosure -> decided.
type ProjectState string

const (
	StateOpen               ProjectState = "open"
	StateAwaitingDisclosure ProjectState = "awaiting_disclosure"
	StateDecided            ProjectState = "decided"
)

// Project represents a submitted investment project. The four
// financial scalars are stored only as encrypted handles.
type Project struct {
	ID               uint64       `json:"id"`
	ProjectHash      string       `json:"project_hash"`
	EstimatedCost    Handle       `json:"estimated_cost"`
	ExpectedROI      Handle       `json:"expected_roi"`
	RiskScore        Handle       `json:"risk_score"`
	ConfidenceLevel  Handle       `json:"confidence_level"`
	State            ProjectState `json:"state"`
	Proposer         string       `json:"proposer"`
	SubmissionTime   time.Time    `json:"submission_time"`
	DecisionDeadline time.Time    `json:"decision_deadline"`
	Evaluators       []string     `json:"evaluators"`
}

// IsActive reports whether the project still accepts workflow
// activity, i.e. no decision has been committed yet.
func (p *Project) IsActive() bool {
	return p.State != StateDecided
}

// DecisionMade reports whether the terminal decision exists.
func (p *Project) DecisionMade() bool {
	return p.State == StateDecided
}

// HasEvaluator reports whether account already appears in the
// evaluator sequence.
func (p *Project) HasEvaluator(account string) bool {
	for _, e := range p.Evaluators {
		if e == account {
			return true
		}
	}
	return false
}

// ProjectInfo is the public projection of a project returned by read
// operations. Unknown ids yield the zero value.
type ProjectInfo struct {
	ID               uint64    `json:"id"`
	ProjectHash      string    `json:"project_hash"`
	IsActive         bool      `json:"is_active"`
	DecisionMade     bool      `json:"decision_made"`
	Proposer         string    `json:"proposer"`
	SubmissionTime   time.Time `json:"submission_time"`
	DecisionDeadline time.Time `json:"decision_deadline"`
	EvaluatorCount   int       `json:"evaluator_count"`
}

// Evaluation is one evaluator's encrypted assessment of a project.
// Keyed by (project id, evaluator account); written exactly once.
type Evaluation struct {
	ProjectID           uint64    `json:"project_id"`
	Evaluator           string    `json:"evaluator"`
	RatingScore         Handle    `json:"rating_score"`
	PersonalROIEstimate Handle    `json:"personal_roi_estimate"`
	RiskAssessment      Handle    `json:"risk_assessment"`
	EncryptedComments   string    `json:"encrypted_comments,omitempty"`
	EvaluationTime      time.Time `json:"evaluation_time"`
}

// Authorization records an account's standing as an investor together
// with its encrypted budget ceiling. Maintained by the owner role.
type Authorization struct {
	Account              string    `json:"account"`
	Authorized           bool      `json:"authorized"`
	EncryptedBudgetLimit Handle    `json:"encrypted_budget_limit"`
	GrantedAt            time.Time `json:"granted_at"`
}
