package model

import (
	"time"
)

// Decision is the terminal outcome for a project. Written exactly
// once, never mutated. Rejected decisions carry empty budget/ROI
// handles and an empty ApprovedBy list.
type Decision struct {
	ProjectID        uint64    `json:"project_id"`
	Approved         bool      `json:"approved"`
	ApprovedBudget   Handle    `json:"approved_budget,omitempty"`
	FinalROITarget   Handle    `json:"final_roi_target,omitempty"`
	DecisionTime     time.Time `json:"decision_time"`
	TotalEvaluations int       `json:"total_evaluations"`
	ApprovedBy       []string  `json:"approved_by,omitempty"`
}

// PendingDisclosure correlates an in-flight disclosure request to the
// project that initiated it. Each entry is consumed exactly once.
type PendingDisclosure struct {
	RequestID   string    `json:"request_id"`
	ProjectID   uint64    `json:"project_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// DisclosedValues are the plaintext project scalars released by the
// provider when a disclosure resolves.
type DisclosedValues struct {
	EstimatedCost   uint64 `json:"estimated_cost"`
	ExpectedROI     uint64 `json:"expected_roi"`
	RiskScore       uint64 `json:"risk_score"`
	ConfidenceLevel uint64 `json:"confidence_level"`
}
