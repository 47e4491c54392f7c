package service

import (
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/model"
)

// Approval policy thresholds. All bounds are inclusive.
const (
	MaxApprovedCost    = 1_000_000
	MinApprovedROI     = 15
	MaxApprovedRisk    = 70
	MinConfidenceLevel = 60
	MinEvaluatorCount  = 2
)

// EvaluateApproval is the approval policy: a pure predicate over the
// disclosed project values and the evaluator count. Five independent
// gates; any single failing gate rejects.
func EvaluateApproval(v model.DisclosedValues, evaluatorCount int) bool {
	return v.EstimatedCost <= MaxApprovedCost &&
		v.ExpectedROI >= MinApprovedROI &&
		v.RiskScore <= MaxApprovedRisk &&
		v.ConfidenceLevel >= MinConfidenceLevel &&
		evaluatorCount >= MinEvaluatorCount
}
