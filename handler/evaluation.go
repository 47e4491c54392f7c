package handler

import (
	"net/http"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/middleware"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/service"
	"github.com/gin-gonic/gin"
)

type EvaluationHandler struct {
	evaluation *service.EvaluationService
}

func NewEvaluationHandler(evaluation *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluation: evaluation}
}

type SubmitEvaluationRequest struct {
	RatingScore         uint64 `json:"rating_score"`
	PersonalROIEstimate uint64 `json:"personal_roi_estimate"`
	RiskAssessment      uint64 `json:"risk_assessment"`
	EncryptedComments   string `json:"encrypted_comments"`
}

// Submit records the caller's evaluation of a project
func (h *EvaluationHandler) Submit(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}

	var req SubmitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	caller := middleware.GetAccount(c)
	err := h.evaluation.SubmitEvaluation(c.Request.Context(), caller, service.SubmitEvaluationInput{
		ProjectID:           id,
		RatingScore:         req.RatingScore,
		PersonalROIEstimate: req.PersonalROIEstimate,
		RiskAssessment:      req.RiskAssessment,
		EncryptedComments:   req.EncryptedComments,
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project_id": id,
		"evaluator":  caller,
	})
}
