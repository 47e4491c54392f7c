package handler

import (
	"net/http"
	"strconv"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/middleware"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/service"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	ledger     *service.LedgerService
	evaluation *service.EvaluationService
	decision   *service.DecisionService
}

func NewProjectHandler(ledger *service.LedgerService, evaluation *service.EvaluationService, decision *service.DecisionService) *ProjectHandler {
	return &ProjectHandler{
		ledger:     ledger,
		evaluation: evaluation,
		decision:   decision,
	}
}

type SubmitProjectRequest struct {
	ProjectHash     string `json:"project_hash" binding:"required"`
	EstimatedCost   uint64 `json:"estimated_cost"`
	ExpectedROI     uint64 `json:"expected_roi"`
	RiskScore       uint64 `json:"risk_score"`
	ConfidenceLevel uint64 `json:"confidence_level"`
	EvaluationDays  int    `json:"evaluation_days" binding:"required"`
}

// Submit handles project submission by an authorized investor
func (h *ProjectHandler) Submit(c *gin.Context) {
	var req SubmitProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	caller := middleware.GetAccount(c)
	id, err := h.ledger.SubmitProject(c.Request.Context(), caller, service.SubmitProjectInput{
		ProjectHash:     req.ProjectHash,
		EstimatedCost:   req.EstimatedCost,
		ExpectedROI:     req.ExpectedROI,
		RiskScore:       req.RiskScore,
		ConfidenceLevel: req.ConfidenceLevel,
		EvaluationDays:  req.EvaluationDays,
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           id,
		"project_hash": req.ProjectHash,
		"proposer":     caller,
	})
}

// parseProjectID parses the :id path parameter
func parseProjectID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return 0, false
	}
	return id, true
}

// Get returns the public projection of a project. An unknown id
// yields the zero-valued projection rather than 404.
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.ledger.GetProjectInfo(id))
}

// Evaluators returns the project's evaluator list in evaluation order
func (h *ProjectHandler) Evaluators(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}

	evaluators := h.ledger.Evaluators(id)
	if evaluators == nil {
		evaluators = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"project_id": id, "evaluators": evaluators})
}

// HasEvaluated reports whether an account already evaluated a project
func (h *ProjectHandler) HasEvaluated(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}
	account := c.Param("account")

	c.JSON(http.StatusOK, gin.H{
		"project_id": id,
		"account":    account,
		"evaluated":  h.evaluation.HasEvaluated(id, account),
	})
}

// Decision returns the terminal decision for a project
func (h *ProjectHandler) Decision(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}

	decision := h.decision.GetDecision(id)
	if decision == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No decision for project"})
		return
	}

	c.JSON(http.StatusOK, decision)
}

// NextID returns the id the next submission will receive
func (h *ProjectHandler) NextID(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"next_id": h.ledger.NextProjectID()})
}

// OpenCount returns how many projects are currently accepting
// evaluations
func (h *ProjectHandler) OpenCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"open_projects": h.ledger.OpenProjectCount()})
}
