package handler

import (
	"net/http"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/middleware"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/service"
	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the owner-only operations: investor
// authorization and decision triggering.
type AdminHandler struct {
	registry *service.RegistryService
	decision *service.DecisionService
}

func NewAdminHandler(registry *service.RegistryService, decision *service.DecisionService) *AdminHandler {
	return &AdminHandler{
		registry: registry,
		decision: decision,
	}
}

type AuthorizeInvestorRequest struct {
	Account     string `json:"account" binding:"required"`
	BudgetLimit uint64 `json:"budget_limit"`
}

// AuthorizeInvestor authorizes an account as an investor with an
// encrypted budget ceiling. Re-authorizing overwrites the ceiling.
func (h *AdminHandler) AuthorizeInvestor(c *gin.Context) {
	var req AuthorizeInvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	caller := middleware.GetAccount(c)
	if err := h.registry.Authorize(c.Request.Context(), caller, req.Account, req.BudgetLimit); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":    req.Account,
		"authorized": true,
	})
}

// AuthorizationStatus returns whether an account is an authorized
// investor. Side-effect-free; available to any authenticated caller.
func (h *AdminHandler) AuthorizationStatus(c *gin.Context) {
	account := c.Param("account")

	c.JSON(http.StatusOK, gin.H{
		"account":    account,
		"authorized": h.registry.IsAuthorized(account),
	})
}

// TriggerDecision requests disclosure for a project whose evaluation
// window has closed
func (h *AdminHandler) TriggerDecision(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}

	caller := middleware.GetAccount(c)
	requestID, err := h.decision.TriggerDecision(c.Request.Context(), caller, id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project_id": id,
		"request_id": requestID,
	})
}
