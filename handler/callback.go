package handler

import (
	"net/http"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/model"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/service"
	"github.com/gin-gonic/gin"
)

// CallbackHandler receives disclosure resolutions from the
// confidential computation provider.
type CallbackHandler struct {
	decision *service.DecisionService
}

func NewCallbackHandler(decision *service.DecisionService) *CallbackHandler {
	return &CallbackHandler{decision: decision}
}

// DisclosureCallbackRequest is the provider's callback payload. Proof
// is the disclosure checksum verified against the shared seed before
// any state changes.
type DisclosureCallbackRequest struct {
	RequestID string                `json:"request_id"`
	Values    model.DisclosedValues `json:"values"`
	Proof     string                `json:"proof"`
}

// HandleDisclosure consumes a disclosure response and commits the
// resulting decision
func (h *CallbackHandler) HandleDisclosure(c *gin.Context) {
	var req DisclosureCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.RequestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing request id"})
		return
	}

	decision, err := h.decision.ResolveDisclosure(c.Request.Context(), req.RequestID, req.Values, req.Proof)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project_id": decision.ProjectID,
		"approved":   decision.Approved,
	})
}
