package handler

import (
	"net/http"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/config"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/middleware"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	config *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{config: cfg}
}

type LoginRequest struct {
	Account  string `json:"account" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Account   string `json:"account"`
	Role      string `json:"role"`
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Find user in config
	user := h.config.FindUser(req.Account)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid account or password"})
		return
	}

	// Simple password check (in production, use bcrypt)
	if user.Password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid account or password"})
		return
	}

	// Generate token
	token, expiresAt, err := middleware.GenerateToken(user.Account, user.Role, &h.config.Auth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z07:00"),
		Account:   user.Account,
		Role:      user.Role,
	})
}

// GetCurrentUser returns the current caller identity
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	account := middleware.GetAccount(c)
	role := middleware.GetRole(c)

	c.JSON(http.StatusOK, gin.H{
		"account": account,
		"role":    role,
	})
}
