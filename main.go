package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/config"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/handler"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/middleware"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/pkg/logger"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/service"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Initialize services
	minioSvc, err := service.NewMinioService(&cfg.Minio)
	if err != nil {
		slog.Error("failed to initialize MINIO service", "error", err)
		os.Exit(1)
	}

	// Ensure bucket exists
	if err := minioSvc.EnsureBucket(context.Background()); err != nil {
		slog.Error("failed to ensure MINIO bucket", "error", err)
		os.Exit(1)
	}

	providerSvc := service.NewProviderService(&cfg.Provider)

	// One store owns every workflow table; no package-level state
	store := service.NewStore()

	registrySvc := service.NewRegistryService(store, providerSvc, cfg.Owner.Account, cfg.Provider.ServiceAccount)
	ledgerSvc := service.NewLedgerService(store, providerSvc, cfg.Provider.ServiceAccount)
	evaluationSvc := service.NewEvaluationService(store, providerSvc, cfg.Provider.ServiceAccount)
	decisionSvc := service.NewDecisionService(store, providerSvc, cfg.Owner.Account)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg)
	documentHandler := handler.NewDocumentHandler(minioSvc)
	projectHandler := handler.NewProjectHandler(ledgerSvc, evaluationSvc, decisionSvc)
	evaluationHandler := handler.NewEvaluationHandler(evaluationSvc)
	adminHandler := handler.NewAdminHandler(registrySvc, decisionSvc)
	callbackHandler := handler.NewCallbackHandler(decisionSvc)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(corsMiddleware())                       // CORS
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/provider/callback", callbackHandler.HandleDisclosure)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)
		protected.POST("/projects/documents", documentHandler.Upload)
		protected.POST("/projects", projectHandler.Submit)
		protected.GET("/projects/next-id", projectHandler.NextID)
		protected.GET("/projects/open-count", projectHandler.OpenCount)
		protected.GET("/projects/:id", projectHandler.Get)
		protected.GET("/projects/:id/evaluators", projectHandler.Evaluators)
		protected.GET("/projects/:id/evaluations/:account", projectHandler.HasEvaluated)
		protected.GET("/projects/:id/decision", projectHandler.Decision)
		protected.POST("/projects/:id/evaluations", evaluationHandler.Submit)
		protected.GET("/accounts/:account/authorization", adminHandler.AuthorizationStatus)
	}

	// Owner-only routes
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireOwner())
	{
		admin.POST("/investors", adminHandler.AuthorizeInvestor)
		admin.POST("/projects/:id/decision", adminHandler.TriggerDecision)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
