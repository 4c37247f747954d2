package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/assessment-recommender/config"
	"github.com/gcbaptista/assessment-recommender/internal/analytics"
	"github.com/gcbaptista/assessment-recommender/services"
)

// Dependencies are the collaborators the HTTP layer is wired with.
// Jobs and Analytics are optional.
type Dependencies struct {
	Engine    services.RecommendationEngine
	Jobs      services.JobManager
	Analytics services.AnalyticsTracker
	Server    config.ServerSettings
	Logger    *slog.Logger
}

// API holds dependencies for API handlers, primarily the recommendation engine.
type API struct {
	engine    services.RecommendationEngine
	jobs      services.JobManager
	analytics services.AnalyticsTracker
	server    config.ServerSettings
	logger    *slog.Logger
}

// NewAPI creates a new API handler structure.
func NewAPI(deps Dependencies) *API {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracker := deps.Analytics
	if tracker == nil {
		tracker = analytics.NewService(deps.Engine)
	}
	server := deps.Server
	if server.RequestTimeoutSec <= 0 {
		server.RequestTimeoutSec = config.Default().Server.RequestTimeoutSec
	}
	return &API{
		engine:    deps.Engine,
		jobs:      deps.Jobs,
		analytics: tracker,
		server:    server,
		logger:    logger.With("component", "api"),
	}
}

// SetupRoutes defines all the API routes for the recommender.
func SetupRoutes(router *gin.Engine, deps Dependencies) *API {
	apiHandler := NewAPI(deps)

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Recommendation route
	router.POST("/recommend", apiHandler.RecommendHandler)

	// Analytics route
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)

	// Corpus management routes
	corpusRoutes := router.Group("/corpus")
	{
		corpusRoutes.GET("", apiHandler.GetCorpusHandler)           // Stats of the serving snapshot
		corpusRoutes.POST("/reload", apiHandler.ReloadCorpusHandler) // Rebuild the snapshot in the background
	}

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)              // List jobs, optionally by status
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler) // Get job performance metrics
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)         // Get job status by ID
	}

	return apiHandler
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// GetCorpusHandler reports statistics of the snapshot currently serving requests
func (api *API) GetCorpusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.engine.Stats())
}

// ReloadCorpusHandler schedules a corpus reload and returns its job ID
func (api *API) ReloadCorpusHandler(c *gin.Context) {
	jobID, err := api.engine.ReloadAsync()
	if err != nil {
		SendJobExecutionError(c, "corpus reload", err)
		return
	}

	c.JSON(http.StatusAccepted, services.ReloadResponse{
		Status:  "accepted",
		Message: "Corpus reload started",
		JobID:   jobID,
	})
}
