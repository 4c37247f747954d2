package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/assessment-recommender/internal/jobs"
	"github.com/gcbaptista/assessment-recommender/model"
)

type jobMetricsProvider interface {
	GetMetrics() jobs.JobMetricsData
}

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	if api.jobs == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeNotSupported, "Job management not enabled")
		return
	}

	jobID := c.Param("jobId")
	job, err := api.jobs.GetJob(jobID)
	if err != nil {
		SendJobNotFoundError(c, jobID)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler handles requests to list jobs, optionally filtered by status
func (api *API) ListJobsHandler(c *gin.Context) {
	if api.jobs == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeNotSupported, "Job management not enabled")
		return
	}

	var statusFilter *model.JobStatus
	if statusParam := c.Query("status"); statusParam != "" {
		status := model.JobStatus(statusParam)
		statusFilter = &status
	}

	jobList := api.jobs.ListJobs(statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobList,
		"total": len(jobList),
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	provider, ok := api.jobs.(jobMetricsProvider)
	if !ok {
		SendError(c, http.StatusNotImplemented, ErrorCodeNotSupported, "Job metrics not supported")
		return
	}

	metrics := provider.GetMetrics()
	c.JSON(http.StatusOK, gin.H{
		"metrics":          metrics,
		"success_rate":     metrics.SuccessRate,
		"current_workload": metrics.JobsByStatus[model.JobStatusRunning],
	})
}
