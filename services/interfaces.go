package services

import (
	"context"

	"github.com/gcbaptista/assessment-recommender/model"
)

// RecommendRequest is the body of a recommend call
type RecommendRequest struct {
	Query *string `json:"query"` // Pointer so a missing field is distinguishable from an empty one
}

// RecommendResponse is the result envelope of a recommend call
type RecommendResponse struct {
	RecommendedAssessments []model.Assessment `json:"recommended_assessments"`
}

// ReloadResponse is returned when a corpus reload has been scheduled
type ReloadResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	JobID   string `json:"job_id"`
}

// Recommender answers free-text recommendation queries
type Recommender interface {
	Recommend(ctx context.Context, query string) ([]model.Assessment, error)
}

// CorpusStatsProvider describes the corpus snapshot currently serving requests
type CorpusStatsProvider interface {
	Stats() model.CorpusStats
}

// CorpusReloader rebuilds the served corpus
type CorpusReloader interface {
	CorpusStatsProvider
	Reload(ctx context.Context) (model.CorpusStats, error)
	ReloadAsync() (string, error) // Returns job ID
}

// RecommendationEngine is the full engine surface used by the HTTP layer
type RecommendationEngine interface {
	Recommender
	CorpusReloader
}

// JobManager defines operations for inspecting background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
}

// AnalyticsTracker records recommend requests and reports on them
type AnalyticsTracker interface {
	TrackRecommendEvent(event model.RecommendEvent)
	GetSummary() model.AnalyticsSummary
}
