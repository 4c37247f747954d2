package model

import "time"

// RecommendEvent represents a single recommend request for analytics tracking
type RecommendEvent struct {
	Query        string        `json:"query"`
	ResponseTime time.Duration `json:"response_time"`
	ResultCount  int           `json:"result_count"`
	ErrorKind    string        `json:"error_kind,omitempty"` // Empty when the request succeeded
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularQuery represents aggregated data for frequently asked queries
type PopularQuery struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To25ms   int `json:"bucket_0_25ms"`
	Bucket25To50ms  int `json:"bucket_25_50ms"`
	Bucket50To100ms int `json:"bucket_50_100ms"`
	Bucket100msPlus int `json:"bucket_100ms_plus"`
}

// CorpusStats describes the snapshot currently serving requests
type CorpusStats struct {
	SnapshotID      string    `json:"snapshot_id"`
	Source          string    `json:"source"`
	BuiltAt         time.Time `json:"built_at"`
	RecordsRead     int       `json:"records_read"`
	Documents       int       `json:"documents"`
	Ineligible      int       `json:"ineligible"`
	Malformed       int       `json:"malformed"`
	DuplicateURLs   int       `json:"duplicate_urls"`
	VectorDimension int       `json:"vector_dimension"`
}

// AnalyticsSummary is the payload of the analytics endpoint
type AnalyticsSummary struct {
	TotalRequests            int                      `json:"total_requests"`
	FailedRequests           int                      `json:"failed_requests"`
	FailuresByKind           map[string]int           `json:"failures_by_kind"`
	AvgResponseTime          int64                    `json:"avg_response_time"` // in milliseconds
	EmptyResults             int                      `json:"empty_results"`
	PopularQueries           []PopularQuery           `json:"popular_queries"`
	ResponseTimeDistribution ResponseTimeDistribution `json:"response_time_distribution"`
	Corpus                   *CorpusStats             `json:"corpus,omitempty"`
}
