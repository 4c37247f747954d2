// Package analytics records recommend requests and summarizes them for the
// analytics endpoint. Data is kept in memory only.
package analytics

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gcbaptista/assessment-recommender/model"
	"github.com/gcbaptista/assessment-recommender/services"
)

const (
	maxEventsToKeep   = 10000 // Keep last 10k events for performance
	popularQueryLimit = 5
)

// Service implements analytics tracking and reporting
type Service struct {
	mutex  sync.RWMutex
	events []model.RecommendEvent
	corpus services.CorpusStatsProvider
	now    func() time.Time
}

// NewService creates a new analytics service. corpus may be nil.
func NewService(corpus services.CorpusStatsProvider) *Service {
	return &Service{
		events: make([]model.RecommendEvent, 0),
		corpus: corpus,
		now:    time.Now,
	}
}

// TrackRecommendEvent records a recommend request
func (s *Service) TrackRecommendEvent(event model.RecommendEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}
}

// GetSummary aggregates the tracked events
func (s *Service) GetSummary() model.AnalyticsSummary {
	s.mutex.RLock()
	events := make([]model.RecommendEvent, len(s.events))
	copy(events, s.events)
	s.mutex.RUnlock()

	summary := model.AnalyticsSummary{
		TotalRequests:            len(events),
		FailuresByKind:           make(map[string]int),
		AvgResponseTime:          calculateAvgResponseTime(events),
		PopularQueries:           getPopularQueries(events),
		ResponseTimeDistribution: getResponseTimeDistribution(events),
	}

	for _, event := range events {
		switch {
		case event.ErrorKind != "":
			summary.FailedRequests++
			summary.FailuresByKind[event.ErrorKind]++
		case event.ResultCount == 0:
			summary.EmptyResults++
		}
	}

	if s.corpus != nil {
		stats := s.corpus.Stats()
		summary.Corpus = &stats
	}
	return summary
}

// calculateAvgResponseTime returns the mean response time in milliseconds
func calculateAvgResponseTime(events []model.RecommendEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Milliseconds()
}

// getPopularQueries returns the most frequent queries, case and spacing insensitive
func getPopularQueries(events []model.RecommendEvent) []model.PopularQuery {
	queryCounts := make(map[string]int)
	for _, event := range events {
		query := strings.Join(strings.Fields(strings.ToLower(event.Query)), " ")
		if query != "" {
			queryCounts[query]++
		}
	}

	popular := make([]model.PopularQuery, 0, len(queryCounts))
	for query, count := range queryCounts {
		popular = append(popular, model.PopularQuery{Query: query, Count: count})
	}

	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Count != popular[j].Count {
			return popular[i].Count > popular[j].Count
		}
		return popular[i].Query < popular[j].Query
	})

	if len(popular) > popularQueryLimit {
		popular = popular[:popularQueryLimit]
	}
	return popular
}

// getResponseTimeDistribution buckets response times
func getResponseTimeDistribution(events []model.RecommendEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	for _, event := range events {
		ms := event.ResponseTime.Milliseconds()
		switch {
		case ms <= 25:
			dist.Bucket0To25ms++
		case ms <= 50:
			dist.Bucket25To50ms++
		case ms <= 100:
			dist.Bucket50To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}
	return dist
}
