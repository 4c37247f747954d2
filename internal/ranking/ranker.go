// Package ranking orders scored candidates and projects them to the
// response shape.
package ranking

import (
	"sort"

	"github.com/gcbaptista/assessment-recommender/model"
)

// DefaultLimit is used when Rank is called with a non-positive limit.
const DefaultLimit = 10

// Rank sorts candidates by FinalScore descending, keeps the first limit and
// returns them as assessments. Equal scores keep their retrieval order.
// The input slice is not modified.
func Rank(candidates []model.Candidate, limit int) []model.Assessment {
	if limit <= 0 {
		limit = DefaultLimit
	}

	sorted := make([]model.Candidate, len(candidates))
	copy(sorted, candidates)

	// Sort by retrieval position first so the stable sort below breaks score
	// ties by retrieval order even when callers pass candidates shuffled.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FinalScore > sorted[j].FinalScore
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	results := make([]model.Assessment, 0, len(sorted))
	for _, c := range sorted {
		if c.Document == nil {
			continue
		}
		results = append(results, c.Document.ToAssessment())
	}
	return results
}
