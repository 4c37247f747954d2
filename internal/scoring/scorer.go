// Package scoring fuses semantic distance and lexical overlap into one
// ranking score per retrieved candidate.
package scoring

import (
	"log/slog"
	"math"

	apperrors "github.com/gcbaptista/assessment-recommender/internal/errors"
	"github.com/gcbaptista/assessment-recommender/internal/tokenizer"
	"github.com/gcbaptista/assessment-recommender/model"
)

// Retrieved is a document returned by the semantic index with its distance.
type Retrieved struct {
	Document *model.Document
	Distance float64
}

// Scorer applies a FusionPolicy to retrieved candidates. It holds no mutable
// state and is safe for concurrent use.
type Scorer struct {
	policy FusionPolicy
	logger *slog.Logger
}

// NewScorer creates a scorer. A nil logger selects slog.Default().
func NewScorer(policy FusionPolicy, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{policy: policy, logger: logger.With("component", "scorer")}
}

// Policy returns the fusion policy in use.
func (s *Scorer) Policy() FusionPolicy {
	return s.policy
}

// Score computes a Candidate for every retrieved document. Position records the
// input order for tie-breaking. Candidates that cannot be scored are skipped and
// returned as ScoringAnomalyErrors; they never abort the request.
func (s *Scorer) Score(retrieved []Retrieved, queryTokens tokenizer.Set) ([]model.Candidate, []error) {
	candidates := make([]model.Candidate, 0, len(retrieved))
	var anomalies []error

	for i, r := range retrieved {
		if reason := validate(r); reason != "" {
			anomaly := apperrors.NewScoringAnomalyError(i, reason)
			s.logger.Warn("skipping candidate", "err", anomaly)
			anomalies = append(anomalies, anomaly)
			continue
		}

		overlap := tokenizer.Intersect(queryTokens, r.Document.Tokens)
		candidates = append(candidates, model.Candidate{
			Document:         r.Document,
			Position:         i,
			SemanticDistance: r.Distance,
			LexicalOverlap:   overlap,
			FinalScore:       s.policy.Fuse(Similarity(r.Distance), overlap, len(queryTokens)),
		})
	}

	return candidates, anomalies
}

func validate(r Retrieved) string {
	switch {
	case r.Document == nil:
		return "missing document"
	case math.IsNaN(r.Distance) || math.IsInf(r.Distance, 0):
		return "non-finite distance"
	case r.Distance < 0:
		return "negative distance"
	default:
		return ""
	}
}
