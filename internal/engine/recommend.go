package engine

import (
	"context"
	"strings"

	apperrors "github.com/gcbaptista/assessment-recommender/internal/errors"
	"github.com/gcbaptista/assessment-recommender/internal/query"
	"github.com/gcbaptista/assessment-recommender/internal/ranking"
	"github.com/gcbaptista/assessment-recommender/internal/scoring"
	"github.com/gcbaptista/assessment-recommender/model"
)

// Recommend returns up to ResultLimit assessments for a free-text query.
//
// Returns an InputError for an empty query, an EmptyCorpusError when no
// snapshot has been published and a RetrievalError when the query cannot be
// embedded or searched. A failed request never yields a partial list.
func (e *Engine) Recommend(ctx context.Context, raw string) ([]model.Assessment, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.NewInputError("query", "query must not be empty")
	}

	snap := e.snapshot.Load()
	if snap == nil {
		return nil, apperrors.NewEmptyCorpusError(e.sourceName, 0)
	}

	q := e.normalizer.Normalize(raw)

	vec, err := e.embedder.EmbedText(ctx, query.EmbeddingText(q))
	if err != nil {
		return nil, apperrors.NewRetrievalError("embed query", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewRetrievalError("embed query", err)
	}

	neighbors, err := snap.Index.Search(vec, e.settings.CandidatePool)
	if err != nil {
		return nil, apperrors.NewRetrievalError("search", err)
	}

	retrieved := make([]scoring.Retrieved, len(neighbors))
	for i, n := range neighbors {
		retrieved[i] = scoring.Retrieved{Document: &snap.Documents[n.Position], Distance: n.Distance}
	}

	candidates, anomalies := e.scorer.Score(retrieved, q.Tokens)
	results := ranking.Rank(candidates, e.settings.ResultLimit)

	e.logger.Debug("recommendation served",
		"snapshot", snap.ID,
		"query_tokens", len(q.Tokens),
		"retrieved", len(neighbors),
		"anomalies", len(anomalies),
		"results", len(results))
	return results, nil
}
