package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/assessment-recommender/internal/corpus"
	apperrors "github.com/gcbaptista/assessment-recommender/internal/errors"
	"github.com/gcbaptista/assessment-recommender/internal/vectorindex"
	"github.com/gcbaptista/assessment-recommender/model"
)

// Snapshot is an immutable corpus generation: the documents and the semantic
// index built over their content text. Index position i is Documents[i].
type Snapshot struct {
	ID        string
	Source    string
	BuiltAt   time.Time
	Documents []model.Document
	Index     *vectorindex.FlatIndex
	Report    corpus.LoadReport
}

// Stats summarizes the snapshot.
func (s *Snapshot) Stats() model.CorpusStats {
	return model.CorpusStats{
		SnapshotID:      s.ID,
		Source:          s.Source,
		BuiltAt:         s.BuiltAt,
		RecordsRead:     s.Report.Records,
		Documents:       len(s.Documents),
		Ineligible:      s.Report.Ineligible,
		Malformed:       s.Report.Malformed,
		DuplicateURLs:   s.Report.DuplicateURLs,
		VectorDimension: s.Index.Dim(),
	}
}

// buildSnapshot loads documents from the engine source and embeds them.
// progress may be nil.
func (e *Engine) buildSnapshot(ctx context.Context, progress func(stage string)) (*Snapshot, error) {
	report := func(stage string) {
		if progress != nil {
			progress(stage)
		}
	}

	report("loading corpus")
	docs, loadReport, err := e.source()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, apperrors.NewEmptyCorpusError(e.sourceName, loadReport.Records)
	}

	report("building semantic index")
	texts := make([]string, len(docs))
	for i := range docs {
		texts[i] = docs[i].ContentText
	}
	index, err := vectorindex.Build(ctx, e.embedder, texts, vectorindex.BuildOptions{
		BatchSize: e.settings.Embedding.BatchSize,
		Workers:   e.settings.Embedding.Workers,
		Logger:    e.logger,
	})
	if err != nil {
		return nil, apperrors.NewRetrievalError("build index", err)
	}

	return &Snapshot{
		ID:        uuid.New().String(),
		Source:    e.sourceName,
		BuiltAt:   time.Now(),
		Documents: docs,
		Index:     index,
		Report:    loadReport,
	}, nil
}
