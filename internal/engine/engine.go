// Package engine wires the recommendation pipeline together.
//
// An Engine serves requests from an immutable Snapshot (documents plus their
// semantic index). Snapshots are built completely off to the side and then
// published with an atomic pointer swap, so concurrent requests always see
// one consistent corpus and never block on a reload.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gcbaptista/assessment-recommender/config"
	"github.com/gcbaptista/assessment-recommender/internal/corpus"
	"github.com/gcbaptista/assessment-recommender/internal/embedding"
	"github.com/gcbaptista/assessment-recommender/internal/jobs"
	"github.com/gcbaptista/assessment-recommender/internal/query"
	"github.com/gcbaptista/assessment-recommender/internal/scoring"
	"github.com/gcbaptista/assessment-recommender/internal/tokenizer"
	"github.com/gcbaptista/assessment-recommender/model"
)

// sourceFunc produces the documents of a new snapshot.
type sourceFunc func() ([]model.Document, corpus.LoadReport, error)

// Engine answers recommendation requests. It is safe for concurrent use.
type Engine struct {
	settings   config.Settings
	embedder   embedding.Embedder
	loader     *corpus.Loader
	normalizer *query.Normalizer
	scorer     *scoring.Scorer
	jobManager *jobs.Manager
	logger     *slog.Logger

	source     sourceFunc
	sourceName string
	debounce   time.Duration

	snapshot atomic.Pointer[Snapshot]
	reloadMu sync.Mutex // serialises snapshot builds
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithJobManager enables asynchronous reloads through ReloadAsync.
func WithJobManager(m *jobs.Manager) Option {
	return func(e *Engine) {
		e.jobManager = m
	}
}

// WithWatchDebounce sets how long Watch waits for file events to settle.
func WithWatchDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.debounce = d
		}
	}
}

// New creates an engine serving the corpus file at settings.CorpusPath and
// builds its first snapshot. An empty corpus is fatal.
func New(ctx context.Context, settings config.Settings, embedder embedding.Embedder, opts ...Option) (*Engine, error) {
	e, err := newEngine(settings, embedder, opts...)
	if err != nil {
		return nil, err
	}
	e.sourceName = settings.CorpusPath
	e.source = func() ([]model.Document, corpus.LoadReport, error) {
		return e.loader.LoadFile(settings.CorpusPath)
	}

	if _, err := e.Reload(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// NewFromRecords creates an engine over an in-memory catalog.
func NewFromRecords(ctx context.Context, settings config.Settings, embedder embedding.Embedder, records []model.CatalogRecord, opts ...Option) (*Engine, error) {
	e, err := newEngine(settings, embedder, opts...)
	if err != nil {
		return nil, err
	}
	e.sourceName = "memory"
	e.source = func() ([]model.Document, corpus.LoadReport, error) {
		docs, report := e.loader.Load(records)
		return docs, report, nil
	}

	if _, err := e.Reload(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func newEngine(settings config.Settings, embedder embedding.Embedder, opts ...Option) (*Engine, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid settings: %v", problems)
	}

	policy, err := scoring.NewPolicy(settings.Fusion)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		settings: settings,
		embedder: embedder,
		logger:   slog.Default(),
		debounce: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(e)
	}

	tok := tokenizer.New(settings.Tokenizer.Stopwords)
	e.loader = corpus.NewLoader(settings.Defaults, corpus.WithLogger(e.logger), corpus.WithTokenizer(tok))
	e.normalizer = query.NewNormalizer(settings.FillerPhrases(), tok)
	e.scorer = scoring.NewScorer(policy, e.logger)
	e.logger = e.logger.With("component", "engine")
	return e, nil
}

// Settings returns the effective settings.
func (e *Engine) Settings() config.Settings {
	return e.settings
}

// Snapshot returns the snapshot currently serving requests.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// Stats describes the snapshot currently serving requests.
func (e *Engine) Stats() model.CorpusStats {
	snap := e.snapshot.Load()
	if snap == nil {
		return model.CorpusStats{Source: e.sourceName}
	}
	return snap.Stats()
}
