// Package embedding provides the text-to-vector backends used by the semantic
// index: an OpenAI-compatible remote embedder, an offline hashing embedder, a
// persistent vector cache and a client-side rate limiter.
package embedding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gcbaptista/assessment-recommender/config"
)

// Embedder turns text into dense vectors. Implementations must be safe for
// concurrent use and return vectors of a fixed dimensionality.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// New assembles the embedder described by settings. Remote providers are
// wrapped by the rate limiter when RequestsPerSecond is set, and any provider
// is wrapped by the vector cache when CacheDir is set.
// The returned close function releases the cache and must always be called.
func New(settings config.EmbeddingSettings, logger *slog.Logger) (Embedder, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	noop := func() error { return nil }

	var (
		base      Embedder
		namespace string
	)
	switch settings.Provider {
	case config.EmbeddingHashing:
		base = NewHashing(settings.Dimensions)
		namespace = fmt.Sprintf("hashing/%d", settings.Dimensions)
	case config.EmbeddingOpenAI:
		remote, err := NewOpenAI(settings, logger)
		if err != nil {
			return nil, noop, err
		}
		base = remote
		namespace = fmt.Sprintf("openai/%s/%s", settings.Host, settings.Model)
		if settings.RequestsPerSecond > 0 {
			base = NewThrottled(base, settings.RequestsPerSecond, settings.Burst)
		}
	default:
		return nil, noop, fmt.Errorf("unknown embedding provider '%s'", settings.Provider)
	}

	if settings.CacheDir == "" {
		return base, noop, nil
	}

	cached, err := NewCached(base, settings.CacheDir, namespace, WithCacheLogger(logger))
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open embedding cache: %w", err)
	}
	return cached, cached.Close, nil
}
