package embedding

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/gcbaptista/assessment-recommender/internal/persistence"
)

const vectorKeyPrefix = "vec:"

// Cached stores vectors produced by an inner embedder in BadgerDB, so a corpus
// reload or process restart only embeds texts it has not seen before.
// Keys are derived from a namespace naming the backend and model; changing
// either invalidates the cache.
type Cached struct {
	inner     Embedder
	db        *badger.DB
	namespace string
	logger    *slog.Logger
}

// CacheOption configures a Cached embedder.
type CacheOption func(*Cached)

// WithCacheLogger sets the logger. Default is slog.Default().
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cached) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// badgerLoggerAdapter adapts slog.Logger to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// NewCached opens (or creates) a cache at dir. An empty dir keeps the cache in memory.
func NewCached(inner Embedder, dir, namespace string, opts ...CacheOption) (*Cached, error) {
	c := &Cached{inner: inner, namespace: namespace, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "embedding-cache")

	var badgerOpts badger.Options
	if dir == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
		}
		badgerOpts = badger.DefaultOptions(dir)
	}
	badgerOpts.Logger = &badgerLoggerAdapter{logger: c.logger}
	badgerOpts.Compression = options.None

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	c.db = db
	return c, nil
}

// Close closes the underlying database.
func (c *Cached) Close() error {
	return c.db.Close()
}

func (c *Cached) key(text string) []byte {
	sum := sha256.Sum256([]byte(c.namespace + "\x00" + text))
	return append([]byte(vectorKeyPrefix), sum[:]...)
}

// EmbedText implements Embedder.
func (c *Cached) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts implements Embedder. Only cache misses are sent to the inner
// embedder, in a single batch.
func (c *Cached) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var (
		missTexts   []string
		missIndices []int
	)

	err := c.db.View(func(tx *badger.Txn) error {
		for i, text := range texts {
			item, err := tx.Get(c.key(text))
			if errors.Is(err, badger.ErrKeyNotFound) {
				missTexts = append(missTexts, text)
				missIndices = append(missIndices, i)
				continue
			}
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				vec, decodeErr := persistence.DecodeVector(val)
				if decodeErr != nil {
					return decodeErr
				}
				vectors[i] = vec
				return nil
			})
			if err != nil {
				c.logger.Warn("discarding unreadable cache entry", "err", err)
				missTexts = append(missTexts, text)
				missIndices = append(missIndices, i)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cache lookup failed: %w", err)
	}

	if len(missTexts) == 0 {
		return vectors, nil
	}
	c.logger.Debug("embedding cache misses", "hits", len(texts)-len(missTexts), "misses", len(missTexts))

	computed, err := c.inner.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(computed) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(computed), len(missTexts))
	}

	batch := c.db.NewWriteBatch()
	defer batch.Cancel()
	for j, vec := range computed {
		vectors[missIndices[j]] = vec
		data, encodeErr := persistence.EncodeVector(vec)
		if encodeErr != nil {
			return nil, encodeErr
		}
		if err := batch.Set(c.key(missTexts[j]), data); err != nil {
			return nil, fmt.Errorf("cache write failed: %w", err)
		}
	}
	if err := batch.Flush(); err != nil {
		// The vectors are valid even if persisting them failed
		c.logger.Warn("failed to persist embeddings", "err", err)
	}

	return vectors, nil
}
