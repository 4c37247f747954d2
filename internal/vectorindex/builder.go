package vectorindex

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/gcbaptista/assessment-recommender/internal/embedding"
)

const (
	DefaultBatchSize = 32
	DefaultWorkers   = 4
)

// BuildOptions controls how document texts are embedded.
type BuildOptions struct {
	BatchSize int
	Workers   int
	Logger    *slog.Logger
}

func (o *BuildOptions) applyDefaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Build embeds texts in batches on a worker pool and returns an index whose
// positions match the order of texts. Any batch failure aborts the build.
func Build(ctx context.Context, embedder embedding.Embedder, texts []string, opts BuildOptions) (*FlatIndex, error) {
	opts.applyDefaults()
	logger := opts.Logger.With("component", "index-builder")

	if len(texts) == 0 {
		return &FlatIndex{}, nil
	}

	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	vectors := make([][]float32, len(texts))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	for offset := 0; offset < len(texts); offset += opts.BatchSize {
		end := offset + opts.BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batchStart, batchEnd := offset, end

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			batch, err := embedder.EmbedTexts(ctx, texts[batchStart:batchEnd])
			if err != nil {
				fail(fmt.Errorf("embedding batch [%d:%d]: %w", batchStart, batchEnd, err))
				return
			}
			if len(batch) != batchEnd-batchStart {
				fail(fmt.Errorf("embedding batch [%d:%d] returned %d vectors", batchStart, batchEnd, len(batch)))
				return
			}
			copy(vectors[batchStart:batchEnd], batch)
		})
		if submitErr != nil {
			wg.Done()
			fail(fmt.Errorf("failed to submit batch: %w", submitErr))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	index, err := NewFlatIndex(vectors)
	if err != nil {
		return nil, err
	}

	logger.Info("semantic index built",
		"documents", index.Len(),
		"dimension", index.Dim(),
		"batch_size", opts.BatchSize,
		"workers", opts.Workers,
		"duration", time.Since(start))
	return index, nil
}
