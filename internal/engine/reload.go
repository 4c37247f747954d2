package engine

import (
	"context"
	"fmt"

	"github.com/gcbaptista/assessment-recommender/model"
)

const reloadStages = 3

// Reload rebuilds the snapshot from the engine's source and publishes it.
// On failure the previous snapshot keeps serving. Concurrent reloads run one
// at a time.
func (e *Engine) Reload(ctx context.Context) (model.CorpusStats, error) {
	return e.reload(ctx, nil)
}

func (e *Engine) reload(ctx context.Context, progress func(stage string)) (model.CorpusStats, error) {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()

	snap, err := e.buildSnapshot(ctx, progress)
	if err != nil {
		e.logger.Error("corpus reload failed", "source", e.sourceName, "err", err)
		return model.CorpusStats{}, err
	}

	previous := e.snapshot.Swap(snap)
	stats := snap.Stats()
	attrs := []any{
		"snapshot", snap.ID,
		"documents", stats.Documents,
		"records", stats.RecordsRead,
		"ineligible", stats.Ineligible,
		"malformed", stats.Malformed,
		"duplicate_urls", stats.DuplicateURLs,
	}
	if previous != nil {
		attrs = append(attrs, "replaced", previous.ID)
	}
	e.logger.Info("corpus snapshot published", attrs...)
	return stats, nil
}

// ReloadAsync schedules a reload as a background job and returns its ID.
func (e *Engine) ReloadAsync() (string, error) {
	if e.jobManager == nil {
		return "", fmt.Errorf("background jobs are not enabled")
	}

	jobID := e.jobManager.CreateJob(model.JobTypeReloadCorpus, map[string]string{
		"operation": "reload_corpus",
		"source":    e.sourceName,
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, id string) error {
		step := 0
		_, err := e.reload(ctx, func(stage string) {
			step++
			e.jobManager.UpdateJobProgress(id, step, reloadStages, stage)
		})
		if err != nil {
			return err
		}
		e.jobManager.UpdateJobProgress(id, reloadStages, reloadStages, "snapshot published")
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to start reload job: %w", err)
	}
	return jobID, nil
}
