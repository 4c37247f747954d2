package engine_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/assessment-recommender/config"
	"github.com/gcbaptista/assessment-recommender/internal/embedding"
	"github.com/gcbaptista/assessment-recommender/internal/engine"
	apperrors "github.com/gcbaptista/assessment-recommender/internal/errors"
	"github.com/gcbaptista/assessment-recommender/internal/jobs"
	testfixtures "github.com/gcbaptista/assessment-recommender/internal/testing"
	"github.com/gcbaptista/assessment-recommender/model"
)

// failingEmbedder embeds documents but fails on queries once armed.
type failingEmbedder struct {
	inner embedding.Embedder
	mu    sync.Mutex
	armed bool
}

func (f *failingEmbedder) arm() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.armed = true
}

func (f *failingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	armed := f.armed
	f.mu.Unlock()
	if armed {
		return nil, errors.New("embedding service unavailable")
	}
	return f.inner.EmbedText(ctx, text)
}

func (f *failingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	armed := f.armed
	f.mu.Unlock()
	if armed {
		return nil, errors.New("embedding service unavailable")
	}
	return f.inner.EmbedTexts(ctx, texts)
}

func TestRecommend_JavaQueryPrefersJavaDocument(t *testing.T) {
	records := []model.CatalogRecord{
		{Name: model.StringPtr("Java Pro"), URL: "https://catalog.example.com/java-pro", Description: model.StringPtr("Java coding test"), TestType: []string{"K"}},
		{Name: model.StringPtr("General Aptitude"), URL: "https://catalog.example.com/general-aptitude", Description: model.StringPtr("logic and reasoning"), TestType: []string{"A"}},
	}
	eng := testfixtures.CreateTestEngine(t, records)

	results, err := eng.Recommend(context.Background(), "I need a Java developer")
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.LessOrEqual(t, len(results), 10)
	assert.Equal(t, "Java Pro", results[0].Name)
	assert.Equal(t, "General Aptitude", results[1].Name)
}

func TestRecommend_ResponseShape(t *testing.T) {
	eng := testfixtures.CreateTestEngine(t, nil)

	results, err := eng.Recommend(context.Background(), "Java collections and streams")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	java := results[0]
	assert.Equal(t, testfixtures.JavaURL, java.URL)
	assert.Equal(t, "Java 8 (New)", java.Name)
	assert.Equal(t, "Yes", java.AdaptiveSupport)
	assert.Equal(t, "Yes", java.RemoteSupport)
	require.NotNil(t, java.Duration)
	assert.Equal(t, 18, *java.Duration)
	assert.Equal(t, []string{"Knowledge & Skills"}, java.TestType)

	for _, r := range results {
		if r.URL == testfixtures.SQLURL {
			assert.Equal(t, "No", r.AdaptiveSupport)
			assert.Nil(t, r.Duration)
		}
	}
}

func TestRecommend_ExcludesIneligibleRecords(t *testing.T) {
	eng := testfixtures.CreateTestEngine(t, nil)

	results, err := eng.Recommend(context.Background(), "sales solution personality cashier")
	require.NoError(t, err)

	urls := testfixtures.URLs(results)
	assert.Len(t, urls, testfixtures.FixtureEligibleCount)
	assert.Contains(t, urls, testfixtures.SalesIndURL)
	assert.NotContains(t, urls, "https://catalog.example.com/sales-solution")
	assert.NotContains(t, urls, "https://catalog.example.com/bank-cashier")
}

func TestRecommend_LexicalMatchOnSpecialTokens(t *testing.T) {
	eng := testfixtures.CreateTestEngine(t, nil)

	results, err := eng.Recommend(context.Background(), "We are looking for a C# engineer")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, testfixtures.CSharpURL, results[0].URL)
}

func TestRecommend_EmptyQuery(t *testing.T) {
	eng := testfixtures.CreateTestEngine(t, nil)

	for _, q := range []string{"", "   ", "\n\t"} {
		results, err := eng.Recommend(context.Background(), q)
		assert.Nil(t, results)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "query %q", q)
	}
}

func TestRecommend_FillerOnlyQueryStillAnswers(t *testing.T) {
	eng := testfixtures.CreateTestEngine(t, nil)

	results, err := eng.Recommend(context.Background(), "I need a")
	require.NoError(t, err)
	assert.Len(t, results, testfixtures.FixtureEligibleCount)
}

func TestRecommend_ResultLimit(t *testing.T) {
	var records []model.CatalogRecord
	for i := 0; i < 40; i++ {
		records = append(records, model.CatalogRecord{
			Name: model.StringPtr("Assessment"),
			URL:  "https://catalog.example.com/" + string(rune('a'+i%26)) + string(rune('a'+i/26)),
		})
	}
	eng := testfixtures.CreateTestEngine(t, records)

	results, err := eng.Recommend(context.Background(), "assessment")
	require.NoError(t, err)
	assert.Len(t, results, config.DefaultResultLimit)
}

func TestRecommend_RetrievalFailureLeavesEngineUsable(t *testing.T) {
	embedder := &failingEmbedder{inner: testfixtures.NewFixtureEmbedder()}
	eng, err := engine.NewFromRecords(context.Background(), testfixtures.FixtureSettings(), embedder, testfixtures.FixtureRecords())
	require.NoError(t, err)
	before := eng.Snapshot()

	embedder.arm()
	results, err := eng.Recommend(context.Background(), "python")
	assert.Nil(t, results)
	assert.True(t, errors.Is(err, apperrors.ErrRetrievalFailed))
	assert.Equal(t, apperrors.KindRetrieval, apperrors.KindOf(err))
	assert.Same(t, before, eng.Snapshot())
}

func TestRecommend_ConcurrentRequests(t *testing.T) {
	eng := testfixtures.CreateTestEngine(t, nil)
	want, err := eng.Recommend(context.Background(), "python data structures")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := eng.Recommend(context.Background(), "python data structures")
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestNewFromRecords_EmptyCorpus(t *testing.T) {
	records := []model.CatalogRecord{
		{Name: model.StringPtr("Pack"), URL: "https://catalog.example.com/pack", TestType: []string{"Pre-packaged Job Solutions"}},
	}

	_, err := engine.NewFromRecords(context.Background(), testfixtures.FixtureSettings(), testfixtures.NewFixtureEmbedder(), records)
	assert.True(t, errors.Is(err, apperrors.ErrEmptyCorpus))
}

func TestNew_InvalidSettings(t *testing.T) {
	settings := testfixtures.FixtureSettings()
	settings.Fusion.Policy = "reciprocal"

	_, err := engine.NewFromRecords(context.Background(), settings, testfixtures.NewFixtureEmbedder(), testfixtures.FixtureRecords())
	assert.Error(t, err)

	_, err = engine.NewFromRecords(context.Background(), testfixtures.FixtureSettings(), nil, testfixtures.FixtureRecords())
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	eng := testfixtures.CreateTestEngine(t, nil)

	stats := eng.Stats()
	assert.NotEmpty(t, stats.SnapshotID)
	assert.Equal(t, "memory", stats.Source)
	assert.Equal(t, len(testfixtures.FixtureRecords()), stats.RecordsRead)
	assert.Equal(t, testfixtures.FixtureEligibleCount, stats.Documents)
	assert.Equal(t, 2, stats.Ineligible)
	assert.Equal(t, 1, stats.Malformed)
	assert.Equal(t, testfixtures.FixtureDimensions, stats.VectorDimension)
}

func TestReload_FromFile(t *testing.T) {
	path := testfixtures.WriteCorpusFile(t, testfixtures.FixtureRecords()[:2])
	settings := testfixtures.FixtureSettings()
	settings.CorpusPath = path

	eng, err := engine.New(context.Background(), settings, testfixtures.NewFixtureEmbedder())
	require.NoError(t, err)
	first := eng.Stats()
	assert.Equal(t, 2, first.Documents)
	assert.Equal(t, path, first.Source)

	testfixtures.WriteCorpusFileAt(t, path, testfixtures.FixtureRecords())
	stats, err := eng.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testfixtures.FixtureEligibleCount, stats.Documents)
	assert.NotEqual(t, first.SnapshotID, stats.SnapshotID)
}

func TestReload_FailureKeepsPreviousSnapshot(t *testing.T) {
	path := testfixtures.WriteCorpusFile(t, testfixtures.FixtureRecords())
	settings := testfixtures.FixtureSettings()
	settings.CorpusPath = path

	eng, err := engine.New(context.Background(), settings, testfixtures.NewFixtureEmbedder())
	require.NoError(t, err)
	before := eng.Snapshot()

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	_, err = eng.Reload(context.Background())
	require.Error(t, err)
	assert.Same(t, before, eng.Snapshot())

	results, err := eng.Recommend(context.Background(), "verbal reasoning")
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestNew_MissingCorpusFile(t *testing.T) {
	settings := testfixtures.FixtureSettings()
	settings.CorpusPath = t.TempDir() + "/missing.json"

	_, err := engine.New(context.Background(), settings, testfixtures.NewFixtureEmbedder())
	assert.Error(t, err)
}

func TestReloadAsync(t *testing.T) {
	manager := jobs.NewManager(1, nil)
	defer manager.Stop()

	eng := testfixtures.CreateTestEngine(t, nil, engine.WithJobManager(manager))
	before := eng.Stats().SnapshotID

	jobID, err := eng.ReloadAsync()
	require.NoError(t, err)

	job := testfixtures.WaitForJob(t, manager, jobID, testfixtures.DefaultJobPollingOptions())
	testfixtures.AssertJobCompleted(t, job, model.JobTypeReloadCorpus)
	require.NotNil(t, job.Progress)
	assert.Equal(t, job.Progress.Total, job.Progress.Current)
	assert.NotEqual(t, before, eng.Stats().SnapshotID)
}

func TestReloadAsync_WithoutJobManager(t *testing.T) {
	eng := testfixtures.CreateTestEngine(t, nil)

	_, err := eng.ReloadAsync()
	assert.Error(t, err)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := testfixtures.WriteCorpusFile(t, testfixtures.FixtureRecords()[:1])
	settings := testfixtures.FixtureSettings()
	settings.CorpusPath = path

	eng, err := engine.New(context.Background(), settings, testfixtures.NewFixtureEmbedder(),
		engine.WithWatchDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, 1, eng.Stats().Documents)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- eng.Watch(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	// Give the watcher time to register before writing
	time.Sleep(50 * time.Millisecond)
	testfixtures.WriteCorpusFileAt(t, path, testfixtures.FixtureRecords())

	assert.Eventually(t, func() bool {
		return eng.Stats().Documents == testfixtures.FixtureEligibleCount
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatch_RequiresFileSource(t *testing.T) {
	eng := testfixtures.CreateTestEngine(t, nil)
	assert.Error(t, eng.Watch(context.Background()))
}
