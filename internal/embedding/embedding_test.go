package embedding

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/assessment-recommender/config"
)

// countingEmbedder records how many texts reach the backend.
type countingEmbedder struct {
	inner Embedder
	texts atomic.Int64
	err   error
}

func (c *countingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	c.texts.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.EmbedText(ctx, text)
}

func (c *countingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	c.texts.Add(int64(len(texts)))
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.EmbedTexts(ctx, texts)
}

func squaredDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func TestHashing_Deterministic(t *testing.T) {
	h := NewHashing(64)
	ctx := context.Background()

	a, err := h.EmbedText(ctx, "Java Spring backend")
	require.NoError(t, err)
	b, err := h.EmbedText(ctx, "java spring BACKEND")
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
}

func TestHashing_UnitNorm(t *testing.T) {
	vec, err := NewHashing(128).EmbedText(context.Background(), "python data analysis with pandas")
	require.NoError(t, err)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestHashing_EmptyTextIsZeroVector(t *testing.T) {
	vec, err := NewHashing(16).EmbedText(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 16), vec)
}

func TestHashing_SharedTokensAreCloser(t *testing.T) {
	h := NewHashing(DefaultHashingDimensions)
	ctx := context.Background()

	vectors, err := h.EmbedTexts(ctx, []string{
		"java developer",
		"Title: Java Programming | Type: Knowledge | Desc: core java skills",
		"Title: Verbal Reasoning | Type: Ability | Desc: comprehension",
	})
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	assert.Less(t, squaredDistance(vectors[0], vectors[1]), squaredDistance(vectors[0], vectors[2]))
}

func TestHashing_DefaultDimensions(t *testing.T) {
	assert.Equal(t, DefaultHashingDimensions, NewHashing(0).Dimensions())
}

func TestHashing_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHashing(8).EmbedTexts(ctx, []string{"a b"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCached_OnlyMissesReachBackend(t *testing.T) {
	backend := &countingEmbedder{inner: NewHashing(32)}
	cache, err := NewCached(backend, "", "test")
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	first, err := cache.EmbedTexts(ctx, []string{"java", "python"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), backend.texts.Load())

	second, err := cache.EmbedTexts(ctx, []string{"python", "sql", "java"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), backend.texts.Load())

	assert.Equal(t, first[0], second[2])
	assert.Equal(t, first[1], second[0])

	single, err := cache.EmbedText(ctx, "sql")
	require.NoError(t, err)
	assert.Equal(t, second[1], single)
	assert.Equal(t, int64(3), backend.texts.Load())
}

func TestCached_NamespaceSeparatesEntries(t *testing.T) {
	cache, err := NewCached(NewHashing(8), "", "one")
	require.NoError(t, err)
	defer cache.Close()

	other := &Cached{namespace: "two"}
	assert.NotEqual(t, cache.key("java"), other.key("java"))
}

func TestCached_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	backend := &countingEmbedder{inner: NewHashing(16)}
	cache, err := NewCached(backend, dir, "disk")
	require.NoError(t, err)
	want, err := cache.EmbedText(ctx, "excel reporting")
	require.NoError(t, err)
	require.NoError(t, cache.Close())

	offline := &countingEmbedder{inner: NewHashing(16), err: errors.New("offline")}
	reopened, err := NewCached(offline, dir, "disk")
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.EmbedText(ctx, "excel reporting")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, int64(0), offline.texts.Load())
}

func TestCached_BackendErrorPropagates(t *testing.T) {
	cache, err := NewCached(&countingEmbedder{err: errors.New("boom")}, "", "err")
	require.NoError(t, err)
	defer cache.Close()

	_, err = cache.EmbedText(context.Background(), "java")
	assert.EqualError(t, err, "boom")
}

func TestThrottled_RespectsContext(t *testing.T) {
	throttled := NewThrottled(NewHashing(8), 0.001, 1)

	_, err := throttled.EmbedText(context.Background(), "first call uses the burst")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = throttled.EmbedTexts(ctx, []string{"second call must wait"})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		settings config.EmbeddingSettings
		wantType interface{}
		wantErr  bool
	}{
		{
			name:     "hashing",
			settings: config.EmbeddingSettings{Provider: config.EmbeddingHashing, Dimensions: 16},
			wantType: &Hashing{},
		},
		{
			name:     "openai with rate limit",
			settings: config.EmbeddingSettings{Provider: config.EmbeddingOpenAI, Host: "http://localhost:11434/v1", Model: "all-minilm", RequestsPerSecond: 5, Burst: 2},
			wantType: &Throttled{},
		},
		{
			name:     "openai without host",
			settings: config.EmbeddingSettings{Provider: config.EmbeddingOpenAI, Model: "all-minilm"},
			wantErr:  true,
		},
		{
			name:     "unknown provider",
			settings: config.EmbeddingSettings{Provider: "word2vec"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder, closeFn, err := New(tt.settings, nil)
			require.NotNil(t, closeFn)
			defer closeFn()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, embedder)
		})
	}
}

func TestNew_WithCacheDir(t *testing.T) {
	embedder, closeFn, err := New(config.EmbeddingSettings{
		Provider:   config.EmbeddingHashing,
		Dimensions: 8,
		CacheDir:   t.TempDir(),
	}, nil)
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &Cached{}, embedder)
}
