package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/assessment-recommender/internal/embedding"
)

type stubEmbedder struct {
	dimFor func(text string) int
	fail   string
	calls  atomic.Int64
}

func (s *stubEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (s *stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	s.calls.Add(1)
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if text == s.fail {
			return nil, errors.New("backend unavailable")
		}
		dim := 2
		if s.dimFor != nil {
			dim = s.dimFor(text)
		}
		out[i] = make([]float32, dim)
		out[i][0] = float32(len(text))
	}
	return out, nil
}

func positions(neighbors []Neighbor) []int {
	out := make([]int, len(neighbors))
	for i, n := range neighbors {
		out[i] = n.Position
	}
	return out
}

func TestFlatIndex_Search(t *testing.T) {
	index, err := NewFlatIndex([][]float32{
		{0, 0},
		{3, 4},
		{1, 0},
		{0, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, index.Dim())
	assert.Equal(t, 4, index.Len())

	neighbors, err := index.Search([]float32{0, 0}, 3)
	require.NoError(t, err)

	assert.Equal(t, []Neighbor{
		{Position: 0, Distance: 0},
		{Position: 2, Distance: 1},
		{Position: 3, Distance: 4},
	}, neighbors)
}

func TestFlatIndex_TiesKeepCorpusOrder(t *testing.T) {
	index, err := NewFlatIndex([][]float32{{1, 0}, {0, 1}, {-1, 0}, {0, -1}})
	require.NoError(t, err)

	neighbors, err := index.Search([]float32{0, 0}, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, positions(neighbors))
}

func TestFlatIndex_KLargerThanCorpus(t *testing.T) {
	index, err := NewFlatIndex([][]float32{{1}, {2}})
	require.NoError(t, err)

	neighbors, err := index.Search([]float32{2}, 30)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, positions(neighbors))
}

func TestFlatIndex_Errors(t *testing.T) {
	_, err := NewFlatIndex([][]float32{{1, 2}, {1}})
	assert.Error(t, err)

	_, err = NewFlatIndex([][]float32{{}})
	assert.Error(t, err)

	index, err := NewFlatIndex([][]float32{{1, 2}})
	require.NoError(t, err)
	_, err = index.Search([]float32{1, 2, 3}, 1)
	assert.Error(t, err)
}

func TestFlatIndex_Empty(t *testing.T) {
	index, err := NewFlatIndex(nil)
	require.NoError(t, err)

	neighbors, err := index.Search([]float32{1}, 5)
	require.NoError(t, err)
	assert.Empty(t, neighbors)
}

func TestBuild_PreservesOrderAcrossBatches(t *testing.T) {
	var texts []string
	for i := 0; i < 50; i++ {
		texts = append(texts, fmt.Sprintf("%0*d", i+1, 0))
	}
	embedder := &stubEmbedder{}

	index, err := Build(context.Background(), embedder, texts, BuildOptions{BatchSize: 7, Workers: 3})
	require.NoError(t, err)
	require.Equal(t, 50, index.Len())
	assert.Equal(t, int64(8), embedder.calls.Load())

	// Text i has length i+1, so its vector is [i+1, 0]
	neighbors, err := index.Search([]float32{13, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, 12, neighbors[0].Position)
}

func TestBuild_MatchesSequentialEmbedding(t *testing.T) {
	texts := []string{"java programming", "verbal reasoning", "sql server", "team leadership"}
	hashing := embedding.NewHashing(32)

	index, err := Build(context.Background(), hashing, texts, BuildOptions{BatchSize: 1, Workers: 4})
	require.NoError(t, err)

	query, err := hashing.EmbedText(context.Background(), "sql server")
	require.NoError(t, err)
	neighbors, err := index.Search(query, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, neighbors[0].Position)
	assert.InDelta(t, 0, neighbors[0].Distance, 1e-9)
}

func TestBuild_BatchFailureAborts(t *testing.T) {
	embedder := &stubEmbedder{fail: "bad"}

	_, err := Build(context.Background(), embedder, []string{"a", "b", "bad", "c"}, BuildOptions{BatchSize: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unavailable")
}

func TestBuild_InconsistentDimensions(t *testing.T) {
	embedder := &stubEmbedder{dimFor: func(text string) int {
		if text == "odd" {
			return 3
		}
		return 2
	}}

	_, err := Build(context.Background(), embedder, []string{"even", "odd"}, BuildOptions{BatchSize: 1})
	assert.Error(t, err)
}

func TestBuild_Empty(t *testing.T) {
	index, err := Build(context.Background(), &stubEmbedder{}, nil, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, index.Len())
}
