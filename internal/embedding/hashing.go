package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/gcbaptista/assessment-recommender/internal/tokenizer"
)

// DefaultHashingDimensions is used when NewHashing is given a non-positive size.
const DefaultHashingDimensions = 384

// Hashing is a deterministic bag-of-words embedder using the hashing trick.
// Each token contributes +1 or -1 to one bucket and the vector is L2-normalised,
// so texts sharing tokens have a small L2 distance. It needs no network and
// backs offline runs and tests.
type Hashing struct {
	dim       int
	tokenizer *tokenizer.Tokenizer
}

// NewHashing creates a hashing embedder producing vectors of size dim.
func NewHashing(dim int) *Hashing {
	if dim <= 0 {
		dim = DefaultHashingDimensions
	}
	// No stopwords: role words still carry semantic signal for the vector side
	return &Hashing{dim: dim, tokenizer: tokenizer.New(nil)}
}

// Dimensions returns the vector size.
func (h *Hashing) Dimensions() int {
	return h.dim
}

// EmbedText implements Embedder.
func (h *Hashing) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.vector(text), nil
}

// EmbedTexts implements Embedder.
func (h *Hashing) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = h.vector(text)
	}
	return vectors, nil
}

func (h *Hashing) vector(text string) []float32 {
	vec := make([]float32, h.dim)
	for _, token := range tokenizer.Sorted(h.tokenizer.Tokenize(text)) {
		hasher := fnv.New64a()
		_, _ = hasher.Write([]byte(token))
		sum := hasher.Sum64()

		bucket := int(sum % uint64(h.dim))
		if sum&(1<<63) != 0 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return vec
	}
	norm := float32(1 / math.Sqrt(sumSquares))
	for i := range vec {
		vec[i] *= norm
	}
	return vec
}
