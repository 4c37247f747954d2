package embedding

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttled limits the request rate towards a remote embedder with a token
// bucket. Each EmbedText or EmbedTexts call consumes one token.
type Throttled struct {
	inner   Embedder
	limiter *rate.Limiter
}

// NewThrottled wraps inner with a limiter of rps requests per second.
// A burst below 1 is raised to 1.
func NewThrottled(inner Embedder, rps float64, burst int) *Throttled {
	if burst < 1 {
		burst = 1
	}
	return &Throttled{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// EmbedText implements Embedder.
func (t *Throttled) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.inner.EmbedText(ctx, text)
}

// EmbedTexts implements Embedder.
func (t *Throttled) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.inner.EmbedTexts(ctx, texts)
}
