package embedding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/gcbaptista/assessment-recommender/config"
)

// OpenAI embeds text through any OpenAI-compatible embeddings endpoint
// (OpenAI, Ollama, vLLM).
type OpenAI struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// NewOpenAI creates a remote embedder from settings.
func NewOpenAI(settings config.EmbeddingSettings, logger *slog.Logger) (*OpenAI, error) {
	if settings.Host == "" || settings.Model == "" {
		return nil, fmt.Errorf("openai embedder requires host and model")
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Local OpenAI-compatible services ignore the token but the client requires one
	token := settings.Token
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(settings.Host),
		openai.WithToken(token),
		openai.WithEmbeddingModel(settings.Model),
	)
	if err != nil {
		return nil, err
	}

	opts := []embeddings.Option{embeddings.WithStripNewLines(true)}
	if settings.BatchSize > 0 {
		opts = append(opts, embeddings.WithBatchSize(settings.BatchSize))
	}
	embedder, err := embeddings.NewEmbedder(client, opts...)
	if err != nil {
		return nil, err
	}

	return &OpenAI{
		embedder: embedder,
		logger:   logger.With("component", "openai-embedder"),
	}, nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *OpenAI) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vectors")
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *OpenAI) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}
	return vectors, nil
}
