// Package cli implements the recommender command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/assessment-recommender/config"
	"github.com/gcbaptista/assessment-recommender/internal/embedding"
	"github.com/gcbaptista/assessment-recommender/internal/engine"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "recommender",
	Short: "Hybrid semantic and keyword assessment recommender",
	Long: `Recommends up to ten catalog assessments for a free-text hiring query by
combining embedding similarity with keyword overlap.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to a TOML settings file")
	rootCmd.PersistentFlags().String("corpus", "", "path to the catalog JSON file (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
}

// ExecuteContext runs the root command with ctx, which commands use for cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// newLogger builds the process logger from the --log-level flag. Logs go to
// stderr so stdout stays clean for command output.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	raw, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("getting log-level flag: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(raw))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", raw)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, nil
}

// loadSettings reads --config and applies command line overrides.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Settings{}, fmt.Errorf("getting config flag: %w", err)
	}

	settings, err := config.LoadFile(path)
	if err != nil {
		return config.Settings{}, err
	}

	corpus, err := cmd.Flags().GetString("corpus")
	if err != nil {
		return config.Settings{}, fmt.Errorf("getting corpus flag: %w", err)
	}
	if corpus != "" {
		settings.CorpusPath = corpus
	}

	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return config.Settings{}, fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
	}
	return settings, nil
}

// buildEngine wires the embedder and engine for settings. The returned close
// function releases the embedding cache.
func buildEngine(ctx context.Context, settings config.Settings, logger *slog.Logger, opts ...engine.Option) (*engine.Engine, func() error, error) {
	embedder, closeEmbedder, err := embedding.New(settings.Embedding, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("creating embedder: %w", err)
	}

	opts = append([]engine.Option{engine.WithLogger(logger)}, opts...)
	eng, err := engine.New(ctx, settings, embedder, opts...)
	if err != nil {
		closeEmbedder() //nolint:errcheck
		return nil, nil, err
	}
	return eng, closeEmbedder, nil
}
