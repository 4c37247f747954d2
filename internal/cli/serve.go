package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gcbaptista/assessment-recommender/api"
	"github.com/gcbaptista/assessment-recommender/internal/analytics"
	"github.com/gcbaptista/assessment-recommender/internal/engine"
	"github.com/gcbaptista/assessment-recommender/internal/jobs"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Load the catalog, build the index and serve the recommendation API.

Examples:
  recommender serve --corpus catalog.json
  recommender serve --config recommender.toml --port 8080 --watch`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "port to listen on (overrides config)")
	serveCmd.Flags().Bool("watch", false, "reload the catalog when its file changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		settings.Server.Port = port
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	jobManager := jobs.NewManager(settings.Server.ReloadWorkers, logger)
	jobManager.Start()
	defer jobManager.Stop()

	eng, closeEmbedder, err := buildEngine(ctx, settings, logger, engine.WithJobManager(jobManager))
	if err != nil {
		return err
	}
	defer closeEmbedder() //nolint:errcheck

	if watch {
		go func() {
			if err := eng.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("corpus watcher stopped", "err", err)
			}
		}()
	}

	router := gin.Default()
	router.Use(
		api.RequestIDMiddleware(),
		api.CORSMiddleware(),
		api.RequestSizeLimitMiddleware(settings.Server.MaxBodyBytes),
		api.RateLimitMiddleware(settings.Server.RateLimit, settings.Server.RateBurst),
	)
	api.SetupRoutes(router, api.Dependencies{
		Engine:    eng,
		Jobs:      jobManager,
		Analytics: analytics.NewService(eng),
		Server:    settings.Server,
		Logger:    logger,
	})

	server := &http.Server{
		Addr:              ":" + settings.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", server.Addr, "documents", eng.Stats().Documents)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
