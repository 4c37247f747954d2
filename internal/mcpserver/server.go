// Package mcpserver exposes the recommender as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gcbaptista/assessment-recommender/services"
)

// Server is the MCP server for the recommender.
type Server struct {
	engine services.RecommendationEngine
	server *mcp.Server
}

// NewServer creates an MCP server backed by engine.
func NewServer(engine services.RecommendationEngine, version string) (*Server, error) {
	if engine == nil {
		return nil, errors.New("recommendation engine is required")
	}

	impl := &mcp.Implementation{
		Name:    "assessment-recommender",
		Version: version,
	}

	s := &Server{
		engine: engine,
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over streamable HTTP on addr.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
