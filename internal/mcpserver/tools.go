package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gcbaptista/assessment-recommender/model"
)

// RecommendInput is the input schema for the recommend tool.
type RecommendInput struct {
	Query string `json:"query" jsonschema:"free-text description of the role or skills to assess"`
}

// RecommendOutput is the output schema for the recommend tool.
type RecommendOutput struct {
	RecommendedAssessments []model.Assessment `json:"recommended_assessments"`
	Count                  int                `json:"count"`
}

// CorpusStatsInput is the (empty) input schema for the corpus_stats tool.
type CorpusStatsInput struct{}

// CorpusStatsOutput is the output schema for the corpus_stats tool.
type CorpusStatsOutput struct {
	SnapshotID    string `json:"snapshot_id"`
	Source        string `json:"source"`
	BuiltAt       string `json:"built_at" jsonschema:"RFC 3339 time the snapshot was built"`
	RecordsRead   int    `json:"records_read"`
	Documents     int    `json:"documents"`
	Ineligible    int    `json:"ineligible"`
	Malformed     int    `json:"malformed"`
	DuplicateURLs int    `json:"duplicate_urls"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "recommend",
		Description: "Recommend up to ten assessments for a hiring query or job description",
	}, s.handleRecommend)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "corpus_stats",
		Description: "Describe the assessment catalog currently being served",
	}, s.handleCorpusStats)
}

// handleRecommend handles the recommend tool invocation.
func (s *Server) handleRecommend(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecommendInput,
) (*mcp.CallToolResult, RecommendOutput, error) {
	assessments, err := s.engine.Recommend(ctx, input.Query)
	if err != nil {
		return nil, RecommendOutput{}, err
	}

	if assessments == nil {
		assessments = []model.Assessment{}
	}
	return nil, RecommendOutput{
		RecommendedAssessments: assessments,
		Count:                  len(assessments),
	}, nil
}

// handleCorpusStats handles the corpus_stats tool invocation.
func (s *Server) handleCorpusStats(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ CorpusStatsInput,
) (*mcp.CallToolResult, CorpusStatsOutput, error) {
	stats := s.engine.Stats()
	output := CorpusStatsOutput{
		SnapshotID:    stats.SnapshotID,
		Source:        stats.Source,
		RecordsRead:   stats.RecordsRead,
		Documents:     stats.Documents,
		Ineligible:    stats.Ineligible,
		Malformed:     stats.Malformed,
		DuplicateURLs: stats.DuplicateURLs,
	}
	if !stats.BuiltAt.IsZero() {
		output.BuiltAt = stats.BuiltAt.Format(time.RFC3339)
	}
	return nil, output, nil
}
