package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find scanned documents"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of documents to return (default 3)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents one matching document.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	Ordinal    int     `json:"ordinal"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// StatsInput is the (empty) input schema for the index_stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the index_stats tool.
type StatsOutput struct {
	Documents  int `json:"documents"`
	Chunks     int `json:"chunks"`
	Dimensions int `json:"dimensions"`
}

// BuildInput is the input schema for the build_index tool.
type BuildInput struct {
	Force bool `json:"force,omitempty" jsonschema:"clear the index and reprocess every image"`
}

// BuildOutput is the output schema for the build_index tool.
type BuildOutput struct {
	Scanned int `json:"scanned"`
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
	Stale   int `json:"stale"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the text of all indexed scanned images",
	}, s.handleSearch)

	if s.ports.Index != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "index_stats",
			Description: "Report how many documents and chunks are indexed",
		}, s.handleStats)
	}

	if s.ports.Builder != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "build_index",
			Description: "Index new or changed images from the scans directory",
		}, s.handleBuild)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := s.ports.SearchDefaults
	if input.Limit > 0 {
		opts.Limit = input.Limit
	}

	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID: results[i].DocumentID,
			Ordinal:    results[i].Ordinal,
			Score:      results[i].Score,
			Text:       results[i].Text,
		}
	}

	return nil, output, nil
}

// handleStats handles the index_stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.ports.Index.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	return nil, StatsOutput{
		Documents:  stats.Documents,
		Chunks:     stats.Chunks,
		Dimensions: stats.Dimensions,
	}, nil
}

// handleBuild handles the build_index tool invocation.
func (s *Server) handleBuild(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildInput,
) (*mcp.CallToolResult, BuildOutput, error) {
	report, err := s.ports.Builder.Build(ctx, input.Force)
	if err != nil {
		return nil, BuildOutput{}, err
	}

	return nil, BuildOutput{
		Scanned: report.Scanned,
		Indexed: report.Indexed,
		Skipped: report.Skipped,
		Failed:  report.Failed,
		Stale:   report.Stale,
	}, nil
}
