package mcp

import (
	"context"

	"github.com/ferrule-labs/scantext/internal/core/domain"
	"github.com/ferrule-labs/scantext/internal/core/ports/driven"
	"github.com/ferrule-labs/scantext/internal/core/ports/driving"
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	results []domain.SearchResult
	err     error
	opts    domain.SearchOptions
}

func (m *mockRetriever) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.opts = opts
	return m.results, m.err
}

// mockBuilder is a mock implementation of driving.IndexBuilder.
type mockBuilder struct {
	report *driving.BuildReport
	err    error
	force  bool
}

func (m *mockBuilder) Build(_ context.Context, force bool) (*driving.BuildReport, error) {
	m.force = force
	return m.report, m.err
}

// mockIndex implements the statistics side of driven.VectorIndex.
type mockIndex struct {
	driven.VectorIndex
	stats driven.IndexStats
	err   error
}

func (m *mockIndex) Stats(context.Context) (driven.IndexStats, error) {
	return m.stats, m.err
}
