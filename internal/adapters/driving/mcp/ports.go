package mcp

import (
	"github.com/ferrule-labs/scantext/internal/core/domain"
	"github.com/ferrule-labs/scantext/internal/core/ports/driven"
	"github.com/ferrule-labs/scantext/internal/core/ports/driving"
)

// Ports aggregates the ports the MCP server exposes over the protocol.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search answers queries against the index.
	Search driving.Retriever

	// Builder rebuilds the index. Optional; without it the build_index
	// tool is not registered.
	Builder driving.IndexBuilder

	// Index provides statistics. Optional; without it the index_stats
	// tool and stats resource are not registered.
	Index driven.VectorIndex

	// SearchDefaults are the configured limit and oversample. The search
	// tool's limit input overrides the limit; the oversample always
	// applies. Zero fields fall back to the retriever's defaults.
	SearchDefaults domain.SearchOptions
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingRetriever
	}
	return nil
}
