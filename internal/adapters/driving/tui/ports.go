// Package tui provides the interactive terminal UI for searching scans.
package tui

import (
	"errors"

	"github.com/ferrule-labs/scantext/internal/core/domain"
	"github.com/ferrule-labs/scantext/internal/core/ports/driven"
	"github.com/ferrule-labs/scantext/internal/core/ports/driving"
)

// ErrMissingRetriever is returned when no search service is provided.
var ErrMissingRetriever = errors.New("tui: search service is required")

// Ports aggregates the driving ports the TUI needs.
type Ports struct {
	// Search answers queries.
	Search driving.Retriever

	// Index provides statistics for the status bar. Optional.
	Index driven.VectorIndex

	// SearchOptions are the configured limit and oversample applied to
	// every query. Zero fields fall back to the retriever's defaults.
	SearchOptions domain.SearchOptions
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingRetriever
	}
	return nil
}
