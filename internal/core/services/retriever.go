package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ferrule-labs/scantext/internal/core/domain"
	"github.com/ferrule-labs/scantext/internal/core/ports/driven"
	"github.com/ferrule-labs/scantext/internal/core/ports/driving"
	"github.com/ferrule-labs/scantext/internal/logger"
)

// Ensure RetrieveService implements the interface.
var _ driving.Retriever = (*RetrieveService)(nil)

// DefaultLimit is the number of documents returned when the caller does
// not specify one.
const DefaultLimit = 3

// DefaultOversample multiplies the document limit to size the raw
// chunk-hit request. Overlapping chunks let one document dominate the raw
// top-k; oversampling keeps other documents from being starved out of the
// document-level results.
const DefaultOversample = 4

// RetrieveService answers queries against the vector index and reduces
// raw chunk hits to the best-scoring chunk per distinct document.
type RetrieveService struct {
	index    driven.VectorIndex
	embedder *Embedder
}

// NewRetrieveService creates a retriever over the given index and embedder.
func NewRetrieveService(index driven.VectorIndex, embedder *Embedder) *RetrieveService {
	return &RetrieveService{
		index:    index,
		embedder: embedder,
	}
}

// Search embeds the query, oversamples raw chunk hits, groups them by
// document keeping the first (highest-scoring, row-id tie-broken) hit per
// document, and truncates to opts.Limit documents. Fewer distinct
// documents than requested is not an error.
func (s *RetrieveService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	oversample := opts.Oversample
	if oversample <= 0 {
		oversample = DefaultOversample
	}
	rawLimit := limit * oversample
	logger.Debug("Limit: %d documents, raw hit request: %d chunks", limit, rawLimit)

	vec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(vec))

	hits, err := s.index.Search(ctx, vec, rawLimit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Raw hits: %d chunks", len(hits))

	results := groupByDocument(hits, limit)
	logger.Info("Final results: %d documents", len(results))

	return results, nil
}

// groupByDocument keeps the first hit per document id. Hits arrive in
// descending score order with row-id tie-breaks, so the first occurrence
// is the document's best chunk, and encounter order is already the final
// document order.
func groupByDocument(hits []driven.VectorHit, limit int) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, limit)
	seen := make(map[string]bool, limit)

	for _, hit := range hits {
		if seen[hit.DocumentID] {
			continue
		}
		seen[hit.DocumentID] = true

		results = append(results, domain.SearchResult{
			DocumentID: hit.DocumentID,
			Ordinal:    hit.Ordinal,
			Text:       hit.Text,
			Score:      hit.Score,
		})

		if len(results) == limit {
			break
		}
	}

	return results
}
