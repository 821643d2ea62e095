package driving

import (
	"context"

	"github.com/ferrule-labs/scantext/internal/core/domain"
)

// Retriever answers natural-language queries against the vector index,
// returning at most one result per distinct document.
type Retriever interface {
	// Search embeds the query and returns the best-scoring chunk per
	// document among the raw top hits, at most opts.Limit documents.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
