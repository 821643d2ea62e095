package domain

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// Limit is the maximum number of documents returned. Defaults to 3.
	Limit int

	// Oversample multiplies Limit to size the raw chunk-hit request.
	// A single document can dominate the raw top-k with several
	// overlapping chunks; oversampling keeps other documents in play.
	// Defaults to 4.
	Oversample int
}

// SearchResult is the best-matching chunk for one distinct document.
type SearchResult struct {
	// DocumentID is the matched document.
	DocumentID string

	// Ordinal is the position of the best-scoring chunk.
	Ordinal int

	// Text is the best-scoring chunk's text.
	Text string

	// Score is the cosine similarity of the best chunk, in [-1, 1].
	Score float64
}
