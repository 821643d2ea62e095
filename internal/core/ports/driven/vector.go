package driven

import "context"

// IndexRecord is the persisted unit of the vector index: one chunk's
// vector together with the metadata needed to present a search hit.
type IndexRecord struct {
	// DocumentID is the owning document.
	DocumentID string

	// Ordinal is the chunk's 0-based position within the document.
	Ordinal int

	// Text is the chunk text, stored alongside the vector so hits can be
	// rendered without re-reading the source.
	Text string

	// Embedding is the unit-normalised vector, dimension fixed per index.
	Embedding []float32
}

// VectorHit is a raw similarity search result for a single chunk.
type VectorHit struct {
	// RowID is the stable sequential id assigned on append.
	RowID int64

	// DocumentID is the owning document.
	DocumentID string

	// Ordinal is the chunk position within the document.
	Ordinal int

	// Text is the stored chunk text.
	Text string

	// Score is the inner product with the query vector. Both sides are
	// unit-normalised, so this equals cosine similarity in [-1, 1].
	Score float64
}

// IndexStats summarises the persisted index state.
type IndexStats struct {
	// Chunks is the total number of stored records.
	Chunks int

	// Documents is the number of searchable documents, those with at
	// least one stored chunk. Fingerprint-only documents (blank scans)
	// are not counted.
	Documents int

	// Dimensions is the vector dimension, 0 while the index is empty.
	Dimensions int
}

// VectorIndex is the durable store of IndexRecords with exact similarity
// search. Append is the only write primitive: there is no update-in-place
// or delete-by-id. Removing a document's stale rows requires Rebuild
// followed by reprocessing the corpus.
type VectorIndex interface {
	// Append commits one document's records and its content fingerprint as
	// a single transactional unit. Row ids are assigned sequentially in
	// call order starting at 0 and are never reused within a build
	// generation. Every vector must match the index dimension (fixed on
	// first append); a mismatch rejects the whole call with
	// domain.ErrDimensionMismatch and writes nothing.
	// An empty records slice records only the fingerprint, marking a
	// document that produced no chunks as processed.
	Append(ctx context.Context, documentID, fingerprint string, records []IndexRecord) error

	// Fingerprint returns the stored content fingerprint for a document,
	// or domain.ErrNotFound if the document has never been committed.
	Fingerprint(ctx context.Context, documentID string) (string, error)

	// Search returns up to k hits ordered by descending score, ties broken
	// by ascending row id. An empty index yields an empty slice; k larger
	// than the stored count returns all records. A query of the wrong
	// dimension fails with domain.ErrDimensionMismatch.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Rebuild clears all records, fingerprints and row ids. Subsequent
	// appends start row ids at zero with no residue from the prior build.
	Rebuild(ctx context.Context) error

	// Stats reports stored chunk and document counts.
	Stats(ctx context.Context) (IndexStats, error)

	// Close flushes and releases the underlying store.
	Close() error
}
