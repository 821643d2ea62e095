package domain

import "time"

// Document represents one scanned image in the corpus.
// The ID is the image filename relative to the scans directory and is
// stable across builds.
type Document struct {
	// ID is the stable identifier (filename relative to the scans dir).
	ID string

	// Path is the absolute location of the image file.
	Path string

	// Fingerprint is the SHA-256 of the image file bytes. It acts as the
	// modification marker: a document whose fingerprint matches the stored
	// one is skipped on incremental builds.
	Fingerprint string

	// Text is the full OCR-extracted text. Transient; only chunks are
	// persisted.
	Text string

	// IndexedAt is when the document was last committed to the index.
	IndexedAt time.Time
}

// Chunk is one overlapping text window cut from a document.
// Chunks cover the document text with no gaps; consecutive chunks share
// exactly the configured overlap, except the final chunk which may be
// shorter.
type Chunk struct {
	// ID is the in-memory identity of the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Ordinal is the 0-based sequential position within the document.
	Ordinal int

	// Text is the chunk's span of the extracted text.
	Text string

	// Embedding is the unit-normalised vector representation.
	Embedding []float32
}
