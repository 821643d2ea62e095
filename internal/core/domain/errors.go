package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidChunking indicates an invalid window/overlap configuration.
	// Fatal: a build aborts before any work is done.
	ErrInvalidChunking = errors.New("invalid chunking configuration")

	// ErrEmbeddingFailed indicates the embedding collaborator rejected a
	// whole batch. Caught per document by the index builder; the document
	// is skipped and retried on a later run.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrDimensionMismatch indicates a vector whose dimension does not
	// match the index. Fatal to the append or search call that raised it.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrExtractionFailed indicates OCR failed for a single image.
	// Caught per document; the document is skipped and retried later.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrIndexCorrupted indicates the persisted index state cannot be
	// read back consistently. Aborts the current operation.
	ErrIndexCorrupted = errors.New("index state corrupted")
)
