// Package domain defines the core business entities for scantext.
//
// This package is the innermost layer of the hexagonal architecture.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a scanned image with its extracted text
//   - Chunk: an overlapping text window cut from a document
//   - SearchResult: the best-matching chunk for one document
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
