// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them:
//
//   - TextExtractor: pulls raw text out of a scanned image (OCR)
//   - EmbeddingService: maps text to fixed-dimension vectors
//   - VectorIndex: durable store of vectors + metadata with exact search
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
