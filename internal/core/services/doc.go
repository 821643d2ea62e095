// Package services implements the core application logic behind the
// driving ports:
//
//   - Embedder: batches texts to the embedding collaborator and
//     normalises outputs to unit length
//   - BuildService: the index builder orchestrating OCR -> chunk ->
//     embed -> append
//   - RetrieveService: similarity search with per-document grouping
//
// Services depend only on domain types and driven ports, never on
// concrete adapters.
package services
