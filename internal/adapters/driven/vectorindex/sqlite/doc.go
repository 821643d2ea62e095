// Package sqlite implements the VectorIndex port on a single SQLite
// database file.
//
// Each chunk row holds its vector (little-endian float32 BLOB) next to
// its metadata, and a document's rows are committed together with its
// content fingerprint in one transaction, so vectors and metadata can
// never disagree about the last committed row id. Similarity search is
// an exact brute-force inner-product scan, which is the right trade-off
// for a single-machine corpus of scanned pages.
package sqlite
