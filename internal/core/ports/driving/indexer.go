package driving

import "context"

// IndexBuilder walks the scans directory and drives the OCR -> chunk ->
// embed -> append pipeline.
type IndexBuilder interface {
	// Build runs one indexing pass. With force set, the vector index is
	// cleared first and every document is reprocessed unconditionally;
	// otherwise documents whose fingerprint is unchanged are skipped.
	Build(ctx context.Context, force bool) (*BuildReport, error)
}

// BuildReport summarises one indexing pass.
type BuildReport struct {
	// Scanned is the number of image files found.
	Scanned int

	// Indexed is the number of documents (re-)committed this pass.
	Indexed int

	// Skipped is the number of documents left untouched because their
	// fingerprint matched the stored one.
	Skipped int

	// Failed is the number of documents skipped due to per-document
	// extraction or embedding errors. Failed documents are not
	// fingerprinted, so a later run retries them.
	Failed int

	// Stale is the number of changed documents that were re-appended while
	// their previous rows remain in the index. Only a forced rebuild
	// removes stale rows.
	Stale int
}
