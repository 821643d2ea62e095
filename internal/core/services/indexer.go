package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ferrule-labs/scantext/internal/chunker"
	"github.com/ferrule-labs/scantext/internal/core/domain"
	"github.com/ferrule-labs/scantext/internal/core/ports/driven"
	"github.com/ferrule-labs/scantext/internal/core/ports/driving"
	"github.com/ferrule-labs/scantext/internal/logger"
)

// Ensure BuildService implements the interface.
var _ driving.IndexBuilder = (*BuildService)(nil)

// imageExtensions are the file types picked up from the scans directory.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// BuildService walks the scans directory and drives the extraction ->
// chunking -> embedding -> append pipeline. One builder runs at a time
// against a given index path; searches against the build's output are
// safe once Build returns.
type BuildService struct {
	scansDir  string
	extractor driven.TextExtractor
	chunker   *chunker.Chunker
	embedder  *Embedder
	index     driven.VectorIndex
}

// NewBuildService creates an index builder.
func NewBuildService(
	scansDir string,
	extractor driven.TextExtractor,
	ch *chunker.Chunker,
	embedder *Embedder,
	index driven.VectorIndex,
) *BuildService {
	return &BuildService{
		scansDir:  scansDir,
		extractor: extractor,
		chunker:   ch,
		embedder:  embedder,
		index:     index,
	}
}

// Build runs one indexing pass over the scans directory.
//
// With force set, the index is cleared first and every document is
// reprocessed; this is the only way to drop rows belonging to documents
// whose content changed or shrank, since the index has no
// delete-by-document primitive. Without force, documents whose stored
// fingerprint matches the file on disk are skipped.
//
// Per-document extraction and embedding failures are logged and counted
// but never abort the build; failed documents keep no fingerprint, so the
// next run retries them. Each document's records are committed as one
// unit, so interrupting a build between documents leaves the index
// consistent.
func (b *BuildService) Build(ctx context.Context, force bool) (*driving.BuildReport, error) {
	docs, err := b.listDocuments()
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}

	report := &driving.BuildReport{Scanned: len(docs)}
	logger.Section("Index Build")
	logger.Info("Found %d images in %s (force=%t)", len(docs), b.scansDir, force)

	if force {
		if err := b.index.Rebuild(ctx); err != nil {
			return nil, fmt.Errorf("rebuild index: %w", err)
		}
		logger.Info("Cleared existing index")
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		processed, stale, err := b.processDocument(ctx, doc, force)
		switch {
		case err != nil && isDocumentError(err):
			logger.Warn("Skipping %s: %v", doc.ID, err)
			report.Failed++
		case err != nil:
			// Index-level failures (dimension mismatch, corrupt state)
			// abort the whole build.
			return report, fmt.Errorf("index %s: %w", doc.ID, err)
		case processed:
			report.Indexed++
			if stale {
				report.Stale++
			}
		default:
			report.Skipped++
		}
	}

	if report.Stale > 0 {
		logger.Warn("%d changed documents re-appended; stale rows remain until a forced rebuild", report.Stale)
	}
	logger.Info("Build complete: %d indexed, %d skipped, %d failed", report.Indexed, report.Skipped, report.Failed)

	return report, nil
}

// processDocument runs the pipeline for one image. It reports whether the
// document was committed and whether older rows for it were left behind.
func (b *BuildService) processDocument(ctx context.Context, doc domain.Document, force bool) (processed, stale bool, err error) {
	fingerprint, err := fingerprintFile(doc.Path)
	if err != nil {
		return false, false, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, doc.ID, err)
	}

	stored, err := b.index.Fingerprint(ctx, doc.ID)
	known := true
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return false, false, err
		}
		known = false
	}

	if !force && known && stored == fingerprint {
		logger.Debug("Unchanged: %s", doc.ID)
		return false, false, nil
	}

	text, err := b.extractor.Extract(ctx, doc.Path)
	if err != nil {
		return false, false, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, doc.ID, err)
	}

	chunks := b.chunker.Split(doc.ID, strings.TrimSpace(text))
	logger.Debug("%s: %d chunks", doc.ID, len(chunks))

	records := make([]driven.IndexRecord, 0, len(chunks))
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, ch := range chunks {
			texts[i] = ch.Text
		}

		vectors, err := b.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return false, false, err
		}

		for i, ch := range chunks {
			records = append(records, driven.IndexRecord{
				DocumentID: ch.DocumentID,
				Ordinal:    ch.Ordinal,
				Text:       ch.Text,
				Embedding:  vectors[i],
			})
		}
	}

	if err := b.index.Append(ctx, doc.ID, fingerprint, records); err != nil {
		return false, false, err
	}

	// A known document that changed keeps its previous rows until the
	// next forced rebuild.
	return true, known && !force, nil
}

// listDocuments returns the image files under the scans directory in
// stable name order.
func (b *BuildService) listDocuments() ([]domain.Document, error) {
	entries, err := os.ReadDir(b.scansDir)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		docs = append(docs, domain.Document{
			ID:   entry.Name(),
			Path: filepath.Join(b.scansDir, entry.Name()),
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// isDocumentError reports whether err is scoped to a single document and
// must not abort the build.
func isDocumentError(err error) bool {
	return errors.Is(err, domain.ErrExtractionFailed) || errors.Is(err, domain.ErrEmbeddingFailed)
}

// fingerprintFile hashes the image file bytes. Using the image content
// rather than the extracted text means unchanged scans are skipped
// without re-running OCR.
func fingerprintFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
