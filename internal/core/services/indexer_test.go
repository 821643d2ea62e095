package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrule-labs/scantext/internal/chunker"
	"github.com/ferrule-labs/scantext/internal/core/domain"
)

// buildFixture wires a BuildService over a temp scans directory with
// canned OCR text and an in-memory index.
type buildFixture struct {
	scansDir  string
	extractor *mockExtractor
	index     *mockVectorIndex
	builder   *BuildService
}

func newBuildFixture(t *testing.T) *buildFixture {
	t.Helper()

	ch, err := chunker.New()
	require.NoError(t, err)

	f := &buildFixture{
		scansDir:  t.TempDir(),
		extractor: &mockExtractor{texts: map[string]string{}, fails: map[string]bool{}},
		index:     newMockVectorIndex(),
	}
	embedder := NewEmbedder(&mockEmbeddingService{defaultVec: []float32{1, 0, 0}, dims: 3})
	f.builder = NewBuildService(f.scansDir, f.extractor, ch, embedder, f.index)
	return f
}

// addScan writes an image file and registers its OCR text.
func (f *buildFixture) addScan(t *testing.T, name, content, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.scansDir, name), []byte(content), 0o600))
	f.extractor.texts[name] = text
}

func TestBuild_IndexesAllImages(t *testing.T) {
	f := newBuildFixture(t)
	f.addScan(t, "receipt.png", "png-bytes-1", "total amount due")
	f.addScan(t, "invoice.jpg", "jpg-bytes-2", "invoice number 42")

	report, err := f.builder.Build(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 2, report.Indexed)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Failed)
	assert.Len(t, f.index.records, 2)
	assert.Len(t, f.index.fingerprints, 2)
}

func TestBuild_IgnoresNonImageFiles(t *testing.T) {
	f := newBuildFixture(t)
	f.addScan(t, "scan.png", "png-bytes", "some text")
	require.NoError(t, os.WriteFile(filepath.Join(f.scansDir, "notes.txt"), []byte("plain"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(f.scansDir, "subdir.png"), 0o700))

	report, err := f.builder.Build(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Indexed)
}

func TestBuild_SkipsUnchangedDocuments(t *testing.T) {
	f := newBuildFixture(t)
	f.addScan(t, "scan.png", "png-bytes", "stable text")

	_, err := f.builder.Build(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, f.index.records, 1)
	require.Equal(t, 1, f.extractor.calls)

	report, err := f.builder.Build(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Indexed)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, f.index.records, 1, "no new rows on an unchanged rerun")
	assert.Equal(t, 1, f.extractor.calls, "unchanged image must not be re-OCRed")
}

func TestBuild_ChangedDocumentAppendsAndCountsStale(t *testing.T) {
	f := newBuildFixture(t)
	f.addScan(t, "scan.png", "version-one", "first text")

	_, err := f.builder.Build(context.Background(), false)
	require.NoError(t, err)

	f.addScan(t, "scan.png", "version-two", "second text")

	report, err := f.builder.Build(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Indexed)
	assert.Equal(t, 1, report.Stale)
	// Old rows stay behind until a forced rebuild.
	assert.Len(t, f.index.records, 2)
	assert.Equal(t, "second text", f.index.records[1].Text)
}

func TestBuild_ForceClearsAndReprocesses(t *testing.T) {
	f := newBuildFixture(t)
	f.addScan(t, "a.png", "bytes-a", "text a")
	f.addScan(t, "b.png", "bytes-b", "text b")

	_, err := f.builder.Build(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, f.index.records, 2)

	report, err := f.builder.Build(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Indexed)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Stale)
	assert.Len(t, f.index.records, 2, "forced rebuild replaces rather than accumulates")
	assert.Equal(t, int64(0), f.index.rowIDs[0], "row ids restart after rebuild")
}

func TestBuild_ExtractionFailureSkipsAndRetries(t *testing.T) {
	f := newBuildFixture(t)
	f.addScan(t, "good.png", "bytes-good", "readable text")
	f.addScan(t, "bad.png", "bytes-bad", "")
	f.extractor.fails["bad.png"] = true

	report, err := f.builder.Build(context.Background(), false)
	require.NoError(t, err, "a document failure must not abort the build")

	assert.Equal(t, 1, report.Indexed)
	assert.Equal(t, 1, report.Failed)
	assert.Len(t, f.index.records, 1)

	// No fingerprint was stored for the failed document, so the next run
	// retries it.
	_, fpErr := f.index.Fingerprint(context.Background(), "bad.png")
	assert.ErrorIs(t, fpErr, domain.ErrNotFound)

	f.extractor.fails["bad.png"] = false
	f.extractor.texts["bad.png"] = "recovered text"

	report, err = f.builder.Build(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Indexed)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Failed)
}

func TestBuild_EmbeddingFailureSkipsDocument(t *testing.T) {
	f := newBuildFixture(t)
	f.addScan(t, "scan.png", "bytes", "some text")

	embedder := NewEmbedder(&mockEmbeddingService{failAll: true, dims: 3})
	ch, err := chunker.New()
	require.NoError(t, err)
	builder := NewBuildService(f.scansDir, f.extractor, ch, embedder, f.index)

	report, err := builder.Build(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, f.index.records)
	assert.Empty(t, f.index.fingerprints)
}

func TestBuild_IndexErrorAborts(t *testing.T) {
	f := newBuildFixture(t)
	f.addScan(t, "scan.png", "bytes", "some text")
	f.index.appendErr = domain.ErrDimensionMismatch

	report, err := f.builder.Build(context.Background(), false)
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, 0, report.Indexed)
}

func TestBuild_EmptyTextRecordsFingerprintOnly(t *testing.T) {
	f := newBuildFixture(t)
	f.addScan(t, "blank.png", "blank-bytes", "   \n  ")

	report, err := f.builder.Build(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Indexed)
	assert.Empty(t, f.index.records, "whitespace-only OCR output yields no chunks")

	fp, err := f.index.Fingerprint(context.Background(), "blank.png")
	require.NoError(t, err)
	assert.NotEmpty(t, fp)

	// The blank document is skipped on the next run.
	report, err = f.builder.Build(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
}

func TestBuild_EmptyScansDirectory(t *testing.T) {
	f := newBuildFixture(t)

	report, err := f.builder.Build(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Scanned)
	assert.Equal(t, 0, report.Indexed)
}

func TestBuild_MissingScansDirectory(t *testing.T) {
	f := newBuildFixture(t)
	ch, err := chunker.New()
	require.NoError(t, err)
	embedder := NewEmbedder(&mockEmbeddingService{defaultVec: []float32{1, 0, 0}, dims: 3})
	builder := NewBuildService(filepath.Join(f.scansDir, "missing"), f.extractor, ch, embedder, f.index)

	_, err = builder.Build(context.Background(), false)
	require.Error(t, err)
}

func TestBuild_CancelledContextStops(t *testing.T) {
	f := newBuildFixture(t)
	f.addScan(t, "scan.png", "bytes", "some text")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.builder.Build(ctx, false)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.index.records)
}

func TestBuild_DocumentsProcessedInNameOrder(t *testing.T) {
	f := newBuildFixture(t)
	f.addScan(t, "c.png", "bytes-c", "text c")
	f.addScan(t, "a.png", "bytes-a", "text a")
	f.addScan(t, "b.png", "bytes-b", "text b")

	_, err := f.builder.Build(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, f.index.records, 3)
	assert.Equal(t, "a.png", f.index.records[0].DocumentID)
	assert.Equal(t, "b.png", f.index.records[1].DocumentID)
	assert.Equal(t, "c.png", f.index.records[2].DocumentID)
}
