package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ferrule-labs/scantext/internal/adapters/driven/config/file"
	"github.com/ferrule-labs/scantext/internal/core/domain"
	"github.com/ferrule-labs/scantext/internal/core/ports/driven"
	"github.com/ferrule-labs/scantext/internal/core/ports/driving"
)

// mockRetriever returns canned search results.
type mockRetriever struct {
	results []domain.SearchResult
	err     error
	query   string
	opts    domain.SearchOptions
}

func (m *mockRetriever) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.query = query
	m.opts = opts
	return m.results, m.err
}

// mockBuilder returns a canned build report.
type mockBuilder struct {
	report *driving.BuildReport
	err    error
	force  bool
	calls  int
}

func (m *mockBuilder) Build(_ context.Context, force bool) (*driving.BuildReport, error) {
	m.calls++
	m.force = force
	return m.report, m.err
}

// mockStatsIndex implements the statistics side of driven.VectorIndex.
type mockStatsIndex struct {
	driven.VectorIndex
	stats driven.IndexStats
	err   error
}

func (m *mockStatsIndex) Stats(context.Context) (driven.IndexStats, error) {
	return m.stats, m.err
}

// mockExtractor returns canned OCR text.
type mockExtractor struct {
	text string
	err  error
	path string
}

func (m *mockExtractor) Extract(_ context.Context, path string) (string, error) {
	m.path = path
	return m.text, m.err
}

// setupTestServices injects mock services so commands run without the
// production wiring. The returned cleanup restores the previous state.
func setupTestServices() func() {
	oldConfig := appConfig
	oldRetriever := retriever
	oldBuilder := indexBuilder
	oldIndex := vectorIndex
	oldExtractor := ocrExtractor
	oldReady := runtimeReady

	appConfig = file.Default("/tmp/scantext-test")
	retriever = &mockRetriever{
		results: []domain.SearchResult{
			{DocumentID: "receipt.png", Ordinal: 0, Text: "total due 42.00", Score: 0.91},
		},
	}
	indexBuilder = &mockBuilder{report: &driving.BuildReport{Scanned: 1, Indexed: 1}}
	vectorIndex = &mockStatsIndex{stats: driven.IndexStats{Documents: 1, Chunks: 4, Dimensions: 384}}
	ocrExtractor = &mockExtractor{text: "hello from ocr"}
	runtimeReady = true

	return func() {
		appConfig = oldConfig
		retriever = oldRetriever
		indexBuilder = oldBuilder
		vectorIndex = oldIndex
		ocrExtractor = oldExtractor
		runtimeReady = oldReady
	}
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "scantext", rootCmd.Use)
}

func TestRootCmd_HasPersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("9.9.9")
	assert.Equal(t, "9.9.9", version)

	SetVersion("")
	assert.Equal(t, "9.9.9", version, "empty version is ignored")
}

func TestNewEmbeddingService_UnknownProvider(t *testing.T) {
	_, err := newEmbeddingService(file.EmbeddingConfig{Provider: "acme"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "acme")
}

func TestNewEmbeddingService_DefaultsToOllama(t *testing.T) {
	svc, err := newEmbeddingService(file.EmbeddingConfig{})
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestNewEmbeddingService_OpenAIRequiresKey(t *testing.T) {
	_, err := newEmbeddingService(file.EmbeddingConfig{Provider: "openai"})
	assert.Error(t, err)
}
