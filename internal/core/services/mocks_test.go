package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ferrule-labs/scantext/internal/core/domain"
	"github.com/ferrule-labs/scantext/internal/core/ports/driven"
)

// mockEmbeddingService returns canned vectors keyed by input text.
// Unknown texts fall back to defaultVec; a nil defaultVec means failure.
type mockEmbeddingService struct {
	vectors    map[string][]float32
	defaultVec []float32
	dims       int
	failAll    bool
	calls      [][]string
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls = append(m.calls, append([]string(nil), texts...))
	if m.failAll {
		return nil, errors.New("model unavailable")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := m.vectors[t]; ok {
			out[i] = append([]float32(nil), v...)
			continue
		}
		if m.defaultVec == nil {
			return nil, fmt.Errorf("no vector for %q", t)
		}
		out[i] = append([]float32(nil), m.defaultVec...)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int            { return m.dims }
func (m *mockEmbeddingService) ModelName() string          { return "mock-embed" }
func (m *mockEmbeddingService) Ping(context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error               { return nil }

// mockVectorIndex is an in-memory VectorIndex honouring the port's
// row id, ordering and atomicity contracts.
type mockVectorIndex struct {
	records      []driven.IndexRecord
	rowIDs       []int64
	fingerprints map[string]string
	nextRowID    int64
	appendErr    error
}

func newMockVectorIndex() *mockVectorIndex {
	return &mockVectorIndex{fingerprints: make(map[string]string)}
}

func (m *mockVectorIndex) Append(_ context.Context, documentID, fingerprint string, records []driven.IndexRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	if len(records) > 0 {
		dims := len(records[0].Embedding)
		for _, r := range records {
			if len(r.Embedding) != dims {
				return domain.ErrDimensionMismatch
			}
		}
	}
	m.fingerprints[documentID] = fingerprint
	for _, r := range records {
		m.records = append(m.records, r)
		m.rowIDs = append(m.rowIDs, m.nextRowID)
		m.nextRowID++
	}
	return nil
}

func (m *mockVectorIndex) Fingerprint(_ context.Context, documentID string) (string, error) {
	fp, ok := m.fingerprints[documentID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return fp, nil
}

func (m *mockVectorIndex) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	hits := make([]driven.VectorHit, 0, len(m.records))
	for i, r := range m.records {
		var score float64
		for j := range query {
			if j < len(r.Embedding) {
				score += float64(query[j]) * float64(r.Embedding[j])
			}
		}
		hits = append(hits, driven.VectorHit{
			RowID:      m.rowIDs[i],
			DocumentID: r.DocumentID,
			Ordinal:    r.Ordinal,
			Text:       r.Text,
			Score:      score,
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func (m *mockVectorIndex) Rebuild(context.Context) error {
	m.records = nil
	m.rowIDs = nil
	m.fingerprints = make(map[string]string)
	m.nextRowID = 0
	return nil
}

func (m *mockVectorIndex) Stats(context.Context) (driven.IndexStats, error) {
	docs := make(map[string]bool)
	for _, r := range m.records {
		docs[r.DocumentID] = true
	}
	return driven.IndexStats{
		Chunks:    len(m.records),
		Documents: len(docs),
	}, nil
}

func (m *mockVectorIndex) Close() error { return nil }

// mockExtractor maps file base names to canned OCR text.
type mockExtractor struct {
	texts map[string]string
	fails map[string]bool
	calls int
}

func (m *mockExtractor) Extract(_ context.Context, path string) (string, error) {
	m.calls++
	name := base(path)
	if m.fails[name] {
		return "", errors.New("ocr engine crashed")
	}
	return m.texts[name], nil
}

func base(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
