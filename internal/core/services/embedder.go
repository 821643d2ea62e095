package services

import (
	"context"
	"fmt"
	"math"

	"github.com/ferrule-labs/scantext/internal/core/domain"
	"github.com/ferrule-labs/scantext/internal/core/ports/driven"
	"github.com/ferrule-labs/scantext/internal/logger"
)

// DefaultBatchSize is the number of chunk texts sent to the embedding
// collaborator per request.
const DefaultBatchSize = 32

// Embedder adapts the external embedding collaborator for the index:
// it batches texts for throughput and L2-normalises every output so that
// inner product equals cosine similarity at search time.
type Embedder struct {
	svc       driven.EmbeddingService
	batchSize int
}

// EmbedderOption configures the embedder.
type EmbedderOption func(*Embedder)

// WithBatchSize sets the number of texts per collaborator request.
func WithBatchSize(n int) EmbedderOption {
	return func(e *Embedder) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// NewEmbedder creates an embedder on top of the given embedding service.
func NewEmbedder(svc driven.EmbeddingService, opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		svc:       svc,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dimensions returns the collaborator's vector dimension.
func (e *Embedder) Dimensions() int {
	return e.svc.Dimensions()
}

// EmbedTexts maps texts to unit-norm vectors, one per input in the same
// order. A collaborator failure surfaces as domain.ErrEmbeddingFailed
// naming the batch; there is no retry here - retry is the caller's
// decision.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		logger.Debug("Embedding batch %d..%d of %d texts", start, end-1, len(texts))
		vecs, err := e.svc.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("%w: batch [%d:%d] of %d texts: %v",
				domain.ErrEmbeddingFailed, start, end, len(texts), err)
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("%w: batch [%d:%d] returned %d vectors for %d texts",
				domain.ErrEmbeddingFailed, start, end, len(vecs), end-start)
		}

		for _, v := range vecs {
			Normalise(v)
			out = append(out, v)
		}
	}

	return out, nil
}

// EmbedQuery maps a single query string to a unit-norm vector.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	v, err := e.svc.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", domain.ErrEmbeddingFailed, err)
	}
	Normalise(v)
	return v, nil
}

// Normalise scales v to unit L2 length in place. A zero vector is left
// untouched: it scores 0 against every query, which is the accepted
// degenerate result for empty or unintelligible text.
func Normalise(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}
