// Package chunker splits extracted text into fixed-size overlapping windows.
package chunker

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ferrule-labs/scantext/internal/core/domain"
)

// DefaultWindow is the default number of characters per chunk.
const DefaultWindow = 500

// DefaultOverlap is the default number of characters shared between
// consecutive chunks.
const DefaultOverlap = 100

// Chunker cuts a document's text into an ordered sequence of overlapping
// windows. It is a pure function of its configuration and inputs.
type Chunker struct {
	window  int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithWindow sets the window size in characters.
func WithWindow(size int) Option {
	return func(c *Chunker) {
		c.window = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// New creates a chunker with the given options. The overlap must be
// non-negative and strictly smaller than the window; anything else is a
// configuration error and fails before any work is done.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		window:  DefaultWindow,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.window <= 0 {
		return nil, fmt.Errorf("%w: window %d must be positive", domain.ErrInvalidChunking, c.window)
	}
	if c.overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative", domain.ErrInvalidChunking, c.overlap)
	}
	if c.overlap >= c.window {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than window %d",
			domain.ErrInvalidChunking, c.overlap, c.window)
	}

	return c, nil
}

// Window returns the configured window size.
func (c *Chunker) Window() int {
	return c.window
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split cuts text into chunks owned by documentID. Windows are measured in
// runes so multi-byte scans chunk the same as ASCII ones. Each chunk starts
// window-overlap runes after its predecessor; the final chunk may be
// shorter than the window. Empty text produces no chunks.
func (c *Chunker) Split(documentID, text string) []domain.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.window - c.overlap
	chunks := make([]domain.Chunk, 0, len(runes)/step+1)

	for start := 0; ; start += step {
		end := start + c.window
		last := end >= len(runes)
		if last {
			end = len(runes)
		}

		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			Ordinal:    len(chunks),
			Text:       string(runes[start:end]),
		})

		if last {
			return chunks
		}
	}
}
