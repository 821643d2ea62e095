package driven

import "context"

// TextExtractor pulls raw text out of a scanned image.
// The returned text may be empty or noisy; no structure is guaranteed.
//
// Implementations may include:
//   - Tesseract via the external binary
//   - Hosted OCR APIs
type TextExtractor interface {
	// Extract runs OCR on the image at path and returns the raw text.
	// An empty string with a nil error is a valid result (blank scan).
	Extract(ctx context.Context, path string) (string, error)
}
