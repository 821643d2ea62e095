// Package tesseract provides a text extraction adapter that shells out
// to the Tesseract OCR binary.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ferrule-labs/scantext/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Default configuration values.
const (
	// DefaultBinary is the tesseract executable looked up on PATH.
	DefaultBinary = "tesseract"

	// DefaultPageSegMode 11 treats the page as sparse text, which suits
	// scans where text is scattered rather than a clean paragraph block.
	DefaultPageSegMode = 11

	// DefaultLanguage is the OCR language pack.
	DefaultLanguage = "eng"
)

// Config holds configuration for the Tesseract extractor.
type Config struct {
	// Binary is the tesseract executable path (default: "tesseract").
	Binary string

	// PageSegMode is tesseract's --psm value (default: 11).
	PageSegMode int

	// Language is tesseract's -l value (default: "eng").
	Language string
}

// Extractor runs the tesseract binary against image files.
type Extractor struct {
	binary string
	psm    int
	lang   string
}

// New creates a Tesseract extractor.
func New(cfg Config) *Extractor {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.PageSegMode == 0 {
		cfg.PageSegMode = DefaultPageSegMode
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	return &Extractor{
		binary: cfg.Binary,
		psm:    cfg.PageSegMode,
		lang:   cfg.Language,
	}
}

// Extract runs OCR on the image at path and returns the raw text with
// surrounding whitespace trimmed. A blank page yields an empty string,
// not an error.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}

	args := e.args(path)
	cmd := exec.CommandContext(ctx, e.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("tesseract: %s: %s", path, msg)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// args builds the tesseract invocation: output to stdout, automatic
// engine selection, configured page segmentation and language.
func (e *Extractor) args(path string) []string {
	return []string{
		path,
		"stdout",
		"--oem", "3",
		"--psm", strconv.Itoa(e.psm),
		"-l", e.lang,
	}
}
