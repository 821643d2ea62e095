// Package file loads and saves the scantext configuration as a TOML
// file under the data directory.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultDirName is the per-user scantext directory under $HOME.
const DefaultDirName = ".scantext"

// Config is the full application configuration with TOML mapping.
type Config struct {
	// Paths configures where scans and the index live.
	Paths PathsConfig `toml:"paths"`

	// Chunking configures the text windowing.
	Chunking ChunkingConfig `toml:"chunking"`

	// Embedding configures the embedding collaborator.
	Embedding EmbeddingConfig `toml:"embedding"`

	// Search configures retrieval behaviour.
	Search SearchConfig `toml:"search"`

	// OCR configures the tesseract invocation.
	OCR OCRConfig `toml:"ocr"`
}

// PathsConfig locates the on-disk layout.
type PathsConfig struct {
	// ScansDir holds the raw images to index.
	ScansDir string `toml:"scans_dir"`

	// IndexFile is the SQLite index database path.
	IndexFile string `toml:"index_file"`

	// ManualTestsDir receives text saved by the test-ocr command.
	ManualTestsDir string `toml:"manual_tests_dir"`
}

// ChunkingConfig sets the window geometry.
type ChunkingConfig struct {
	// Window is the chunk size in characters.
	Window int `toml:"window"`

	// Overlap is the number of characters shared between consecutive
	// chunks. Must be smaller than Window.
	Overlap int `toml:"overlap"`
}

// EmbeddingConfig selects and tunes the embedding collaborator.
type EmbeddingConfig struct {
	// Provider is "ollama" or "openai".
	Provider string `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url,omitempty"`

	// APIKey authenticates against hosted providers.
	APIKey string `toml:"api_key,omitempty"`

	// Dimensions is the vector size produced by the model.
	Dimensions int `toml:"dimensions"`

	// BatchSize is the number of chunk texts embedded per request.
	BatchSize int `toml:"batch_size"`

	// RequestsPerSecond rate-limits embed calls (0 = provider default).
	RequestsPerSecond float64 `toml:"requests_per_second,omitempty"`
}

// SearchConfig tunes retrieval.
type SearchConfig struct {
	// Limit is the default number of documents returned.
	Limit int `toml:"limit"`

	// Oversample multiplies Limit to size the raw chunk-hit request.
	Oversample int `toml:"oversample"`
}

// OCRConfig tunes the tesseract invocation.
type OCRConfig struct {
	// Binary is the tesseract executable (default: found on PATH).
	Binary string `toml:"binary,omitempty"`

	// PageSegMode is tesseract's --psm value.
	PageSegMode int `toml:"page_seg_mode"`

	// Language is the OCR language pack.
	Language string `toml:"language"`
}

// Default returns the configuration used when no file exists, rooted at
// baseDir (defaults to ~/.scantext).
func Default(baseDir string) Config {
	return Config{
		Paths: PathsConfig{
			ScansDir:       filepath.Join(baseDir, "scans"),
			IndexFile:      filepath.Join(baseDir, "index", "scantext.db"),
			ManualTestsDir: filepath.Join(baseDir, "manual-tests"),
		},
		Chunking: ChunkingConfig{
			Window:  500,
			Overlap: 100,
		},
		Embedding: EmbeddingConfig{
			Provider:   "ollama",
			Model:      "all-minilm",
			Dimensions: 384,
			BatchSize:  32,
		},
		Search: SearchConfig{
			Limit:      3,
			Oversample: 4,
		},
		OCR: OCRConfig{
			PageSegMode: 11,
			Language:    "eng",
		},
	}
}

// DefaultPath returns the standard config file location, ~/.scantext/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName, "config.toml"), nil
}

// Load reads the config at path, filling unset fields from defaults
// rooted next to the file. A missing file returns pure defaults.
func Load(path string) (Config, error) {
	cfg := Default(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyDefaults(&cfg, filepath.Dir(path))
	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// applyDefaults backfills zero values left by a partial config file.
func applyDefaults(cfg *Config, baseDir string) {
	def := Default(baseDir)

	if cfg.Paths.ScansDir == "" {
		cfg.Paths.ScansDir = def.Paths.ScansDir
	}
	if cfg.Paths.IndexFile == "" {
		cfg.Paths.IndexFile = def.Paths.IndexFile
	}
	if cfg.Paths.ManualTestsDir == "" {
		cfg.Paths.ManualTestsDir = def.Paths.ManualTestsDir
	}
	if cfg.Chunking.Window == 0 {
		cfg.Chunking.Window = def.Chunking.Window
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = def.Embedding.Provider
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = def.Embedding.Model
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = def.Embedding.Dimensions
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = def.Embedding.BatchSize
	}
	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = def.Search.Limit
	}
	if cfg.Search.Oversample == 0 {
		cfg.Search.Oversample = def.Search.Oversample
	}
	if cfg.OCR.PageSegMode == 0 {
		cfg.OCR.PageSegMode = def.OCR.PageSegMode
	}
	if cfg.OCR.Language == "" {
		cfg.OCR.Language = def.OCR.Language
	}
}
