// Package cli implements the scantext command-line interface.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ferrule-labs/scantext/internal/adapters/driven/config/file"
	"github.com/ferrule-labs/scantext/internal/adapters/driven/embedding/ollama"
	"github.com/ferrule-labs/scantext/internal/adapters/driven/embedding/openai"
	"github.com/ferrule-labs/scantext/internal/adapters/driven/extraction/tesseract"
	"github.com/ferrule-labs/scantext/internal/adapters/driven/vectorindex/sqlite"
	"github.com/ferrule-labs/scantext/internal/chunker"
	"github.com/ferrule-labs/scantext/internal/core/ports/driven"
	"github.com/ferrule-labs/scantext/internal/core/ports/driving"
	"github.com/ferrule-labs/scantext/internal/core/services"
	"github.com/ferrule-labs/scantext/internal/logger"
)

// version is set via SetVersion from the build.
var version = "dev"

// Services injected into the commands. Tests replace these directly;
// production wiring happens in initRuntime on first use.
var (
	appConfig    file.Config
	retriever    driving.Retriever
	indexBuilder driving.IndexBuilder
	vectorIndex  driven.VectorIndex
	ocrExtractor driven.TextExtractor

	runtimeClose func()
	runtimeReady bool
)

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "scantext",
	Short: "Semantic search over scanned images",
	Long: `Scantext indexes the text inside scanned images and photographs
and answers natural-language queries against them.

Images are OCRed, split into overlapping chunks, embedded and stored in
a local vector index. Searching embeds the query and returns the best
matching document per image.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		logger.SetOutput(cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.scantext/config.toml)")
}

// SetVersion records the build version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer closeRuntime()
	return rootCmd.ExecuteContext(ctx)
}

// initRuntime wires the production services from the config file. It is
// a no-op when tests have already injected services.
func initRuntime() error {
	if runtimeReady {
		return nil
	}

	path := flagConfig
	if path == "" {
		var err error
		path, err = file.DefaultPath()
		if err != nil {
			return err
		}
	}

	cfg, err := file.Load(path)
	if err != nil {
		return err
	}
	appConfig = cfg

	index, err := sqlite.Open(cfg.Paths.IndexFile)
	if err != nil {
		return err
	}

	embedSvc, err := newEmbeddingService(cfg.Embedding)
	if err != nil {
		index.Close()
		return err
	}

	ch, err := chunker.New(
		chunker.WithWindow(cfg.Chunking.Window),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)
	if err != nil {
		index.Close()
		embedSvc.Close()
		return err
	}

	extractor := tesseract.New(tesseract.Config{
		Binary:      cfg.OCR.Binary,
		PageSegMode: cfg.OCR.PageSegMode,
		Language:    cfg.OCR.Language,
	})

	embedder := services.NewEmbedder(embedSvc, services.WithBatchSize(cfg.Embedding.BatchSize))

	vectorIndex = index
	ocrExtractor = extractor
	retriever = services.NewRetrieveService(index, embedder)
	indexBuilder = services.NewBuildService(cfg.Paths.ScansDir, extractor, ch, embedder, index)

	runtimeClose = func() {
		embedSvc.Close()
		index.Close()
	}
	runtimeReady = true
	return nil
}

// newEmbeddingService builds the embedding collaborator named by the
// config's provider field.
func newEmbeddingService(cfg file.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			Dimensions:        cfg.Dimensions,
			RequestsPerSecond: cfg.RequestsPerSecond,
		}), nil
	case "openai":
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func closeRuntime() {
	if runtimeClose != nil {
		runtimeClose()
		runtimeClose = nil
	}
	runtimeReady = false
}
