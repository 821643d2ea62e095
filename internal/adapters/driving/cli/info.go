package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show index statistics and configuration",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, _ []string) error {
	if err := initRuntime(); err != nil {
		return err
	}
	if vectorIndex == nil {
		return errors.New("index not configured")
	}

	stats, err := vectorIndex.Stats(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Println("Index")
	cmd.Printf("  Documents:  %d\n", stats.Documents)
	cmd.Printf("  Chunks:     %d\n", stats.Chunks)
	if stats.Dimensions > 0 {
		cmd.Printf("  Dimensions: %d\n", stats.Dimensions)
	} else {
		cmd.Println("  Dimensions: (empty index)")
	}
	cmd.Println()
	cmd.Println("Configuration")
	cmd.Printf("  Scans directory: %s\n", appConfig.Paths.ScansDir)
	cmd.Printf("  Index file:      %s\n", appConfig.Paths.IndexFile)
	cmd.Printf("  Provider:        %s (%s)\n", appConfig.Embedding.Provider, appConfig.Embedding.Model)
	cmd.Printf("  Chunking:        window %d, overlap %d\n", appConfig.Chunking.Window, appConfig.Chunking.Overlap)

	return nil
}
