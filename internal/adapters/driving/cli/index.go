package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the search index from the scans directory",
	Long: `Extracts text from every image in the scans directory, chunks and
embeds it, and appends the result to the local index.

Images whose content has not changed since the last run are skipped.
Use --force to clear the index and reprocess everything; a forced
rebuild is also the only way to drop rows left behind by images whose
content changed.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexForce, "force", "f", false, "clear the index and reprocess all images")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if err := initRuntime(); err != nil {
		return err
	}
	if indexBuilder == nil {
		return errors.New("index builder not configured")
	}

	report, err := indexBuilder.Build(cmd.Context(), indexForce)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	cmd.Printf("Scanned %d images: %d indexed, %d unchanged, %d failed\n",
		report.Scanned, report.Indexed, report.Skipped, report.Failed)
	if report.Stale > 0 {
		cmd.Printf("%d images changed since the last run; run 'scantext index --force' to drop their old entries\n",
			report.Stale)
	}

	return nil
}
