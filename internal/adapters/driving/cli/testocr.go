package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var testOCRSave bool

var testOCRCmd = &cobra.Command{
	Use:   "test-ocr [image]",
	Short: "Run OCR on a single image without indexing it",
	Long: `Extracts text from one image and prints it, so OCR quality can be
checked before committing a whole directory to the index.

With --save the text is also written to the manual-tests directory,
next to a file named after the image.`,
	Args: cobra.ExactArgs(1),
	RunE: runTestOCR,
}

func init() {
	testOCRCmd.Flags().BoolVar(&testOCRSave, "save", false, "save the extracted text to the manual-tests directory")
	rootCmd.AddCommand(testOCRCmd)
}

func runTestOCR(cmd *cobra.Command, args []string) error {
	if err := initRuntime(); err != nil {
		return err
	}
	if ocrExtractor == nil {
		return errors.New("ocr extractor not configured")
	}

	path := args[0]
	text, err := ocrExtractor.Extract(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("ocr failed: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		cmd.Println("No text detected.")
	} else {
		cmd.Println(text)
	}

	if !testOCRSave {
		return nil
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".txt"
	outPath := filepath.Join(appConfig.Paths.ManualTestsDir, name)
	if err := os.MkdirAll(appConfig.Paths.ManualTestsDir, 0o700); err != nil {
		return fmt.Errorf("creating manual-tests directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(text+"\n"), 0o600); err != nil {
		return fmt.Errorf("saving extracted text: %w", err)
	}
	cmd.Printf("\nSaved to %s\n", outPath)

	return nil
}
