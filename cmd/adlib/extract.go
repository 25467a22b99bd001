package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmegroup/adlib/internal/contentfile"
	"github.com/jmegroup/adlib/internal/extraction"
	"github.com/jmegroup/adlib/internal/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Rebuild the content document from an annotated page",
	Long: `Parses an annotated page and reconstructs the content document.

Without an argument the configured page (index.html) is read and the configured
content document (content.json) is overwritten. With a file argument the document
is written to stdout and nothing on disk changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

var extractOutputFile string

func init() {
	extractCmd.Flags().StringVarP(&extractOutputFile, "out", "o", "", "Write the document here instead of the default destination")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(_ *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	input := cfg.Markup
	output := cfg.Content
	if len(args) == 1 {
		input = args[0]
		output = ""
	}
	output = override(extractOutputFile, output)

	progressf(cfg, "Extracting %s\n", input)
	doc, err := extractFile(input)
	if err != nil {
		return err
	}

	if output == "" {
		return writeDocument(os.Stdout, doc)
	}
	if err := contentfile.Save(output, doc); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "Extracted %s -> %s\n", input, output)
	return nil
}

// extractFile reads and extracts the page at path.
func extractFile(path string) (*types.Document, error) {
	markup, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := extraction.Extract(string(markup))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func writeDocument(w io.Writer, doc *types.Document) error {
	data, err := contentfile.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
