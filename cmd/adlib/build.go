package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmegroup/adlib/internal/contentfile"
	"github.com/jmegroup/adlib/internal/observability"
	"github.com/jmegroup/adlib/internal/rendering"
	"github.com/jmegroup/adlib/internal/types"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the content document into the annotated page",
	Long:  "Reads the content document (JSON or YAML), validates it and writes the annotated HTML page.",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

var (
	buildContentFile string
	buildOutputFile  string
	buildYear        int
)

func init() {
	buildCmd.Flags().StringVarP(&buildContentFile, "content", "c", "", "Path to the content document (default content.json)")
	buildCmd.Flags().StringVarP(&buildOutputFile, "out", "o", "", "Path to the output page (default index.html)")
	buildCmd.Flags().IntVar(&buildYear, "year", 0, "Copyright year (default current year)")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(_ *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	contentPath := override(buildContentFile, cfg.Content)
	outputPath := override(buildOutputFile, cfg.Markup)
	if buildYear > 0 {
		cfg.Year = buildYear
	}

	doc, size, err := buildSite(contentPath, outputPath, cfg.Year)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintDocumentSummary(doc)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Built %s from %s (%d bytes)\n", outputPath, contentPath, size)
	return nil
}

// buildSite renders the document at contentPath into outputPath. A zero year means
// the current year.
func buildSite(contentPath, outputPath string, year int) (*types.Document, int, error) {
	doc, err := contentfile.Load(contentPath)
	if err != nil {
		return nil, 0, err
	}

	var opts []rendering.Option
	if year > 0 {
		opts = append(opts, rendering.WithYear(year))
	}
	page, err := rendering.Render(doc, opts...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to render %s: %w", contentPath, err)
	}

	if err := os.WriteFile(outputPath, []byte(page), 0o644); err != nil {
		return nil, 0, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return doc, len(page), nil
}
