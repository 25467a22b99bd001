package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmegroup/adlib/internal/audit"
	"github.com/jmegroup/adlib/internal/contentfile"
	"github.com/jmegroup/adlib/internal/extraction"
	"github.com/jmegroup/adlib/internal/observability"
	"github.com/jmegroup/adlib/internal/rendering"
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Audit annotated pages and verify they round-trip",
	Long: `For each page: extracts the document, renders it again and extracts the result,
requiring both documents to be identical; then audits the page's annotations.
Pages are checked concurrently. Without arguments the configured page is checked.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkResult is the outcome for one page.
type checkResult struct {
	Path   string
	Err    error // extraction or round-trip failure
	Report *audit.Report
}

func (r checkResult) ok() bool {
	return r.Err == nil && r.Report != nil && r.Report.OK()
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{cfg.Markup}
	}
	progressf(cfg, "Checking %d page(s)\n", len(args))

	results, err := checkFiles(cmd.Context(), args)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		for _, r := range results {
			printer.PrintAuditReport(r.Path, r.Report)
		}
	}

	failed := printCheckResults(os.Stdout, results, cfg.Verbose)
	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(results))
	}
	return nil
}

// checkFiles checks every path concurrently. Per-page problems are reported in the
// results; only a read failure aborts the run.
func checkFiles(ctx context.Context, paths []string) ([]checkResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]checkResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			markup, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			results[i] = checkPage(path, string(markup))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// checkPage runs the round trip and the audit on one page.
func checkPage(path, markup string) checkResult {
	result := checkResult{Path: path}

	report, err := audit.Audit(markup)
	if err != nil {
		result.Err = err
		return result
	}
	result.Report = report

	result.Err = roundTrip(markup)
	return result
}

// roundTrip requires extract(render(extract(markup))) to equal extract(markup). The
// copyright year is not part of the document, so any fixed year will do.
func roundTrip(markup string) error {
	doc, err := extraction.Extract(markup)
	if err != nil {
		return err
	}
	first, err := contentfile.Marshal(doc)
	if err != nil {
		return err
	}

	page, err := rendering.Render(doc, rendering.WithYear(2000))
	if err != nil {
		return fmt.Errorf("extracted document does not render: %w", err)
	}
	again, err := extraction.Extract(page)
	if err != nil {
		return fmt.Errorf("re-rendered page does not extract: %w", err)
	}
	second, err := contentfile.Marshal(again)
	if err != nil {
		return err
	}

	if !bytes.Equal(first, second) {
		return fmt.Errorf("document changed after a render and extract round trip")
	}
	return nil
}

// printCheckResults writes one line per page plus its issues and returns the number
// of failing pages.
func printCheckResults(w io.Writer, results []checkResult, verbose bool) int {
	failed := 0
	for _, r := range results {
		if r.ok() {
			if verbose {
				_, _ = fmt.Fprintf(w, "ok    %s (%d annotations, %d lists, %d mirrors)\n",
					r.Path, r.Report.Annotations, r.Report.Lists, r.Report.Mirrors)
			} else {
				_, _ = fmt.Fprintf(w, "ok    %s\n", r.Path)
			}
			continue
		}

		failed++
		_, _ = fmt.Fprintf(w, "FAIL  %s\n", r.Path)
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "      %v\n", r.Err)
		}
		if r.Report != nil {
			for _, issue := range r.Report.Issues {
				_, _ = fmt.Fprintf(w, "      %s\n", issue)
			}
		}
	}
	return failed
}
