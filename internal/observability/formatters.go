// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jmegroup/adlib/internal/audit"
	"github.com/jmegroup/adlib/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

func pad(s string, n int) string {
	if w := utf8.RuneCountInString(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

// PrintDocumentSummary outputs the size of each section of a content document.
func (p *Printer) PrintDocumentSummary(doc *types.Document) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Headline:      %s\n", strings.Join(doc.Hero.Headline, " / ")))
	sb.WriteString(fmt.Sprintf("Testimonials:  %d\n", len(doc.Testimonials)))
	sb.WriteString(fmt.Sprintf("Marquee:       %d items\n", len(doc.Marquee)))
	sb.WriteString(fmt.Sprintf("Stats:         %d\n", len(doc.Mission.Stats)))
	sb.WriteString(fmt.Sprintf("Pillars:       %d\n", len(doc.Approach.Pillars)))
	sb.WriteString(fmt.Sprintf("Clients:       %d categories\n", len(doc.Clients)))
	sb.WriteString("\n")

	if len(doc.Services) > 0 {
		sb.WriteString("Services:\n")
		count := min(len(doc.Services), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := doc.Services[i]
			sb.WriteString(fmt.Sprintf("  %02d %s (%d deliverables)\n", i+1, s.Name, len(s.Deliverables)))
		}
		if len(doc.Services) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Services)-maxItemsToShow))
		}
	}

	p.printBox("CONTENT DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAuditReport outputs the annotation counts and findings for one page.
func (p *Printer) PrintAuditReport(path string, report *audit.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Annotations: %d\n", report.Annotations))
	sb.WriteString(fmt.Sprintf("Lists:       %d\n", report.Lists))
	sb.WriteString(fmt.Sprintf("Mirrors:     %d\n", report.Mirrors))

	if report.OK() {
		sb.WriteString("\n✓ no issues")
	} else {
		sb.WriteString(fmt.Sprintf("\n%d issues:\n", len(report.Issues)))
		count := min(len(report.Issues), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", report.Issues[i]))
		}
		if len(report.Issues) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.Issues)-maxItemsToShow))
		}
	}

	p.printBox("AUDIT "+path, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintViolations outputs every failing field of a schema violation.
func (p *Printer) PrintViolations(v *types.SchemaViolation) {
	if v == nil || len(v.Fields) == 0 {
		return
	}

	var sb strings.Builder
	for _, f := range v.Fields {
		sb.WriteString(fmt.Sprintf("✗ %s (%s)\n", f.Path, f.Rule))
	}
	p.printBox(fmt.Sprintf("SCHEMA VIOLATIONS (%d)", len(v.Fields)), strings.TrimSuffix(sb.String(), "\n"))
}
