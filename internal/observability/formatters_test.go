package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jmegroup/adlib/internal/audit"
	"github.com/jmegroup/adlib/internal/fixtures"
	"github.com/jmegroup/adlib/internal/types"
)

func TestPrintDocumentSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDocumentSummary(fixtures.Document())
	output := buf.String()

	assert.Contains(t, output, "CONTENT DOCUMENT")
	assert.Contains(t, output, "Our mission / is advancing / yours.")
	assert.Contains(t, output, "Testimonials:  2")
	assert.Contains(t, output, "01 ")
}

func TestPrintDocumentSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintDocumentSummary(nil)
	assert.Empty(t, buf.String())
}

func TestPrintAuditReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAuditReport("index.html", &audit.Report{Annotations: 12, Lists: 2, Mirrors: 3})
	assert.Contains(t, buf.String(), "AUDIT index.html")
	assert.Contains(t, buf.String(), "✓ no issues")

	buf.Reset()
	report := &audit.Report{Annotations: 1}
	for i := 0; i < 7; i++ {
		report.Issues = append(report.Issues, audit.Issue{Kind: audit.KindListGap, Path: "services", Detail: "missing index"})
	}
	p.PrintAuditReport("page.html", report)
	assert.Contains(t, buf.String(), "7 issues:")
	assert.Contains(t, buf.String(), "[list-gap] services: missing index")
	assert.Contains(t, buf.String(), "... and 2 more")
}

func TestPrintViolations(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintViolations(&types.SchemaViolation{Fields: []types.FieldViolation{
		{Path: "hero.cta", Rule: "required"},
		{Path: "services.2.name", Rule: "trimmed"},
	}})

	assert.Contains(t, buf.String(), "SCHEMA VIOLATIONS (2)")
	assert.Contains(t, buf.String(), "✗ services.2.name (trimmed)")
}

func TestPrintBox_LinesHaveEqualWidth(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).printBox("TITLE", "short\n"+strings.Repeat("é", 80))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for _, line := range lines {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}
