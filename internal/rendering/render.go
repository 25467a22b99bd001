package rendering

import (
	_ "embed"
	"errors"
	"strings"
	"text/template"
	"time"

	"github.com/jmegroup/adlib/internal/types"
)

//go:embed templates/page.html.tmpl
var pageTemplate string

// Site holds the fixed, non-editable page identity.
type Site struct {
	Brand       string
	Title       string
	Description string
}

// DefaultSite is the identity used when no other is configured.
var DefaultSite = Site{
	Brand:       "JME Group",
	Title:       "JME Group | Nonprofit Advancement Consulting",
	Description: "JME Group is a boutique consulting firm in Austin, TX specializing in advancement strategies for nonprofit organizations.",
}

// Renderer renders documents with a parsed page template. It holds no mutable state
// and is safe for concurrent use.
type Renderer struct {
	year int
	site Site
	tmpl *template.Template
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithYear fixes the copyright year so output depends only on the document.
func WithYear(year int) Option {
	return func(r *Renderer) {
		r.year = year
	}
}

// WithSite overrides the page identity.
func WithSite(site Site) Option {
	return func(r *Renderer) {
		r.site = site
	}
}

// New parses the embedded page template.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		year: time.Now().Year(),
		site: DefaultSite,
	}
	for _, opt := range opts {
		opt(r)
	}

	tmpl, err := template.New("page").Option("missingkey=error").Parse(pageTemplate)
	if err != nil {
		return nil, &TemplateError{
			Template: "page",
			Message:  "failed to parse page template",
			Cause:    err,
		}
	}
	r.tmpl = tmpl
	return r, nil
}

// Render validates the document and renders the annotated page. A document that
// fails validation yields a RenderError wrapping *types.SchemaViolation.
func (r *Renderer) Render(doc *types.Document) (string, error) {
	if err := doc.Validate(); err != nil {
		renderErr := &RenderError{Message: "invalid document", Cause: err}
		var violation *types.SchemaViolation
		if errors.As(err, &violation) {
			for _, f := range violation.Fields {
				renderErr.Fields = append(renderErr.Fields, f.Path)
			}
		}
		return "", renderErr
	}

	data, err := buildPageData(doc, r.site, r.year)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	if err := r.tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Template: "page",
			Message:  "failed to execute template",
			Cause:    err,
		}
	}

	return result.String(), nil
}

// Render renders doc with a default Renderer.
func Render(doc *types.Document, opts ...Option) (string, error) {
	r, err := New(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(doc)
}
