// Package rendering renders a content document into annotated HTML.
package rendering

import (
	"fmt"
	"strings"
)

// TemplateError reports a failure to parse or execute the named page template.
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	msg := fmt.Sprintf("template %s: %s", e.Template, e.Message)
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError reports a document that could not be turned into page data. Path is
// the annotation being built when the failure happened; Fields lists the failing
// field paths of an invalid document.
type RenderError struct {
	Path    string
	Fields  []string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	msg := "render error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	msg += ": " + e.Message
	if len(e.Fields) > 0 {
		msg += " (" + strings.Join(e.Fields, ", ") + ")"
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
