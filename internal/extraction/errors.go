// Package extraction recovers a content document from annotated page markup.
package extraction

import "fmt"

// MalformedMarkupError reports markup that cannot be decoded into a document. Path
// names the annotation that failed; Offset is the byte offset of its opening tag, or
// -1 when the failure is not tied to one position (e.g. a list with a missing item).
type MalformedMarkupError struct {
	Path   string
	Offset int
	Reason string
	Cause  error
}

func (e *MalformedMarkupError) Error() string {
	msg := "malformed markup"
	if e.Path != "" {
		msg += fmt.Sprintf(" at %s", e.Path)
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" (offset %d)", e.Offset)
	}
	msg += ": " + e.Reason
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *MalformedMarkupError) Unwrap() error {
	return e.Cause
}
