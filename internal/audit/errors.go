// Package audit inspects rendered markup for annotation problems the extractor would
// either reject or silently tolerate.
package audit

import "fmt"

// AuditError represents a failure to audit markup
type AuditError struct {
	Message string
	Cause   error
}

func (e *AuditError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("audit error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("audit error: %s", e.Message)
}

func (e *AuditError) Unwrap() error {
	return e.Cause
}
