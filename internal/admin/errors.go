// Package admin implements the content and image persistence handlers behind the
// site's admin editor.
package admin

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the supplied secret does not match.
var ErrUnauthorized = errors.New("unauthorized")

// InvalidPathError is returned for an image path outside the allow-list.
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid image path: %q", e.Path)
}

// InvalidPayloadError is returned when the payload cannot be encoded or decoded.
type InvalidPayloadError struct {
	Message string
	Cause   error
}

func (e *InvalidPayloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid payload: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid payload: %s", e.Message)
}

func (e *InvalidPayloadError) Unwrap() error {
	return e.Cause
}

// UpstreamError wraps a failure of the remote contents API. Step names the call that
// failed ("read" or "write"); Message is safe to show to the admin user.
type UpstreamError struct {
	Step    string
	Path    string
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upstream %s of %s failed: %s: %v", e.Step, e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("upstream %s of %s failed: %s", e.Step, e.Path, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
