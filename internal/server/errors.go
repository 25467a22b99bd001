package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jmegroup/adlib/internal/admin"
	"github.com/jmegroup/adlib/internal/extraction"
	"github.com/jmegroup/adlib/internal/types"
)

// ErrValidation indicates a malformed request body.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates an optional backend that is not configured.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// ErrNotFound indicates a missing record.
type ErrNotFound struct {
	What string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.What)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		pathErr      *admin.InvalidPathError
		payloadErr   *admin.InvalidPayloadError
		validErr     *ErrValidation
		violation    *types.SchemaViolation
		malformedErr *extraction.MalformedMarkupError
		tooLarge     *http.MaxBytesError
		unavailable  *ErrUnavailable
		notFound     *ErrNotFound
	)
	switch {
	case errors.Is(err, admin.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &pathErr), errors.As(err, &payloadErr), errors.As(err, &validErr),
		errors.As(err, &violation), errors.As(err, &malformedErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the JSON error payload for err. Unauthorized and invalid image
// paths use fixed messages so the admin UI can match on them.
func errorBody(err error) map[string]any {
	var (
		pathErr      *admin.InvalidPathError
		upstreamErr  *admin.UpstreamError
		validErr     *ErrValidation
		violation    *types.SchemaViolation
		malformedErr *extraction.MalformedMarkupError
	)
	switch {
	case errors.Is(err, admin.ErrUnauthorized):
		return map[string]any{"error": "Unauthorized"}
	case errors.As(err, &pathErr):
		return map[string]any{"error": "Invalid image path"}
	case errors.As(err, &upstreamErr):
		body := map[string]any{"error": upstreamErr.Message}
		if upstreamErr.Cause != nil {
			body["details"] = upstreamErr.Cause.Error()
		}
		return body
	case errors.As(err, &violation):
		fields := make([]string, 0, len(violation.Fields))
		for _, f := range violation.Fields {
			fields = append(fields, f.Path)
		}
		return map[string]any{"error": "Invalid content", "details": violation.Error(), "fields": fields}
	case errors.As(err, &malformedErr):
		body := map[string]any{"error": "Malformed markup", "path": malformedErr.Path, "details": malformedErr.Error()}
		if malformedErr.Offset >= 0 {
			body["offset"] = malformedErr.Offset
		}
		return body
	case errors.As(err, &validErr):
		return map[string]any{"error": validErr.Message, "field": validErr.Field}
	default:
		return map[string]any{"error": err.Error()}
	}
}
