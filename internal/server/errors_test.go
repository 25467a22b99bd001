package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmegroup/adlib/internal/admin"
	"github.com/jmegroup/adlib/internal/extraction"
	"github.com/jmegroup/adlib/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", admin.ErrUnauthorized, http.StatusUnauthorized},
		{"wrapped unauthorized", fmt.Errorf("save: %w", admin.ErrUnauthorized), http.StatusUnauthorized},
		{"invalid path", &admin.InvalidPathError{Path: "x"}, http.StatusBadRequest},
		{"invalid payload", &admin.InvalidPayloadError{Message: "bad"}, http.StatusBadRequest},
		{"validation", &ErrValidation{Field: "body", Message: "bad"}, http.StatusBadRequest},
		{"schema violation", &types.SchemaViolation{}, http.StatusBadRequest},
		{"malformed", &extraction.MalformedMarkupError{Path: "hero.cta", Offset: 3, Reason: "r"}, http.StatusBadRequest},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"not found", &ErrNotFound{What: "revision"}, http.StatusNotFound},
		{"unavailable", &ErrUnavailable{Feature: "revision log"}, http.StatusServiceUnavailable},
		{"upstream", &admin.UpstreamError{Step: "write", Path: "content.json", Message: "Failed to save"}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorBody(t *testing.T) {
	assert.Equal(t, map[string]any{"error": "Unauthorized"}, errorBody(admin.ErrUnauthorized))
	assert.Equal(t, map[string]any{"error": "Invalid image path"}, errorBody(&admin.InvalidPathError{Path: "../x"}))

	up := errorBody(&admin.UpstreamError{Step: "write", Path: "content.json", Message: "Failed to save", Cause: errors.New("HTTP 409")})
	assert.Equal(t, "Failed to save", up["error"])
	assert.Equal(t, "HTTP 409", up["details"])

	malformed := errorBody(&extraction.MalformedMarkupError{Path: "services.2", Offset: -1, Reason: "list item missing"})
	assert.Equal(t, "services.2", malformed["path"])
	assert.NotContains(t, malformed, "offset")

	violation := errorBody(&types.SchemaViolation{Fields: []types.FieldViolation{{Path: "hero.cta", Rule: "required"}}})
	assert.Equal(t, []string{"hero.cta"}, violation["fields"])
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "validation error: id - invalid revision id", (&ErrValidation{Field: "id", Message: "invalid revision id"}).Error())
	assert.Equal(t, "revision log is not configured", (&ErrUnavailable{Feature: "revision log"}).Error())
	assert.Equal(t, "revision 7 not found", (&ErrNotFound{What: "revision 7"}).Error())
}
