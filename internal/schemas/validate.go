// Package schemas validates raw content documents against the shipped JSON Schema.
package schemas

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jmegroup/adlib/schemas"
)

// FieldError is one schema failure at a dotted field path ("(root)" for the document itself).
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every schema failure of a document, ordered by field.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "content does not match schema (%d problems):\n", len(e.Errors))
	for i, fe := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

// Fields returns the distinct failing field paths in order.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		if len(out) == 0 || out[len(out)-1] != fe.Field {
			out = append(out, fe.Field)
		}
	}
	return out
}

// SchemaLoadError means the schema itself could not be read or compiled.
type SchemaLoadError struct {
	Path  string
	Cause error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Path, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// DocumentError means the document is not parseable JSON.
type DocumentError struct {
	Source string
	Cause  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Source, e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

const embeddedName = "(embedded content schema)"

var contentSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemafiles.Content))
	if err != nil {
		return nil, &SchemaLoadError{Path: embeddedName, Cause: err}
	}
	return s, nil
})

// ValidateContent validates raw JSON content against the embedded content schema.
func ValidateContent(data []byte) error {
	schema, err := contentSchema()
	if err != nil {
		return err
	}
	return check(schema, "content", gojsonschema.NewBytesLoader(data))
}

// ValidateFile validates a JSON file against a schema file on disk. Relative $refs in
// the schema resolve against its own directory.
func ValidateFile(schemaPath, jsonPath string) error {
	schemaAbs, err := filepath.Abs(schemaPath)
	if err != nil {
		return &SchemaLoadError{Path: schemaPath, Cause: err}
	}
	if _, err := os.Stat(schemaAbs); errors.Is(err, fs.ErrNotExist) {
		return &SchemaLoadError{Path: schemaPath, Cause: fmt.Errorf("schema file not found")}
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("document not found: %s", jsonPath)
		}
		return fmt.Errorf("failed to read %s: %w", jsonPath, err)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(schemaAbs)))
	if err != nil {
		return &SchemaLoadError{Path: schemaPath, Cause: err}
	}
	return check(schema, jsonPath, gojsonschema.NewBytesLoader(data))
}

func check(schema *gojsonschema.Schema, source string, doc gojsonschema.JSONLoader) error {
	result, err := schema.Validate(doc)
	if err != nil {
		return &DocumentError{Source: source, Cause: err}
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{Field: desc.Field(), Message: desc.Description()})
	}
	slices.SortStableFunc(ve.Errors, func(a, b FieldError) int {
		return cmp.Compare(a.Field, b.Field)
	})
	return ve
}
