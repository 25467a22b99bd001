package types

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldViolation is a single failing field, addressed by dotted json path.
type FieldViolation struct {
	Path string
	Rule string
}

// SchemaViolation is returned when a document does not satisfy the content schema.
// It is a caller error: the renderer never tries to repair its input.
type SchemaViolation struct {
	Fields []FieldViolation
}

func (e *SchemaViolation) Error() string {
	if len(e.Fields) == 0 {
		return "schema violation"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Path, f.Rule))
	}
	return "schema violation: " + strings.Join(parts, ", ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate

	indexPattern = regexp.MustCompile(`\[(\d+)\]`)
	spaceRun     = regexp.MustCompile(`\s{2,}|[\t\n\r]`)
)

// Validator returns the shared validator with the content rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("trimmed", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == strings.TrimSpace(s)
		})
		// Titles are split on single spaces for the forced line break.
		_ = v.RegisterValidation("singlespaced", func(fl validator.FieldLevel) bool {
			return !spaceRun.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Validate checks the document against the content schema.
func (d *Document) Validate() error {
	if d == nil {
		return &SchemaViolation{Fields: []FieldViolation{{Path: "(root)", Rule: "required"}}}
	}
	err := Validator().Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate document: %w", err)
	}

	violation := &SchemaViolation{Fields: make([]FieldViolation, 0, len(verrs))}
	for _, fe := range verrs {
		violation.Fields = append(violation.Fields, FieldViolation{
			Path: DottedPath(fe.Namespace()),
			Rule: fe.Tag(),
		})
	}
	return violation
}

// DottedPath converts a validator namespace ("Document.services[2].name") into the
// dotted path used by annotations ("services.2.name").
func DottedPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	return indexPattern.ReplaceAllString(namespace, ".$1")
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}
