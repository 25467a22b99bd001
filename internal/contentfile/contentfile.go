// Package contentfile reads and writes content documents on disk.
package contentfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmegroup/adlib/internal/schemas"
	"github.com/jmegroup/adlib/internal/types"
)

// Format is the on-disk encoding of a content document.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension. Unknown extensions are JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FileError represents a failure reading, decoding or writing a content file
type FileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *FileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("content file %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("content file %s: %s", e.Path, e.Message)
}

func (e *FileError) Unwrap() error {
	return e.Cause
}

// Load reads and decodes the content document at path.
func Load(path string) (*types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Message: "failed to read", Cause: err}
	}
	doc, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, &FileError{Path: path, Message: "failed to decode", Cause: err}
	}
	return doc, nil
}

// Decode parses data in the given format. JSON input rejects unknown fields so typos
// in hand-edited files surface instead of being dropped.
func Decode(data []byte, format Format) (*types.Document, error) {
	var doc types.Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

// Marshal encodes doc as two-space indented JSON with a trailing newline. HTML
// characters are written literally.
func Marshal(doc *types.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes doc to path in the format its extension selects.
func Save(path string, doc *types.Document) error {
	var (
		data []byte
		err  error
	)
	switch FormatFor(path) {
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	default:
		data, err = Marshal(doc)
	}
	if err != nil {
		return &FileError{Path: path, Message: "failed to encode", Cause: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &FileError{Path: path, Message: "failed to write", Cause: err}
	}
	return nil
}

// ValidateSchema checks raw file content against the content JSON Schema. YAML is
// converted to JSON first, so both formats are held to the same rules.
func ValidateSchema(data []byte, format Format) error {
	if format == FormatYAML {
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return err
		}
		converted, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		data = converted
	}
	return schemas.ValidateContent(data)
}
