// Package schemas holds the JSON Schema documents shipped with adlib.
package schemas

import _ "embed"

// Content is the JSON Schema for content documents.
//
//go:embed content.schema.json
var Content []byte
