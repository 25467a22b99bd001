// Package annotate defines the annotation convention shared by the renderer and the
// extractor: marker attributes, dotted paths, the content schema, escaping rules and
// the table of decorated fields.
package annotate

import (
	"fmt"
	"strconv"
)

// Marker attributes embedded in rendered markup.
const (
	AttrPath   = "data-adlib-cms"
	AttrType   = "data-adlib-type"
	AttrList   = "data-adlib-list"
	AttrIndex  = "data-adlib-index"
	AttrTarget = "data-target"
	AttrMirror = "data-adlib-mirror"
)

// LeafType selects how a leaf value is encoded and decoded.
type LeafType string

// Leaf types. TypeText is the default and is never written as an explicit marker.
const (
	TypeText     LeafType = "text"
	TypeRichText LeafType = "richtext"
	TypeNumber   LeafType = "number"
	TypeImage    LeafType = "image"
	TypeVideo    LeafType = "video"
)

// ParseLeafType maps a type marker value to a LeafType. Unknown values fall back to
// text so the vocabulary can grow without breaking older extractors.
func ParseLeafType(s string) LeafType {
	switch LeafType(s) {
	case TypeRichText, TypeNumber, TypeImage, TypeVideo:
		return LeafType(s)
	default:
		return TypeText
	}
}

// IsMedia reports whether values of this type live in a src attribute.
func (t LeafType) IsMedia() bool {
	return t == TypeImage || t == TypeVideo
}

// LeafAttrs returns the path marker and, for non-text leaves, the type marker. The
// result starts with a space so it can be appended directly after a tag name.
func LeafAttrs(path string, t LeafType) string {
	attrs := fmt.Sprintf(` %s="%s"`, AttrPath, EscapeAttr(path))
	if t != TypeText && t != "" {
		attrs += fmt.Sprintf(` %s="%s"`, AttrType, t)
	}
	return attrs
}

// ItemAttrs returns the list-identity and index markers for a list item container.
func ItemAttrs(list string, index int) string {
	return fmt.Sprintf(` %s="%s" %s="%d"`, AttrList, EscapeAttr(list), AttrIndex, index)
}

// NumberAttrs returns the literal-value marker for a numeric leaf.
func NumberAttrs(n int) string {
	return fmt.Sprintf(` %s="%s"`, AttrTarget, strconv.Itoa(n))
}

// MirrorAttrs marks an element that repeats the value at path for display elsewhere.
func MirrorAttrs(path string) string {
	return fmt.Sprintf(` %s="%s"`, AttrMirror, EscapeAttr(path))
}
