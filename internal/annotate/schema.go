package annotate

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/agext/levenshtein"
	"github.com/jmegroup/adlib/internal/types"
)

// Kind is the shape of a schema node.
type Kind int

// Node kinds.
const (
	KindObject Kind = iota
	KindList
	KindLeaf
)

// Node describes one location in the content schema. Object nodes have ordered
// fields, list nodes an element node, leaf nodes a LeafType.
type Node struct {
	Kind   Kind
	Leaf   LeafType
	Fields []*Field
	Elem   *Node
	Type   reflect.Type
}

// Field is a named member of an object node. Index is the Go struct field index.
type Field struct {
	Name  string
	Index int
	Node  *Node
}

// Field returns the named field of an object node, or nil.
func (n *Node) Field(name string) *Field {
	for _, f := range n.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// PathError reports a path that does not exist in the schema.
type PathError struct {
	Path       string
	Reason     string
	Suggestion string
}

func (e *PathError) Error() string {
	msg := fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

var (
	schemaOnce sync.Once
	schemaRoot *Node
	leafPaths  []string
)

// Schema returns the content schema, derived once from types.Document. Struct order
// gives field order; `adlib` tags name non-text leaf types; int fields are numbers.
func Schema() *Node {
	schemaOnce.Do(func() {
		schemaRoot = buildNode(reflect.TypeOf(types.Document{}), "")
		collectPatterns(schemaRoot, "", &leafPaths)
		sort.Strings(leafPaths)
	})
	return schemaRoot
}

// LeafPatterns lists every leaf location as a pattern, e.g. "services.*.name".
func LeafPatterns() []string {
	Schema()
	out := make([]string, len(leafPaths))
	copy(out, leafPaths)
	return out
}

// Lookup resolves a path against the schema.
func Lookup(p Path) (*Node, error) {
	node := Schema()
	for i, seg := range p {
		switch node.Kind {
		case KindObject:
			if seg.IsIndex {
				return nil, pathError(p, fmt.Sprintf("segment %d is an index but %q is an object", i, p[:i]))
			}
			f := node.Field(seg.Name)
			if f == nil {
				return nil, pathError(p, fmt.Sprintf("unknown field %q", seg.Name))
			}
			node = f.Node
		case KindList:
			if !seg.IsIndex {
				return nil, pathError(p, fmt.Sprintf("segment %q must be an index", seg.Name))
			}
			node = node.Elem
		case KindLeaf:
			return nil, pathError(p, fmt.Sprintf("%q is a leaf", p[:i]))
		}
	}
	return node, nil
}

func pathError(p Path, reason string) *PathError {
	return &PathError{Path: p.String(), Reason: reason, Suggestion: Suggest(p.Pattern())}
}

// Suggest returns the closest known leaf pattern to pattern, or "" when nothing is
// reasonably close.
func Suggest(pattern string) string {
	best, bestDist := "", -1
	for _, candidate := range LeafPatterns() {
		d := levenshtein.Distance(pattern, candidate, nil)
		if bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	limit := max(2, len(pattern)/3)
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

func buildNode(t reflect.Type, tag string) *Node {
	switch t.Kind() {
	case reflect.Struct:
		node := &Node{Kind: KindObject, Type: t}
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				continue
			}
			node.Fields = append(node.Fields, &Field{
				Name:  name,
				Index: i,
				Node:  buildNode(sf.Type, sf.Tag.Get("adlib")),
			})
		}
		return node
	case reflect.Slice:
		return &Node{Kind: KindList, Type: t, Elem: buildNode(t.Elem(), tag)}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Node{Kind: KindLeaf, Leaf: TypeNumber, Type: t}
	case reflect.String:
		leaf := TypeText
		if tag != "" {
			leaf = ParseLeafType(tag)
		}
		return &Node{Kind: KindLeaf, Leaf: leaf, Type: t}
	default:
		panic(fmt.Sprintf("annotate: unsupported schema type %s", t))
	}
}

func collectPatterns(n *Node, prefix string, out *[]string) {
	join := func(seg string) string {
		if prefix == "" {
			return seg
		}
		return prefix + "." + seg
	}
	switch n.Kind {
	case KindObject:
		for _, f := range n.Fields {
			collectPatterns(f.Node, join(f.Name), out)
		}
	case KindList:
		collectPatterns(n.Elem, join("*"), out)
	case KindLeaf:
		*out = append(*out, prefix)
	}
}
