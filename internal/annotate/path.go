package annotate

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a dotted path: a field name or a zero-based list index.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Name
}

// Path addresses a location in a content document, e.g. services.2.deliverables.0.
type Path []Segment

// ParsePath parses a dotted path. All-digit segments are list indices; they must be
// written without leading zeros so every location has exactly one spelling.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("empty path")
	}
	parts := strings.Split(s, ".")
	path := make(Path, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("path %q has an empty segment", s)
		}
		if isDigits(part) {
			n, err := strconv.Atoi(part)
			if err != nil || strconv.Itoa(n) != part {
				return nil, fmt.Errorf("path %q has a malformed index %q", s, part)
			}
			path = append(path, Segment{Index: n, IsIndex: true})
			continue
		}
		path = append(path, Segment{Name: part})
	}
	return path, nil
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// Pattern returns the path with every index replaced by "*".
func (p Path) Pattern() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		if seg.IsIndex {
			parts[i] = "*"
		} else {
			parts[i] = seg.Name
		}
	}
	return strings.Join(parts, ".")
}

// Child returns a new path with a field segment appended.
func (p Path) Child(name string) Path {
	return append(p[:len(p):len(p)], Segment{Name: name})
}

// Index returns a new path with an index segment appended.
func (p Path) Index(i int) Path {
	return append(p[:len(p):len(p)], Segment{Index: i, IsIndex: true})
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
