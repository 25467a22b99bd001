package annotate

import (
	"regexp"
	"strings"
)

// Position locates a leaf within its list. Len is zero for leaves outside a list.
type Position struct {
	Index int
	Len   int
}

// Last reports whether the leaf is the final item of its list.
func (p Position) Last() bool {
	return p.Len > 0 && p.Index == p.Len-1
}

// Decoration is a fixed presentation transform applied to a leaf's escaped markup.
// Decode must undo Encode on the element's inner markup before generic decoding, so
// that the canonical value is always the undecorated source string.
type Decoration struct {
	Pattern string
	Encode  func(escaped string, pos Position) string
	Decode  func(inner string) string
}

const (
	arrowSuffix    = " &rarr;"
	proveWordOpen  = `<span class="prove-word">`
	proveWordClose = `</span>`
)

var (
	trailingArrow = regexp.MustCompile(`\s*(&rarr;|→)\s*$`)
	proveWordSpan = regexp.MustCompile(`<span class="prove-word">(.*?)</span>`)
	// Only ASCII whitespace around the break belongs to the markup layout.
	titleBreak = regexp.MustCompile(`(?i)[ \t\r\n]*<br\s*/?>[ \t\r\n]*`)
)

// trimOne removes the entity form of a typographic mark, or the literal mark when the
// entity is absent. Never both: the value itself may start or end with the literal.
func trimOne(s, entity, literal string, cut func(string, string) (string, bool)) string {
	if rest, ok := cut(s, entity); ok {
		return rest
	}
	rest, _ := cut(s, literal)
	return rest
}

// Decorations is the table of decorated fields.
var Decorations = []Decoration{
	{
		// Multi-word titles break after the first word.
		Pattern: "approach.title",
		Encode: func(escaped string, _ Position) string {
			return strings.Replace(escaped, " ", "<br>", 1)
		},
		Decode: func(inner string) string {
			loc := titleBreak.FindStringIndex(inner)
			if loc == nil {
				return inner
			}
			return inner[:loc[0]] + " " + inner[loc[1]:]
		},
	},
	{
		Pattern: "mission.ctaLink",
		Encode: func(escaped string, _ Position) string {
			return escaped + arrowSuffix
		},
		Decode: func(inner string) string {
			return trailingArrow.ReplaceAllString(inner, "")
		},
	},
	{
		Pattern: "testimonials.*.quote",
		Encode: func(escaped string, _ Position) string {
			return "&ldquo;" + escaped + "&rdquo;"
		},
		Decode: func(inner string) string {
			s := strings.TrimSpace(inner)
			return trimOne(trimOne(s, "&ldquo;", "“", strings.CutPrefix), "&rdquo;", "”", strings.CutSuffix)
		},
	},
	{
		// The closing question is revealed word by word.
		Pattern: "mission.ctaQuestions.*",
		Encode: func(escaped string, pos Position) string {
			if !pos.Last() {
				return escaped
			}
			words := strings.Split(escaped, " ")
			for i, w := range words {
				words[i] = proveWordOpen + w + proveWordClose
			}
			return strings.Join(words, " ")
		},
		Decode: func(inner string) string {
			return proveWordSpan.ReplaceAllString(inner, "$1")
		},
	},
}

var decorationIndex = func() map[string]*Decoration {
	m := make(map[string]*Decoration, len(Decorations))
	for i := range Decorations {
		m[Decorations[i].Pattern] = &Decorations[i]
	}
	return m
}()

// DecorationFor returns the decoration registered for the path's pattern, or nil.
func DecorationFor(p Path) *Decoration {
	return decorationIndex[p.Pattern()]
}

// Encode escapes a leaf value for its type and applies any decoration for the path.
func Encode(p Path, t LeafType, value string, pos Position) string {
	var out string
	switch t {
	case TypeRichText:
		out = EscapeRich(value)
	default:
		out = EscapeText(value)
	}
	if d := DecorationFor(p); d != nil {
		out = d.Encode(out, pos)
	}
	return out
}

// Decode reverses Encode on an element's inner markup.
func Decode(p Path, t LeafType, inner string) string {
	if d := DecorationFor(p); d != nil {
		inner = d.Decode(inner)
	}
	if t == TypeRichText {
		return DecodeRich(inner)
	}
	return DecodeText(inner)
}
