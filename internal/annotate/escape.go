package annotate

import (
	"html"
	"regexp"
	"strings"
)

// Text content escaping. Apostrophes and double hyphens get typographic entities that
// decode back to the exact source sequence.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&rsquo;",
	"--", "&mdash;",
	"\n", "<br>",
)

// Attribute values only use entities that standard HTML unescaping reverses exactly.
var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// sourceEntities are decoded to the sequence the escaper replaced, not to the
// character the entity names.
var sourceEntities = map[string]string{
	"&amp;":   "&",
	"&lt;":    "<",
	"&gt;":    ">",
	"&quot;":  `"`,
	"&#39;":   "'",
	"&rsquo;": "'",
	"&mdash;": "--",
	"&nbsp;":  " ",
}

var (
	emphasisTag = regexp.MustCompile(`&lt;(/?)(em|strong)&gt;`)
	anchorOpen  = regexp.MustCompile(`&lt;a href="([^"<]*)"(?: target="([^"<]*)")?&gt;`)
	anchorClose = regexp.MustCompile(`&lt;/a&gt;`)

	breakTag   = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag     = regexp.MustCompile(`<!--[\s\S]*?-->|<[^>]*>`)
	richTag    = regexp.MustCompile(`<!--[\s\S]*?-->|<(/?)([a-zA-Z][a-zA-Z0-9]*)([^>]*)>`)
	anchorAttr = regexp.MustCompile(`\b(href|target)\s*=\s*"([^"]*)"`)
)

// EscapeText escapes a plain text value for element content. Newlines become <br>.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes a value for a double-quoted attribute.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// EscapeRich escapes a rich text value and then restores the allow-listed inline tags:
// <em>, <strong> and <a href> with an optional target. Anchors opened in a new context
// gain rel="noopener noreferrer".
func EscapeRich(s string) string {
	out := EscapeText(s)
	out = emphasisTag.ReplaceAllString(out, "<$1$2>")
	out = replaceAnchors(out)
	return anchorClose.ReplaceAllString(out, "</a>")
}

// DecodeText turns the inner markup of a text element back into its source string:
// line breaks become newlines, every other tag is dropped, entities are decoded and
// surrounding whitespace is trimmed.
func DecodeText(inner string) string {
	s := breakTag.ReplaceAllString(inner, "\n")
	s = anyTag.ReplaceAllString(s, "")
	return strings.TrimSpace(DecodeEntities(s))
}

// DecodeRich keeps only the allow-listed inline tags, written in canonical form, and
// decodes everything else like DecodeText.
func DecodeRich(inner string) string {
	s := richTag.ReplaceAllStringFunc(inner, func(m string) string {
		sub := richTag.FindStringSubmatch(m)
		if sub[2] == "" {
			return ""
		}
		name := strings.ToLower(sub[2])
		closing := sub[1] == "/"
		switch name {
		case "em", "strong":
			if closing {
				return "</" + name + ">"
			}
			return "<" + name + ">"
		case "br":
			return "\n"
		case "a":
			if closing {
				return "</a>"
			}
			return canonicalAnchor(sub[3])
		default:
			return ""
		}
	})
	return strings.TrimSpace(DecodeEntities(s))
}

func replaceAnchors(s string) string {
	matches := anchorOpen.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		href := s[m[2]:m[3]]
		if m[4] < 0 {
			b.WriteString(`<a href="` + href + `">`)
		} else {
			b.WriteString(`<a href="` + href + `" target="` + s[m[4]:m[5]] + `" rel="noopener noreferrer">`)
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func canonicalAnchor(attrs string) string {
	var href, target string
	var hasTarget bool
	for _, m := range anchorAttr.FindAllStringSubmatch(attrs, -1) {
		switch m[1] {
		case "href":
			href = m[2]
		case "target":
			target, hasTarget = m[2], true
		}
	}
	if hasTarget {
		return `<a href="` + href + `" target="` + target + `">`
	}
	return `<a href="` + href + `">`
}

// DecodeEntities decodes character references in a single left-to-right pass. The
// entities produced by the escapers map back to their source text; any other
// reference is decoded with standard HTML rules.
func DecodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}
		end := entityEnd(s, i)
		if end < 0 {
			b.WriteByte('&')
			i++
			continue
		}
		entity := s[i : end+1]
		if src, ok := sourceEntities[entity]; ok {
			b.WriteString(src)
		} else {
			b.WriteString(html.UnescapeString(entity))
		}
		i = end + 1
	}
	return b.String()
}

// entityEnd returns the index of the ';' closing the character reference that starts
// at s[start], or -1 when s[start] is a bare ampersand.
func entityEnd(s string, start int) int {
	for j := start + 1; j < len(s) && j-start <= 32; j++ {
		c := s[j]
		switch {
		case c == ';':
			if j == start+1 {
				return -1
			}
			return j
		case c == '#' && j == start+1:
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			return -1
		}
	}
	return -1
}
