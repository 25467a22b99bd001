package extraction

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/jmegroup/adlib/internal/annotate"
	"github.com/jmegroup/adlib/internal/types"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

// capture is an annotated content element whose inner markup is being collected.
// depth counts open elements with the same tag name, the capture's own included.
type capture struct {
	path     annotate.Path
	leaf     annotate.LeafType
	tag      string
	tagStart int
	start    int
	depth    int
}

// tagInfo holds the marker attributes of one start tag.
type tagInfo struct {
	name     string
	path     string
	hasPath  bool
	leafType string
	target   string
	src      string
	hasSrc   bool
	list     string
	index    string
	hasList  bool
}

// Extract decodes annotated markup back into a content document. Any annotation that
// cannot be resolved fails the whole extraction with a *MalformedMarkupError naming
// its path.
func Extract(markup string) (*types.Document, error) {
	e := &extractor{
		markup:  markup,
		builder: NewBuilder(),
	}
	if err := e.run(); err != nil {
		return nil, err
	}
	return e.builder.Document()
}

type extractor struct {
	markup  string
	builder *Builder
	open    []*capture
	offset  int
}

func (e *extractor) run() error {
	z := html.NewTokenizer(strings.NewReader(e.markup))
	for {
		tt := z.Next()
		tokenStart := e.offset
		e.offset += len(z.Raw())

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return &MalformedMarkupError{Offset: tokenStart, Reason: "tokenizer failure", Cause: err}
			}
			if len(e.open) > 0 {
				c := e.open[len(e.open)-1]
				return &MalformedMarkupError{
					Path:   c.path.String(),
					Offset: c.tagStart,
					Reason: "element <" + c.tag + "> is never closed",
				}
			}
			return nil

		case html.StartTagToken, html.SelfClosingTagToken:
			info := readTag(z)
			if tt == html.StartTagToken && !voidElements[info.name] {
				for _, c := range e.open {
					if c.tag == info.name {
						c.depth++
					}
				}
			}
			if err := e.startTag(info, tt == html.SelfClosingTagToken, tokenStart); err != nil {
				return err
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if err := e.endTag(string(name), tokenStart); err != nil {
				return err
			}
		}
	}
}

func (e *extractor) startTag(info tagInfo, selfClosing bool, tagStart int) error {
	if info.hasList {
		if err := e.markItem(info, tagStart); err != nil {
			return err
		}
	}
	if !info.hasPath {
		return nil
	}

	fail := func(reason string, cause error) error {
		return &MalformedMarkupError{Path: info.path, Offset: tagStart, Reason: reason, Cause: cause}
	}

	p, err := annotate.ParsePath(info.path)
	if err != nil {
		return fail("invalid path", err)
	}
	node, err := annotate.Lookup(p)
	if err != nil {
		return fail("unknown path", err)
	}
	if node.Kind != annotate.KindLeaf {
		return fail("path does not address a leaf", nil)
	}

	leaf := annotate.TypeText
	if info.leafType != "" {
		leaf = annotate.ParseLeafType(info.leafType)
	}

	switch {
	case leaf == annotate.TypeNumber:
		n, err := strconv.Atoi(strings.TrimSpace(info.target))
		if err != nil {
			return fail("number without a valid "+annotate.AttrTarget+" value", err)
		}
		if err := e.builder.Set(p, n); err != nil {
			return fail("cannot store value", err)
		}
	case leaf.IsMedia():
		if !info.hasSrc {
			return fail("media element has no src attribute", nil)
		}
		if err := e.builder.Set(p, info.src); err != nil {
			return fail("cannot store value", err)
		}
	case voidElements[info.name]:
		return fail("void element <"+info.name+"> cannot carry "+string(leaf)+" content", nil)
	case selfClosing:
		if err := e.builder.Set(p, ""); err != nil {
			return fail("cannot store value", err)
		}
	default:
		e.open = append(e.open, &capture{
			path:     p,
			leaf:     leaf,
			tag:      info.name,
			tagStart: tagStart,
			start:    e.offset,
			depth:    1,
		})
	}
	return nil
}

func (e *extractor) endTag(name string, tagStart int) error {
	for i := 0; i < len(e.open); i++ {
		c := e.open[i]
		if c.tag != name {
			continue
		}
		c.depth--
		if c.depth > 0 {
			continue
		}

		inner := e.markup[c.start:tagStart]
		value := annotate.Decode(c.path, c.leaf, inner)
		if err := e.builder.Set(c.path, value); err != nil {
			return &MalformedMarkupError{Path: c.path.String(), Offset: c.tagStart, Reason: "cannot store value", Cause: err}
		}
		e.open = append(e.open[:i], e.open[i+1:]...)
		i--
	}
	return nil
}

func (e *extractor) markItem(info tagInfo, tagStart int) error {
	fail := func(reason string, cause error) error {
		return &MalformedMarkupError{Path: info.list, Offset: tagStart, Reason: reason, Cause: cause}
	}
	p, err := annotate.ParsePath(info.list)
	if err != nil {
		return fail("invalid list path", err)
	}
	index, err := strconv.Atoi(info.index)
	if err != nil || index < 0 {
		return fail("list item without a valid "+annotate.AttrIndex+" value", err)
	}
	if err := e.builder.MarkItem(p, index); err != nil {
		return fail("unknown list", err)
	}
	return nil
}

func readTag(z *html.Tokenizer) tagInfo {
	name, hasAttr := z.TagName()
	info := tagInfo{name: string(name)}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		switch string(key) {
		case annotate.AttrPath:
			info.path, info.hasPath = string(val), true
		case annotate.AttrType:
			info.leafType = string(val)
		case annotate.AttrTarget:
			info.target = string(val)
		case "src":
			info.src, info.hasSrc = string(val), true
		case annotate.AttrList:
			info.list, info.hasList = string(val), true
		case annotate.AttrIndex:
			info.index = string(val)
		}
	}
	return info
}
