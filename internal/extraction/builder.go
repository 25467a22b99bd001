package extraction

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/jmegroup/adlib/internal/annotate"
	"github.com/jmegroup/adlib/internal/types"
)

// Builder collects leaf writes and list items, then assembles the document once every
// list is known to be contiguous. Slices are never sized from an index before that
// check, so list length is bounded by the number of annotations seen.
type Builder struct {
	writes []write
	set    map[string]bool
	items  map[string]map[int]bool
	done   bool
}

// write is one recorded Set or MarkItem. A nil value only ensures the item exists.
type write struct {
	path  annotate.Path
	value any
}

// NewBuilder returns a Builder for an empty document.
func NewBuilder() *Builder {
	return &Builder{
		set:   make(map[string]bool),
		items: make(map[string]map[int]bool),
	}
}

// Set records a leaf value. value must be a string for text and media leaves and an
// int for number leaves.
func (b *Builder) Set(p annotate.Path, value any) error {
	if b.done {
		return fmt.Errorf("builder already finished")
	}
	key := p.String()
	if b.set[key] {
		return fmt.Errorf("duplicate annotation for %s", key)
	}

	node, err := annotate.Lookup(p)
	if err != nil {
		return err
	}
	if node.Kind != annotate.KindLeaf {
		return fmt.Errorf("%s is not a leaf", key)
	}
	switch node.Leaf {
	case annotate.TypeNumber:
		if _, ok := value.(int); !ok {
			return fmt.Errorf("%s expects a number, got %T", key, value)
		}
	default:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%s expects a string, got %T", key, value)
		}
	}

	b.markLists(p)
	b.writes = append(b.writes, write{path: p, value: value})
	b.set[key] = true
	return nil
}

// MarkItem records that item index of the list at p exists, even if none of its
// leaves are annotated.
func (b *Builder) MarkItem(p annotate.Path, index int) error {
	if b.done {
		return fmt.Errorf("builder already finished")
	}
	if index < 0 {
		return fmt.Errorf("negative index %d for %s", index, p)
	}
	item := p.Index(index)
	if _, err := annotate.Lookup(item); err != nil {
		return err
	}
	b.markLists(item)
	b.writes = append(b.writes, write{path: item})
	return nil
}

// Document checks that every list is contiguous and returns the finished document.
// Absent lists become empty lists; absent leaves keep their zero value.
func (b *Builder) Document() (*types.Document, error) {
	if b.done {
		return nil, fmt.Errorf("builder already finished")
	}
	b.done = true

	lists := make([]string, 0, len(b.items))
	for list := range b.items {
		lists = append(lists, list)
	}
	sort.Strings(lists)
	for _, list := range lists {
		if err := checkContiguous(list, b.items[list]); err != nil {
			return nil, err
		}
	}

	doc := &types.Document{}
	root := reflect.ValueOf(doc).Elem()
	for _, w := range b.writes {
		v := locate(root, w.path)
		switch value := w.value.(type) {
		case int:
			v.SetInt(int64(value))
		case string:
			v.SetString(value)
		}
	}
	normalize(root)
	return doc, nil
}

// checkContiguous reports the first missing index of a list whose items are not
// exactly 0..n-1.
func checkContiguous(list string, seen map[int]bool) error {
	highest := -1
	for i := range seen {
		highest = max(highest, i)
	}
	if highest < len(seen) {
		return nil
	}
	missing := 0
	for seen[missing] {
		missing++
	}
	return &MalformedMarkupError{
		Path:   fmt.Sprintf("%s.%d", list, missing),
		Offset: -1,
		Reason: fmt.Sprintf("list item missing (%d items, highest index %d)", len(seen), highest),
	}
}

// markLists records every list index along p.
func (b *Builder) markLists(p annotate.Path) {
	for i, seg := range p {
		if !seg.IsIndex {
			continue
		}
		list := p[:i].String()
		seen := b.items[list]
		if seen == nil {
			seen = make(map[int]bool)
			b.items[list] = seen
		}
		seen[seg.Index] = true
	}
}

// locate walks a schema-checked path from root, growing lists as needed. Callers
// only pass paths whose lists have passed checkContiguous.
func locate(root reflect.Value, p annotate.Path) reflect.Value {
	v := root
	node := annotate.Schema()
	for _, seg := range p {
		switch node.Kind {
		case annotate.KindObject:
			f := node.Field(seg.Name)
			v = v.Field(f.Index)
			node = f.Node
		case annotate.KindList:
			if seg.Index >= v.Len() {
				grown := reflect.MakeSlice(v.Type(), seg.Index+1, seg.Index+1)
				reflect.Copy(grown, v)
				v.Set(grown)
			}
			v = v.Index(seg.Index)
			node = node.Elem
		}
	}
	return v
}

func normalize(v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				normalize(v.Field(i))
			}
		}
	case reflect.Slice:
		if v.IsNil() {
			v.Set(reflect.MakeSlice(v.Type(), 0, 0))
			return
		}
		for i := 0; i < v.Len(); i++ {
			normalize(v.Index(i))
		}
	}
}
