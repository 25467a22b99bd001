package audit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmegroup/adlib/internal/annotate"
)

// Kind classifies an audit finding.
type Kind string

// Finding kinds.
const (
	KindUnknownPath   Kind = "unknown-path"
	KindDuplicatePath Kind = "duplicate-path"
	KindListGap       Kind = "list-gap"
	KindListIndex     Kind = "list-index"
	KindHiddenCopy    Kind = "hidden-copy"
	KindMirror        Kind = "mirror-mismatch"
)

// Issue is one finding.
type Issue struct {
	Kind   Kind
	Path   string
	Detail string
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Kind, i.Path, i.Detail)
}

// Report summarizes the annotations found in a page.
type Report struct {
	Annotations int
	Lists       int
	Mirrors     int
	Issues      []Issue
}

// OK reports whether the audit found nothing.
func (r *Report) OK() bool {
	return len(r.Issues) == 0
}

func (r *Report) add(kind Kind, path, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Kind: kind, Path: path, Detail: fmt.Sprintf(format, args...)})
}

// Decorative duplicates of list content live under this class and must stay unannotated.
const hiddenCopySelector = ".marquee-copy"

// Audit parses markup and checks its annotations: every path resolves against the
// schema and appears once, list items are numbered 0..n-1, decorative copies carry no
// markers, and mirror elements repeat their canonical element's text.
func Audit(markup string) (*Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &AuditError{
			Message: "failed to parse HTML",
			Cause:   err,
		}
	}

	report := &Report{}
	canonical := make(map[string]*goquery.Selection)
	counts := make(map[string]int)
	var order []string

	doc.Find("[" + annotate.AttrPath + "]").Each(func(_ int, s *goquery.Selection) {
		path, _ := s.Attr(annotate.AttrPath)
		report.Annotations++
		if counts[path] == 0 {
			order = append(order, path)
			canonical[path] = s
		}
		counts[path]++
	})

	for _, path := range order {
		p, err := annotate.ParsePath(path)
		if err == nil {
			_, err = annotate.Lookup(p)
		}
		if err != nil {
			report.add(KindUnknownPath, path, "%v", err)
		}
		if counts[path] > 1 {
			report.add(KindDuplicatePath, path, "annotated %d times", counts[path])
		}
	}

	auditLists(doc, report)

	doc.Find(hiddenCopySelector).Find("[" + annotate.AttrPath + "], [" + annotate.AttrList + "]").Each(func(_ int, s *goquery.Selection) {
		path, ok := s.Attr(annotate.AttrPath)
		if !ok {
			path, _ = s.Attr(annotate.AttrList)
		}
		report.add(KindHiddenCopy, path, "marker inside decorative copy")
	})

	doc.Find("[" + annotate.AttrMirror + "]").Each(func(_ int, s *goquery.Selection) {
		path, _ := s.Attr(annotate.AttrMirror)
		report.Mirrors++
		target, ok := canonical[path]
		if !ok {
			report.add(KindMirror, path, "mirror has no canonical element")
			return
		}
		want := strings.TrimSpace(target.Text())
		got := strings.TrimSpace(s.Text())
		if want != got {
			report.add(KindMirror, path, "mirror shows %q, canonical element shows %q", got, want)
		}
	})

	return report, nil
}

func auditLists(doc *goquery.Document, report *Report) {
	lists := make(map[string]map[int]int)
	doc.Find("[" + annotate.AttrList + "]").Each(func(_ int, s *goquery.Selection) {
		list, _ := s.Attr(annotate.AttrList)
		raw, _ := s.Attr(annotate.AttrIndex)
		index, err := strconv.Atoi(raw)
		if err != nil || index < 0 {
			report.add(KindListIndex, list, "invalid index %q", raw)
			return
		}
		if lists[list] == nil {
			lists[list] = make(map[int]int)
		}
		lists[list][index]++
	})

	names := make([]string, 0, len(lists))
	for name := range lists {
		names = append(names, name)
	}
	sort.Strings(names)
	report.Lists = len(names)

	for _, name := range names {
		indices := lists[name]
		highest := -1
		for i := range indices {
			highest = max(highest, i)
		}
		for i := 0; i <= highest; i++ {
			switch n := indices[i]; {
			case n == 0:
				report.add(KindListGap, name, "item %d missing", i)
			case n > 1:
				report.add(KindListIndex, name, "item %d marked %d times", i, n)
			}
		}
	}
}
