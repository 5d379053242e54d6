package docmirror

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TimestampLayout is the human-readable timestamp format used in the
// progress file and the generated table of contents.
const TimestampLayout = "2006-01-02 15:04:05"

// TOCEntry is one page in the table of contents.
type TOCEntry struct {
	URL  string
	Meta PageMeta
}

// TOCNode is a page with its children in the documentation tree.
type TOCNode struct {
	TOCEntry
	Children []*TOCNode
}

// TOC is the two views built from the page index: the hierarchical tree and
// the flat alphabetical list.
type TOC struct {
	Roots []*TOCNode
	Flat  []TOCEntry
	Total int
}

// BuildTOC derives the table of contents from the page index. Pages whose
// parent is empty or unknown become roots. Roots are ordered by discovery
// depth then title; children are ordered by title. Ordering is total
// (title comparisons fall back to URL) so output is deterministic.
func BuildTOC(pages map[string]PageMeta) *TOC {
	urls := make([]string, 0, len(pages))
	for u := range pages {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	nodes := make(map[string]*TOCNode, len(pages))
	for _, u := range urls {
		nodes[u] = &TOCNode{TOCEntry: TOCEntry{URL: u, Meta: pages[u]}}
	}

	var roots []*TOCNode
	for _, u := range urls {
		n := nodes[u]
		parent, ok := nodes[n.Meta.Parent]
		if n.Meta.Parent == "" || n.Meta.Parent == u || !ok {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	sort.Slice(roots, func(i, j int) bool {
		if roots[i].Meta.Depth != roots[j].Meta.Depth {
			return roots[i].Meta.Depth < roots[j].Meta.Depth
		}
		return entryLess(roots[i].TOCEntry, roots[j].TOCEntry)
	})
	for _, n := range nodes {
		children := n.Children
		sort.Slice(children, func(i, j int) bool {
			return entryLess(children[i].TOCEntry, children[j].TOCEntry)
		})
	}

	flat := make([]TOCEntry, 0, len(urls))
	for _, u := range urls {
		flat = append(flat, nodes[u].TOCEntry)
	}
	sort.Slice(flat, func(i, j int) bool {
		return entryLess(flat[i], flat[j])
	})

	return &TOC{Roots: roots, Flat: flat, Total: len(urls)}
}

// entryLess orders entries case-insensitively by title, breaking ties with
// the exact title and then the URL.
func entryLess(a, b TOCEntry) bool {
	al, bl := strings.ToLower(a.Meta.Title), strings.ToLower(b.Meta.Title)
	if al != bl {
		return al < bl
	}
	if a.Meta.Title != b.Meta.Title {
		return a.Meta.Title < b.Meta.Title
	}
	return a.URL < b.URL
}

// Render produces the TABLE_OF_CONTENTS.md content: generation stamp, page
// count, the documentation tree, and the flat alphabetical list. The tree is
// walked with an explicit stack; a seen-set guards against malformed parent
// graphs so every page renders at most once and rendering always terminates.
func (t *TOC) Render(generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString("# Table of Contents\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.Format(TimestampLayout))
	fmt.Fprintf(&b, "Total Pages: %d\n\n", t.Total)
	b.WriteString("---\n\n")

	b.WriteString("## Documentation Tree\n\n")
	seen := make(map[string]struct{}, t.Total)
	type frame struct {
		node  *TOCNode
		level int
	}
	var stack []frame
	push := func(nodes []*TOCNode, level int) {
		// reversed so the stack pops in display order
		for i := len(nodes) - 1; i >= 0; i-- {
			stack = append(stack, frame{nodes[i], level})
		}
	}
	push(t.Roots, 0)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[f.node.URL]; ok {
			continue
		}
		seen[f.node.URL] = struct{}{}
		indent := strings.Repeat("  ", f.level)
		fmt.Fprintf(&b, "%s- [%s](%s)\n", indent, entryTitle(f.node.TOCEntry), f.node.Meta.Filename)
		push(f.node.Children, f.level+1)
	}
	// pages trapped in parent cycles are unreachable from any root; list
	// them so the tree still covers every page
	for _, e := range t.Flat {
		if _, ok := seen[e.URL]; ok {
			continue
		}
		seen[e.URL] = struct{}{}
		fmt.Fprintf(&b, "- [%s](%s)\n", entryTitle(e), e.Meta.Filename)
	}

	b.WriteString("\n---\n\n")
	b.WriteString("## All Pages (Alphabetical)\n\n")
	for _, e := range t.Flat {
		fmt.Fprintf(&b, "- [%s](%s)\n", entryTitle(e), e.Meta.Filename)
		fmt.Fprintf(&b, "  - Source: %s\n", e.URL)
	}

	return b.String()
}

func entryTitle(e TOCEntry) string {
	if e.Meta.Title != "" {
		return e.Meta.Title
	}
	return e.Meta.Filename
}
