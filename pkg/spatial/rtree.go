package spatial

import (
	"sort"

	"github.com/indlayout/engine/pkg/geom"
)

// maxEntries bounds the fan-out of each R-tree node before it splits.
const maxEntries = 8

// Entry associates an opaque index with a bounding box. The caller
// maps Index back to its own collection (a Block, a Lot, ...); the
// index never outlives the collection it was built from (spec.md §3,
// "Ownership & lifecycle").
type Entry struct {
	Index int
	Box   geom.Bounds
}

// Index is an R-tree over a fixed collection of entries. It is built
// once per collection and never mutated; querying never misses a true
// positive but may return false positives the caller must filter with
// an exact predicate (spec.md §4.2).
type Index struct {
	root *node
}

type node struct {
	box      geom.Bounds
	leaf     bool
	entries  []Entry
	children []*node
}

// Build constructs an R-tree over entries using a simple sort-tile-recursive
// packing: entries are sorted by box center (x then y) and grouped into
// leaves of maxEntries, matching the pack's sorted-iteration discipline
// for determinism.
func Build(entries []Entry) *Index {
	if len(entries) == 0 {
		return &Index{root: &node{leaf: true}}
	}
	sorted := append([]Entry{}, entries...)
	sort.Slice(sorted, func(i, j int) bool {
		ci, cj := sorted[i].Box.Center(), sorted[j].Box.Center()
		if ci.X != cj.X {
			return ci.X < cj.X
		}
		return ci.Y < cj.Y
	})
	return &Index{root: buildNode(sorted)}
}

func buildNode(entries []Entry) *node {
	if len(entries) <= maxEntries {
		n := &node{leaf: true, entries: entries}
		n.box = boxOfEntries(entries)
		return n
	}
	// Split into ceil(sqrt(n)) vertical strips, then each strip into
	// leaves — the standard sort-tile-recursive (STR) construction.
	numStrips := ceilSqrt(len(entries))
	stripSize := ceilDiv(len(entries), numStrips)

	var children []*node
	for i := 0; i < len(entries); i += stripSize {
		end := i + stripSize
		if end > len(entries) {
			end = len(entries)
		}
		strip := append([]Entry{}, entries[i:end]...)
		sort.Slice(strip, func(a, b int) bool {
			return strip[a].Box.Center().Y < strip[b].Box.Center().Y
		})
		for j := 0; j < len(strip); j += maxEntries {
			e2 := j + maxEntries
			if e2 > len(strip) {
				e2 = len(strip)
			}
			children = append(children, buildNode(strip[j:e2]))
		}
	}
	n := &node{leaf: false, children: children}
	n.box = boxOfChildren(children)
	return n
}

func ceilSqrt(n int) int {
	r := 1
	for r*r < n {
		r++
	}
	if r < 1 {
		return 1
	}
	return r
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

func boxOfEntries(entries []Entry) geom.Bounds {
	b := entries[0].Box
	for _, e := range entries[1:] {
		b = b.Union(e.Box)
	}
	return b
}

func boxOfChildren(children []*node) geom.Bounds {
	b := children[0].box
	for _, c := range children[1:] {
		b = b.Union(c.box)
	}
	return b
}

// QueryEnvelope returns every entry index whose box overlaps rect. It
// never misses a true positive (spec.md §4.2); the caller applies an
// exact predicate to discard false positives.
func (ix *Index) QueryEnvelope(rect geom.Bounds) []int {
	var out []int
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil || !n.box.Overlaps(rect) {
			return
		}
		if n.leaf {
			for _, e := range n.entries {
				if e.Box.Overlaps(rect) {
					out = append(out, e.Index)
				}
			}
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(ix.root)
	sort.Ints(out)
	return out
}

// QueryNearest returns up to k entry indices nearest to pt, ordered by
// distance from pt to the entry's box center. It is a straightforward
// linear scan over leaves rather than a true best-first branch-and-bound
// search — acceptable here because the tree holds at most a few
// thousand blocks/lots per pipeline run (spec.md §9's ~10^5-10^6 cell
// scale applies to the A* grid in C9, not this index).
func (ix *Index) QueryNearest(pt geom.Point, k int) []int {
	type cand struct {
		idx int
		d   float64
	}
	var all []cand
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		if n.leaf {
			for _, e := range n.entries {
				all = append(all, cand{e.Index, pt.Distance(e.Box.Center())})
			}
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(ix.root)
	sort.Slice(all, func(i, j int) bool {
		if all[i].d != all[j].d {
			return all[i].d < all[j].d
		}
		return all[i].idx < all[j].idx
	})
	if k > len(all) {
		k = len(all)
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = all[i].idx
	}
	return out
}
