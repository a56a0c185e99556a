// Package boxscan implements the "box scanner" glossary entry: a
// sweep-line spatial engine that emits every pair of registered boxes
// whose bounds touch. It backs the local clustering builder's 2-D box
// scan (spec.md section 4.2) and the hierarchical builder's
// instance-to-instance and local-cluster-to-instance scans
// (spec.md section 4.3).
//
// The sort-then-sweep strategy generalizes the row-by-row sweep
// gridgraph.ConnectedComponents runs over a dense grid to arbitrary,
// sparse axis-aligned boxes.
package boxscan

import (
	"sort"

	"github.com/klayout-go/netex/geom"
)

// item is one registered box together with the index (into the
// caller's own slice) and the insertion order used to break ties.
type item struct {
	box  geom.Box
	idx  int
	seq  int
}

// Pairs reports every pair of indices (i, j), i<j, in boxes whose
// bounding boxes touch, in a deterministic order derived purely from
// box coordinates and input (insertion) order, per spec.md section 5's
// ordering guarantee. visit is called once per touching pair.
func Pairs(boxes []geom.Box, visit func(i, j int)) {
	items := makeItems(boxes)
	sort.SliceStable(items, func(a, b int) bool { return items[a].box.Left < items[b].box.Left })

	var active []item
	for _, cur := range items {
		// Drop active items that can no longer touch anything from here
		// on: once the sweep's current Left exceeds an active item's
		// Right, every later item (sorted by non-decreasing Left) is
		// also past it.
		kept := active[:0]
		for _, a := range active {
			if a.box.Right >= cur.box.Left {
				kept = append(kept, a)
			}
		}
		active = kept

		for _, a := range active {
			if a.box.Touches(cur.box) {
				emit(visit, a.idx, cur.idx)
			}
		}
		active = append(active, cur)
	}
}

// CrossPairs reports every pair (i, j) with boxesA[i] touching
// boxesB[j], in a deterministic order. Unlike Pairs, which only
// compares within one list, CrossPairs never compares two boxes from
// the same list against each other: this is the shape used by
// spec.md section 4.3 step B (instance vs. instance) and step C
// (local cluster vs. instance), where the two sides are never unioned
// together before scanning.
func CrossPairs(boxesA, boxesB []geom.Box, visit func(i, j int)) {
	itemsA := makeItems(boxesA)
	itemsB := makeItems(boxesB)
	sort.SliceStable(itemsA, func(a, b int) bool { return itemsA[a].box.Left < itemsA[b].box.Left })
	sort.SliceStable(itemsB, func(a, b int) bool { return itemsB[a].box.Left < itemsB[b].box.Left })

	var activeA, activeB []item
	ia, ib := 0, 0
	for ia < len(itemsA) || ib < len(itemsB) {
		switch {
		case ib >= len(itemsB) || (ia < len(itemsA) && itemsA[ia].box.Left <= itemsB[ib].box.Left):
			cur := itemsA[ia]
			activeB = expire(activeB, cur.box.Left)
			for _, b := range activeB {
				if cur.box.Touches(b.box) {
					visit(cur.idx, b.idx)
				}
			}
			activeA = append(activeA, cur)
			ia++
		default:
			cur := itemsB[ib]
			activeA = expire(activeA, cur.box.Left)
			for _, a := range activeA {
				if a.box.Touches(cur.box) {
					visit(a.idx, cur.idx)
				}
			}
			activeB = append(activeB, cur)
			ib++
		}
	}
}

func expire(active []item, left int64) []item {
	kept := active[:0]
	for _, a := range active {
		if a.box.Right >= left {
			kept = append(kept, a)
		}
	}
	return kept
}

func makeItems(boxes []geom.Box) []item {
	items := make([]item, 0, len(boxes))
	for i, b := range boxes {
		if b.IsEmpty() {
			continue
		}
		items = append(items, item{box: b, idx: i, seq: i})
	}
	return items
}

func emit(visit func(i, j int), a, b int) {
	if a < b {
		visit(a, b)
	} else {
		visit(b, a)
	}
}

// TouchingQuery returns the indices of every box in boxes that touches
// query. It is the bulk equivalent of the shape tree's touching range
// query (spec.md section 9, "Shape trees"), implemented here as a
// linear scan: callers needing this repeatedly over a stable box set
// should use Index instead.
func TouchingQuery(boxes []geom.Box, query geom.Box) []int {
	var out []int
	for i, b := range boxes {
		if b.Touches(query) {
			out = append(out, i)
		}
	}
	return out
}

// Index is an incremental, bbox-sorted structure supporting repeated
// TouchingIterator range queries as boxes are inserted one at a time;
// cluster.ShapeTree is built on it. It keeps entries sorted by Left on
// every Insert via insertion-sort, which is linear amortized for an
// append-mostly insertion pattern and keeps TouchingIterator able to
// stop scanning once Left exceeds the query's Right.
type Index struct {
	items []item
	next  int
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{}
}

// Insert adds a box under the given caller index and returns nothing;
// duplicate idx values are permitted and are treated as distinct
// entries.
func (x *Index) Insert(box geom.Box, idx int) {
	if box.IsEmpty() {
		return
	}
	it := item{box: box, idx: idx, seq: x.next}
	x.next++
	pos := sort.Search(len(x.items), func(i int) bool { return x.items[i].box.Left > it.box.Left })
	x.items = append(x.items, item{})
	copy(x.items[pos+1:], x.items[pos:])
	x.items[pos] = it
}

// TouchingIterator returns every inserted index whose box touches
// query, in ascending-Left (then insertion) order.
func (x *Index) TouchingIterator(query geom.Box) []int {
	var out []int
	for _, it := range x.items {
		if it.box.Left > query.Right {
			break
		}
		if it.box.Touches(query) {
			out = append(out, it.idx)
		}
	}
	return out
}

// Len reports how many boxes are currently indexed.
func (x *Index) Len() int {
	return len(x.items)
}
