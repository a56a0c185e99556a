package cluster

import (
	"github.com/klayout-go/netex/boxscan"
	"github.com/klayout-go/netex/geom"
)

// ShapeTree is the per-layer, bounding-box-sorted member container a
// LocalCluster keeps for each layer it has shapes on (spec.md section
// 3, "Local cluster"). Any 2-D spatial index satisfies the contract
// (spec.md section 9); this one keeps a boxscan.Index so touching
// range queries reuse the same sweep machinery as the builders.
type ShapeTree struct {
	shapes []geom.Shape
	idx    *boxscan.Index
}

// NewShapeTree returns an empty shape tree.
func NewShapeTree() *ShapeTree {
	return &ShapeTree{idx: boxscan.NewIndex()}
}

// Insert adds s to the tree.
func (t *ShapeTree) Insert(s geom.Shape) {
	pos := len(t.shapes)
	t.shapes = append(t.shapes, s)
	t.idx.Insert(s.BBox(), pos)
}

// Len reports how many shapes the tree holds.
func (t *ShapeTree) Len() int {
	return len(t.shapes)
}

// All returns every member shape, in insertion order.
func (t *ShapeTree) All() []geom.Shape {
	return t.shapes
}

// Touching returns every member shape whose bounding box touches box.
func (t *ShapeTree) Touching(box geom.Box) []geom.Shape {
	positions := t.idx.TouchingIterator(box)
	if len(positions) == 0 {
		return nil
	}
	out := make([]geom.Shape, len(positions))
	for i, p := range positions {
		out[i] = t.shapes[p]
	}
	return out
}

// Append merges other's members into t, preserving other's internal
// order after t's own. Used when two clusters' shape trees are
// combined during a cluster merge.
func (t *ShapeTree) Append(other *ShapeTree) {
	if other == nil {
		return
	}
	for _, s := range other.shapes {
		t.Insert(s)
	}
}
