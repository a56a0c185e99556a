// Package iterate walks a cluster tree across instantiation paths,
// either materializing member shapes with their accumulated transform
// (ShapeIterator) or walking only the structural (cell, cluster)
// addresses (StructuralIterator), matching spec.md section 4.5.
package iterate

import (
	"github.com/klayout-go/netex/cluster"
	"github.com/klayout-go/netex/geom"
	"github.com/klayout-go/netex/hiertree"
)

// ShouldVisit, when non-nil, lets a caller prune whole sub-hierarchies
// from an iterator by returning false for a given cell index.
type ShouldVisit func(cellIndex int) bool

type shapeFrame struct {
	cellIndex int
	clusterID int
	trans     geom.Transform
	shapes    []geom.Shape
	shapeIdx  int
	outbound  []cluster.ClusterInstance
	outIdx    int
}

// ShapeIterator walks every shape reachable from a starting cluster on
// one layer, across every instantiation path, yielding each shape
// together with the transform that carries it into the starting
// cell's frame (spec.md section 4.5).
type ShapeIterator struct {
	tree        *hiertree.Tree
	layer       int
	shouldVisit ShouldVisit
	stack       []shapeFrame
	path        []cluster.ClusterInstance

	curShape geom.Shape
	curTrans geom.Transform
}

// NewShapeIterator starts a ShapeIterator at (startCell, startCluster),
// yielding shapes on layer. shouldVisit may be nil to visit everything.
func NewShapeIterator(tree *hiertree.Tree, layer, startCell, startCluster int, shouldVisit ShouldVisit) *ShapeIterator {
	it := &ShapeIterator{tree: tree, layer: layer, shouldVisit: shouldVisit}
	it.stack = append(it.stack, it.buildFrame(startCell, startCluster, geom.Identity()))
	return it
}

func (it *ShapeIterator) buildFrame(cellIndex, clusterID int, trans geom.Transform) shapeFrame {
	cc := it.tree.ClustersPerCell(cellIndex)
	if cc == nil {
		return shapeFrame{cellIndex: cellIndex, clusterID: clusterID, trans: trans}
	}
	lc := cc.ClusterByID(clusterID)
	if lc == nil {
		return shapeFrame{cellIndex: cellIndex, clusterID: clusterID, trans: trans}
	}
	return shapeFrame{
		cellIndex: cellIndex,
		clusterID: clusterID,
		trans:     trans,
		shapes:    lc.ShapesOn(it.layer),
		outbound:  cc.Connections(clusterID),
	}
}

// Next advances to the next shape, returning false once every reachable
// shape has been visited.
func (it *ShapeIterator) Next() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.shapeIdx < len(top.shapes) {
			it.curShape = top.shapes[top.shapeIdx]
			it.curTrans = top.trans
			top.shapeIdx++
			return true
		}
		if top.outIdx < len(top.outbound) {
			ci := top.outbound[top.outIdx]
			parentTrans := top.trans
			top.outIdx++
			if it.shouldVisit != nil && !it.shouldVisit(ci.ChildCell) {
				continue
			}
			accum := ci.Trans.Compose(parentTrans)
			it.stack = append(it.stack, it.buildFrame(ci.ChildCell, ci.ClusterID, accum))
			it.path = append(it.path, ci)
			continue
		}
		it.stack = it.stack[:len(it.stack)-1]
		if len(it.stack) > 0 {
			it.path = it.path[:len(it.path)-1]
		}
	}
	return false
}

// Shape returns the shape the iterator currently sits on.
func (it *ShapeIterator) Shape() geom.Shape { return it.curShape }

// Trans returns the accumulated transform carrying the current shape
// into the starting cell's frame.
func (it *ShapeIterator) Trans() geom.Transform { return it.curTrans }

// InstPath returns the cluster-instance path from the starting cell to
// the frame the current shape was found in.
func (it *ShapeIterator) InstPath() []cluster.ClusterInstance {
	out := make([]cluster.ClusterInstance, len(it.path))
	copy(out, it.path)
	return out
}
