package iterate

import (
	"github.com/klayout-go/netex/cluster"
	"github.com/klayout-go/netex/geom"
	"github.com/klayout-go/netex/hiertree"
)

type structFrame struct {
	cellIndex int
	clusterID int
	trans     geom.Transform
	outbound  []cluster.ClusterInstance
	outIdx    int
	visited   bool
}

// StructuralIterator walks every (cell_index, cluster_id) reachable
// from a starting cluster without materializing any shape, used to
// enumerate every cell a net enters (spec.md section 4.5, "structural
// only" iterator).
type StructuralIterator struct {
	tree        *hiertree.Tree
	shouldVisit ShouldVisit
	stack       []structFrame
	path        []cluster.ClusterInstance

	curCell, curCluster int
	curTrans             geom.Transform
}

// NewStructuralIterator starts a StructuralIterator at
// (startCell, startCluster).
func NewStructuralIterator(tree *hiertree.Tree, startCell, startCluster int, shouldVisit ShouldVisit) *StructuralIterator {
	it := &StructuralIterator{tree: tree, shouldVisit: shouldVisit}
	it.stack = append(it.stack, it.buildFrame(startCell, startCluster, geom.Identity()))
	return it
}

func (it *StructuralIterator) buildFrame(cellIndex, clusterID int, trans geom.Transform) structFrame {
	cc := it.tree.ClustersPerCell(cellIndex)
	var outbound []cluster.ClusterInstance
	if cc != nil {
		outbound = cc.Connections(clusterID)
	}
	return structFrame{cellIndex: cellIndex, clusterID: clusterID, trans: trans, outbound: outbound}
}

// Next advances to the next node, returning false once every reachable
// node has been visited. Every pushed frame is yielded exactly once,
// the moment it is pushed, before its own outbound connections are
// walked.
func (it *StructuralIterator) Next() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if !top.visited {
			top.visited = true
			it.curCell, it.curCluster, it.curTrans = top.cellIndex, top.clusterID, top.trans
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

// Node returns the (cell_index, cluster_id) the iterator currently
// sits on.
func (it *StructuralIterator) Node() (cellIndex, clusterID int) {
	return it.curCell, it.curCluster
}

// Trans returns the accumulated transform carrying the current node's
// frame into the starting cell's frame.
func (it *StructuralIterator) Trans() geom.Transform { return it.curTrans }

// InstPath returns the cluster-instance path from the starting cell to
// the current node.
func (it *StructuralIterator) InstPath() []cluster.ClusterInstance {
	out := make([]cluster.ClusterInstance, len(it.path))
	copy(out, it.path)
	return out
}
