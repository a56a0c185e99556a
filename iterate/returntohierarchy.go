package iterate

import (
	"github.com/klayout-go/netex/geom"
	"github.com/klayout-go/netex/hiertree"
)

// ShapeSink accepts a shape the return-to-hierarchy pass re-inserts
// into an output layout. The engine's own Layout contract is read-only
// for the duration of a build (spec.md section 5), so re-insertion
// always goes through a caller-supplied sink rather than the consumed
// Layout itself.
type ShapeSink interface {
	InsertShape(cellIndex int, shape geom.Shape)
}

type netNode struct {
	cellIndex int
	clusterID int
	localBox  geom.Box
	worldBox  geom.Box
}

// ReturnToHierarchy walks every root cluster in tree and re-inserts one
// representative rectangle shape per net, onto every layer in
// outputLayers, at the cell where the net's own local bounding region
// is smallest (the "best fit" placement heuristic supplementing
// spec.md section 6's ReturnToHierarchy entry; see the original's
// hier-to-flat re-insertion pass). Nets with no member shapes anywhere
// in their hierarchy produce nothing.
func ReturnToHierarchy(tree *hiertree.Tree, sink ShapeSink, outputLayers []int) {
	for _, cellIdx := range tree.CellIndices() {
		cc := tree.ClustersPerCell(cellIdx)
		for _, id := range cc.AllClusterIDs() {
			if !cc.IsRoot(id) {
				continue
			}
			reinsertNet(tree, sink, outputLayers, cellIdx, id)
		}
	}
}

func reinsertNet(tree *hiertree.Tree, sink ShapeSink, outputLayers []int, startCell, startCluster int) {
	nodes := collectNetNodes(tree, startCell, startCluster)
	if len(nodes) == 0 {
		return
	}

	worldBox := geom.EmptyBox()
	best := -1
	for i, n := range nodes {
		worldBox = worldBox.Union(n.worldBox)
		if n.localBox.IsEmpty() {
			continue
		}
		if best == -1 || n.localBox.Area() < nodes[best].localBox.Area() {
			best = i
		}
	}
	if best == -1 || worldBox.IsEmpty() {
		return
	}

	chosen := nodes[best]
	localTrans := accumTransFor(tree, startCell, startCluster, chosen.cellIndex, chosen.clusterID)
	placementBox := localTrans.Invert().ApplyBox(worldBox)

	poly := rectPolygon(placementBox)
	for _, layer := range outputLayers {
		sink.InsertShape(chosen.cellIndex, geom.NewPolygonRef(poly, geom.Identity(), layer, 0))
	}
}

func collectNetNodes(tree *hiertree.Tree, startCell, startCluster int) []netNode {
	it := NewStructuralIterator(tree, startCell, startCluster, nil)
	var nodes []netNode
	for it.Next() {
		cellIdx, clusterID := it.Node()
		cc := tree.ClustersPerCell(cellIdx)
		if cc == nil {
			continue
		}
		lc := cc.ClusterByID(clusterID)
		if lc == nil {
			continue
		}
		localBox := lc.BBox()
		nodes = append(nodes, netNode{
			cellIndex: cellIdx,
			clusterID: clusterID,
			localBox:  localBox,
			worldBox:  it.Trans().ApplyBox(localBox),
		})
	}
	return nodes
}

// accumTransFor re-walks the structural iterator to recover the
// accumulated transform of one specific (cellIndex, clusterID) node,
// matching the node discovery order collectNetNodes used. Re-walking
// rather than caching the transform alongside the node keeps netNode a
// plain value type; the hierarchy depths this walks are small relative
// to one build's overall cost.
func accumTransFor(tree *hiertree.Tree, startCell, startCluster, cellIndex, clusterID int) geom.Transform {
	it := NewStructuralIterator(tree, startCell, startCluster, nil)
	for it.Next() {
		c, id := it.Node()
		if c == cellIndex && id == clusterID {
			return it.Trans()
		}
	}
	return geom.Identity()
}

func rectPolygon(b geom.Box) *geom.Polygon {
	return &geom.Polygon{Points: []geom.Point{
		{X: b.Left, Y: b.Bottom},
		{X: b.Right, Y: b.Bottom},
		{X: b.Right, Y: b.Top},
		{X: b.Left, Y: b.Top},
	}}
}
