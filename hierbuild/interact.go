package hierbuild

import (
	"github.com/klayout-go/netex/boxscan"
	"github.com/klayout-go/netex/cluster"
	"github.com/klayout-go/netex/connectivity"
	"github.com/klayout-go/netex/geom"
	"github.com/klayout-go/netex/hiertree"
)

// effKey identifies one cluster's gathered content for memoization: the
// result depends only on the cell/cluster addressed, never on the
// transform a particular caller happens to be viewing it through.
type effKey struct {
	cellIndex, clusterID int
}

// shapeAt is one shape together with the transform carrying it from its
// own intrinsic frame into the frame of the cluster gatherShapeContent
// was asked about.
type shapeAt struct {
	shape geom.Shape
	trans geom.Transform
}

// gatherShapeContent recursively collects every shape reachable from
// (cellIndex, clusterID), descending through outbound connections. A
// cluster installed by upward promotion carries no shapes of its own,
// only a pointer to the cluster it was promoted from; comparing it
// against anything therefore requires descending into that pointer, so
// a shape several hierarchy levels below a promoted connector is never
// silently dropped from the interaction test (spec.md section 4.3 step
// B.4/C, "recurse with it in place of i1").
//
// Results are memoized per (cell, cluster) except for activeCell, the
// cell currently being built: that cell's own clusters are still being
// mutated by the very pass calling this function (merges, new outbound
// connections), so caching them would risk returning a stale snapshot
// to a later call within the same pass. Every other cell referenced
// here has already completed its full build in the bottom-up order
// (spec.md section 5), so its content is immutable for the rest of this
// Build call and safe to cache.
func gatherShapeContent(tree *hiertree.Tree, memo map[effKey][]shapeAt, activeCell, cellIndex, clusterID int) []shapeAt {
	cacheable := cellIndex != activeCell
	if cacheable {
		if v, ok := memo[effKey{cellIndex, clusterID}]; ok {
			return v
		}
	}

	cc := tree.ClustersPerCell(cellIndex)
	if cc == nil {
		return nil
	}
	lc := cc.ClusterByID(clusterID)
	if lc == nil {
		return nil
	}

	var out []shapeAt
	for _, s := range lc.AllShapes() {
		out = append(out, shapeAt{shape: s, trans: geom.Identity()})
	}
	for _, ci := range cc.Connections(clusterID) {
		for _, child := range gatherShapeContent(tree, memo, activeCell, ci.ChildCell, ci.ClusterID) {
			out = append(out, shapeAt{shape: child.shape, trans: child.trans.Compose(ci.Trans)})
		}
	}

	if cacheable {
		memo[effKey{cellIndex, clusterID}] = out
	}
	return out
}

// contentBBox unions the bbox of every item, each carried into the
// frame gatherShapeContent returned it for.
func contentBBox(items []shapeAt) geom.Box {
	box := geom.EmptyBox()
	for _, it := range items {
		box = box.Union(it.trans.ApplyBox(it.shape.BBox()))
	}
	return box
}

// cellClusterBBox unions the gathered content bbox of every cluster in
// cc, used as a cheap whole-cell content box for the bbox pre-rejection
// done before the more expensive clusterPairsBetween call (spec.md
// section 4.3 step 1, "reject if combined bounding boxes cannot
// touch"). Unlike a plain union of each cluster's own member bbox, this
// also reaches through any promoted connector so a cell whose only
// content nearby is several levels down in a child's child still
// contributes a non-empty box here.
func cellClusterBBox(tree *hiertree.Tree, memo map[effKey][]shapeAt, activeCell int, cc *cluster.ConnectedClusters) geom.Box {
	box := geom.EmptyBox()
	for _, id := range cc.AllClusterIDs() {
		box = box.Union(contentBBox(gatherShapeContent(tree, memo, activeCell, cc.CellIndex(), id)))
	}
	return box
}

// clusterPairsBetween walks ccA's touching range against ccB's
// (transformed by rel into ccA's frame), and for every bbox-touching
// cluster pair re-runs the full shape-level interaction test (spec.md
// section 4.3 step B.3's cache-miss path: "walk cluster1's touching
// range against cluster2's touching range, and for each pair call
// LocalCluster::interacts"). Both sides are gathered through
// gatherShapeContent first, so a promoted connector cluster compares
// using the real geometry of whatever it was promoted from rather than
// its own (always empty) member set.
func clusterPairsBetween(tree *hiertree.Tree, memo map[effKey][]shapeAt, activeCell int, ccA, ccB *cluster.ConnectedClusters, rel geom.Transform, conn *connectivity.Connectivity) []clusterPair {
	var pairs []clusterPair
	for _, idA := range ccA.AllClusterIDs() {
		contentA := gatherShapeContent(tree, memo, activeCell, ccA.CellIndex(), idA)
		if len(contentA) == 0 {
			continue
		}
		boxA := contentBBox(contentA)
		for _, idB := range ccB.AllClusterIDs() {
			contentB := gatherShapeContent(tree, memo, activeCell, ccB.CellIndex(), idB)
			if len(contentB) == 0 {
				continue
			}
			boxB := rel.ApplyBox(contentBBox(contentB))
			if !boxA.Touches(boxB) {
				continue
			}
			if contentInteracts(contentA, contentB, rel, conn) {
				pairs = append(pairs, clusterPair{A: idA, B: idB})
			}
		}
	}
	return pairs
}

// contentInteracts reports whether any item of contentA interacts with
// any item of contentB once contentB is carried through rel into
// contentA's frame, each side first carried through its own
// gatherShapeContent transform.
//
// Only a hard (symmetric) conducts relation unifies across an instance
// boundary. A soft relation's directed annotation (spec.md section 9)
// is preserved within one cell's own local pass (localbuild.BuildInto);
// there is no outbound-connection slot here that could carry a "soft,
// not yet promoted" link across cells without it reading back as hard
// the moment anything resolves it, so cross-instance soft interactions
// are left unrecorded rather than silently unioned.
func contentInteracts(contentA, contentB []shapeAt, rel geom.Transform, conn *connectivity.Connectivity) bool {
	boxesA := make([]geom.Box, len(contentA))
	for i, it := range contentA {
		boxesA[i] = it.trans.ApplyBox(it.shape.BBox())
	}
	boxesB := make([]geom.Box, len(contentB))
	for j, it := range contentB {
		boxesB[j] = rel.ApplyBox(it.trans.ApplyBox(it.shape.BBox()))
	}

	found := false
	boxscan.CrossPairs(boxesA, boxesB, func(i, j int) {
		if found {
			return
		}
		a, b := contentA[i], contentB[j]
		la, lb := a.shape.Layer(), b.shape.Layer()
		if conn.Conducts(la, lb) != connectivity.Hard && conn.Conducts(lb, la) != connectivity.Hard {
			return
		}
		effB := b.trans.Compose(rel)
		relAB := effB.Compose(a.trans.Invert())
		if geom.Interacts(a.shape, b.shape, relAB, conn.EdgeMode()) {
			found = true
		}
	})
	return found
}
