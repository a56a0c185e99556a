package hierbuild

import (
	"github.com/klayout-go/netex/cluster"
	"github.com/klayout-go/netex/hiertree"
	"github.com/klayout-go/netex/layoutmodel"
)

// upwardPromote ensures the cluster referenced by ci has a
// representative in every parent placement of its cell, per spec.md
// section 4.4. It returns the id of ci's existing representative in
// originParentCell, or 0 when that cell has none yet (promotion is
// always performed into every parent at once, the first time a root
// cluster is touched).
//
// Promotion runs with with_self=false: every placement except ci
// itself in originParentCell gets a fresh connector cluster, and the
// origin's own entry is left to the caller, which on a 0 result
// attaches ci to a local cluster, to the other side's representative,
// or to a new dummy cluster (connectPair, connectLocalToChild).
func upwardPromote(tree *hiertree.Tree, layout layoutmodel.Layout, ci cluster.ClusterInstance, originParentCell int) int {
	originCC := tree.ClustersPerCell(originParentCell)
	if id, ok := originCC.ReverseLookup(ci); ok {
		return id
	}

	childCC := tree.ClustersPerCell(ci.ChildCell)
	if childCC == nil || !childCC.IsRoot(ci.ClusterID) {
		// Already promoted into every parent by an earlier call, but not
		// under this exact (originParentCell, ci) pairing: the caller
		// must treat this as "no existing representative here yet" and
		// build its own connector, per spec.md section 4.4's "if 0 is
		// returned, the caller must create the local side itself".
		return 0
	}

	for _, pp := range layout.Cell(ci.ChildCell).Parents() {
		parentCC := tree.Ensure(pp.ParentCellIndex)
		inst := pp.Inst
		for k := 0; k < inst.Size(); k++ {
			newCi := cluster.ClusterInstance{
				ClusterID: ci.ClusterID,
				ChildCell: ci.ChildCell,
				Trans:     inst.ComplexTrans(k),
				PropID:    inst.PropertyID(),
			}
			if _, ok := parentCC.ReverseLookup(newCi); ok {
				continue
			}
			if pp.ParentCellIndex == originParentCell && newCi == ci {
				// The caller installs the origin's own entry.
				continue
			}
			newCluster := parentCC.Insert()
			parentCC.AddConnection(newCluster.ID(), newCi)
		}
	}
	childCC.SetRoot(ci.ClusterID, false)
	return 0
}

// joinClusters validates the precondition cluster.ConnectedClusters.
// JoinClusterWith assumes (distinct, existing ids) before calling it,
// surfacing a violation as a ContractError carrying the cell name and
// cluster id instead of letting the lower-level package panic (spec.md
// section 7, "input-invariant violation" vs. an internal bug). The
// cluster package has no access to a cell's name, only its index, so
// this check lives here where layout.CellName is available.
func joinClusters(cc *cluster.ConnectedClusters, cellName string, keep, absorb int) error {
	if keep == absorb {
		return ContractError{CellName: cellName, ClusterID: keep, Detail: "join requested between a cluster and itself"}
	}
	if cc.ClusterByID(keep) == nil {
		return ContractError{CellName: cellName, ClusterID: keep, Detail: "join referenced an unknown cluster id"}
	}
	if cc.ClusterByID(absorb) == nil {
		return ContractError{CellName: cellName, ClusterID: absorb, Detail: "join referenced an unknown cluster id"}
	}
	cc.JoinClusterWith(keep, absorb)
	return nil
}

// connectPair implements connect_clusters for one (k1, k2) pair, both
// sides a ClusterInstance into some child cell (spec.md section 4.3
// step B / section 4.4).
func connectPair(tree *hiertree.Tree, layout layoutmodel.Layout, cc *cluster.ConnectedClusters, cellName string, cellIdx int, ci1, ci2 cluster.ClusterInstance) error {
	x1 := upwardPromote(tree, layout, ci1, cellIdx)
	x2 := upwardPromote(tree, layout, ci2, cellIdx)
	switch {
	case x1 == 0 && x2 == 0:
		nc := cc.Insert()
		cc.AddConnection(nc.ID(), ci1)
		cc.AddConnection(nc.ID(), ci2)
	case x1 == 0:
		cc.AddConnection(x2, ci1)
	case x2 == 0:
		cc.AddConnection(x1, ci2)
	case x1 != x2:
		keep, absorb := x1, x2
		if cc.OutboundWeight(keep) < cc.OutboundWeight(absorb) {
			keep, absorb = absorb, keep
		}
		return joinClusters(cc, cellName, keep, absorb)
	}
	return nil
}

// connectLocalToChild implements spec.md section 4.3 step D's
// per-interaction decision for a (local_cluster_id, child cluster
// instance) pair discovered in step C: promote the child side, then
// either merge it with localID or attach it as an outbound connection.
// It returns the id localID now resolves to, since a weighted-union
// merge may have emptied localID into the child's representative.
func connectLocalToChild(tree *hiertree.Tree, layout layoutmodel.Layout, cc *cluster.ConnectedClusters, cellName string, cellIdx, localID int, ci cluster.ClusterInstance) (int, error) {
	x2 := upwardPromote(tree, layout, ci, cellIdx)
	if x2 == 0 {
		cc.AddConnection(localID, ci)
		return localID, nil
	}
	if x2 == localID {
		return localID, nil
	}
	keep, absorb := localID, x2
	if cc.OutboundWeight(keep) < cc.OutboundWeight(absorb) {
		keep, absorb = absorb, keep
	}
	if err := joinClusters(cc, cellName, keep, absorb); err != nil {
		return localID, err
	}
	return keep, nil
}
