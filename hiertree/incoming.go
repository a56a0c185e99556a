package hiertree

import (
	"github.com/klayout-go/netex/cluster"
	"github.com/klayout-go/netex/layoutmodel"
)

// Incoming names one parent-side connection into a child cluster: the
// parent cluster that references it, and the exact cluster-instance
// value (transform, property id) the parent recorded (spec.md section
// 4.6).
type Incoming struct {
	ParentCell      int
	ParentClusterID int
	Inst            cluster.ClusterInstance
}

type incomingKey struct {
	cellIndex, clusterID int
}

// IncomingIndex is the inverse of the outbound-connection relation,
// built lazily and cached per (cell_index, cluster_id) on first access
// (spec.md section 4.6). It reads layout.Cell(...).Parents() to find
// every placement of a cell and re-derives the cluster-instance value a
// parent would have recorded for it, rather than storing a second copy
// of the outbound data.
type IncomingIndex struct {
	tree   *Tree
	layout layoutmodel.Layout
	cache  map[incomingKey][]Incoming
}

// NewIncomingIndex returns an index over tree, backed by layout for
// parent-placement lookups.
func NewIncomingIndex(tree *Tree, layout layoutmodel.Layout) *IncomingIndex {
	return &IncomingIndex{tree: tree, layout: layout, cache: make(map[incomingKey][]Incoming)}
}

// Lookup returns every parent-side connection into (cellIndex,
// clusterID), computing and caching it on first access.
func (idx *IncomingIndex) Lookup(cellIndex, clusterID int) []Incoming {
	key := incomingKey{cellIndex, clusterID}
	if cached, ok := idx.cache[key]; ok {
		return cached
	}

	var out []Incoming
	for _, pp := range idx.layout.Cell(cellIndex).Parents() {
		parentCC := idx.tree.ClustersPerCell(pp.ParentCellIndex)
		if parentCC == nil {
			continue
		}
		for k := 0; k < pp.Inst.Size(); k++ {
			ci := cluster.ClusterInstance{
				ClusterID: clusterID,
				ChildCell: cellIndex,
				Trans:     pp.Inst.ComplexTrans(k),
				PropID:    pp.Inst.PropertyID(),
			}
			if parentID, ok := parentCC.ReverseLookup(ci); ok {
				out = append(out, Incoming{ParentCell: pp.ParentCellIndex, ParentClusterID: parentID, Inst: ci})
			}
		}
	}

	idx.cache[key] = out
	return out
}

// Clear discards every cached lookup, needed if the index outlives one
// build (the tree it reads from is otherwise immutable per build).
func (idx *IncomingIndex) Clear() {
	idx.cache = make(map[incomingKey][]Incoming)
}
