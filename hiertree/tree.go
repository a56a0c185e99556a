// Package hiertree holds the hierarchical cluster tree: one
// cluster.ConnectedClusters per cell, keyed by cell index (spec.md
// section 3, "Hierarchical cluster tree").
package hiertree

import "github.com/klayout-go/netex/cluster"

// Tree is cell_index -> connected-clusters-of-that-cell. All clusters
// are created during a single build pass; clear discards everything so
// a fresh build starts from nothing (spec.md section 3, "Lifecycle").
type Tree struct {
	byCell map[int]*cluster.ConnectedClusters
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{byCell: make(map[int]*cluster.ConnectedClusters)}
}

// Clear discards every cell's clusters. Callers must clear before a
// second build, since incremental updates are not supported.
func (t *Tree) Clear() {
	t.byCell = make(map[int]*cluster.ConnectedClusters)
}

// Set installs cc as the connected-clusters for its own cell index,
// overwriting any previous entry. The hierarchical builder does not
// call it; it fills cells through Ensure.
func (t *Tree) Set(cc *cluster.ConnectedClusters) {
	t.byCell[cc.CellIndex()] = cc
}

// Ensure returns the connected-clusters for cellIndex, creating an
// empty one on first access.
func (t *Tree) Ensure(cellIndex int) *cluster.ConnectedClusters {
	cc, ok := t.byCell[cellIndex]
	if !ok {
		cc = cluster.New(cellIndex)
		t.byCell[cellIndex] = cc
	}
	return cc
}

// ClustersPerCell returns the connected-clusters for cellIndex, or nil
// if the cell has not been built. This is the read-only accessor named
// in spec.md section 6's "Produced" interface list.
func (t *Tree) ClustersPerCell(cellIndex int) *cluster.ConnectedClusters {
	return t.byCell[cellIndex]
}

// CellIndices returns every cell index currently present in the tree.
// Order is unspecified.
func (t *Tree) CellIndices() []int {
	out := make([]int, 0, len(t.byCell))
	for idx := range t.byCell {
		out = append(out, idx)
	}
	return out
}

// Len reports how many cells the tree currently holds clusters for.
func (t *Tree) Len() int {
	return len(t.byCell)
}
