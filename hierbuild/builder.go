// Package hierbuild implements the bottom-up hierarchical builder
// (spec.md section 4.3): for every cell, in topological order, it runs
// the local clustering pass, the instance-to-instance pass, the
// local-to-instance pass, upward promotion, and global-net
// unification, backed by the two interaction caches described in
// spec.md section 4.3/9.
package hierbuild

import (
	"context"
	"fmt"

	"github.com/klayout-go/netex/boxscan"
	"github.com/klayout-go/netex/cluster"
	"github.com/klayout-go/netex/connectivity"
	"github.com/klayout-go/netex/geom"
	"github.com/klayout-go/netex/hiertree"
	"github.com/klayout-go/netex/layoutmodel"
	"github.com/klayout-go/netex/localbuild"
)

// Stats carries the cache hit/miss counters logged at Debug level at
// the end of Build (spec.md section 7, "cache hit/miss statistics at
// the end of the hierarchical pass").
type Stats struct {
	CellsBuilt                             int
	InstanceCacheHits, InstanceCacheMisses int
	ClusterCacheHits, ClusterCacheMisses   int
}

// Builder runs one hierarchical build. A Builder is not reused across
// concurrent Build calls; spec.md section 5 makes build strictly
// single-threaded and caches are local to one invocation.
type Builder struct {
	opts Options
}

// New returns a Builder configured by opts.
func New(opts ...Option) *Builder {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return &Builder{opts: o}
}

// Build clears tree and fills it from scratch by walking layout's
// bottom-up cell order (spec.md section 3, "Lifecycle"). Cancellation
// is cooperative: ctx is polled once per cell, at the same point
// progress is logged, and a non-nil ctx.Err() aborts the build with
// the tree left empty, matching spec.md section 5 and section 7.
func (b *Builder) Build(ctx context.Context, tree *hiertree.Tree, layout layoutmodel.Layout, conn *connectivity.Connectivity) (Stats, error) {
	tree.Clear()
	caches := newCaches()
	order := layout.BottomUpOrder()

	for _, cellIdx := range order {
		if err := ctx.Err(); err != nil {
			tree.Clear()
			return Stats{}, fmt.Errorf("hierbuild: build cancelled: %w", err)
		}
		if cellIdx < 0 || cellIdx >= layout.CellCount() {
			tree.Clear()
			return Stats{}, fmt.Errorf("%w: index %d", ErrUnknownCell, cellIdx)
		}

		cell := layout.Cell(cellIdx)
		cellName := layout.CellName(cellIdx)
		if b.opts.ReportProgress {
			b.opts.Logger.Info().Str("cell", cellName).Msg("computing local clusters")
		}

		cc := tree.Ensure(cellIdx)
		localbuild.BuildInto(cc, cell, conn, localbuild.Options{
			SeparateAttributes:   b.opts.SeparateAttributes,
			AttributeEquivalence: b.opts.partitionFor(cellIdx),
		})

		if !b.opts.BreakoutCells[cellIdx] {
			if err := b.instanceToInstance(tree, layout, conn, caches, cellName, cellIdx, cc, cell); err != nil {
				tree.Clear()
				return Stats{}, err
			}
			if err := b.localToInstance(tree, layout, conn, caches, cellName, cellIdx, cc, cell); err != nil {
				tree.Clear()
				return Stats{}, err
			}
			if err := b.unifyGlobalNets(tree, cellName, cellIdx, cc, cell); err != nil {
				tree.Clear()
				return Stats{}, err
			}
		}
	}

	stats := Stats{
		CellsBuilt:          len(order),
		InstanceCacheHits:   caches.instanceHits,
		InstanceCacheMisses: caches.instanceMisses,
		ClusterCacheHits:    caches.clusterHits,
		ClusterCacheMisses:  caches.clusterMisses,
	}
	b.opts.Logger.Debug().
		Int("cells", stats.CellsBuilt).
		Int("instance_cache_hits", stats.InstanceCacheHits).
		Int("instance_cache_misses", stats.InstanceCacheMisses).
		Int("cluster_cache_hits", stats.ClusterCacheHits).
		Int("cluster_cache_misses", stats.ClusterCacheMisses).
		Msg("hierarchical build finished")
	return stats, nil
}

// instanceToInstance implements spec.md section 4.3 step B. Every
// unordered pair of distinct touching child instances is compared
// through the instance-to-instance or cluster-interaction cache; every
// iterated array instance is additionally compared against itself to
// catch self-interaction (spec.md section 8 scenario 6).
func (b *Builder) instanceToInstance(tree *hiertree.Tree, layout layoutmodel.Layout, conn *connectivity.Connectivity, caches *caches, cellName string, cellIdx int, cc *cluster.ConnectedClusters, cell layoutmodel.Cell) error {
	children := cell.Children()
	boxes := make([]geom.Box, len(children))
	for i, inst := range children {
		boxes[i] = inst.BBox()
	}

	var pairsToVisit [][2]int
	boxscan.Pairs(boxes, func(i, j int) {
		pairsToVisit = append(pairsToVisit, [2]int{i, j})
	})
	for _, pair := range pairsToVisit {
		if err := b.instancePair(tree, layout, conn, caches, cellName, cellIdx, cc, children[pair[0]], children[pair[1]], false); err != nil {
			return err
		}
	}
	for _, inst := range children {
		if inst.IsIteratedArray() {
			if err := b.instancePair(tree, layout, conn, caches, cellName, cellIdx, cc, inst, inst, true); err != nil {
				return err
			}
		}
	}
	return nil
}

// instancePair compares every relevant element pair of i1 against i2.
// When both are simple (non-array) placements the whole-instance
// relative transform is looked up once in the instance-to-instance
// cache; otherwise every concrete element pair is looked up in the
// finer-grained cluster-interaction cache (spec.md section 4.3 steps
// B.2/B.3). sameInstance is true only for an array's self-interaction
// pass, where element e must never be compared against itself.
func (b *Builder) instancePair(tree *hiertree.Tree, layout layoutmodel.Layout, conn *connectivity.Connectivity, caches *caches, cellName string, cellIdx int, cc *cluster.ConnectedClusters, i1, i2 layoutmodel.Instance, sameInstance bool) error {
	c1, c2 := i1.ChildCellIndex(), i2.ChildCellIndex()
	if b.opts.BreakoutCells[c1] || b.opts.BreakoutCells[c2] {
		return nil
	}
	cc1, cc2 := tree.ClustersPerCell(c1), tree.ClustersPerCell(c2)
	if cc1 == nil || cc2 == nil {
		return nil
	}
	box1, box2 := cellClusterBBox(tree, caches.content, cellIdx, cc1), cellClusterBBox(tree, caches.content, cellIdx, cc2)

	if !sameInstance && i1.Size() == 1 && i2.Size() == 1 {
		t1, t2 := i1.ComplexTrans(0), i2.ComplexTrans(0)
		if !t1.ApplyBox(box1).Touches(t2.ApplyBox(box2)) {
			return nil
		}
		rel := t2.Compose(t1.Invert())
		key := cellPairKey{CellA: c1, CellB: c2, Rel: rel}
		pairs, ok := caches.lookupInstance(key)
		if !ok {
			pairs = clusterPairsBetween(tree, caches.content, cellIdx, cc1, cc2, rel, conn)
			caches.storeInstance(key, pairs, b.opts.InstanceToInstanceCacheSizeThreshold)
		}
		return b.stampAndConnect(tree, layout, cc, cellName, cellIdx, pairs, i1, i2, t1, t2)
	}

	for e1 := 0; e1 < i1.Size(); e1++ {
		t1 := i1.ComplexTrans(e1)
		pb1 := t1.ApplyBox(box1)
		for e2 := 0; e2 < i2.Size(); e2++ {
			if sameInstance && e1 == e2 {
				continue
			}
			t2 := i2.ComplexTrans(e2)
			if !pb1.Touches(t2.ApplyBox(box2)) {
				continue
			}
			rel := t2.Compose(t1.Invert())
			key := cellPairKey{CellA: c1, CellB: c2, Rel: rel}
			pairs, ok := caches.lookupCluster(key)
			if !ok {
				pairs = clusterPairsBetween(tree, caches.content, cellIdx, cc1, cc2, rel, conn)
				caches.storeCluster(key, pairs, b.opts.InstanceToInstanceCacheSizeThreshold)
			}
			if err := b.stampAndConnect(tree, layout, cc, cellName, cellIdx, pairs, i1, i2, t1, t2); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) stampAndConnect(tree *hiertree.Tree, layout layoutmodel.Layout, cc *cluster.ConnectedClusters, cellName string, cellIdx int, pairs []clusterPair, i1, i2 layoutmodel.Instance, t1, t2 geom.Transform) error {
	for _, p := range pairs {
		ci1 := cluster.ClusterInstance{ClusterID: p.A, ChildCell: i1.ChildCellIndex(), Trans: t1, PropID: i1.PropertyID()}
		ci2 := cluster.ClusterInstance{ClusterID: p.B, ChildCell: i2.ChildCellIndex(), Trans: t2, PropID: i2.PropertyID()}
		if err := connectPair(tree, layout, cc, cellName, cellIdx, ci1, ci2); err != nil {
			return err
		}
	}
	return nil
}

// localToInstance implements spec.md section 4.3 steps C and D: every
// local cluster of the current cell is compared against every child
// instance element, and every resulting (local, child) interaction is
// resolved via upward promotion plus merge-or-attach.
func (b *Builder) localToInstance(tree *hiertree.Tree, layout layoutmodel.Layout, conn *connectivity.Connectivity, caches *caches, cellName string, cellIdx int, cc *cluster.ConnectedClusters, cell layoutmodel.Cell) error {
	ownBox := cellClusterBBox(tree, caches.content, cellIdx, cc)
	for _, inst := range cell.Children() {
		c2 := inst.ChildCellIndex()
		if b.opts.BreakoutCells[c2] {
			continue
		}
		cc2 := tree.ClustersPerCell(c2)
		if cc2 == nil {
			continue
		}
		childBox := cellClusterBBox(tree, caches.content, cellIdx, cc2)
		for e := 0; e < inst.Size(); e++ {
			t2 := inst.ComplexTrans(e)
			if !ownBox.Touches(t2.ApplyBox(childBox)) {
				continue
			}
			key := cellPairKey{CellA: cellIdx, CellB: c2, Rel: t2}
			pairs, ok := caches.lookupCluster(key)
			if !ok {
				pairs = clusterPairsBetween(tree, caches.content, cellIdx, cc, cc2, t2, conn)
				caches.storeCluster(key, pairs, b.opts.InstanceToInstanceCacheSizeThreshold)
			}
			for _, p := range pairs {
				ci := cluster.ClusterInstance{ClusterID: p.B, ChildCell: c2, Trans: t2, PropID: inst.PropertyID()}
				if _, err := connectLocalToChild(tree, layout, cc, cellName, cellIdx, p.A, ci); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// unifyGlobalNets implements spec.md section 4.3 step E: every local
// cluster and every reachable child cluster carrying a global-net
// attachment is grouped by the transitive closure of "shares a
// global-net id", and every group is collapsed onto one representative
// local cluster.
func (b *Builder) unifyGlobalNets(tree *hiertree.Tree, cellName string, cellIdx int, cc *cluster.ConnectedClusters, cell layoutmodel.Cell) error {
	netRep := make(map[int]int)
	ensureRep := func(nets []int) int {
		for _, n := range nets {
			if id, ok := netRep[n]; ok {
				return id
			}
		}
		return 0
	}
	registerRep := func(id int, nets []int) {
		for _, n := range nets {
			netRep[n] = id
		}
	}

	for _, id := range cc.AllClusterIDs() {
		lc := cc.ClusterByID(id)
		nets := lc.GlobalNets()
		if len(nets) == 0 {
			continue
		}
		rep := ensureRep(nets)
		if rep == 0 {
			registerRep(id, nets)
			continue
		}
		if rep != id {
			if err := joinClusters(cc, cellName, rep, id); err != nil {
				return err
			}
		}
		registerRep(rep, nets)
	}

	for _, inst := range cell.Children() {
		childCC := tree.ClustersPerCell(inst.ChildCellIndex())
		if childCC == nil {
			continue
		}
		for _, cid := range childCC.AllClusterIDs() {
			childLC := childCC.ClusterByID(cid)
			nets := childLC.GlobalNets()
			if len(nets) == 0 {
				continue
			}
			ci := cluster.ClusterInstance{ClusterID: cid, ChildCell: inst.ChildCellIndex(), Trans: inst.ComplexTrans(0), PropID: inst.PropertyID()}
			rep := ensureRep(nets)
			if rep == 0 {
				nc := cc.Insert()
				for _, n := range nets {
					nc.AttachGlobalNet(n)
				}
				cc.AddConnection(nc.ID(), ci)
				childCC.SetRoot(cid, false)
				registerRep(nc.ID(), nets)
				continue
			}
			cc.AddConnection(rep, ci)
			childCC.SetRoot(cid, false)
			repLC := cc.ClusterByID(rep)
			for _, n := range nets {
				repLC.AttachGlobalNet(n)
			}
			registerRep(rep, nets)
		}
	}
	return nil
}
