// Package localbuild implements the local clustering builder (spec.md
// section 4.2): partitioning one cell's shapes into local clusters
// using a box scanner plus union-find, then materializing the result.
package localbuild

import (
	"sort"

	"github.com/klayout-go/netex/boxscan"
	"github.com/klayout-go/netex/cluster"
	"github.com/klayout-go/netex/connectivity"
	"github.com/klayout-go/netex/dsu"
	"github.com/klayout-go/netex/geom"
	"github.com/klayout-go/netex/layoutmodel"
)

// Options configures one local-clustering pass.
type Options struct {
	// SeparateAttributes, if true, forbids two shapes carrying distinct
	// nonzero attribute ids from merging even when they geometrically
	// interact (spec.md section 4.2).
	SeparateAttributes bool
	// AttributeEquivalence, if non-nil, force-joins any two clusters
	// whose attribute-id sets share an equivalence-class representative
	// (spec.md section 4.2 step 5).
	AttributeEquivalence *Partition
}

// Build partitions cell's shapes into local clusters per conn, writing
// the result into a freshly-allocated cluster.ConnectedClusters. The
// result is deterministic given the cell's shape enumeration order
// (spec.md section 4.2, "Properties").
func Build(cell layoutmodel.Cell, conn *connectivity.Connectivity, opts Options) *cluster.ConnectedClusters {
	cc := cluster.New(cell.Index())
	BuildInto(cc, cell, conn, opts)
	return cc
}

// BuildInto runs the same local-clustering pass as Build, but inserts
// new clusters into a caller-supplied cc rather than allocating a
// fresh one. The hierarchical builder needs this: a child cell's
// upward-promotion pass may have already created placeholder clusters
// in a not-yet-visited parent cell before that parent's own local pass
// runs (spec.md section 4.4), and those placeholders, plus their
// outbound connections, must survive the parent's own Step A untouched.
func BuildInto(cc *cluster.ConnectedClusters, cell layoutmodel.Cell, conn *connectivity.Connectivity, opts Options) {
	if !conn.HasLayers() {
		return
	}

	shapes, boxes := collectShapes(cell, conn)
	n := len(shapes)
	d := dsu.New(n)

	// Step 1-2: box scanner + union-find merge on geometric interaction.
	// A hard relation unions the two shapes' clusters; a soft relation
	// interacting geometrically never unions (spec.md section 9's
	// tie-breaker: the directed annotation must survive, not widen to
	// hard), so it is recorded as a pending link and resolved once every
	// shape has settled into its final cluster below.
	var softPairs []softPair
	boxscan.Pairs(boxes, func(i, j int) {
		si, sj := shapes[i], shapes[j]
		if opts.SeparateAttributes && si.AttrID() != 0 && sj.AttrID() != 0 && si.AttrID() != sj.AttrID() {
			return
		}
		la, lb := si.Layer(), sj.Layer()
		hard := conn.Conducts(la, lb) == connectivity.Hard || conn.Conducts(lb, la) == connectivity.Hard
		fromFirst, soft := softDirection(conn, la, lb)
		if !hard && !soft {
			return
		}
		if !geom.Interacts(si, sj, geom.Identity(), conn.EdgeMode()) {
			return
		}
		if hard {
			d.Union(i, j)
			return
		}
		if fromFirst {
			softPairs = append(softPairs, softPair{from: i, to: j})
		} else {
			softPairs = append(softPairs, softPair{from: j, to: i})
		}
	})

	// Step 3: unify by shared global-net attachment.
	netRepresentative := make(map[int]int)
	for i, s := range shapes {
		for _, netID := range conn.GlobalNetsOf(s.Layer()) {
			root := d.Find(i)
			if rep, ok := netRepresentative[netID]; ok {
				root = d.Union(rep, root)
			}
			netRepresentative[netID] = root
		}
	}

	// Step 4: materialize union-find groups as local clusters.
	rootToCluster := make(map[int]int)
	for i, s := range shapes {
		root := d.Find(i)
		cid, ok := rootToCluster[root]
		var lc *cluster.LocalCluster
		if !ok {
			lc = cc.Insert()
			rootToCluster[root] = lc.ID()
		} else {
			lc = cc.ClusterByID(cid)
		}
		lc.AddShape(s)
	}
	for netID, root := range netRepresentative {
		if cid, ok := rootToCluster[d.Find(root)]; ok {
			cc.ClusterByID(cid).AttachGlobalNet(netID)
		}
	}

	// Step 4.5: resolve pending soft links against the final clusters. A
	// pair that ended up in the same cluster anyway (joined via some
	// other hard path, or a shared global net) needs no annotation.
	for _, sp := range softPairs {
		fromID := rootToCluster[d.Find(sp.from)]
		toID := rootToCluster[d.Find(sp.to)]
		if fromID != toID {
			cc.AddSoftLink(fromID, toID)
		}
	}

	// Step 5: attribute-equivalence merge.
	if opts.AttributeEquivalence != nil {
		mergeByAttributeEquivalence(cc, opts.AttributeEquivalence)
	}
}

// softPair is a pending directed soft-connect annotation discovered
// during the box scan, keyed by shape index rather than cluster id
// since the two shapes' final cluster assignment is not known until
// Step 4 has run.
type softPair struct {
	from, to int
}

// softDirection reports whether a declared soft relation exists
// between layers la and lb, and if so, which of the two box-scanner
// indices (the first, si's, or the second, sj's) is the declared
// source. SoftConnect(a,b) is directional and not implicitly
// symmetric, so both orders are checked explicitly.
func softDirection(conn *connectivity.Connectivity, la, lb int) (fromFirst, soft bool) {
	if conn.Conducts(la, lb) == connectivity.Soft {
		return true, true
	}
	if conn.Conducts(lb, la) == connectivity.Soft {
		return false, true
	}
	return false, false
}

// collectShapes enumerates every shape on every layer conn names, in
// ascending-layer then insertion order, matching spec.md section 4.2
// step 1.
func collectShapes(cell layoutmodel.Cell, conn *connectivity.Connectivity) ([]geom.Shape, []geom.Box) {
	var shapes []geom.Shape
	var boxes []geom.Box
	layers := conn.Layers()
	sort.Ints(layers)
	for _, layer := range layers {
		for _, s := range cell.ShapesOn(layer) {
			shapes = append(shapes, s)
			boxes = append(boxes, s.BBox())
		}
	}
	return shapes, boxes
}

// mergeByAttributeEquivalence scans every materialized cluster's
// attribute ids and joins any two clusters whose attribute sets share
// an equivalence-class representative (spec.md section 4.2 step 5).
func mergeByAttributeEquivalence(cc *cluster.ConnectedClusters, part *Partition) {
	classCluster := make(map[int]int)
	for _, id := range cc.AllClusterIDs() {
		lc := cc.ClusterByID(id)
		if lc.IsEmpty() {
			continue
		}
		current := id
		for _, attrID := range lc.AttrIDs() {
			class := part.RepresentativeOf(attrID)
			existing, ok := classCluster[class]
			if !ok {
				classCluster[class] = current
				continue
			}
			if existing == current {
				continue
			}
			merged := cc.JoinClusterWith(existing, current)
			classCluster[class] = merged
			current = merged
		}
	}
}
