// Package cluster defines the per-cell data model the engine builds
// and connects: LocalCluster and ConnectedClusters (spec.md section 3,
// "Local cluster" and "Connected clusters"), and ClusterInstance, the
// typed reference to a cluster living inside a child cell's
// instantiation.
package cluster

import "github.com/klayout-go/netex/geom"

// LocalCluster is one electrically-connected set of shapes inside a
// single cell. Id 0 is reserved for "none"; every materialized
// cluster has id >= 1, matching the arena-plus-index convention
// described in spec.md section 9.
type LocalCluster struct {
	id         int
	byLayer    map[int]*ShapeTree
	attrIDs    map[int]struct{}
	globalNets map[int]struct{}
	bbox       geom.Box
	dirty      bool
}

// newLocalCluster returns an empty cluster with the given id. Callers
// outside this package never construct a LocalCluster directly; they
// go through ConnectedClusters.Insert, which owns id assignment.
func newLocalCluster(id int) *LocalCluster {
	return &LocalCluster{
		id:         id,
		byLayer:    make(map[int]*ShapeTree),
		attrIDs:    make(map[int]struct{}),
		globalNets: make(map[int]struct{}),
		bbox:       geom.EmptyBox(),
	}
}

// ID returns the cluster's id within its owning cell.
func (c *LocalCluster) ID() int { return c.id }

// IsEmpty reports whether the cluster has no member shapes. Clusters
// with id != 0 and no members are "dummy" clusters, used as pure
// connector nodes (spec.md section 3).
func (c *LocalCluster) IsEmpty() bool {
	for _, tree := range c.byLayer {
		if tree.Len() > 0 {
			return false
		}
	}
	return true
}

// AddShape adds s as a member, updating the cluster's cached bbox and
// attribute-id union immediately (global-net attachment is a separate
// step driven by the caller, via AttachGlobalNet, since it depends on
// the connectivity descriptor rather than the shape itself).
func (c *LocalCluster) AddShape(s geom.Shape) {
	tree, ok := c.byLayer[s.Layer()]
	if !ok {
		tree = NewShapeTree()
		c.byLayer[s.Layer()] = tree
	}
	tree.Insert(s)
	if id := s.AttrID(); id != 0 {
		c.attrIDs[id] = struct{}{}
	}
	c.bbox = c.bbox.Union(s.BBox())
}

// ShapesOn returns the members on layer, in the layer's shape tree.
func (c *LocalCluster) ShapesOn(layer int) []geom.Shape {
	tree, ok := c.byLayer[layer]
	if !ok {
		return nil
	}
	return tree.All()
}

// TreeOn returns the shape tree for layer, or nil if the cluster has
// no members there. Used by the local builder for touching queries
// during the box-scanner pass.
func (c *LocalCluster) TreeOn(layer int) *ShapeTree {
	return c.byLayer[layer]
}

// AllShapes returns every member shape across every layer. Order
// across layers is the iteration order of the internal layer map and
// is not contractually meaningful.
func (c *LocalCluster) AllShapes() []geom.Shape {
	var out []geom.Shape
	for _, tree := range c.byLayer {
		out = append(out, tree.All()...)
	}
	return out
}

// Layers returns every layer the cluster has at least one member on.
func (c *LocalCluster) Layers() []int {
	out := make([]int, 0, len(c.byLayer))
	for l := range c.byLayer {
		out = append(out, l)
	}
	return out
}

// AttrIDs returns the union of member attribute ids, excluding 0.
func (c *LocalCluster) AttrIDs() []int {
	return setKeys(c.attrIDs)
}

// HasAttrID reports whether id is among the cluster's attribute ids.
func (c *LocalCluster) HasAttrID(id int) bool {
	_, ok := c.attrIDs[id]
	return ok
}

// AttachGlobalNet records that the cluster is attached to the given
// global-net id.
func (c *LocalCluster) AttachGlobalNet(id int) {
	c.globalNets[id] = struct{}{}
}

// GlobalNets returns the set of global-net ids the cluster is
// attached to.
func (c *LocalCluster) GlobalNets() []int {
	return setKeys(c.globalNets)
}

// HasGlobalNet reports whether the cluster is attached to the given
// global-net id.
func (c *LocalCluster) HasGlobalNet(id int) bool {
	_, ok := c.globalNets[id]
	return ok
}

// SharesGlobalNet reports whether c and other are attached to at
// least one common global-net id.
func (c *LocalCluster) SharesGlobalNet(other *LocalCluster) bool {
	for id := range c.globalNets {
		if other.HasGlobalNet(id) {
			return true
		}
	}
	return false
}

// BBox returns the cluster's cached overall bounding box, covering
// every member shape.
func (c *LocalCluster) BBox() geom.Box {
	return c.bbox
}

// absorb merges other's members, attribute ids, global nets and bbox
// into c. It is the mechanic behind ConnectedClusters.JoinClusterWith;
// other is left with no members and should not be referenced again by
// its caller.
func (c *LocalCluster) absorb(other *LocalCluster) {
	for layer, tree := range other.byLayer {
		mine, ok := c.byLayer[layer]
		if !ok {
			c.byLayer[layer] = tree
			continue
		}
		mine.Append(tree)
	}
	for id := range other.attrIDs {
		c.attrIDs[id] = struct{}{}
	}
	for id := range other.globalNets {
		c.globalNets[id] = struct{}{}
	}
	c.bbox = c.bbox.Union(other.bbox)
}

// clear empties the cluster in place, keeping its id slot stable
// (spec.md section 3, "remove_cluster").
func (c *LocalCluster) clear() {
	c.byLayer = make(map[int]*ShapeTree)
	c.attrIDs = make(map[int]struct{})
	c.globalNets = make(map[int]struct{})
	c.bbox = geom.EmptyBox()
}

func setKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
