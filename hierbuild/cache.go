package hierbuild

import "github.com/klayout-go/netex/geom"

// cellPairKey identifies a pair of child cells plus the relative
// transform between their frames — the key shape spec.md section 4.3
// steps B.2/B.3 describe for both the instance-to-instance cache and
// the cluster-interaction cache. Transform is a plain comparable
// struct, so cellPairKey is directly usable as a map key.
type cellPairKey struct {
	CellA, CellB int
	Rel          geom.Transform
}

// clusterPair is one interacting pair of cluster ids, A in CellA's
// cluster-space and B in CellB's, expressed relative to Rel.
type clusterPair struct {
	A, B int
}

// caches holds the two interaction caches spec.md section 4.3/4.6/9
// describes as essential to tractability:
//   - instance: keyed by the normalized relative transform between two
//     simple (non-array) instances, reused across every placement of
//     the same sub-hierarchy pattern.
//   - cluster: keyed by the relative transform between one concrete
//     element pair when either instance is an array, and by the child
//     element's transform in the local-to-instance pass, to avoid
//     re-walking the same element transform twice.
//
// Both caches are local to one Build invocation (spec.md section 5).
type caches struct {
	instance map[cellPairKey][]clusterPair
	cluster  map[cellPairKey][]clusterPair
	// content memoizes gatherShapeContent results for already-built
	// cells, shared across every cell visited during one Build call.
	content map[effKey][]shapeAt

	instanceHits, instanceMisses int
	clusterHits, clusterMisses   int
}

func newCaches() *caches {
	return &caches{
		instance: make(map[cellPairKey][]clusterPair),
		cluster:  make(map[cellPairKey][]clusterPair),
		content:  make(map[effKey][]shapeAt),
	}
}

func (c *caches) lookupInstance(key cellPairKey) ([]clusterPair, bool) {
	pairs, ok := c.instance[key]
	if ok {
		c.instanceHits++
	} else {
		c.instanceMisses++
	}
	return pairs, ok
}

func (c *caches) storeInstance(key cellPairKey, pairs []clusterPair, threshold int) {
	if len(pairs) > threshold {
		return
	}
	c.instance[key] = pairs
}

func (c *caches) lookupCluster(key cellPairKey) ([]clusterPair, bool) {
	pairs, ok := c.cluster[key]
	if ok {
		c.clusterHits++
	} else {
		c.clusterMisses++
	}
	return pairs, ok
}

func (c *caches) storeCluster(key cellPairKey, pairs []clusterPair, threshold int) {
	if len(pairs) > threshold {
		return
	}
	c.cluster[key] = pairs
}
