package cluster

import "github.com/klayout-go/netex/geom"

// ClusterInstance names "the cluster with id ClusterID that lives in
// child cell ChildCell, as inserted into some parent cell by instance
// transform Trans, carrying property PropID" (spec.md section 3).
// Equality is by the full quadruple, so ClusterInstance is safe to use
// directly as a Go map key.
type ClusterInstance struct {
	ClusterID int
	ChildCell int
	Trans     geom.Transform
	PropID    int
}

// Reframe returns ci with its transform composed so that it is
// expressed one level further up the hierarchy: if ci was valid in
// some cell reached from the current cell via instTrans, the result
// is valid directly in the current cell.
func (ci ClusterInstance) Reframe(instTrans geom.Transform) ClusterInstance {
	ci.Trans = ci.Trans.Compose(instTrans)
	return ci
}
