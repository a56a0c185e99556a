package cluster

import (
	"testing"

	"github.com/klayout-go/netex/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectShape(layer int, x1, y1, x2, y2 int64) geom.Shape {
	poly := &geom.Polygon{
		Points: []geom.Point{
			{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2},
		},
	}
	return geom.NewPolygonRef(poly, geom.Identity(), layer, 0)
}

func TestConnectedClustersInsertAssignsSequentialIDs(t *testing.T) {
	cc := New(0)
	c1 := cc.Insert()
	c2 := cc.Insert()
	assert.Equal(t, 1, c1.ID())
	assert.Equal(t, 2, c2.ID())
	assert.Equal(t, 2, cc.MaxID())
	assert.True(t, cc.IsRoot(1))
	assert.True(t, cc.IsRoot(2))
}

func TestConnectedClustersClusterByIDOutOfRange(t *testing.T) {
	cc := New(0)
	cc.Insert()
	assert.Nil(t, cc.ClusterByID(0))
	assert.Nil(t, cc.ClusterByID(2))
	assert.NotNil(t, cc.ClusterByID(1))
}

func TestConnectedClustersConnectionsAndReverseLookup(t *testing.T) {
	cc := New(0)
	c1 := cc.Insert()
	ci := ClusterInstance{ClusterID: 5, ChildCell: 3, Trans: geom.Identity(), PropID: 0}
	cc.AddConnection(c1.ID(), ci)

	assert.Equal(t, []ClusterInstance{ci}, cc.Connections(c1.ID()))
	id, ok := cc.ReverseLookup(ci)
	require.True(t, ok)
	assert.Equal(t, c1.ID(), id)

	_, ok = cc.ReverseLookup(ClusterInstance{ClusterID: 9, ChildCell: 9})
	assert.False(t, ok)
}

func TestConnectedClustersSetRoot(t *testing.T) {
	cc := New(0)
	c1 := cc.Insert()
	cc.SetRoot(c1.ID(), false)
	assert.False(t, cc.IsRoot(c1.ID()))
}

func TestConnectedClustersRemoveClusterKeepsSlot(t *testing.T) {
	cc := New(0)
	c1 := cc.Insert()
	c1.AddShape(rectShape(1, 0, 0, 10, 10))
	ci := ClusterInstance{ClusterID: 1, ChildCell: 2, Trans: geom.Identity()}
	cc.AddConnection(c1.ID(), ci)

	cc.RemoveCluster(c1.ID())

	assert.True(t, cc.ClusterByID(c1.ID()).IsEmpty())
	assert.Empty(t, cc.Connections(c1.ID()))
	_, ok := cc.ReverseLookup(ci)
	assert.False(t, ok)
	assert.Equal(t, 1, cc.MaxID())
}

func TestConnectedClustersJoinClusterWithMergesContentsAndConnections(t *testing.T) {
	cc := New(0)
	keep := cc.Insert()
	absorb := cc.Insert()

	keep.AddShape(rectShape(1, 0, 0, 10, 10))
	absorb.AddShape(rectShape(1, 5, 5, 15, 15))
	absorb.AttachGlobalNet(7)

	keepCI := ClusterInstance{ClusterID: 1, ChildCell: 9, Trans: geom.Identity()}
	absorbCI := ClusterInstance{ClusterID: 2, ChildCell: 9, Trans: geom.Identity()}
	cc.AddConnection(keep.ID(), keepCI)
	cc.AddConnection(absorb.ID(), absorbCI)

	got := cc.JoinClusterWith(keep.ID(), absorb.ID())
	assert.Equal(t, keep.ID(), got)

	merged := cc.ClusterByID(keep.ID())
	assert.Equal(t, geom.NewBox(geom.Point{X: 0, Y: 0}, geom.Point{X: 15, Y: 15}), merged.BBox())
	assert.True(t, merged.HasGlobalNet(7))

	conns := cc.Connections(keep.ID())
	assert.ElementsMatch(t, []ClusterInstance{keepCI, absorbCI}, conns)

	id, ok := cc.ReverseLookup(absorbCI)
	require.True(t, ok)
	assert.Equal(t, keep.ID(), id)

	assert.True(t, cc.ClusterByID(absorb.ID()).IsEmpty())
	assert.Empty(t, cc.Connections(absorb.ID()))
}

func TestConnectedClustersJoinClusterWithPanicsOnSameID(t *testing.T) {
	cc := New(0)
	c1 := cc.Insert()
	assert.Panics(t, func() { cc.JoinClusterWith(c1.ID(), c1.ID()) })
}

func TestConnectedClustersAllClusterIDsIsDense(t *testing.T) {
	cc := New(0)
	cc.Insert()
	cc.Insert()
	cc.RemoveCluster(1)
	cc.Insert()
	assert.Equal(t, []int{1, 2, 3}, cc.AllClusterIDs())
}
