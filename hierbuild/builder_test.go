package hierbuild

import (
	"context"
	"testing"

	"github.com/klayout-go/netex/connectivity"
	"github.com/klayout-go/netex/geom"
	"github.com/klayout-go/netex/hiertree"
	"github.com/klayout-go/netex/layoutmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectShape(layer, attrID int, x1, y1, x2, y2 int64) geom.Shape {
	poly := &geom.Polygon{Points: []geom.Point{{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2}}}
	return geom.NewPolygonRef(poly, geom.Identity(), layer, attrID)
}

func newConn(layers ...int) *connectivity.Connectivity {
	c := connectivity.New(geom.EndpointTouching)
	for _, l := range layers {
		c.AddLayer(l)
		c.Connect(l, l)
	}
	return c
}

func dispTrans(dx, dy int64) geom.Transform {
	t := geom.Identity()
	t.Disp = geom.Point{X: dx, Y: dy}
	return t
}

func TestBuildSingleCellOverlapProducesOneCluster(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	top := ly.AddCell("TOP")
	top.AddShape(rectShape(1, 0, 0, 0, 100, 100))
	top.AddShape(rectShape(1, 0, 50, 50, 200, 200))
	ly.Finalize()

	conn := newConn(1)
	tree := hiertree.New()
	b := New()
	_, err := b.Build(context.Background(), tree, ly, conn)
	require.NoError(t, err)

	cc := tree.ClustersPerCell(top.Index())
	require.NotNil(t, cc)
	require.Equal(t, 1, cc.MaxID())
	assert.Len(t, cc.ClusterByID(1).AllShapes(), 2)
}

func TestBuildParentChildTouchingUnifiesUpThroughParent(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	child := ly.AddCell("CHILD")
	child.AddShape(rectShape(1, 0, 0, 0, 50, 50))
	top := ly.AddCell("TOP")
	top.AddShape(rectShape(1, 0, 40, 0, 90, 50))
	top.AddInstance(child, geom.Identity(), 0)
	ly.Finalize()

	conn := newConn(1)
	tree := hiertree.New()
	b := New()
	_, err := b.Build(context.Background(), tree, ly, conn)
	require.NoError(t, err)

	topCC := tree.ClustersPerCell(top.Index())
	require.NotNil(t, topCC)
	require.Equal(t, 1, topCC.MaxID())
	lc := topCC.ClusterByID(1)
	require.Len(t, lc.AllShapes(), 1)
	conns := topCC.Connections(1)
	require.Len(t, conns, 1)
	assert.Equal(t, child.Index(), conns[0].ChildCell)
}

func TestBuildSoftConnectDoesNotUnifyReverseDirection(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	top := ly.AddCell("TOP")
	top.AddShape(rectShape(1, 0, 0, 0, 50, 50))
	top.AddShape(rectShape(2, 0, 40, 0, 90, 50))
	ly.Finalize()

	conn := connectivity.New(geom.EndpointTouching)
	conn.AddLayer(1)
	conn.AddLayer(2)
	conn.Connect(1, 1)
	conn.Connect(2, 2)
	conn.SoftConnect(1, 2)

	tree := hiertree.New()
	b := New()
	_, err := b.Build(context.Background(), tree, ly, conn)
	require.NoError(t, err)

	cc := tree.ClustersPerCell(top.Index())
	require.NotNil(t, cc)
	require.Equal(t, 2, cc.MaxID(), "soft connect must record a directed annotation, not unify the two clusters")

	var layer1ID, layer2ID int
	for _, id := range cc.AllClusterIDs() {
		shapes := cc.ClusterByID(id).AllShapes()
		require.Len(t, shapes, 1)
		switch shapes[0].Layer() {
		case 1:
			layer1ID = id
		case 2:
			layer2ID = id
		}
	}
	require.NotZero(t, layer1ID)
	require.NotZero(t, layer2ID)
	assert.Contains(t, cc.SoftLinks(layer1ID), layer2ID, "soft connect(1, 2) must record a 1 -> 2 annotation")
	assert.Empty(t, cc.SoftLinks(layer2ID), "soft connect(1, 2) must not record the reverse 2 -> 1 direction")
}

func TestBuildSiblingInstancesBridgeThroughParent(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	child := ly.AddCell("CHILD")
	child.AddShape(rectShape(1, 0, 0, 0, 20, 20))
	top := ly.AddCell("TOP")
	top.AddInstance(child, dispTrans(0, 0), 0)
	top.AddInstance(child, dispTrans(15, 0), 0)
	ly.Finalize()

	conn := newConn(1)
	tree := hiertree.New()
	b := New()
	_, err := b.Build(context.Background(), tree, ly, conn)
	require.NoError(t, err)

	topCC := tree.ClustersPerCell(top.Index())
	require.NotNil(t, topCC)
	require.Equal(t, 1, topCC.MaxID())
	assert.Len(t, topCC.Connections(1), 2)
}

func TestBuildDisjointShapesStaySeparate(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	top := ly.AddCell("TOP")
	top.AddShape(rectShape(1, 0, 0, 0, 10, 10))
	top.AddShape(rectShape(1, 0, 1000, 1000, 1010, 1010))
	ly.Finalize()

	conn := newConn(1)
	tree := hiertree.New()
	b := New()
	_, err := b.Build(context.Background(), tree, ly, conn)
	require.NoError(t, err)

	cc := tree.ClustersPerCell(top.Index())
	require.NotNil(t, cc)
	assert.Equal(t, 2, cc.MaxID())
}

func TestBuildGlobalNetUnifiesAcrossHierarchy(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	child := ly.AddCell("CHILD")
	child.AddShape(rectShape(1, 0, 0, 0, 10, 10))
	top := ly.AddCell("TOP")
	top.AddShape(rectShape(1, 0, 1000, 1000, 1010, 1010))
	top.AddInstance(child, dispTrans(5000, 5000), 0)
	ly.Finalize()

	conn := newConn(1)
	netID := conn.AttachGlobalNet(1, "VSS")

	tree := hiertree.New()
	b := New()
	_, err := b.Build(context.Background(), tree, ly, conn)
	require.NoError(t, err)

	topCC := tree.ClustersPerCell(top.Index())
	require.NotNil(t, topCC)
	require.Equal(t, 1, topCC.MaxID(), "global net unifies the local cluster and the far-away child instance despite no geometric overlap")
	assert.True(t, topCC.ClusterByID(1).HasGlobalNet(netID))
}

func TestBuildArraySelfInteractionMergesAdjacentElements(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	child := ly.AddCell("CHILD")
	child.AddShape(rectShape(1, 0, 0, 0, 20, 20))
	top := ly.AddCell("TOP")
	top.AddArrayInstance(child, geom.Identity(), 1, 3, geom.Point{}, geom.Point{X: 15, Y: 0}, 0)
	ly.Finalize()

	conn := newConn(1)
	tree := hiertree.New()
	b := New()
	_, err := b.Build(context.Background(), tree, ly, conn)
	require.NoError(t, err)

	topCC := tree.ClustersPerCell(top.Index())
	require.NotNil(t, topCC)
	require.Equal(t, 2, topCC.MaxID(), "merging the two element connectors empties slot 2 in place; slots are never reclaimed")
	assert.Len(t, topCC.Connections(1), 3, "each of the three touching array elements gets its own outbound entry into the shared cluster")
	assert.Empty(t, topCC.Connections(2))
}

func TestBuildBreakoutCellIsOpaque(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	child := ly.AddCell("CHILD")
	child.AddShape(rectShape(1, 0, 0, 0, 20, 20))
	child.AddShape(rectShape(1, 0, 15, 0, 35, 20))
	top := ly.AddCell("TOP")
	top.AddShape(rectShape(1, 0, 10, 0, 30, 20))
	top.AddInstance(child, geom.Identity(), 0)
	ly.Finalize()

	conn := newConn(1)
	tree := hiertree.New()
	b := New(WithBreakoutCells(top.Index()))
	_, err := b.Build(context.Background(), tree, ly, conn)
	require.NoError(t, err)

	topCC := tree.ClustersPerCell(top.Index())
	require.NotNil(t, topCC)
	assert.Equal(t, 1, topCC.MaxID(), "the top cell's own local shape still clusters")
	assert.Empty(t, topCC.Connections(1), "a breakout cell never connects out to its children")
}

func TestBuildEmptyLayoutProducesEmptyTree(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	top := ly.AddCell("TOP")
	ly.Finalize()

	conn := newConn(1)
	tree := hiertree.New()
	b := New()
	stats, err := b.Build(context.Background(), tree, ly, conn)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CellsBuilt)

	cc := tree.ClustersPerCell(top.Index())
	require.NotNil(t, cc)
	assert.Equal(t, 0, cc.MaxID())
}

func TestBuildRespectsCancellation(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	ly.AddCell("TOP")
	ly.Finalize()

	conn := newConn(1)
	tree := hiertree.New()
	b := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Build(ctx, tree, ly, conn)
	require.Error(t, err)
	assert.Equal(t, 0, tree.Len())
}

func TestBuildReusesInstanceCacheForRepeatedSimplePlacements(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	child := ly.AddCell("CHILD")
	child.AddShape(rectShape(1, 0, 0, 0, 20, 20))
	other := ly.AddCell("OTHER")
	other.AddShape(rectShape(1, 0, 0, 0, 20, 20))
	top := ly.AddCell("TOP")
	top.AddInstance(child, dispTrans(0, 0), 0)
	top.AddInstance(other, dispTrans(15, 0), 0)
	top2 := ly.AddCell("TOP2")
	top2.AddInstance(child, dispTrans(0, 0), 0)
	top2.AddInstance(other, dispTrans(15, 0), 0)
	ly.Finalize()

	conn := newConn(1)
	tree := hiertree.New()
	b := New()
	stats, err := b.Build(context.Background(), tree, ly, conn)
	require.NoError(t, err)
	assert.Greater(t, stats.InstanceCacheHits, 0, "TOP2 repeats TOP's touching placement pair, so its lookup hits the entry TOP stored")
}
