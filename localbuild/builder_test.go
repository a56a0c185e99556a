package localbuild

import (
	"testing"

	"github.com/klayout-go/netex/connectivity"
	"github.com/klayout-go/netex/geom"
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

func TestBuildNoLayersProducesNoClusters(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	top := ly.AddCell("TOP")
	top.AddShape(rectShape(1, 0, 0, 0, 10, 10))
	ly.Finalize()

	conn := connectivity.New(geom.EndpointTouching)
	cc := Build(ly.Cell(top.Index()), conn, Options{})
	assert.Equal(t, 0, cc.MaxID())
}

func TestBuildTwoOverlappingBoxesOneCluster(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	top := ly.AddCell("TOP")
	top.AddShape(rectShape(1, 0, 0, 0, 100, 100))
	top.AddShape(rectShape(1, 0, 50, 50, 200, 200))
	ly.Finalize()

	conn := newConn(1)
	cc := Build(ly.Cell(top.Index()), conn, Options{})

	require.Equal(t, 1, cc.MaxID())
	lc := cc.ClusterByID(1)
	assert.Len(t, lc.AllShapes(), 2)
}

func TestBuildSingleShapeWithGlobalNet(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	top := ly.AddCell("TOP")
	top.AddShape(rectShape(1, 0, 0, 0, 10, 10))
	ly.Finalize()

	conn := newConn(1)
	netID := conn.AttachGlobalNet(1, "VDD")

	cc := Build(ly.Cell(top.Index()), conn, Options{})
	require.Equal(t, 1, cc.MaxID())
	assert.True(t, cc.ClusterByID(1).HasGlobalNet(netID))
}

func TestBuildSeparateAttributesPreventsMerge(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	top := ly.AddCell("TOP")
	top.AddShape(rectShape(1, 1, 0, 0, 100, 100))
	top.AddShape(rectShape(1, 2, 50, 50, 200, 200))
	ly.Finalize()

	conn := newConn(1)
	cc := Build(ly.Cell(top.Index()), conn, Options{SeparateAttributes: true})

	assert.Equal(t, 2, cc.MaxID())
}

func TestBuildDisjointBoxesStayInSeparateClusters(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	top := ly.AddCell("TOP")
	top.AddShape(rectShape(1, 0, 0, 0, 10, 10))
	top.AddShape(rectShape(1, 0, 1000, 1000, 1010, 1010))
	ly.Finalize()

	conn := newConn(1)
	cc := Build(ly.Cell(top.Index()), conn, Options{})
	assert.Equal(t, 2, cc.MaxID())
}

func TestBuildAttributeEquivalenceForceJoins(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	top := ly.AddCell("TOP")
	top.AddShape(rectShape(1, 1, 0, 0, 10, 10))
	top.AddShape(rectShape(1, 2, 1000, 1000, 1010, 1010))
	ly.Finalize()

	conn := newConn(1)
	part := NewPartition()
	part.Equate(1, 2)

	cc := Build(ly.Cell(top.Index()), conn, Options{AttributeEquivalence: part})
	assert.Equal(t, 2, cc.MaxID(), "the join empties slot 2 in place; slots are never reclaimed")
	assert.Len(t, cc.ClusterByID(1).AllShapes(), 2)
	assert.True(t, cc.ClusterByID(2).IsEmpty())
}
