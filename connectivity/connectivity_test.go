package connectivity

import (
	"testing"

	"github.com/klayout-go/netex/geom"
	"github.com/stretchr/testify/assert"
)

func TestConnectIsSymmetric(t *testing.T) {
	c := New(geom.CollinearTouching)
	c.Connect(1, 2)
	assert.Equal(t, Hard, c.Conducts(1, 2))
	assert.Equal(t, Hard, c.Conducts(2, 1))
}

func TestSoftConnectIsDirected(t *testing.T) {
	c := New(geom.CollinearTouching)
	c.SoftConnect(1, 2)
	assert.Equal(t, Soft, c.Conducts(1, 2))
	assert.Equal(t, None, c.Conducts(2, 1))
}

func TestSameLayerHardConnect(t *testing.T) {
	c := New(geom.CollinearTouching)
	c.Connect(1, 1)
	assert.Equal(t, Hard, c.Conducts(1, 1))
}

func TestGlobalNetIDsAllocatedFirstSeen(t *testing.T) {
	c := New(geom.CollinearTouching)
	vdd1 := c.GlobalNetID("VDD")
	gnd := c.GlobalNetID("GND")
	vdd2 := c.GlobalNetID("VDD")
	assert.Equal(t, vdd1, vdd2)
	assert.NotEqual(t, vdd1, gnd)
	assert.Equal(t, "VDD", c.GlobalNetName(vdd1))
}

func TestAttachGlobalNetDeduplicatesPerLayer(t *testing.T) {
	c := New(geom.CollinearTouching)
	c.AttachGlobalNet(1, "VDD")
	c.AttachGlobalNet(1, "VDD")
	assert.Equal(t, []int{1}, c.GlobalNetsOf(1))
}

func TestInteractsShortCircuitsOnNoConduct(t *testing.T) {
	c := New(geom.CollinearTouching)
	a := geom.NewPolygonRef(&geom.Polygon{Points: []geom.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}}, geom.Identity(), 1, 0)
	b := geom.NewPolygonRef(&geom.Polygon{Points: []geom.Point{{5, 5}, {15, 5}, {15, 15}, {5, 15}}}, geom.Identity(), 2, 0)
	assert.False(t, c.Interacts(a, 1, b, 2, geom.Identity()))

	c.Connect(1, 2)
	assert.True(t, c.Interacts(a, 1, b, 2, geom.Identity()))
}

func TestAnyInteractionPossible(t *testing.T) {
	c := New(geom.CollinearTouching)
	c.Connect(1, 1)
	assert.True(t, c.AnyInteractionPossible([]int{1}, []int{1}))
	assert.False(t, c.AnyInteractionPossible([]int{1}, []int{2}))
}

func TestHasLayers(t *testing.T) {
	c := New(geom.CollinearTouching)
	assert.False(t, c.HasLayers())
	c.AddLayer(1)
	assert.True(t, c.HasLayers())
}
