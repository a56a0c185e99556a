package cluster

import (
	"testing"

	"github.com/klayout-go/netex/geom"
	"github.com/stretchr/testify/assert"
)

func polyAt(layer int, x1, y1, x2, y2 int64) geom.Shape {
	poly := &geom.Polygon{Points: []geom.Point{{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2}}}
	return geom.NewPolygonRef(poly, geom.Identity(), layer, 0)
}

func TestShapeTreeInsertAndAll(t *testing.T) {
	tree := NewShapeTree()
	assert.Equal(t, 0, tree.Len())
	s1 := polyAt(1, 0, 0, 10, 10)
	s2 := polyAt(1, 20, 20, 30, 30)
	tree.Insert(s1)
	tree.Insert(s2)
	assert.Equal(t, 2, tree.Len())
	assert.Equal(t, []geom.Shape{s1, s2}, tree.All())
}

func TestShapeTreeTouching(t *testing.T) {
	tree := NewShapeTree()
	s1 := polyAt(1, 0, 0, 10, 10)
	s2 := polyAt(1, 100, 100, 110, 110)
	tree.Insert(s1)
	tree.Insert(s2)

	got := tree.Touching(geom.NewBox(geom.Point{X: 5, Y: 5}, geom.Point{X: 15, Y: 15}))
	assert.Equal(t, []geom.Shape{s1}, got)
}

func TestShapeTreeAppend(t *testing.T) {
	a := NewShapeTree()
	b := NewShapeTree()
	s1 := polyAt(1, 0, 0, 10, 10)
	s2 := polyAt(1, 5, 5, 15, 15)
	a.Insert(s1)
	b.Insert(s2)

	a.Append(b)

	assert.Equal(t, 2, a.Len())
	assert.Equal(t, []geom.Shape{s1, s2}, a.All())
}

func TestShapeTreeAppendNilIsNoop(t *testing.T) {
	a := NewShapeTree()
	a.Insert(polyAt(1, 0, 0, 1, 1))
	a.Append(nil)
	assert.Equal(t, 1, a.Len())
}
