package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformApplyIdentity(t *testing.T) {
	id := Identity()
	p := Point{X: 7, Y: -3}
	assert.Equal(t, p, id.Apply(p))
}

func TestTransformApplyRotation(t *testing.T) {
	p := Point{X: 1, Y: 0}
	tr := Transform{Rotation: Rot90, MagNum: 1, MagDen: 1}
	assert.Equal(t, Point{X: 0, Y: 1}, tr.Apply(p))

	tr180 := Transform{Rotation: Rot180, MagNum: 1, MagDen: 1}
	assert.Equal(t, Point{X: -1, Y: 0}, tr180.Apply(p))
}

func TestTransformApplyDisplacement(t *testing.T) {
	tr := Transform{MagNum: 1, MagDen: 1, Disp: Point{X: 100, Y: 200}}
	assert.Equal(t, Point{X: 105, Y: 203}, tr.Apply(Point{X: 5, Y: 3}))
}

func TestTransformApplyMagnification(t *testing.T) {
	tr := Transform{MagNum: 2, MagDen: 1}
	assert.Equal(t, Point{X: 10, Y: 20}, tr.Apply(Point{X: 5, Y: 10}))
}

func TestTransformApplyMagnificationPanicsOnLossyScale(t *testing.T) {
	tr := Transform{MagNum: 1, MagDen: 3}
	assert.Panics(t, func() { tr.Apply(Point{X: 1, Y: 0}) })
}

func TestTransformInvertRoundTrips(t *testing.T) {
	tr := Transform{Rotation: Rot90, MagNum: 1, MagDen: 1, Disp: Point{X: 10, Y: -5}}
	inv := tr.Invert()
	p := Point{X: 3, Y: 4}
	assert.Equal(t, p, inv.Apply(tr.Apply(p)))
}

func TestTransformComposeMatchesSequentialApply(t *testing.T) {
	t1 := Transform{Rotation: Rot90, MagNum: 1, MagDen: 1, Disp: Point{X: 10, Y: 0}}
	t2 := Transform{Rotation: Rot180, MagNum: 1, MagDen: 1, Disp: Point{X: 0, Y: 5}}
	composed := t1.Compose(t2)
	p := Point{X: 2, Y: 3}
	assert.Equal(t, t2.Apply(t1.Apply(p)), composed.Apply(p))
}

func TestTransformNormalizeZeroesDisplacement(t *testing.T) {
	tr := Transform{Rotation: Rot270, MagNum: 1, MagDen: 1, Disp: Point{X: 99, Y: 99}}
	n := tr.Normalize()
	assert.Equal(t, Point{}, n.Disp)
	assert.Equal(t, Rot270, n.Rotation)
}
