package geom

import "fmt"

// Rotation is one of the four axis-aligned quadrant rotations a
// complex transform may apply before displacement.
type Rotation int

const (
	Rot0 Rotation = iota
	Rot90
	Rot180
	Rot270
)

// Transform is an integer complex transform: mirror around the
// x-axis, then rotate by a quadrant, then scale by a rational
// magnification, then displace. This is the same ordering dbPolygon.h's
// ICplxTrans uses.
//
// MagNum/MagDen default to 1/1 (identity magnification) when both are
// zero, so the Transform zero value is the identity transform.
type Transform struct {
	Rotation       Rotation
	Mirror         bool
	MagNum, MagDen int64
	Disp           Point
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{MagNum: 1, MagDen: 1}
}

func (t Transform) magNum() int64 {
	if t.MagNum == 0 && t.MagDen == 0 {
		return 1
	}
	return t.MagNum
}

func (t Transform) magDen() int64 {
	if t.MagNum == 0 && t.MagDen == 0 {
		return 1
	}
	return t.MagDen
}

// linearMat is the 2x2 integer matrix [[a,b],[c,d]] representing the
// mirror+rotation part of a transform, applied as x'=a*x+b*y,
// y'=c*x+d*y. Every such matrix occurring in this package is one of
// the eight signed-permutation matrices of the dihedral group D4.
type linearMat struct {
	a, b, c, d int64
}

// matOf returns the mirror+rotation matrix for (r, mirror).
func matOf(r Rotation, mirror bool) linearMat {
	switch {
	case r == Rot0 && !mirror:
		return linearMat{1, 0, 0, 1}
	case r == Rot90 && !mirror:
		return linearMat{0, -1, 1, 0}
	case r == Rot180 && !mirror:
		return linearMat{-1, 0, 0, -1}
	case r == Rot270 && !mirror:
		return linearMat{0, 1, -1, 0}
	case r == Rot0 && mirror:
		return linearMat{1, 0, 0, -1}
	case r == Rot90 && mirror:
		return linearMat{0, 1, 1, 0}
	case r == Rot180 && mirror:
		return linearMat{-1, 0, 0, 1}
	default: // Rot270 && mirror
		return linearMat{0, -1, -1, 0}
	}
}

// rotMirrorOf recovers (Rotation, mirror) from one of the eight
// matrices produced by matOf. It panics on any other matrix, which
// would indicate a composition bug since this group is closed.
func rotMirrorOf(m linearMat) (Rotation, bool) {
	for _, r := range []Rotation{Rot0, Rot90, Rot180, Rot270} {
		for _, mirror := range []bool{false, true} {
			if matOf(r, mirror) == m {
				return r, mirror
			}
		}
	}
	panic(fmt.Sprintf("geom: matrix %+v is not a valid mirror/rotation combination", m))
}

func (m linearMat) apply(p Point) Point {
	return Point{X: m.a*p.X + m.b*p.Y, Y: m.c*p.X + m.d*p.Y}
}

// mul returns m1 followed by m2, i.e. the matrix equivalent to
// applying m1 first then m2 (m2 * m1 in matrix-multiplication order).
func mulMat(m1, m2 linearMat) linearMat {
	return linearMat{
		a: m2.a*m1.a + m2.b*m1.c,
		b: m2.a*m1.b + m2.b*m1.d,
		c: m2.c*m1.a + m2.d*m1.c,
		d: m2.c*m1.b + m2.d*m1.d,
	}
}

// invMat returns the inverse of an orthogonal signed-permutation
// matrix: since det(m) = +/-1, inv(m) = det(m) * adjugate(m).
func invMat(m linearMat) linearMat {
	det := m.a*m.d - m.b*m.c
	return linearMat{a: det * m.d, b: -det * m.b, c: -det * m.c, d: det * m.a}
}

// Apply maps p through the transform. It panics if the magnification
// does not divide the scaled coordinates losslessly; per spec this is
// a contract the caller must uphold for every transform it supplies.
func (t Transform) Apply(p Point) Point {
	q := matOf(t.Rotation, t.Mirror).apply(p)
	num, den := t.magNum(), t.magDen()
	if num != den {
		q.X = mulDivExact(q.X, num, den)
		q.Y = mulDivExact(q.Y, num, den)
	}
	return Point{X: q.X + t.Disp.X, Y: q.Y + t.Disp.Y}
}

func mulDivExact(v, num, den int64) int64 {
	prod := v * num
	if prod%den != 0 {
		panic(fmt.Sprintf("geom: transform magnification %d/%d does not losslessly scale %d", num, den, v))
	}
	return prod / den
}

// ApplyBox maps a box through the transform. Rotation can swap which
// corner is "lower-left", so the result is renormalized.
func (t Transform) ApplyBox(b Box) Box {
	if b.IsEmpty() {
		return b
	}
	p1 := t.Apply(Point{X: b.Left, Y: b.Bottom})
	p2 := t.Apply(Point{X: b.Right, Y: b.Top})
	return NewBox(p1, p2)
}

// Invert returns the transform that undoes t.
func (t Transform) Invert() Transform {
	invLinear := invMat(matOf(t.Rotation, t.Mirror))
	rot, mirror := rotMirrorOf(invLinear)
	num, den := t.magNum(), t.magDen()
	inv := Transform{Rotation: rot, Mirror: mirror, MagNum: den, MagDen: num}
	// Undo the displacement last: t.Apply(p) = linear(p)*mag + disp, so
	// inv must map (linear(p)*mag + disp) back to p, i.e. subtract disp
	// (scaled by the inverse magnification) before the inverse linear map.
	negDisp := Point{X: -t.Disp.X, Y: -t.Disp.Y}
	scaled := Point{X: mulDivExact(negDisp.X, den, num), Y: mulDivExact(negDisp.Y, den, num)}
	inv.Disp = invLinear.apply(scaled)
	return inv
}

// Compose returns the transform equivalent to applying t first, then
// outer: outer.Apply(t.Apply(p)) == t.Compose(outer).Apply(p).
func (t Transform) Compose(outer Transform) Transform {
	tn, td := t.magNum(), t.magDen()
	on, od := outer.magNum(), outer.magDen()
	linear := mulMat(matOf(t.Rotation, t.Mirror), matOf(outer.Rotation, outer.Mirror))
	rot, mirror := rotMirrorOf(linear)
	return Transform{
		Rotation: rot,
		Mirror:   mirror,
		MagNum:   tn * on,
		MagDen:   td * od,
		Disp:     outer.Apply(t.Disp),
	}
}

// Normalize returns a copy of t with displacement zeroed, keeping only
// its orientation and magnification. The hierarchical builder's caches
// do not use it: they key on the full relative transform.
func (t Transform) Normalize() Transform {
	t.Disp = Point{}
	return t
}

// IsIdentity reports whether t has no effect on any point.
func (t Transform) IsIdentity() bool {
	return t.Rotation == Rot0 && !t.Mirror && t.magNum() == t.magDen() && t.Disp == (Point{})
}
