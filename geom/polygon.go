package geom

// Polygon is a simple, closed point ring. The engine assumes polygons
// are well-formed (non-self-intersecting, points in order around the
// boundary); it does not validate this, mirroring the contract of
// dbPolygon.cc in the original layout database.
type Polygon struct {
	Points []Point
}

// BBox computes the polygon's bounding box from its points.
func (p *Polygon) BBox() Box {
	if len(p.Points) == 0 {
		return EmptyBox()
	}
	b := NewBox(p.Points[0], p.Points[0])
	for _, pt := range p.Points[1:] {
		b = b.Union(NewBox(pt, pt))
	}
	return b
}

// Transformed returns a new polygon with t applied to every point.
func (p *Polygon) Transformed(t Transform) *Polygon {
	pts := make([]Point, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = t.Apply(pt)
	}
	return &Polygon{Points: pts}
}

// ContainsPoint reports whether pt lies on or inside the polygon,
// using a closed (boundary-inclusive) point-in-polygon test.
func (p *Polygon) ContainsPoint(pt Point) bool {
	if len(p.Points) < 3 {
		return false
	}
	if onBoundary(p.Points, pt) {
		return true
	}
	inside := false
	n := len(p.Points)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.Points[j], p.Points[i]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			// pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X, rearranged to a
			// single integer cross product to stay exact past 2^53: the
			// division-free form flips sign with (b.Y-a.Y), which the
			// (b.Y > a.Y) comparison accounts for.
			crossSign := (b.X-a.X)*(pt.Y-a.Y) - (pt.X-a.X)*(b.Y-a.Y)
			if (b.Y > a.Y) == (crossSign > 0) {
				inside = !inside
			}
		}
	}
	return inside
}

func onBoundary(pts []Point, pt Point) bool {
	n := len(pts)
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		if segContainsPoint(a, b, pt) {
			return true
		}
	}
	return false
}

// segContainsPoint reports whether pt lies on the closed segment a-b,
// assuming a, b, pt are colinearity-checked via the integer cross
// product to stay exact.
func segContainsPoint(a, b, pt Point) bool {
	cross := (b.X-a.X)*(pt.Y-a.Y) - (b.Y-a.Y)*(pt.X-a.X)
	if cross != 0 {
		return false
	}
	if pt.X < min64(a.X, b.X) || pt.X > max64(a.X, b.X) {
		return false
	}
	if pt.Y < min64(a.Y, b.Y) || pt.Y > max64(a.Y, b.Y) {
		return false
	}
	return true
}

// PolygonInteracts reports whether polygon a (after ta) touches or
// overlaps polygon b (after tb), using closed half-planes: shared
// edges and shared vertices count as interaction. This is the
// workhorse behind Connectivity.Interacts for the polygon-reference
// shape kind.
func PolygonInteracts(a *Polygon, ta Transform, b *Polygon, tb Transform) bool {
	pa := a.Transformed(ta)
	pb := b.Transformed(tb)
	if !pa.BBox().Touches(pb.BBox()) {
		return false
	}
	// Any vertex of one inside the other.
	for _, pt := range pa.Points {
		if pb.ContainsPoint(pt) {
			return true
		}
	}
	for _, pt := range pb.Points {
		if pa.ContainsPoint(pt) {
			return true
		}
	}
	// Edge-edge intersection, including collinear overlap and shared endpoints.
	na, nb := len(pa.Points), len(pb.Points)
	for i := 0; i < na; i++ {
		a1, a2 := pa.Points[i], pa.Points[(i+1)%na]
		for j := 0; j < nb; j++ {
			b1, b2 := pb.Points[j], pb.Points[(j+1)%nb]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

func sign(v int64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func cross(o, a, b Point) int64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// segmentsIntersect reports whether closed segments a1-a2 and b1-b2
// share at least one point (proper crossing, collinear overlap, or a
// touching endpoint all count).
func segmentsIntersect(a1, a2, b1, b2 Point) bool {
	d1 := sign(cross(b1, b2, a1))
	d2 := sign(cross(b1, b2, a2))
	d3 := sign(cross(a1, a2, b1))
	d4 := sign(cross(a1, a2, b2))

	if d1 != d2 && d3 != d4 {
		return true
	}
	if d1 == 0 && segContainsPoint(b1, b2, a1) {
		return true
	}
	if d2 == 0 && segContainsPoint(b1, b2, a2) {
		return true
	}
	if d3 == 0 && segContainsPoint(a1, a2, b1) {
		return true
	}
	if d4 == 0 && segContainsPoint(a1, a2, b2) {
		return true
	}
	return false
}

// PolygonRef is a shared hull polygon plus a small per-instance
// displacement transform, letting many identical shapes reuse one
// heap-allocated Polygon (see the shaperepo package).
type PolygonRef struct {
	Poly   *Polygon
	Disp   Transform
	layer  int
	attrID int
}

// NewPolygonRef builds a PolygonRef over a shared polygon.
func NewPolygonRef(poly *Polygon, disp Transform, layer, attrID int) *PolygonRef {
	return &PolygonRef{Poly: poly, Disp: disp, layer: layer, attrID: attrID}
}

func (r *PolygonRef) Kind() ShapeKind { return PolygonRefKind }
func (r *PolygonRef) Layer() int      { return r.layer }
func (r *PolygonRef) AttrID() int     { return r.attrID }
func (r *PolygonRef) BBox() Box       { return r.Disp.ApplyBox(r.Poly.BBox()) }

// Transformed returns the resolved polygon this reference denotes
// after t is applied on top of the reference's own displacement.
func (r *PolygonRef) Transformed(t Transform) *Polygon {
	return r.Poly.Transformed(r.Disp.Compose(t))
}
