package geom

// Interacts is the shape-kind dispatcher behind the geometric half of
// Connectivity.Interacts (spec section 4.1): given conducts(la,lb) !=
// none has already been established by the caller, it decides whether
// a (untransformed) and b (after tb) actually touch or overlap.
//
// The fast bounding-box rejection happens first and is definitive on a
// negative result, per spec section 4.1's "Fast rejection" paragraph.
func Interacts(a Shape, b Shape, tb Transform, edgeMode EdgeInteractMode) bool {
	bBox := tb.ApplyBox(b.BBox())
	if !a.BBox().Touches(bBox) {
		return false
	}
	switch av := a.(type) {
	case *PolygonRef:
		return interactsFromPolygon(av, Identity(), b, tb, edgeMode)
	case *Edge:
		return interactsFromEdge(av, Identity(), b, tb, edgeMode)
	case *Text:
		return interactsFromText(av, Identity(), b, tb, edgeMode)
	default:
		return false
	}
}

func interactsFromPolygon(a *PolygonRef, ta Transform, b Shape, tb Transform, edgeMode EdgeInteractMode) bool {
	switch bv := b.(type) {
	case *PolygonRef:
		return PolygonInteracts(a.Poly, a.Disp.Compose(ta), bv.Poly, bv.Disp.Compose(tb))
	case *Edge:
		return edgeInteractsPolygon(bv, tb, a.Poly, a.Disp.Compose(ta))
	case *Text:
		return TextInteractsPolygon(bv, tb, a.Poly, a.Disp.Compose(ta))
	default:
		return false
	}
}

func interactsFromEdge(a *Edge, ta Transform, b Shape, tb Transform, edgeMode EdgeInteractMode) bool {
	at := a.Transformed(ta)
	switch bv := b.(type) {
	case *Edge:
		return EdgesInteract(at, bv, tb, edgeMode)
	case *PolygonRef:
		return edgeInteractsPolygon(at, Identity(), bv.Poly, bv.Disp.Compose(tb))
	case *Text:
		anchor := tb.Apply(bv.Pos)
		return pointOnSegment(anchor, at.P1, at.P2)
	default:
		return false
	}
}

func interactsFromText(a *Text, ta Transform, b Shape, tb Transform, edgeMode EdgeInteractMode) bool {
	anchor := ta.Apply(a.Pos)
	switch bv := b.(type) {
	case *PolygonRef:
		poly := bv.Poly.Transformed(bv.Disp.Compose(tb))
		return poly.ContainsPoint(anchor)
	case *Edge:
		bt := bv.Transformed(tb)
		return pointOnSegment(anchor, bt.P1, bt.P2)
	case *Text:
		return anchor.Equal(tb.Apply(bv.Pos))
	default:
		return false
	}
}

func pointOnSegment(p, a, b Point) bool {
	return segContainsPoint(a, b, p)
}

// edgeInteractsPolygon reports whether edge e (after te)
// touches polygon p (after tp): either an endpoint lies inside/on the
// polygon, or the edge crosses one of the polygon's boundary segments.
func edgeInteractsPolygon(e *Edge, te Transform, p *Polygon, tp Transform) bool {
	et := e.Transformed(te)
	poly := p.Transformed(tp)
	if poly.ContainsPoint(et.P1) || poly.ContainsPoint(et.P2) {
		return true
	}
	n := len(poly.Points)
	for i := 0; i < n; i++ {
		s1, s2 := poly.Points[i], poly.Points[(i+1)%n]
		if segmentsIntersect(et.P1, et.P2, s1, s2) {
			return true
		}
	}
	return false
}
