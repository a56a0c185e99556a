package geom

// ShapeKind tags which of the three concrete shape variants a Shape
// value is. The engine is conceptually generic over this choice (spec
// section 3); Go expresses the sum type as an interface plus a kind
// tag rather than a type parameter, since the call sites that need to
// distinguish the variant are few (Connectivity.Interacts and the
// recursive iterators).
type ShapeKind int

const (
	PolygonRefKind ShapeKind = iota
	EdgeKind
	TextKind
)

func (k ShapeKind) String() string {
	switch k {
	case PolygonRefKind:
		return "polygon-ref"
	case EdgeKind:
		return "edge"
	case TextKind:
		return "text"
	default:
		return "unknown"
	}
}

// Shape is the contract every geometric primitive the engine clusters
// must satisfy: a bounding box, the layer it lives on, and an optional
// attribute id (0 means none).
type Shape interface {
	Kind() ShapeKind
	BBox() Box
	Layer() int
	AttrID() int
}

// EdgeInteractMode selects how two Edge shapes are tested for
// interaction (spec section 3).
type EdgeInteractMode int

const (
	// CollinearTouching unites edges that lie on the same infinite
	// line and whose 1-D ranges along it overlap (closed).
	CollinearTouching EdgeInteractMode = iota
	// EndpointTouching unites edges only when an endpoint of one
	// equals an endpoint of the other.
	EndpointTouching
)

// Edge is an ordered pair of points.
type Edge struct {
	P1, P2 Point
	layer  int
	attrID int
}

// NewEdge builds an Edge shape.
func NewEdge(p1, p2 Point, layer, attrID int) *Edge {
	return &Edge{P1: p1, P2: p2, layer: layer, attrID: attrID}
}

func (e *Edge) Kind() ShapeKind { return EdgeKind }
func (e *Edge) Layer() int      { return e.layer }
func (e *Edge) AttrID() int     { return e.attrID }
func (e *Edge) BBox() Box       { return NewBox(e.P1, e.P2) }

// Transformed returns e with t applied to both endpoints.
func (e *Edge) Transformed(t Transform) *Edge {
	return &Edge{P1: t.Apply(e.P1), P2: t.Apply(e.P2), layer: e.layer, attrID: e.attrID}
}

// EdgesInteract implements the edge-interaction predicate of spec
// section 4.1 for the requested mode. b is taken after tb is applied.
func EdgesInteract(a *Edge, b *Edge, tb Transform, mode EdgeInteractMode) bool {
	bt := b.Transformed(tb)
	if mode == EndpointTouching {
		return a.P1.Equal(bt.P1) || a.P1.Equal(bt.P2) || a.P2.Equal(bt.P1) || a.P2.Equal(bt.P2)
	}
	// CollinearTouching: same infinite line, overlapping closed ranges.
	if cross(a.P1, a.P2, bt.P1) != 0 || cross(a.P1, a.P2, bt.P2) != 0 {
		return false
	}
	return rangesOverlap1D(a.P1, a.P2, bt.P1, bt.P2)
}

// rangesOverlap1D projects both segments onto their shared line's
// dominant axis and checks closed-range overlap.
func rangesOverlap1D(a1, a2, b1, b2 Point) bool {
	dx, dy := a2.X-a1.X, a2.Y-a1.Y
	if abs64(dx) >= abs64(dy) {
		aLo, aHi := orderedPair(a1.X, a2.X)
		bLo, bHi := orderedPair(b1.X, b2.X)
		return aLo <= bHi && bLo <= aHi
	}
	aLo, aHi := orderedPair(a1.Y, a2.Y)
	bLo, bHi := orderedPair(b1.Y, b2.Y)
	return aLo <= bHi && bLo <= aHi
}

func orderedPair(a, b int64) (int64, int64) {
	if a <= b {
		return a, b
	}
	return b, a
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Text is a point shape carrying a label, typically used to annotate
// a net with a user-assigned name via its attribute id.
type Text struct {
	Pos    Point
	Label  string
	layer  int
	attrID int
}

// NewText builds a Text shape.
func NewText(pos Point, label string, layer, attrID int) *Text {
	return &Text{Pos: pos, Label: label, layer: layer, attrID: attrID}
}

func (t *Text) Kind() ShapeKind { return TextKind }
func (t *Text) Layer() int      { return t.layer }
func (t *Text) AttrID() int     { return t.attrID }
func (t *Text) BBox() Box       { return NewBox(t.Pos, t.Pos) }

// Transformed returns t with trans applied to its anchor.
func (t *Text) Transformed(trans Transform) *Text {
	return &Text{Pos: trans.Apply(t.Pos), Label: t.Label, layer: t.layer, attrID: t.attrID}
}

// TextInteractsPolygon reports whether a text anchor (after ta) lies
// on or inside a polygon (after tb).
func TextInteractsPolygon(t *Text, ta Transform, p *Polygon, tb Transform) bool {
	anchor := ta.Apply(t.Pos)
	poly := p.Transformed(tb)
	return poly.ContainsPoint(anchor)
}
