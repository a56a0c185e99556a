package geom

// Box is an axis-aligned rectangle given by its lower-left and
// upper-right corners. An empty Box (no shape contributes to it) is
// marked by an internal flag and carries all-zero coordinates; callers
// must check IsEmpty before relying on the coordinates.
type Box struct {
	Left, Bottom, Right, Top int64
	empty                    bool
}

// EmptyBox returns the canonical empty box.
func EmptyBox() Box {
	return Box{empty: true}
}

// NewBox builds a normalized box from two corner points, swapping
// coordinates as needed so Left<=Right and Bottom<=Top.
func NewBox(p1, p2 Point) Box {
	b := Box{Left: p1.X, Right: p2.X, Bottom: p1.Y, Top: p2.Y}
	if b.Left > b.Right {
		b.Left, b.Right = b.Right, b.Left
	}
	if b.Bottom > b.Top {
		b.Bottom, b.Top = b.Top, b.Bottom
	}
	return b
}

// IsEmpty reports whether the box carries no geometry.
func (b Box) IsEmpty() bool {
	return b.empty
}

// Width returns Right-Left, or 0 for an empty box.
func (b Box) Width() int64 {
	if b.empty {
		return 0
	}
	return b.Right - b.Left
}

// Height returns Top-Bottom, or 0 for an empty box.
func (b Box) Height() int64 {
	if b.empty {
		return 0
	}
	return b.Top - b.Bottom
}

// Area returns the box's area, 0 for an empty or degenerate box.
func (b Box) Area() int64 {
	if b.empty {
		return 0
	}
	return b.Width() * b.Height()
}

// Touches reports whether a and b share at least one point, using
// closed half-planes: shared edges and shared corners count as
// touching. An empty box never touches anything.
func (a Box) Touches(b Box) bool {
	if a.empty || b.empty {
		return false
	}
	if a.Right < b.Left || b.Right < a.Left {
		return false
	}
	if a.Top < b.Bottom || b.Top < a.Bottom {
		return false
	}
	return true
}

// Contains reports whether p lies on or inside the box.
func (b Box) Contains(p Point) bool {
	if b.empty {
		return false
	}
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Bottom && p.Y <= b.Top
}

// Union returns the smallest box covering a and b.
func (a Box) Union(b Box) Box {
	if a.empty {
		return b
	}
	if b.empty {
		return a
	}
	return Box{
		Left:   min64(a.Left, b.Left),
		Bottom: min64(a.Bottom, b.Bottom),
		Right:  max64(a.Right, b.Right),
		Top:    max64(a.Top, b.Top),
	}
}

// Enlarge grows the box by d on every side. d may be negative to
// shrink; a shrink that crosses the box empties it.
func (b Box) Enlarge(d int64) Box {
	if b.empty {
		return b
	}
	nb := Box{Left: b.Left - d, Bottom: b.Bottom - d, Right: b.Right + d, Top: b.Top + d}
	if nb.Left > nb.Right || nb.Bottom > nb.Top {
		return EmptyBox()
	}
	return nb
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
