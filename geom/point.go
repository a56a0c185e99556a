package geom

// Point is an integer point in the layout plane.
type Point struct {
	X, Y int64
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Equal reports whether p and q name the same point.
func (p Point) Equal(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}
