// Package shaperepo interns polygon hulls so that identical shapes
// share one heap-allocated representation, the way dbShapeRepository.h
// deduplicates polygon point sequences across a layout. The engine
// consumes it as an opaque service (spec.md section 1): callers feed
// it raw point sequences and get back a shared *geom.Polygon.
package shaperepo

import (
	"strconv"
	"strings"

	"github.com/klayout-go/netex/geom"
)

// Repo interns polygons by the exact sequence of their points. Two
// calls to Intern with equal point sequences return the same
// *geom.Polygon pointer.
type Repo struct {
	byKey map[string]*geom.Polygon
}

// New returns an empty repository.
func New() *Repo {
	return &Repo{byKey: make(map[string]*geom.Polygon)}
}

// Intern returns a shared polygon for the given point sequence,
// allocating a new one only the first time that sequence is seen. The
// caller must not mutate the returned polygon's Points slice.
func (r *Repo) Intern(points []geom.Point) *geom.Polygon {
	key := hullKey(points)
	if p, ok := r.byKey[key]; ok {
		return p
	}
	owned := make([]geom.Point, len(points))
	copy(owned, points)
	p := &geom.Polygon{Points: owned}
	r.byKey[key] = p
	return p
}

// Len reports how many distinct hulls have been interned.
func (r *Repo) Len() int {
	return len(r.byKey)
}

// Clear drops every interned polygon, matching the hierarchical
// builder's clear-before-build lifecycle (spec.md section 3).
func (r *Repo) Clear() {
	r.byKey = make(map[string]*geom.Polygon)
}

// hullKey builds a deterministic string key from an exact point
// sequence. A textual key (rather than a numeric hash) avoids
// collision handling entirely, at the cost of an allocation per
// lookup; layouts intern orders of magnitude fewer distinct hulls
// than they have shape instances, so this is not on the hot path.
func hullKey(points []geom.Point) string {
	var b strings.Builder
	for _, p := range points {
		b.WriteString(strconv.FormatInt(p.X, 36))
		b.WriteByte(',')
		b.WriteString(strconv.FormatInt(p.Y, 36))
		b.WriteByte(';')
	}
	return b.String()
}
