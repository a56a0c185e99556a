// Package geom provides the integer planar geometry primitives the
// clustering engine needs: points, boxes, complex transforms, polygons,
// edges and text anchors, and the interaction predicates that decide
// whether two shapes touch or overlap.
//
// All coordinates are int64. There is no floating point anywhere in
// this package: layout databases are defined on an integer grid and
// the engine's correctness depends on exact, reproducible comparisons.
package geom
