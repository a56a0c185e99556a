// Package layoutmodel defines the Layout/Cell/Instance contract the
// clustering engine consumes (spec.md section 6). Layout/cell/shape
// storage itself is explicitly out of scope for the engine
// (spec.md section 1): this package names only the interfaces a real
// layout database must satisfy, plus (for tests and examples only) an
// in-memory reference implementation, MemLayout.
package layoutmodel

import "github.com/klayout-go/netex/geom"

// Layout is the read-only hierarchical cell database the engine walks.
// It is read-only for the duration of a single build (spec.md
// section 5).
type Layout interface {
	// CellCount returns the number of cells in the layout.
	CellCount() int
	// Cell returns the cell at the given index. index must satisfy
	// 0 <= index < CellCount().
	Cell(index int) Cell
	// BottomUpOrder returns every cell index once, in an order that is
	// a valid topological sort of the cell instantiation DAG: a cell
	// never precedes any cell it instantiates.
	BottomUpOrder() []int
	// CellName returns a human-readable name for index, used only to
	// annotate error messages (spec.md section 7).
	CellName(index int) string
}

// Cell is one reusable layout container: shapes per layer, plus child
// instances placing other cells inside it.
type Cell interface {
	// Index returns this cell's stable cell index.
	Index() int
	// BBox returns the bounding box of every shape on layer, empty if
	// the cell has none.
	BBox(layer int) geom.Box
	// ShapesOn returns every shape the cell carries on layer. Order is
	// not contractually meaningful but must be stable across repeated
	// calls within one build, since cluster-id allocation order
	// (spec.md section 5) depends on shape enumeration order.
	ShapesOn(layer int) []geom.Shape
	// Children returns every child instance this cell places, in a
	// stable insertion order.
	Children() []Instance
	// TouchingChildren returns every child instance whose overall
	// bounding box (across every array element) touches box.
	TouchingChildren(box geom.Box) []Instance
	// Parents returns every placement, in any other cell, that
	// instantiates this cell.
	Parents() []ParentPlacement
}

// ParentPlacement names one placement of a cell inside some parent:
// the parent cell's index and the Instance object (living in the
// parent) that performs the placement.
type ParentPlacement struct {
	ParentCellIndex int
	Inst            Instance
}

// Instance is a placement of a child cell inside a parent cell, with a
// transform and optional regular-array replication.
type Instance interface {
	// ChildCellIndex returns the index of the cell this instance places.
	ChildCellIndex() int
	// ComplexTrans returns the transform, in the parent cell's frame,
	// of the array element named by iterationIndex. For a non-array
	// instance, iterationIndex must be 0.
	ComplexTrans(iterationIndex int) geom.Transform
	// IsIteratedArray reports whether this instance is a regular array
	// with more than one element.
	IsIteratedArray() bool
	// Size returns the number of array elements (1 for a simple,
	// non-array placement).
	Size() int
	// PropertyID returns the property id attached to this instance
	// placement, 0 if none.
	PropertyID() int
	// BBox returns the bounding box covering every element of the
	// instance, in the parent cell's frame.
	BBox() geom.Box
	// TouchingElements returns the iteration indices of every array
	// element whose placed bounding box touches box, in the parent
	// cell's frame. For a non-array instance this is either []int{0}
	// or nil.
	TouchingElements(box geom.Box) []int
}
