package layoutmodel

import (
	"fmt"

	"github.com/klayout-go/netex/geom"
)

// MemLayout is a small in-memory Layout used by tests and examples,
// the Go equivalent of the throwaway db::Layout fixtures
// dbHierNetworkProcessorTests.cc builds by hand. The engine itself
// never imports this type; it only ever sees the Layout interface.
type MemLayout struct {
	cells []*MemCell
	names []string
}

// NewMemLayout returns an empty layout.
func NewMemLayout() *MemLayout {
	return &MemLayout{}
}

// AddCell appends a new, empty cell and returns it. The returned
// cell's Index() is its position in creation order.
func (l *MemLayout) AddCell(name string) *MemCell {
	c := &MemCell{index: len(l.cells), layout: l}
	l.cells = append(l.cells, c)
	l.names = append(l.names, name)
	return c
}

func (l *MemLayout) CellCount() int { return len(l.cells) }

func (l *MemLayout) Cell(index int) Cell { return l.cells[index] }

func (l *MemLayout) CellName(index int) string {
	if index < 0 || index >= len(l.names) {
		return fmt.Sprintf("<cell#%d>", index)
	}
	return l.names[index]
}

// BottomUpOrder computes a topological order of the cell DAG via
// iterative post-order DFS, so that every cell precedes none of its
// own children in the result... i.e. every child appears before any
// of its parents, which is what "bottom-up" means for this engine
// (spec.md section 3's "global bottom-up cell order").
func (l *MemLayout) BottomUpOrder() []int {
	visited := make([]bool, len(l.cells))
	order := make([]int, 0, len(l.cells))
	var visit func(idx int)
	visit = func(idx int) {
		if visited[idx] {
			return
		}
		visited[idx] = true
		for _, inst := range l.cells[idx].children {
			visit(inst.childIndex)
		}
		order = append(order, idx)
	}
	for i := range l.cells {
		visit(i)
	}
	return order
}

// Finalize builds the reverse parent index. Call it once after every
// cell and instance has been added and before the layout is handed to
// the builder.
func (l *MemLayout) Finalize() {
	for _, c := range l.cells {
		c.parents = nil
	}
	for _, parent := range l.cells {
		for _, inst := range parent.children {
			child := l.cells[inst.childIndex]
			child.parents = append(child.parents, ParentPlacement{ParentCellIndex: parent.index, Inst: inst})
		}
	}
}

// MemCell is the in-memory Cell implementation.
type MemCell struct {
	index    int
	layout   *MemLayout
	shapes   map[int][]geom.Shape
	children []*MemInstance
	parents  []ParentPlacement
}

func (c *MemCell) Index() int { return c.index }

// AddShape places a shape on its own layer (geom.Shape.Layer()).
func (c *MemCell) AddShape(s geom.Shape) {
	if c.shapes == nil {
		c.shapes = make(map[int][]geom.Shape)
	}
	c.shapes[s.Layer()] = append(c.shapes[s.Layer()], s)
}

func (c *MemCell) BBox(layer int) geom.Box {
	box := geom.EmptyBox()
	for _, s := range c.shapes[layer] {
		box = box.Union(s.BBox())
	}
	return box
}

func (c *MemCell) ShapesOn(layer int) []geom.Shape {
	return c.shapes[layer]
}

// AddInstance places inst as a simple (non-array) child instance of
// childCell at the given transform.
func (c *MemCell) AddInstance(childCell *MemCell, trans geom.Transform, propID int) *MemInstance {
	inst := &MemInstance{layout: c.layout, childIndex: childCell.index, base: trans, rows: 1, cols: 1, propID: propID}
	c.children = append(c.children, inst)
	return inst
}

// AddArrayInstance places a regular rows x cols array of childCell,
// with base placing element (0,0) and rowStep/colStep the per-row and
// per-column displacement added to base's translation.
func (c *MemCell) AddArrayInstance(childCell *MemCell, base geom.Transform, rows, cols int, rowStep, colStep geom.Point, propID int) *MemInstance {
	inst := &MemInstance{
		layout: c.layout, childIndex: childCell.index, base: base,
		rows: rows, cols: cols, rowStep: rowStep, colStep: colStep, propID: propID,
	}
	c.children = append(c.children, inst)
	return inst
}

// ContentBBox returns the union of every shape this cell carries on
// any layer plus, transitively, the placed bounding box of every
// child instance. It is the MemLayout analogue of a real layout
// database's cached whole-cell bounding box.
func (c *MemCell) ContentBBox() geom.Box {
	box := geom.EmptyBox()
	for _, shapes := range c.shapes {
		for _, s := range shapes {
			box = box.Union(s.BBox())
		}
	}
	for _, inst := range c.children {
		box = box.Union(inst.BBox())
	}
	return box
}

func (c *MemCell) Children() []Instance {
	out := make([]Instance, len(c.children))
	for i, inst := range c.children {
		out[i] = inst
	}
	return out
}

func (c *MemCell) TouchingChildren(box geom.Box) []Instance {
	var out []Instance
	for _, inst := range c.children {
		if inst.BBox().Touches(box) {
			out = append(out, inst)
		}
	}
	return out
}

func (c *MemCell) Parents() []ParentPlacement {
	return c.parents
}

// MemInstance is the in-memory Instance implementation, supporting
// both simple placements (rows==cols==1) and regular arrays.
type MemInstance struct {
	layout           *MemLayout
	childIndex       int
	base             geom.Transform
	rows, cols       int
	rowStep, colStep geom.Point
	propID           int
}

func (i *MemInstance) ChildCellIndex() int { return i.childIndex }

func (i *MemInstance) IsIteratedArray() bool { return i.rows*i.cols > 1 }

func (i *MemInstance) Size() int { return i.rows * i.cols }

func (i *MemInstance) PropertyID() int { return i.propID }

// rowCol decomposes a flat iteration index into (row, col).
func (i *MemInstance) rowCol(iterationIndex int) (int, int) {
	return iterationIndex / i.cols, iterationIndex % i.cols
}

func (i *MemInstance) ComplexTrans(iterationIndex int) geom.Transform {
	row, col := i.rowCol(iterationIndex)
	t := i.base
	t.Disp = geom.Point{
		X: i.base.Disp.X + int64(row)*i.rowStep.X + int64(col)*i.colStep.X,
		Y: i.base.Disp.Y + int64(row)*i.rowStep.Y + int64(col)*i.colStep.Y,
	}
	return t
}

// elementBBox returns the placed bounding box, in the parent's frame,
// of array element idx: the child cell's own content box carried
// through that element's transform.
func (i *MemInstance) elementBBox(idx int) geom.Box {
	child := i.layout.cells[i.childIndex]
	return i.ComplexTrans(idx).ApplyBox(child.ContentBBox())
}

func (i *MemInstance) BBox() geom.Box {
	box := geom.EmptyBox()
	for idx := 0; idx < i.Size(); idx++ {
		box = box.Union(i.elementBBox(idx))
	}
	return box
}

func (i *MemInstance) TouchingElements(box geom.Box) []int {
	var out []int
	for idx := 0; idx < i.Size(); idx++ {
		if i.elementBBox(idx).Touches(box) {
			out = append(out, idx)
		}
	}
	return out
}
