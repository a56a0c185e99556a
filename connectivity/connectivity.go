// Package connectivity describes which layers conduct together, in
// what direction soft (rectifying) connections run, and which layers
// attach to named global nets such as substrate or well taps (spec.md
// section 3, "Connectivity").
package connectivity

import (
	"github.com/klayout-go/netex/geom"
)

// Relation is the conductivity relation between an ordered pair of
// layers (a, b).
type Relation int

const (
	// None means a and b never unify, regardless of geometry.
	None Relation = iota
	// Hard means a and b unify whenever they geometrically interact.
	// Hard is always stored symmetrically: conducts(a,b)==Hard implies
	// conducts(b,a)==Hard.
	Hard
	// Soft means a shape on a that interacts with a shape on b does not
	// cause a union; the builders record the interaction as a directed
	// a->b annotation instead (spec.md section 3 and section 9's open
	// question on soft connect). Soft is NOT implicitly symmetric:
	// conducts(b,a) may be None even when conducts(a,b) is Soft.
	Soft
)

type pairKey struct{ a, b int }

// Connectivity is the full descriptor: the set of layers the engine
// should consider, the conducts relation between every ordered pair,
// the global-net attachments per layer, and the edge-interaction mode
// used when comparing two Edge shapes.
type Connectivity struct {
	layers     map[int]struct{}
	relations  map[pairKey]Relation
	globalNets map[int][]int // layer -> attached global-net ids, insertion order
	netNames   map[string]int
	netNamesOf map[int]string
	nextNetID  int
	edgeMode   geom.EdgeInteractMode
}

// New returns an empty Connectivity using the given edge-interaction
// mode (only consulted when comparing two Edge shapes).
func New(edgeMode geom.EdgeInteractMode) *Connectivity {
	return &Connectivity{
		layers:     make(map[int]struct{}),
		relations:  make(map[pairKey]Relation),
		globalNets: make(map[int][]int),
		netNames:   make(map[string]int),
		netNamesOf: make(map[int]string),
		edgeMode:   edgeMode,
	}
}

// AddLayer registers a layer id as part of this connectivity. Layers
// never named here are never consulted by the local or hierarchical
// builders, even if a cell happens to carry shapes on them.
func (c *Connectivity) AddLayer(layer int) {
	c.layers[layer] = struct{}{}
}

// Layers returns the registered layer set. The returned slice is a
// fresh copy; callers may keep and mutate it freely.
func (c *Connectivity) Layers() []int {
	out := make([]int, 0, len(c.layers))
	for l := range c.layers {
		out = append(out, l)
	}
	return out
}

// HasLayers reports whether any layer has been registered. A
// Connectivity with zero layers produces zero clusters for any cell
// (spec.md section 8, boundary behaviors).
func (c *Connectivity) HasLayers() bool {
	return len(c.layers) > 0
}

// Connect declares a hard (symmetric) conductive relation between a
// and b. conducts(a,a) = Hard is how same-layer connect is expressed,
// and is the common case: callers should call Connect(l, l) for every
// layer that should self-connect.
func (c *Connectivity) Connect(a, b int) {
	c.relations[pairKey{a, b}] = Hard
	c.relations[pairKey{b, a}] = Hard
}

// SoftConnect declares a directed soft (rectifying) relation from a to
// b: a shape on b interacting with a shape on a causes no union, and
// callers that inspect the relation see the a->b direction preserved
// rather than silently widened to Hard (spec.md section 9). It does not
// implicitly declare the reverse direction.
func (c *Connectivity) SoftConnect(a, b int) {
	c.relations[pairKey{a, b}] = Soft
}

// Conducts returns the declared relation from a to b. The zero value,
// None, is returned for any pair never declared.
func (c *Connectivity) Conducts(a, b int) Relation {
	return c.relations[pairKey{a, b}]
}

// GlobalNetID returns the global-net id for name, allocating a new
// small integer id the first time name is seen. Ids are allocated in
// first-seen order starting at 1 (0 is reserved, matching the "none"
// sentinel cluster id convention used throughout the engine).
func (c *Connectivity) GlobalNetID(name string) int {
	if id, ok := c.netNames[name]; ok {
		return id
	}
	c.nextNetID++
	id := c.nextNetID
	c.netNames[name] = id
	c.netNamesOf[id] = name
	return id
}

// GlobalNetName returns the name registered for id, or "" if unknown.
func (c *Connectivity) GlobalNetName(id int) string {
	return c.netNamesOf[id]
}

// AttachGlobalNet declares that every shape on layer is attached to
// the named global net, returning its allocated id.
func (c *Connectivity) AttachGlobalNet(layer int, name string) int {
	id := c.GlobalNetID(name)
	for _, existing := range c.globalNets[layer] {
		if existing == id {
			return id
		}
	}
	c.globalNets[layer] = append(c.globalNets[layer], id)
	return id
}

// GlobalNetsOf returns the global-net ids attached to layer, in
// first-attached order. The returned slice must not be mutated.
func (c *Connectivity) GlobalNetsOf(layer int) []int {
	return c.globalNets[layer]
}

// EdgeMode returns the edge-interaction mode this connectivity was
// built with.
func (c *Connectivity) EdgeMode() geom.EdgeInteractMode {
	return c.edgeMode
}

// AnyInteractionPossible is the cheap structural pre-check of spec.md
// section 4.3 step B.1: it reports whether any layer pair between
// layerSetA and layerSetB could ever interact, without touching any
// shape geometry. Cells whose layer sets can never interact are
// rejected before any box-scanner work is attempted.
func (c *Connectivity) AnyInteractionPossible(layerSetA, layerSetB []int) bool {
	for _, a := range layerSetA {
		for _, b := range layerSetB {
			if c.Conducts(a, b) != None || c.Conducts(b, a) != None {
				return true
			}
		}
	}
	return false
}

// Interacts implements Connectivity::interacts from spec.md section
// 4.1: it returns true iff conducts(la,lb) != None and the geometric
// predicate holds with trans applied to b. It is cheap (a single map
// lookup) when conducts(la,lb) == None, since the geometry test is
// skipped entirely.
func (c *Connectivity) Interacts(a geom.Shape, la int, b geom.Shape, lb int, trans geom.Transform) bool {
	if c.Conducts(la, lb) == None {
		return false
	}
	return geom.Interacts(a, b, trans, c.edgeMode)
}
