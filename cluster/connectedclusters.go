package cluster

// ConnectedClusters is one cell's local-cluster set, extended with the
// outbound map to child-cell cluster instances and its reverse index
// (spec.md section 3, "Connected clusters"). Cluster ids are 1-based
// array indices into an append-only arena: "removing" a cluster clears
// its contents in place but never reassigns or compacts ids, so
// outbound connections recorded elsewhere remain valid (spec.md
// section 9, "Cluster storage").
type ConnectedClusters struct {
	cellIndex int
	arena     []*LocalCluster
	outbound  map[int][]ClusterInstance
	reverse   map[ClusterInstance]int
	isRoot    map[int]bool
	// softLinks records directed same-cell "soft connect" annotations:
	// from -> set of to, meaning a shape in cluster from interacted with
	// a shape in cluster to through a declared soft (rectifying) layer
	// pair, but the two were deliberately left as separate clusters
	// rather than unioned (spec.md section 9).
	softLinks map[int]map[int]struct{}
}

// New returns an empty ConnectedClusters for the given cell index.
func New(cellIndex int) *ConnectedClusters {
	return &ConnectedClusters{
		cellIndex: cellIndex,
		outbound:  make(map[int][]ClusterInstance),
		reverse:   make(map[ClusterInstance]int),
		isRoot:    make(map[int]bool),
		softLinks: make(map[int]map[int]struct{}),
	}
}

// CellIndex returns the cell this cluster set belongs to.
func (cc *ConnectedClusters) CellIndex() int { return cc.cellIndex }

// Insert allocates a new, empty local cluster and returns it. Cluster
// ids are allocated in the order Insert is called (spec.md section 5).
func (cc *ConnectedClusters) Insert() *LocalCluster {
	id := len(cc.arena) + 1
	lc := newLocalCluster(id)
	cc.arena = append(cc.arena, lc)
	cc.isRoot[id] = true
	return lc
}

// ClusterByID returns the cluster with the given id, or nil if id is
// out of range (0 or beyond the current arena size).
func (cc *ConnectedClusters) ClusterByID(id int) *LocalCluster {
	if id < 1 || id > len(cc.arena) {
		return nil
	}
	return cc.arena[id-1]
}

// MaxID returns the highest allocated cluster id, 0 if none.
func (cc *ConnectedClusters) MaxID() int {
	return len(cc.arena)
}

// AllClusterIDs returns every allocated id, 1..MaxID(), including
// empty placeholders left by RemoveCluster (spec.md section 8,
// "cluster ids within one cell are dense").
func (cc *ConnectedClusters) AllClusterIDs() []int {
	out := make([]int, len(cc.arena))
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// AddConnection records that local cluster id is electrically
// continuous with ci, updating both the outbound map and its reverse
// index.
func (cc *ConnectedClusters) AddConnection(id int, ci ClusterInstance) {
	cc.outbound[id] = append(cc.outbound[id], ci)
	cc.reverse[ci] = id
}

// Connections returns every outbound cluster-instance reference
// recorded for id.
func (cc *ConnectedClusters) Connections(id int) []ClusterInstance {
	return cc.outbound[id]
}

// ReverseLookup returns the local cluster id ci is recorded against,
// if any (spec.md section 3, "reverse map ... for O(1) lookup").
func (cc *ConnectedClusters) ReverseLookup(ci ClusterInstance) (int, bool) {
	id, ok := cc.reverse[ci]
	return id, ok
}

// AddSoftLink records a directed soft-connect annotation from cluster
// from to cluster to (spec.md section 9): the two clusters interacted
// through a declared soft layer pair but were kept separate. A self
// link is never recorded, since a cluster cannot be soft-connected to
// itself.
func (cc *ConnectedClusters) AddSoftLink(from, to int) {
	if from == to {
		return
	}
	if cc.softLinks[from] == nil {
		cc.softLinks[from] = make(map[int]struct{})
	}
	cc.softLinks[from][to] = struct{}{}
}

// SoftLinks returns every cluster id from is soft-connected to, in
// unspecified order.
func (cc *ConnectedClusters) SoftLinks(from int) []int {
	set := cc.softLinks[from]
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// IsRoot reports whether cluster id has never been promoted to a
// parent cell (spec.md section 3's is_root predicate).
func (cc *ConnectedClusters) IsRoot(id int) bool {
	return cc.isRoot[id]
}

// SetRoot sets the root flag for id explicitly, used by upward
// promotion to mark a child cluster non-root the first time it gains
// a parent representative.
func (cc *ConnectedClusters) SetRoot(id int, root bool) {
	cc.isRoot[id] = root
}

// RemoveCluster empties cluster id's contents and outbound
// connections in place, keeping its slot (and therefore every other
// cell's existing references to it) valid. Reverse-map entries that
// pointed at id are dropped since id no longer stands for anything.
func (cc *ConnectedClusters) RemoveCluster(id int) {
	lc := cc.ClusterByID(id)
	if lc == nil {
		return
	}
	lc.clear()
	for _, ci := range cc.outbound[id] {
		delete(cc.reverse, ci)
	}
	delete(cc.outbound, id)
	delete(cc.softLinks, id)
	for _, tos := range cc.softLinks {
		delete(tos, id)
	}
}

// JoinClusterWith merges the contents and outbound connections of
// absorb into keep, then removes absorb (spec.md section 4.4,
// connect_clusters' weighted-union merge, and section 4.2 step 5's
// attribute-equivalence merge). keep and absorb must be distinct,
// non-zero ids; joining a cluster with itself is a contract violation
// the caller must never attempt.
func (cc *ConnectedClusters) JoinClusterWith(keep, absorb int) int {
	if keep == absorb {
		panic("cluster: JoinClusterWith called with identical ids")
	}
	keepLC := cc.ClusterByID(keep)
	absorbLC := cc.ClusterByID(absorb)
	if keepLC == nil || absorbLC == nil {
		panic("cluster: JoinClusterWith referenced an unknown cluster id")
	}
	keepLC.absorb(absorbLC)
	for _, ci := range cc.outbound[absorb] {
		cc.outbound[keep] = append(cc.outbound[keep], ci)
		cc.reverse[ci] = keep
	}
	delete(cc.outbound, absorb)

	// Reattach absorb's soft-connect annotations onto keep, remapping
	// any link that pointed at absorb so it now points at keep; a link
	// that would become a self-loop is simply dropped.
	for to := range cc.softLinks[absorb] {
		if to != keep {
			cc.AddSoftLink(keep, to)
		}
	}
	delete(cc.softLinks, absorb)
	for from, tos := range cc.softLinks {
		if _, ok := tos[absorb]; ok {
			delete(tos, absorb)
			if from != keep {
				tos[keep] = struct{}{}
			}
		}
	}

	absorbLC.clear()
	return keep
}

// OutboundWeight returns the number of outbound connections recorded
// for id, used to decide which side of a merge is "larger" under the
// weighted-union rule of spec.md section 4.4.
func (cc *ConnectedClusters) OutboundWeight(id int) int {
	return len(cc.outbound[id])
}
