// Package dsu provides a disjoint-set-union (union-find) over a dense
// integer id space, adapted from the inline union-find closures in
// prim_kruskal.Kruskal: path compression plus union by size, promoted
// to a reusable type since both the local clustering builder (spec.md
// section 4.2) and its attribute-equivalence merge pass need one.
package dsu

// DSU is a disjoint-set-union over the dense id space [0, n).
type DSU struct {
	parent []int
	size   []int
}

// New returns a DSU with n singleton sets {0}, {1}, ..., {n-1}.
func New(n int) *DSU {
	d := &DSU{parent: make([]int, n), size: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
		d.size[i] = 1
	}
	return d
}

// Find returns the representative of x's set, compressing the path
// traversed (path halving: every visited node is repointed at its
// grandparent, which is cheap to do iteratively and keeps amortized
// cost near-constant without the extra pass a full compression needs).
func (d *DSU) Find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

// Union merges the sets containing a and b, attaching the smaller set
// under the larger set's root (weighted union), matching spec.md
// section 4.2 step 2's "always merge the smaller list into the larger"
// to keep the amortized cost near-linear. It returns the resulting
// root, or the common root unchanged if a and b were already joined.
func (d *DSU) Union(a, b int) int {
	ra, rb := d.Find(a), d.Find(b)
	if ra == rb {
		return ra
	}
	if d.size[ra] < d.size[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	d.size[ra] += d.size[rb]
	return ra
}

// Connected reports whether a and b are in the same set.
func (d *DSU) Connected(a, b int) bool {
	return d.Find(a) == d.Find(b)
}

// Size returns the size of x's set.
func (d *DSU) Size(x int) int {
	return d.size[d.Find(x)]
}

// Groups returns every set as a slice of member ids, keyed by each
// set's representative id. Iterating the result in a stable order
// requires sorting the returned map's keys; Groups itself makes no
// ordering guarantee since the representative chosen by weighted
// union depends on union call order, not on id order.
func (d *DSU) Groups() map[int][]int {
	out := make(map[int][]int)
	for i := range d.parent {
		r := d.Find(i)
		out[r] = append(out[r], i)
	}
	return out
}
