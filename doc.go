// Package netex is the module root for github.com/klayout-go/netex, a
// hierarchical net-extraction clustering engine for IC layout databases.
//
// The engine partitions the shapes of a hierarchical, cell-based layout
// into electrical nets without flattening the hierarchy: it clusters
// each cell locally, then propagates cluster identity up through the
// instantiation tree, caching repeated sub-hierarchy interactions so
// that reused cells are processed once.
//
// There is no importable code at this path; the engine is organized
// into focused subpackages:
//
//	geom/        — polygon/edge/text geometry and the interaction predicate
//	shaperepo/   — shape interning
//	connectivity/— layer conductivity and global-net rules
//	layoutmodel/ — the Layout/Cell/Instance/Shape contract the engine consumes
//	dsu/         — weighted-union disjoint-set-union
//	boxscan/     — sweep-line box-pair scanner
//	cluster/     — LocalCluster, ConnectedClusters, ClusterInstance
//	hiertree/    — the per-cell hierarchical cluster tree
//	localbuild/  — the local (intra-cell) clustering pass
//	hierbuild/   — the bottom-up hierarchical pass, caches, and builder
//	iterate/     — recursive cluster iteration and return-to-hierarchy
package netex
