package hiertree

import (
	"testing"

	"github.com/klayout-go/netex/cluster"
	"github.com/klayout-go/netex/geom"
	"github.com/klayout-go/netex/layoutmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncomingIndexFindsParentConnection(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	child := ly.AddCell("CHILD")
	top := ly.AddCell("TOP")
	trans := geom.Identity()
	trans.Disp = geom.Point{X: 100, Y: 0}
	top.AddInstance(child, trans, 7)
	ly.Finalize()

	tree := New()
	childCC := cluster.New(child.Index())
	childLC := childCC.Insert()
	tree.Set(childCC)

	topCC := cluster.New(top.Index())
	topLC := topCC.Insert()
	topCC.AddConnection(topLC.ID(), cluster.ClusterInstance{
		ClusterID: childLC.ID(),
		ChildCell: child.Index(),
		Trans:     trans,
		PropID:    7,
	})
	tree.Set(topCC)

	idx := NewIncomingIndex(tree, ly)
	incoming := idx.Lookup(child.Index(), childLC.ID())
	require.Len(t, incoming, 1)
	assert.Equal(t, top.Index(), incoming[0].ParentCell)
	assert.Equal(t, topLC.ID(), incoming[0].ParentClusterID)
}

func TestIncomingIndexCachesResult(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	child := ly.AddCell("CHILD")
	ly.Finalize()

	tree := New()
	tree.Set(cluster.New(child.Index()))

	idx := NewIncomingIndex(tree, ly)
	first := idx.Lookup(child.Index(), 1)
	second := idx.Lookup(child.Index(), 1)
	assert.Empty(t, first)
	assert.Empty(t, second)
}

func TestIncomingIndexNoParentsReturnsEmpty(t *testing.T) {
	ly := layoutmodel.NewMemLayout()
	top := ly.AddCell("TOP")
	ly.Finalize()

	tree := New()
	tree.Set(cluster.New(top.Index()))

	idx := NewIncomingIndex(tree, ly)
	assert.Empty(t, idx.Lookup(top.Index(), 1))
}
