package graphir

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphBuilder_BeginEndRegionCapturesChildren(t *testing.T) {
	b := NewGraphBuilder(New())

	b.BeginRegion(RegionSequential)
	n1 := mustNode(t, KindAdd)
	n2 := mustNode(t, KindSub)
	require.NoError(t, b.AddNode(n1))
	require.NoError(t, b.AddNode(n2))
	regionID, err := b.EndRegion()
	require.NoError(t, err)

	region, ok := b.Graph().Region(regionID)
	require.True(t, ok)
	assert.ElementsMatch(t, []uuid.UUID{n1.ID, n2.ID}, region.Children)
	assert.Nil(t, region.ParentID)
}

func TestGraphBuilder_NestedRegionsEstablishParent(t *testing.T) {
	b := NewGraphBuilder(New())

	b.BeginRegion(RegionSequential)
	outer := mustNode(t, KindAdd)
	require.NoError(t, b.AddNode(outer))

	b.BeginRegion(RegionParallel)
	inner := mustNode(t, KindSub)
	require.NoError(t, b.AddNode(inner))
	innerID, err := b.EndRegion()
	require.NoError(t, err)

	outerID, err := b.EndRegion()
	require.NoError(t, err)

	innerRegion, ok := b.Graph().Region(innerID)
	require.True(t, ok)
	require.NotNil(t, innerRegion.ParentID)
	assert.Equal(t, outerID, *innerRegion.ParentID)

	outerRegion, ok := b.Graph().Region(outerID)
	require.True(t, ok)
	assert.Nil(t, outerRegion.ParentID)
}

func TestGraphBuilder_EndRegionWithoutBeginFails(t *testing.T) {
	b := NewGraphBuilder(New())
	_, err := b.EndRegion()
	assert.ErrorIs(t, err, ErrNoOpenRegion)
}

func TestGraphBuilder_DepthTracksNesting(t *testing.T) {
	b := NewGraphBuilder(New())
	assert.Equal(t, 0, b.Depth())

	b.BeginRegion(RegionSequential)
	assert.Equal(t, 1, b.Depth())

	b.BeginRegion(RegionAtomic)
	assert.Equal(t, 2, b.Depth())

	_, err := b.EndRegion()
	require.NoError(t, err)
	assert.Equal(t, 1, b.Depth())
}

func TestGraphBuilder_AddNodeOutsideRegionNotCaptured(t *testing.T) {
	b := NewGraphBuilder(New())
	n := mustNode(t, KindAdd)
	require.NoError(t, b.AddNode(n))

	b.BeginRegion(RegionSequential)
	regionID, err := b.EndRegion()
	require.NoError(t, err)

	region, ok := b.Graph().Region(regionID)
	require.True(t, ok)
	assert.Empty(t, region.Children)
}
