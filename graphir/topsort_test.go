package graphir

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologicalSort_LinearChain(t *testing.T) {
	g := New()
	a := mustNode(t, KindLiteral)
	b := mustNode(t, KindNot)
	c := mustNode(t, KindNot)
	require.NoError(t, g.AddNode(a))
	require.NoError(t, g.AddNode(b))
	require.NoError(t, g.AddNode(c))

	ab, _ := NewEdge(a.ID, 0, b.ID, 0).Build()
	bc, _ := NewEdge(b.ID, 0, c.ID, 0).Build()
	require.NoError(t, g.AddEdge(ab))
	require.NoError(t, g.AddEdge(bc))

	waves, err := TopologicalSort(g)
	require.NoError(t, err)
	require.Len(t, waves, 3)
	assert.Equal(t, a.ID, waves[0][0].ID)
	assert.Equal(t, b.ID, waves[1][0].ID)
	assert.Equal(t, c.ID, waves[2][0].ID)
}

func TestTopologicalSort_RejectsOrdinaryCycle(t *testing.T) {
	g := New()
	a := mustNode(t, KindNot)
	b := mustNode(t, KindNot)
	require.NoError(t, g.AddNode(a))
	require.NoError(t, g.AddNode(b))

	ab, _ := NewEdge(a.ID, 0, b.ID, 0).Build()
	ba, _ := NewEdge(b.ID, 0, a.ID, 0).Build()
	require.NoError(t, g.AddEdge(ab))
	require.NoError(t, g.AddEdge(ba))

	_, err := TopologicalSort(g)
	require.Error(t, err)
	var cycleErr *CycleError
	assert.ErrorAs(t, err, &cycleErr)
}

func TestTopologicalSort_IterateExemptedWithNoRegion(t *testing.T) {
	// No region involved at all: the exemption must come purely from
	// NodeKind.MayCloseCycle, not from any region-membership heuristic.
	g := New()
	loop := mustNode(t, KindIterate)
	body := mustNode(t, KindAdd)
	require.NoError(t, g.AddNode(loop))
	require.NoError(t, g.AddNode(body))

	fwd, _ := NewEdge(loop.ID, 0, body.ID, 0).Build()
	back, _ := NewEdge(body.ID, 0, loop.ID, 0).Build()
	require.NoError(t, g.AddEdge(fwd))
	require.NoError(t, g.AddEdge(back))

	waves, err := TopologicalSort(g)
	require.NoError(t, err)
	assert.Len(t, waves, 2)
}

func TestTopologicalSort_IterateWithForwardAndBackEdgeSortsProducerFirst(t *testing.T) {
	// A feeds the loop from outside; the loop feeds B, and B feeds back
	// into the loop, closing the cycle the loop is exempt from. A must
	// still sort before the loop node despite the stall the back-edge
	// from B would otherwise cause.
	g := New()
	a := mustNode(t, KindLiteral)
	loop := mustNode(t, KindIterate)
	b := mustNode(t, KindAdd)
	require.NoError(t, g.AddNode(a))
	require.NoError(t, g.AddNode(loop))
	require.NoError(t, g.AddNode(b))

	aToLoop, _ := NewEdge(a.ID, 0, loop.ID, 0).Build()
	loopToB, _ := NewEdge(loop.ID, 0, b.ID, 0).Build()
	bBack, _ := NewEdge(b.ID, 0, loop.ID, 1).Build()
	require.NoError(t, g.AddEdge(aToLoop))
	require.NoError(t, g.AddEdge(loopToB))
	require.NoError(t, g.AddEdge(bBack))

	waves, err := TopologicalSort(g)
	require.NoError(t, err)

	flat := Flatten(waves)
	require.Len(t, flat, 3)
	indexOf := func(id uuid.UUID) int {
		for i, n := range flat {
			if n.ID == id {
				return i
			}
		}
		return -1
	}
	assert.Less(t, indexOf(a.ID), indexOf(loop.ID))
}
