package materialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torc-lang/torc/graphir"
	"github.com/torc-lang/torc/ttype"
)

func TestBuildSchedule_LevelsRespectDependencies(t *testing.T) {
	i32 := ttype.Integer(32, true)
	a := mustNode(t, graphir.KindLiteral, graphir.WithSignature(nil, []ttype.Type{i32}), graphir.WithLiteral("1"))
	b := mustNode(t, graphir.KindLiteral, graphir.WithSignature(nil, []ttype.Type{i32}), graphir.WithLiteral("2"))
	add := mustNode(t, graphir.KindAdd, graphir.WithSignature([]ttype.Type{i32, i32}, []ttype.Type{i32}))

	g := graphir.New()
	for _, n := range []*graphir.Node{a, b, add} {
		require.NoError(t, g.AddNode(n))
	}
	nodes := map[uint8]*graphir.Node{1: a, 2: b, 3: add}
	require.NoError(t, g.AddEdge(mustEdge(t, 1, 0, 3, 0, nodes)))
	require.NoError(t, g.AddEdge(mustEdge(t, 2, 0, 3, 1, nodes)))

	schedule, err := BuildSchedule(g)
	require.NoError(t, err)
	require.Len(t, schedule.Levels, 2)
	assert.ElementsMatch(t, []*graphir.Node{a, b}, schedule.Levels[0])
	assert.Equal(t, []*graphir.Node{add}, schedule.Levels[1])

	flat := schedule.Flat()
	require.Len(t, flat, 3)
	assert.Equal(t, add, flat[2])
}

func TestBuildSchedule_PropagatesCycleError(t *testing.T) {
	i32 := ttype.Integer(32, true)
	n1 := mustNode(t, graphir.KindAdd, graphir.WithSignature([]ttype.Type{i32}, []ttype.Type{i32}))
	n2 := mustNode(t, graphir.KindAdd, graphir.WithSignature([]ttype.Type{i32}, []ttype.Type{i32}))

	g := graphir.New()
	require.NoError(t, g.AddNode(n1))
	require.NoError(t, g.AddNode(n2))
	nodes := map[uint8]*graphir.Node{1: n1, 2: n2}
	require.NoError(t, g.AddEdge(mustEdge(t, 1, 0, 2, 0, nodes)))
	require.NoError(t, g.AddEdge(mustEdge(t, 2, 0, 1, 0, nodes)))

	_, err := BuildSchedule(g)
	assert.Error(t, err)
}
