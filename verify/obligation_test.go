package verify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torc-lang/torc/contract"
	"github.com/torc-lang/torc/graphir"
	"github.com/torc-lang/torc/ttype"
)

func mustNode(t *testing.T, n *graphir.NodeBuilder) *graphir.Node {
	t.Helper()
	node, err := n.Build()
	require.NoError(t, err)
	return node
}

func TestCollect_LiteralFeedingRefinement(t *testing.T) {
	g := graphir.New()

	five := mustNode(t, graphir.NewNode(graphir.KindLiteral,
		graphir.WithLiteral("5"),
		graphir.WithSignature(nil, []ttype.Type{ttype.Integer(32, true)})))
	require.NoError(t, g.AddNode(five))

	positive := ttype.Refinement(ttype.Integer(32, true), ttype.Compare(ttype.OpGt, ttype.Var("value"), ttype.IntLit(0)))
	sink := mustNode(t, graphir.NewNode(graphir.KindAdd,
		graphir.WithSignature([]ttype.Type{positive, ttype.Integer(32, true)}, []ttype.Type{ttype.Integer(32, true)})))
	require.NoError(t, g.AddNode(sink))

	edge, err := graphir.NewEdge(five.ID, 0, sink.ID, 0).Build()
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(edge))

	obligations, structuralErrs := Collect(g)
	assert.Empty(t, structuralErrs)
	require.NotEmpty(t, obligations)

	var refinementOb *Obligation
	for _, ob := range obligations {
		if ob.Kind == ttype.ObligationTypeRefinement {
			refinementOb = ob
		}
	}
	require.NotNil(t, refinementOb)
	assert.Equal(t, float64(5), refinementOb.Env["value"])
}

func TestCollect_AssignsStableSequentialIDs(t *testing.T) {
	g := graphir.New()
	n1 := mustNode(t, graphir.NewNode(graphir.KindIterate))
	n2 := mustNode(t, graphir.NewNode(graphir.KindIterate))
	require.NoError(t, g.AddNode(n1))
	require.NoError(t, g.AddNode(n2))

	obligations, _ := Collect(g)
	require.Len(t, obligations, 2)
	seen := map[int]bool{}
	for i, ob := range obligations {
		assert.Equal(t, i+1, ob.ID)
		assert.False(t, seen[ob.ID], "duplicate obligation id %d", ob.ID)
		seen[ob.ID] = true
	}
}

func TestCollect_TerminationObligationForIterate(t *testing.T) {
	g := graphir.New()
	n := mustNode(t, graphir.NewNode(graphir.KindIterate))
	require.NoError(t, g.AddNode(n))

	obligations, _ := Collect(g)
	found := false
	for _, ob := range obligations {
		if ob.Kind == ttype.ObligationTermination && ob.NodeID == n.ID.String() {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCollect_ContractPreAndPostconditions(t *testing.T) {
	g := graphir.New()
	c := &contract.Contract{
		Preconditions:  []ttype.Predicate{ttype.Compare(ttype.OpGe, ttype.Var("x"), ttype.IntLit(0))},
		Postconditions: []ttype.Predicate{ttype.Compare(ttype.OpGt, ttype.Var("result"), ttype.IntLit(0))},
	}
	n := mustNode(t, graphir.NewNode(graphir.KindAdd, graphir.WithContract(c)))
	require.NoError(t, g.AddNode(n))

	obligations, _ := Collect(g)
	var kinds []ttype.ObligationKind
	for _, ob := range obligations {
		kinds = append(kinds, ob.Kind)
	}
	assert.Contains(t, kinds, ttype.ObligationPrecondition)
	assert.Contains(t, kinds, ttype.ObligationPostcondition)
}

func TestParseLiteralNumber(t *testing.T) {
	tests := []struct {
		repr string
		want float64
		ok   bool
	}{
		{"5", 5, true},
		{"-3", -3, true},
		{"0x1A", 26, true},
		{"0b101", 5, true},
		{"0o17", 15, true},
		{"true", 1, true},
		{"false", 0, true},
		{"not-a-number", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseLiteralNumber(tt.repr)
		assert.Equal(t, tt.ok, ok, tt.repr)
		if ok {
			assert.Equal(t, tt.want, got, tt.repr)
		}
	}
}

func TestSortBy_SortsByUUIDString(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	items := []uuid.UUID{c, a, b}
	sortBy(items, func(id uuid.UUID) uuid.UUID { return id })

	assert.True(t, items[0].String() <= items[1].String())
	assert.True(t, items[1].String() <= items[2].String())
}
