package trcformat

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torc-lang/torc/contract"
	"github.com/torc-lang/torc/graphir"
	"github.com/torc-lang/torc/ttype"
)

func testGraph(t *testing.T) *graphir.Graph {
	t.Helper()
	i32 := ttype.Integer(32, true)

	a, err := graphir.NewNode(graphir.KindLiteral,
		graphir.WithSignature(nil, []ttype.Type{i32}),
		graphir.WithLiteral("2"),
		graphir.WithProvenance("test fixture"),
	).Build()
	require.NoError(t, err)

	b, err := graphir.NewNode(graphir.KindLiteral,
		graphir.WithSignature(nil, []ttype.Type{i32}),
		graphir.WithLiteral("3"),
	).Build()
	require.NoError(t, err)

	add, err := graphir.NewNode(graphir.KindAdd,
		graphir.WithSignature([]ttype.Type{i32, i32}, []ttype.Type{i32}),
		graphir.WithContract(&contract.Contract{
			DefaultRecovery: contract.RecoveryStrategy{},
			ProofStatus:     contract.StatusVerified,
			ProofWitness:    &contract.ProofWitness{SolverName: "z3", ContentHash: []byte{1, 2, 3}},
		}),
	).Build()
	require.NoError(t, err)

	g := graphir.New()
	require.NoError(t, g.AddNode(a))
	require.NoError(t, g.AddNode(b))
	require.NoError(t, g.AddNode(add))

	e1, err := graphir.NewEdge(a.ID, 0, add.ID, 0, graphir.WithDataType(i32)).Build()
	require.NoError(t, err)
	e2, err := graphir.NewEdge(b.ID, 0, add.ID, 1, graphir.WithDataType(i32)).Build()
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(e1))
	require.NoError(t, g.AddEdge(e2))

	r := graphir.NewRegion(graphir.RegionSequential, []uuid.UUID{add.ID}).Build()
	require.NoError(t, g.AddRegion(r))

	return g
}

func TestSerializeDeserialize_RoundTrip(t *testing.T) {
	g := testGraph(t)

	data, err := Serialize(g)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(data), MinFileSize)

	got, err := Deserialize(data)
	require.NoError(t, err)

	assert.Len(t, got.Nodes(), len(g.Nodes()))
	assert.Len(t, got.Edges(), len(g.Edges()))
	assert.Len(t, got.Regions(), len(g.Regions()))

	for _, n := range g.Nodes() {
		roundTripped, ok := got.Node(n.ID)
		require.True(t, ok)
		assert.Equal(t, n.Kind, roundTripped.Kind)
		assert.Equal(t, n.LiteralRepr, roundTripped.LiteralRepr)
		assert.Equal(t, n.Provenance, roundTripped.Provenance)
	}
}

func TestSerialize_SetsProvenanceAndProofFlags(t *testing.T) {
	g := testGraph(t)
	data, err := Serialize(g)
	require.NoError(t, err)

	h := decodeHeader(data[:HeaderSize])
	assert.NotZero(t, h.Flags&FlagHasProvenance)
	assert.NotZero(t, h.Flags&FlagHasProofs)
}

func TestSerialize_HeaderCountsMatchGraph(t *testing.T) {
	g := testGraph(t)
	data, err := Serialize(g)
	require.NoError(t, err)

	h := decodeHeader(data[:HeaderSize])
	assert.Equal(t, uint64(len(g.Nodes())), h.NodeCount)
	assert.Equal(t, uint64(len(g.Edges())), h.EdgeCount)
	assert.Equal(t, uint64(len(g.Regions())), h.RegionCount)
}

func TestDeserialize_EmptyGraphRoundTrips(t *testing.T) {
	data, err := Serialize(graphir.New())
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)
	assert.Empty(t, got.Nodes())
	assert.Empty(t, got.Edges())
	assert.Empty(t, got.Regions())
}

func TestSerializeDeserialize_NestedRegionsSurviveOutOfOrderIDs(t *testing.T) {
	i32 := ttype.Integer(32, true)
	lit, err := graphir.NewNode(graphir.KindLiteral,
		graphir.WithSignature(nil, []ttype.Type{i32}),
		graphir.WithLiteral("1"),
	).Build()
	require.NoError(t, err)

	g := graphir.New()
	require.NoError(t, g.AddNode(lit))

	// parentID is crafted to sort lexicographically AFTER childID, so a
	// naive ID-ordered write would try to add the child region before its
	// parent exists.
	parentID := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
	childID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	parent := graphir.NewRegion(graphir.RegionParallel, nil, graphir.WithRegionID(parentID)).Build()
	require.NoError(t, g.AddRegion(parent))

	child := graphir.NewRegion(graphir.RegionAtomic, []uuid.UUID{lit.ID},
		graphir.WithRegionID(childID), graphir.WithParentRegion(parentID)).Build()
	require.NoError(t, g.AddRegion(child))

	data, err := Serialize(g)
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)
	require.Len(t, got.Regions(), 2)

	restoredChild, ok := got.Region(childID)
	require.True(t, ok)
	require.NotNil(t, restoredChild.ParentID)
	assert.Equal(t, parentID, *restoredChild.ParentID)
}

func TestDeserialize_RejectsGraphMagicMismatch(t *testing.T) {
	g := testGraph(t)
	data, err := Serialize(g)
	require.NoError(t, err)

	_, err = DeserializeDecisions(data)
	assert.ErrorIs(t, err, ErrBadMagic)
}
