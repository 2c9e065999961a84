package trcformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torc-lang/torc/decision"
)

func testDecisionGraph(t *testing.T) *decision.Graph {
	t.Helper()
	g := decision.NewGraph()

	allocator := decision.New("choose allocator", "memory", 1)
	g.Add(allocator)
	require.NoError(t, g.Transition(allocator.ID(), decision.Tentative, "leaning toward a slab allocator"))

	scheduler := decision.New("choose scheduler policy", "concurrency", 2, allocator.ID())
	g.Add(scheduler)
	require.NoError(t, g.Transition(scheduler.ID(), decision.Deferred, "blocked on allocator choice"))

	return g
}

func TestSerializeDeserializeDecisions_RoundTrip(t *testing.T) {
	g := testDecisionGraph(t)

	data, err := SerializeDecisions(g)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(data), MinFileSize)

	got, err := DeserializeDecisions(data)
	require.NoError(t, err)

	assert.Len(t, got.All(), len(g.All()))
	for _, d := range g.All() {
		restored, ok := got.Get(d.ID())
		require.True(t, ok)
		assert.Equal(t, d.Title(), restored.Title())
		assert.Equal(t, d.Domain(), restored.Domain())
		assert.Equal(t, d.State(), restored.State())
		assert.Equal(t, d.DependsOn(), restored.DependsOn())
	}
	// Timestamps round-trip through RFC3339 text, which drops sub-second
	// precision; compare at that granularity rather than exact equality.
	original := g.History()
	restored := got.History()
	require.Len(t, restored, len(original))
	for i := range original {
		assert.Equal(t, original[i].Sequence, restored[i].Sequence)
		assert.Equal(t, original[i].DecisionID, restored[i].DecisionID)
		assert.Equal(t, original[i].From, restored[i].From)
		assert.Equal(t, original[i].To, restored[i].To)
		assert.Equal(t, original[i].Rationale, restored[i].Rationale)
		assert.Equal(t, original[i].ISO8601(), restored[i].ISO8601())
	}
}

func TestDeserializeDecisions_ResumesSequenceNumbering(t *testing.T) {
	g := testDecisionGraph(t)
	data, err := SerializeDecisions(g)
	require.NoError(t, err)

	got, err := DeserializeDecisions(data)
	require.NoError(t, err)

	d := decision.New("choose IPC transport", "concurrency", 3)
	got.Add(d)
	require.NoError(t, got.Transition(d.ID(), decision.Exploring, "surveying options"))

	newest := got.HistoryFor(d.ID())
	require.Len(t, newest, 1)
	for _, old := range g.History() {
		assert.Less(t, old.Sequence, newest[0].Sequence)
	}
}

func TestSerializeDecisions_SetsConflictFlag(t *testing.T) {
	g := decision.NewGraph()
	d := decision.New("choose allocator", "memory", 1)
	g.Add(d)
	require.NoError(t, g.Transition(d.ID(), decision.Tentative, "initial exploration"))
	require.NoError(t, g.Transition(d.ID(), decision.Conflicted, "two incompatible choices surfaced"))

	data, err := SerializeDecisions(g)
	require.NoError(t, err)

	h := decodeHeader(data[:HeaderSize])
	assert.NotZero(t, h.Flags&FlagHasProofs)
}

func TestDeserializeDecisions_RejectsDecisionMagicMismatch(t *testing.T) {
	g := testDecisionGraph(t)
	data, err := SerializeDecisions(g)
	require.NoError(t, err)

	_, err = Deserialize(data)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestDeserializeDecisions_EmptyGraphRoundTrips(t *testing.T) {
	data, err := SerializeDecisions(decision.NewGraph())
	require.NoError(t, err)

	got, err := DeserializeDecisions(data)
	require.NoError(t, err)
	assert.Empty(t, got.All())
	assert.Empty(t, got.History())
}
