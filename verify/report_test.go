package verify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torc-lang/torc/contract"
	"github.com/torc-lang/torc/graphir"
	"github.com/torc-lang/torc/ttype"
)

func literalGraph(t *testing.T, repr string, refinementPred ttype.Predicate) *graphir.Graph {
	t.Helper()
	g := graphir.New()

	lit := mustNode(t, graphir.NewNode(graphir.KindLiteral,
		graphir.WithLiteral(repr),
		graphir.WithSignature(nil, []ttype.Type{ttype.Integer(32, true)})))
	require.NoError(t, g.AddNode(lit))

	refined := ttype.Refinement(ttype.Integer(32, true), refinementPred)
	sink := mustNode(t, graphir.NewNode(graphir.KindAdd,
		graphir.WithSignature([]ttype.Type{refined, ttype.Integer(32, true)}, []ttype.Type{ttype.Integer(32, true)})))
	require.NoError(t, g.AddNode(sink))

	edge, err := graphir.NewEdge(lit.ID, 0, sink.ID, 0).Build()
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(edge))
	return g
}

func TestEngine_Verify_ProvenByIntervalPreScreen(t *testing.T) {
	positive := ttype.Compare(ttype.OpGt, ttype.Var("value"), ttype.IntLit(0))
	g := literalGraph(t, "5", positive)

	e := NewEngine()
	report, err := e.Verify(context.Background(), g, ProfileDevelopment)
	require.NoError(t, err)

	assert.Equal(t, report.Total, report.Verified)
	assert.Zero(t, report.Failed)
	assert.True(t, report.Acceptable())
}

func TestEngine_Verify_DisprovenRefinementIsUnresolved(t *testing.T) {
	negative := ttype.Compare(ttype.OpGt, ttype.Var("value"), ttype.IntLit(0))
	g := literalGraph(t, "-5", negative)

	e := NewEngine()
	report, err := e.Verify(context.Background(), g, ProfileDevelopment)
	require.NoError(t, err)

	assert.Greater(t, report.Pending, 0)
	assert.NotEmpty(t, report.Diagnostics)
	var withCounterexample bool
	for _, d := range report.Diagnostics {
		if d.Counterexample != nil {
			withCounterexample = true
		}
	}
	assert.True(t, withCounterexample)
}

func TestEngine_Verify_CertificationFailsOnPending(t *testing.T) {
	negative := ttype.Compare(ttype.OpGt, ttype.Var("value"), ttype.IntLit(0))
	g := literalGraph(t, "-5", negative)

	e := NewEngine()
	report, err := e.Verify(context.Background(), g, ProfileCertification)
	require.NoError(t, err)

	assert.Greater(t, report.Failed, 0)
	assert.False(t, report.Acceptable())
}

func TestEngine_Verify_CacheHitSkipsResolve(t *testing.T) {
	positive := ttype.Compare(ttype.OpGt, ttype.Var("value"), ttype.IntLit(0))
	g := literalGraph(t, "5", positive)

	e := NewEngine()
	_, err := e.Verify(context.Background(), g, ProfileDevelopment)
	require.NoError(t, err)

	hitsBefore := e.Cache.HitCount()
	_, err = e.Verify(context.Background(), g, ProfileDevelopment)
	require.NoError(t, err)
	assert.Greater(t, e.Cache.HitCount(), hitsBefore)
}

func TestEngine_Verify_CancelledContext(t *testing.T) {
	positive := ttype.Compare(ttype.OpGt, ttype.Var("value"), ttype.IntLit(0))
	g := literalGraph(t, "5", positive)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEngine()
	_, err := e.Verify(ctx, g, ProfileDevelopment)
	assert.Error(t, err)
}

func TestReport_Acceptable_RespectsMaxWaivers(t *testing.T) {
	report := &Report{Profile: ProfileCertification}
	report.Obligations = []*Obligation{
		{ProofObligation: contract.ProofObligation{Status: contract.StatusWaived}},
	}
	assert.False(t, report.Acceptable())
}

func TestSuggestionsFor_KnownKinds(t *testing.T) {
	assert.NotEmpty(t, suggestionsFor(ttype.ObligationTypeRefinement))
	assert.NotEmpty(t, suggestionsFor(ttype.ObligationTermination))
	assert.Nil(t, suggestionsFor(ttype.ObligationLinearity + 100))
}
