package materialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torc-lang/torc/graphir"
	"github.com/torc-lang/torc/ttype"
)

func TestFitResources_WithinBudgetHasNoViolations(t *testing.T) {
	i32 := ttype.Integer(32, true)
	lit := mustNode(t, graphir.KindLiteral, graphir.WithSignature(nil, []ttype.Type{i32}), graphir.WithLiteral("1"))
	g := graphir.New()
	require.NoError(t, g.AddNode(lit))

	schedule, err := BuildSchedule(g)
	require.NoError(t, err)

	platform := testPlatform()
	layout := BuildLayout(g, schedule, platform)
	report := FitResources(g, layout, platform)

	assert.True(t, report.OK())
	assert.Empty(t, report.Violations)
}

func TestFitResources_FlashOverflowReported(t *testing.T) {
	i32 := ttype.Integer(32, true)
	lit := mustNode(t, graphir.KindLiteral, graphir.WithSignature(nil, []ttype.Type{i32}), graphir.WithLiteral("1"))
	g := graphir.New()
	require.NoError(t, g.AddNode(lit))

	schedule, err := BuildSchedule(g)
	require.NoError(t, err)

	platform := testPlatform()
	platform.Env.TotalFlash = 1
	layout := BuildLayout(g, schedule, platform)
	report := FitResources(g, layout, platform)

	require.False(t, report.OK())
	found := false
	for _, v := range report.Violations {
		if v.Resource == "flash" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFitResources_StackOverflowReported(t *testing.T) {
	i32 := ttype.Integer(32, true)
	a := mustNode(t, graphir.KindLiteral, graphir.WithSignature(nil, []ttype.Type{i32}), graphir.WithLiteral("1"))
	b := mustNode(t, graphir.KindAdd, graphir.WithSignature([]ttype.Type{i32}, []ttype.Type{i32}))
	g := graphir.New()
	require.NoError(t, g.AddNode(a))
	require.NoError(t, g.AddNode(b))
	nodes := map[uint8]*graphir.Node{1: a, 2: b}
	require.NoError(t, g.AddEdge(mustEdge(t, 1, 0, 2, 0, nodes)))

	schedule, err := BuildSchedule(g)
	require.NoError(t, err)

	platform := testPlatform()
	tiny := uint64(1)
	platform.Env.StackCap = &tiny
	layout := BuildLayout(g, schedule, platform)
	report := FitResources(g, layout, platform)

	require.False(t, report.OK())
	var found bool
	for _, v := range report.Violations {
		if v.Resource == "stack" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestResourceFitReport_DescribeIsHumanReadable(t *testing.T) {
	r := ResourceFitReport{EstimatedCodeBytes: 1000, StaticDataBytes: 200, PeakStackBytes: 64}
	assert.Contains(t, r.Describe(), "1,000 bytes")
}
