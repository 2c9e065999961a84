package ttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompatible_IdenticalPrimitives(t *testing.T) {
	obligations, err := Compatible(Integer(32, true), Integer(32, true))
	require.NoError(t, err)
	assert.Empty(t, obligations)
}

func TestCompatible_WidthMismatchRejected(t *testing.T) {
	_, err := Compatible(Integer(16, true), Integer(32, true))
	require.Error(t, err)
	var mismatch *Mismatch
	assert.ErrorAs(t, err, &mismatch)
}

func TestCompatible_RefinementProducesImplicationObligation(t *testing.T) {
	base := Integer(32, true)
	positive := Refinement(base, Compare(OpGt, Var("value"), IntLit(0)))
	nonNegative := Refinement(base, Compare(OpGe, Var("value"), IntLit(0)))

	obligations, err := Compatible(positive, nonNegative)
	require.NoError(t, err)
	require.Len(t, obligations, 1)
	assert.Equal(t, ObligationTypeRefinement, obligations[0].Kind)
	assert.Equal(t, PredImplies, obligations[0].Predicate.Kind)
}

func TestCompatible_LinearityNarrowerIsSubtype(t *testing.T) {
	unrestricted := WithLinearity(Unit(), LinUnrestricted)
	linear := WithLinearity(Unit(), LinLinear)

	// The lattice certifies a more restrictive source flowing to a less
	// restrictive target: a linear source is accepted where an unrestricted
	// value is expected, and an unrestricted source is rejected where a
	// linear one is required.
	_, err := Compatible(linear, unrestricted)
	require.NoError(t, err)

	_, err = Compatible(unrestricted, linear)
	require.Error(t, err)
}

func TestCompatible_ResourceBoundContravariant(t *testing.T) {
	tight := Timed(Unit(), 100, "cortex-m4")
	loose := Timed(Unit(), 1000, "cortex-m4")

	_, err := Compatible(tight, loose)
	require.NoError(t, err)

	_, err = Compatible(loose, tight)
	require.Error(t, err)
}

func TestCompatible_WrapperPeelingOrder(t *testing.T) {
	// Refinement peeled before linearity before resource wrappers: building
	// a type with all three and checking against itself should produce one
	// obligation per layer (refinement, linearity, resource), in that order.
	base := Integer(32, true)
	refined := Refinement(base, Compare(OpGt, Var("value"), IntLit(0)))
	linear := WithLinearity(refined, LinAffine)
	timed := Timed(linear, 500, "t0")

	obligations, err := Compatible(timed, timed)
	require.NoError(t, err)
	require.Len(t, obligations, 3)
	assert.Equal(t, ObligationTypeRefinement, obligations[0].Kind)
	assert.Equal(t, ObligationLinearity, obligations[1].Kind)
	assert.Equal(t, ObligationResourceBound, obligations[2].Kind)
}

func TestCompatible_CompositeIsPointwise(t *testing.T) {
	src := Tuple(Integer(8, false), Bool())
	tgt := Tuple(Integer(8, false), Bool())
	obligations, err := Compatible(src, tgt)
	require.NoError(t, err)
	assert.Empty(t, obligations)

	mismatched := Tuple(Integer(16, false), Bool())
	_, err = Compatible(mismatched, tgt)
	require.Error(t, err)
}
