package ttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType_Peel(t *testing.T) {
	base := Integer(32, true)
	wrapped := Sized(WithLinearity(Refinement(base, Compare(OpGt, Var("value"), IntLit(0))), LinAffine), 64)

	peeled := wrapped.Peel()
	assert.Equal(t, base, peeled)
}

func TestType_String(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"i32", Integer(32, true), "i32"},
		{"u8", Integer(8, false), "u8"},
		{"f64", Float(64), "f64"},
		{"array", Array(Bool(), 4), "[bool;4]"},
		{"vector", Vector(Integer(16, true)), "vec<i16>"},
		{"option", Option(Unit()), "option<unit>"},
		{"named", Named("Packet"), "&Packet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestEffectSet_UnionEliminatesPure(t *testing.T) {
	pure := NewEffectSet()
	require.True(t, pure.IsPure())

	withIO := pure.With(IO)
	assert.False(t, withIO.IsPure())
	assert.True(t, withIO.Has(IO))

	combined := Union(pure, withIO)
	assert.Equal(t, withIO, combined)
	assert.False(t, combined.IsPure())
}

func TestEffectSet_Subset(t *testing.T) {
	small := NewEffectSet(Alloc)
	big := NewEffectSet(Alloc, IO, Atomic)

	assert.True(t, small.Subset(big))
	assert.False(t, big.Subset(small))
}

func TestLinearity_Lattice(t *testing.T) {
	assert.True(t, Linear.SubtypeOf(Unrestricted))
	assert.True(t, Affine.SubtypeOf(Shared))
	assert.True(t, Shared.SubtypeOf(Unrestricted))
	assert.False(t, Unrestricted.SubtypeOf(Linear))

	assert.Equal(t, Linear, Join(Linear, Unrestricted))
	assert.Equal(t, Affine, Join(Affine, Shared))
}

func TestPredicate_FreeVars(t *testing.T) {
	p := Forall("i", IntLit(0), IntLit(10), Compare(OpLt, Var("i"), Var("n")))
	free := p.FreeVars()
	assert.ElementsMatch(t, []string{"n"}, free)
}

func TestPredicate_String(t *testing.T) {
	p := Implies(
		Compare(OpGt, Var("x"), IntLit(0)),
		Compare(OpGe, Var("x"), IntLit(1)),
	)
	assert.Equal(t, "((x > 0) => (x >= 1))", p.String())
}
