package verify

import (
	"fmt"

	"github.com/torc-lang/torc/ttype"
)

// Interval is an abstract value in the interval domain: a closed range
// [Low, High] with unbounded endpoints represented by nil, grounded on
// original_source's torc-verify interval.rs Interval{lo, hi}.
type Interval struct {
	Low  *float64
	High *float64
}

func unboundedInterval() Interval { return Interval{} }

func pointInterval(v float64) Interval { return Interval{Low: &v, High: &v} }

func boundedInterval(lo, hi float64) Interval { return Interval{Low: &lo, High: &hi} }

func (iv Interval) add(other Interval) Interval {
	var lo, hi *float64
	if iv.Low != nil && other.Low != nil {
		v := *iv.Low + *other.Low
		lo = &v
	}
	if iv.High != nil && other.High != nil {
		v := *iv.High + *other.High
		hi = &v
	}
	return Interval{Low: lo, High: hi}
}

func (iv Interval) sub(other Interval) Interval {
	var lo, hi *float64
	if iv.Low != nil && other.High != nil {
		v := *iv.Low - *other.High
		lo = &v
	}
	if iv.High != nil && other.Low != nil {
		v := *iv.High - *other.Low
		hi = &v
	}
	return Interval{Low: lo, High: hi}
}

func (iv Interval) neg() Interval {
	var lo, hi *float64
	if iv.High != nil {
		v := -*iv.High
		lo = &v
	}
	if iv.Low != nil {
		v := -*iv.Low
		hi = &v
	}
	return Interval{Low: lo, High: hi}
}

// definitelyTrue reports whether iv, interpreted as the value of a boolean
// predicate encoded as 0/1, can only ever be true (i.e. its range is
// entirely within (0, +inf)).
func (iv Interval) definitelyTrue() bool {
	return iv.Low != nil && *iv.Low > 0
}

func (iv Interval) definitelyFalse() bool {
	return iv.High != nil && *iv.High <= 0
}

// evalEnv maps free variable names to their known interval.
type evalEnv map[string]Interval

// Env is the caller-facing binding of free variables to concrete values,
// built from literal nodes feeding an obligation's predicate (§4.3 stage 3
// requires both sides of a comparison be "fully concrete" to decide without
// SMT). Values are ints or floats; either is accepted interchangeably since
// the interval domain evaluates both as float64.
type Env map[string]float64

func (e Env) toIntervalEnv() evalEnv {
	out := make(evalEnv, len(e))
	for k, v := range e {
		out[k] = pointInterval(v)
	}
	return out
}

// evalInterval performs abstract interpretation of p over env, evaluating
// comparisons to a 0/1-valued interval (1 when definitely true, 0 when
// definitely false, [0,1] when undecided) so the pre-screen can short
// circuit without invoking the solver. Addition, subtraction and negation
// evaluate to their numeric interval; anything evalInterval cannot model
// (multiplication, division, modulo, named function application,
// quantifiers) returns the fully unbounded interval,
// which always yields an Unknown verdict rather than a wrong answer.
func evalInterval(p ttype.Predicate, env evalEnv) Interval {
	switch p.Kind {
	case ttype.PredIntLit:
		return pointInterval(float64(p.IntVal))
	case ttype.PredFloatLit:
		return pointInterval(p.FloatVal)
	case ttype.PredBoolLit:
		if p.BoolVal {
			return pointInterval(1)
		}
		return pointInterval(0)
	case ttype.PredVar:
		if iv, ok := env[p.VarName]; ok {
			return iv
		}
		return unboundedInterval()
	case ttype.PredArith:
		if p.ArithOp == ttype.OpNeg {
			return evalInterval(p.Operands[0], env).neg()
		}
		lhs := evalInterval(p.Operands[0], env)
		rhs := evalInterval(p.Operands[1], env)
		switch p.ArithOp {
		case ttype.OpAdd:
			return lhs.add(rhs)
		case ttype.OpSub:
			return lhs.sub(rhs)
		default:
			return unboundedInterval()
		}
	case ttype.PredCompare:
		lhs := evalInterval(p.Operands[0], env)
		rhs := evalInterval(p.Operands[1], env)
		diff := lhs.sub(rhs)
		switch p.CompareOp {
		case ttype.OpGt:
			if diff.definitelyTrue() {
				return pointInterval(1)
			}
			if diff.definitelyFalse() {
				return pointInterval(0)
			}
		case ttype.OpGe:
			if diff.Low != nil && *diff.Low >= 0 {
				return pointInterval(1)
			}
			if diff.High != nil && *diff.High < 0 {
				return pointInterval(0)
			}
		case ttype.OpLt:
			if diff.High != nil && *diff.High < 0 {
				return pointInterval(1)
			}
			if diff.Low != nil && *diff.Low >= 0 {
				return pointInterval(0)
			}
		case ttype.OpLe:
			if diff.High != nil && *diff.High <= 0 {
				return pointInterval(1)
			}
			if diff.Low != nil && *diff.Low > 0 {
				return pointInterval(0)
			}
		}
		return boundedInterval(0, 1)
	case ttype.PredAnd:
		allTrue := true
		for _, o := range p.Operands {
			iv := evalInterval(o, env)
			if iv.definitelyFalse() {
				return pointInterval(0)
			}
			if !iv.definitelyTrue() {
				allTrue = false
			}
		}
		if allTrue {
			return pointInterval(1)
		}
		return boundedInterval(0, 1)
	case ttype.PredOr:
		allFalse := true
		for _, o := range p.Operands {
			iv := evalInterval(o, env)
			if iv.definitelyTrue() {
				return pointInterval(1)
			}
			if !iv.definitelyFalse() {
				allFalse = false
			}
		}
		if allFalse {
			return pointInterval(0)
		}
		return boundedInterval(0, 1)
	case ttype.PredNot:
		iv := evalInterval(p.Operands[0], env)
		if iv.definitelyTrue() {
			return pointInterval(0)
		}
		if iv.definitelyFalse() {
			return pointInterval(1)
		}
		return boundedInterval(0, 1)
	case ttype.PredImplies:
		antecedent := evalInterval(p.Operands[0], env)
		if antecedent.definitelyFalse() {
			return pointInterval(1)
		}
		consequent := evalInterval(p.Operands[1], env)
		if antecedent.definitelyTrue() {
			return consequent
		}
		return boundedInterval(0, 1)
	default:
		return unboundedInterval()
	}
}

// PreScreen attempts to decide p using interval abstract interpretation
// alone, returning (verdict, true) when it can, or (_, false) when the
// predicate escapes what the interval domain can model — the caller should
// fall back to SMT in that case.
func PreScreen(p ttype.Predicate, env Env) (bool, bool) {
	iv := evalInterval(p, env.toIntervalEnv())
	if iv.definitelyTrue() {
		return true, true
	}
	if iv.definitelyFalse() {
		return false, true
	}
	return false, false
}

// PreScreenCounterexample formats a counterexample for a predicate the
// pre-screen proved Disproven, from the witnessing interval endpoints bound
// in env — the only information the interval domain has to offer.
func PreScreenCounterexample(env Env) map[string]string {
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = formatFloat(v)
	}
	return out
}

func formatFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
