package ttype

import (
	"fmt"
	"sort"
	"strings"
)

// PredicateKind discriminates the first-order predicate expression forms.
// Predicates are pure inductive data — never closures — so they can be
// hashed, cached, serialized, and translated to an SMT context uniformly.
type PredicateKind int

const (
	PredBoolLit PredicateKind = iota
	PredIntLit
	PredFloatLit
	PredVar
	PredArith   // +, -, *, /, mod, neg
	PredCompare // =, !=, <, <=, >, >=
	PredAnd
	PredOr
	PredNot
	PredImplies
	PredForall
	PredExists
	PredApply // named function application
)

// ArithOp enumerates the arithmetic operators.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
)

var arithSymbols = map[ArithOp]string{OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "mod", OpNeg: "neg"}

// CompareOp enumerates the comparison operators.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var compareSymbols = map[CompareOp]string{OpEq: "=", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">="}

// Predicate is the discriminated union of the predicate language. Like Type
// it is a flat struct keyed by Kind rather than an interface tree, so a
// Predicate value is trivially comparable and content-hashable — required
// by the obligation cache's content-addressing.
type Predicate struct {
	Kind PredicateKind

	BoolVal  bool
	IntVal   int64
	FloatVal float64
	VarName  string

	ArithOp  ArithOp
	CompareOp CompareOp

	// Operands: Arith uses Operands[0] (and [1] unless Neg), Compare uses
	// Operands[0:2], And/Or use all of Operands, Not/Forall/Exists body uses
	// Operands[0], Implies uses Operands[0] (antecedent) and Operands[1]
	// (consequent).
	Operands []Predicate

	// Forall/Exists
	BoundVar  string
	RangeLow  *Predicate
	RangeHigh *Predicate

	// Apply
	FuncName string
	Args     []Predicate
}

// Constructors.

func BoolLit(v bool) Predicate    { return Predicate{Kind: PredBoolLit, BoolVal: v} }
func IntLit(v int64) Predicate    { return Predicate{Kind: PredIntLit, IntVal: v} }
func FloatLit(v float64) Predicate { return Predicate{Kind: PredFloatLit, FloatVal: v} }
func Var(name string) Predicate   { return Predicate{Kind: PredVar, VarName: name} }

func Arith(op ArithOp, operands ...Predicate) Predicate {
	return Predicate{Kind: PredArith, ArithOp: op, Operands: operands}
}

func Compare(op CompareOp, lhs, rhs Predicate) Predicate {
	return Predicate{Kind: PredCompare, CompareOp: op, Operands: []Predicate{lhs, rhs}}
}

func And(operands ...Predicate) Predicate { return Predicate{Kind: PredAnd, Operands: operands} }
func Or(operands ...Predicate) Predicate  { return Predicate{Kind: PredOr, Operands: operands} }
func Not(p Predicate) Predicate           { return Predicate{Kind: PredNot, Operands: []Predicate{p}} }

func Implies(antecedent, consequent Predicate) Predicate {
	return Predicate{Kind: PredImplies, Operands: []Predicate{antecedent, consequent}}
}

func Forall(boundVar string, low, high, body Predicate) Predicate {
	return Predicate{Kind: PredForall, BoundVar: boundVar, RangeLow: &low, RangeHigh: &high, Operands: []Predicate{body}}
}

func Exists(boundVar string, low, high, body Predicate) Predicate {
	return Predicate{Kind: PredExists, BoundVar: boundVar, RangeLow: &low, RangeHigh: &high, Operands: []Predicate{body}}
}

func Apply(funcName string, args ...Predicate) Predicate {
	return Predicate{Kind: PredApply, FuncName: funcName, Args: args}
}

// FreeVars returns the set of variable names referenced in p that are not
// bound by an enclosing Forall/Exists.
func (p Predicate) FreeVars() []string {
	seen := map[string]bool{}
	var walk func(p Predicate, bound map[string]bool)
	walk = func(p Predicate, bound map[string]bool) {
		switch p.Kind {
		case PredVar:
			if !bound[p.VarName] {
				seen[p.VarName] = true
			}
		case PredForall, PredExists:
			inner := make(map[string]bool, len(bound)+1)
			for k := range bound {
				inner[k] = true
			}
			inner[p.BoundVar] = true
			if p.RangeLow != nil {
				walk(*p.RangeLow, bound)
			}
			if p.RangeHigh != nil {
				walk(*p.RangeHigh, bound)
			}
			for _, o := range p.Operands {
				walk(o, inner)
			}
		case PredApply:
			for _, a := range p.Args {
				walk(a, bound)
			}
		default:
			for _, o := range p.Operands {
				walk(o, bound)
			}
		}
	}
	walk(p, map[string]bool{})
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (p Predicate) String() string {
	switch p.Kind {
	case PredBoolLit:
		return fmt.Sprintf("%t", p.BoolVal)
	case PredIntLit:
		return fmt.Sprintf("%d", p.IntVal)
	case PredFloatLit:
		return fmt.Sprintf("%g", p.FloatVal)
	case PredVar:
		return p.VarName
	case PredArith:
		if p.ArithOp == OpNeg {
			return fmt.Sprintf("(neg %s)", p.Operands[0].String())
		}
		return fmt.Sprintf("(%s %s %s)", p.Operands[0].String(), arithSymbols[p.ArithOp], p.Operands[1].String())
	case PredCompare:
		return fmt.Sprintf("(%s %s %s)", p.Operands[0].String(), compareSymbols[p.CompareOp], p.Operands[1].String())
	case PredAnd:
		return joinPreds(p.Operands, "&&")
	case PredOr:
		return joinPreds(p.Operands, "||")
	case PredNot:
		return fmt.Sprintf("!(%s)", p.Operands[0].String())
	case PredImplies:
		return fmt.Sprintf("(%s => %s)", p.Operands[0].String(), p.Operands[1].String())
	case PredForall:
		return fmt.Sprintf("forall %s in [%s,%s]: %s", p.BoundVar, p.RangeLow.String(), p.RangeHigh.String(), p.Operands[0].String())
	case PredExists:
		return fmt.Sprintf("exists %s in [%s,%s]: %s", p.BoundVar, p.RangeLow.String(), p.RangeHigh.String(), p.Operands[0].String())
	case PredApply:
		parts := make([]string, len(p.Args))
		for i, a := range p.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", p.FuncName, strings.Join(parts, ", "))
	default:
		return "<invalid predicate>"
	}
}

func joinPreds(preds []Predicate, sep string) string {
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, " "+sep+" ") + ")"
}
