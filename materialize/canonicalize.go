package materialize

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/torc-lang/torc/graphir"
	"github.com/torc-lang/torc/ttype"
)

// Canonicalize normalizes g per §4.4 step 1: redundant conversions (source
// type equals target type) are elided, trivially-constant arithmetic over
// literal inputs is folded into a single literal, and nested refinements
// collapse into one refinement with a conjoined predicate. The result is a
// fresh graph; g is left untouched.
//
// The rewrite walks g in topological order, building a remap from each old
// node id to whatever new node now supplies its value — itself for a node
// that survives unchanged, its upstream source for an elided conversion, or
// a freshly minted literal for a folded expression. Edges are then replayed
// through that remap; an edge whose endpoints collapse to the same new
// node (the elided-conversion case) or whose target was folded away is
// dropped.
func Canonicalize(g *graphir.Graph) (*graphir.Graph, error) {
	waves, err := graphir.TopologicalSort(g)
	if err != nil {
		return nil, err
	}
	order := graphir.Flatten(waves)

	out := graphir.New()
	remap := make(map[uuid.UUID]uuid.UUID, len(order))
	literalValue := make(map[uuid.UUID]string, len(order))
	folded := make(map[uuid.UUID]bool)

	for _, n := range order {
		if isRedundantConversion(g, n) {
			in := g.IncomingEdges(n.ID)
			if len(in) == 1 {
				remap[n.ID] = remap[in[0].SourceNode]
				if lit, ok := literalValue[in[0].SourceNode]; ok {
					literalValue[n.ID] = lit
				}
				continue
			}
		}

		if n.Kind == graphir.KindLiteral {
			repr := n.LiteralRepr
			if len(n.OutputTypes) == 1 {
				repr = canonicalIntegerLiteral(repr, n.OutputTypes[0])
			}
			clone := cloneNodeWithCollapsedTypes(n)
			clone.LiteralRepr = repr
			if err := out.AddNode(clone); err != nil {
				return nil, err
			}
			remap[n.ID] = clone.ID
			literalValue[n.ID] = repr
			continue
		}
		if repr, ok := foldArithmetic(g, n, literalValue); ok {
			lit := cloneAsLiteral(n, repr)
			if err := out.AddNode(lit); err != nil {
				return nil, err
			}
			remap[n.ID] = lit.ID
			literalValue[n.ID] = repr
			folded[n.ID] = true
			continue
		}

		clone := cloneNodeWithCollapsedTypes(n)
		if err := out.AddNode(clone); err != nil {
			return nil, err
		}
		remap[n.ID] = clone.ID
	}

	for _, e := range g.Edges() {
		if folded[e.TargetNode] {
			continue
		}
		srcID, srcOK := remap[e.SourceNode]
		tgtID, tgtOK := remap[e.TargetNode]
		if !srcOK || !tgtOK || srcID == tgtID {
			continue
		}
		clone := *e
		clone.SourceNode = srcID
		clone.TargetNode = tgtID
		if clone.DataType != nil {
			collapsed := collapseRefinements(*clone.DataType)
			clone.DataType = &collapsed
		}
		if err := out.AddEdge(&clone); err != nil {
			return nil, err
		}
	}

	for _, r := range g.Regions() {
		var children []uuid.UUID
		for _, childID := range r.Children {
			if newID, ok := remap[childID]; ok {
				children = append(children, newID)
			}
		}
		if len(children) == 0 {
			continue
		}
		clone := *r
		clone.Children = children
		if err := out.AddRegion(&clone); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func isRedundantConversion(g *graphir.Graph, n *graphir.Node) bool {
	if n.Kind != graphir.KindConvert || len(n.InputTypes) != 1 || len(n.OutputTypes) != 1 {
		return false
	}
	return reflect.DeepEqual(n.InputTypes[0], n.OutputTypes[0])
}

var foldableArith = map[graphir.NodeKind]func(a, b float64) (float64, bool){
	graphir.KindAdd: func(a, b float64) (float64, bool) { return a + b, true },
	graphir.KindSub: func(a, b float64) (float64, bool) { return a - b, true },
	graphir.KindMul: func(a, b float64) (float64, bool) { return a * b, true },
	graphir.KindDiv: func(a, b float64) (float64, bool) {
		if b == 0 {
			return 0, false
		}
		return a / b, true
	},
	graphir.KindMod: func(a, b float64) (float64, bool) {
		if b == 0 {
			return 0, false
		}
		return float64(int64(a) % int64(b)), true
	},
}

// foldArithmetic evaluates n if it is a two-input arithmetic node whose
// both operands trace back to literal (or already-folded) values, per
// §4.4's "fold trivially-constant arithmetic over literal inputs".
func foldArithmetic(g *graphir.Graph, n *graphir.Node, literalValue map[uuid.UUID]string) (string, bool) {
	op, known := foldableArith[n.Kind]
	if !known {
		return "", false
	}
	in := g.IncomingEdges(n.ID)
	if len(in) != 2 {
		return "", false
	}
	var operands [2]float64
	portSeen := map[int]bool{}
	for _, e := range in {
		repr, ok := literalValue[e.SourceNode]
		if !ok {
			return "", false
		}
		v, ok := parseNumericLiteral(repr)
		if !ok {
			return "", false
		}
		if e.TargetPort != 0 && e.TargetPort != 1 {
			return "", false
		}
		operands[e.TargetPort] = v
		portSeen[e.TargetPort] = true
	}
	if len(portSeen) != 2 {
		return "", false
	}
	result, ok := op(operands[0], operands[1])
	if !ok {
		return "", false
	}
	return formatNumericLiteral(result, n.OutputTypes), true
}

func cloneAsLiteral(n *graphir.Node, repr string) *graphir.Node {
	return &graphir.Node{
		ID:          uuid.New(),
		Kind:        graphir.KindLiteral,
		OutputTypes: append([]ttype.Type(nil), n.OutputTypes...),
		LiteralRepr: repr,
		Provenance:  n.Provenance,
	}
}

func cloneNodeWithCollapsedTypes(n *graphir.Node) *graphir.Node {
	clone := *n
	if n.InputTypes != nil {
		clone.InputTypes = make([]ttype.Type, len(n.InputTypes))
		for i, t := range n.InputTypes {
			clone.InputTypes[i] = collapseRefinements(t)
		}
	}
	if n.OutputTypes != nil {
		clone.OutputTypes = make([]ttype.Type, len(n.OutputTypes))
		for i, t := range n.OutputTypes {
			clone.OutputTypes[i] = collapseRefinements(t)
		}
	}
	return &clone
}

// collapseRefinements collapses a chain of nested Refinement wrappers into
// one, conjoining every predicate along the chain, and recurses through
// every other wrapper/composite kind so a refinement buried inside e.g. a
// tuple element or a linearity wrapper is collapsed too.
func collapseRefinements(t ttype.Type) ttype.Type {
	switch t.Kind {
	case ttype.KindRefinement:
		base := collapseRefinements(*t.Base)
		preds := []ttype.Predicate{*t.Predicate}
		for base.Kind == ttype.KindRefinement {
			preds = append(preds, *base.Predicate)
			base = *base.Base
		}
		pred := preds[0]
		if len(preds) > 1 {
			pred = ttype.And(preds...)
		}
		return ttype.Refinement(base, pred)
	case ttype.KindLinearity:
		inner := collapseRefinements(*t.Linear)
		nt := t
		nt.Linear = &inner
		return nt
	case ttype.KindResource:
		inner := collapseRefinements(*t.Resource)
		nt := t
		nt.Resource = &inner
		return nt
	case ttype.KindProbability:
		inner := collapseRefinements(*t.Prob)
		nt := t
		nt.Prob = &inner
		return nt
	case ttype.KindComposite:
		if len(t.Elements) == 0 {
			return t
		}
		nt := t
		nt.Elements = make([]ttype.Type, len(t.Elements))
		for i, e := range t.Elements {
			nt.Elements[i] = collapseRefinements(e)
		}
		return nt
	case ttype.KindSpecial:
		if t.Special == ttype.SpecialOption && t.Option != nil {
			inner := collapseRefinements(*t.Option)
			nt := t
			nt.Option = &inner
			return nt
		}
		return t
	default:
		return t
	}
}

// parseNumericLiteral parses a literal representation the way §4.4's
// lowering rules describe ("integer literals accept decimal, 0x, 0o, 0b
// prefixes; floats parse as decimal; booleans accept true/false").
func parseNumericLiteral(repr string) (float64, bool) {
	switch strings.ToLower(repr) {
	case "true":
		return 1, true
	case "false":
		return 0, true
	}
	if i, err := strconv.ParseInt(repr, 0, 64); err == nil {
		return float64(i), true
	}
	if f, err := strconv.ParseFloat(repr, 64); err == nil {
		return f, true
	}
	return 0, false
}

// formatNumericLiteral renders a folded value back into literal text,
// choosing an integer or float representation based on the node's
// declared output type.
func formatNumericLiteral(v float64, outputs []ttype.Type) string {
	if len(outputs) == 1 && outputs[0].Kind == ttype.KindPrimitive && outputs[0].Primitive == ttype.PrimInteger {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
