package ttype

import "fmt"

// ObligationKind discriminates the proof-obligation kinds a subtype check
// can produce. TypeRefinement, Linearity and ResourceBound are the kinds
// Compatible itself emits; Precondition/Postcondition/Termination are
// produced elsewhere (contract evaluation, materialization scheduling) but
// share this enum so obligations are uniformly kind-tagged end to end.
type ObligationKind int

const (
	ObligationTypeRefinement ObligationKind = iota
	ObligationPrecondition
	ObligationPostcondition
	ObligationResourceBound
	ObligationLinearity
	ObligationTermination
)

func (k ObligationKind) String() string {
	switch k {
	case ObligationTypeRefinement:
		return "type_refinement"
	case ObligationPrecondition:
		return "precondition"
	case ObligationPostcondition:
		return "postcondition"
	case ObligationResourceBound:
		return "resource_bound"
	case ObligationLinearity:
		return "linearity"
	case ObligationTermination:
		return "termination"
	default:
		return "unknown"
	}
}

// GeneratedObligation is the minimal shape Compatible produces: a kind, the
// predicate to discharge, and a human description. The contract package
// wraps these in its richer ProofObligation (adding status, witness, waiver)
// without this package needing to know about that shape.
type GeneratedObligation struct {
	Kind        ObligationKind
	Predicate   Predicate
	Description string
}

// Mismatch describes why Compatible rejected a (source, target) pair.
type Mismatch struct {
	Source Type
	Target Type
	Reason string
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("type mismatch: %s is not compatible with %s: %s", m.Source.String(), m.Target.String(), m.Reason)
}

// wrapperLayers collects the transparent wrappers found while peeling a
// Type down to its base, regardless of how many resource wrappers are
// stacked or in what order the caller nested them.
type wrapperLayers struct {
	refinement *Predicate
	hasLinTag  bool
	linTag     LinearityWrapper
	resources  []Type // in outside-in encounter order
}

func peelLayers(t Type) (Type, wrapperLayers) {
	var layers wrapperLayers
	for t.IsWrapper() {
		switch t.Kind {
		case KindRefinement:
			p := *t.Predicate
			layers.refinement = &p
		case KindLinearity:
			layers.hasLinTag = true
			layers.linTag = t.LinTag
		case KindResource:
			layers.resources = append(layers.resources, t)
		}
		t = t.Inner()
	}
	return t, layers
}

// Compatible decides whether a value of type source may flow to a position
// expecting target, returning the proof obligations that decision produces.
// It peels every transparent wrapper from both sides down to the base type,
// then emits obligations in the mandated order — refinement, then
// linearity, then resource wrappers — independent of the physical nesting
// order the caller built the wrappers in, before structurally comparing
// what remains.
func Compatible(source, target Type) ([]GeneratedObligation, error) {
	var obligations []GeneratedObligation

	src, srcLayers := peelLayers(source)
	tgt, tgtLayers := peelLayers(target)

	// 1. Refinement layer.
	if tgtLayers.refinement != nil {
		// A subtype "B where P" <: "B where Q" requires P => Q as an
		// obligation. If source carries no refinement, its predicate is
		// treated as `true` (no additional guarantee beyond the base type),
		// so the obligation reduces to discharging Q unconditionally.
		antecedent := BoolLit(true)
		if srcLayers.refinement != nil {
			antecedent = *srcLayers.refinement
		}
		consequent := *tgtLayers.refinement
		obligations = append(obligations, GeneratedObligation{
			Kind:        ObligationTypeRefinement,
			Predicate:   Implies(antecedent, consequent),
			Description: fmt.Sprintf("refinement %s => %s", antecedent.String(), consequent.String()),
		})
	}

	// 2. Linearity layer.
	if srcLayers.hasLinTag || tgtLayers.hasLinTag {
		srcTag, tgtTag := LinUnrestricted, LinUnrestricted
		if srcLayers.hasLinTag {
			srcTag = srcLayers.linTag
		}
		if tgtLayers.hasLinTag {
			tgtTag = tgtLayers.linTag
		}
		sl, tl := srcTag.AsLinearity(), tgtTag.AsLinearity()
		if !sl.SubtypeOf(tl) {
			return nil, &Mismatch{Source: source, Target: target,
				Reason: fmt.Sprintf("linearity %s cannot stand in for %s", srcTag, tgtTag)}
		}
		obligations = append(obligations, GeneratedObligation{
			Kind:        ObligationLinearity,
			Predicate:   BoolLit(true),
			Description: fmt.Sprintf("linearity lattice check: %s <= %s", srcTag, tgtTag),
		})
	}

	// 3. Resource wrappers (Timed/Sized/Powered/Bandwidth) — contravariant
	// in bounds: a tighter bound is a subtype of a looser one. Resource
	// wrappers of the same kind must line up positionally between source
	// and target.
	if len(srcLayers.resources) != len(tgtLayers.resources) {
		return nil, &Mismatch{Source: source, Target: target, Reason: "resource wrapper count mismatch"}
	}
	for i, srcRes := range srcLayers.resources {
		tgtRes := tgtLayers.resources[i]
		if srcRes.ResourceKind != tgtRes.ResourceKind {
			return nil, &Mismatch{Source: source, Target: target, Reason: "resource wrapper shape mismatch"}
		}
		if err := checkResourceBound(srcRes, tgtRes); err != nil {
			return nil, err
		}
		obligations = append(obligations, GeneratedObligation{
			Kind:        ObligationResourceBound,
			Predicate:   BoolLit(true),
			Description: fmt.Sprintf("resource bound check on %s", srcRes.ResourceKind),
		})
	}

	// 4. Structural comparison of whatever remains (primitives, composites,
	// probability wrappers, dependent, special).
	structObligations, err := structuralCompatible(src, tgt)
	if err != nil {
		return nil, err
	}
	obligations = append(obligations, structObligations...)

	return obligations, nil
}

func checkResourceBound(src, tgt Type) error {
	switch src.ResourceKind {
	case ResourceTimed:
		if src.WorstCaseNs > tgt.WorstCaseNs {
			return &Mismatch{Source: src, Target: tgt, Reason: "worst-case time exceeds target bound"}
		}
	case ResourceSized:
		if src.MaxBytes > tgt.MaxBytes {
			return &Mismatch{Source: src, Target: tgt, Reason: "max size exceeds target bound"}
		}
	case ResourcePowered:
		if src.MaxMicroJ > tgt.MaxMicroJ {
			return &Mismatch{Source: src, Target: tgt, Reason: "energy budget exceeds target bound"}
		}
	case ResourceBandwidth:
		if src.MinBytesPerS < tgt.MinBytesPerS {
			return &Mismatch{Source: src, Target: tgt, Reason: "bandwidth below target minimum"}
		}
	}
	return nil
}

// structuralCompatible handles everything Compatible's wrapper peeling
// doesn't: identical-shape primitives, pointwise composites/probability
// wrappers, invariant dependent type parameters, and special types. It
// returns the obligations any nested Compatible call produces (element
// types, probability payloads, dependent base types, option payloads) so
// the caller can fold them into its own result rather than dropping them.
func structuralCompatible(src, tgt Type) ([]GeneratedObligation, error) {
	if src.Kind != tgt.Kind {
		return nil, &Mismatch{Source: src, Target: tgt, Reason: "different type families"}
	}
	switch src.Kind {
	case KindPrimitive:
		if src.Primitive != tgt.Primitive {
			return nil, &Mismatch{Source: src, Target: tgt, Reason: "different primitive kinds"}
		}
		switch src.Primitive {
		case PrimInteger:
			if src.IntWidth != tgt.IntWidth || src.IntSigned != tgt.IntSigned {
				return nil, &Mismatch{Source: src, Target: tgt, Reason: "integer width/signedness mismatch: no implicit widening"}
			}
		case PrimFloat:
			if src.FloatBits != tgt.FloatBits {
				return nil, &Mismatch{Source: src, Target: tgt, Reason: "float precision mismatch"}
			}
		case PrimFixedPoint:
			if src.FixedTotal != tgt.FixedTotal || src.FixedFrac != tgt.FixedFrac {
				return nil, &Mismatch{Source: src, Target: tgt, Reason: "fixed-point layout mismatch"}
			}
		}
		return nil, nil
	case KindComposite:
		if src.Composite != tgt.Composite {
			return nil, &Mismatch{Source: src, Target: tgt, Reason: "different composite kinds"}
		}
		if len(src.Elements) != len(tgt.Elements) {
			return nil, &Mismatch{Source: src, Target: tgt, Reason: "element count mismatch"}
		}
		if src.Composite == CompositeArray && src.ArrayLen != tgt.ArrayLen {
			return nil, &Mismatch{Source: src, Target: tgt, Reason: "array length mismatch"}
		}
		var obligations []GeneratedObligation
		for i := range src.Elements {
			elemObligations, err := Compatible(src.Elements[i], tgt.Elements[i])
			if err != nil {
				return nil, err
			}
			obligations = append(obligations, elemObligations...)
		}
		return obligations, nil
	case KindProbability:
		if src.ProbKind != tgt.ProbKind {
			return nil, &Mismatch{Source: src, Target: tgt, Reason: "different probability wrapper kinds"}
		}
		return Compatible(*src.Prob, *tgt.Prob)
	case KindDependent:
		if len(src.TypeArgs) != len(tgt.TypeArgs) || len(src.ValueArgs) != len(tgt.ValueArgs) {
			return nil, &Mismatch{Source: src, Target: tgt, Reason: "dependent type arity mismatch"}
		}
		// Invariant: type and value arguments must match exactly, no
		// covariance/contravariance.
		for i := range src.TypeArgs {
			if src.TypeArgs[i].String() != tgt.TypeArgs[i].String() {
				return nil, &Mismatch{Source: src, Target: tgt, Reason: "dependent type argument mismatch (invariant)"}
			}
		}
		for i := range src.ValueArgs {
			if src.ValueArgs[i] != tgt.ValueArgs[i] {
				return nil, &Mismatch{Source: src, Target: tgt, Reason: "dependent value argument mismatch (invariant)"}
			}
		}
		return Compatible(*src.DepBase, *tgt.DepBase)
	case KindSpecial:
		if src.Special != tgt.Special {
			return nil, &Mismatch{Source: src, Target: tgt, Reason: "different special type kinds"}
		}
		if src.Special == SpecialOption {
			if (src.Option == nil) != (tgt.Option == nil) {
				return nil, &Mismatch{Source: src, Target: tgt, Reason: "option presence mismatch"}
			}
			if src.Option != nil {
				return Compatible(*src.Option, *tgt.Option)
			}
			return nil, nil
		}
		if src.NamedRef != tgt.NamedRef {
			return nil, &Mismatch{Source: src, Target: tgt, Reason: "named reference mismatch"}
		}
		return nil, nil
	default:
		return nil, &Mismatch{Source: src, Target: tgt, Reason: "unrecognized type kind"}
	}
}

