// Package ttype implements the type universe: the discriminated-union Type,
// the first-order predicate language refinements are built from, effect
// sets, the linearity lattice, and the structural/pointwise/invariant/
// predicate-implication subtype relation that ties them together.
package ttype

import "fmt"

// Kind discriminates the eight type families.
type Kind int

const (
	KindPrimitive Kind = iota
	KindComposite
	KindRefinement
	KindLinearity
	KindResource
	KindProbability
	KindDependent
	KindSpecial
)

// Primitive families.
type PrimitiveKind int

const (
	PrimVoid PrimitiveKind = iota
	PrimUnit
	PrimBool
	PrimInteger
	PrimFloat
	PrimFixedPoint
)

// Composite families.
type CompositeKind int

const (
	CompositeTuple CompositeKind = iota
	CompositeRecord
	CompositeVariant
	CompositeArray
	CompositeVector
)

// LinearityWrapper enumerates the six linearity tags a wrapper may carry.
// Unique and Counted extend the four-mode lattice in Linearity with two
// annotations that do not change subtyping rank but change the contract a
// node must honor (Unique: at most one live reference at a time; Counted:
// reference-counted, drop decrements).
type LinearityWrapper int

const (
	LinLinear LinearityWrapper = iota
	LinAffine
	LinShared
	LinUnique
	LinCounted
	LinUnrestricted
)

func (w LinearityWrapper) String() string {
	switch w {
	case LinLinear:
		return "linear"
	case LinAffine:
		return "affine"
	case LinShared:
		return "shared"
	case LinUnique:
		return "unique"
	case LinCounted:
		return "counted"
	case LinUnrestricted:
		return "unrestricted"
	default:
		return "unknown"
	}
}

// AsLinearity maps the wrapper's annotation onto the four-point lattice used
// for subtyping; Unique and Counted are refinements of Shared discipline.
func (w LinearityWrapper) AsLinearity() Linearity {
	switch w {
	case LinLinear:
		return Linear
	case LinAffine:
		return Affine
	case LinUnique, LinCounted, LinShared:
		return Shared
	default:
		return Unrestricted
	}
}

// ResourceKind discriminates the four resource wrapper families.
type ResourceKind int

const (
	ResourceTimed ResourceKind = iota
	ResourceSized
	ResourcePowered
	ResourceBandwidth
)

// ProbabilityKind discriminates the four probability wrapper families.
type ProbabilityKind int

const (
	ProbDistribution ProbabilityKind = iota
	ProbPosterior
	ProbInterval
	ProbApproximate
)

// SpecialKind discriminates the two special type families.
type SpecialKind int

const (
	SpecialOption SpecialKind = iota
	SpecialNamed
)

// Type is the discriminated union over the eight type families. Exactly one
// of the family-specific fields is meaningful, selected by Kind; this
// mirrors the teacher's flat-struct-with-discriminator style used for
// workflow node configs rather than a Go interface hierarchy, because types
// need to be structurally comparable and trivially serializable.
type Type struct {
	Kind Kind

	// KindPrimitive
	Primitive    PrimitiveKind
	IntWidth     int  // bit width, integers only
	IntSigned    bool // integers only
	FloatBits    int  // mantissa+exponent width, floats only
	FixedTotal   int  // total bits, fixed-point only
	FixedFrac    int  // fractional bits, fixed-point only

	// KindComposite
	Composite     CompositeKind
	Elements      []Type            // tuple elements, array/vector element (len 1), variant case payloads
	FieldNames    []string          // record field names, parallel to Elements
	VariantTags   []string          // variant case tags, parallel to Elements
	ArrayLen      int               // fixed-length array only

	// KindRefinement
	Base      *Type
	Predicate *Predicate

	// KindLinearity
	Linear *Type
	LinTag LinearityWrapper

	// KindResource
	Resource     *Type
	ResourceKind ResourceKind
	WorstCaseNs  uint64 // Timed
	TargetID     string // Timed
	MaxBytes     uint64 // Sized
	MaxMicroJ    uint64 // Powered
	MinBytesPerS uint64 // Bandwidth

	// KindProbability
	Prob           *Type
	ProbKind       ProbabilityKind
	EvidenceTag    string  // Posterior
	ConfidenceLvl  float64 // Interval
	MaxError       float64 // Approximate

	// KindDependent
	DepBase   *Type
	TypeArgs  []Type
	ValueArgs []DependentArg

	// KindSpecial
	Special   SpecialKind
	Option    *Type  // SpecialOption: the wrapped type, nil means None-only
	NamedRef  string // SpecialNamed: the name being referenced
}

// DependentArg is either a concrete integer or a symbolic name, per §3's
// dependent-type value-argument description.
type DependentArg struct {
	IsSymbolic bool
	IntValue   int64
	Symbol     string
}

func (a DependentArg) String() string {
	if a.IsSymbolic {
		return a.Symbol
	}
	return fmt.Sprintf("%d", a.IntValue)
}

// Constructors. Each returns a Type value; composites/wrappers take their
// inner types by value and store a pointer internally so peeling never
// mutates a shared Type.

func Void() Type { return Type{Kind: KindPrimitive, Primitive: PrimVoid} }
func Unit() Type { return Type{Kind: KindPrimitive, Primitive: PrimUnit} }
func Bool() Type { return Type{Kind: KindPrimitive, Primitive: PrimBool} }

func Integer(width int, signed bool) Type {
	return Type{Kind: KindPrimitive, Primitive: PrimInteger, IntWidth: width, IntSigned: signed}
}

func Float(bits int) Type {
	return Type{Kind: KindPrimitive, Primitive: PrimFloat, FloatBits: bits}
}

func FixedPoint(total, frac int) Type {
	return Type{Kind: KindPrimitive, Primitive: PrimFixedPoint, FixedTotal: total, FixedFrac: frac}
}

func Tuple(elems ...Type) Type {
	return Type{Kind: KindComposite, Composite: CompositeTuple, Elements: elems}
}

func Record(names []string, elems []Type) Type {
	return Type{Kind: KindComposite, Composite: CompositeRecord, FieldNames: names, Elements: elems}
}

func Variant(tags []string, elems []Type) Type {
	return Type{Kind: KindComposite, Composite: CompositeVariant, VariantTags: tags, Elements: elems}
}

func Array(elem Type, length int) Type {
	return Type{Kind: KindComposite, Composite: CompositeArray, Elements: []Type{elem}, ArrayLen: length}
}

func Vector(elem Type) Type {
	return Type{Kind: KindComposite, Composite: CompositeVector, Elements: []Type{elem}}
}

func Refinement(base Type, pred Predicate) Type {
	return Type{Kind: KindRefinement, Base: &base, Predicate: &pred}
}

func WithLinearity(inner Type, tag LinearityWrapper) Type {
	return Type{Kind: KindLinearity, Linear: &inner, LinTag: tag}
}

func Timed(inner Type, worstCaseNs uint64, targetID string) Type {
	return Type{Kind: KindResource, Resource: &inner, ResourceKind: ResourceTimed, WorstCaseNs: worstCaseNs, TargetID: targetID}
}

func Sized(inner Type, maxBytes uint64) Type {
	return Type{Kind: KindResource, Resource: &inner, ResourceKind: ResourceSized, MaxBytes: maxBytes}
}

func Powered(inner Type, maxMicroJ uint64) Type {
	return Type{Kind: KindResource, Resource: &inner, ResourceKind: ResourcePowered, MaxMicroJ: maxMicroJ}
}

func Bandwidth(inner Type, minBytesPerS uint64) Type {
	return Type{Kind: KindResource, Resource: &inner, ResourceKind: ResourceBandwidth, MinBytesPerS: minBytesPerS}
}

func Distribution(inner Type) Type {
	return Type{Kind: KindProbability, Prob: &inner, ProbKind: ProbDistribution}
}

func Posterior(inner Type, evidenceTag string) Type {
	return Type{Kind: KindProbability, Prob: &inner, ProbKind: ProbPosterior, EvidenceTag: evidenceTag}
}

func Interval(inner Type, confidence float64) Type {
	return Type{Kind: KindProbability, Prob: &inner, ProbKind: ProbInterval, ConfidenceLvl: confidence}
}

func Approximate(inner Type, maxError float64) Type {
	return Type{Kind: KindProbability, Prob: &inner, ProbKind: ProbApproximate, MaxError: maxError}
}

func Dependent(base Type, typeArgs []Type, valueArgs []DependentArg) Type {
	return Type{Kind: KindDependent, DepBase: &base, TypeArgs: typeArgs, ValueArgs: valueArgs}
}

func Option(inner Type) Type {
	return Type{Kind: KindSpecial, Special: SpecialOption, Option: &inner}
}

func Named(name string) Type {
	return Type{Kind: KindSpecial, Special: SpecialNamed, NamedRef: name}
}

// IsWrapper reports whether t is one of the transparent wrapper families
// (refinement, linearity, resource, probability) that peeling recurses
// through.
func (t Type) IsWrapper() bool {
	switch t.Kind {
	case KindRefinement, KindLinearity, KindResource, KindProbability:
		return true
	default:
		return false
	}
}

// Inner returns the wrapped type for a wrapper Type, or t unchanged if t is
// not a wrapper.
func (t Type) Inner() Type {
	switch t.Kind {
	case KindRefinement:
		return *t.Base
	case KindLinearity:
		return *t.Linear
	case KindResource:
		return *t.Resource
	case KindProbability:
		return *t.Prob
	default:
		return t
	}
}

// Peel strips every transparent wrapper and returns the innermost base type.
func (t Type) Peel() Type {
	for t.IsWrapper() {
		t = t.Inner()
	}
	return t
}

func (t Type) String() string {
	switch t.Kind {
	case KindPrimitive:
		switch t.Primitive {
		case PrimVoid:
			return "void"
		case PrimUnit:
			return "unit"
		case PrimBool:
			return "bool"
		case PrimInteger:
			sign := "u"
			if t.IntSigned {
				sign = "i"
			}
			return fmt.Sprintf("%s%d", sign, t.IntWidth)
		case PrimFloat:
			return fmt.Sprintf("f%d", t.FloatBits)
		case PrimFixedPoint:
			return fmt.Sprintf("fixed<%d,%d>", t.FixedTotal, t.FixedFrac)
		}
	case KindComposite:
		switch t.Composite {
		case CompositeTuple:
			return "tuple"
		case CompositeRecord:
			return "record"
		case CompositeVariant:
			return "variant"
		case CompositeArray:
			return fmt.Sprintf("[%s;%d]", t.Elements[0].String(), t.ArrayLen)
		case CompositeVector:
			return fmt.Sprintf("vec<%s>", t.Elements[0].String())
		}
	case KindRefinement:
		return fmt.Sprintf("%s where %s", t.Base.String(), t.Predicate.String())
	case KindLinearity:
		return fmt.Sprintf("%s<%s>", t.LinTag.String(), t.Linear.String())
	case KindResource:
		switch t.ResourceKind {
		case ResourceTimed:
			return fmt.Sprintf("timed<%s,%dns,%s>", t.Resource.String(), t.WorstCaseNs, t.TargetID)
		case ResourceSized:
			return fmt.Sprintf("sized<%s,%db>", t.Resource.String(), t.MaxBytes)
		case ResourcePowered:
			return fmt.Sprintf("powered<%s,%duJ>", t.Resource.String(), t.MaxMicroJ)
		case ResourceBandwidth:
			return fmt.Sprintf("bandwidth<%s,%dBps>", t.Resource.String(), t.MinBytesPerS)
		}
	case KindProbability:
		switch t.ProbKind {
		case ProbDistribution:
			return fmt.Sprintf("dist<%s>", t.Prob.String())
		case ProbPosterior:
			return fmt.Sprintf("posterior<%s,%s>", t.Prob.String(), t.EvidenceTag)
		case ProbInterval:
			return fmt.Sprintf("interval<%s,%.3f>", t.Prob.String(), t.ConfidenceLvl)
		case ProbApproximate:
			return fmt.Sprintf("approx<%s,%.6f>", t.Prob.String(), t.MaxError)
		}
	case KindDependent:
		return fmt.Sprintf("%s<dependent>", t.DepBase.String())
	case KindSpecial:
		switch t.Special {
		case SpecialOption:
			return fmt.Sprintf("option<%s>", t.Option.String())
		case SpecialNamed:
			return "&" + t.NamedRef
		}
	}
	return "invalid"
}
