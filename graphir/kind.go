package graphir

// NodeKind is the closed enum of ~30 operation families a Node may carry.
// Kinds cluster by category; the clustering is exposed via the Category
// method rather than separate Go types because validation, scheduling, and
// lowering all need to switch on the same flat value.
type NodeKind int

const (
	KindLiteral NodeKind = iota

	// Arithmetic
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindMod
	KindPow

	// Bitwise
	KindAnd
	KindOr
	KindXor
	KindNot
	KindShl
	KindShr
	KindRotate

	// Comparison
	KindEq
	KindNe
	KindLt
	KindLe
	KindGt
	KindGe

	KindConvert

	// Construct/destructure for product types
	KindConstruct
	KindDestructure

	// Indexing/slicing
	KindIndex
	KindSlice

	// Control
	KindSelect
	KindSwitch

	// Iteration/recursion/fixpoint — the only kinds allowed to close cycles
	KindIterate
	KindRecurse
	KindFixpoint

	// Memory
	KindAlloc
	KindDealloc
	KindMemRead
	KindMemWrite

	// Atomic/fence
	KindAtomic
	KindFence

	KindSyscall
	KindFFICall

	// Verify/assume
	KindVerify
	KindAssume

	// Measure/checkpoint/annotate
	KindMeasure
	KindCheckpoint
	KindAnnotate

	// Probabilistic
	KindSample
	KindCondition
	KindExpectation
	KindEntropy
	KindApproximate
)

// Category groups node kinds the way §3 clusters them, used by validators
// and the scheduler to apply category-wide rules without an exhaustive
// per-kind switch everywhere.
type Category int

const (
	CategoryLiteral Category = iota
	CategoryArithmetic
	CategoryBitwise
	CategoryComparison
	CategoryConversion
	CategoryProduct
	CategoryIndexing
	CategoryControl
	CategoryIteration
	CategoryMemory
	CategoryAtomic
	CategorySyscall
	CategoryFFI
	CategoryVerification
	CategoryObservability
	CategoryProbabilistic
)

var kindCategory = map[NodeKind]Category{
	KindLiteral:      CategoryLiteral,
	KindAdd:          CategoryArithmetic,
	KindSub:          CategoryArithmetic,
	KindMul:          CategoryArithmetic,
	KindDiv:          CategoryArithmetic,
	KindMod:          CategoryArithmetic,
	KindPow:          CategoryArithmetic,
	KindAnd:          CategoryBitwise,
	KindOr:           CategoryBitwise,
	KindXor:          CategoryBitwise,
	KindNot:          CategoryBitwise,
	KindShl:          CategoryBitwise,
	KindShr:          CategoryBitwise,
	KindRotate:       CategoryBitwise,
	KindEq:           CategoryComparison,
	KindNe:           CategoryComparison,
	KindLt:           CategoryComparison,
	KindLe:           CategoryComparison,
	KindGt:           CategoryComparison,
	KindGe:           CategoryComparison,
	KindConvert:      CategoryConversion,
	KindConstruct:    CategoryProduct,
	KindDestructure:  CategoryProduct,
	KindIndex:        CategoryIndexing,
	KindSlice:        CategoryIndexing,
	KindSelect:       CategoryControl,
	KindSwitch:       CategoryControl,
	KindIterate:      CategoryIteration,
	KindRecurse:      CategoryIteration,
	KindFixpoint:     CategoryIteration,
	KindAlloc:        CategoryMemory,
	KindDealloc:      CategoryMemory,
	KindMemRead:      CategoryMemory,
	KindMemWrite:     CategoryMemory,
	KindAtomic:       CategoryAtomic,
	KindFence:        CategoryAtomic,
	KindSyscall:      CategorySyscall,
	KindFFICall:      CategoryFFI,
	KindVerify:       CategoryVerification,
	KindAssume:       CategoryVerification,
	KindMeasure:      CategoryObservability,
	KindCheckpoint:   CategoryObservability,
	KindAnnotate:     CategoryObservability,
	KindSample:       CategoryProbabilistic,
	KindCondition:    CategoryProbabilistic,
	KindExpectation:  CategoryProbabilistic,
	KindEntropy:      CategoryProbabilistic,
	KindApproximate:  CategoryProbabilistic,
}

// Category returns the cluster k belongs to.
func (k NodeKind) Category() Category { return kindCategory[k] }

// MayCloseCycle reports whether k is one of the three kinds the topological
// sort exempts from the acyclicity requirement (Iterate, Recurse, Fixpoint).
func (k NodeKind) MayCloseCycle() bool {
	return k == KindIterate || k == KindRecurse || k == KindFixpoint
}

var kindNames = map[NodeKind]string{
	KindLiteral: "literal", KindAdd: "add", KindSub: "sub", KindMul: "mul", KindDiv: "div",
	KindMod: "mod", KindPow: "pow", KindAnd: "and", KindOr: "or", KindXor: "xor", KindNot: "not",
	KindShl: "shl", KindShr: "shr", KindRotate: "rotate", KindEq: "eq", KindNe: "ne", KindLt: "lt",
	KindLe: "le", KindGt: "gt", KindGe: "ge", KindConvert: "convert", KindConstruct: "construct",
	KindDestructure: "destructure", KindIndex: "index", KindSlice: "slice", KindSelect: "select",
	KindSwitch: "switch", KindIterate: "iterate", KindRecurse: "recurse", KindFixpoint: "fixpoint",
	KindAlloc: "alloc", KindDealloc: "dealloc", KindMemRead: "mem_read", KindMemWrite: "mem_write",
	KindAtomic: "atomic", KindFence: "fence", KindSyscall: "syscall", KindFFICall: "ffi_call",
	KindVerify: "verify", KindAssume: "assume", KindMeasure: "measure", KindCheckpoint: "checkpoint",
	KindAnnotate: "annotate", KindSample: "sample", KindCondition: "condition",
	KindExpectation: "expectation", KindEntropy: "entropy", KindApproximate: "approximate",
}

func (k NodeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// RegionKind is the closed enum of region execution disciplines.
type RegionKind int

const (
	RegionSequential RegionKind = iota
	RegionParallel
	RegionAtomic
)

func (r RegionKind) String() string {
	switch r {
	case RegionSequential:
		return "sequential"
	case RegionParallel:
		return "parallel"
	case RegionAtomic:
		return "atomic"
	default:
		return "unknown"
	}
}

// EdgeLifetime tags how long an edge's value must remain valid.
type EdgeLifetime int

const (
	LifetimeStatic EdgeLifetime = iota
	LifetimeManual
	LifetimeBounded
)

func (l EdgeLifetime) String() string {
	switch l {
	case LifetimeStatic:
		return "static"
	case LifetimeManual:
		return "manual"
	case LifetimeBounded:
		return "bounded"
	default:
		return "unknown"
	}
}
