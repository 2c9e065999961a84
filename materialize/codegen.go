package materialize

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/torc-lang/torc/graphir"
	"github.com/torc-lang/torc/torcerr"
	"github.com/torc-lang/torc/ttype"
)

// Instruction is one lowered backend operation: an opcode plus the SSA
// values (by node id, port) it consumes, tied to the single SSA value the
// node's own output represents.
type Instruction struct {
	NodeID uuid.UUID
	Op     string
	Args   []string // formatted operand references: either %<node>.<port> or an immediate
}

// unsupportedLowering is the closed set of kinds §4.4 names as requiring
// an explicit codegen error rather than a lowering rule: "Iterate,
// Recurse, Fixpoint, Pow, Rotate, probabilistic nodes".
var unsupportedLowering = map[graphir.NodeKind]bool{
	graphir.KindIterate:     true,
	graphir.KindRecurse:     true,
	graphir.KindFixpoint:    true,
	graphir.KindPow:         true,
	graphir.KindRotate:      true,
	graphir.KindSample:      true,
	graphir.KindCondition:   true,
	graphir.KindExpectation: true,
	graphir.KindEntropy:     true,
	graphir.KindApproximate: true,
}

// Lower emits one Instruction per node of schedule, in schedule order,
// applying §4.4's per-kind lowering rules. It returns a MaterializationError
// naming the "codegen" stage on the first unsupported node kind, since
// extending the lowering table (not papering over the gap) is how the
// language is meant to grow.
func Lower(g *graphir.Graph, schedule Schedule) ([]Instruction, error) {
	var out []Instruction
	for _, n := range schedule.Flat() {
		if unsupportedLowering[n.Kind] {
			return nil, &torcerr.MaterializationError{
				Stage:   "codegen",
				Message: fmt.Sprintf("node kind %s has no lowering rule", n.Kind),
				Err:     torcerr.ErrCodegenFailure,
			}
		}
		instr, err := lowerNode(g, n)
		if err != nil {
			return nil, err
		}
		if instr != nil {
			out = append(out, *instr)
		}
	}
	return out, nil
}

func lowerNode(g *graphir.Graph, n *graphir.Node) (*Instruction, error) {
	args := operandRefs(g, n)

	switch n.Kind.Category() {
	case graphir.CategoryLiteral:
		return lowerLiteral(n)
	case graphir.CategoryArithmetic, graphir.CategoryBitwise:
		return &Instruction{NodeID: n.ID, Op: signedOp(n.Kind, outputSigned(n)), Args: args}, nil
	case graphir.CategoryComparison:
		return &Instruction{NodeID: n.ID, Op: signedOp(n.Kind, inputSigned(n)), Args: args}, nil
	case graphir.CategoryConversion:
		return lowerConvert(n, args)
	case graphir.CategoryControl:
		if n.Kind == graphir.KindSelect {
			if len(args) != 3 {
				return nil, &torcerr.MaterializationError{
					Stage: "codegen", Message: "select requires exactly three inputs", Err: torcerr.ErrCodegenFailure,
				}
			}
		}
		return &Instruction{NodeID: n.ID, Op: strings.ToLower(n.Kind.String()), Args: args}, nil
	default:
		return &Instruction{NodeID: n.ID, Op: strings.ToLower(n.Kind.String()), Args: args}, nil
	}
}

func operandRefs(g *graphir.Graph, n *graphir.Node) []string {
	in := g.IncomingEdges(n.ID)
	refs := make([]string, len(in))
	for i, e := range in {
		refs[i] = fmt.Sprintf("%%%s.%d", e.SourceNode, e.SourcePort)
	}
	return refs
}

func lowerLiteral(n *graphir.Node) (*Instruction, error) {
	if len(n.OutputTypes) != 1 {
		return nil, &torcerr.MaterializationError{
			Stage: "codegen", Message: "literal node must declare exactly one output type", Err: torcerr.ErrCodegenFailure,
		}
	}
	if _, ok := parseNumericLiteral(n.LiteralRepr); !ok && n.OutputTypes[0].Primitive != ttype.PrimBool {
		return nil, &torcerr.MaterializationError{
			Stage:   "codegen",
			Message: fmt.Sprintf("cannot parse literal %q against output type", n.LiteralRepr),
			Err:     torcerr.ErrCodegenFailure,
		}
	}
	// Reinterpret the literal's bit pattern against its declared width and
	// signedness before emitting: a node that reaches codegen without having
	// gone through Canonicalize first (e.g. a literal lowered standalone)
	// must still see 0xFF read back as -1 against an i8 output, not 255.
	repr := canonicalIntegerLiteral(n.LiteralRepr, n.OutputTypes[0])
	return &Instruction{NodeID: n.ID, Op: "const", Args: []string{repr}}, nil
}

func lowerConvert(n *graphir.Node, args []string) (*Instruction, error) {
	if len(n.InputTypes) != 1 || len(n.OutputTypes) != 1 {
		return nil, &torcerr.MaterializationError{
			Stage: "codegen", Message: "convert requires exactly one input and one output type", Err: torcerr.ErrCodegenFailure,
		}
	}
	from, to := n.InputTypes[0], n.OutputTypes[0]
	switch {
	case from.Primitive == ttype.PrimInteger && to.Primitive == ttype.PrimInteger:
		if to.IntWidth < from.IntWidth {
			return &Instruction{NodeID: n.ID, Op: "itrunc", Args: args}, nil
		}
		if to.IntSigned {
			return &Instruction{NodeID: n.ID, Op: "sext", Args: args}, nil
		}
		return &Instruction{NodeID: n.ID, Op: "zext", Args: args}, nil
	case from.Primitive == ttype.PrimInteger && to.Primitive == ttype.PrimFloat:
		if from.IntSigned {
			return &Instruction{NodeID: n.ID, Op: "sitofp", Args: args}, nil
		}
		return &Instruction{NodeID: n.ID, Op: "uitofp", Args: args}, nil
	case from.Primitive == ttype.PrimFloat && to.Primitive == ttype.PrimInteger:
		if to.IntSigned {
			return &Instruction{NodeID: n.ID, Op: "fptosi", Args: args}, nil
		}
		return &Instruction{NodeID: n.ID, Op: "fptoui", Args: args}, nil
	case from.Primitive == ttype.PrimFloat && to.Primitive == ttype.PrimFloat:
		if to.FloatBits < from.FloatBits {
			return &Instruction{NodeID: n.ID, Op: "fptrunc", Args: args}, nil
		}
		return &Instruction{NodeID: n.ID, Op: "fpext", Args: args}, nil
	case from.Primitive == ttype.PrimBool && to.Primitive == ttype.PrimInteger:
		return &Instruction{NodeID: n.ID, Op: "zext", Args: args}, nil
	default:
		return &Instruction{NodeID: n.ID, Op: "bitcast", Args: args}, nil
	}
}

func outputSigned(n *graphir.Node) bool {
	if len(n.OutputTypes) == 1 && n.OutputTypes[0].Primitive == ttype.PrimInteger {
		return n.OutputTypes[0].IntSigned
	}
	return true
}

func inputSigned(n *graphir.Node) bool {
	if len(n.InputTypes) >= 1 && n.InputTypes[0].Primitive == ttype.PrimInteger {
		return n.InputTypes[0].IntSigned
	}
	return true
}

func signedOp(kind graphir.NodeKind, signed bool) string {
	base := strings.ToLower(kind.String())
	if kind.Category() != graphir.CategoryArithmetic && kind.Category() != graphir.CategoryComparison {
		return base
	}
	if signed {
		return "s" + base
	}
	return "u" + base
}

// Emit lowers g per schedule and renders the result according to config's
// emit target: graph-stats produces a human-readable summary with no
// files; ir renders the instruction stream as text; object/executable
// additionally wrap that same instruction stream as a named output file,
// since this engine owns no machine-code backend — only the IR it would
// feed to one.
func Emit(g *graphir.Graph, schedule Schedule, layout Layout, fit ResourceFitReport, config *CodegenConfig) (*Artifact, []byte, error) {
	stats := graphir.ComputeStats(g)

	if config == nil || config.EmitTarget == EmitGraphStats {
		body := fmt.Sprintf("nodes=%d edges=%d regions=%d peak_stack=%d\n",
			stats.NodeCount, stats.EdgeCount, stats.RegionCount, layout.PeakStack)
		return &Artifact{Target: EmitGraphStats, PrimaryBytes: int64(len(body))}, []byte(body), nil
	}

	instrs, err := Lower(g, schedule)
	if err != nil {
		return nil, nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "; function %s, optimization=%s\n", config.FunctionName, config.Optimization)
	for _, instr := range instrs {
		fmt.Fprintf(&b, "%%%s.0 = %s %s\n", instr.NodeID, instr.Op, strings.Join(instr.Args, ", "))
	}
	body := []byte(b.String())

	artifact := &Artifact{Target: config.EmitTarget, PrimaryBytes: int64(len(body))}
	if config.EmitTarget == EmitIR {
		if config.OutputDir != "" {
			artifact.PrimaryPath = filepath.Join(config.OutputDir, config.FunctionName+".ir")
		}
		return artifact, body, nil
	}

	ext := ".o"
	if config.EmitTarget == EmitExecutable {
		ext = ""
	}
	if config.OutputDir != "" {
		artifact.PrimaryPath = filepath.Join(config.OutputDir, config.FunctionName+ext)
	}
	return artifact, body, nil
}
