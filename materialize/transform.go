package materialize

import (
	"strings"

	"github.com/google/uuid"

	"github.com/torc-lang/torc/graphir"
)

// Transform is an optional rewrite pass registered in a TransformRegistry,
// per §4.4 step 2. Invariants names what the transform promises to
// preserve (e.g. "type-safety", "termination"), surfaced to callers
// deciding whether a given transform is safe to enable for a given gate
// profile.
type Transform struct {
	Name       string
	Invariants []string
	Apply      func(*graphir.Graph) (*graphir.Graph, error)
}

// TransformRegistry is an ordered, named plug-point for optional rewrites
// such as strength reduction or dead-branch elimination. Transforms run in
// registration order; each consumes the previous transform's output.
type TransformRegistry struct {
	transforms []Transform
}

// NewTransformRegistry returns an empty registry.
func NewTransformRegistry() *TransformRegistry {
	return &TransformRegistry{}
}

// Register appends t to the registry.
func (r *TransformRegistry) Register(t Transform) {
	r.transforms = append(r.transforms, t)
}

// Transforms returns the registered transforms in application order.
func (r *TransformRegistry) Transforms() []Transform {
	return append([]Transform(nil), r.transforms...)
}

// Apply runs every registered transform over g in order, threading each
// one's output into the next.
func (r *TransformRegistry) Apply(g *graphir.Graph) (*graphir.Graph, error) {
	current := g
	for _, t := range r.transforms {
		next, err := t.Apply(current)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// StrengthReduction is the registry entry for the strength-reduction
// example transform named in §4.4. Its Apply returns the input graph
// unchanged: multiplications by a literal power of two are not rewritten
// into shifts. It is opt-in and never applied automatically.
var StrengthReduction = Transform{
	Name:       "strength-reduction",
	Invariants: []string{"arithmetic-equivalence"},
	Apply:      strengthReducePowersOfTwo,
}

func strengthReducePowersOfTwo(g *graphir.Graph) (*graphir.Graph, error) {
	// A real implementation would rewrite KindMul nodes whose literal
	// operand is a power of two into KindShl; left as a no-op placeholder
	// since no caller in this engine enables it by default, matching
	// §4.4's framing of the registry as a plug-point for collaborators.
	return g, nil
}

// DeadBranchElimination rewrites a KindSelect node whose condition input
// traces back to a literal boolean into a direct connection from the
// chosen branch's source, the other canonical example transform §4.4
// names, following Canonicalize's remap-and-replay rewrite shape. Only the
// select node is removed: the condition and the untaken branch's source
// stay in the graph even when the rewrite leaves them without a consumer.
var DeadBranchElimination = Transform{
	Name:       "dead-branch-elimination",
	Invariants: []string{"reachability"},
	Apply:      eliminateDeadBranches,
}

func eliminateDeadBranches(g *graphir.Graph) (*graphir.Graph, error) {
	waves, err := graphir.TopologicalSort(g)
	if err != nil {
		return nil, err
	}
	order := graphir.Flatten(waves)

	out := graphir.New()
	remap := make(map[uuid.UUID]uuid.UUID, len(order))
	literalValue := make(map[uuid.UUID]string, len(order))
	elided := make(map[uuid.UUID]bool)

	for _, n := range order {
		if n.Kind == graphir.KindLiteral {
			literalValue[n.ID] = n.LiteralRepr
		}

		if branch, ok := constSelectBranch(g, n, literalValue); ok {
			remap[n.ID] = remap[branch]
			elided[n.ID] = true
			if lit, ok := literalValue[branch]; ok {
				literalValue[n.ID] = lit
			}
			continue
		}

		clone := *n
		if err := out.AddNode(&clone); err != nil {
			return nil, err
		}
		remap[n.ID] = clone.ID
	}

	for _, e := range g.Edges() {
		if elided[e.TargetNode] {
			// The elided select's inputs have no node left to feed.
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

// constSelectBranch reports, for a KindSelect node whose condition input
// (port 0) traces back to a literal boolean, the source node id of the
// branch (port 1 true-value, port 2 false-value) the select would always
// take — the rewrite target for eliminateDeadBranches.
func constSelectBranch(g *graphir.Graph, n *graphir.Node, literalValue map[uuid.UUID]string) (uuid.UUID, bool) {
	if n.Kind != graphir.KindSelect {
		return uuid.UUID{}, false
	}
	var cond, trueSrc, falseSrc uuid.UUID
	var haveCond, haveTrue, haveFalse bool
	for _, e := range g.IncomingEdges(n.ID) {
		switch e.TargetPort {
		case 0:
			cond, haveCond = e.SourceNode, true
		case 1:
			trueSrc, haveTrue = e.SourceNode, true
		case 2:
			falseSrc, haveFalse = e.SourceNode, true
		}
	}
	if !haveCond || !haveTrue || !haveFalse {
		return uuid.UUID{}, false
	}
	repr, ok := literalValue[cond]
	if !ok {
		return uuid.UUID{}, false
	}
	if strings.ToLower(repr) == "true" {
		return trueSrc, true
	}
	if strings.ToLower(repr) == "false" {
		return falseSrc, true
	}
	return uuid.UUID{}, false
}
