package verify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/torc-lang/torc/contract"
	"github.com/torc-lang/torc/graphir"
	"github.com/torc-lang/torc/torcerr"
	"github.com/torc-lang/torc/ttype"
)

// Obligation is a proof obligation assigned a stable numeric id for a
// single verification run, carrying everything the pipeline stages need:
// the predicate to discharge, an environment of concrete variable bindings
// recovered from literal nodes (used by the interval pre-screen and the SMT
// translation), and the entity that generated it for diagnostics.
type Obligation struct {
	ID          int
	Kind        ttype.ObligationKind
	Predicate   ttype.Predicate
	Description string
	Env         Env
	NodeID      string
	EdgeID      string

	contract.ProofObligation

	// counterexample holds the witness model from a Disproven SMT verdict,
	// surfaced in the obligation's Diagnostic but not part of its identity.
	counterexample map[string]string
}

// Collect walks g and gathers every obligation §4.2's contract obligation
// generation and §4.3 stage 1 call for: per-contract pre/postconditions and
// resource bounds, per-edge postcondition-implies-precondition obligations,
// a Termination obligation for every Iterate/Recurse/Fixpoint node, and the
// obligations ttype.Compatible generates for every type-signed edge. It also
// returns the structural diagnostics validation already knows how to find,
// so a single Collect call is the pipeline's entire "walk the graph" step.
func Collect(g *graphir.Graph) ([]*Obligation, torcerr.ValidationErrors) {
	var obligations []*Obligation
	nextID := 1
	add := func(kind ttype.ObligationKind, pred ttype.Predicate, desc string, env Env, nodeID, edgeID string) {
		obligations = append(obligations, &Obligation{
			ID: nextID, Kind: kind, Predicate: pred, Description: desc, Env: env,
			NodeID: nodeID, EdgeID: edgeID,
			ProofObligation: contract.ProofObligation{Kind: kind, Predicate: pred, Description: desc, Status: contract.StatusPending},
		})
		nextID++
	}

	nodes := g.Nodes()
	sortNodesByID(nodes)
	for _, n := range nodes {
		if n.Contract == nil {
			if n.Kind.MayCloseCycle() {
				add(ttype.ObligationTermination, ttype.BoolLit(true),
					fmt.Sprintf("termination obligation for %s node %s", n.Kind, n.ID), nil, n.ID.String(), "")
			}
			continue
		}
		c := n.Contract
		for i, pre := range c.Preconditions {
			add(ttype.ObligationPrecondition, pre, fmt.Sprintf("precondition[%d] of node %s", i, n.ID), nil, n.ID.String(), "")
		}
		for i, post := range c.Postconditions {
			add(ttype.ObligationPostcondition, post, fmt.Sprintf("postcondition[%d] of node %s", i, n.ID), nil, n.ID.String(), "")
		}
		for _, desc := range resourceBoundDescriptions(c) {
			add(ttype.ObligationResourceBound, ttype.BoolLit(true), desc, nil, n.ID.String(), "")
		}
		if n.Kind.MayCloseCycle() {
			add(ttype.ObligationTermination, ttype.BoolLit(true),
				fmt.Sprintf("termination obligation for %s node %s", n.Kind, n.ID), nil, n.ID.String(), "")
		}
	}

	edges := g.Edges()
	sortEdgesByID(edges)
	for _, e := range edges {
		src, srcOK := g.Node(e.SourceNode)
		tgt, tgtOK := g.Node(e.TargetNode)
		if !srcOK || !tgtOK {
			continue
		}

		if src.Contract != nil && tgt.Contract != nil {
			for _, post := range src.Contract.Postconditions {
				for _, pre := range tgt.Contract.Preconditions {
					add(ttype.ObligationPrecondition, ttype.Implies(post, pre),
						fmt.Sprintf("postcondition of %s implies precondition of %s", src.ID, tgt.ID), nil, "", e.ID.String())
				}
			}
		}

		if src.HasSignature() && tgt.HasSignature() &&
			e.SourcePort >= 0 && e.SourcePort < len(src.OutputTypes) &&
			e.TargetPort >= 0 && e.TargetPort < len(tgt.InputTypes) {
			sourceType := src.OutputTypes[e.SourcePort]
			targetType := tgt.InputTypes[e.TargetPort]
			generated, err := ttype.Compatible(sourceType, targetType)
			if err != nil {
				continue // reported as a TypeMismatchError by graphir.Validate, not an obligation
			}
			env := literalEnv(src)
			for _, gob := range generated {
				add(gob.Kind, gob.Predicate, gob.Description, env, "", e.ID.String())
			}
		}
	}

	return obligations, graphir.Validate(g)
}

// resourceBoundDescriptions names every present (non-nil) resource bound
// field on c, one obligation per bound, per §4.2's "each present resource
// bound".
func resourceBoundDescriptions(c *contract.Contract) []string {
	var out []string
	if c.Time.WorstCaseNs != nil {
		out = append(out, "time bound: worst-case")
	}
	if c.Time.TargetNs != nil {
		out = append(out, "time bound: target")
	}
	if c.Memory.PeakBytes != nil {
		out = append(out, "memory bound: peak")
	}
	if c.Energy.MaxMicroJoules != nil {
		out = append(out, "energy bound: max")
	}
	if c.Stack.MaxBytes != nil {
		out = append(out, "stack bound: max")
	}
	return out
}

// literalEnv binds the refinement predicate's conventional bound variable
// ("value") to a literal source node's concrete constant, letting the
// interval pre-screen discharge obligations like "i32 where value > 0" fed
// by a literal "5" without escalating to SMT (§8 end-to-end scenario 4).
func literalEnv(src *graphir.Node) Env {
	if src.Kind != graphir.KindLiteral || src.LiteralRepr == "" {
		return nil
	}
	if v, ok := parseLiteralNumber(src.LiteralRepr); ok {
		return Env{"value": v}
	}
	return nil
}

func parseLiteralNumber(repr string) (float64, bool) {
	s := strings.TrimSpace(repr)
	switch strings.ToLower(s) {
	case "true":
		return 1, true
	case "false":
		return 0, true
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if v, err := strconv.ParseInt(s[2:], 16, 64); err == nil {
			return float64(v), true
		}
		return 0, false
	}
	if strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O") {
		if v, err := strconv.ParseInt(s[2:], 8, 64); err == nil {
			return float64(v), true
		}
		return 0, false
	}
	if strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B") {
		if v, err := strconv.ParseInt(s[2:], 2, 64); err == nil {
			return float64(v), true
		}
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	return 0, false
}

func sortNodesByID(nodes []*graphir.Node) {
	sortBy(nodes, func(n *graphir.Node) uuid.UUID { return n.ID })
}

func sortEdgesByID(edges []*graphir.Edge) {
	sortBy(edges, func(e *graphir.Edge) uuid.UUID { return e.ID })
}

// sortBy is a tiny insertion sort keyed by uuid string, avoiding a generic
// sort.Interface boilerplate type per call site — obligation collection
// needs deterministic id assignment (§4.3 stage 1 "assign each obligation a
// stable numeric id per run"), matching the ordering guarantee topological
// sort already provides.
func sortBy[T any](items []T, key func(T) uuid.UUID) {
	for i := 1; i < len(items); i++ {
		j := i
		for j > 0 && key(items[j-1]).String() > key(items[j]).String() {
			items[j-1], items[j] = items[j], items[j-1]
			j--
		}
	}
}
