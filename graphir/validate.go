package graphir

import (
	"github.com/google/uuid"
	"github.com/torc-lang/torc/torcerr"
	"github.com/torc-lang/torc/ttype"
)

// Validate re-checks every invariant in §3 against g's current state and
// returns every violation found (not just the first), mirroring the
// teacher's ValidationErrors accumulation style. Invariants 1-4 are
// enforced incrementally by AddNode/AddEdge/AddRegion; Validate re-derives
// them to catch any structural corruption (e.g. a graph loaded from the
// binary format with hand-edited bytes) plus invariant 5 (index
// consistency), which only a full pass can check.
func Validate(g *Graph) torcerr.ValidationErrors {
	var errs torcerr.ValidationErrors

	for _, e := range g.edges {
		if _, ok := g.nodes[e.SourceNode]; !ok {
			errs = append(errs, &DanglingEdgeError{EdgeID: e.ID, NodeID: e.SourceNode, End: "source"})
		}
		if _, ok := g.nodes[e.TargetNode]; !ok {
			errs = append(errs, &DanglingEdgeError{EdgeID: e.ID, NodeID: e.TargetNode, End: "target"})
		}
		if src, ok := g.nodes[e.SourceNode]; ok && src.HasSignature() {
			if e.SourcePort < 0 || e.SourcePort >= len(src.OutputTypes) {
				errs = append(errs, &PortOutOfRangeError{EdgeID: e.ID, NodeID: src.ID, Port: e.SourcePort, End: "source"})
			}
		}
		if tgt, ok := g.nodes[e.TargetNode]; ok && tgt.HasSignature() {
			if e.TargetPort < 0 || e.TargetPort >= len(tgt.InputTypes) {
				errs = append(errs, &PortOutOfRangeError{EdgeID: e.ID, NodeID: tgt.ID, Port: e.TargetPort, End: "target"})
			}
		}
	}

	for _, r := range g.regions {
		seen := make(map[uuid.UUID]bool, len(r.Children))
		for _, childID := range r.Children {
			if _, ok := g.nodes[childID]; !ok {
				errs = append(errs, &NodeNotFoundError{NodeID: childID})
				continue
			}
			if seen[childID] {
				errs = append(errs, &DuplicateRegionChildError{RegionID: r.ID, NodeID: childID})
			}
			seen[childID] = true
		}
		if r.ParentID != nil {
			if _, ok := g.regions[*r.ParentID]; !ok {
				errs = append(errs, &RegionNotFoundError{RegionID: *r.ParentID})
			}
		}
	}

	errs = append(errs, validateIndexConsistency(g)...)
	errs = append(errs, ValidateTypeEdges(g)...)
	errs = append(errs, ValidateLinearity(g)...)
	errs = append(errs, ValidateEffects(g)...)

	return errs
}

// validateIndexConsistency checks invariant 5: derived indices must agree
// exactly with what the primary maps imply.
func validateIndexConsistency(g *Graph) torcerr.ValidationErrors {
	var errs torcerr.ValidationErrors

	expectedOutgoing := make(map[uuid.UUID]map[uuid.UUID]bool)
	expectedIncoming := make(map[uuid.UUID]map[uuid.UUID]bool)
	for _, e := range g.edges {
		if expectedOutgoing[e.SourceNode] == nil {
			expectedOutgoing[e.SourceNode] = make(map[uuid.UUID]bool)
		}
		expectedOutgoing[e.SourceNode][e.ID] = true
		if expectedIncoming[e.TargetNode] == nil {
			expectedIncoming[e.TargetNode] = make(map[uuid.UUID]bool)
		}
		expectedIncoming[e.TargetNode][e.ID] = true
	}
	for nodeID, ids := range g.outgoing {
		for _, id := range ids {
			if !expectedOutgoing[nodeID][id] {
				errs = append(errs, &torcerr.StructuralError{Kind: "index", ID: id.String(),
					Detail: "outgoing index references edge not sourced from this node", Err: torcerr.ErrDanglingEdge})
			}
		}
	}
	for nodeID, ids := range g.incoming {
		for _, id := range ids {
			if !expectedIncoming[nodeID][id] {
				errs = append(errs, &torcerr.StructuralError{Kind: "index", ID: id.String(),
					Detail: "incoming index references edge not targeting this node", Err: torcerr.ErrDanglingEdge})
			}
		}
	}

	for regionID, kids := range g.regionKids {
		r, ok := g.regions[regionID]
		if !ok {
			continue
		}
		if len(kids) != len(r.Children) {
			errs = append(errs, &torcerr.StructuralError{Kind: "index", ID: regionID.String(),
				Detail: "region child index out of sync with Region.Children", Err: torcerr.ErrDuplicateRegionKid})
		}
	}

	return errs
}

// ValidateTypeEdges checks that every edge whose endpoints both declare a
// type signature carries a type compatible with the target's input type.
func ValidateTypeEdges(g *Graph) torcerr.ValidationErrors {
	var errs torcerr.ValidationErrors
	for _, e := range g.edges {
		src, srcOK := g.nodes[e.SourceNode]
		tgt, tgtOK := g.nodes[e.TargetNode]
		if !srcOK || !tgtOK || !src.HasSignature() || !tgt.HasSignature() {
			continue
		}
		if e.SourcePort < 0 || e.SourcePort >= len(src.OutputTypes) ||
			e.TargetPort < 0 || e.TargetPort >= len(tgt.InputTypes) {
			continue // already reported by port-range checks
		}
		sourceType := src.OutputTypes[e.SourcePort]
		targetType := tgt.InputTypes[e.TargetPort]
		if _, err := ttype.Compatible(sourceType, targetType); err != nil {
			errs = append(errs, &torcerr.TypeMismatchError{
				EdgeID:   e.ID.String(),
				Expected: targetType.String(),
				Found:    sourceType.String(),
			})
		}
	}
	return errs
}

// ValidateLinearity checks that every Linear-tagged output port is consumed
// by exactly one edge and every Affine-tagged output port by at most one.
func ValidateLinearity(g *Graph) torcerr.ValidationErrors {
	var errs torcerr.ValidationErrors

	consumers := make(map[uuid.UUID]map[int]int) // nodeID -> port -> consumer count
	for _, e := range g.edges {
		if consumers[e.SourceNode] == nil {
			consumers[e.SourceNode] = make(map[int]int)
		}
		consumers[e.SourceNode][e.SourcePort]++
	}

	for _, n := range g.nodes {
		if !n.HasSignature() {
			continue
		}
		for port, outType := range n.OutputTypes {
			w, ok := findLinearityWrapper(outType)
			if !ok {
				continue
			}
			count := consumers[n.ID][port]
			lin := w.AsLinearity()
			switch lin {
			case ttype.Linear:
				if count != 1 {
					errs = append(errs, &torcerr.LinearityError{NodeID: n.ID.String(), Port: port, Kind: w.String(), Consumers: count})
				}
			case ttype.Affine:
				if count > 1 {
					errs = append(errs, &torcerr.LinearityError{NodeID: n.ID.String(), Port: port, Kind: w.String(), Consumers: count})
				}
			}
		}
	}
	return errs
}

func findLinearityWrapper(t ttype.Type) (ttype.LinearityWrapper, bool) {
	for t.IsWrapper() {
		if t.Kind == ttype.KindLinearity {
			return t.LinTag, true
		}
		t = t.Inner()
	}
	return 0, false
}

// ValidateEffects checks that a node's declared effect set (on its
// contract, if any) is a superset of every predecessor's declared effects
// reachable along a data edge — effects propagate forward (§3).
func ValidateEffects(g *Graph) torcerr.ValidationErrors {
	var errs torcerr.ValidationErrors
	for _, e := range g.edges {
		src, srcOK := g.nodes[e.SourceNode]
		tgt, tgtOK := g.nodes[e.TargetNode]
		if !srcOK || !tgtOK || src.Contract == nil || tgt.Contract == nil {
			continue
		}
		if !src.Contract.Effects.Subset(tgt.Contract.Effects) {
			errs = append(errs, &torcerr.EffectError{
				NodeID:   tgt.ID.String(),
				Declared: tgt.Contract.Effects.String(),
				Required: src.Contract.Effects.String(),
			})
		}
	}
	return errs
}
