package graphir

import (
	"sort"

	"github.com/google/uuid"
)

// TopologicalSort performs Kahn's algorithm over g and returns execution
// waves (groups of nodes with no remaining unprocessed dependency, so every
// node within a wave may run in parallel), exactly as the teacher's
// engine.TopologicalSort computes workflow waves. Every edge counts toward
// its target's in-degree with no up-front exemption; when the algorithm
// stalls (no node has in-degree zero but unprocessed nodes remain), a node
// whose kind may legitimately close a cycle (Iterate, Recurse, Fixpoint per
// NodeKind.MayCloseCycle) is forced through — its remaining incoming edges
// are treated as back-edges by zeroing its in-degree — before falling back
// to a genuine CycleError. This mirrors the original engine's stuck-queue
// handling exactly (graph/mod.rs's "stuck on a cycle" branch).
func TopologicalSort(g *Graph) ([][]*Node, error) {
	inDegree := make(map[uuid.UUID]int, len(g.nodes))
	forward := make(map[uuid.UUID][]uuid.UUID, len(g.nodes))

	for id := range g.nodes {
		inDegree[id] = 0
	}
	for _, e := range g.edges {
		inDegree[e.TargetNode]++
		forward[e.SourceNode] = append(forward[e.SourceNode], e.TargetNode)
	}

	var waves [][]*Node
	processed := 0
	remaining := make(map[uuid.UUID]int, len(inDegree))
	for k, v := range inDegree {
		remaining[k] = v
	}

	for processed < len(g.nodes) {
		var wave []*Node
		for id, degree := range remaining {
			if degree == 0 {
				if n, ok := g.nodes[id]; ok {
					wave = append(wave, n)
				}
			}
		}
		if len(wave) == 0 {
			exempt, ok := pickCycleExemptNode(g, remaining)
			if !ok {
				var left []uuid.UUID
				for id := range remaining {
					left = append(left, id)
				}
				sortNodeIDs(left)
				return nil, &CycleError{RemainingNodeIDs: left}
			}
			remaining[exempt] = 0
			continue
		}

		// Deterministic ordering: ties within a wave break by node id,
		// lexicographically, per §5 "Ordering guarantees".
		sortNodes(wave)

		for _, n := range wave {
			delete(remaining, n.ID)
			processed++
			for _, childID := range forward[n.ID] {
				remaining[childID]--
			}
		}
		waves = append(waves, wave)
	}

	return waves, nil
}

// pickCycleExemptNode selects, deterministically, the lowest-id node among
// remaining with a nonzero in-degree whose kind may close a cycle
// (Iterate/Recurse/Fixpoint). It reports false if no such node exists,
// meaning the stall is a genuine cycle.
func pickCycleExemptNode(g *Graph, remaining map[uuid.UUID]int) (uuid.UUID, bool) {
	var candidates []uuid.UUID
	for id, degree := range remaining {
		if degree == 0 {
			continue
		}
		n, ok := g.nodes[id]
		if !ok || !n.Kind.MayCloseCycle() {
			continue
		}
		candidates = append(candidates, id)
	}
	if len(candidates) == 0 {
		return uuid.UUID{}, false
	}
	sortNodeIDs(candidates)
	return candidates[0], true
}

func sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID.String() < nodes[j].ID.String()
	})
}

func sortNodeIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
}

// Flatten converts wave-based topology to a flat sequential order.
func Flatten(waves [][]*Node) []*Node {
	var out []*Node
	for _, wave := range waves {
		out = append(out, wave...)
	}
	return out
}
