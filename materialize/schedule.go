package materialize

import "github.com/torc-lang/torc/graphir"

// Schedule is an execution schedule: topological order refined into
// levels (longest-path from any root), per §4.4 step 4. Nodes sharing a
// level have no dependency on one another and may execute in parallel;
// this is advisory for code emission and normative for Layout's peak-stack
// computation.
type Schedule struct {
	Levels [][]*graphir.Node
}

// Flat returns the schedule's nodes in a single topological order,
// level by level.
func (s Schedule) Flat() []*graphir.Node {
	return graphir.Flatten(s.Levels)
}

// BuildSchedule computes g's schedule. graphir.TopologicalSort already
// produces Kahn's-algorithm waves, which are exactly the longest-path
// levels §4.4 asks for: a node enters a wave only once every predecessor
// has entered an earlier one, so no node's level can be shorter than its
// longest path from a root.
func BuildSchedule(g *graphir.Graph) (Schedule, error) {
	waves, err := graphir.TopologicalSort(g)
	if err != nil {
		return Schedule{}, err
	}
	return Schedule{Levels: waves}, nil
}
