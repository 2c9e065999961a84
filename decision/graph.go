package decision

import (
	"time"

	"github.com/torc-lang/torc/torcerr"
)

// Graph is the parallel IR container for a set of decisions and their
// shared history log, mirroring graphir.Graph's role for the computation
// graph: every mutating operation goes through the container so it can
// enforce the transition table and the dependency-cycle invariant in one
// place.
type Graph struct {
	decisions map[string]*Decision
	history   *HistoryLog
}

// NewGraph returns an empty decision graph.
func NewGraph() *Graph {
	return &Graph{
		decisions: make(map[string]*Decision),
		history:   NewHistoryLog(),
	}
}

// Add registers d in the graph.
func (g *Graph) Add(d *Decision) {
	g.decisions[d.id] = d
}

// RestoreGraph reconstructs a Graph from already-known decisions and a
// history log, the entry point a decision-graph loader (trcformat's
// decision format) uses instead of NewGraph+Add+Transition, since replaying
// transitions through Transition would re-validate and re-log history that
// was already recorded on disk.
func RestoreGraph(decisions []*Decision, history *HistoryLog) *Graph {
	g := &Graph{decisions: make(map[string]*Decision, len(decisions)), history: history}
	for _, d := range decisions {
		g.decisions[d.id] = d
	}
	if g.history == nil {
		g.history = NewHistoryLog()
	}
	return g
}

// Get looks up a decision by id.
func (g *Graph) Get(id string) (*Decision, bool) {
	d, ok := g.decisions[id]
	return d, ok
}

// All returns every decision in the graph, in no particular order; callers
// needing determinism should sort by ID themselves (see DecisionsByState,
// which does).
func (g *Graph) All() []*Decision {
	out := make([]*Decision, 0, len(g.decisions))
	for _, d := range g.decisions {
		out = append(out, d)
	}
	return out
}

// ImpactReport lists the dependent decisions a commit or defer should
// prompt the caller to reconsider.
type ImpactReport struct {
	CommittedID string
	Dependents  []string
}

// Transition moves d from its current state to to, recording the
// transition in the graph's history log. It rejects any move the §4.6
// table does not permit.
func (g *Graph) Transition(id string, to State, rationale string) error {
	d, ok := g.decisions[id]
	if !ok {
		return &torcerr.DecisionError{DecisionID: id, Err: torcerr.ErrDecisionNotFound}
	}
	from := d.state
	if from == to {
		return nil
	}
	if !CanTransition(from, to) {
		return &torcerr.DecisionError{
			DecisionID: id,
			From:       from.String(),
			To:         to.String(),
			Err:        torcerr.ErrInvalidTransition,
		}
	}
	d.state = to
	g.history.append(id, from, to, rationale, time.Now())
	return nil
}

// Commit moves a decision to Committed with its final value, first
// checking that doing so introduces no circular dependency among the
// decisions it (transitively) depends on, per §4.6. It returns an
// ImpactReport naming every decision that declares a dependency on id, so
// the caller can decide whether those decisions' own states should be
// reconsidered.
func (g *Graph) Commit(id string, value Value, rationale string) (*ImpactReport, error) {
	d, ok := g.decisions[id]
	if !ok {
		return nil, &torcerr.DecisionError{DecisionID: id, Err: torcerr.ErrDecisionNotFound}
	}
	if g.hasCycle(id) {
		return nil, &torcerr.DecisionError{DecisionID: id, Err: torcerr.ErrCircularDependency}
	}
	if err := g.Transition(id, Committed, rationale); err != nil {
		return nil, err
	}
	d.value = value

	report := &ImpactReport{CommittedID: id}
	for _, other := range g.decisions {
		if other.id != id && other.DependentOf(id) {
			report.Dependents = append(report.Dependents, other.id)
		}
	}
	return report, nil
}

// hasCycle walks depends_on from start and reports whether start is
// reachable from itself, i.e. whether committing start would close a
// dependency cycle.
func (g *Graph) hasCycle(start string) bool {
	visited := make(map[string]bool)
	var walk func(id string) bool
	walk = func(id string) bool {
		d, ok := g.decisions[id]
		if !ok {
			return false
		}
		for _, dep := range d.dependsOn {
			if dep == start {
				return true
			}
			if visited[dep] {
				continue
			}
			visited[dep] = true
			if walk(dep) {
				return true
			}
		}
		return false
	}
	return walk(start)
}

// Defer moves a decision to Deferred, optionally recording a provisional
// value and a revisit trigger: the id of another decision. The trigger is
// only recorded; committing the trigger decision does not change this
// decision's state.
func (g *Graph) Defer(id string, provisional *Value, revisitTrigger string, rationale string) error {
	if err := g.Transition(id, Deferred, rationale); err != nil {
		return err
	}
	d := g.decisions[id]
	if provisional != nil {
		d.value = *provisional
	}
	d.revisitTrigger = revisitTrigger
	return nil
}

// StatusSummary counts decisions by state.
func (g *Graph) StatusSummary() map[State]int {
	counts := make(map[State]int)
	for _, d := range g.decisions {
		counts[d.state]++
	}
	return counts
}

// DecisionsByState returns every decision currently in state s, sorted by
// id for deterministic output.
func (g *Graph) DecisionsByState(s State) []*Decision {
	var out []*Decision
	for _, d := range g.decisions {
		if d.state == s {
			out = append(out, d)
		}
	}
	sortDecisionsByID(out)
	return out
}

// HistoryFor returns id's transition history in sequence order.
func (g *Graph) HistoryFor(id string) []HistoryEntry {
	return g.history.For(id)
}

// History returns the graph's full transition log in sequence order.
func (g *Graph) History() []HistoryEntry {
	return g.history.All()
}

func sortDecisionsByID(ds []*Decision) {
	for i := 1; i < len(ds); i++ {
		for j := i; j > 0 && ds[j-1].id > ds[j].id; j-- {
			ds[j-1], ds[j] = ds[j], ds[j-1]
		}
	}
}
