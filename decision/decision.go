package decision

import "github.com/google/uuid"

// Decision is one open design choice in the parallel decision graph.
// Fields are unexported, following the teacher's NodeExecutionState
// convention of guarding state behind explicit mutator methods (Commit,
// Defer, Transition) rather than allowing direct field writes that could
// bypass the transition table.
type Decision struct {
	id       string
	title    string
	domain   string
	priority int

	state State
	value Value

	dependsOn     []string
	revisitTrigger string // id of another decision recorded by Defer; Commit does not act on it
}

// New creates a decision in its initial Unexplored state with an
// Unresolved value.
func New(title, domain string, priority int, dependsOn ...string) *Decision {
	return &Decision{
		id:        uuid.New().String(),
		title:     title,
		domain:    domain,
		priority:  priority,
		state:     Unexplored,
		value:     Value{Kind: ValueUnresolved},
		dependsOn: append([]string(nil), dependsOn...),
	}
}

func (d *Decision) ID() string            { return d.id }
func (d *Decision) Title() string         { return d.title }
func (d *Decision) Domain() string        { return d.domain }
func (d *Decision) Priority() int         { return d.priority }
func (d *Decision) State() State          { return d.state }
func (d *Decision) Value() Value          { return d.value }
func (d *Decision) DependsOn() []string   { return append([]string(nil), d.dependsOn...) }
func (d *Decision) RevisitTrigger() string { return d.revisitTrigger }

// Restore reconstructs a Decision with every field pinned to an
// already-known value, used by a decision-graph loader (trcformat's
// decision format) to rebuild decisions exactly as persisted rather than
// minting fresh ids and resetting state to Unexplored.
func Restore(id, title, domain string, priority int, state State, value Value, dependsOn []string, revisitTrigger string) *Decision {
	return &Decision{
		id:             id,
		title:          title,
		domain:         domain,
		priority:       priority,
		state:          state,
		value:          value,
		dependsOn:      append([]string(nil), dependsOn...),
		revisitTrigger: revisitTrigger,
	}
}

// DependentOf reports whether d declares a dependency on otherID, used by
// Graph.Commit's impact report.
func (d *Decision) DependentOf(otherID string) bool {
	for _, id := range d.dependsOn {
		if id == otherID {
			return true
		}
	}
	return false
}
