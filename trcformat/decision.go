package trcformat

import (
	"sort"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/torc-lang/torc/decision"
)

// decisionDTO mirrors decision.Decision's exported accessors; Decision
// itself keeps its fields unexported (guarded behind Commit/Defer/
// Transition), so persistence goes through this flat, CBOR-friendly shape
// instead of reflecting over the type directly.
type decisionDTO struct {
	ID             string         `cbor:"id"`
	Title          string         `cbor:"title"`
	Domain         string         `cbor:"domain"`
	Priority       int            `cbor:"priority"`
	State          decision.State `cbor:"state"`
	Value          decision.Value `cbor:"value"`
	DependsOn      []string       `cbor:"depends_on"`
	RevisitTrigger string         `cbor:"revisit_trigger"`
}

// historyEntryDTO mirrors decision.HistoryEntry, storing the timestamp as
// RFC3339 text rather than relying on a CBOR library default for time.Time.
type historyEntryDTO struct {
	Sequence   int64          `cbor:"sequence"`
	DecisionID string         `cbor:"decision_id"`
	From       decision.State `cbor:"from"`
	To         decision.State `cbor:"to"`
	Rationale  string         `cbor:"rationale"`
	Timestamp  string         `cbor:"timestamp"`
}

type decisionPayload struct {
	Decisions []decisionDTO     `cbor:"decisions"`
	History   []historyEntryDTO `cbor:"history"`
}

// SerializeDecisions encodes g into the on-disk decision-graph format: the
// same header/payload/trailer shape as the computation graph format, under
// a distinct magic, per §6.
func SerializeDecisions(g *decision.Graph) ([]byte, error) {
	all := g.All()
	sort.Slice(all, func(i, j int) bool { return all[i].ID() < all[j].ID() })

	decisions := make([]decisionDTO, 0, len(all))
	for _, d := range all {
		decisions = append(decisions, decisionDTO{
			ID:             d.ID(),
			Title:          d.Title(),
			Domain:         d.Domain(),
			Priority:       d.Priority(),
			State:          d.State(),
			Value:          d.Value(),
			DependsOn:      d.DependsOn(),
			RevisitTrigger: d.RevisitTrigger(),
		})
	}

	hist := g.History()
	history := make([]historyEntryDTO, 0, len(hist))
	for _, e := range hist {
		history = append(history, historyEntryDTO{
			Sequence:   e.Sequence,
			DecisionID: e.DecisionID,
			From:       e.From,
			To:         e.To,
			Rationale:  e.Rationale,
			Timestamp:  e.ISO8601(),
		})
	}

	payload, err := cbor.Marshal(decisionPayload{Decisions: decisions, History: history})
	if err != nil {
		return nil, err
	}

	var flags uint8
	for _, d := range decisions {
		if d.State == decision.Conflicted {
			flags |= FlagHasProofs // reuses the bit to flag an unresolved conflict requiring attention on load
		}
	}

	h := Header{
		Magic:     DecisionMagic,
		Major:     CurrentMajor,
		Minor:     CurrentMinor,
		Patch:     CurrentPatch,
		Flags:     flags,
		NodeCount: uint64(len(decisions)),
		EdgeCount: uint64(len(history)),
	}
	return assemble(h, payload), nil
}

// DeserializeDecisions decodes data, previously produced by
// SerializeDecisions, back into a decision graph, using decision.Restore/
// RestoreHistoryLog/RestoreGraph so restored decisions keep their original
// ids and states rather than being re-minted and re-transitioned.
func DeserializeDecisions(data []byte) (*decision.Graph, error) {
	_, payload, err := split(data, DecisionMagic)
	if err != nil {
		return nil, err
	}

	var body decisionPayload
	if err := cbor.Unmarshal(payload, &body); err != nil {
		return nil, err
	}

	decisions := make([]*decision.Decision, 0, len(body.Decisions))
	for _, d := range body.Decisions {
		decisions = append(decisions, decision.Restore(
			d.ID, d.Title, d.Domain, d.Priority, d.State, d.Value, d.DependsOn, d.RevisitTrigger,
		))
	}

	entries := make([]decision.HistoryEntry, 0, len(body.History))
	for _, e := range body.History {
		ts, err := time.Parse(time.RFC3339, e.Timestamp)
		if err != nil {
			return nil, err
		}
		entries = append(entries, decision.HistoryEntry{
			Sequence:   e.Sequence,
			DecisionID: e.DecisionID,
			From:       e.From,
			To:         e.To,
			Rationale:  e.Rationale,
			Timestamp:  ts,
		})
	}

	return decision.RestoreGraph(decisions, decision.RestoreHistoryLog(entries)), nil
}
