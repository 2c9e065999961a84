package decision

import "time"

// HistoryEntry is one appended transition record. Sequence is monotonically
// increasing across the whole owning Graph, not per-decision, so
// History entries from different decisions can be interleaved and still
// sorted into a single global order.
type HistoryEntry struct {
	Sequence  int64
	DecisionID string
	From      State
	To        State
	Rationale string
	Timestamp time.Time
}

// ISO8601 formats the entry's timestamp the way §4.6 requires for
// persisted history logs.
func (h HistoryEntry) ISO8601() string {
	return h.Timestamp.Format(time.RFC3339)
}

// HistoryLog is an append-only, monotonically sequenced transition journal
// shared by every decision in a Graph.
type HistoryLog struct {
	entries []HistoryEntry
	nextSeq int64
}

// NewHistoryLog returns an empty log starting sequence numbering at 1.
func NewHistoryLog() *HistoryLog {
	return &HistoryLog{nextSeq: 1}
}

// append records a transition and returns the appended entry, carrying
// its assigned sequence number. now is accepted as a parameter (rather than taken via time.Now)
// so callers constructing deterministic test fixtures can pin it.
func (h *HistoryLog) append(decisionID string, from, to State, rationale string, now time.Time) HistoryEntry {
	entry := HistoryEntry{
		Sequence:   h.nextSeq,
		DecisionID: decisionID,
		From:       from,
		To:         to,
		Rationale:  rationale,
		Timestamp:  now,
	}
	h.nextSeq++
	h.entries = append(h.entries, entry)
	return entry
}

// All returns every recorded transition in sequence order.
func (h *HistoryLog) All() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// For returns every transition recorded against decisionID, in sequence
// order, the implementation behind Graph.HistoryFor.
func (h *HistoryLog) For(decisionID string) []HistoryEntry {
	var out []HistoryEntry
	for _, e := range h.entries {
		if e.DecisionID == decisionID {
			out = append(out, e)
		}
	}
	return out
}

// RestoreHistoryLog reconstructs a HistoryLog from entries already on disk,
// for a decision-graph loader (trcformat's decision format): sequence
// numbering picks up from one past the highest loaded sequence, so newly
// appended transitions never collide with restored ones.
func RestoreHistoryLog(entries []HistoryEntry) *HistoryLog {
	h := &HistoryLog{entries: append([]HistoryEntry(nil), entries...), nextSeq: 1}
	for _, e := range h.entries {
		if e.Sequence >= h.nextSeq {
			h.nextSeq = e.Sequence + 1
		}
	}
	return h
}
