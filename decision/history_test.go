package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHistoryLog_AppendAssignsMonotonicSequence(t *testing.T) {
	h := NewHistoryLog()
	e1 := h.append("a", Unexplored, Exploring, "", time.Now())
	e2 := h.append("a", Exploring, Committed, "", time.Now())
	e3 := h.append("b", Unexplored, Deferred, "", time.Now())

	assert.Equal(t, int64(1), e1.Sequence)
	assert.Equal(t, int64(2), e2.Sequence)
	assert.Equal(t, int64(3), e3.Sequence)
}

func TestHistoryLog_ForFiltersByDecision(t *testing.T) {
	h := NewHistoryLog()
	h.append("a", Unexplored, Exploring, "", time.Now())
	h.append("b", Unexplored, Deferred, "", time.Now())
	h.append("a", Exploring, Committed, "", time.Now())

	forA := h.For("a")
	assert.Len(t, forA, 2)
	assert.Equal(t, Exploring, forA[0].To)
	assert.Equal(t, Committed, forA[1].To)
}

func TestHistoryEntry_ISO8601(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	e := HistoryEntry{Timestamp: fixed}
	assert.Equal(t, "2026-01-02T15:04:05Z", e.ISO8601())
}
