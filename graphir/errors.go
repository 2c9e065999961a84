package graphir

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/torc-lang/torc/torcerr"
)

// NodeNotFoundError names a referenced node id absent from the graph.
type NodeNotFoundError struct{ NodeID uuid.UUID }

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node %s not found", e.NodeID)
}
func (e *NodeNotFoundError) Unwrap() error { return torcerr.ErrNodeNotFound }

// RegionNotFoundError names a referenced region id absent from the graph.
type RegionNotFoundError struct{ RegionID uuid.UUID }

func (e *RegionNotFoundError) Error() string {
	return fmt.Sprintf("region %s not found", e.RegionID)
}
func (e *RegionNotFoundError) Unwrap() error { return torcerr.ErrRegionNotFound }

// DanglingEdgeError names an edge whose source or target node id is absent.
type DanglingEdgeError struct {
	EdgeID uuid.UUID
	NodeID uuid.UUID
	End    string // "source" or "target"
}

func (e *DanglingEdgeError) Error() string {
	return fmt.Sprintf("edge %s: %s node %s not found", e.EdgeID, e.End, e.NodeID)
}
func (e *DanglingEdgeError) Unwrap() error { return torcerr.ErrDanglingEdge }

// PortOutOfRangeError names an edge endpoint whose port index exceeds the
// node's declared type signature.
type PortOutOfRangeError struct {
	EdgeID uuid.UUID
	NodeID uuid.UUID
	Port   int
	End    string
}

func (e *PortOutOfRangeError) Error() string {
	return fmt.Sprintf("edge %s: %s port %d out of range for node %s", e.EdgeID, e.End, e.Port, e.NodeID)
}
func (e *PortOutOfRangeError) Unwrap() error { return torcerr.ErrPortOutOfRange }

// DuplicateIDError names a repeated id insert (node, edge, or region).
type DuplicateIDError struct {
	Kind string
	ID   uuid.UUID
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s id %s", e.Kind, e.ID)
}
func (e *DuplicateIDError) Unwrap() error { return torcerr.ErrDuplicateID }

// DuplicateRegionChildError names a node id claimed by more than one region,
// or listed twice within the same region.
type DuplicateRegionChildError struct {
	RegionID uuid.UUID
	NodeID   uuid.UUID
}

func (e *DuplicateRegionChildError) Error() string {
	return fmt.Sprintf("region %s: node %s already assigned to a region", e.RegionID, e.NodeID)
}
func (e *DuplicateRegionChildError) Unwrap() error { return torcerr.ErrDuplicateRegionKid }

// CycleError reports a cycle found during topological sort, naming every
// node still unprocessed at termination, sorted by id.
type CycleError struct {
	RemainingNodeIDs []uuid.UUID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %d node(s) unreachable by topological order", len(e.RemainingNodeIDs))
}
func (e *CycleError) Unwrap() error { return torcerr.ErrCycleDetected }
