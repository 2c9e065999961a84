// Package graphir implements the graph intermediate representation: nodes,
// edges, regions, and the indexed Graph container, plus structural
// validation and topological scheduling over it.
package graphir

import (
	"github.com/google/uuid"
	"github.com/torc-lang/torc/contract"
	"github.com/torc-lang/torc/ttype"
)

// Node is a single operation in the graph: a kind, an optional type
// signature, an optional contract, provenance, and free-form annotations.
type Node struct {
	ID          uuid.UUID
	Kind        NodeKind
	InputTypes  []ttype.Type
	OutputTypes []ttype.Type
	Contract    *contract.Contract
	Provenance  string
	Annotations map[string]string

	// LiteralRepr holds the encoded constant for KindLiteral nodes; other
	// kinds leave it empty.
	LiteralRepr string
}

// HasSignature reports whether the node declares an input/output type
// signature; several invariants (port-bounds checking) are skipped when it
// does not, per §3.
func (n *Node) HasSignature() bool {
	return n.InputTypes != nil || n.OutputTypes != nil
}

// Edge connects an output port of one node to an input port of another.
type Edge struct {
	ID         uuid.UUID
	SourceNode uuid.UUID
	SourcePort int
	TargetNode uuid.UUID
	TargetPort int
	DataType   *ttype.Type
	Lifetime   EdgeLifetime
	BoundedNs  uint64 // meaningful only when Lifetime == LifetimeBounded
	Bandwidth  *ttype.Type // optional bandwidth constraint, a Bandwidth-wrapped type
}

// Region groups child nodes under an execution discipline (sequential,
// parallel, atomic), optionally nested under a parent region.
type Region struct {
	ID          uuid.UUID
	Kind        RegionKind
	Children    []uuid.UUID
	ParentID    *uuid.UUID
	Constraints []string // free-form execution constraints (e.g. "no-preempt")
	Interface   []int    // interface port indices exposed to the containing scope
}

// Graph is the indexed container of nodes, edges, and regions. Indices are
// derived data kept in lockstep with the primary maps by every mutator
// method; Validate re-derives and compares them against the stored copies
// as the authoritative consistency check (invariant 5).
type Graph struct {
	nodes   map[uuid.UUID]*Node
	edges   map[uuid.UUID]*Edge
	regions map[uuid.UUID]*Region

	outgoing   map[uuid.UUID][]uuid.UUID // node -> outgoing edge ids
	incoming   map[uuid.UUID][]uuid.UUID // node -> incoming edge ids
	regionKids map[uuid.UUID][]uuid.UUID // region -> child node ids (mirrors Region.Children)
	nodeRegion map[uuid.UUID]uuid.UUID   // node -> containing region, absent if none
	regionKid2 map[uuid.UUID]uuid.UUID   // region -> parent region, absent if none
}

// New returns an empty Graph ready for mutation.
func New() *Graph {
	return &Graph{
		nodes:      make(map[uuid.UUID]*Node),
		edges:      make(map[uuid.UUID]*Edge),
		regions:    make(map[uuid.UUID]*Region),
		outgoing:   make(map[uuid.UUID][]uuid.UUID),
		incoming:   make(map[uuid.UUID][]uuid.UUID),
		regionKids: make(map[uuid.UUID][]uuid.UUID),
		nodeRegion: make(map[uuid.UUID]uuid.UUID),
		regionKid2: make(map[uuid.UUID]uuid.UUID),
	}
}

// AddNode inserts n, rejecting a duplicate id (invariant 6).
func (g *Graph) AddNode(n *Node) error {
	if _, exists := g.nodes[n.ID]; exists {
		return &DuplicateIDError{Kind: "node", ID: n.ID}
	}
	g.nodes[n.ID] = n
	return nil
}

// AddEdge inserts e, rejecting a duplicate id, a dangling endpoint, or an
// out-of-range port when the relevant node declares a signature.
func (g *Graph) AddEdge(e *Edge) error {
	if _, exists := g.edges[e.ID]; exists {
		return &DuplicateIDError{Kind: "edge", ID: e.ID}
	}
	src, ok := g.nodes[e.SourceNode]
	if !ok {
		return &DanglingEdgeError{EdgeID: e.ID, NodeID: e.SourceNode, End: "source"}
	}
	tgt, ok := g.nodes[e.TargetNode]
	if !ok {
		return &DanglingEdgeError{EdgeID: e.ID, NodeID: e.TargetNode, End: "target"}
	}
	if src.HasSignature() && (e.SourcePort < 0 || e.SourcePort >= len(src.OutputTypes)) {
		return &PortOutOfRangeError{EdgeID: e.ID, NodeID: src.ID, Port: e.SourcePort, End: "source"}
	}
	if tgt.HasSignature() && (e.TargetPort < 0 || e.TargetPort >= len(tgt.InputTypes)) {
		return &PortOutOfRangeError{EdgeID: e.ID, NodeID: tgt.ID, Port: e.TargetPort, End: "target"}
	}

	g.edges[e.ID] = e
	g.outgoing[e.SourceNode] = append(g.outgoing[e.SourceNode], e.ID)
	g.incoming[e.TargetNode] = append(g.incoming[e.TargetNode], e.ID)
	return nil
}

// AddRegion inserts r, rejecting a duplicate id, a child already claimed by
// another region, or a dangling parent reference.
func (g *Graph) AddRegion(r *Region) error {
	if _, exists := g.regions[r.ID]; exists {
		return &DuplicateIDError{Kind: "region", ID: r.ID}
	}
	if r.ParentID != nil {
		if _, ok := g.regions[*r.ParentID]; !ok {
			return &RegionNotFoundError{RegionID: *r.ParentID}
		}
	}
	seen := make(map[uuid.UUID]bool, len(r.Children))
	for _, childID := range r.Children {
		if _, ok := g.nodes[childID]; !ok {
			return &NodeNotFoundError{NodeID: childID}
		}
		if seen[childID] {
			return &DuplicateRegionChildError{RegionID: r.ID, NodeID: childID}
		}
		if owner, ok := g.nodeRegion[childID]; ok && owner != r.ID {
			return &DuplicateRegionChildError{RegionID: r.ID, NodeID: childID}
		}
		seen[childID] = true
	}

	g.regions[r.ID] = r
	g.regionKids[r.ID] = append([]uuid.UUID(nil), r.Children...)
	for _, childID := range r.Children {
		g.nodeRegion[childID] = r.ID
	}
	if r.ParentID != nil {
		g.regionKid2[r.ID] = *r.ParentID
	}
	return nil
}

// Node looks up a node by id.
func (g *Graph) Node(id uuid.UUID) (*Node, bool) { n, ok := g.nodes[id]; return n, ok }

// Edge looks up an edge by id.
func (g *Graph) Edge(id uuid.UUID) (*Edge, bool) { e, ok := g.edges[id]; return e, ok }

// Region looks up a region by id.
func (g *Graph) Region(id uuid.UUID) (*Region, bool) { r, ok := g.regions[id]; return r, ok }

// Nodes returns every node in the graph, in no particular order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// Edges returns every edge in the graph, in no particular order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	return out
}

// Regions returns every region in the graph, in no particular order.
func (g *Graph) Regions() []*Region {
	out := make([]*Region, 0, len(g.regions))
	for _, r := range g.regions {
		out = append(out, r)
	}
	return out
}

// OutgoingEdges returns the edges whose source is nodeID.
func (g *Graph) OutgoingEdges(nodeID uuid.UUID) []*Edge {
	ids := g.outgoing[nodeID]
	out := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.edges[id])
	}
	return out
}

// IncomingEdges returns the edges whose target is nodeID.
func (g *Graph) IncomingEdges(nodeID uuid.UUID) []*Edge {
	ids := g.incoming[nodeID]
	out := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.edges[id])
	}
	return out
}

// ContainingRegion returns the region nodeID belongs to, if any.
func (g *Graph) ContainingRegion(nodeID uuid.UUID) (uuid.UUID, bool) {
	r, ok := g.nodeRegion[nodeID]
	return r, ok
}

// ParentRegion returns regionID's parent region, if any.
func (g *Graph) ParentRegion(regionID uuid.UUID) (uuid.UUID, bool) {
	p, ok := g.regionKid2[regionID]
	return p, ok
}

// Subgraph extracts the induced subgraph over the given node ids: every
// node in ids, every edge whose endpoints are both in ids, and every region
// whose children are entirely contained in ids (partial containment drops
// the region rather than truncating its child list, since a region with
// missing children is not well-formed).
func (g *Graph) Subgraph(ids []uuid.UUID) *Graph {
	keep := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}

	sub := New()
	for id := range keep {
		if n, ok := g.nodes[id]; ok {
			clone := *n
			_ = sub.AddNode(&clone)
		}
	}
	for _, e := range g.edges {
		if keep[e.SourceNode] && keep[e.TargetNode] {
			clone := *e
			_ = sub.AddEdge(&clone)
		}
	}
	for _, r := range g.regions {
		allIn := true
		for _, childID := range r.Children {
			if !keep[childID] {
				allIn = false
				break
			}
		}
		if allIn {
			clone := *r
			clone.Children = append([]uuid.UUID(nil), r.Children...)
			_ = sub.AddRegion(&clone)
		}
	}
	return sub
}

// Stats summarizes a graph's shape — a read-only doctor/inspect style query
// useful to CLI-adjacent tooling without the core needing a CLI surface.
type Stats struct {
	NodeCount     int
	EdgeCount     int
	RegionCount   int
	NodesByKind   map[NodeKind]int
	RegionsByKind map[RegionKind]int
}

// ComputeStats returns Stats for g.
func ComputeStats(g *Graph) Stats {
	s := Stats{
		NodeCount:     len(g.nodes),
		EdgeCount:     len(g.edges),
		RegionCount:   len(g.regions),
		NodesByKind:   make(map[NodeKind]int),
		RegionsByKind: make(map[RegionKind]int),
	}
	for _, n := range g.nodes {
		s.NodesByKind[n.Kind]++
	}
	for _, r := range g.regions {
		s.RegionsByKind[r.Kind]++
	}
	return s
}
