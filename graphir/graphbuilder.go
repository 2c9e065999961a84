package graphir

import (
	"errors"

	"github.com/google/uuid"
)

// GraphBuilder wraps a Graph with the region-stack construction discipline
// described in §4.2: BeginRegion opens a region, every node inserted while
// it (or a nested region) is open is implicitly captured as a child, and
// EndRegion closes the innermost open region and returns its id. Opening a
// region while another is already open establishes parent-child
// automatically: the new region's parent is set to the still-open outer
// region's id, reserved up front so it can be named before the outer
// region itself is built.
type GraphBuilder struct {
	g     *Graph
	stack []*openRegion
}

type openRegion struct {
	id       uuid.UUID
	kind     RegionKind
	children []uuid.UUID
	parentID *uuid.UUID
}

// ErrNoOpenRegion is returned by EndRegion when the stack is empty.
var ErrNoOpenRegion = errors.New("no open region to end")

// NewGraphBuilder wraps an existing graph (empty or partially built) for
// region-stack construction.
func NewGraphBuilder(g *Graph) *GraphBuilder {
	return &GraphBuilder{g: g}
}

// Graph returns the underlying graph being built.
func (b *GraphBuilder) Graph() *Graph { return b.g }

// AddNode inserts n into the underlying graph and, if a region is currently
// open, captures it as a child of the innermost open region.
func (b *GraphBuilder) AddNode(n *Node) error {
	if err := b.g.AddNode(n); err != nil {
		return err
	}
	if len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		top.children = append(top.children, n.ID)
	}
	return nil
}

// AddEdge inserts e into the underlying graph. Edges are not region
// members; only nodes are captured by the region stack.
func (b *GraphBuilder) AddEdge(e *Edge) error {
	return b.g.AddEdge(e)
}

// BeginRegion opens a new region of the given kind, nested under the
// innermost currently open region if any.
func (b *GraphBuilder) BeginRegion(kind RegionKind) {
	r := &openRegion{id: uuid.New(), kind: kind}
	if len(b.stack) > 0 {
		parentID := b.stack[len(b.stack)-1].id
		r.parentID = &parentID
	}
	b.stack = append(b.stack, r)
}

// EndRegion closes the innermost open region, inserts it into the graph
// with every node added since the matching BeginRegion, and returns its id.
func (b *GraphBuilder) EndRegion(opts ...RegionOption) (uuid.UUID, error) {
	if len(b.stack) == 0 {
		return uuid.Nil, ErrNoOpenRegion
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	allOpts := append([]RegionOption{WithRegionID(top.id)}, opts...)
	if top.parentID != nil {
		allOpts = append(allOpts, WithParentRegion(*top.parentID))
	}
	region := NewRegion(top.kind, top.children, allOpts...).Build()
	if err := b.g.AddRegion(region); err != nil {
		return uuid.Nil, err
	}
	return region.ID, nil
}

// Depth reports how many regions are currently open.
func (b *GraphBuilder) Depth() int { return len(b.stack) }
