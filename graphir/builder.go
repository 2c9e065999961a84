package graphir

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/torc-lang/torc/contract"
	"github.com/torc-lang/torc/ttype"
)

// NodeBuilder builds Node values via functional options, mirroring the
// teacher's NodeBuilder/NodeOption pattern but producing graph IR nodes
// instead of workflow nodes.
type NodeBuilder struct {
	id          uuid.UUID
	kind        NodeKind
	inputTypes  []ttype.Type
	outputTypes []ttype.Type
	contract    *contract.Contract
	provenance  string
	annotations map[string]string
	literalRepr string
	err         error
}

// NodeOption configures a NodeBuilder.
type NodeOption func(*NodeBuilder) error

// NewNode starts building a node of the given kind with a fresh id.
func NewNode(kind NodeKind, opts ...NodeOption) *NodeBuilder {
	nb := &NodeBuilder{
		id:          uuid.New(),
		kind:        kind,
		annotations: make(map[string]string),
	}
	for _, opt := range opts {
		if err := opt(nb); err != nil {
			nb.err = err
			return nb
		}
	}
	return nb
}

// Build constructs the final Node.
func (nb *NodeBuilder) Build() (*Node, error) {
	if nb.err != nil {
		return nil, nb.err
	}
	return &Node{
		ID:          nb.id,
		Kind:        nb.kind,
		InputTypes:  nb.inputTypes,
		OutputTypes: nb.outputTypes,
		Contract:    nb.contract,
		Provenance:  nb.provenance,
		Annotations: nb.annotations,
		LiteralRepr: nb.literalRepr,
	}, nil
}

// WithID overrides the auto-generated id — used when loading a graph from
// the binary format, where ids are already assigned.
func WithID(id uuid.UUID) NodeOption {
	return func(nb *NodeBuilder) error {
		nb.id = id
		return nil
	}
}

// WithSignature sets the node's input/output type signature.
func WithSignature(inputs, outputs []ttype.Type) NodeOption {
	return func(nb *NodeBuilder) error {
		nb.inputTypes = inputs
		nb.outputTypes = outputs
		return nil
	}
}

// WithContract attaches a contract to the node.
func WithContract(c *contract.Contract) NodeOption {
	return func(nb *NodeBuilder) error {
		nb.contract = c
		return nil
	}
}

// WithProvenance records where the node originated (e.g. source file/line
// in an upstream collaborator, or a synthesis rule name).
func WithProvenance(p string) NodeOption {
	return func(nb *NodeBuilder) error {
		nb.provenance = p
		return nil
	}
}

// WithAnnotation adds a single string annotation.
func WithAnnotation(key, value string) NodeOption {
	return func(nb *NodeBuilder) error {
		if key == "" {
			return fmt.Errorf("annotation key cannot be empty")
		}
		nb.annotations[key] = value
		return nil
	}
}

// WithLiteral sets the encoded constant for a KindLiteral node.
func WithLiteral(repr string) NodeOption {
	return func(nb *NodeBuilder) error {
		if nb.kind != KindLiteral {
			return fmt.Errorf("WithLiteral only applies to KindLiteral nodes, got %s", nb.kind)
		}
		nb.literalRepr = repr
		return nil
	}
}

// EdgeBuilder builds Edge values via functional options.
type EdgeBuilder struct {
	id         uuid.UUID
	sourceNode uuid.UUID
	sourcePort int
	targetNode uuid.UUID
	targetPort int
	dataType   *ttype.Type
	lifetime   EdgeLifetime
	boundedNs  uint64
	bandwidth  *ttype.Type
	err        error
}

// EdgeOption configures an EdgeBuilder.
type EdgeOption func(*EdgeBuilder) error

// NewEdge starts building an edge from (sourceNode, sourcePort) to
// (targetNode, targetPort).
func NewEdge(sourceNode uuid.UUID, sourcePort int, targetNode uuid.UUID, targetPort int, opts ...EdgeOption) *EdgeBuilder {
	eb := &EdgeBuilder{
		id:         uuid.New(),
		sourceNode: sourceNode,
		sourcePort: sourcePort,
		targetNode: targetNode,
		targetPort: targetPort,
		lifetime:   LifetimeStatic,
	}
	for _, opt := range opts {
		if err := opt(eb); err != nil {
			eb.err = err
			return eb
		}
	}
	return eb
}

// Build constructs the final Edge.
func (eb *EdgeBuilder) Build() (*Edge, error) {
	if eb.err != nil {
		return nil, eb.err
	}
	return &Edge{
		ID:         eb.id,
		SourceNode: eb.sourceNode,
		SourcePort: eb.sourcePort,
		TargetNode: eb.targetNode,
		TargetPort: eb.targetPort,
		DataType:   eb.dataType,
		Lifetime:   eb.lifetime,
		BoundedNs:  eb.boundedNs,
		Bandwidth:  eb.bandwidth,
	}, nil
}

// WithEdgeID overrides the auto-generated id.
func WithEdgeID(id uuid.UUID) EdgeOption {
	return func(eb *EdgeBuilder) error {
		eb.id = id
		return nil
	}
}

// WithDataType sets the edge's carried type.
func WithDataType(t ttype.Type) EdgeOption {
	return func(eb *EdgeBuilder) error {
		eb.dataType = &t
		return nil
	}
}

// WithLifetime sets the edge's lifetime tag to Static or Manual.
func WithLifetime(l EdgeLifetime) EdgeOption {
	return func(eb *EdgeBuilder) error {
		if l == LifetimeBounded {
			return fmt.Errorf("use WithBoundedLifetime to set a bounded lifetime nanosecond value")
		}
		eb.lifetime = l
		return nil
	}
}

// WithBoundedLifetime sets a Bounded(nanoseconds) lifetime.
func WithBoundedLifetime(ns uint64) EdgeOption {
	return func(eb *EdgeBuilder) error {
		eb.lifetime = LifetimeBounded
		eb.boundedNs = ns
		return nil
	}
}

// WithBandwidthConstraint attaches a minimum-bandwidth requirement.
func WithBandwidthConstraint(t ttype.Type) EdgeOption {
	return func(eb *EdgeBuilder) error {
		if t.Kind != ttype.KindResource || t.ResourceKind != ttype.ResourceBandwidth {
			return fmt.Errorf("bandwidth constraint must be a Bandwidth resource type")
		}
		eb.bandwidth = &t
		return nil
	}
}

// RegionBuilder builds Region values via functional options.
type RegionBuilder struct {
	id          uuid.UUID
	kind        RegionKind
	children    []uuid.UUID
	parentID    *uuid.UUID
	constraints []string
	iface       []int
}

// RegionOption configures a RegionBuilder.
type RegionOption func(*RegionBuilder)

// NewRegion starts building a region of the given kind over the given
// children.
func NewRegion(kind RegionKind, children []uuid.UUID, opts ...RegionOption) *RegionBuilder {
	rb := &RegionBuilder{id: uuid.New(), kind: kind, children: children}
	for _, opt := range opts {
		opt(rb)
	}
	return rb
}

// Build constructs the final Region.
func (rb *RegionBuilder) Build() *Region {
	return &Region{
		ID:          rb.id,
		Kind:        rb.kind,
		Children:    rb.children,
		ParentID:    rb.parentID,
		Constraints: rb.constraints,
		Interface:   rb.iface,
	}
}

// WithParentRegion sets the region's parent.
func WithParentRegion(parentID uuid.UUID) RegionOption {
	return func(rb *RegionBuilder) { rb.parentID = &parentID }
}

// WithRegionID overrides the auto-generated region id — used by
// GraphBuilder's region stack, which reserves a region's id at BeginRegion
// time so a still-open outer region can be named as an inner region's
// parent before the outer region itself is built.
func WithRegionID(id uuid.UUID) RegionOption {
	return func(rb *RegionBuilder) { rb.id = id }
}

// WithConstraint appends an execution constraint string.
func WithConstraint(c string) RegionOption {
	return func(rb *RegionBuilder) { rb.constraints = append(rb.constraints, c) }
}

// WithInterfacePort appends an interface port index.
func WithInterfacePort(port int) RegionOption {
	return func(rb *RegionBuilder) { rb.iface = append(rb.iface, port) }
}
