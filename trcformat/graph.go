package trcformat

import (
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/torc-lang/torc/graphir"
)

// graphPayload is the structured key-value body CBOR-encodes into the
// region between the header and the trailer: a map keyed by field name,
// so a future reader can add a key without invalidating files this package
// already wrote.
type graphPayload struct {
	Nodes   []*graphir.Node   `cbor:"nodes"`
	Edges   []*graphir.Edge   `cbor:"edges"`
	Regions []*graphir.Region `cbor:"regions"`
}

// Serialize encodes g into the on-disk graph format: a 40-byte header, a
// CBOR payload of its nodes/edges/regions, and a SHA-256 trailer.
func Serialize(g *graphir.Graph) ([]byte, error) {
	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID.String() < nodes[j].ID.String() })
	edges := g.Edges()
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID.String() < edges[j].ID.String() })
	regions := g.Regions()
	sort.Slice(regions, func(i, j int) bool { return regions[i].ID.String() < regions[j].ID.String() })

	payload, err := cbor.Marshal(graphPayload{Nodes: nodes, Edges: edges, Regions: regions})
	if err != nil {
		return nil, err
	}

	var flags uint8
	for _, n := range nodes {
		if n.Provenance != "" {
			flags |= FlagHasProvenance
		}
		if n.Contract != nil && n.Contract.ProofWitness != nil {
			flags |= FlagHasProofs
		}
	}

	h := Header{
		Magic:       GraphMagic,
		Major:       CurrentMajor,
		Minor:       CurrentMinor,
		Patch:       CurrentPatch,
		Flags:       flags,
		NodeCount:   uint64(len(nodes)),
		EdgeCount:   uint64(len(edges)),
		RegionCount: uint64(len(regions)),
	}
	return assemble(h, payload), nil
}

// Deserialize decodes data, previously produced by Serialize, back into a
// graph. It rejects malformed framing per §4.5 before attempting to decode
// the payload at all.
func Deserialize(data []byte) (*graphir.Graph, error) {
	_, payload, err := split(data, GraphMagic)
	if err != nil {
		return nil, err
	}

	var body graphPayload
	if err := cbor.Unmarshal(payload, &body); err != nil {
		return nil, err
	}

	g := graphir.New()
	for _, n := range body.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range body.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, err
		}
	}
	for _, r := range orderRegionsByNesting(body.Regions) {
		if err := g.AddRegion(r); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// orderRegionsByNesting returns regions reordered so a parent always
// precedes its children, since AddRegion rejects a region whose ParentID
// is not yet registered and the CBOR payload carries no such guarantee.
func orderRegionsByNesting(regions []*graphir.Region) []*graphir.Region {
	byID := make(map[uuid.UUID]*graphir.Region, len(regions))
	for _, r := range regions {
		byID[r.ID] = r
	}

	added := make(map[uuid.UUID]bool, len(regions))
	out := make([]*graphir.Region, 0, len(regions))
	for len(out) < len(regions) {
		progress := false
		for _, r := range regions {
			if added[r.ID] {
				continue
			}
			if r.ParentID == nil || added[*r.ParentID] {
				out = append(out, r)
				added[r.ID] = true
				progress = true
			}
		}
		if !progress {
			// A parent reference outside the payload (or a cycle); append
			// whatever remains in original order and let AddRegion reject it.
			for _, r := range regions {
				if !added[r.ID] {
					out = append(out, r)
					added[r.ID] = true
				}
			}
			break
		}
	}
	return out
}
