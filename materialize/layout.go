package materialize

import (
	"github.com/google/uuid"

	"github.com/torc-lang/torc/graphir"
	"github.com/torc-lang/torc/ttype"
)

// Layout is the output of §4.4 step 5: the platform word size, a per-node
// stack frame estimate, and the graph's peak stack usage. Per-type size and
// alignment are computed on demand by TypeSizeAlign and are not stored here.
type Layout struct {
	WordBytes  int64
	NodeFrames map[uuid.UUID]int64 // input bytes + output bytes + 2 words overhead
	PeakStack  int64
}

// frameOverheadWords is the fixed per-frame overhead §4.4 specifies: two
// words (return address + saved frame pointer, in the traditional sense;
// the core treats it as an opaque constant rather than assuming a
// particular calling convention).
const frameOverheadWords = 2

// BuildLayout estimates byte layout for every node of g against platform,
// then computes the heaviest path through the schedule by cumulative
// frame bytes — the "peak stack" §4.4 defines as a longest-path DP over
// the topological order.
func BuildLayout(g *graphir.Graph, schedule Schedule, platform *PlatformDescription) Layout {
	wordBytes := int64(platform.ISA.WordSizeBits) / 8
	if wordBytes <= 0 {
		wordBytes = 8
	}

	l := Layout{
		WordBytes:  wordBytes,
		NodeFrames: make(map[uuid.UUID]int64),
	}

	for _, n := range schedule.Flat() {
		var frame int64
		for _, t := range n.InputTypes {
			size, _ := TypeSizeAlign(t, wordBytes)
			frame += size
		}
		for _, t := range n.OutputTypes {
			size, _ := TypeSizeAlign(t, wordBytes)
			frame += size
		}
		frame += frameOverheadWords * wordBytes
		l.NodeFrames[n.ID] = frame
	}

	l.PeakStack = longestPathStack(g, schedule, l.NodeFrames)
	return l
}

// longestPathStack computes, for each node in topological order, the
// cumulative frame bytes of the heaviest path ending at that node, and
// returns the maximum over all nodes — a standard longest-path DP, safe
// over g's topological order since every predecessor is processed first.
func longestPathStack(g *graphir.Graph, schedule Schedule, frames map[uuid.UUID]int64) int64 {
	cumulative := make(map[uuid.UUID]int64, len(frames))
	var peak int64
	for _, n := range schedule.Flat() {
		best := int64(0)
		for _, e := range g.IncomingEdges(n.ID) {
			if c, ok := cumulative[e.SourceNode]; ok && c > best {
				best = c
			}
		}
		total := best + frames[n.ID]
		cumulative[n.ID] = total
		if total > peak {
			peak = total
		}
	}
	return peak
}

// TypeSizeAlign estimates (size, alignment) in bytes for t on a platform
// with the given word size, per §4.4 step 5's layout rules: natural
// alignment capped at the platform word size; tuple/record fields packed
// with per-field alignment and trailing pad to struct alignment; variant
// as tag byte plus max case, padded; array as element stride × length;
// wrapper types (refinement, linearity, resource, probability) transparent;
// option as 1-byte discriminant plus inner.
func TypeSizeAlign(t ttype.Type, wordBytes int64) (size, align int64) {
	switch t.Kind {
	case ttype.KindPrimitive:
		return primitiveSizeAlign(t, wordBytes)
	case ttype.KindComposite:
		return compositeSizeAlign(t, wordBytes)
	case ttype.KindRefinement:
		return TypeSizeAlign(*t.Base, wordBytes)
	case ttype.KindLinearity:
		return TypeSizeAlign(*t.Linear, wordBytes)
	case ttype.KindResource:
		return TypeSizeAlign(*t.Resource, wordBytes)
	case ttype.KindProbability:
		return TypeSizeAlign(*t.Prob, wordBytes)
	case ttype.KindDependent:
		return TypeSizeAlign(*t.DepBase, wordBytes)
	case ttype.KindSpecial:
		return specialSizeAlign(t, wordBytes)
	default:
		return 0, 1
	}
}

func primitiveSizeAlign(t ttype.Type, wordBytes int64) (int64, int64) {
	capAtWord := func(bytes int64) int64 {
		if bytes > wordBytes {
			return wordBytes
		}
		return bytes
	}
	switch t.Primitive {
	case ttype.PrimVoid:
		return 0, 1
	case ttype.PrimUnit:
		return 0, 1
	case ttype.PrimBool:
		return 1, 1
	case ttype.PrimInteger:
		bytes := ceilBytes(int64(t.IntWidth))
		return bytes, capAtWord(bytes)
	case ttype.PrimFloat:
		bytes := ceilBytes(int64(t.FloatBits))
		return bytes, capAtWord(bytes)
	case ttype.PrimFixedPoint:
		bytes := ceilBytes(int64(t.FixedTotal))
		return bytes, capAtWord(bytes)
	default:
		return 0, 1
	}
}

func compositeSizeAlign(t ttype.Type, wordBytes int64) (int64, int64) {
	switch t.Composite {
	case ttype.CompositeTuple, ttype.CompositeRecord:
		var offset, structAlign int64 = 0, 1
		for _, field := range t.Elements {
			size, align := TypeSizeAlign(field, wordBytes)
			offset = alignUp(offset, align) + size
			if align > structAlign {
				structAlign = align
			}
		}
		return alignUp(offset, structAlign), structAlign
	case ttype.CompositeVariant:
		var maxCase, maxAlign int64 = 0, 1
		for _, c := range t.Elements {
			size, align := TypeSizeAlign(c, wordBytes)
			if size > maxCase {
				maxCase = size
			}
			if align > maxAlign {
				maxAlign = align
			}
		}
		total := alignUp(1, maxAlign) + maxCase // tag byte, then padded case
		return alignUp(total, maxAlign), maxAlign
	case ttype.CompositeArray:
		if len(t.Elements) != 1 {
			return 0, 1
		}
		elemSize, elemAlign := TypeSizeAlign(t.Elements[0], wordBytes)
		stride := alignUp(elemSize, elemAlign)
		return stride * int64(t.ArrayLen), elemAlign
	case ttype.CompositeVector:
		// A vector is a dynamically-sized handle (pointer + length/cap in
		// the general case); the core models its stack footprint as one
		// word, consistent with how the layout rules treat every other
		// handle-like reference.
		return wordBytes, wordBytes
	default:
		return 0, 1
	}
}

func specialSizeAlign(t ttype.Type, wordBytes int64) (int64, int64) {
	switch t.Special {
	case ttype.SpecialOption:
		if t.Option == nil {
			return 1, 1
		}
		innerSize, innerAlign := TypeSizeAlign(*t.Option, wordBytes)
		align := innerAlign
		if align < 1 {
			align = 1
		}
		total := alignUp(1, align) + innerSize
		return alignUp(total, align), align
	case ttype.SpecialNamed:
		// A named type reference resolves through a registry the core
		// does not own; until resolved it is modeled as a single-word
		// opaque handle, matching the vector case above.
		return wordBytes, wordBytes
	default:
		return 0, 1
	}
}

func ceilBytes(bits int64) int64 {
	if bits <= 0 {
		return 0
	}
	return (bits + 7) / 8
}

func alignUp(offset, align int64) int64 {
	if align <= 1 {
		return offset
	}
	rem := offset % align
	if rem == 0 {
		return offset
	}
	return offset + (align - rem)
}
