// Package trcformat implements the binary on-disk format for graphs and
// decision graphs: a fixed 40-byte header, a structured key-value payload,
// and a 32-byte trailing SHA-256 hash, per §4.5.
package trcformat

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
)

// HeaderSize, TrailerSize, and MinFileSize are the fixed geometry §4.5
// specifies: a 40-byte header, a variable-length payload, and a 32-byte
// trailing hash; a file shorter than header+trailer cannot possibly hold
// a valid (even empty) payload.
const (
	HeaderSize  = 40
	TrailerSize = 32
	MinFileSize = HeaderSize + TrailerSize
)

// CurrentMajor/Minor/Patch is the version this package writes and the
// ceiling it reads: an exact major match is required, and a file's minor
// must not exceed the reader's, per §4.5's compatibility rule.
const (
	CurrentMajor uint8 = 1
	CurrentMinor uint8 = 0
	CurrentPatch uint8 = 0
)

// Flag bits, per §4.5's byte-7 layout.
const (
	FlagCompressed    uint8 = 1 << 0
	FlagHasProofs     uint8 = 1 << 1
	FlagHasProvenance uint8 = 1 << 2
)

var (
	// GraphMagic and DecisionMagic are the two 4-byte magics §6 names:
	// the graph format and "a parallel binary format (distinct magic,
	// same overall shape)" for the decision graph.
	GraphMagic    = [4]byte{'T', 'R', 'C', 0}
	DecisionMagic = [4]byte{'T', 'R', 'D', 0}

	ErrBadMagic           = errors.New("trcformat: invalid magic")
	ErrUnsupportedVersion = errors.New("trcformat: unsupported version")
	ErrTooShort           = errors.New("trcformat: file too small")
	ErrTruncated          = errors.New("trcformat: payload length exceeds file size")
	ErrHashMismatch       = errors.New("trcformat: hash mismatch (corrupt file)")
	ErrUnsupportedFeature = errors.New("trcformat: compressed payloads are not supported by this reader")
)

// Header is the 40-byte fixed preamble.
type Header struct {
	Magic                             [4]byte
	Major, Minor, Patch               uint8
	Flags                             uint8
	NodeCount, EdgeCount, RegionCount uint64
	PayloadLen                        uint64
}

func encodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], h.Magic[:])
	buf[4] = h.Major
	buf[5] = h.Minor
	buf[6] = h.Patch
	buf[7] = h.Flags
	binary.LittleEndian.PutUint64(buf[8:16], h.NodeCount)
	binary.LittleEndian.PutUint64(buf[16:24], h.EdgeCount)
	binary.LittleEndian.PutUint64(buf[24:32], h.RegionCount)
	binary.LittleEndian.PutUint64(buf[32:40], h.PayloadLen)
	return buf
}

func decodeHeader(buf []byte) Header {
	var h Header
	copy(h.Magic[:], buf[0:4])
	h.Major = buf[4]
	h.Minor = buf[5]
	h.Patch = buf[6]
	h.Flags = buf[7]
	h.NodeCount = binary.LittleEndian.Uint64(buf[8:16])
	h.EdgeCount = binary.LittleEndian.Uint64(buf[16:24])
	h.RegionCount = binary.LittleEndian.Uint64(buf[24:32])
	h.PayloadLen = binary.LittleEndian.Uint64(buf[32:40])
	return h
}

// assemble builds the full on-disk byte stream: header, payload, then a
// SHA-256 trailer computed over everything preceding it.
func assemble(h Header, payload []byte) []byte {
	h.PayloadLen = uint64(len(payload))
	out := make([]byte, 0, HeaderSize+len(payload)+TrailerSize)
	out = append(out, encodeHeader(h)...)
	out = append(out, payload...)
	sum := sha256.Sum256(out)
	out = append(out, sum[:]...)
	return out
}

// split validates data's framing against wantMagic and returns the decoded
// header and the payload slice, per §4.5's rejection rules: invalid magic,
// unsupported version, short files, and hash mismatch are all fatal.
func split(data []byte, wantMagic [4]byte) (Header, []byte, error) {
	if len(data) < MinFileSize {
		return Header{}, nil, ErrTooShort
	}
	h := decodeHeader(data[:HeaderSize])
	if h.Magic != wantMagic {
		return Header{}, nil, ErrBadMagic
	}
	if h.Major != CurrentMajor || h.Minor > CurrentMinor {
		return Header{}, nil, ErrUnsupportedVersion
	}
	if h.Flags&FlagCompressed != 0 {
		return Header{}, nil, ErrUnsupportedFeature
	}
	total := HeaderSize + int(h.PayloadLen) + TrailerSize
	if total < 0 || len(data) < total {
		return Header{}, nil, ErrTruncated
	}

	payload := data[HeaderSize : HeaderSize+int(h.PayloadLen)]
	trailer := data[HeaderSize+int(h.PayloadLen) : total]

	sum := sha256.Sum256(data[:HeaderSize+int(h.PayloadLen)])
	for i := range sum {
		if sum[i] != trailer[i] {
			return Header{}, nil, ErrHashMismatch
		}
	}

	return h, payload, nil
}
