package materialize

import (
	"strconv"
	"strings"

	"github.com/torc-lang/torc/ttype"
)

// reinterpretIntegerLiteral parses repr as a bit pattern — honoring the
// decimal/0x/0o/0b forms §4.4's lowering rules accept — and reinterprets
// those bits against t's declared width and signedness. This is what makes
// the literal 0xFF read back as 255 against a u8 target but -1 against an
// i8 target: the bit pattern is identical, two's complement is not.
func reinterpretIntegerLiteral(repr string, t ttype.Type) (int64, bool) {
	if t.Kind != ttype.KindPrimitive || t.Primitive != ttype.PrimInteger {
		return 0, false
	}
	width := t.IntWidth
	if width <= 0 || width > 64 {
		return 0, false
	}

	repr = strings.TrimSpace(repr)
	raw, err := strconv.ParseUint(repr, 0, 64)
	if err != nil {
		// A literal already written with a leading '-' (e.g. a prior fold's
		// output) doesn't parse as unsigned; fall back to a signed parse of
		// the same bit width's two's complement representation.
		v, serr := strconv.ParseInt(repr, 0, 64)
		if serr != nil {
			return 0, false
		}
		raw = uint64(v)
	}

	var mask uint64
	if width == 64 {
		mask = ^uint64(0)
	} else {
		mask = (uint64(1) << uint(width)) - 1
	}
	raw &= mask

	if t.IntSigned && width < 64 && raw&(uint64(1)<<uint(width-1)) != 0 {
		raw |= ^mask
	}
	return int64(raw), true
}

// canonicalIntegerLiteral renders repr's width-and-signedness-reinterpreted
// value against t back into decimal text. It returns repr unchanged when t
// isn't an integer primitive or repr doesn't parse as one, leaving e.g.
// boolean and float literals untouched.
func canonicalIntegerLiteral(repr string, t ttype.Type) string {
	v, ok := reinterpretIntegerLiteral(repr, t)
	if !ok {
		return repr
	}
	return strconv.FormatInt(v, 10)
}
