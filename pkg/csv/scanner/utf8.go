package scanner

// utf8Checker validates a byte stream as UTF-8 incrementally, one byte
// at a time, without buffering whole runes. It tracks how many
// continuation bytes the current sequence still needs plus the valid
// range for the first continuation byte, which is enough to reject
// overlong encodings, surrogates, and out-of-range code points at the
// earliest possible byte.
type utf8Checker struct {
	need    int  // continuation bytes still expected
	nextLo  byte // inclusive lower bound for the next continuation byte
	nextHi  byte // inclusive upper bound for the next continuation byte
	checked bool // whether a range restriction applies to the next byte
}

// accept consumes one byte and reports whether the stream is still
// valid UTF-8. Once accept returns false the checker's further output
// is undefined; callers stop feeding it.
func (c *utf8Checker) accept(b byte) bool {
	if c.need > 0 {
		lo, hi := byte(0x80), byte(0xBF)
		if c.checked {
			lo, hi = c.nextLo, c.nextHi
			c.checked = false
		}
		if b < lo || b > hi {
			return false
		}
		c.need--
		return true
	}

	switch {
	case b < 0x80:
		return true
	case b < 0xC2:
		// 0x80..0xC1: stray continuation byte or overlong 2-byte lead.
		return false
	case b < 0xE0:
		c.need = 1
		return true
	case b < 0xF0:
		c.need = 2
		switch b {
		case 0xE0:
			// Reject overlong 3-byte encodings.
			c.nextLo, c.nextHi, c.checked = 0xA0, 0xBF, true
		case 0xED:
			// Reject UTF-16 surrogate halves.
			c.nextLo, c.nextHi, c.checked = 0x80, 0x9F, true
		}
		return true
	case b < 0xF5:
		c.need = 3
		switch b {
		case 0xF0:
			// Reject overlong 4-byte encodings.
			c.nextLo, c.nextHi, c.checked = 0x90, 0xBF, true
		case 0xF4:
			// Reject code points above U+10FFFF.
			c.nextLo, c.nextHi, c.checked = 0x80, 0x8F, true
		}
		return true
	default:
		// 0xF5..0xFF can never appear in UTF-8.
		return false
	}
}

// incomplete reports whether the stream ended in the middle of a
// multi-byte sequence.
func (c *utf8Checker) incomplete() bool {
	return c.need > 0
}
