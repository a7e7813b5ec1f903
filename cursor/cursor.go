// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements a byte-window cursor: a read-only view over an
// immutable byte slice supporting peek, advance, bulk take, and
// predicate-skip, with a publicly readable offset so callers (notably the
// tokenizer) can attach byte positions to errors.
//
// A Cursor has no failure modes of its own. Running out of input is
// signaled by zero values (Peek's second result, an empty Take slice);
// interpreting that as an error is the caller's responsibility.
//
// A Cursor is constructed fresh over each buffer window and discarded when
// the window is refilled; it never outlives the slice it was built from.
package cursor

// A Cursor walks an immutable byte slice from a publicly readable Offset.
type Cursor struct {
	src []byte

	// Offset is the cursor's current position within src. Advancing methods
	// increment it; it is never decremented except by Seek.
	Offset int
}

// New constructs a Cursor over src, positioned at offset 0.
func New(src []byte) *Cursor { return &Cursor{src: src} }

// Len reports the number of unread bytes remaining.
func (c *Cursor) Len() int { return len(c.src) - c.Offset }

// IsEmpty reports whether the cursor has no unread bytes left.
func (c *Cursor) IsEmpty() bool { return c.Offset >= len(c.src) }

// Bytes returns the full underlying byte slice the cursor was constructed
// over (not just the unread suffix). Callers use it together with Offset
// to slice out borrowed token payloads.
func (c *Cursor) Bytes() []byte { return c.src }

// Peek returns the byte at the current offset without advancing. The
// second result is false if the cursor is empty.
func (c *Cursor) Peek() (byte, bool) {
	if c.IsEmpty() {
		return 0, false
	}
	return c.src[c.Offset], true
}

// PeekAt returns the byte at the current offset plus delta, without
// advancing. The second result is false if that position is out of range.
func (c *Cursor) PeekAt(delta int) (byte, bool) {
	i := c.Offset + delta
	if i < 0 || i >= len(c.src) {
		return 0, false
	}
	return c.src[i], true
}

// Next returns the byte at the current offset and advances past it. The
// second result is false, and the cursor does not advance, if it is empty.
func (c *Cursor) Next() (byte, bool) {
	b, ok := c.Peek()
	if !ok {
		return 0, false
	}
	c.Offset++
	return b, true
}

// Take returns the next min(n, c.Len()) bytes as a slice borrowed from the
// cursor's source, and advances past them.
func (c *Cursor) Take(n int) []byte {
	if n > c.Len() {
		n = c.Len()
	}
	out := c.src[c.Offset : c.Offset+n]
	c.Offset += n
	return out
}

// SkipUntil advances the cursor while pred reports true for the byte at
// the current offset, stopping at the first byte for which pred is false
// or at end of input. It reports the number of bytes skipped.
func (c *Cursor) SkipUntil(pred func(byte) bool) int {
	start := c.Offset
	for {
		b, ok := c.Peek()
		if !ok || !pred(b) {
			break
		}
		c.Offset++
	}
	return c.Offset - start
}

// CheckNext reports whether the next len(target) bytes equal target
// exactly. On a match it advances past them; on a mismatch or insufficient
// input it leaves the cursor untouched.
func (c *Cursor) CheckNext(target []byte) bool {
	if c.Len() < len(target) {
		return false
	}
	for i, want := range target {
		if c.src[c.Offset+i] != want {
			return false
		}
	}
	c.Offset += len(target)
	return true
}

// CheckNextPattern advances the cursor past the longest run of leading
// bytes for which f reports true, up to the first byte that fails (or end
// of input), and reports how many bytes matched.
func (c *Cursor) CheckNextPattern(f func(byte) bool) int { return c.SkipUntil(f) }

// Seek repositions the cursor to an absolute offset within its source.
// Used by the driver to rewind after a false-positive number or during
// stream-extractor recovery.
func (c *Cursor) Seek(offset int) { c.Offset = offset }
