// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jsonpath implements an ordered path stack: a sequence of object
// keys and array indices maintained in lockstep with a validator's context
// transitions, identifying the current structural position of a
// path-tracked visitor walk (see package visitor).
package jsonpath

import "strings"

// Segment is one element of a Path: either an array index or an object
// key. The zero Segment is the empty key (EmptyKey).
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Index constructs an index Segment.
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

// Key constructs a key Segment. The string is stored verbatim, including
// surrounding quotes when it originates from a raw string token (see
// DESIGN.md for the rationale); callers that need the bare text should
// unquote it themselves.
func Key(s string) Segment { return Segment{key: s} }

// EmptyKey is the placeholder key pushed when an object is opened, before
// its first member's key token has been observed.
var EmptyKey = Key("")

// IsIndex reports whether s is an array-index segment.
func (s Segment) IsIndex() bool { return s.isIndex }

// IsKey reports whether s is an object-key segment.
func (s Segment) IsKey() bool { return !s.isIndex }

// AsIndex reports s's index value and whether s is an index segment.
func (s Segment) AsIndex() (int, bool) { return s.index, s.isIndex }

// AsKey reports s's key text and whether s is a key segment.
func (s Segment) AsKey() (string, bool) { return s.key, !s.isIndex }

func (s Segment) String() string {
	if s.isIndex {
		return itoa(s.index)
	}
	return s.key
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Path is an ordered sequence of Segments locating a value within a JSON
// document. A nil or empty Path denotes the document root.
type Path []Segment

// Push returns a copy of p with seg appended.
func (p Path) Push(seg Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// Pop returns p with its last segment removed, sharing p's storage.
// Popping an empty Path returns an empty Path.
func (p Path) Pop() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1]
}

// Last reports the final segment of p and whether p is non-empty.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// First reports the first segment of p and whether p is non-empty.
func (p Path) First() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[0], true
}

// Parent reports the path to p's enclosing container (p with its last
// segment dropped).
func (p Path) Parent() Path { return p.Pop() }

// WithLast returns a copy of p whose final segment is replaced by seg. It
// is used to rewrite an EmptyKey placeholder once the real key is known,
// and to bump an array index for every element; each call allocates a
// new Path and leaves p unchanged.
func (p Path) WithLast(seg Segment) Path {
	if len(p) == 0 {
		return p
	}
	out := make(Path, len(p))
	copy(out, p)
	out[len(p)-1] = seg
	return out
}

// String renders p in the "@.seg.seg" display form.
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('@')
	for _, seg := range p {
		b.WriteByte('.')
		b.WriteString(seg.String())
	}
	return b.String()
}
