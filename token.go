// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package streamjson

import "io"

// JsonType enumerates the compact JSON type tags used both to describe a
// token's value and as a key into derived structures (see package schema).
type JsonType byte

// Constants defining the valid JsonType values.
const (
	Array JsonType = iota
	Object
	String
	Number
	Bool
	NullType
)

var jsonTypeStr = [...]string{
	Array:    "array",
	Object:   "object",
	String:   "string",
	Number:   "number",
	Bool:     "bool",
	NullType: "null",
}

func (t JsonType) String() string { return jsonTypeStr[t] }

// Kind identifies the lexical category of a Token.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid Kind = iota
	Spaces       // a run of 1..255 compressible whitespace bytes
	Whitespace   // a single non-compressed whitespace byte
	ObjectOpen
	ObjectClose
	Comma
	Colon
	ArrayOpen
	ArrayClose
	TString // a quoted string, including its enclosing quotes
	TNumber // a raw numeric lexeme
	True
	False
	Null
)

var kindStr = [...]string{
	Invalid:    "invalid",
	Spaces:     "spaces",
	Whitespace: "whitespace",
	ObjectOpen: `"{"`,
	ObjectClose: `"}"`,
	Comma:      `","`,
	Colon:      `":"`,
	ArrayOpen:  `"["`,
	ArrayClose: `"]"`,
	TString:    "string",
	TNumber:    "number",
	True:       "true",
	False:      "false",
	Null:       "null",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[k]
}

// Token is a single lexical unit produced by CompressNextToken. Its Bytes
// field, when non-nil, is a borrowed sub-slice of the cursor's source and
// is only valid until the next buffer refill; call IntoOwned to copy it
// out if it must survive one.
type Token struct {
	Kind Kind

	// Bytes holds the verbatim source text for TString (quotes included)
	// and TNumber; it is nil for every other Kind.
	Bytes []byte

	// N holds the run length for Spaces, or the literal byte for
	// Whitespace. It is unused by every other Kind.
	N byte
}

// IsWhitespace reports whether t is a Spaces or Whitespace token.
func (t Token) IsWhitespace() bool { return t.Kind == Spaces || t.Kind == Whitespace }

// IsClose reports whether t closes a container.
func (t Token) IsClose() bool { return t.Kind == ArrayClose || t.Kind == ObjectClose }

// IsOpen reports whether t opens a container.
func (t Token) IsOpen() bool { return t.Kind == ArrayOpen || t.Kind == ObjectOpen }

// IsValueStart reports whether t can begin a JSON value.
func (t Token) IsValueStart() bool {
	switch t.Kind {
	case True, False, Null, TNumber, TString, ArrayOpen, ObjectOpen:
		return true
	default:
		return false
	}
}

// IsCompleteValue reports whether t is, on its own, a complete leaf value
// (as opposed to a container open/close or punctuation).
func (t Token) IsCompleteValue() bool {
	switch t.Kind {
	case True, False, Null, TNumber, TString:
		return true
	default:
		return false
	}
}

// ValueType reports the JsonType corresponding to t's Kind, and false if t
// has no associated value type (whitespace and punctuation).
func (t Token) ValueType() (JsonType, bool) {
	switch t.Kind {
	case TString:
		return String, true
	case TNumber:
		return Number, true
	case ObjectOpen, ObjectClose:
		return Object, true
	case ArrayOpen, ArrayClose:
		return Array, true
	case Null:
		return NullType, true
	case True, False:
		return Bool, true
	default:
		return 0, false
	}
}

// PotentialFalsePositive reports whether t is a token kind that can appear
// complete at the end of a buffer window while actually being a prefix of
// a longer token in unread input. Only TNumber has this property: every
// other token is self-delimiting or keyword-terminated.
func (t Token) PotentialFalsePositive() bool { return t.Kind == TNumber }

// IntoOwned returns a copy of t whose Bytes field (if any) is an
// independent copy, safe to retain across a buffer refill.
func (t Token) IntoOwned() Token {
	if t.Bytes == nil {
		return t
	}
	cp := make([]byte, len(t.Bytes))
	copy(cp, t.Bytes)
	t.Bytes = cp
	return t
}

// Print writes t's bytes back out verbatim. For Spaces, it writes N literal
// space bytes, which normalizes tabs and newlines folded into a compressed
// run to spaces; callers that need byte-exact reproduction of mixed
// whitespace must disable compression (see CompressNextToken).
func (t Token) Print(w io.Writer) (int, error) {
	switch t.Kind {
	case TString, TNumber:
		return w.Write(t.Bytes)
	case Whitespace:
		return w.Write([]byte{t.N})
	case Spaces:
		buf := make([]byte, t.N)
		for i := range buf {
			buf[i] = ' '
		}
		return w.Write(buf)
	case ObjectOpen:
		return w.Write([]byte{'{'})
	case ObjectClose:
		return w.Write([]byte{'}'})
	case Comma:
		return w.Write([]byte{','})
	case Colon:
		return w.Write([]byte{':'})
	case ArrayOpen:
		return w.Write([]byte{'['})
	case ArrayClose:
		return w.Write([]byte{']'})
	case Null:
		return w.Write([]byte("null"))
	case True:
		return w.Write([]byte("true"))
	case False:
		return w.Write([]byte("false"))
	default:
		return 0, nil
	}
}
