// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package validator implements a pushdown automaton over streamjson
// tokens that enforces the JSON grammar (RFC 7159) without building a
// value tree. It exposes its current grammar context so a caller (see
// package visitor) can compute structural position as it goes.
package validator

import (
	"errors"
	"fmt"

	streamjson "github.com/creachadair/streamjson"
)

// Context identifies one of the grammar states a Validator can be in
// while inside a container. The zero Context (NoContext) represents
// top-level, before any value has been seen.
type Context byte

// Constants defining the valid Context values.
const (
	NoContext Context = iota
	ArrayStart
	ArrayValue
	ArrayComma
	ArrayEnd
	ObjectStart
	ObjectEntryKey
	ObjectEntryColon
	ObjectEntryValue
	ObjectEntryComma
	ObjectEnd
)

var contextStr = [...]string{
	NoContext:        "top-level",
	ArrayStart:       "ArrayStart",
	ArrayValue:       "ArrayValue",
	ArrayComma:       "ArrayComma",
	ArrayEnd:         "ArrayEnd",
	ObjectStart:      "ObjectStart",
	ObjectEntryKey:   "ObjectEntryKey",
	ObjectEntryColon: "ObjectEntryColon",
	ObjectEntryValue: "ObjectEntryValue",
	ObjectEntryComma: "ObjectEntryComma",
	ObjectEnd:        "ObjectEnd",
}

func (c Context) String() string { return contextStr[c] }

// InArray reports whether c is one of the states reached while directly
// inside an array (as opposed to inside a nested container).
func (c Context) InArray() bool {
	switch c {
	case ArrayStart, ArrayValue, ArrayComma:
		return true
	default:
		return false
	}
}

// InObject reports whether c is one of the states reached while directly
// inside an object.
func (c Context) InObject() bool {
	switch c {
	case ObjectStart, ObjectEntryKey, ObjectEntryColon, ObjectEntryValue, ObjectEntryComma:
		return true
	default:
		return false
	}
}

// InValue reports whether c is positioned exactly at a completed value
// within its enclosing container (array element or object entry value).
func (c Context) InValue() bool {
	switch c {
	case ArrayValue, ObjectEntryValue:
		return true
	default:
		return false
	}
}

// State reports the outcome of processing one token.
type State byte

// Constants defining the valid State values.
const (
	// Complete reports that the token just processed finished a top-level
	// value: the stream could legally end here.
	Complete State = iota
	// Incomplete reports that more tokens are required before the input
	// could be considered a complete value.
	Incomplete
	// Ignored reports that the token was whitespace and did not affect the
	// grammar state.
	Ignored
)

func (s State) String() string {
	switch s {
	case Complete:
		return "Complete"
	case Incomplete:
		return "Incomplete"
	default:
		return "Ignored"
	}
}

// ErrUnexpectedEndOfInput is returned by Finish when the token stream ended
// with open containers or an incomplete value.
var ErrUnexpectedEndOfInput = errors.New("unexpected end of input")

// Error reports that a token was invalid in the validator's current
// context. Context is the context the token was rejected from; it is the
// zero Context (NoContext) if the token was invalid at top level.
type Error struct {
	Context Context
	HasContext bool
}

func (e *Error) Error() string {
	if e.HasContext {
		return fmt.Sprintf("invalid token in context %s", e.Context)
	}
	return "invalid token at top level"
}

// A Validator is a pushdown automaton over a token stream. The zero value
// is ready to use, starting at top level.
type Validator struct {
	current    Context
	hasCurrent bool
	stack      []Context
}

// New constructs a Validator positioned at top level.
func New() *Validator { return &Validator{} }

// Current reports the validator's current context and whether it has one
// (false at top level before any container has been opened).
func (v *Validator) Current() (Context, bool) { return v.current, v.hasCurrent }

// Depth reports how many parent contexts are saved: one less than the
// container nesting depth while inside a container (a container opened
// at top level saves none), and 0 at top level.
func (v *Validator) Depth() int { return len(v.stack) }

// Reset restores v to its initial top-level state.
func (v *Validator) Reset() {
	v.current = NoContext
	v.hasCurrent = false
	v.stack = v.stack[:0]
}

// Finish reports whether the validator is in a state where the input could
// legally end: top level with no open containers.
func (v *Validator) Finish() error {
	if !v.hasCurrent && len(v.stack) == 0 {
		return nil
	}
	return ErrUnexpectedEndOfInput
}

// closeContainer is invoked when a Close token has just been accepted. If
// this container was opened while already nested (the common case), the
// top of the stack records the parent context at the time it was opened
// (see open); popping it tells us the resuming context. An
// empty stack means this container was opened at top level, so closing it
// completes the whole document.
func (v *Validator) closeContainer() (State, error) {
	if len(v.stack) == 0 {
		v.current, v.hasCurrent = NoContext, false
		return Complete, nil
	}
	parent := v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]
	switch parent {
	case ObjectEntryColon:
		v.current = ObjectEntryValue
	case ArrayStart, ArrayComma:
		v.current = ArrayValue
	default:
		panic("validator: corrupt context stack")
	}
	return Incomplete, nil
}

// open records current as the resuming context and transitions into a
// freshly opened container (next is ArrayStart or ObjectStart). Only
// container-opening transitions push: current is saved on the stack
// exactly once per nested container, and a container opened at top level
// pushes nothing (see Process), so the stack depth is one less than the
// container nesting depth (see closeContainer and spec.md §4.C).
func (v *Validator) open(current, next Context) (State, error) {
	v.stack = append(v.stack, current)
	v.current, v.hasCurrent = next, true
	return Incomplete, nil
}

// advance transitions within the current container without changing
// nesting depth (scalar values, commas, colons, keys).
func (v *Validator) advance(next Context) (State, error) {
	v.current = next
	return Incomplete, nil
}

func (v *Validator) invalid() (State, error) {
	return 0, &Error{Context: v.current, HasContext: v.hasCurrent}
}

// Process advances the validator by one token and reports the resulting
// state, or an *Error if tok is invalid in the validator's current
// context, or ErrUnexpectedEndOfInput is never returned from here (only
// from Finish).
func (v *Validator) Process(tok streamjson.Token) (State, error) {
	if tok.IsWhitespace() {
		return Ignored, nil
	}

	if !v.hasCurrent {
		switch {
		case tok.IsCompleteValue():
			return Complete, nil
		case tok.Kind == streamjson.ArrayOpen:
			v.current, v.hasCurrent = ArrayStart, true
			return Incomplete, nil
		case tok.Kind == streamjson.ObjectOpen:
			v.current, v.hasCurrent = ObjectStart, true
			return Incomplete, nil
		default:
			return v.invalid()
		}
	}

	context := v.current
	switch context {
	case ArrayStart:
		switch {
		case tok.IsCompleteValue():
			return v.advance(ArrayValue)
		case tok.Kind == streamjson.ObjectOpen:
			return v.open(context, ObjectStart)
		case tok.Kind == streamjson.ArrayOpen:
			return v.open(context, ArrayStart)
		case tok.Kind == streamjson.ArrayClose:
			return v.closeContainer()
		default:
			return v.invalid()
		}

	case ArrayValue:
		switch {
		case tok.Kind == streamjson.Comma:
			return v.advance(ArrayComma)
		case tok.Kind == streamjson.ArrayClose:
			return v.closeContainer()
		default:
			return v.invalid()
		}

	case ArrayComma:
		switch {
		case tok.IsCompleteValue():
			return v.advance(ArrayValue)
		case tok.Kind == streamjson.ObjectOpen:
			return v.open(context, ObjectStart)
		case tok.Kind == streamjson.ArrayOpen:
			return v.open(context, ArrayStart)
		default:
			return v.invalid()
		}

	case ObjectStart:
		switch {
		case tok.Kind == streamjson.TString:
			return v.advance(ObjectEntryKey)
		case tok.Kind == streamjson.ObjectClose:
			return v.closeContainer()
		default:
			return v.invalid()
		}

	case ObjectEntryKey:
		if tok.Kind == streamjson.Colon {
			return v.advance(ObjectEntryColon)
		}
		return v.invalid()

	case ObjectEntryColon:
		switch {
		case tok.IsCompleteValue():
			return v.advance(ObjectEntryValue)
		case tok.Kind == streamjson.ObjectOpen:
			return v.open(context, ObjectStart)
		case tok.Kind == streamjson.ArrayOpen:
			return v.open(context, ArrayStart)
		default:
			return v.invalid()
		}

	case ObjectEntryValue:
		switch {
		case tok.Kind == streamjson.Comma:
			return v.advance(ObjectEntryComma)
		case tok.Kind == streamjson.ObjectClose:
			return v.closeContainer()
		default:
			return v.invalid()
		}

	case ObjectEntryComma:
		if tok.Kind == streamjson.TString {
			return v.advance(ObjectEntryKey)
		}
		return v.invalid()

	default:
		panic("validator: unreachable context " + context.String())
	}
}
