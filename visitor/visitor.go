// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package visitor composes package driver's token stream with a
// jsonpath.Path, delivering one Event per token with that token's
// structural position already computed. It is the streaming analogue of
// walking a value tree in preorder, postorder, and inorder all at once:
// a single Event carries enough state to serve all three.
package visitor

import (
	streamjson "github.com/creachadair/streamjson"
	"github.com/creachadair/streamjson/driver"
	"github.com/creachadair/streamjson/jsonpath"
	"github.com/creachadair/streamjson/validator"
)

// Event reports one token along with the path at which it occurs and its
// role in the surrounding structure.
type Event struct {
	// Token is the validated token this event reports.
	Token streamjson.Token

	// State is the grammar state that resulted from processing Token.
	State validator.State

	// Path is the path to Token itself: for a leaf value or a container
	// open, the path at which it sits; for a container close, the path
	// before the close pops its last segment, i.e. the closed
	// container's path followed by its last key (an object) or by its
	// element count (an array). Use this field with IsStartOfValue.
	Path jsonpath.Path

	// EndPath is Path after any pop a close token performs, i.e. the
	// path to Token's enclosing container once Token itself is no
	// longer part of the path. It equals Path for every non-close
	// token. Use this field with IsEndOfValue.
	EndPath jsonpath.Path

	// IsStartOfValue reports whether Token begins a new value (a leaf
	// token, or an opening brace/bracket). It is false for an object key
	// string, which introduces an entry, not a value.
	IsStartOfValue bool

	// IsEndOfValue reports whether Token ends a value that is positioned
	// directly in an array or object (or is the whole document): a leaf
	// token, or a closing brace/bracket whose container resumed a value
	// context.
	IsEndOfValue bool

	// IsObjectKey reports whether Token is a string in key position
	// (i.e. the validator is currently expecting the colon that follows
	// an object key).
	IsObjectKey bool

	// ClosedSegment and HasClosedSegment report the path segment that
	// was popped when Token closes a container, letting a caller learn
	// an array's final length or an object's last key without having
	// tracked every member itself.
	ClosedSegment    jsonpath.Segment
	HasClosedSegment bool
}

// Loop drives a *driver.Driver, maintaining a jsonpath.Path in lockstep
// with the validator's context transitions and reporting one Event per
// token. The zero Loop is not ready to use; construct one with New.
type Loop struct {
	d    *driver.Driver
	path jsonpath.Path
}

// New constructs a Loop reading tokens from d.
func New(d *driver.Driver) *Loop {
	return &Loop{d: d}
}

// Path reports the loop's current path. It is only meaningful between
// calls to Next, reflecting the position of the event most recently
// returned.
func (l *Loop) Path() jsonpath.Path { return l.path }

// Next returns the next validated token as an Event, or io.EOF (via the
// same terminal errors as driver.Driver.Next) once the document is
// complete and the input is exhausted.
func (l *Loop) Next() (Event, error) {
	tok, state, err := l.d.Next()
	if err != nil {
		return Event{}, err
	}

	current, hasCurrent := l.d.Validator().Current()

	isStartOfValue := tok.IsValueStart() && current != validator.ObjectEntryKey
	isObjectKey := hasCurrent && current == validator.ObjectEntryKey

	ev := Event{
		Token:       tok,
		State:       state,
		Path:        l.path,
		IsObjectKey: isObjectKey,
	}
	if isStartOfValue {
		ev.IsStartOfValue = true
	}

	if tok.IsClose() {
		if seg, ok := l.path.Last(); ok {
			ev.ClosedSegment = seg
			ev.HasClosedSegment = true
		}
		l.path = l.path.Pop()
	}
	ev.EndPath = l.path

	ev.IsEndOfValue = (tok.IsClose() || tok.IsValueStart()) && isContextInValue(current, hasCurrent)

	// Advance the path so it is ready for the NEXT token: an opened
	// container gets a placeholder child pushed, an object key fills in
	// the placeholder just pushed by ObjectStart, and an array element
	// increments the index left behind by the previous one.
	switch {
	case hasCurrent && current == validator.ObjectStart:
		l.path = l.path.Push(jsonpath.EmptyKey)
	case hasCurrent && current == validator.ObjectEntryKey:
		l.path = l.path.WithLast(jsonpath.Key(string(tok.Bytes)))
	case hasCurrent && current == validator.ArrayStart:
		l.path = l.path.Push(jsonpath.Index(0))
	case hasCurrent && current == validator.ArrayValue:
		if last, ok := l.path.Last(); ok {
			if idx, isIdx := last.AsIndex(); isIdx {
				l.path = l.path.WithLast(jsonpath.Index(idx + 1))
			}
		}
	}

	return ev, nil
}

// isContextInValue reports whether context is positioned exactly at a
// value: either no context at all (top level, the document itself is a
// value), or one of InValue's array/object-entry-value states.
func isContextInValue(context validator.Context, hasContext bool) bool {
	return !hasContext || context.InValue()
}
