// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package schema derives a structural type description from a stream of
// JSON documents, generalizing the original derive-schema example: every
// value observed at a given path is folded into that path's Schema node,
// so that a path visited with more than one shape accumulates an Either
// of every shape seen there instead of picking one arbitrarily.
package schema

import (
	"fmt"
	"io"
	"sort"
	"strings"

	streamjson "github.com/creachadair/streamjson"
	"github.com/creachadair/streamjson/driver"
	"github.com/creachadair/streamjson/jsonpath"
	"github.com/creachadair/streamjson/visitor"
)

// Kind identifies the shape of a Schema node.
type Kind byte

// Constants defining the valid Kind values.
const (
	// Empty is the zero Kind: a path that has not yet observed any value.
	// It is a first-class member of the lattice, not an error state: a
	// document with an always-empty array at some path legitimately
	// derives an Empty element schema.
	Empty Kind = iota
	Object
	Array
	Number
	String
	Null
	Bool
	// Either records that more than one incompatible shape was observed
	// at the same path across the documents folded into this Schema.
	Either
)

var kindStr = [...]string{
	Empty: "empty", Object: "object", Array: "array", Number: "number",
	String: "string", Null: "null", Bool: "bool", Either: "either",
}

func (k Kind) String() string { return kindStr[k] }

// Schema is one node of a derived type description. The zero Schema is
// Empty.
type Schema struct {
	Kind Kind

	// Object holds this node's member schemas when Kind == Object.
	Object map[string]*Schema

	// Array holds this node's per-index element schemas when
	// Kind == Array: Array[i] is whatever was observed at index i across
	// every document folded in, which may itself be Empty if no document
	// was that long.
	Array []*Schema

	// Either holds the distinct shapes observed at this path when
	// Kind == Either.
	Either []*Schema
}

func fromType(t streamjson.JsonType) *Schema {
	switch t {
	case streamjson.Object:
		return &Schema{Kind: Object, Object: map[string]*Schema{}}
	case streamjson.Array:
		return &Schema{Kind: Array}
	case streamjson.Number:
		return &Schema{Kind: Number}
	case streamjson.String:
		return &Schema{Kind: String}
	case streamjson.NullType:
		return &Schema{Kind: Null}
	case streamjson.Bool:
		return &Schema{Kind: Bool}
	default:
		return &Schema{Kind: Empty}
	}
}

// descend returns the child node at seg, growing an Object's member map
// or an Array's element slice as needed. It panics if s is not currently
// an Object or Array, mirroring the source's own assumption that descend
// is only ever called along a path a container actually produced.
func (s *Schema) descend(seg jsonpath.Segment) *Schema {
	switch s.Kind {
	case Object:
		key, _ := seg.AsKey()
		child, ok := s.Object[key]
		if !ok {
			child = &Schema{Kind: Empty}
			s.Object[key] = child
		}
		return child
	case Array:
		idx, _ := seg.AsIndex()
		for idx >= len(s.Array) {
			s.Array = append(s.Array, &Schema{Kind: Empty})
		}
		return s.Array[idx]
	default:
		panic(fmt.Sprintf("schema: cannot descend into %s", s.Kind))
	}
}

// equal reports whether s and other describe the same shape.
func (s *Schema) equal(other *Schema) bool {
	if s.Kind != other.Kind {
		return false
	}
	switch s.Kind {
	case Object:
		if len(s.Object) != len(other.Object) {
			return false
		}
		for k, v := range s.Object {
			ov, ok := other.Object[k]
			if !ok || !v.equal(ov) {
				return false
			}
		}
		return true
	case Array:
		if len(s.Array) != len(other.Array) {
			return false
		}
		for i, v := range s.Array {
			if !v.equal(other.Array[i]) {
				return false
			}
		}
		return true
	case Either:
		if len(s.Either) != len(other.Either) {
			return false
		}
		for _, v := range s.Either {
			if !containsEqual(other.Either, v) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func containsEqual(set []*Schema, v *Schema) bool {
	for _, e := range set {
		if e.equal(v) {
			return true
		}
	}
	return false
}

// either folds other into s in place: an Empty node simply becomes
// other; a node already recording alternatives gains other as one more
// alternative (if distinct); a node equal to other is left untouched;
// anything else converts s into an Either of its old shape and other.
func (s *Schema) either(other *Schema) {
	switch {
	case s.Kind == Empty:
		*s = *other
	case s.Kind == Either:
		if !containsEqual(s.Either, other) {
			s.Either = append(s.Either, other)
		}
	case s.equal(other):
		// already the same shape
	default:
		old := *s
		*s = Schema{Kind: Either, Either: []*Schema{other}}
		s.either(&old)
	}
}

// Builder folds a stream of visitor Events into an accumulating Schema.
// The zero Builder is not ready to use; construct one with NewBuilder.
type Builder struct {
	root        *Schema
	homogeneous bool
}

// Option configures a Builder constructed by NewBuilder.
type Option func(*Builder)

// WithHomogeneousArrays selects the homogeneous array mode spec.md §9
// leaves as an open, visitor-level choice: every element of an array,
// regardless of its true index, folds into the same element-0 Schema
// node. The default (heterogeneous) mode tracks each index separately.
// The path the core computes still carries the true index either way;
// this option only changes how the schema builder collapses it.
func WithHomogeneousArrays() Option {
	return func(b *Builder) { b.homogeneous = true }
}

// NewBuilder constructs a Builder with an Empty root.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{root: &Schema{Kind: Empty}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Process folds one visitor Event into the builder's schema. Only
// start-of-value events carry a type to fold in; every other event is a
// no-op.
func (b *Builder) Process(ev visitor.Event) {
	if !ev.IsStartOfValue {
		return
	}
	typ, ok := ev.Token.ValueType()
	if !ok {
		return
	}
	node := b.root
	for _, seg := range ev.Path {
		if b.homogeneous {
			if _, isIdx := seg.AsIndex(); isIdx {
				seg = jsonpath.Index(0)
			}
		}
		node = node.descend(seg)
	}
	node.either(fromType(typ))
}

// Schema returns the builder's accumulated root node.
func (b *Builder) Schema() *Schema { return b.root }

// Derive reads a single JSON document from r and derives its Schema.
// Callers deriving a schema across many documents (e.g. one schema per
// line of a JSONL file) should construct a Builder directly and call
// Process once per document's events, so the same root accumulates
// every document's shapes.
func Derive(r io.Reader, bufCapacity int, opts ...Option) (*Schema, error) {
	if bufCapacity <= 0 {
		bufCapacity = 4096
	}
	d, err := driver.New(r, bufCapacity, streamjson.CompressSpacesTabsNewlines)
	if err != nil {
		return nil, err
	}
	l := visitor.New(d)
	b := NewBuilder(opts...)
	for {
		ev, err := l.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		b.Process(ev)
	}
	return b.Schema(), nil
}

// String renders s as a compact, deterministic one-line description,
// sorting object keys and Either alternatives for reproducibility.
func (s *Schema) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s *Schema) write(b *strings.Builder) {
	switch s.Kind {
	case Object:
		b.WriteByte('{')
		keys := make([]string, 0, len(s.Object))
		for k := range s.Object {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(b, "%s:", strings.TrimSuffix(strings.TrimPrefix(k, `"`), `"`))
			s.Object[k].write(b)
		}
		b.WriteByte('}')
	case Array:
		b.WriteByte('[')
		for i, e := range s.Array {
			if i > 0 {
				b.WriteByte(',')
			}
			e.write(b)
		}
		b.WriteByte(']')
	case Either:
		alts := make([]string, len(s.Either))
		for i, e := range s.Either {
			alts[i] = e.String()
		}
		sort.Strings(alts)
		b.WriteByte('(')
		b.WriteString(strings.Join(alts, "|"))
		b.WriteByte(')')
	default:
		b.WriteString(s.Kind.String())
	}
}
