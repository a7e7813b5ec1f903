// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package fieldextract collects named leaf fields out of a stream of
// JSON documents into flat Records, generalizing the original
// extract-cookies example: instead of hardcoding "the object directly
// under $.cookies[*] with keys name/value/host/...", a caller supplies
// a set of Fields, each a pathquery pattern paired with the Record key
// its matched value should be stored under. A cookie extractor becomes
// one configuration of this generic mechanism (see the package example
// in fieldextract_test.go).
package fieldextract

import (
	"go4.org/mem"

	streamjson "github.com/creachadair/streamjson"
	"github.com/creachadair/streamjson/internal/escape"
	"github.com/creachadair/streamjson/pathquery"
	"github.com/creachadair/streamjson/validator"
	"github.com/creachadair/streamjson/visitor"
)

// Field names a leaf-value pattern to collect and the Record key its
// matched value is stored under.
type Field struct {
	Pattern pathquery.Query
	Name    string
}

// Record is one set of field values collected from a single container,
// keyed by Field.Name. A Record is complete once every required field
// (per the caller's own validity check) has been populated.
type Record map[string]string

// Extractor accumulates Records keyed by their containing path as
// visitor Events stream by, flushing every Record it has accumulated
// whenever the enclosing document completes (mirroring the source's
// own per-document flush, since a streamed input may contain more than
// one top-level document back to back).
type Extractor struct {
	fields  []Field
	records map[string]Record
	order   []string
}

// New constructs an Extractor collecting the given fields.
func New(fields ...Field) *Extractor {
	return &Extractor{fields: fields, records: map[string]Record{}}
}

// Process folds one visitor Event into the extractor's state. When ev
// completes a document, Process returns every Record collected during
// it (in first-seen order) and clears its internal state so the next
// document starts fresh; otherwise it returns nil.
func (e *Extractor) Process(ev visitor.Event) []Record {
	if ev.IsStartOfValue && ev.IsEndOfValue {
		e.collect(ev)
	}
	if ev.State == validator.Complete {
		return e.drain()
	}
	return nil
}

func (e *Extractor) collect(ev visitor.Event) {
	value, ok := leafValue(ev.Token)
	if !ok {
		return
	}
	for _, f := range e.fields {
		if !f.Pattern.Match(ev.Path) {
			continue
		}
		parent := ev.Path.Parent().String()
		rec, ok := e.records[parent]
		if !ok {
			rec = Record{}
			e.records[parent] = rec
			e.order = append(e.order, parent)
		}
		rec[f.Name] = value
	}
}

func (e *Extractor) drain() []Record {
	out := make([]Record, 0, len(e.order))
	for _, key := range e.order {
		out = append(out, e.records[key])
	}
	e.records = map[string]Record{}
	e.order = nil
	return out
}

// leafValue renders a leaf token's display value: strings are unquoted
// and unescaped, numbers keep their literal text, and true/false/null
// render as those words.
func leafValue(tok streamjson.Token) (string, bool) {
	switch tok.Kind {
	case streamjson.TString:
		inner := tok.Bytes[1 : len(tok.Bytes)-1]
		dec, err := escape.Unquote(mem.B(inner))
		if err != nil {
			return string(inner), true
		}
		return string(dec), true
	case streamjson.TNumber:
		return string(tok.Bytes), true
	case streamjson.True:
		return "true", true
	case streamjson.False:
		return "false", true
	case streamjson.Null:
		return "null", true
	default:
		return "", false
	}
}
