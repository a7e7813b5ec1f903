// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jsonextract rescans a noisy byte stream — log lines, shell
// history, a terminal capture, anything that embeds JSON values amid
// other text — for every JSON value it contains, mirroring the original
// json-extractor example's approach: run the same tokenizer and
// validator used for well-formed input, but on any structural failure
// reset and resume scanning one byte later rather than giving up on the
// whole stream.
package jsonextract

import (
	streamjson "github.com/creachadair/streamjson"
	"github.com/creachadair/streamjson/cursor"
	"github.com/creachadair/streamjson/validator"
)

// Mode selects how aggressively a structural break is handled.
type Mode bool

// Constants defining the valid Mode values.
const (
	// Strict keeps only runs of tokens that complete as a well-formed
	// top-level value; a run broken by a structural error is discarded
	// in full.
	Strict Mode = false

	// Greedy additionally salvages any complete leaf token (a string,
	// number, true, false, or null) seen before the break, even though
	// the container enclosing it never validated. This matches the
	// original example's hardcoded GREEDY constant.
	Greedy Mode = true
)

// Extractor rescans byte slices for embedded JSON values.
type Extractor struct {
	mode Mode
}

// New constructs an Extractor operating in the given Mode.
func New(mode Mode) *Extractor { return &Extractor{mode: mode} }

// span records the byte range of one token accumulated in the current
// run, and whether that token is a complete value on its own (and so
// salvageable in Greedy mode even if the run never completes).
type span struct {
	streamjson.Span
	complete bool
}

// Extract scans src left to right and returns the verbatim source text
// of every JSON value it finds, in the order they were found. A single
// call may return more than one value, since nothing requires the
// embedded values to be contiguous or to exhaust the input.
func (e *Extractor) Extract(src []byte) []string {
	var out []string

	val := validator.New()
	c := cursor.New(src)

	runStart := 0
	var spans []span

	// lastRetry remembers the offset we last rewound to, so a byte that
	// fails twice in a row is skipped forward instead of retried
	// forever at the same position.
	lastRetry := -1

	for {
		before := c.Offset
		tok, err := streamjson.CompressNextToken(c, streamjson.CompressSpacesTabsNewlines)
		if err != nil {
			terr, ok := err.(*streamjson.TokenizeError)
			if !ok {
				break
			}
			if terr.IsEOF() {
				if len(spans) > 0 && val.Finish() == nil {
					out = append(out, string(src[runStart:c.Offset]))
				}
				break
			}

			val.Reset()
			spans = spans[:0]

			if terr.IsUnexpectedByte() {
				pos := before
				if pos == lastRetry {
					pos++
				}
				lastRetry = pos
				c.Seek(pos)
				runStart = pos
				continue
			}

			// A malformed escape or codepoint partway through a string:
			// the token itself cannot be salvaged, so resume scanning
			// immediately after where it started.
			c.Seek(before + 1)
			runStart = before + 1
			continue
		}

		end := c.Offset
		state, verr := val.Process(tok)
		if verr != nil {
			val.Reset()
			if e.mode == Greedy {
				out = append(out, e.salvage(src, spans, tok, before, end)...)
			}
			spans = spans[:0]
			runStart = end
			continue
		}

		switch state {
		case validator.Complete:
			spans = append(spans, span{streamjson.Span{Pos: before, End: end}, tok.IsCompleteValue()})
			out = append(out, string(src[runStart:end]))
			spans = spans[:0]
			runStart = end

		case validator.Incomplete:
			spans = append(spans, span{streamjson.Span{Pos: before, End: end}, tok.IsCompleteValue()})

		case validator.Ignored:
			if len(spans) == 0 {
				runStart = end
			}
		}
	}

	return out
}

// salvage returns the text of every complete leaf value seen so far in
// the broken run, followed by the token that broke it if that token is
// itself a complete value (e.g. a bare string sitting where a comma was
// expected).
func (e *Extractor) salvage(src []byte, spans []span, broken streamjson.Token, before, end int) []string {
	var out []string
	for _, sp := range spans {
		if sp.complete {
			out = append(out, string(src[sp.Pos:sp.End]))
		}
	}
	if broken.IsCompleteValue() {
		out = append(out, string(src[before:end]))
	}
	return out
}
