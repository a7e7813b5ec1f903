// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package reformat re-emits a token stream read through package driver,
// either compacted (all original whitespace dropped) or pretty-printed
// with a configurable indent, generalizing the original json-reformat
// and json-validate examples' content checks: string tokens must be
// valid UTF-8 and integer-looking numbers must be representable as a
// signed 64-bit integer.
package reformat

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	streamjson "github.com/creachadair/streamjson"
	"github.com/creachadair/streamjson/driver"
	"github.com/creachadair/streamjson/internal/escape"
	"go4.org/mem"
)

// ErrInvalidStringUTF8 reports that a string token's bytes (including
// any escape sequences, taken literally) are not valid UTF-8.
var ErrInvalidStringUTF8 = errors.New("reformat: string token is not valid UTF-8")

// ErrIntegerOverflow reports that a number token with no fraction or
// exponent part does not fit in a signed 64-bit integer.
var ErrIntegerOverflow = errors.New("reformat: integer literal overflows int64")

// ErrInvalidStringEscape reports that CanonicalizeStrings could not
// decode a string token's escape sequences.
var ErrInvalidStringEscape = errors.New("reformat: string token contains an invalid escape sequence")

// Options configures Copy.
type Options struct {
	// Indent, when non-empty, pretty-prints with one copy of Indent per
	// nesting level after every open bracket, comma, and before every
	// close bracket. The zero value emits a compact form with no
	// whitespace at all: package driver already discards the source's
	// own whitespace tokens, so compact mode is not a byte-exact
	// passthrough of the original formatting.
	Indent string

	// ValidateStrings requires every string token to decode as valid
	// UTF-8, beyond what the tokenizer's own byte-range checks enforce.
	ValidateStrings bool

	// ValidateIntegers requires every integer-looking number to fit in
	// a signed 64-bit integer.
	ValidateIntegers bool

	// CanonicalizeStrings decodes every string token's escape sequences
	// and re-quotes them through a single encoding, so that two input
	// strings differing only in escape style (a literal control byte vs.
	// its \u00XX form, "\/" vs "/", and so on) come out byte-identical.
	CanonicalizeStrings bool
}

// Copy reads a single JSON document from r and reformats it to w per
// opts. bufCapacity sizes the underlying driver.Buffer; pass 0 for a
// reasonable default.
func Copy(w io.Writer, r io.Reader, bufCapacity int, opts Options) error {
	if bufCapacity <= 0 {
		bufCapacity = 4096
	}
	d, err := driver.New(r, bufCapacity, streamjson.CompressSpacesTabsNewlines)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	depth := 0
	justOpened := false

	writeIndent := func(n int) {
		if opts.Indent == "" {
			return
		}
		bw.WriteByte('\n')
		for i := 0; i < n; i++ {
			bw.WriteString(opts.Indent)
		}
	}

	for {
		tok, _, err := d.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if opts.ValidateStrings && tok.Kind == streamjson.TString && !utf8.Valid(tok.Bytes) {
			return ErrInvalidStringUTF8
		}
		if opts.ValidateIntegers && tok.Kind == streamjson.TNumber && isIntegerLiteral(tok.Bytes) {
			if _, err := strconv.ParseInt(string(tok.Bytes), 10, 64); err != nil {
				return ErrIntegerOverflow
			}
		}

		switch {
		case tok.IsOpen():
			if justOpened {
				writeIndent(depth)
			}
			if _, err := tok.Print(bw); err != nil {
				return err
			}
			depth++
			justOpened = true
			continue

		case tok.IsClose():
			depth--
			if !justOpened {
				writeIndent(depth)
			}
			if _, err := tok.Print(bw); err != nil {
				return err
			}
			justOpened = false

		case tok.Kind == streamjson.Comma:
			if _, err := tok.Print(bw); err != nil {
				return err
			}
			writeIndent(depth)
			justOpened = false

		case tok.Kind == streamjson.Colon:
			if _, err := tok.Print(bw); err != nil {
				return err
			}
			if opts.Indent != "" {
				bw.WriteByte(' ')
			}
			justOpened = false

		case tok.Kind == streamjson.TString && opts.CanonicalizeStrings:
			if justOpened {
				writeIndent(depth)
			}
			if err := writeCanonicalString(bw, tok.Bytes); err != nil {
				return err
			}
			justOpened = false

		default:
			if justOpened {
				writeIndent(depth)
			}
			if _, err := tok.Print(bw); err != nil {
				return err
			}
			justOpened = false
		}
	}
	if opts.Indent != "" {
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// isIntegerLiteral reports whether a number token's raw bytes contain no
// fraction or exponent part, i.e. it parses as an int64 candidate rather
// than requiring float64 precision.
func isIntegerLiteral(b []byte) bool {
	return !strings.ContainsAny(string(b), ".eE")
}

// writeCanonicalString decodes a string token's escape sequences with
// escape.Unquote and re-quotes the decoded text with escape.Quote, so
// any equivalent encoding of the same characters comes out identical.
func writeCanonicalString(w io.Writer, raw []byte) error {
	dec, err := escape.Unquote(mem.B(raw[1 : len(raw)-1]))
	if err != nil {
		return ErrInvalidStringEscape
	}
	if _, err := w.Write([]byte{'"'}); err != nil {
		return err
	}
	if _, err := w.Write(escape.Quote(mem.B(dec))); err != nil {
		return err
	}
	_, err = w.Write([]byte{'"'})
	return err
}
