// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package streamjson

import "github.com/creachadair/streamjson/cursor"

// CompressSpacesTabsNewlines is the default compressible-whitespace
// predicate: space, tab, and newline are all folded into a single Spaces
// run. It is the predicate used by examples throughout this package's
// documentation.
func CompressSpacesTabsNewlines(b byte) bool { return isWhitespace(b) }

func isWhitespace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// CompressNextToken reads exactly one token from c, classifying the first
// unread byte and dispatching to the matching scan routine. On success the
// cursor has advanced past the token. On error, the error is enriched with
// TokenStart (and, for multi-byte tokens, RecoveryPoint and Context)
// before it is returned, so a caller can decide whether to refill and
// resume (see package driver).
//
// compressible reports whether a given whitespace byte should be folded
// into a run-length-encoded Spaces token; bytes for which it returns false
// are emitted individually as Whitespace tokens. Pass
// CompressSpacesTabsNewlines for the common case.
func CompressNextToken(c *cursor.Cursor, compressible func(byte) bool) (Token, error) {
	start := c.Offset
	b, ok := c.Peek()
	if !ok {
		return Token{}, UnexpectedEndOfInput().WithTokenStart(start)
	}

	switch {
	case isWhitespace(b) && compressible(b):
		return scanSpaces(c), nil
	case isWhitespace(b):
		c.Next()
		return Token{Kind: Whitespace, N: b}, nil
	case b == '-' || isDigit(b):
		return scanNumber(c, start)
	case b == '"':
		return scanString(c, start)
	case b == 'n':
		return scanKeyword(c, start, "null", Null, InNull)
	case b == 't':
		return scanKeyword(c, start, "true", True, InTrue)
	case b == 'f':
		return scanKeyword(c, start, "false", False, InFalse)
	case b == '{':
		c.Next()
		return Token{Kind: ObjectOpen}, nil
	case b == '}':
		c.Next()
		return Token{Kind: ObjectClose}, nil
	case b == '[':
		c.Next()
		return Token{Kind: ArrayOpen}, nil
	case b == ']':
		c.Next()
		return Token{Kind: ArrayClose}, nil
	case b == ',':
		c.Next()
		return Token{Kind: Comma}, nil
	case b == ':':
		c.Next()
		return Token{Kind: Colon}, nil
	default:
		return Token{}, UnexpectedByte(b).WithTokenStart(start)
	}
}

func scanSpaces(c *cursor.Cursor) Token {
	var n byte
	for n < 255 {
		b, ok := c.Peek()
		if !ok || !isWhitespace(b) {
			break
		}
		c.Next()
		n++
	}
	return Token{Kind: Spaces, N: n}
}

// scanKeyword checks word byte by byte, as the source's check_next chain
// does, so that a mismatching byte is reported where it is found, and
// running out of input partway through a keyword is a recoverable EOI
// whose recovery point is the keyword's start: the whole keyword is
// rescanned after a refill.
func scanKeyword(c *cursor.Cursor, start int, word string, kind Kind, ctx TokenContext) (Token, error) {
	for i := 0; i < len(word); i++ {
		b, ok := c.Peek()
		if !ok {
			return Token{}, UnexpectedEndOfInput().
				WithContext(ctx).
				WithTokenStart(start).
				WithRecoveryPoint(start)
		}
		if b != word[i] {
			return Token{}, UnexpectedByte(b).WithContext(ctx).WithTokenStart(start)
		}
		c.Next()
	}
	return Token{Kind: kind}, nil
}

// scanNumber implements the RFC 7159 number grammar:
//
//	number = [ minus ] int [ frac ] [ exp ]
//	int    = zero / ( digit1-9 *DIGIT )
//	frac   = decimal-point 1*DIGIT
//	exp    = e [ minus / plus ] 1*DIGIT
func scanNumber(c *cursor.Cursor, start int) (Token, error) {
	if b, ok := c.Peek(); ok && b == '-' {
		c.Next()
	}

	b, ok := c.Peek()
	if !ok {
		return Token{}, UnexpectedEndOfInput().
			WithContext(InNumber).WithTokenStart(start).WithRecoveryPoint(start)
	}
	switch {
	case b == '0':
		c.Next()
	case isDigit(b):
		c.SkipUntil(isDigit)
	default:
		return Token{}, UnexpectedByte(b).WithContext(InNumber).WithTokenStart(start)
	}

	if b, ok := c.Peek(); ok && b == '.' {
		c.Next()
		n := c.SkipUntil(isDigit)
		if n == 0 {
			if b, ok := c.Peek(); ok {
				return Token{}, UnexpectedByte(b).WithContext(InNumber).WithTokenStart(start)
			}
			return Token{}, UnexpectedEndOfInput().
				WithContext(InNumber).WithTokenStart(start).WithRecoveryPoint(start)
		}
	}

	if b, ok := c.Peek(); ok && (b == 'e' || b == 'E') {
		c.Next()
		if b, ok := c.Peek(); ok && (b == '-' || b == '+') {
			c.Next()
		}
		n := c.SkipUntil(isDigit)
		if n == 0 {
			if b, ok := c.Peek(); ok {
				return Token{}, UnexpectedByte(b).WithContext(InNumber).WithTokenStart(start)
			}
			return Token{}, UnexpectedEndOfInput().
				WithContext(InNumber).WithTokenStart(start).WithRecoveryPoint(start)
		}
	}

	return Token{Kind: TNumber, Bytes: c.Bytes()[start:c.Offset]}, nil
}

// scanString implements:
//
//	string = quotation-mark *char quotation-mark
//	char   = unescaped / escape ( %x22 / %x5C / %x2F / %x62 / %x66 /
//	         %x6E / %x72 / %x74 / %x75 4HEXDIG )
//	unescaped = %x20-21 / %x23-5B / %x5D-10FFFF
//
// The returned token's Bytes include the enclosing quotes and any escape
// sequences unmodified; unescaping is the caller's responsibility (see
// package escape).
func scanString(c *cursor.Cursor, start int) (Token, error) {
	c.Next() // opening quote

	for {
		b, ok := c.Peek()
		if !ok {
			return Token{}, UnexpectedEndOfInput().
				WithContext(InString).WithTokenStart(start).WithRecoveryPoint(start)
		}
		switch {
		case b == '\\':
			c.Next()
			eb, ok := c.Peek()
			if !ok {
				return Token{}, UnexpectedEndOfInput().
					WithContext(InString).WithTokenStart(start).WithRecoveryPoint(start)
			}
			switch eb {
			case 'n', 't', 'b', 'f', 'r', '"', '\\', '/':
				c.Next()
			case 'u':
				c.Next()
				hexStart := c.Offset
				for i := 0; i < 4; i++ {
					hb, ok := c.Peek()
					if !ok {
						return Token{}, UnexpectedEndOfInput().
							WithContext(InString).WithTokenStart(start).WithRecoveryPoint(start)
					}
					if !isHexDigit(hb) {
						v := parsePartialHex(c.Bytes()[hexStart:c.Offset])
						return Token{}, InvalidStringUnicodeEscape(v).
							WithContext(InString).WithTokenStart(start)
					}
					c.Next()
				}
			default:
				return Token{}, InvalidStringEscape(eb).WithContext(InString).WithTokenStart(start)
			}
		case b == '"':
			c.Next()
			return Token{Kind: TString, Bytes: c.Bytes()[start:c.Offset]}, nil
		case b >= 0x20 && b <= 0x21, b >= 0x23 && b <= 0x5B, b >= 0x5D:
			c.Next()
		default:
			return Token{}, InvalidStringCodepoint(int32(b)).WithContext(InString).WithTokenStart(start)
		}
	}
}

// ContinueString resumes scanning a string body from c, which is assumed
// to be positioned somewhere inside an already-opened, not yet closed
// string (i.e. past the point scanString last reached before a refill).
// It is the standalone continuation entry point spec.md §4.B calls
// section_inside_string: the driver invokes it after a refill whose
// recoverable error carried Context() == InString, since the closing
// quote (or a further escape) may now be present in the refilled window.
// On success it reports the byte offset just past the closing quote. On
// running out of input the returned *TokenizeError carries Context
// InString and a TokenStart and RecoveryPoint that both name the offset
// to resume from (the end of the window, or the backslash of an escape
// cut short) rather than the string's own start, so the driver can keep
// the consumed bytes and loop.
func ContinueString(c *cursor.Cursor) (int, error) {
	for {
		b, ok := c.Peek()
		if !ok {
			start := c.Offset
			return 0, UnexpectedEndOfInput().
				WithContext(InString).WithTokenStart(start).WithRecoveryPoint(start)
		}
		switch {
		case b == '\\':
			start := c.Offset
			c.Next()
			eb, ok := c.Peek()
			if !ok {
				return 0, UnexpectedEndOfInput().
					WithContext(InString).WithTokenStart(start).WithRecoveryPoint(start)
			}
			switch eb {
			case 'n', 't', 'b', 'f', 'r', '"', '\\', '/':
				c.Next()
			case 'u':
				c.Next()
				hexStart := c.Offset
				for i := 0; i < 4; i++ {
					hb, ok := c.Peek()
					if !ok {
						return 0, UnexpectedEndOfInput().
							WithContext(InString).WithTokenStart(start).WithRecoveryPoint(start)
					}
					if !isHexDigit(hb) {
						v := parsePartialHex(c.Bytes()[hexStart:c.Offset])
						return 0, InvalidStringUnicodeEscape(v).
							WithContext(InString).WithTokenStart(start)
					}
					c.Next()
				}
			default:
				return 0, InvalidStringEscape(eb).WithContext(InString).WithTokenStart(start)
			}
		case b == '"':
			c.Next()
			return c.Offset, nil
		case b >= 0x20 && b <= 0x21, b >= 0x23 && b <= 0x5B, b >= 0x5D:
			c.Next()
		default:
			return 0, InvalidStringCodepoint(int32(b)).WithContext(InString).WithTokenStart(c.Offset)
		}
	}
}

func parsePartialHex(data []byte) int32 {
	var v int32
	for _, b := range data {
		v <<= 4
		switch {
		case b >= '0' && b <= '9':
			v += int32(b - '0')
		case b >= 'a' && b <= 'f':
			v += int32(b-'a') + 10
		case b >= 'A' && b <= 'F':
			v += int32(b-'A') + 10
		}
	}
	return v
}
