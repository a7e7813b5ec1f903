// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package driver owns a refillable Buffer and drives the cursor,
// tokenizer, and validator across it, handling mid-token chunk boundaries
// and false-positive numbers so that callers (see package visitor and the
// consumer packages) see a plain sequence of validated tokens regardless
// of how the underlying reader happened to chunk its bytes.
package driver

import (
	"errors"
	"io"
	"log"

	streamjson "github.com/creachadair/streamjson"
	"github.com/creachadair/streamjson/cursor"
	"github.com/creachadair/streamjson/validator"
)

// Sentinel errors a Driver can report in addition to a *streamjson.TokenizeError
// or *validator.Error.
var (
	// ErrUnexpectedEndOfInput reports that the reader was exhausted before
	// the document was complete, including while a recoverable tokenizer
	// error still needed more bytes to resolve.
	ErrUnexpectedEndOfInput = errors.New("driver: unexpected end of input")

	// ErrExtraInput reports non-whitespace bytes following a complete value.
	ErrExtraInput = errors.New("driver: extra input after value")

	// ErrEmptyInput reports that the reader produced no tokens at all.
	ErrEmptyInput = errors.New("driver: empty input")
)

// Driver pulls one validated token at a time out of r, refilling its
// internal Buffer across chunk boundaries as needed. The zero Driver is
// not ready to use; construct one with New.
type Driver struct {
	r            io.Reader
	buf          *Buffer
	val          *validator.Validator
	compressible func(byte) bool

	// Logger, when non-nil, receives one line per section refill,
	// recoverable tokenizer error, and false-positive number resolution —
	// the three decision points spec.md §4.E singles out as the hard part
	// of the chunked driver. It is nil (no logging) by default, mirroring
	// the teacher's own library packages, which never log on their own
	// behalf; set it to trace recovery behavior the way the pack's
	// gojsonlex logs its own buffer growth.
	Logger *log.Logger

	continuation int
	hadTokens    bool
	finished     bool
	awaitFinish  bool
	falsePos     streamjson.Token
}

func (d *Driver) logf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}

// New constructs a Driver reading from r through a Buffer of the given
// capacity, compressing whitespace runs per compressible (pass
// streamjson.CompressSpacesTabsNewlines for the common case).
func New(r io.Reader, bufCapacity int, compressible func(byte) bool) (*Driver, error) {
	d := &Driver{
		r:            r,
		buf:          NewBuffer(bufCapacity),
		val:          validator.New(),
		compressible: compressible,
	}
	if _, err := d.buf.Init(r); err != nil {
		return nil, err
	}
	return d, nil
}

// Validator exposes the driver's underlying grammar validator so a caller
// (e.g. package visitor) can read its current Context.
func (d *Driver) Validator() *validator.Validator { return d.val }

// Next returns the next non-whitespace, validated token, along with the
// validation state that resulted from processing it. It returns io.EOF
// once the input is exhausted and the document is structurally complete.
//
// A returned *streamjson.TokenizeError or *validator.Error is fatal: the
// token stream is malformed and Next must not be called again. The
// sentinel errors ErrUnexpectedEndOfInput, ErrExtraInput, and ErrEmptyInput
// are likewise terminal.
func (d *Driver) Next() (streamjson.Token, validator.State, error) {
	if d.finished {
		return streamjson.Token{}, 0, io.EOF
	}
	if d.awaitFinish {
		d.awaitFinish = false
		return d.finish()
	}
	for {
		c := cursor.New(d.buf.Bytes())
		c.Seek(d.continuation)

		tok, err := streamjson.CompressNextToken(c, d.compressible)
		if err != nil {
			synth, state, produced, rerr := d.recover(err)
			if rerr != nil {
				return streamjson.Token{}, 0, rerr
			}
			if !produced {
				continue
			}
			if state == validator.Complete {
				d.awaitFinish = true
			}
			return synth, state, nil
		}

		if tok.IsWhitespace() {
			d.continuation = c.Offset
			if c.IsEmpty() {
				if ok, err := d.refillPlain(); err != nil {
					return streamjson.Token{}, 0, err
				} else if !ok {
					return d.finish()
				}
			}
			continue
		}

		if c.IsEmpty() && tok.PotentialFalsePositive() {
			d.continuation = c.Offset
			d.falsePos = tok.IntoOwned()
			ok, err := d.resolveFalsePositive()
			if err != nil {
				return streamjson.Token{}, 0, err
			}
			if !ok {
				// The reader is exhausted: the buffered number is final.
				// Renew moved it to offset 0, so resume just past it.
				d.continuation = len(d.falsePos.Bytes)
				state, verr := d.val.Process(d.falsePos)
				if verr != nil {
					return streamjson.Token{}, 0, verr
				}
				d.hadTokens = true
				d.awaitFinish = true
				return d.falsePos, state, nil
			}
			continue
		}

		state, verr := d.val.Process(tok)
		if verr != nil {
			return streamjson.Token{}, 0, verr
		}
		d.hadTokens = true
		d.continuation = c.Offset
		if state == validator.Complete {
			d.awaitFinish = true
			return tok, state, nil
		}
		if c.IsEmpty() {
			tok = tok.IntoOwned() // the refill overwrites the window tok borrows from
			if ok, err := d.refillPlain(); err != nil {
				return streamjson.Token{}, 0, err
			} else if !ok {
				d.awaitFinish = true
				return tok, state, nil // caller sees this token; next call finalizes.
			}
		}
		return tok, state, nil
	}
}

// refillPlain performs an ordinary (non-recovery) refill once the cursor
// has reached the end of the current window with nothing left pending. It
// reports false once the reader is exhausted.
func (d *Driver) refillPlain() (bool, error) {
	n, err := d.buf.Renew(d.r, d.buf.Size())
	if err != nil {
		return false, err
	}
	d.logf("driver: section refill read %d bytes", n)
	d.continuation = 0
	return n > 0, nil
}

// resolveFalsePositive implements the source's PotentialFalsePositive
// branch: re-request bytes starting at the token's own start offset so
// the number can be re-scanned against whatever follows it.
func (d *Driver) resolveFalsePositive() (bool, error) {
	tokenStart := d.continuation - len(d.falsePos.Bytes)
	d.continuation = 0
	n, err := d.buf.Renew(d.r, tokenStart)
	if err != nil {
		return false, err
	}
	d.logf("driver: re-resolving potential false-positive number %q (read %d more bytes)",
		d.falsePos.Bytes, n)
	return n > 0, nil
}

// recover handles a TokenizeError: distinguishing recoverable (needs
// refill) from fatal, and driving the string-continuation entry point
// when the error occurred mid-string. When it returns produced == true,
// tok/state are a validated token the caller must return to its own
// caller; when produced == false, the caller should just retry
// tokenizing from the (now refilled) buffer.
func (d *Driver) recover(err error) (tok streamjson.Token, state validator.State, produced bool, _ error) {
	tokErr, ok := err.(*streamjson.TokenizeError)
	if !ok {
		return streamjson.Token{}, 0, false, err
	}
	tokenStart, hasStart := tokErr.TokenStart()
	recoveryPoint, hasRecovery := tokErr.RecoveryPoint()
	if !hasStart || !hasRecovery {
		return streamjson.Token{}, 0, false, tokErr
	}

	ctx, hasCtx := tokErr.Context()
	d.logf("driver: recoverable error at token_start=%d recovery_point=%d context=%v",
		tokenStart, recoveryPoint, ctx)
	if !hasCtx || ctx != streamjson.InString {
		n, rerr := d.buf.Renew(d.r, recoveryPoint)
		if rerr != nil {
			return streamjson.Token{}, 0, false, rerr
		}
		if n == 0 {
			return streamjson.Token{}, 0, false, ErrUnexpectedEndOfInput
		}
		d.continuation = 0
		return streamjson.Token{}, 0, false, nil
	}

	// scanString's own recovery point is always the token's start (never a
	// mid-scan offset, per spec.md §4.E), so this prefix is always empty in
	// practice; finishStringToken's returned tail carries the whole lexeme,
	// quotes included. Captured here rather than assumed so the split still
	// behaves if a future tokenizer change ever reports partial progress.
	prefix := append([]byte(nil), d.buf.Bytes()[tokenStart:recoveryPoint]...)

	// A string that already starts at offset 0 stays where it is: Renew
	// could not make room behind it, and finishStringToken refills once
	// ContinueString reaches the end of the window.
	if recoveryPoint > 0 {
		n, rerr := d.buf.Renew(d.r, recoveryPoint)
		if rerr != nil {
			return streamjson.Token{}, 0, false, rerr
		}
		if n == 0 {
			return streamjson.Token{}, 0, false, ErrUnexpectedEndOfInput
		}
	}

	cont, tail, serr := d.finishStringToken()
	if serr != nil {
		return streamjson.Token{}, 0, false, serr
	}
	synth := streamjson.Token{Kind: streamjson.TString, Bytes: append(prefix, tail...)}
	vstate, verr := d.val.Process(synth)
	if verr != nil {
		return streamjson.Token{}, 0, false, verr
	}
	d.continuation = cont
	d.hadTokens = true
	return synth, vstate, true, nil
}

// finishStringToken loops refilling the buffer until the string begun
// before the last refill either closes or definitively cannot, mirroring
// the source's finish_string_token. It returns the offset at which normal
// tokenization should resume, along with every byte consumed while doing
// so, so the caller can reassemble the full string lexeme across however
// many refills it took to find the closing quote.
//
// The first iteration is special: recover's Renew(recoveryPoint=tokenStart)
// preserves the string's own opening quote at buffer offset 0 (scanString's
// recovery point is always its token start, never a mid-scan offset, per
// spec.md §4.E), so ContinueString must be entered one byte past it or it
// would read that quote as the closing delimiter. Every later iteration's
// buffer starts at a true continuation point already past that ambiguity.
func (d *Driver) finishStringToken() (int, []byte, error) {
	var acc []byte
	first := true
	for {
		c := cursor.New(d.buf.Bytes())
		if first {
			c.Seek(1)
			first = false
		}
		end, err := streamjson.ContinueString(c)
		if err == nil {
			acc = append(acc, d.buf.Bytes()[:end]...)
			return end, acc, nil
		}
		tokErr, ok := err.(*streamjson.TokenizeError)
		if !ok {
			return 0, nil, err
		}
		recoveryPoint, hasRecovery := tokErr.RecoveryPoint()
		if _, hasStart := tokErr.TokenStart(); !hasStart || !hasRecovery {
			return 0, nil, tokErr
		}
		acc = append(acc, d.buf.Bytes()[:recoveryPoint]...)
		n, rerr := d.buf.Renew(d.r, recoveryPoint)
		if rerr != nil {
			return 0, nil, rerr
		}
		if n == 0 {
			return 0, nil, ErrUnexpectedEndOfInput
		}
	}
}

// finish runs the end-of-document checks the source performs once the
// validator reports Complete and the reader is drained: any remaining
// bytes must be whitespace, and at least one token must have been seen.
func (d *Driver) finish() (streamjson.Token, validator.State, error) {
	if err := d.val.Finish(); err != nil {
		return streamjson.Token{}, 0, ErrUnexpectedEndOfInput
	}
	c := cursor.New(d.buf.Bytes())
	c.Seek(d.continuation)
	c.SkipUntil(func(b byte) bool { return b == ' ' || b == '\t' || b == '\n' })
	if !c.IsEmpty() {
		return streamjson.Token{}, 0, ErrExtraInput
	}
	if !d.hadTokens {
		return streamjson.Token{}, 0, ErrEmptyInput
	}
	d.finished = true
	return streamjson.Token{}, 0, io.EOF
}
