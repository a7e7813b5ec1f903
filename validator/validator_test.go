// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package validator_test

import (
	"testing"

	streamjson "github.com/creachadair/streamjson"
	"github.com/creachadair/streamjson/validator"
)

func tok(kind streamjson.Kind) streamjson.Token { return streamjson.Token{Kind: kind} }

func process(t *testing.T, v *validator.Validator, tokens []streamjson.Token) []validator.State {
	t.Helper()
	var got []validator.State
	for _, tk := range tokens {
		st, err := v.Process(tk)
		if err != nil {
			t.Fatalf("Process(%v) failed: %v", tk.Kind, err)
		}
		got = append(got, st)
	}
	return got
}

func TestScalarIsComplete(t *testing.T) {
	v := validator.New()
	st, err := v.Process(streamjson.Token{Kind: streamjson.TNumber, Bytes: []byte("1")})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if st != validator.Complete {
		t.Errorf("State = %v, want Complete", st)
	}
	if err := v.Finish(); err != nil {
		t.Errorf("Finish: %v", err)
	}
}

func TestEmptyArray(t *testing.T) {
	v := validator.New()
	states := process(t, v, []streamjson.Token{tok(streamjson.ArrayOpen), tok(streamjson.ArrayClose)})
	want := []validator.State{validator.Incomplete, validator.Complete}
	for i, w := range want {
		if states[i] != w {
			t.Errorf("state[%d] = %v, want %v", i, states[i], w)
		}
	}
	if err := v.Finish(); err != nil {
		t.Errorf("Finish: %v", err)
	}
}

func TestObjectWithMembers(t *testing.T) {
	v := validator.New()
	tokens := []streamjson.Token{
		tok(streamjson.ObjectOpen),
		{Kind: streamjson.TString, Bytes: []byte(`"a"`)},
		tok(streamjson.Colon),
		{Kind: streamjson.TNumber, Bytes: []byte("1")},
		tok(streamjson.Comma),
		{Kind: streamjson.TString, Bytes: []byte(`"b"`)},
		tok(streamjson.Colon),
		{Kind: streamjson.TNumber, Bytes: []byte("2")},
		tok(streamjson.ObjectClose),
	}
	states := process(t, v, tokens)
	if last := states[len(states)-1]; last != validator.Complete {
		t.Errorf("final state = %v, want Complete", last)
	}
	for i, st := range states[:len(states)-1] {
		if st != validator.Incomplete {
			t.Errorf("state[%d] = %v, want Incomplete", i, st)
		}
	}
}

func TestNestedArrayDepthTracksExactlyOncePerOpen(t *testing.T) {
	v := validator.New()
	tokens := []streamjson.Token{
		tok(streamjson.ArrayOpen),
		tok(streamjson.ArrayOpen),
		{Kind: streamjson.TNumber, Bytes: []byte("1")},
		tok(streamjson.ArrayClose),
		tok(streamjson.ArrayClose),
	}
	var depths []int
	for _, tk := range tokens {
		if _, err := v.Process(tk); err != nil {
			t.Fatalf("Process(%v): %v", tk.Kind, err)
		}
		depths = append(depths, v.Depth())
	}
	want := []int{0, 1, 1, 0, 0}
	for i, w := range want {
		if depths[i] != w {
			t.Errorf("Depth after token %d = %d, want %d", i, depths[i], w)
		}
	}
}

func TestDeeplyNestedMixedContainers(t *testing.T) {
	v := validator.New()
	// {"a":[1,{"b":2}]}
	tokens := []streamjson.Token{
		tok(streamjson.ObjectOpen),
		{Kind: streamjson.TString, Bytes: []byte(`"a"`)},
		tok(streamjson.Colon),
		tok(streamjson.ArrayOpen),
		{Kind: streamjson.TNumber, Bytes: []byte("1")},
		tok(streamjson.Comma),
		tok(streamjson.ObjectOpen),
		{Kind: streamjson.TString, Bytes: []byte(`"b"`)},
		tok(streamjson.Colon),
		{Kind: streamjson.TNumber, Bytes: []byte("2")},
		tok(streamjson.ObjectClose),
		tok(streamjson.ArrayClose),
		tok(streamjson.ObjectClose),
	}
	states := process(t, v, tokens)
	if last := states[len(states)-1]; last != validator.Complete {
		t.Fatalf("final state = %v, want Complete", last)
	}
	if v.Depth() != 0 {
		t.Errorf("Depth after completion = %d, want 0", v.Depth())
	}
	if err := v.Finish(); err != nil {
		t.Errorf("Finish: %v", err)
	}
}

func TestWhitespaceIsIgnored(t *testing.T) {
	v := validator.New()
	before, _ := v.Current()
	st, err := v.Process(streamjson.Token{Kind: streamjson.Spaces, N: 3})
	if err != nil {
		t.Fatalf("Process(Spaces): %v", err)
	}
	if st != validator.Ignored {
		t.Errorf("State = %v, want Ignored", st)
	}
	after, _ := v.Current()
	if before != after {
		t.Errorf("Current() changed from %v to %v after whitespace", before, after)
	}
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		name   string
		tokens []streamjson.Token
	}{
		{"bare close brace", []streamjson.Token{tok(streamjson.ObjectClose)}},
		{"bare close bracket", []streamjson.Token{tok(streamjson.ArrayClose)}},
		{"object value without colon", []streamjson.Token{
			tok(streamjson.ObjectOpen),
			{Kind: streamjson.TString, Bytes: []byte(`"a"`)},
			{Kind: streamjson.TNumber, Bytes: []byte("1")},
		}},
		{"non-string object key", []streamjson.Token{
			tok(streamjson.ObjectOpen),
			{Kind: streamjson.TNumber, Bytes: []byte("1")},
		}},
		{"array with dangling comma then close", []streamjson.Token{
			tok(streamjson.ArrayOpen),
			{Kind: streamjson.TNumber, Bytes: []byte("1")},
			tok(streamjson.Comma),
			tok(streamjson.ArrayClose),
		}},
	}

	for _, test := range tests {
		v := validator.New()
		var err error
		for _, tk := range test.tokens {
			_, err = v.Process(tk)
			if err != nil {
				break
			}
		}
		if err == nil {
			t.Errorf("%s: Process sequence succeeded, want an *Error", test.name)
			continue
		}
		if _, ok := err.(*validator.Error); !ok {
			t.Errorf("%s: error = %v (%T), want *validator.Error", test.name, err, err)
		}
	}
}

func TestFinishOnOpenContainer(t *testing.T) {
	v := validator.New()
	if _, err := v.Process(tok(streamjson.ArrayOpen)); err != nil {
		t.Fatalf("Process(ArrayOpen): %v", err)
	}
	if err := v.Finish(); err != validator.ErrUnexpectedEndOfInput {
		t.Errorf("Finish() = %v, want ErrUnexpectedEndOfInput", err)
	}
}

func TestReset(t *testing.T) {
	v := validator.New()
	if _, err := v.Process(tok(streamjson.ArrayOpen)); err != nil {
		t.Fatalf("Process(ArrayOpen): %v", err)
	}
	v.Reset()
	if _, has := v.Current(); has {
		t.Error("Current() reports a context after Reset")
	}
	if v.Depth() != 0 {
		t.Errorf("Depth() = %d after Reset, want 0", v.Depth())
	}
	if err := v.Finish(); err != nil {
		t.Errorf("Finish() after Reset: %v", err)
	}
}
