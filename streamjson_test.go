// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package streamjson_test

import (
	"strings"
	"testing"

	streamjson "github.com/creachadair/streamjson"
	"github.com/creachadair/streamjson/cursor"
	"github.com/google/go-cmp/cmp"
)

func scanAll(t *testing.T, input string) []streamjson.Token {
	t.Helper()
	c := cursor.New([]byte(input))
	var got []streamjson.Token
	for !c.IsEmpty() {
		tok, err := streamjson.CompressNextToken(c, streamjson.CompressSpacesTabsNewlines)
		if err != nil {
			t.Fatalf("CompressNextToken(%q): %v", input, err)
		}
		got = append(got, tok)
	}
	return got
}

func TestCompressNextToken(t *testing.T) {
	tests := []struct {
		input string
		want  []streamjson.Token
	}{
		{"", nil},
		{"   ", []streamjson.Token{{Kind: streamjson.Spaces, N: 3}}},
		{"\t\t\n ", []streamjson.Token{{Kind: streamjson.Spaces, N: 4}}},

		{"true", []streamjson.Token{{Kind: streamjson.True}}},
		{"false", []streamjson.Token{{Kind: streamjson.False}}},
		{"null", []streamjson.Token{{Kind: streamjson.Null}}},

		{"{}", []streamjson.Token{{Kind: streamjson.ObjectOpen}, {Kind: streamjson.ObjectClose}}},
		{"[]", []streamjson.Token{{Kind: streamjson.ArrayOpen}, {Kind: streamjson.ArrayClose}}},
		{",", []streamjson.Token{{Kind: streamjson.Comma}}},
		{":", []streamjson.Token{{Kind: streamjson.Colon}}},

		{"0", []streamjson.Token{{Kind: streamjson.TNumber, Bytes: []byte("0")}}},
		{"-6.32", []streamjson.Token{{Kind: streamjson.TNumber, Bytes: []byte("-6.32")}}},
		{"0.1e-2", []streamjson.Token{{Kind: streamjson.TNumber, Bytes: []byte("0.1e-2")}}},
		{"15", []streamjson.Token{{Kind: streamjson.TNumber, Bytes: []byte("15")}}},

		{`""`, []streamjson.Token{{Kind: streamjson.TString, Bytes: []byte(`""`)}}},
		{`"a b c"`, []streamjson.Token{{Kind: streamjson.TString, Bytes: []byte(`"a b c"`)}}},
		{`"a\tb"`, []streamjson.Token{{Kind: streamjson.TString, Bytes: []byte(`"a\tb"`)}}},

		{`{"x":null, "y":[true]}`, []streamjson.Token{
			{Kind: streamjson.ObjectOpen},
			{Kind: streamjson.TString, Bytes: []byte(`"x"`)},
			{Kind: streamjson.Colon},
			{Kind: streamjson.Null},
			{Kind: streamjson.Comma},
			{Kind: streamjson.Spaces, N: 1},
			{Kind: streamjson.TString, Bytes: []byte(`"y"`)},
			{Kind: streamjson.Colon},
			{Kind: streamjson.ArrayOpen},
			{Kind: streamjson.True},
			{Kind: streamjson.ArrayClose},
			{Kind: streamjson.ObjectClose},
		}},
	}

	for _, test := range tests {
		got := scanAll(t, test.input)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestCompressNextTokenErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"forthright", `unexpected byte 'o'`},
		{"tru", "unexpected end of input while scanning true"},
		{`"abc`, "unexpected end of input while scanning string"},
		{`"a\x"`, `invalid escape character 'x'`},
		{`"a\u12"`, `invalid unicode escape`},
		{"#", `unexpected byte '#'`},
	}

	for _, test := range tests {
		c := cursor.New([]byte(test.input))
		_, err := streamjson.CompressNextToken(c, streamjson.CompressSpacesTabsNewlines)
		if err == nil {
			t.Errorf("Input: %#q: got no error, want one containing %q", test.input, test.want)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("Input: %#q: error = %q, want substring %q", test.input, err.Error(), test.want)
		}
	}
}

func TestRecoverableErrors(t *testing.T) {
	tests := []struct {
		input string
		ctx   streamjson.TokenContext
	}{
		{"tru", streamjson.InTrue},
		{"fals", streamjson.InFalse},
		{"nul", streamjson.InNull},
		{"-", streamjson.InNumber},
		{"1.", streamjson.InNumber},
		{"1e", streamjson.InNumber},
		{`"abc`, streamjson.InString},
		{`"abc\`, streamjson.InString},
		{`"\u00`, streamjson.InString},
		{`"\u`, streamjson.InString},
	}
	for _, test := range tests {
		c := cursor.New([]byte(test.input))
		_, err := streamjson.CompressNextToken(c, streamjson.CompressSpacesTabsNewlines)
		tokErr, ok := err.(*streamjson.TokenizeError)
		if !ok {
			t.Errorf("Input: %#q: error = %v (%T), want *TokenizeError", test.input, err, err)
			continue
		}
		if !tokErr.Recoverable() {
			t.Errorf("Input: %#q: Recoverable() = false, want true", test.input)
		}
		if ctx, _ := tokErr.Context(); test.ctx != streamjson.NoContext && ctx != test.ctx {
			t.Errorf("Input: %#q: Context() = %v, want %v", test.input, ctx, test.ctx)
		}
	}
}

func TestContinueString(t *testing.T) {
	// Simulate a string opened in a prior window: ContinueString starts
	// mid-body, past the opening quote.
	c := cursor.New([]byte(`abc" rest`))
	end, err := streamjson.ContinueString(c)
	if err != nil {
		t.Fatalf("ContinueString: %v", err)
	}
	if want := len(`abc"`); end != want {
		t.Errorf("ContinueString end = %d, want %d", end, want)
	}
}

func TestContinueStringIncomplete(t *testing.T) {
	c := cursor.New([]byte(`abc`))
	_, err := streamjson.ContinueString(c)
	tokErr, ok := err.(*streamjson.TokenizeError)
	if !ok || !tokErr.Recoverable() {
		t.Fatalf("ContinueString error = %v, want a recoverable *TokenizeError", err)
	}
}

func TestContinueStringUnicodeEscapeIncomplete(t *testing.T) {
	// A \u escape split mid-hex-digits must recover the same way a plain
	// string body split across a refill does, not fail fatally: the
	// driver re-requests from the escape's own start and retries.
	c := cursor.New([]byte(`\u00`))
	_, err := streamjson.ContinueString(c)
	tokErr, ok := err.(*streamjson.TokenizeError)
	if !ok || !tokErr.Recoverable() {
		t.Fatalf("ContinueString(%q) error = %v, want a recoverable *TokenizeError", `\u00`, err)
	}
	if ctx, _ := tokErr.Context(); ctx != streamjson.InString {
		t.Errorf("Context() = %v, want InString", ctx)
	}
}

func TestTokenHelpers(t *testing.T) {
	num := streamjson.Token{Kind: streamjson.TNumber, Bytes: []byte("12")}
	if !num.IsCompleteValue() {
		t.Error("TNumber.IsCompleteValue() = false, want true")
	}
	if !num.PotentialFalsePositive() {
		t.Error("TNumber.PotentialFalsePositive() = false, want true")
	}
	if typ, ok := num.ValueType(); !ok || typ != streamjson.Number {
		t.Errorf("TNumber.ValueType() = (%v, %v), want (Number, true)", typ, ok)
	}

	open := streamjson.Token{Kind: streamjson.ArrayOpen}
	if !open.IsOpen() || !open.IsValueStart() {
		t.Error("ArrayOpen should be IsOpen and IsValueStart")
	}
	if open.IsCompleteValue() {
		t.Error("ArrayOpen.IsCompleteValue() = true, want false")
	}

	owned := num.IntoOwned()
	owned.Bytes[0] = 'x'
	if num.Bytes[0] == 'x' {
		t.Error("IntoOwned shares storage with the original Bytes slice")
	}
}

func TestTokenPrint(t *testing.T) {
	tests := []struct {
		tok  streamjson.Token
		want string
	}{
		{streamjson.Token{Kind: streamjson.ObjectOpen}, "{"},
		{streamjson.Token{Kind: streamjson.ArrayClose}, "]"},
		{streamjson.Token{Kind: streamjson.Comma}, ","},
		{streamjson.Token{Kind: streamjson.True}, "true"},
		{streamjson.Token{Kind: streamjson.Null}, "null"},
		{streamjson.Token{Kind: streamjson.Spaces, N: 3}, "   "},
		{streamjson.Token{Kind: streamjson.TNumber, Bytes: []byte("42")}, "42"},
		{streamjson.Token{Kind: streamjson.TString, Bytes: []byte(`"hi"`)}, `"hi"`},
	}
	for _, test := range tests {
		var b strings.Builder
		if _, err := test.tok.Print(&b); err != nil {
			t.Fatalf("Print(%v): %v", test.tok, err)
		}
		if got := b.String(); got != test.want {
			t.Errorf("Print(%v) = %q, want %q", test.tok, got, test.want)
		}
	}
}
