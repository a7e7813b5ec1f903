package pathquery_test

import (
	"testing"

	"github.com/creachadair/streamjson/jsonpath"
	"github.com/creachadair/streamjson/pathquery"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
	}{
		{"$.store.book[*]..author"},
		{"$..author"},
		{"$.store.*"},
		{"$.store..price"},
		{"$..book[2]"},
		{"$..book[(@.length-1)]"},
		{"$..book[-1:]"},
		{"$..book[0,1]"},
		{"$..book[:2]"},
		{"$..book[?(@.isbn)]"},
		{"$..book[?(@price<10)]"},
		{"$..*"},
		{"$['apple sauce'].pearPlum..'cherry apple'"},
		{"$[a][1:3][b]['c d e']"},
	}
	for _, test := range tests {
		e, err := pathquery.Parse(test.input)
		if err != nil {
			t.Errorf("Parse %q: %v", test.input, err)
			continue
		}

		want := test.input
		if got := e.String(); got != want {
			t.Errorf("Parse %q:\n got %q\nwant %q", test.input, got, want)
		}
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		query string
		path  jsonpath.Path
		want  bool
	}{
		{"$.name", jsonpath.Path{jsonpath.Key(`"name"`)}, true},
		{"$.name", jsonpath.Path{jsonpath.Key(`"other"`)}, false},
		{"$.cookies[*].name", jsonpath.Path{
			jsonpath.Key(`"cookies"`), jsonpath.Index(0), jsonpath.Key(`"name"`),
		}, true},
		{"$.cookies[*].name", jsonpath.Path{
			jsonpath.Key(`"cookies"`), jsonpath.Index(0), jsonpath.Key(`"value"`),
		}, false},
		{"$..name", jsonpath.Path{
			jsonpath.Key(`"a"`), jsonpath.Key(`"b"`), jsonpath.Key(`"name"`),
		}, true},
		{"$[1:3]", jsonpath.Path{jsonpath.Index(1)}, true},
		{"$[1:3]", jsonpath.Path{jsonpath.Index(3)}, false},
		{"$.a[?(@.isbn)]", jsonpath.Path{jsonpath.Key(`"a"`), jsonpath.Index(0)}, false},
		// The streamed key still carries its JSON \u escape; matching
		// against the pattern's plain (already-decoded) name requires
		// decoding the key first.
		{"$['café']", jsonpath.Path{jsonpath.Key(`"café"`)}, true},
		{"$['café']", jsonpath.Path{jsonpath.Key(`"cafe"`)}, false},
		{"$['café']", jsonpath.Path{jsonpath.Key("\"caf\\u00e9\"")}, true},
	}
	for _, test := range tests {
		q, err := pathquery.Parse(test.query)
		if err != nil {
			t.Fatalf("Parse %q: %v", test.query, err)
		}
		if got := q.Match(test.path); got != test.want {
			t.Errorf("Match(%q, %v) = %v, want %v", test.query, test.path, got, test.want)
		}
	}
}
