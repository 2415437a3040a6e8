package parse

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/tsd/ir"
	"github.com/signadot/tsd/token"
)

func TestParseScalars(t *testing.T) {
	tests := []struct {
		in   string
		kind ir.Kind
		want any
	}{
		{`a:"x y"`, ir.StringKind, "x y"},
		{`a:"q\"\\"`, ir.StringKind, `q"\`},
		{`a:"c:\dir"`, ir.StringKind, `c:\dir`},
		{`a:12`, ir.NumberKind, 12.0},
		{`a:-0.5`, ir.NumberKind, -0.5},
		{`a:1e3`, ir.NumberKind, 1000.0},
		{`a:true`, ir.BoolKind, true},
		{`a:false`, ir.BoolKind, false},
		{`a:null`, ir.NullKind, nil},
		{`a:../b`, ir.ReferenceKind, "../b"},
	}
	for _, tc := range tests {
		e, err := ParseString(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if e.Kind() != tc.kind {
			t.Errorf("%q: kind %s, want %s", tc.in, e.Kind(), tc.kind)
			continue
		}
		var got any
		switch e.Kind() {
		case ir.StringKind:
			got, _ = e.Str()
		case ir.NumberKind:
			got, _ = e.Num()
		case ir.BoolKind:
			got, _ = e.Bool()
		case ir.ReferenceKind:
			got, _ = e.RefPath()
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%q mismatch (-want +got):\n%s", tc.in, diff)
		}
		if !e.Modified().IsZero() {
			t.Errorf("%q: expected no stamp", tc.in)
		}
	}
}

func TestParseCollection(t *testing.T) {
	e, err := ParseString(`a:{b:"1"|100,c[rem]:"2"|150,d\/e:{}|3}|90`)
	if err != nil {
		t.Fatal(err)
	}
	if e.Key() != "a" || e.Modified() != ir.StampMillis(90) {
		t.Fatalf("got key %q stamp %s", e.Key(), e.Modified())
	}
	all := e.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 children, got %d", len(all))
	}
	keys, err := e.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"b", "d/e"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if !all[1].Removed() || all[1].Modified() != ir.StampMillis(150) {
		t.Errorf("expected c removed at 150")
	}
	de := e.Get("d/e")
	if de.Kind() != ir.CollectionKind || len(de.All()) != 0 {
		t.Errorf("expected empty collection for d/e")
	}
	if de.Parent() != e {
		t.Errorf("parent not set")
	}
}

func TestParsePretty(t *testing.T) {
	in := `root: {
    b: "1" | 100,
    c[removed]: 2 | 101
} | 7`
	e, err := ParseString(in)
	if err != nil {
		t.Fatal(err)
	}
	if got := e.Get("b"); got == nil {
		t.Fatalf("missing b")
	}
	if e.Get("c") != nil {
		t.Errorf("c should be removed")
	}
}

func TestParseStamp(t *testing.T) {
	e, err := ParseString(`a:{b:1|5,c:2}`, ParseStamp(ir.StampMillis(9)))
	if err != nil {
		t.Fatal(err)
	}
	if e.Modified() != ir.StampMillis(9) || e.Get("c").Modified() != ir.StampMillis(9) {
		t.Errorf("default stamp not applied")
	}
	if e.Get("b").Modified() != ir.StampMillis(5) {
		t.Errorf("explicit stamp overridden")
	}
}

func TestParsePositions(t *testing.T) {
	m := map[*ir.Element]*token.Pos{}
	e, err := ParseString("a:{\n  b:1}", ParsePositions(m))
	if err != nil {
		t.Fatal(err)
	}
	pos := m[e.Get("b")]
	if pos == nil || pos.Line() != 1 || pos.Col() != 2 {
		t.Errorf("bad position %v", pos)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in  string
		eof bool
	}{
		{in: `"x"`},
		{in: `a:`, eof: true},
		{in: `a:{b:1`, eof: true},
		{in: `a:{b:1,}`},
		{in: `a:{b:1 c:2}`},
		{in: `a:{,}`},
		{in: `a:1 b:2`},
		{in: `a:1|`},
		{in: `a:{b:1,b:2}`},
		{in: `a:1e999`},
		{in: `a:%`},
	}
	for _, tc := range tests {
		e, err := ParseString(tc.in)
		if err == nil {
			t.Errorf("%q: expected error", tc.in)
			continue
		}
		if e != nil {
			t.Errorf("%q: partial result", tc.in)
		}
		if !errors.Is(err, ErrParse) {
			t.Errorf("%q: expected ErrParse, got %v", tc.in, err)
		}
		if tc.eof && !errors.Is(err, ErrEOF) {
			t.Errorf("%q: expected ErrEOF, got %v", tc.in, err)
		}
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := ParseString(`a:{b:1 c:2}`)
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	if se.Got.Type != token.TKey {
		t.Errorf("got %s", se.Got.Type)
	}
	if diff := cmp.Diff([]token.TokenType{token.TComma, token.TRCurl}, se.Want); diff != "" {
		t.Errorf("want mismatch (-want +got):\n%s", diff)
	}
}
