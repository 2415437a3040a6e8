package ir_test

import (
	"testing"

	"github.com/signadot/tsd/encode"
	"github.com/signadot/tsd/ir"
	"github.com/signadot/tsd/parse"
)

var docs = []string{
	`a:1`,
	`a:{}`,
	`a:{b:"1"|100,c:"2"|100}`,
	`root:{x[rem]:"gone"|5,y:{z:null,w:true|3}|4,r:../y/z|9,n:-1.25e-9,s:"q\"\\ c:\d"}|1`,
	`k\ ey:{\/:1,ünï:"ü"}`,
}

func TestRoundTrip(t *testing.T) {
	for _, in := range docs {
		orig, err := parse.ParseString(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		for _, wire := range []bool{true, false} {
			text := encode.MustString(orig, encode.EncodeWire(wire))
			back, err := parse.ParseString(text)
			if err != nil {
				t.Fatalf("%q: reparse of %q: %v", in, text, err)
			}
			if !orig.Equal(back) {
				t.Errorf("%q: %q did not round trip", in, text)
			}
			if orig.Clone().Merge(back) || back.Merge(orig) {
				t.Errorf("%q: merge of round trip reported change", in)
			}
		}
	}
}

func TestWireIsCanonical(t *testing.T) {
	in := `a:{b:"1"|100,c:"2"|100}`
	e, err := parse.ParseString(in)
	if err != nil {
		t.Fatal(err)
	}
	if got := encode.MustString(e, encode.EncodeWire(true)); got != in {
		t.Errorf("got %q", got)
	}
}

func TestParsedScenario(t *testing.T) {
	const text = `a:{b:"1"|100,c:"2"|100}`
	local, err := parse.ParseString(text)
	if err != nil {
		t.Fatal(err)
	}
	if err := local.Get("b").Set(ir.String("9")); err != nil {
		t.Fatal(err)
	}
	remote, err := parse.ParseString(text)
	if err != nil {
		t.Fatal(err)
	}
	local.Merge(remote)
	if s, _ := local.Get("b").Str(); s != "9" {
		t.Errorf("b = %q", s)
	}
	if s, _ := local.Get("c").Str(); s != "2" {
		t.Errorf("c = %q", s)
	}
	if local.Get("b").Modified().Millis() <= 100 {
		t.Errorf("edit not stamped")
	}
}
