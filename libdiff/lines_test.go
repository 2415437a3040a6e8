package libdiff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/tsd/ir"
)

func TestLines(t *testing.T) {
	from := "a\nb\nc\n"
	to := "a\nB\nc\nd\n"
	got := Lines(from, to)
	want := []Line{
		{' ', "a"},
		{'-', "b"},
		{'+', "B"},
		{' ', "c"},
		{'+', "d"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if !Changed(got) {
		t.Errorf("expected change")
	}
	if diff := cmp.Diff("- b\n+ B\n+ d\n", Format(got, false)); diff != "" {
		t.Errorf("format mismatch (-want +got):\n%s", diff)
	}
}

func TestLinesEqual(t *testing.T) {
	if Changed(Lines("x\ny\n", "x\ny\n")) {
		t.Errorf("expected no change")
	}
}

func TestElements(t *testing.T) {
	a := ir.NewWith("a", ir.Collection(
		ir.NewWith("b", ir.Number(1), false, ir.StampMillis(1)),
	), false, ir.StampMillis(1))
	b := a.Clone()
	b.Get("b").Remove()
	lines, err := Elements(a, b)
	if err != nil {
		t.Fatal(err)
	}
	var del, ins int
	for _, ln := range lines {
		switch ln.Op {
		case '-':
			del++
		case '+':
			ins++
		}
	}
	if del != 1 || ins != 1 {
		t.Errorf("got %d deletions %d insertions:\n%s", del, ins, Format(lines, true))
	}
}
