package ir

import (
	"testing"
)

func TestMergeRules(t *testing.T) {
	var null Stamp
	tests := []struct {
		name    string
		mine    *Element
		theirs  *Element
		changed bool
		want    string
	}{
		{
			name:   "stamped beats unstamped",
			mine:   NewWith("k", String("mine"), false, StampMillis(1)),
			theirs: NewWith("k", String("theirs"), false, null),
			want:   "mine",
		},
		{
			name:    "unstamped adopts stamped",
			mine:    NewWith("k", String("mine"), false, null),
			theirs:  NewWith("k", String("theirs"), false, StampMillis(1)),
			changed: true,
			want:    "theirs",
		},
		{
			name:   "equal scalars keep mine",
			mine:   NewWith("k", String("mine"), false, StampMillis(5)),
			theirs: NewWith("k", String("theirs"), false, StampMillis(5)),
			want:   "mine",
		},
		{
			name:   "both unstamped scalars keep mine",
			mine:   NewWith("k", String("mine"), false, null),
			theirs: NewWith("k", String("theirs"), false, null),
			want:   "mine",
		},
		{
			name:   "newer mine wins",
			mine:   NewWith("k", String("mine"), false, StampMillis(6)),
			theirs: NewWith("k", String("theirs"), false, StampMillis(5)),
			want:   "mine",
		},
		{
			name:    "newer theirs wins",
			mine:    NewWith("k", String("mine"), false, StampMillis(5)),
			theirs:  NewWith("k", String("theirs"), false, StampMillis(6)),
			changed: true,
			want:    "theirs",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			theirs := tc.theirs.Clone()
			if got := tc.mine.Merge(tc.theirs); got != tc.changed {
				t.Errorf("changed = %v", got)
			}
			if s, _ := tc.mine.Str(); s != tc.want {
				t.Errorf("got %q want %q", s, tc.want)
			}
			if !tc.theirs.Equal(theirs) {
				t.Errorf("merge modified its argument")
			}
		})
	}
}

func TestMergeAdoptsWholesale(t *testing.T) {
	mine := NewWith("k", Collection(
		NewWith("x", Number(1), false, StampMillis(1)),
	), false, StampMillis(1))
	theirs := NewWith("k", Ref("../y"), true, StampMillis(2))
	if !mine.Merge(theirs) {
		t.Fatal("expected change")
	}
	if !mine.Equal(theirs) {
		t.Errorf("not adopted wholesale")
	}
	back := NewWith("k", Collection(
		NewWith("z", Number(1), false, StampMillis(1)),
	), false, StampMillis(3))
	if !mine.Merge(back) {
		t.Fatal("expected change")
	}
	z := mine.Get("z")
	if z == nil || z.Parent() != mine || z == back.Get("z") {
		t.Errorf("adopted children not owned by the receiver")
	}
}

func TestMergeUnion(t *testing.T) {
	mine := NewWith("a", Collection(
		NewWith("only-mine", Number(1), false, StampMillis(10)),
		NewWith("both", Number(1), false, StampMillis(10)),
		NewWith("dead", Number(1), true, StampMillis(20)),
	), false, StampMillis(10))
	theirs := NewWith("a", Collection(
		NewWith("both", Number(2), false, StampMillis(11)),
		NewWith("dead", Number(2), false, StampMillis(15)),
		NewWith("only-theirs", Collection(
			NewWith("deep", Bool(true), false, StampMillis(3)),
		), false, StampMillis(10)),
	), false, StampMillis(10))
	if !mine.Merge(theirs) {
		t.Fatal("expected change")
	}
	if len(mine.All()) != 4 {
		t.Fatalf("got %d children", len(mine.All()))
	}
	if n, _ := mine.Get("both").Num(); n != 2 {
		t.Errorf("both = %v", n)
	}
	if mine.Get("dead") != nil {
		t.Errorf("newer tombstone lost")
	}
	if mine.Get("only-mine") == nil {
		t.Errorf("lost local child")
	}
	ot := mine.Get("only-theirs")
	if ot == nil || ot.Parent() != mine || ot.Get("deep") == nil || ot == theirs.Get("only-theirs") {
		t.Errorf("remote child not copied in")
	}
	if mine.Merge(theirs) {
		t.Errorf("second merge should not change")
	}
}

func TestMergeUnionNoDuplicateWithTombstone(t *testing.T) {
	mine := NewWith("a", Collection(
		NewWith("x", Number(1), true, StampMillis(5)),
	), false, StampMillis(1))
	theirs := NewWith("a", Collection(
		NewWith("x", Number(2), false, StampMillis(4)),
	), false, StampMillis(1))
	mine.Merge(theirs)
	if len(mine.All()) != 1 {
		t.Errorf("got %d children", len(mine.All()))
	}
	if mine.Get("x") != nil {
		t.Errorf("tombstone lost")
	}
}

func TestMergeIdempotent(t *testing.T) {
	x := doc()
	snap := x.Clone()
	if x.Merge(x) {
		t.Errorf("merge with itself changed")
	}
	if x.Merge(snap) {
		t.Errorf("merge with clone changed")
	}
	if !x.Equal(snap) {
		t.Errorf("merge modified the tree")
	}
}

func TestMergeLastWriterWins(t *testing.T) {
	older := NewWith("k", Collection(NewWith("v", Number(1), false, StampMillis(1))), false, StampMillis(7))
	newer := NewWith("k", Number(2), false, StampMillis(8))
	for _, pair := range [][2]*Element{{older, newer}, {newer, older}} {
		a := pair[0].Clone()
		a.Merge(pair[1])
		if !a.Equal(newer) {
			t.Errorf("merge of %s into %s did not pick the newer operand", pair[1].Modified(), pair[0].Modified())
		}
	}
}

func TestMergeDisjointEditsCommute(t *testing.T) {
	clock := fixClock(t, 1000)
	base := doc()
	a := base.Clone()
	b := base.Clone()
	if err := a.Get("b").Set(String("from a")); err != nil {
		t.Fatal(err)
	}
	*clock = 1001
	if err := b.Get("c").Set(String("from b")); err != nil {
		t.Fatal(err)
	}
	*clock = 1002
	if err := b.Add(New("new", Null())); err != nil {
		t.Fatal(err)
	}
	ab := a.Clone()
	ab.Merge(b)
	ba := b.Clone()
	ba.Merge(a)
	abj, err := ab.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	baj, err := ba.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"b": "from a", "c": "from b", "new": nil}
	for _, got := range []any{abj, baj} {
		m := got.(map[string]any)
		if len(m) != len(want) || m["b"] != want["b"] || m["c"] != want["c"] {
			t.Errorf("got %v", got)
		}
		if _, ok := m["new"]; !ok {
			t.Errorf("missing new key in %v", got)
		}
	}
}

func TestMergeScenario(t *testing.T) {
	fixClock(t, 200)
	local := NewWith("a", Collection(
		NewWith("b", String("1"), false, StampMillis(100)),
		NewWith("c", String("2"), false, StampMillis(100)),
	), false, Stamp{})
	remote := local.Clone()
	if err := local.Get("b").Set(String("9")); err != nil {
		t.Fatal(err)
	}
	if local.Get("b").Modified() != StampMillis(200) {
		t.Fatalf("got %s", local.Get("b").Modified())
	}
	local.Merge(remote)
	if s, _ := local.Get("b").Str(); s != "9" {
		t.Errorf("b = %q", s)
	}
	if s, _ := local.Get("c").Str(); s != "2" {
		t.Errorf("c = %q", s)
	}
}
