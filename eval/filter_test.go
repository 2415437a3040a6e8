package eval

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/tsd/ir"
)

func people() *ir.Element {
	person := func(key, name string, age float64) *ir.Element {
		return ir.NewWith(key, ir.Collection(
			ir.New("name", ir.String(name)),
			ir.New("age", ir.Number(age)),
		), false, ir.StampMillis(10))
	}
	return ir.New("people", ir.Collection(
		person("p1", "ann", 31),
		person("p2", "bob", 17),
		person("p3", "cid", 45),
		ir.New("limit", ir.Number(30)),
		ir.NewWith("p4", ir.Collection(), true, ir.StampMillis(1)),
	))
}

func keys(es []*ir.Element) []string {
	res := make([]string, len(es))
	for i, e := range es {
		res[i] = e.Key()
	}
	return res
}

func TestSelect(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{`kind == "collection" && value.age > 18`, []string{"p1", "p3"}},
		{`kind == "collection" && value.age > getpath("../limit")`, []string{"p1", "p3"}},
		{`key startsWith "p"`, []string{"p1", "p2", "p3"}},
		{`whereami() == "/limit"`, []string{"limit"}},
		{`modified == 10`, []string{"p1", "p2", "p3"}},
		{`modified == nil`, []string{"limit"}},
	}
	doc := people()
	for _, tc := range tests {
		f, err := Compile(tc.src)
		if err != nil {
			t.Fatalf("%q: %v", tc.src, err)
		}
		got, err := Select(doc, f)
		if err != nil {
			t.Fatalf("%q: %v", tc.src, err)
		}
		if diff := cmp.Diff(tc.want, keys(got)); diff != "" {
			t.Errorf("%q mismatch (-want +got):\n%s", tc.src, diff)
		}
	}
	all, err := Select(doc, nil)
	if err != nil || len(all) != 4 {
		t.Errorf("nil filter: %d %v", len(all), err)
	}
}

func TestFilterNotBool(t *testing.T) {
	f, err := Compile(`key`)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Select(people(), f)
	if !errors.Is(err, ErrNotBool) {
		t.Errorf("got %v", err)
	}
}

func TestCompileError(t *testing.T) {
	if _, err := Compile(`key ==`); err == nil {
		t.Errorf("expected error")
	}
}
