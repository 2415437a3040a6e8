package ir

import "fmt"

type Kind int

const (
	NullKind Kind = iota
	NumberKind
	StringKind
	BoolKind
	CollectionKind
	ReferenceKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		NullKind:       "null",
		NumberKind:     "number",
		StringKind:     "string",
		BoolKind:       "boolean",
		CollectionKind: "collection",
		ReferenceKind:  "reference",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, ok := map[string]Kind{
		"null":       NullKind,
		"number":     NumberKind,
		"string":     StringKind,
		"boolean":    BoolKind,
		"collection": CollectionKind,
		"reference":  ReferenceKind,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized kind %q", d)
	}
	*k = kk
	return nil
}

func (k Kind) IsLeaf() bool {
	return k != CollectionKind
}

// Value is the value slot of an Element. Exactly one case is meaningful,
// selected by Kind.
type Value struct {
	Kind     Kind
	String   string
	Number   float64
	Bool     bool
	Elements []*Element
	Ref      string
}

func Null() Value {
	return Value{Kind: NullKind}
}

func String(s string) Value {
	return Value{Kind: StringKind, String: s}
}

func Number(f float64) Value {
	return Value{Kind: NumberKind, Number: f}
}

func Bool(b bool) Value {
	return Value{Kind: BoolKind, Bool: b}
}

func Collection(elts ...*Element) Value {
	if elts == nil {
		elts = []*Element{}
	}
	return Value{Kind: CollectionKind, Elements: elts}
}

// Ref makes a reference value. The path is checked when the value is
// assigned with Set.
func Ref(path string) Value {
	return Value{Kind: ReferenceKind, Ref: path}
}
