package ir

import (
	"fmt"
	"slices"
)

// Element is a keyed node of a tsd document.
type Element struct {
	key      string
	val      Value
	removed  bool
	modified Stamp

	parent   *Element
	watchers *watchers
}

// New creates an element that has never been modified. Collection children
// with a key already seen are dropped; children owned by another element are
// cloned.
func New(key string, v Value) *Element {
	e := &Element{key: key}
	e.assign(v)
	return e
}

// NewWith creates an element with the given tombstone flag and stamp, as
// read back from an encoded document.
func NewWith(key string, v Value, removed bool, at Stamp) *Element {
	e := New(key, v)
	e.removed = removed
	e.modified = at
	return e
}

func (e *Element) assign(v Value) {
	if v.Kind != CollectionKind {
		v.Elements = nil
		e.val = v
		return
	}
	kids := make([]*Element, 0, len(v.Elements))
	seen := make(map[string]bool, len(v.Elements))
	for _, kid := range v.Elements {
		if kid == nil || seen[kid.key] {
			continue
		}
		seen[kid.key] = true
		if kid.parent != nil && kid.parent != e {
			kid = kid.Clone()
		}
		kid.parent = e
		kids = append(kids, kid)
	}
	e.val = Value{Kind: CollectionKind, Elements: kids}
}

func (e *Element) touch() {
	e.modified = e.modified.next()
	e.changed()
}

func (e *Element) Key() string {
	return e.key
}

func (e *Element) Kind() Kind {
	return e.val.Kind
}

func (e *Element) Removed() bool {
	return e.removed
}

func (e *Element) Modified() Stamp {
	return e.modified
}

func (e *Element) Parent() *Element {
	return e.parent
}

func (e *Element) Root() *Element {
	x := e
	for x.parent != nil {
		x = x.parent
	}
	return x
}

// Value returns a copy of the raw value slot. For collections the returned
// slice includes removed children.
func (e *Element) Value() Value {
	v := e.val
	if v.Kind == CollectionKind {
		v.Elements = slices.Clone(v.Elements)
	}
	return v
}

func (e *Element) Str() (string, bool) {
	return e.val.String, e.val.Kind == StringKind
}

func (e *Element) Num() (float64, bool) {
	return e.val.Number, e.val.Kind == NumberKind
}

func (e *Element) Bool() (bool, bool) {
	return e.val.Bool, e.val.Kind == BoolKind
}

func (e *Element) IsNull() bool {
	return e.val.Kind == NullKind
}

func (e *Element) RefPath() (string, bool) {
	return e.val.Ref, e.val.Kind == ReferenceKind
}

// Set replaces the value of e, stamps it and notifies watchers.
func (e *Element) Set(v Value) error {
	switch v.Kind {
	case ReferenceKind:
		if !ValidPath(v.Ref) {
			return fmt.Errorf("%w %q", ErrInvalidPath, v.Ref)
		}
	case CollectionKind:
		for _, kid := range v.Elements {
			if kid != nil && kid.isAncestorOf(e) {
				return fmt.Errorf("%w: %q", ErrCycle, kid.key)
			}
		}
	}
	e.assign(v)
	e.touch()
	return nil
}

// SetRef makes e a reference to target. Both must belong to the same
// document.
func (e *Element) SetRef(target *Element) error {
	if target == e {
		return ErrSelfReference
	}
	if target.Root() != e.Root() {
		return ErrCrossDocument
	}
	path, err := e.RelativePath(target)
	if err != nil {
		return err
	}
	e.assign(Ref(path))
	e.touch()
	return nil
}

func (e *Element) SetRefPath(path string) error {
	return e.Set(Ref(path))
}

// Remove tombstones e. It stays in its parent's collection.
func (e *Element) Remove() {
	e.removed = true
	e.touch()
}

// Restore clears the tombstone of e.
func (e *Element) Restore() {
	e.removed = false
	e.touch()
}

// Add appends child to the collection e. The child is stamped if it was
// never modified; e itself keeps its stamp.
func (e *Element) Add(child *Element) error {
	if e.val.Kind != CollectionKind {
		return fmt.Errorf("%w: cannot add %q to %s", ErrNotCollection, child.key, e.val.Kind)
	}
	if child.isAncestorOf(e) {
		return fmt.Errorf("%w: %q", ErrCycle, child.key)
	}
	if e.lookup(child.key) != nil {
		return fmt.Errorf("%w %q", ErrDuplicateKey, child.key)
	}
	if child.parent != nil {
		child = child.Clone()
	}
	child.parent = e
	e.val.Elements = append(e.val.Elements, child)
	if child.modified.IsZero() {
		child.modified = child.modified.next()
	}
	child.changed()
	return nil
}

// isAncestorOf reports whether e is x or one of x's ancestors.
func (e *Element) isAncestorOf(x *Element) bool {
	for ; x != nil; x = x.parent {
		if x == e {
			return true
		}
	}
	return false
}

// lookup finds a child by key, live or removed.
func (e *Element) lookup(key string) *Element {
	if e.val.Kind != CollectionKind {
		return nil
	}
	for _, kid := range e.val.Elements {
		if kid.key == key {
			return kid
		}
	}
	return nil
}

// Children returns the live children of a collection, nil otherwise.
func (e *Element) Children() []*Element {
	if e.val.Kind != CollectionKind {
		return nil
	}
	res := make([]*Element, 0, len(e.val.Elements))
	for _, kid := range e.val.Elements {
		if !kid.removed {
			res = append(res, kid)
		}
	}
	return res
}

// All returns every child of a collection including removed ones.
func (e *Element) All() []*Element {
	if e.val.Kind != CollectionKind {
		return nil
	}
	return slices.Clone(e.val.Elements)
}

func (e *Element) Keys() ([]string, error) {
	if e.val.Kind != CollectionKind {
		return nil, fmt.Errorf("%w: keys of %s", ErrNotCollection, e.val.Kind)
	}
	kids := e.Children()
	res := make([]string, len(kids))
	for i, kid := range kids {
		res[i] = kid.key
	}
	return res, nil
}

// Get returns the live child with the given (unescaped) key.
func (e *Element) Get(key string) *Element {
	kid := e.lookup(key)
	if kid == nil || kid.removed {
		return nil
	}
	return kid
}

func (e *Element) Find(pred func(*Element) bool) *Element {
	for _, kid := range e.Children() {
		if pred(kid) {
			return kid
		}
	}
	return nil
}

// Deref follows references starting at e and returns the first element
// which is not a reference.
func (e *Element) Deref() (*Element, error) {
	seen := map[*Element]bool{}
	x := e
	for x.val.Kind == ReferenceKind {
		if seen[x] {
			return nil, fmt.Errorf("%w at %s", ErrRefCycle, e.Path())
		}
		seen[x] = true
		target, err := x.Query(x.val.Ref)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, fmt.Errorf("%w %q from %s", ErrUnresolved, x.val.Ref, x.Path())
		}
		x = target
	}
	return x, nil
}

// Clone deep copies e into a new document root. Watchers are not copied.
func (e *Element) Clone() *Element {
	res := &Element{
		key:      e.key,
		val:      e.val,
		removed:  e.removed,
		modified: e.modified,
	}
	if e.val.Kind == CollectionKind {
		res.val.Elements = make([]*Element, len(e.val.Elements))
		for i, kid := range e.val.Elements {
			c := kid.Clone()
			c.parent = res
			res.val.Elements[i] = c
		}
	}
	return res
}

// Equal reports whether e and o have the same key, tombstone, stamp and
// value, recursively. Parents are not compared.
func (e *Element) Equal(o *Element) bool {
	if e == o {
		return true
	}
	if e == nil || o == nil {
		return false
	}
	if e.key != o.key || e.removed != o.removed || e.modified != o.modified {
		return false
	}
	a, b := e.val, o.val
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case StringKind:
		return a.String == b.String
	case NumberKind:
		return a.Number == b.Number
	case BoolKind:
		return a.Bool == b.Bool
	case ReferenceKind:
		return a.Ref == b.Ref
	case CollectionKind:
		if len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !a.Elements[i].Equal(b.Elements[i]) {
				return false
			}
		}
	}
	return true
}

// Shape describes the kinds found under e: a kind name for leaves and,
// for collections, the distinct shapes of the live children.
func (e *Element) Shape() any {
	if e.val.Kind != CollectionKind {
		return e.val.Kind.String()
	}
	res := []any{}
	seen := map[string]bool{}
	for _, kid := range e.Children() {
		s := kid.Shape()
		k := fmt.Sprint(s)
		if seen[k] {
			continue
		}
		seen[k] = true
		res = append(res, s)
	}
	return res
}
