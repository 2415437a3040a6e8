package ir

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
)

// ToJSON returns the live view of e as plain Go values: collections become
// map[string]any of their live children, references are replaced by their
// target and unresolved references become nil.
func (e *Element) ToJSON() (any, error) {
	return e.toJSON(map[*Element]bool{})
}

func (e *Element) MarshalJSON() ([]byte, error) {
	v, err := e.ToJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func (e *Element) toJSON(stack map[*Element]bool) (any, error) {
	if stack[e] {
		return nil, fmt.Errorf("%w at %s", ErrRefCycle, e.Path())
	}
	switch e.val.Kind {
	case NullKind:
		return nil, nil
	case StringKind:
		return e.val.String, nil
	case NumberKind:
		return e.val.Number, nil
	case BoolKind:
		return e.val.Bool, nil
	case ReferenceKind:
		target, err := e.Deref()
		if errors.Is(err, ErrUnresolved) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		stack[e] = true
		defer delete(stack, e)
		return target.toJSON(stack)
	case CollectionKind:
		stack[e] = true
		defer delete(stack, e)
		res := map[string]any{}
		for _, kid := range e.Children() {
			v, err := kid.toJSON(stack)
			if err != nil {
				return nil, err
			}
			res[kid.key] = v
		}
		return res, nil
	}
	return nil, fmt.Errorf("%w: kind %s", ErrUnsupported, e.val.Kind)
}

// FromJSON builds an element from plain Go values as produced by
// encoding/json. Every element of the result carries the stamp at.
func FromJSON(key string, v any, at Stamp) (*Element, error) {
	if fields, vals, ok := jsonFields(v); ok {
		kids := make([]*Element, 0, len(fields))
		for _, f := range fields {
			kid, err := FromJSON(f, vals[f], at)
			if err != nil {
				return nil, err
			}
			kids = append(kids, kid)
		}
		return NewWith(key, Collection(kids...), false, at), nil
	}
	val, err := jsonScalar(v)
	if err != nil {
		return nil, err
	}
	return NewWith(key, val, false, at), nil
}

// Assign makes the live view of e equal to v, stamping only what differs.
// Keys missing from v are removed, removed keys present in v are restored.
// Arrays are assigned as collections keyed by index.
func (e *Element) Assign(v any) (bool, error) {
	if cur, err := e.ToJSON(); err == nil && !e.removed && reflect.DeepEqual(cur, v) {
		return false, nil
	}
	fields, vals, ok := jsonFields(v)
	if !ok {
		val, err := jsonScalar(v)
		if err != nil {
			return false, err
		}
		e.removed = false
		if err := e.Set(val); err != nil {
			return false, err
		}
		return true, nil
	}
	changed := false
	if e.removed {
		e.Restore()
		changed = true
	}
	if e.val.Kind != CollectionKind {
		if err := e.Set(Collection()); err != nil {
			return false, err
		}
		changed = true
	}
	for _, f := range fields {
		kid := e.lookup(f)
		if kid == nil {
			nk, err := FromJSON(f, vals[f], e.modified.next())
			if err != nil {
				return changed, err
			}
			if err := e.Add(nk); err != nil {
				return changed, err
			}
			changed = true
			continue
		}
		c, err := kid.Assign(vals[f])
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
	for _, kid := range e.Children() {
		if _, ok := vals[kid.key]; !ok {
			kid.Remove()
			changed = true
		}
	}
	return changed, nil
}

func jsonFields(v any) ([]string, map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		fields := make([]string, 0, len(x))
		for k := range x {
			fields = append(fields, k)
		}
		slices.Sort(fields)
		return fields, x, true
	case []any:
		fields := make([]string, len(x))
		vals := make(map[string]any, len(x))
		for i, elt := range x {
			fields[i] = strconv.Itoa(i)
			vals[fields[i]] = elt
		}
		return fields, vals, true
	}
	return nil, nil, false
}

func jsonScalar(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %w", ErrUnsupported, err)
		}
		return Number(f), nil
	}
	return Value{}, fmt.Errorf("%w: %T", ErrUnsupported, v)
}
