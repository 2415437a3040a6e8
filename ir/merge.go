package ir

// Merge reconciles e with other, a copy of the same logical element from
// another source, and reports whether e changed. other is not modified;
// anything taken from it is copied.
//
// The newer stamp wins and its value, tombstone and stamp replace those of
// e. A zero stamp loses against any real one. When the stamps are equal and
// both sides are collections, children missing from e are appended and
// children present on both sides are merged recursively. Merge does not
// notify watchers.
func (e *Element) Merge(other *Element) bool {
	switch c := e.modified.Compare(other.modified); {
	case c > 0:
		return false
	case c < 0:
		e.adopt(other)
		return true
	}
	if e.val.Kind != CollectionKind || other.val.Kind != CollectionKind {
		return false
	}
	changed := false
	for _, theirs := range other.All() {
		mine := e.lookup(theirs.key)
		if mine == nil {
			kid := theirs.Clone()
			kid.parent = e
			e.val.Elements = append(e.val.Elements, kid)
			changed = true
			continue
		}
		if mine.Merge(theirs) {
			changed = true
		}
	}
	return changed
}

func (e *Element) adopt(other *Element) {
	if other.val.Kind == CollectionKind {
		kids := make([]*Element, len(other.val.Elements))
		for i, kid := range other.val.Elements {
			kids[i] = kid.Clone()
		}
		e.assign(Collection(kids...))
	} else {
		e.assign(other.val)
	}
	e.removed = other.removed
	e.modified = other.modified
}
