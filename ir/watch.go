package ir

// watchers holds the change callbacks registered on one element.
type watchers struct {
	next int
	fns  map[int]func(*Element)
}

// Watch registers fn to be called with the mutated element whenever e or
// one of its descendants changes through Set, SetRef, Remove, Restore or
// Add. Merge does not notify. The returned function unregisters fn.
func (e *Element) Watch(fn func(changed *Element)) (unwatch func()) {
	if e.watchers == nil {
		e.watchers = &watchers{fns: map[int]func(*Element){}}
	}
	w := e.watchers
	id := w.next
	w.next++
	w.fns[id] = fn
	return func() {
		delete(w.fns, id)
	}
}

func (e *Element) changed() {
	for x := e; x != nil; x = x.parent {
		if x.watchers == nil {
			continue
		}
		for _, fn := range x.watchers.fns {
			fn(e)
		}
	}
}
