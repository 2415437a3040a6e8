// Package eval evaluates expr-lang expressions against document elements.
//
// An expression sees the following variables:
//
//	key       the element key
//	value     the JSON view of the element (references resolved)
//	kind      the kind name: null, number, string, boolean, collection, reference
//	path      the absolute path of the element
//	modified  the stamp in epoch milliseconds, or nil
//
// and the functions getpath(p), which resolves p from the element and
// returns its JSON view, and whereami(), which returns path.
package eval
