// Package ir provides the in-memory representation of tsd documents.
//
// # Overview
//
// A tsd document is a tree of *Element. Every element has a key, a value, a
// tombstone flag and a last-modified timestamp. Documents are produced by the
// parse package, written by the encode package and reconciled with Merge.
//
// # Values
//
// The value of an element is a tagged variant (see Value and Kind):
//
//   - NullKind: null
//   - BoolKind: true or false
//   - NumberKind: a float64
//   - StringKind: a string
//   - CollectionKind: an ordered list of child elements with unique keys
//   - ReferenceKind: a path to another element of the same document
//
// A reference is stored as a path, never as a pointer. It is resolved with
// Deref each time it is read, so its target follows the shape of the tree.
//
// # Ownership
//
// Children are owned by their parent's collection. The Parent link is a
// back-pointer only, used for path computation and change notification.
// Elements are never shared between two parents: Merge and Clone copy.
//
// # Tombstones
//
// Remove marks an element removed instead of dropping it, so that a later
// merge can still compare the removal time against a concurrent edit from
// another copy of the document. Removed elements are kept in All but are
// hidden from Children, Keys, Get and Query.
//
// # Timestamps
//
// Each mutation stamps the element with the current time in milliseconds
// (see Stamp). An element that was never stamped loses against any stamped
// counterpart during Merge.
//
// # Paths
//
// Paths are '/'-separated key segments. A leading '/' starts at the root,
// a leading "." at the element itself and a leading ".." at its parent.
// A ".." segment moves to the parent. Key characters other than letters,
// digits and '-' are escaped with a backslash:
//
//	/todo/item\ 1/done
//	../sibling
//	./child/..
//
// # Thread Safety
//
// Elements are not safe for concurrent use. The storage package serialises
// access to the documents it manages.
package ir
