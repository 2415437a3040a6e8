// Package patch applies RFC 6902 JSON Patch and RFC 7386 JSON Merge Patch
// documents to an element tree.
//
// Patches operate on the JSON view of the tree. The result is folded back
// with [ir.Element.Assign], so only the elements whose value actually
// changed get a new stamp and keys which disappear become tombstones. A
// patched tree therefore still merges correctly with other copies.
package patch
