// Package encode writes [ir.Element] trees as tsd text.
//
// Two modes exist. The default pretty mode puts each child of a collection
// on its own indented line and spaces out the separators:
//
//	a: {
//	    b: "1" | 100,
//	    c[rem]: 2 | 101
//	} | 90
//
// Wire mode ([EncodeWire]) writes the same document without any white
// space, as used for the local cache:
//
//	a:{b:"1"|100,c[rem]:2|101}|90
//
// Both modes parse back to the same tree.
package encode
