// Package parse parses tsd text into an [ir.Element] tree.
//
// # Usage
//
//	doc, err := parse.Parse([]byte(`a:{b:"1"|100,c:"2"|100}`))
//	if err != nil {
//	    return err
//	}
//
// A document is exactly one element. Any token out of place aborts the
// whole parse with an error wrapping [ErrParse]; no partial tree is
// returned.
//
// # Related Packages
//
//   - github.com/signadot/tsd/ir - the element tree
//   - github.com/signadot/tsd/encode - encode elements to text
//   - github.com/signadot/tsd/token - tokenization
package parse
