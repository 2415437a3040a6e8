package parse

import (
	"github.com/signadot/tsd/ir"
	"github.com/signadot/tsd/token"
)

type parseOpts struct {
	positions map[*ir.Element]*token.Pos
	stamp     ir.Stamp
}

type ParseOption func(*parseOpts)

// ParsePositions records the position of the key of every parsed element
// in m.
func ParsePositions(m map[*ir.Element]*token.Pos) ParseOption {
	return func(o *parseOpts) { o.positions = m }
}

// ParseStamp sets the stamp given to elements which carry no timestamp.
// By default they stay unstamped.
func ParseStamp(at ir.Stamp) ParseOption {
	return func(o *parseOpts) { o.stamp = at }
}
