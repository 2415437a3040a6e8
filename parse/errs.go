package parse

import (
	"errors"
	"fmt"

	"github.com/signadot/tsd/token"
)

var (
	ErrParse = errors.New("parse error")
	ErrEOF   = errors.New("unexpected end of input")
)

// SyntaxError reports a token which is not one of the kinds expected at
// its position. Got is nil at end of input.
type SyntaxError struct {
	Want []token.TokenType
	Got  *token.Token
}

func (e *SyntaxError) Unwrap() []error {
	if e.Got == nil {
		return []error{ErrParse, ErrEOF}
	}
	return []error{ErrParse}
}

func (e *SyntaxError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("%s: expected %v", ErrEOF, e.Want)
	}
	return fmt.Sprintf("%s: unexpected %s %q, expected %v at %s",
		ErrParse, e.Got.Type, e.Got.Bytes, e.Want, e.Got.Pos)
}
