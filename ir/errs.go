package ir

import (
	"errors"
	"fmt"
)

var (
	ErrSyntax      = errors.New("syntax error")
	ErrInvalidPath = fmt.Errorf("%w: invalid path", ErrSyntax)
	ErrEmptyKey    = fmt.Errorf("%w: empty key", ErrSyntax)

	ErrReference     = errors.New("reference error")
	ErrCrossDocument = fmt.Errorf("%w: element does not share the same root", ErrReference)
	ErrUnresolved    = fmt.Errorf("%w: unresolved reference", ErrReference)
	ErrSelfReference = fmt.Errorf("%w: element references itself", ErrReference)
	ErrRefCycle      = fmt.Errorf("%w: reference cycle", ErrReference)

	ErrNotCollection = errors.New("not a collection")
	ErrCycle         = errors.New("element would become its own ancestor")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrUnsupported   = errors.New("unsupported value")
)
