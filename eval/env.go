package eval

import (
	"github.com/signadot/tsd/ir"
)

type Env map[string]any

// ElementEnv returns the variables seen by an expression evaluated at e.
func ElementEnv(e *ir.Element) (Env, error) {
	v, err := e.ToJSON()
	if err != nil {
		return nil, err
	}
	var modified any
	if at := e.Modified(); !at.IsZero() {
		modified = at.Millis()
	}
	return Env{
		"key":      e.Key(),
		"value":    v,
		"kind":     e.Kind().String(),
		"path":     e.Path(),
		"modified": modified,
	}, nil
}
