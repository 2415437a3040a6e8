package debug

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/signadot/tsd/encode"
	"github.com/signadot/tsd/ir"
)

// Y renders an element in pretty tsd form wherever a fmt.Stringer is
// accepted.
type Y struct{ *ir.Element }

func (y Y) String() string {
	if y.Element == nil {
		return "<nil>"
	}
	s, err := render(y.Element)
	if err != nil {
		return fmt.Sprintf("[raw *ir.Element] %p", y.Element)
	}
	return s
}

// Logf writes to stderr. Elements are rendered in pretty tsd form and
// JSON values indented.
func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case map[string]any, []any, json.Number:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case *ir.Element:
			s, err := render(x)
			if err != nil {
				args[i] = fmt.Sprintf("[raw *ir.Element] %p", x)
				continue
			}
			args[i] = s
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}

func render(e *ir.Element) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return encode.MustString(e), nil
}
