package eval

import "errors"

var ErrNotBool = errors.New("filter did not evaluate to a boolean")
