package encode

import (
	"bytes"
	"strings"

	"github.com/signadot/tsd/ir"
)

func MustString(e *ir.Element, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(e, buf, opts...); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}
