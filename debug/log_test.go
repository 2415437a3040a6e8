package debug

import (
	"fmt"
	"testing"

	"github.com/signadot/tsd/encode"
	"github.com/signadot/tsd/ir"
)

func TestY(t *testing.T) {
	e := ir.New("a", ir.Collection(ir.New("b", ir.String("1"))))
	want := encode.MustString(e)
	if got := fmt.Sprintf("%s", Y{Element: e}); got != want {
		t.Errorf("got %q want %q", got, want)
	}
	if got := (Y{}).String(); got != "<nil>" {
		t.Errorf("nil element rendered as %q", got)
	}
}
