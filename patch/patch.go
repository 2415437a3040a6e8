package patch

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/signadot/tsd/debug"
	"github.com/signadot/tsd/ir"

	jsonpatch "github.com/evanphx/json-patch"
)

var ErrPatch = errors.New("patch error")

// Apply applies the RFC 6902 patch p to doc and reports whether doc
// changed.
func Apply(doc *ir.Element, p []byte) (bool, error) {
	ops, err := jsonpatch.DecodePatch(p)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	return apply(doc, func(d []byte) ([]byte, error) {
		return ops.Apply(d)
	})
}

// ApplyMerge applies the RFC 7386 merge patch p to doc and reports
// whether doc changed.
func ApplyMerge(doc *ir.Element, p []byte) (bool, error) {
	return apply(doc, func(d []byte) ([]byte, error) {
		return jsonpatch.MergePatch(d, p)
	})
}

func apply(doc *ir.Element, f func([]byte) ([]byte, error)) (bool, error) {
	d, err := json.Marshal(doc)
	if err != nil {
		return false, err
	}
	out, err := f(d)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	var v any
	if err := json.Unmarshal(out, &v); err != nil {
		return false, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	if debug.Merge() {
		debug.Logf("patch %s -> %s\n", d, out)
	}
	return doc.Assign(v)
}
