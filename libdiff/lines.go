package libdiff

import (
	"strings"

	"github.com/signadot/tsd/encode"
	"github.com/signadot/tsd/ir"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Line is one line of a diff. Op is '+', '-' or ' '.
type Line struct {
	Op   byte
	Text string
}

// Lines diffs from and to line by line.
func Lines(from, to string) []Line {
	diffCfg := diffpatch.New()
	fromRunes, toRunes, lines := diffCfg.DiffLinesToRunes(from, to)
	diffs := diffCfg.DiffMainRunes(fromRunes, toRunes, false)
	diffs = diffCfg.DiffCharsToLines(diffs, lines)
	res := []Line{}
	for i := range diffs {
		diff := &diffs[i]
		var op byte
		switch diff.Type {
		case diffpatch.DiffInsert:
			op = '+'
		case diffpatch.DiffDelete:
			op = '-'
		case diffpatch.DiffEqual:
			op = ' '
		}
		text := strings.TrimSuffix(diff.Text, "\n")
		for _, ln := range strings.Split(text, "\n") {
			res = append(res, Line{Op: op, Text: ln})
		}
	}
	return res
}

// Changed reports whether any line was inserted or deleted.
func Changed(lines []Line) bool {
	for _, ln := range lines {
		if ln.Op != ' ' {
			return true
		}
	}
	return false
}

// Format renders lines with their op as prefix. Unchanged lines are
// dropped when context is false.
func Format(lines []Line, context bool) string {
	var b strings.Builder
	for _, ln := range lines {
		if ln.Op == ' ' && !context {
			continue
		}
		b.WriteByte(ln.Op)
		b.WriteByte(' ')
		b.WriteString(ln.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Elements diffs the pretty encodings of two documents.
func Elements(from, to *ir.Element, opts ...encode.EncodeOption) ([]Line, error) {
	var fb, tb strings.Builder
	if err := encode.Encode(from, &fb, opts...); err != nil {
		return nil, err
	}
	if err := encode.Encode(to, &tb, opts...); err != nil {
		return nil, err
	}
	return Lines(fb.String(), tb.String()), nil
}
