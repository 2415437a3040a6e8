package encode

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/tsd/ir"
	"github.com/signadot/tsd/token"
)

type EncState struct {
	depth, indent int
	wire          bool
	removed       bool

	Color func(ir.Kind, ColorAttr, string) string
}

// Encode writes e to w followed by a newline.
func Encode(e *ir.Element, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent:  4,
		removed: true,
	}
	for _, opt := range opts {
		opt(es)
	}
	buf := bytes.NewBuffer(nil)
	if err := encode(e, buf, es); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func (es *EncState) color(k ir.Kind, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(k, a, s)
}

func (es *EncState) sep(k ir.Kind, pretty, wire string) string {
	if es.wire {
		return es.color(k, SepColor, wire)
	}
	return es.color(k, SepColor, pretty)
}

func writeNL(buf *bytes.Buffer, es *EncState) {
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(" ", es.depth*es.indent))
}

func encode(e *ir.Element, buf *bytes.Buffer, es *EncState) error {
	if e.Key() == "" {
		where := "root"
		if e.Parent() != nil {
			where = e.Parent().Path()
		}
		return fmt.Errorf("%w: %w under %s", ErrEncoding, ir.ErrEmptyKey, where)
	}
	k := e.Kind()
	buf.WriteString(es.color(k, KeyColor, ir.EscapeKey(e.Key())))
	if e.Removed() {
		buf.WriteString(es.color(k, RemovedColor, "[rem]"))
	}
	buf.WriteString(es.sep(k, ": ", ":"))
	if err := encodeValue(e, buf, es); err != nil {
		return err
	}
	if at := e.Modified(); !at.IsZero() {
		buf.WriteString(es.sep(k, " | ", "|"))
		buf.WriteString(es.color(k, StampColor, at.String()))
	}
	return nil
}

func encodeValue(e *ir.Element, buf *bytes.Buffer, es *EncState) error {
	k := e.Kind()
	switch k {
	case ir.NullKind:
		buf.WriteString(es.color(k, ValueColor, "null"))
	case ir.StringKind:
		s, _ := e.Str()
		buf.WriteString(es.color(k, ValueColor, token.Quote(s)))
	case ir.NumberKind:
		f, _ := e.Num()
		s, err := FormatNumber(f)
		if err != nil {
			return fmt.Errorf("%w at %s", err, e.Path())
		}
		buf.WriteString(es.color(k, ValueColor, s))
	case ir.BoolKind:
		b, _ := e.Bool()
		s := "false"
		if b {
			s = "true"
		}
		buf.WriteString(es.color(k, ValueColor, s))
	case ir.ReferenceKind:
		p, _ := e.RefPath()
		buf.WriteString(es.color(k, ValueColor, p))
	case ir.CollectionKind:
		return encodeCollection(e, buf, es)
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrEncoding, k)
	}
	return nil
}

func encodeCollection(e *ir.Element, buf *bytes.Buffer, es *EncState) error {
	kids := e.All()
	if !es.removed {
		kids = e.Children()
	}
	buf.WriteString(es.sep(ir.CollectionKind, "{", "{"))
	if len(kids) == 0 {
		buf.WriteString(es.sep(ir.CollectionKind, "}", "}"))
		return nil
	}
	es.depth++
	for i, kid := range kids {
		if i > 0 {
			buf.WriteString(es.sep(ir.CollectionKind, ",", ","))
		}
		if !es.wire {
			writeNL(buf, es)
		}
		if err := encode(kid, buf, es); err != nil {
			return err
		}
	}
	es.depth--
	if !es.wire {
		writeNL(buf, es)
	}
	buf.WriteString(es.sep(ir.CollectionKind, "}", "}"))
	return nil
}
