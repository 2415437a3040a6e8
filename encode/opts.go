package encode

type EncodeOption func(*EncState)

func EncodeWire(v bool) EncodeOption {
	return func(es *EncState) { es.wire = v }
}

// EncodeIndent sets the number of spaces per nesting level in pretty mode.
func EncodeIndent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}

// EncodeRemoved controls whether tombstoned elements are written. They are
// by default; leaving them out gives a view of the live document which no
// longer merges correctly.
func EncodeRemoved(v bool) EncodeOption {
	return func(es *EncState) { es.removed = v }
}
