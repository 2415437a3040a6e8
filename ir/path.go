package ir

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// KeyClass is the regexp character class of key characters which need no
// escaping.
const KeyClass = `[\p{L}\p{Nl}\p{Mn}\p{Mc}0-9-]`

var pathRE = regexp.MustCompile(`^(?s)\.{0,2}(/((?:` + KeyClass + `|\\.)+|\.\.))+$`)

// ValidPath reports whether p matches the reference path grammar.
func ValidPath(p string) bool {
	return pathRE.MatchString(p)
}

// IsKeyRune reports whether r may appear unescaped in a key.
func IsKeyRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r == '-':
		return true
	case unicode.IsLetter(r):
		return true
	}
	return unicode.In(r, unicode.Nl, unicode.Mn, unicode.Mc)
}

// EscapeKey prefixes every rune of key which is not a key rune with a
// backslash.
func EscapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		if !IsKeyRune(r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UnescapeKey removes the backslash escapes of an encoded key.
func UnescapeKey(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	esc := false
	for _, r := range s {
		if r == '\\' && !esc {
			esc = true
			continue
		}
		esc = false
		b.WriteRune(r)
	}
	return b.String()
}

// SplitPath splits p on '/' separators which are not escaped. Segments
// keep their escapes.
func SplitPath(p string) []string {
	res := []string{}
	start := 0
	esc := false
	for i := 0; i < len(p); i++ {
		switch {
		case esc:
			esc = false
		case p[i] == '\\':
			esc = true
		case p[i] == '/':
			res = append(res, p[start:i])
			start = i + 1
		}
	}
	return append(res, p[start:])
}

// Path returns the absolute path of e from its root.
func (e *Element) Path() string {
	if e.parent == nil {
		return "/"
	}
	segs := []string{}
	for x := e; x.parent != nil; x = x.parent {
		segs = append(segs, EscapeKey(x.key))
	}
	var b strings.Builder
	for i := len(segs) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(segs[i])
	}
	return b.String()
}

// RelativePath returns a path which resolves from e to other.
func (e *Element) RelativePath(other *Element) (string, error) {
	if other == e {
		return "", ErrSelfReference
	}
	if other.Root() != e.Root() {
		return "", ErrCrossDocument
	}
	to := SplitPath(other.Path())
	from := SplitPath(e.Path())
	if other.parent == nil {
		to = to[:1]
	}
	if e.parent == nil {
		from = from[:1]
	}
	i := 0
	for i < len(to) && i < len(from) && to[i] == from[i] {
		i++
	}
	ups, rest := len(from)-i, to[i:]
	var b strings.Builder
	if ups > 0 && len(rest) > 0 {
		b.WriteString("..")
		ups--
	} else {
		b.WriteString(".")
	}
	for range ups {
		b.WriteString("/..")
	}
	for _, seg := range rest {
		b.WriteByte('/')
		b.WriteString(seg)
	}
	return b.String(), nil
}

// Query resolves path from e. It returns nil with no error when the path is
// well formed but leads nowhere.
func (e *Element) Query(path string) (*Element, error) {
	if !ValidPath(path) {
		return nil, fmt.Errorf("%w %q", ErrInvalidPath, path)
	}
	segs := SplitPath(path)
	var x *Element
	switch segs[0] {
	case "":
		x = e.Root()
	case "..":
		x = e.parent
	default:
		x = e
	}
	for _, seg := range segs[1:] {
		if x == nil {
			return nil, nil
		}
		if seg == ".." {
			x = x.parent
			continue
		}
		if x.val.Kind != CollectionKind {
			return nil, nil
		}
		x = x.Get(UnescapeKey(seg))
	}
	return x, nil
}
