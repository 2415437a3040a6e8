package token

import (
	"regexp"
	"unicode/utf8"
)

// KeyClass is the regexp character class of key characters which need no
// escaping.
const KeyClass = `[\p{L}\p{Nl}\p{Mn}\p{Mc}0-9-]`

const keyChars = `(?:` + KeyClass + `|\\.)+`

type rule struct {
	typ TokenType
	re  *regexp.Regexp
}

// rules are tried in order; the first match wins.
var rules = []rule{
	{TKey, regexp.MustCompile(`^(?s)(` + keyChars + `)[ \t]*(\[rem\]|\[removed\])?[ \t]*:`)},
	{TLCurl, regexp.MustCompile(`^\{`)},
	{TRCurl, regexp.MustCompile(`^\}`)},
	{TComma, regexp.MustCompile(`^,`)},
	{TString, regexp.MustCompile(`^(?s)"((?:\\.|[^"\\])*)"`)},
	{TNumber, regexp.MustCompile(`^-?[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?`)},
	{TBool, regexp.MustCompile(`^(?:true|false)`)},
	{TNull, regexp.MustCompile(`^null`)},
	{TTimestamp, regexp.MustCompile(`^\|[ \t]*([0-9]+)`)},
	{TReference, regexp.MustCompile(`^(?s)\.{0,2}(?:/(?:` + keyChars + `|\.\.))+`)},
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// Tokenize appends the tokens of src to dst.
func Tokenize(dst []Token, src []byte) ([]Token, error) {
	if !utf8.Valid(src) {
		return dst, ErrBadUTF8
	}
	doc := NewPosDoc(src)
	i := 0
	for {
		for i < len(src) && isSpace(src[i]) {
			i++
		}
		if i == len(src) {
			return dst, nil
		}
		tok, n := next(src[i:])
		if n == 0 {
			return dst, NewTokenizeErr(ErrToken, doc.Pos(i))
		}
		tok.Pos = doc.Pos(i)
		dst = append(dst, tok)
		i += n
	}
}

func next(d []byte) (Token, int) {
	for _, r := range rules {
		m := r.re.FindSubmatchIndex(d)
		if m == nil {
			continue
		}
		tok := Token{Type: r.typ, Bytes: d[:m[1]]}
		switch r.typ {
		case TKey:
			tok.Text = string(d[m[2]:m[3]])
			tok.Removed = m[4] >= 0
		case TString, TTimestamp:
			tok.Text = string(d[m[2]:m[3]])
		default:
			tok.Text = string(d[:m[1]])
		}
		return tok, m[1]
	}
	return Token{}, 0
}
