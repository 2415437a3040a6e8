package parse

import (
	"fmt"
	"math"
	"strconv"

	"github.com/signadot/tsd/debug"
	"github.com/signadot/tsd/ir"
	"github.com/signadot/tsd/token"
)

// Parse parses d, which must hold exactly one element.
func Parse(d []byte, opts ...ParseOption) (*ir.Element, error) {
	pOpts := &parseOpts{}
	for _, f := range opts {
		f(pOpts)
	}
	toks, err := token.Tokenize(nil, d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	p := &parser{toks: toks, opts: pOpts}
	res, err := p.element()
	if err != nil {
		return nil, err
	}
	if p.i != len(p.toks) {
		return nil, p.unexpected()
	}
	if debug.Parse() {
		debug.Logf("parsed %d tokens into %s\n", len(toks), debug.Y{Element: res})
	}
	return res, nil
}

func ParseString(s string, opts ...ParseOption) (*ir.Element, error) {
	return Parse([]byte(s), opts...)
}

type parser struct {
	toks []token.Token
	i    int
	opts *parseOpts
}

func (p *parser) peek() *token.Token {
	if p.i >= len(p.toks) {
		return nil
	}
	return &p.toks[p.i]
}

func (p *parser) unexpected(want ...token.TokenType) error {
	return &SyntaxError{Want: want, Got: p.peek()}
}

func (p *parser) expect(want ...token.TokenType) (*token.Token, error) {
	tok := p.peek()
	if tok == nil {
		return nil, p.unexpected(want...)
	}
	for _, w := range want {
		if tok.Type == w {
			p.i++
			return tok, nil
		}
	}
	return nil, p.unexpected(want...)
}

var valueTypes = []token.TokenType{
	token.TLCurl, token.TString, token.TNumber, token.TBool, token.TNull, token.TReference,
}

func (p *parser) element() (*ir.Element, error) {
	keyTok, err := p.expect(token.TKey)
	if err != nil {
		return nil, err
	}
	key := ir.UnescapeKey(keyTok.Text)
	valTok, err := p.expect(valueTypes...)
	if err != nil {
		return nil, err
	}
	var v ir.Value
	switch valTok.Type {
	case token.TLCurl:
		kids, err := p.collection()
		if err != nil {
			return nil, err
		}
		v = ir.Collection(kids...)
	case token.TString:
		v = ir.String(valTok.String())
	case token.TNumber:
		f, err := strconv.ParseFloat(valTok.Text, 64)
		if err != nil || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: bad number %q at %s", ErrParse, valTok.Text, valTok.Pos)
		}
		v = ir.Number(f)
	case token.TBool:
		v = ir.Bool(valTok.Text == "true")
	case token.TNull:
		v = ir.Null()
	case token.TReference:
		v = ir.Ref(valTok.Text)
	}
	at := p.opts.stamp
	if tok := p.peek(); tok != nil && tok.Type == token.TTimestamp {
		p.i++
		ms, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad timestamp %q at %s", ErrParse, tok.Text, tok.Pos)
		}
		at = ir.StampMillis(ms)
	}
	res := ir.NewWith(key, v, keyTok.Removed, at)
	if p.opts.positions != nil {
		p.opts.positions[res] = keyTok.Pos
	}
	return res, nil
}

// collection parses the children following an opening brace, through the
// closing brace.
func (p *parser) collection() ([]*ir.Element, error) {
	kids := []*ir.Element{}
	if tok := p.peek(); tok != nil && tok.Type == token.TRCurl {
		p.i++
		return kids, nil
	}
	seen := map[string]bool{}
	for {
		keyPos := p.peek()
		kid, err := p.element()
		if err != nil {
			return nil, err
		}
		if seen[kid.Key()] {
			return nil, fmt.Errorf("%w: %w %q at %s", ErrParse, ir.ErrDuplicateKey, kid.Key(), keyPos.Pos)
		}
		seen[kid.Key()] = true
		kids = append(kids, kid)
		tok, err := p.expect(token.TComma, token.TRCurl)
		if err != nil {
			return nil, err
		}
		if tok.Type == token.TRCurl {
			return kids, nil
		}
	}
}
