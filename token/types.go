package token

import (
	"fmt"
)

type TokenType int

const (
	TKey TokenType = iota
	TLCurl
	TRCurl
	TComma
	TString
	TNumber
	TBool
	TNull
	TTimestamp
	TReference
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TKey:       "TKey",
		TLCurl:     "TLCurl",
		TRCurl:     "TRCurl",
		TComma:     "TComma",
		TString:    "TString",
		TNumber:    "TNumber",
		TBool:      "TBool",
		TNull:      "TNull",
		TTimestamp: "TTimestamp",
		TReference: "TReference",
	}[t]
}

type Token struct {
	Type  TokenType
	Pos   *Pos
	Bytes []byte

	// Text is the payload of the token: the escaped key of a TKey, the
	// escaped body of a TString, the digits of a TTimestamp and the whole
	// match otherwise.
	Text string

	// Removed is set on a TKey followed by a [rem] or [removed] marker.
	Removed bool
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %s", t.Type, t.Pos.String())
}

func (t *Token) String() string {
	switch t.Type {
	case TString:
		return Unquote(t.Text)
	default:
		return t.Text
	}
}
