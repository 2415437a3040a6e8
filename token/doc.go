// Package token splits tsd text into tokens.
//
// Tokens are recognised by trying a fixed list of anchored patterns, in
// priority order, at the current position after skipping white space. The
// first pattern which matches wins, so a key such as `true:` is a key and
// not a boolean.
package token
