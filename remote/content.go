package remote

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// EncodeContent base64 encodes the UTF-8 bytes of s.
func EncodeContent(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// DecodeContent decodes base64 content as served by the GitHub API, which
// wraps lines. The decoded bytes must be valid UTF-8.
func DecodeContent(b64 string) (string, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, b64)
	d, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrContent, err)
	}
	if !utf8.Valid(d) {
		return "", fmt.Errorf("%w: invalid utf-8", ErrContent)
	}
	return string(d), nil
}

// BlobSHA returns the git blob SHA-1 of content in hex.
func BlobSHA(content []byte) string {
	h := sha1.New()
	h.Write([]byte("blob " + strconv.Itoa(len(content)) + "\x00"))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
