// internal/container/comment.go
package container

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeComment turns raw comment bytes into text. Valid UTF-8 is returned
// as is; anything else is decoded as IBM code page 437, the ZIP default
// encoding, and ok is false so callers can warn about it.
func DecodeComment(raw string) (text string, ok bool) {
	if utf8.ValidString(raw) {
		return raw, true
	}
	decoded, err := charmap.CodePage437.NewDecoder().String(raw)
	if err != nil {
		return strings.ToValidUTF8(raw, "\uFFFD"), false
	}
	return decoded, false
}
