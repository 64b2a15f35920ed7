package flatfile

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// tagEncoding is standard base64 with '/' swapped for '_', so names are
// slash free and stay compatible with stores written by older versions.
var tagEncoding = base64.NewEncoding("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+_")

// EncodeTag returns the tag index file name of a tag.
func EncodeTag(tag string) string {
	return tagEncoding.EncodeToString([]byte(tag))
}

// DecodeTag reverses EncodeTag.
func DecodeTag(name string) (string, error) {
	raw, err := tagEncoding.DecodeString(name)
	if err != nil {
		return "", fmt.Errorf("tag file %q: %w", name, err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("tag file %q: not utf-8", name)
	}
	return string(raw), nil
}
