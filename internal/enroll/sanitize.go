package enroll

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold decomposes accented characters and strips combining marks, so
// "José" folds to "Jose" before the ASCII filter runs.
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeTag converts an identity or sequence tag into a form safe to
// embed in a reference filename. Accented letters are folded to ASCII,
// anything else outside [A-Za-z0-9-] is dropped. Tags that vanish
// entirely (or that try to carry path syntax) are rejected.
func SanitizeTag(tag string) (string, error) {
	if strings.ContainsAny(tag, "/\\") || strings.Contains(tag, "..") {
		return "", errors.New("must not contain path separators")
	}
	if strings.Contains(tag, "_") {
		// The underscore separates sequence number from identity in the
		// filename scheme, so it cannot appear inside either part.
		return "", errors.New("must not contain underscores")
	}

	folded, _, err := transform.String(asciiFold, tag)
	if err != nil {
		folded = tag
	}

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}

	out := b.String()
	if out == "" {
		return "", errors.New("no usable characters")
	}
	return out, nil
}
