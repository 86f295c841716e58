package output

import "strings"

// maskChar replaces every hidden character.
const maskChar = "•"

// MaskSecret hides s unless reveal is set. A 0x prefix stays visible so the
// reader still sees what kind of value it is; no other character leaks.
func MaskSecret(s string, reveal bool) string {
	if reveal {
		return s
	}
	if strings.HasPrefix(s, "0x") {
		return "0x" + strings.Repeat(maskChar, len(s)-2)
	}
	return strings.Repeat(maskChar, len(s))
}

// maskedWordWidth is the width of every hidden phrase word, so the mask does
// not give away word lengths.
const maskedWordWidth = 5

// MaskWords hides each word of a recovery phrase unless reveal is set. The
// result always has one entry per word.
func MaskWords(words []string, reveal bool) []string {
	out := make([]string, len(words))
	for i, w := range words {
		if reveal {
			out[i] = w
			continue
		}
		out[i] = strings.Repeat(maskChar, maskedWordWidth)
	}
	return out
}
