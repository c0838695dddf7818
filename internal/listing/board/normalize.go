package board

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// isCombiningMark matches the Combining Diacritical Marks block U+0300..U+036F.
func isCombiningMark(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
}

// Normalize lowercases s, decomposes it (NFD) and drops combining diacritical marks,
// so "Hà Nội" and "ha noi" compare equal. Letters without a decomposition, such as "đ", are kept.
func Normalize(s string) string {
	lower := strings.ToLower(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(isCombiningMark)))
	out, _, err := transform.String(t, lower)
	if err != nil {
		return lower
	}
	return out
}
