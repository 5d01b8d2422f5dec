package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// Numerals are the characters treated as digits by the word filters:
// ASCII digits plus the Chinese numerals one through ten.
const Numerals = "0123456789一二三四五六七八九十"

// Reverse returns s with its runes in reverse order.
func Reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// RuneLen counts runes, not bytes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// IsOnlyNumerals checks if a non-empty string consists entirely of Numerals
func IsOnlyNumerals(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(Numerals, r) {
			return false
		}
	}
	return true
}

// RuneSet builds a lookup set from the runes of chars.
func RuneSet(chars string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(chars))
	for _, r := range chars {
		set[r] = struct{}{}
	}
	return set
}

// FormatWithCommas renders n with thousands separators.
func FormatWithCommas(n int) string {
	return humanize.Comma(int64(n))
}
