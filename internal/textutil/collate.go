package textutil

import (
	"sort"
	"strings"
	"unicode"
)

// turkishRank orders the letters of the Turkish alphabet. Everything is
// built from this fixed table so sorting never depends on the host
// locale.
var turkishRank = func() map[rune]int {
	alphabet := []rune("abcçdefgğhıijklmnoöprsştuüvyz")
	m := make(map[rune]int, len(alphabet))
	for i, r := range alphabet {
		m[r] = i
	}
	return m
}()

// lowerTurkish lowercases a rune with the Turkish dotted/dotless i rules.
func lowerTurkish(r rune) rune {
	switch r {
	case 'I':
		return 'ı'
	case 'İ':
		return 'i'
	}
	return unicode.ToLower(r)
}

// CompareTurkish compares two strings by the Turkish alphabet,
// case-insensitively. Runes outside the alphabet fall back to their
// code point order after all letters.
func CompareTurkish(a, b string) int {
	ar := []rune(strings.TrimSpace(a))
	br := []rune(strings.TrimSpace(b))
	for i := 0; i < len(ar) && i < len(br); i++ {
		x, y := lowerTurkish(ar[i]), lowerTurkish(br[i])
		if x == y {
			continue
		}
		xr, xok := turkishRank[x]
		yr, yok := turkishRank[y]
		switch {
		case xok && yok:
			if xr < yr {
				return -1
			}
			return 1
		case xok:
			return -1
		case yok:
			return 1
		default:
			if x < y {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ar) < len(br):
		return -1
	case len(ar) > len(br):
		return 1
	}
	return 0
}

// SortTurkish sorts the slice in place by the Turkish alphabet.
func SortTurkish(ss []string) {
	sort.Slice(ss, func(i, j int) bool {
		return CompareTurkish(ss[i], ss[j]) < 0
	})
}
