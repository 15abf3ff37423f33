package textutil

import (
	"strconv"
	"strings"
)

// ParsePrice converts a human-readable price string into a non-negative
// numeric value. Listings mix Turkish and plain notations, so the rules
// are:
//
//  1. both "." and "," present: dots are thousands separators, the last
//     comma is the decimal separator ("11.784,23" → 11784.23);
//  2. only "," present: decimal comma ("60,00" → 60.0);
//  3. only "." present: thousands dot when the number has more than
//     three digits and the trailing group is exactly three
//     ("1.500" → 1500), decimal dot otherwise ("19.9" → 19.9);
//  4. nothing parsable: 0.
//
// It never returns an error; garbage in means zero out.
func ParsePrice(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	num := b.String()
	if num == "" {
		return 0
	}

	hasDot := strings.Contains(num, ".")
	hasComma := strings.Contains(num, ",")

	switch {
	case hasDot && hasComma:
		// All dots are thousands separators, the last comma is decimal.
		num = strings.ReplaceAll(num, ".", "")
		i := strings.LastIndex(num, ",")
		num = strings.ReplaceAll(num[:i], ",", "") + "." + num[i+1:]
	case hasComma:
		// A comma is always decimal in Turkish notation.
		i := strings.LastIndex(num, ",")
		num = strings.ReplaceAll(num[:i], ",", "") + "." + num[i+1:]
	case hasDot:
		digits := strings.ReplaceAll(num, ".", "")
		i := strings.LastIndex(num, ".")
		if len(digits) > 3 && len(num)-i-1 == 3 {
			num = digits
		}
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
