// Package natsort implements natural (numeric-aware) string ordering:
// runs of digits compare as integers, everything else compares
// case-insensitively, so "Bar 2g" sorts before "Bar 10g".
package natsort

import (
	"strings"
)

// Compare returns -1, 0 or 1 ordering a relative to b. The strings are
// split into alternating digit and non-digit runs which are compared
// pairwise left to right; a string that runs out of runs first sorts
// first. The result is a total order consistent with equality, safe to
// use as a sort key.
func Compare(a, b string) int {
	for a != "" || b != "" {
		if a == "" {
			return -1
		}
		if b == "" {
			return 1
		}

		aRun, aRest, aDigits := nextRun(a)
		bRun, bRest, bDigits := nextRun(b)

		var c int
		if aDigits && bDigits {
			c = compareNumeric(aRun, bRun)
		} else {
			c = strings.Compare(strings.ToLower(aRun), strings.ToLower(bRun))
		}
		if c != 0 {
			return c
		}
		a, b = aRest, bRest
	}
	return 0
}

// Less reports whether a orders before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// nextRun splits s into its leading run of digits or non-digits and the
// remainder.
func nextRun(s string) (run, rest string, digits bool) {
	digits = isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], s[i:], digits
}

// compareNumeric compares two digit runs by integer value without
// converting them, so arbitrarily long runs cannot overflow. Leading
// zeros are insignificant for magnitude; equal values fall back to a
// lexical compare to keep the order total.
func compareNumeric(a, b string) int {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
