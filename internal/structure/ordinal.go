package structure

import (
	"strconv"
	"strings"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
)

// UnknownRank is returned by LetterRank for labels outside a–z and đ.
// Callers fall back to the item's position.
const UnknownRank = 99

var romanValues = map[rune]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50,
	'C': 100, 'D': 500, 'M': 1000,
}

// RomanToInt converts a roman numeral (case-insensitive) using the standard
// subtractive rule. Any other input, including "", returns domain.ErrNotRoman.
func RomanToInt(s string) (int, error) {
	if s == "" {
		return 0, domain.ErrNotRoman
	}

	upper := strings.ToUpper(s)
	total, prev := 0, 0
	for i := len(upper) - 1; i >= 0; i-- {
		val, ok := romanValues[rune(upper[i])]
		if !ok {
			return 0, domain.ErrNotRoman
		}
		if val < prev {
			total -= val
		} else {
			total += val
			prev = val
		}
	}
	return total, nil
}

// ToOrdinal converts a heading numeral to an integer. Digits are parsed as
// base 10; anything else is tried as a roman numeral. ok is false when both
// fail and the caller must use its own sequence counter.
func ToOrdinal(s string) (n int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if isDigits(s) {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	v, err := RomanToInt(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// LetterRank maps an item letter to its alphabetical rank: a→1 … z→26.
// Vietnamese đ shares d's rank. Anything else returns UnknownRank.
func LetterRank(letter string) int {
	l := strings.ToLower(strings.TrimSpace(letter))
	if l == "đ" {
		l = "d"
	}
	if len(l) != 1 || l[0] < 'a' || l[0] > 'z' {
		return UnknownRank
	}
	return int(l[0]-'a') + 1
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
