// Package numeral formats page positions as Roman or Arabic numerals.
package numeral

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidArgument is returned for positions below 1.
var ErrInvalidArgument = errors.New("numeral: invalid argument")

// Style is a page numbering style.
type Style int

const (
	Roman Style = iota
	Arabic
)

func (s Style) String() string {
	switch s {
	case Roman:
		return "roman"
	case Arabic:
		return "arabic"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseStyle converts "roman" or "arabic" (case-insensitive) to a Style.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "roman":
		return Roman, nil
	case "arabic":
		return Arabic, nil
	default:
		return 0, fmt.Errorf("%w: unknown style %q", ErrInvalidArgument, s)
	}
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// ToRoman returns the subtractive-notation Roman numeral for n.
// There is no upper bound: values above 3999 repeat M.
func ToRoman(n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("%w: roman numeral for %d", ErrInvalidArgument, n)
	}
	var b strings.Builder
	for _, e := range romanTable {
		for n >= e.value {
			b.WriteString(e.symbol)
			n -= e.value
		}
	}
	return b.String(), nil
}

// Format renders position n (1-based) in the given style.
func Format(style Style, n int) (string, error) {
	switch style {
	case Roman:
		return ToRoman(n)
	case Arabic:
		if n < 1 {
			return "", fmt.Errorf("%w: arabic numeral for %d", ErrInvalidArgument, n)
		}
		return strconv.Itoa(n), nil
	default:
		return "", fmt.Errorf("%w: %v", ErrInvalidArgument, style)
	}
}
