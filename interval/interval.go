// Package interval parses page range specifications such as "1-5,11-15" into
// validated, style-tagged intervals and resolves the numbering label of each page.
//
// Parsing is lenient by default: tokens that are malformed or fall outside the
// document are dropped without an error, so that partially typed input never
// fails a form. Use Strict to surface those tokens as errors instead.
//
// Overlap is checked over the whole set, Roman and Arabic intervals together,
// before any page is numbered. See Set.Validate and NewResolver.
package interval

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lvillar/pdfnumber/numeral"
)

// Sentinel errors returned by Strict parsing.
var (
	ErrMalformed  = errors.New("interval: malformed range")
	ErrOutOfRange = errors.New("interval: range out of bounds")
)

// Mode selects how the parser treats tokens it cannot use.
type Mode int

const (
	Lenient Mode = iota // skip malformed and out-of-bounds tokens
	Strict              // fail on the first malformed or out-of-bounds token
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "lenient"
}

// ParseMode converts "lenient" or "strict" to a Mode. An empty string is Lenient.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	default:
		return Lenient, fmt.Errorf("interval: unknown mode %q", s)
	}
}

// Interval is a closed page range [Start, End] sharing one numbering sequence,
// which restarts at 1 on Start.
type Interval struct {
	Start int
	End   int
	Style numeral.Style
}

// Contains reports whether page p lies in the interval.
func (iv Interval) Contains(p int) bool {
	return iv.Start <= p && p <= iv.End
}

// Len returns the number of pages in the interval.
func (iv Interval) Len() int {
	return iv.End - iv.Start + 1
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s %d-%d", iv.Style, iv.Start, iv.End)
}

// Set is an ordered sequence of intervals.
type Set []Interval

// TokenError describes a token rejected by Strict parsing.
type TokenError struct {
	Field string // field name, empty for Parse
	Token string
	Err   error // ErrMalformed or ErrOutOfRange
}

func (e *TokenError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%v: %q in field %s", e.Err, e.Token, e.Field)
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Token)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

var tokenPattern = regexp.MustCompile(`^(\d+)-(\d+)$`)

// Parse parses a comma-separated list of "start-end" tokens for a document of
// total pages, tagging every surviving interval with style. Output order
// follows input order; duplicates and overlaps are kept.
func Parse(spec string, total int, style numeral.Style, mode Mode) (Set, error) {
	var set Set
	for _, tok := range strings.Split(spec, ",") {
		iv, ok, err := parseToken(tok, total, style, mode)
		if err != nil {
			return nil, err
		}
		if ok {
			set = append(set, iv)
		}
	}
	return set, nil
}

func parseToken(tok string, total int, style numeral.Style, mode Mode) (Interval, bool, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return Interval{}, false, nil
	}
	reject := func(err error) (Interval, bool, error) {
		if mode == Strict {
			return Interval{}, false, &TokenError{Token: tok, Err: err}
		}
		return Interval{}, false, nil
	}

	m := tokenPattern.FindStringSubmatch(tok)
	if m == nil {
		return reject(ErrMalformed)
	}
	start, err1 := strconv.Atoi(m[1])
	end, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		// digits that overflow int cannot address a page
		return reject(ErrOutOfRange)
	}
	if start < 1 || end > total || start > end {
		return reject(ErrOutOfRange)
	}
	return Interval{Start: start, End: end, Style: style}, true, nil
}

// Field is one labeled range input. A Single field accepts exactly one
// "start-end" token; a comma inside it makes the token malformed.
type Field struct {
	Name   string
	Style  numeral.Style
	Spec   string
	Single bool
}

// ParseField parses one field.
func ParseField(f Field, total int, mode Mode) (Set, error) {
	var (
		set Set
		err error
	)
	if f.Single {
		var (
			iv Interval
			ok bool
		)
		iv, ok, err = parseToken(f.Spec, total, f.Style, mode)
		if ok {
			set = Set{iv}
		}
	} else {
		set, err = Parse(f.Spec, total, f.Style, mode)
	}

	var te *TokenError
	if errors.As(err, &te) {
		te.Field = f.Name
	}
	return set, err
}

// ParseFields parses every field and concatenates the results in field order.
// A field that yields no intervals places no constraint.
func ParseFields(fields []Field, total int, mode Mode) (Set, error) {
	var all Set
	for _, f := range fields {
		set, err := ParseField(f, total, mode)
		if err != nil {
			return nil, err
		}
		all = append(all, set...)
	}
	return all, nil
}
