package pdfnumber

import (
	"fmt"
	"strings"

	"github.com/lvillar/pdfnumber/interval"
	"github.com/lvillar/pdfnumber/pageops"
)

// Layout selects which range fields a request carries. Both layouts feed the
// same parser.
type Layout int

const (
	// LayoutCombined takes one Roman and one Arabic field, each a
	// comma-separated list of ranges.
	LayoutCombined Layout = iota
	// LayoutSplit takes up to two Roman fields and one Arabic field, each
	// holding exactly one range.
	LayoutSplit
)

func (l Layout) String() string {
	if l == LayoutSplit {
		return "split"
	}
	return "combined"
}

// ParseLayout converts "combined" or "split" to a Layout. An empty string is
// LayoutCombined.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "combined":
		return LayoutCombined, nil
	case "split":
		return LayoutSplit, nil
	default:
		return LayoutCombined, fmt.Errorf("%w: unknown layout %q", ErrInvalidParam, s)
	}
}

// RomanFields returns how many Roman fields the layout accepts.
func (l Layout) RomanFields() int {
	if l == LayoutSplit {
		return 2
	}
	return 1
}

// Option is a functional option for Plan and Number.
type Option func(*config)

type config struct {
	layout  Layout
	mode    interval.Mode
	overlay []pageops.Option
}

func newConfig(opts []Option) *config {
	cfg := &config{layout: LayoutCombined, mode: interval.Lenient}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLayout sets the field layout (default: LayoutCombined).
func WithLayout(l Layout) Option {
	return func(c *config) {
		c.layout = l
	}
}

// WithMode sets the parsing mode (default: interval.Lenient).
func WithMode(m interval.Mode) Option {
	return func(c *config) {
		c.mode = m
	}
}

// WithFont sets the label font. See pageops.WithFont.
func WithFont(family, style string, size float64) Option {
	return func(c *config) {
		c.overlay = append(c.overlay, pageops.WithFont(family, style, size))
	}
}

// WithAnchor moves the label, in points from the bottom-left page corner.
func WithAnchor(x, y float64) Option {
	return func(c *config) {
		c.overlay = append(c.overlay, pageops.WithAnchor(x, y))
	}
}
