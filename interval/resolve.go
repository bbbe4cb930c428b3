package interval

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/lvillar/pdfnumber/numeral"
)

// ErrOverlap matches every *OverlapError.
var ErrOverlap = errors.New("interval: overlapping pages")

// OverlapError reports a page claimed by two intervals.
type OverlapError struct {
	Page   int
	First  Interval
	Second Interval
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("interval: page %d claimed by %s and %s", e.Page, e.First, e.Second)
}

func (e *OverlapError) Is(target error) bool {
	return target == ErrOverlap
}

// Validate fails with an *OverlapError if any page belongs to more than one
// interval of the set, whatever their styles. The reported page is the
// lowest page claimed twice.
func (s Set) Validate() error {
	if len(s) < 2 {
		return nil
	}
	sorted := slices.Clone(s)
	sortByStart(sorted)

	reach := sorted[0] // interval with the largest End seen so far
	for _, iv := range sorted[1:] {
		if iv.Start <= reach.End {
			return &OverlapError{Page: iv.Start, First: reach, Second: iv}
		}
		if iv.End > reach.End {
			reach = iv
		}
	}
	return nil
}

// Label is the numbering label computed for one page.
type Label struct {
	Page     int
	Text     string
	Style    numeral.Style
	Interval Interval
	Offset   int // 1-based position of Page within Interval
}

// Resolver answers per-page label queries over a validated set.
//
// Roman intervals are consulted before Arabic ones, and among candidates of
// one style the interval with the smallest start wins. Because a resolver is
// only built from a set without overlaps, at most one interval can match a
// page and the order never changes the result.
type Resolver struct {
	roman  []Interval
	arabic []Interval
}

// NewResolver validates set and indexes it for lookup. The set is copied.
func NewResolver(set Set) (*Resolver, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	r := &Resolver{}
	for _, iv := range set {
		switch iv.Style {
		case numeral.Roman:
			r.roman = append(r.roman, iv)
		case numeral.Arabic:
			r.arabic = append(r.arabic, iv)
		default:
			return nil, fmt.Errorf("interval: %s: unsupported style", iv)
		}
	}
	sortByStart(r.roman)
	sortByStart(r.arabic)
	return r, nil
}

// Empty reports whether the resolver holds no intervals. A nil resolver is empty.
func (r *Resolver) Empty() bool {
	return r == nil || len(r.roman) == 0 && len(r.arabic) == 0
}

// Resolve returns the label of page p, or false when no interval governs it.
func (r *Resolver) Resolve(p int) (Label, bool) {
	for _, ivs := range [][]Interval{r.roman, r.arabic} {
		iv, ok := lookup(ivs, p)
		if !ok {
			continue
		}
		offset := p - iv.Start + 1
		text, err := numeral.Format(iv.Style, offset)
		if err != nil {
			// offset >= 1 whenever iv contains p
			panic(err)
		}
		return Label{Page: p, Text: text, Style: iv.Style, Interval: iv, Offset: offset}, true
	}
	return Label{}, false
}

// Labels returns the labels of pages 1..total that have one, in page order.
func (r *Resolver) Labels(total int) []Label {
	var labels []Label
	for p := 1; p <= total; p++ {
		if l, ok := r.Resolve(p); ok {
			labels = append(labels, l)
		}
	}
	return labels
}

// lookup finds the interval containing p in ivs, which is sorted by Start and
// free of overlaps.
func lookup(ivs []Interval, p int) (Interval, bool) {
	// first interval starting after p; its predecessor is the only candidate
	i := sort.Search(len(ivs), func(i int) bool { return ivs[i].Start > p })
	if i == 0 {
		return Interval{}, false
	}
	if iv := ivs[i-1]; iv.Contains(p) {
		return iv, true
	}
	return Interval{}, false
}

func sortByStart(ivs []Interval) {
	sort.SliceStable(ivs, func(i, j int) bool {
		if ivs[i].Start != ivs[j].Start {
			return ivs[i].Start < ivs[j].Start
		}
		return ivs[i].End < ivs[j].End
	})
}
