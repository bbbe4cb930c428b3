package interval

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lvillar/pdfnumber/numeral"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		set      Set
		wantPage int // 0 means valid
	}{
		{"empty", nil, 0},
		{"single", Set{roman(1, 5)}, 0},
		{"adjacent", Set{roman(1, 5), arabic(6, 10)}, 0},
		{"roman and arabic overlap", Set{roman(1, 5), arabic(3, 8)}, 3},
		{"same style overlap", Set{arabic(10, 12), arabic(1, 4), arabic(4, 6)}, 4},
		{"duplicate", Set{roman(2, 2), roman(2, 2)}, 2},
		{"nested", Set{arabic(1, 10), roman(4, 5)}, 4},
		{"overlap after long interval", Set{arabic(1, 20), roman(21, 22), roman(15, 16)}, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if tt.wantPage == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrOverlap) {
				t.Fatalf("expected ErrOverlap, got %v", err)
			}
			var oe *OverlapError
			if !errors.As(err, &oe) {
				t.Fatalf("expected *OverlapError, got %T", err)
			}
			if oe.Page != tt.wantPage {
				t.Errorf("overlap page = %d, want %d", oe.Page, tt.wantPage)
			}
		})
	}
}

func TestNewResolverRejectsOverlap(t *testing.T) {
	r, err := NewResolver(Set{roman(1, 5), arabic(3, 8)})
	if !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
	if r != nil {
		t.Fatal("resolver returned for overlapping set")
	}
}

func TestResolveMixedStyles(t *testing.T) {
	r, err := NewResolver(Set{roman(1, 5), arabic(6, 10)})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"I", "II", "III", "IV", "V", "1", "2", "3", "4", "5"}
	var got []string
	for p := 1; p <= 10; p++ {
		l, ok := r.Resolve(p)
		if !ok {
			t.Fatalf("page %d has no label", p)
		}
		got = append(got, l.Text)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveRestartsPerInterval(t *testing.T) {
	r, err := NewResolver(Set{roman(11, 15), roman(1, 5), arabic(7, 8)})
	if err != nil {
		t.Fatal(err)
	}

	got := r.Labels(20)
	want := []Label{
		{Page: 1, Text: "I", Style: numeral.Roman, Interval: roman(1, 5), Offset: 1},
		{Page: 2, Text: "II", Style: numeral.Roman, Interval: roman(1, 5), Offset: 2},
		{Page: 3, Text: "III", Style: numeral.Roman, Interval: roman(1, 5), Offset: 3},
		{Page: 4, Text: "IV", Style: numeral.Roman, Interval: roman(1, 5), Offset: 4},
		{Page: 5, Text: "V", Style: numeral.Roman, Interval: roman(1, 5), Offset: 5},
		{Page: 7, Text: "1", Style: numeral.Arabic, Interval: arabic(7, 8), Offset: 1},
		{Page: 8, Text: "2", Style: numeral.Arabic, Interval: arabic(7, 8), Offset: 2},
		{Page: 11, Text: "I", Style: numeral.Roman, Interval: roman(11, 15), Offset: 1},
		{Page: 12, Text: "II", Style: numeral.Roman, Interval: roman(11, 15), Offset: 2},
		{Page: 13, Text: "III", Style: numeral.Roman, Interval: roman(11, 15), Offset: 3},
		{Page: 14, Text: "IV", Style: numeral.Roman, Interval: roman(11, 15), Offset: 4},
		{Page: 15, Text: "V", Style: numeral.Roman, Interval: roman(11, 15), Offset: 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	if _, ok := r.Resolve(6); ok {
		t.Error("page 6 should have no label")
	}
	if _, ok := r.Resolve(0); ok {
		t.Error("page 0 should have no label")
	}
}

func TestResolverEmpty(t *testing.T) {
	r, err := NewResolver(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Empty() {
		t.Error("expected empty resolver")
	}
	if labels := r.Labels(5); len(labels) != 0 {
		t.Errorf("expected no labels, got %v", labels)
	}
}

// scanText computes a page label by scanning every interval, preferring
// Roman over Arabic and the smallest start within a style.
func scanText(set Set, p int) string {
	for _, style := range []numeral.Style{numeral.Roman, numeral.Arabic} {
		start := 0
		for _, iv := range set {
			if iv.Style == style && iv.Contains(p) && (start == 0 || iv.Start < start) {
				start = iv.Start
			}
		}
		if start != 0 {
			text, _ := numeral.Format(style, p-start+1)
			return text
		}
	}
	return ""
}

func TestResolverMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 200; round++ {
		total := 1 + rng.Intn(60)

		// carve random disjoint intervals out of 1..total
		var set Set
		for p := 1; p <= total; {
			n := 1 + rng.Intn(8)
			end := min(p+n-1, total)
			if rng.Intn(3) > 0 {
				style := numeral.Roman
				if rng.Intn(2) == 0 {
					style = numeral.Arabic
				}
				set = append(set, Interval{Start: p, End: end, Style: style})
			}
			p = end + 1 + rng.Intn(3)
		}
		rng.Shuffle(len(set), func(i, j int) { set[i], set[j] = set[j], set[i] })

		r, err := NewResolver(set)
		if err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		for p := 1; p <= total; p++ {
			l, _ := r.Resolve(p)
			if want := scanText(set, p); l.Text != want {
				t.Fatalf("round %d page %d: got %q, want %q (set %v)", round, p, l.Text, want, set)
			}
		}
	}
}
