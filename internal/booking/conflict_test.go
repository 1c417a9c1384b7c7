package booking

import (
	"testing"

	"villabook/internal/core"
)

func stay(y1, m1, d1, y2, m2, d2 int) core.DateRange {
	return core.NewDateRange(core.NewDate(y1, m1, d1), core.NewDate(y2, m2, d2))
}

func TestOverlaps(t *testing.T) {
	a := stay(2024, 6, 10, 2024, 6, 13)

	cases := []struct {
		name string
		b    core.DateRange
		want bool
	}{
		{"same-day turnover after", stay(2024, 6, 13, 2024, 6, 15), false},
		{"same-day turnover before", stay(2024, 6, 8, 2024, 6, 10), false},
		{"fully covering", stay(2024, 6, 12, 2024, 6, 16), true},
		{"identical", stay(2024, 6, 10, 2024, 6, 13), true},
		{"inside", stay(2024, 6, 11, 2024, 6, 12), true},
		{"overlap one night at start", stay(2024, 6, 5, 2024, 6, 11), true},
		{"overlap one night at end", stay(2024, 6, 12, 2024, 6, 20), true},
		{"well before", stay(2024, 6, 1, 2024, 6, 5), false},
		{"well after", stay(2024, 6, 20, 2024, 6, 25), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(a, tc.b); got != tc.want {
				t.Errorf("Overlaps(a, b) = %v, want %v", got, tc.want)
			}
			if got := Overlaps(tc.b, a); got != tc.want {
				t.Errorf("Overlaps(b, a) = %v, want %v", got, tc.want)
			}
		})
	}
}

// Disjoint or merely touching ranges never overlap; ranges that mutually
// cut into each other always do.
func TestOverlapsHalfOpenProperty(t *testing.T) {
	base := core.NewDate(2024, 6, 1)
	for i := 0; i < 10; i++ {
		for j := i + 1; j < 12; j++ {
			for k := 0; k < 10; k++ {
				for l := k + 1; l < 12; l++ {
					a := core.NewDateRange(base.AddDays(i), base.AddDays(j))
					b := core.NewDateRange(base.AddDays(k), base.AddDays(l))
					want := i < l && j > k
					if got := Overlaps(a, b); got != want {
						t.Fatalf("Overlaps([%d,%d), [%d,%d)) = %v, want %v", i, j, k, l, got, want)
					}
				}
			}
		}
	}
}

func TestHasConflict(t *testing.T) {
	existing := []core.Booking{
		{ID: 1, GuestName: "Rossi", Range: stay(2024, 6, 10, 2024, 6, 13)},
		{ID: 2, GuestName: "Bianchi", Range: stay(2024, 6, 20, 2024, 6, 25)},
	}

	cases := []struct {
		name      string
		candidate core.Booking
		excludeID int64
		want      bool
	}{
		{"free gap", core.Booking{Range: stay(2024, 6, 13, 2024, 6, 20)}, 0, false},
		{"collides with first", core.Booking{Range: stay(2024, 6, 12, 2024, 6, 16)}, 0, true},
		{"collides with second", core.Booking{Range: stay(2024, 6, 24, 2024, 6, 28)}, 0, true},
		{"editing against itself", core.Booking{ID: 1, Range: stay(2024, 6, 9, 2024, 6, 13)}, 1, false},
		{"editing onto other booking", core.Booking{ID: 1, Range: stay(2024, 6, 19, 2024, 6, 22)}, 1, true},
		{"covers whole month", core.Booking{Range: stay(2024, 6, 1, 2024, 6, 30)}, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasConflict(tc.candidate, existing, tc.excludeID); got != tc.want {
				t.Errorf("HasConflict() = %v, want %v", got, tc.want)
			}
		})
	}

	if HasConflict(core.Booking{Range: stay(2024, 6, 1, 2024, 6, 30)}, nil, 0) {
		t.Error("no existing bookings can never conflict")
	}
}

func TestConflictsWith(t *testing.T) {
	existing := []core.Booking{
		{ID: 1, Range: stay(2024, 6, 10, 2024, 6, 13)},
		{ID: 2, Range: stay(2024, 6, 20, 2024, 6, 25)},
		{ID: 3, Range: stay(2024, 7, 1, 2024, 7, 5)},
	}
	candidate := core.Booking{Range: stay(2024, 6, 12, 2024, 6, 21)}

	got := ConflictsWith(candidate, existing, 0)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("ConflictsWith() = %v, want bookings 1 and 2", got)
	}
}
