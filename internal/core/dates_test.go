package core

import (
	"testing"
	"time"
)

func TestDateRangeValidate(t *testing.T) {
	cases := []struct {
		name string
		r    DateRange
		want error
	}{
		{"valid one night", NewDateRange(NewDate(2024, 6, 10), NewDate(2024, 6, 11)), nil},
		{"valid long stay", NewDateRange(NewDate(2024, 6, 1), NewDate(2024, 7, 15)), nil},
		{"end equals start", NewDateRange(NewDate(2024, 6, 10), NewDate(2024, 6, 10)), ErrInvalidRange},
		{"end before start", NewDateRange(NewDate(2024, 6, 10), NewDate(2024, 6, 5)), ErrInvalidRange},
		{"zero start", DateRange{End: NewDate(2024, 6, 10)}, ErrZeroDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.Validate(); got != tc.want {
				t.Errorf("Validate() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDateRangeNights(t *testing.T) {
	cases := []struct {
		name string
		r    DateRange
		want int
	}{
		{"three nights", NewDateRange(NewDate(2024, 6, 10), NewDate(2024, 6, 13)), 3},
		{"one night", NewDateRange(NewDate(2024, 6, 10), NewDate(2024, 6, 11)), 1},
		{"zero length", NewDateRange(NewDate(2024, 6, 10), NewDate(2024, 6, 10)), 0},
		{"inverted", NewDateRange(NewDate(2024, 6, 13), NewDate(2024, 6, 10)), 0},
		{"across month end", NewDateRange(NewDate(2024, 6, 29), NewDate(2024, 7, 2)), 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.Nights(); got != tc.want {
				t.Errorf("Nights() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDateRangeContainsNight(t *testing.T) {
	stay := NewDateRange(NewDate(2024, 6, 10), NewDate(2024, 6, 13))

	if !stay.ContainsNight(NewDate(2024, 6, 10)) {
		t.Error("check-in night must be billed")
	}
	if !stay.ContainsNight(NewDate(2024, 6, 12)) {
		t.Error("middle night must be billed")
	}
	if stay.ContainsNight(NewDate(2024, 6, 13)) {
		t.Error("checkout day must not be billed")
	}
	if stay.ContainsNight(NewDate(2024, 6, 9)) {
		t.Error("night before check-in must not be billed")
	}
}

func TestDateRangeContainsDay(t *testing.T) {
	season := NewDateRange(NewDate(2024, 6, 1), NewDate(2024, 6, 30))

	if !season.ContainsDay(NewDate(2024, 6, 1)) || !season.ContainsDay(NewDate(2024, 6, 30)) {
		t.Error("inclusive range must cover both boundary days")
	}
	if season.ContainsDay(NewDate(2024, 5, 31)) || season.ContainsDay(NewDate(2024, 7, 1)) {
		t.Error("inclusive range must not leak outside its bounds")
	}
}

func TestDateRangeIntersectsInclusive(t *testing.T) {
	base := NewDateRange(NewDate(2024, 7, 1), NewDate(2024, 7, 10))
	cases := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"overlapping tail", NewDateRange(NewDate(2024, 7, 5), NewDate(2024, 7, 15)), true},
		{"touching end day", NewDateRange(NewDate(2024, 7, 10), NewDate(2024, 7, 20)), true},
		{"fully inside", NewDateRange(NewDate(2024, 7, 3), NewDate(2024, 7, 4)), true},
		{"fully covering", NewDateRange(NewDate(2024, 6, 1), NewDate(2024, 8, 1)), true},
		{"day after", NewDateRange(NewDate(2024, 7, 11), NewDate(2024, 7, 20)), false},
		{"day before", NewDateRange(NewDate(2024, 6, 20), NewDate(2024, 6, 30)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.IntersectsInclusive(tc.other); got != tc.want {
				t.Errorf("IntersectsInclusive() = %v, want %v", got, tc.want)
			}
			// symmetric
			if got := tc.other.IntersectsInclusive(base); got != tc.want {
				t.Errorf("IntersectsInclusive() reversed = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMonthKey(t *testing.T) {
	june := MonthKey{Year: 2024, Month: 6}

	if got := june.Next(); got != (MonthKey{Year: 2024, Month: 7}) {
		t.Errorf("Next() = %v", got)
	}
	dec := MonthKey{Year: 2024, Month: 12}
	if got := dec.Next(); got != (MonthKey{Year: 2025, Month: 1}) {
		t.Errorf("Next() across year = %v", got)
	}
	if got := june.String(); got != "2024-06" {
		t.Errorf("String() = %q", got)
	}
	if got := june.MonthsBetween(MonthKey{Year: 2025, Month: 2}); got != 8 {
		t.Errorf("MonthsBetween() = %d, want 8", got)
	}
	if june.Compare(dec) != -1 || dec.Compare(june) != 1 || june.Compare(june) != 0 {
		t.Error("Compare() ordering wrong")
	}
	if got := MonthKeyOf(NewDate(2024, 6, 15)); got != june {
		t.Errorf("MonthKeyOf() = %v", got)
	}
}

func TestDateWeekday(t *testing.T) {
	// 2024-06-10 is a Monday
	if got := NewDate(2024, 6, 10).Weekday(); got != time.Monday {
		t.Errorf("Weekday() = %v, want Monday", got)
	}
	if got := NewDate(2024, 6, 9).Weekday(); got != time.Sunday {
		t.Errorf("Weekday() = %v, want Sunday", got)
	}
}
