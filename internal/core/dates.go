package core

import (
	"fmt"
	"time"
)

type (
	// Date is a calendar day, normalized to UTC midnight. All booking and
	// pricing logic works on whole days; clock time never participates.
	Date struct {
		time.Time
	}

	// MonthKey identifies one calendar month. Keys order chronologically.
	MonthKey struct {
		Year  int
		Month int // 1-12
	}

	// DateRange is a pair of dates. Whether the bounds are half-open
	// ([Start, End), bookings) or inclusive ([Start, End], seasonal rules)
	// depends on the owning entity; the helpers below make the choice explicit.
	DateRange struct {
		Start Date
		End   Date
	}
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal reports whether d and other are the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// Weekday returns the day of week, Sunday=0 through Saturday=6.
func (d Date) Weekday() time.Weekday {
	return d.Time.Weekday()
}

// MonthKeyOf returns the calendar month the date falls in.
func MonthKeyOf(d Date) MonthKey {
	return MonthKey{Year: d.Year(), Month: int(d.Time.Month())}
}

// Next returns the following calendar month, rolling over at December.
func (k MonthKey) Next() MonthKey {
	if k.Month == 12 {
		return MonthKey{Year: k.Year + 1, Month: 1}
	}
	return MonthKey{Year: k.Year, Month: k.Month + 1}
}

// Compare returns -1, 0 or +1 ordering k against other chronologically.
func (k MonthKey) Compare(other MonthKey) int {
	a := k.Year*12 + k.Month
	b := other.Year*12 + other.Month
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String formats the key as "2006-01", the form used in reports and exports.
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

// MonthsBetween returns the number of month steps from k to other.
// Zero for the same month, negative when other precedes k.
func (k MonthKey) MonthsBetween(other MonthKey) int {
	return (other.Year*12 + other.Month) - (k.Year*12 + k.Month)
}

// NewDateRange builds a range without validating it.
func NewDateRange(start, end Date) DateRange {
	return DateRange{Start: start, End: end}
}

// Validate fails with ErrInvalidRange unless End is strictly after Start.
// Both booking stays and seasonal rules require a positive-length range.
func (r DateRange) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return err
	}
	if err := r.End.Validate(); err != nil {
		return err
	}
	if !r.End.After(r.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Nights returns the number of nights in the half-open stay [Start, End).
// Zero or negative-length ranges have no nights.
func (r DateRange) Nights() int {
	n := int(r.End.Time.Sub(r.Start.Time).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// ContainsNight reports whether the given night belongs to the half-open
// stay [Start, End). The checkout day itself is not a billed night.
func (r DateRange) ContainsNight(d Date) bool {
	return !d.Before(r.Start) && d.Before(r.End)
}

// ContainsDay reports whether d falls inside the inclusive interval
// [Start, End]. Seasonal rules cover both boundary days.
func (r DateRange) ContainsDay(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// IntersectsInclusive reports whether two inclusive intervals share at least
// one day. Used for the seasonal-rule overlap invariant.
func (r DateRange) IntersectsInclusive(other DateRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}
