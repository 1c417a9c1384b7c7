// Package report builds the monthly cash-flow series consumed by the
// dashboard, the chart endpoints and the CSV export.
package report

import "villabook/internal/core"

// Aggregate buckets bookings and expenses into one MonthBucket per calendar
// month of the window, from window.Start's month through window.End's month
// inclusive. Months with no activity still get a zero bucket, so the series
// is contiguous and chart axes never have holes.
//
// A booking lands wholly in the month of its check-in when the check-in day
// falls inside the window; multi-month stays are not apportioned. An expense
// lands in the month of its date. IsProjection is false on every bucket.
//
// An inverted window (Start after End) yields an empty series, not an error.
func Aggregate(bookings []core.Booking, expenses []core.Expense, window core.DateRange) []core.MonthBucket {
	if window.Start.After(window.End) {
		return []core.MonthBucket{}
	}

	first := core.MonthKeyOf(window.Start)
	last := core.MonthKeyOf(window.End)
	n := first.MonthsBetween(last) + 1

	buckets := make([]core.MonthBucket, n)
	index := make(map[core.MonthKey]int, n)
	key := first
	for i := 0; i < n; i++ {
		buckets[i] = core.MonthBucket{Month: key}
		index[key] = i
		key = key.Next()
	}

	inWindow := func(d core.Date) bool {
		return !d.Before(window.Start) && !d.After(window.End)
	}

	for _, b := range bookings {
		if !inWindow(b.Range.Start) {
			continue
		}
		buckets[index[core.MonthKeyOf(b.Range.Start)]].AddBooking(b)
	}
	for _, e := range expenses {
		if !inWindow(e.Date) {
			continue
		}
		buckets[index[core.MonthKeyOf(e.Date)]].AddExpense(e)
	}

	return buckets
}

// MonthWindow returns the inclusive day window spanning exactly the given
// calendar month.
func MonthWindow(key core.MonthKey) core.DateRange {
	start := core.NewDate(key.Year, key.Month, 1)
	next := key.Next()
	end := core.NewDate(next.Year, next.Month, 1).AddDays(-1)
	return core.NewDateRange(start, end)
}
