package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"villabook/internal/core"
)

func booking(id int64, checkIn, checkOut core.Date, amount, prepaid int64) core.Booking {
	return core.Booking{
		ID:         id,
		Range:      core.NewDateRange(checkIn, checkOut),
		GuestName:  "guest",
		Amount:     core.Money{Cents: amount},
		Prepayment: core.Money{Cents: prepaid},
	}
}

func expense(id int64, date core.Date, amount int64) core.Expense {
	return core.Expense{
		ID:       id,
		Date:     date,
		Category: "Utilities",
		Amount:   core.Money{Cents: amount},
	}
}

func TestAggregateContiguousSeries(t *testing.T) {
	window := core.NewDateRange(core.NewDate(2024, 4, 15), core.NewDate(2024, 6, 10))

	buckets := Aggregate(nil, nil, window)

	require.Len(t, buckets, 3, "one bucket per calendar month in the window")
	assert.Equal(t, core.MonthKey{Year: 2024, Month: 4}, buckets[0].Month)
	assert.Equal(t, core.MonthKey{Year: 2024, Month: 5}, buckets[1].Month)
	assert.Equal(t, core.MonthKey{Year: 2024, Month: 6}, buckets[2].Month)
	for _, b := range buckets {
		assert.Zero(t, b.Revenue.Cents)
		assert.Zero(t, b.Prepaid.Cents)
		assert.Zero(t, b.Paid.Cents)
		assert.Zero(t, b.Expenses.Cents)
		assert.Zero(t, b.BookingsCount)
		assert.False(t, b.IsProjection)
	}
}

func TestAggregateAttributesByCheckInMonth(t *testing.T) {
	window := core.NewDateRange(core.NewDate(2024, 6, 1), core.NewDate(2024, 8, 31))
	bookings := []core.Booking{
		booking(1, core.NewDate(2024, 6, 10), core.NewDate(2024, 6, 13), 30000, 10000),
		// checks in June, checks out July: whole amount stays in June
		booking(2, core.NewDate(2024, 6, 28), core.NewDate(2024, 7, 3), 50000, 50000),
		booking(3, core.NewDate(2024, 8, 1), core.NewDate(2024, 8, 8), 70000, 0),
		// outside the window entirely
		booking(4, core.NewDate(2024, 9, 1), core.NewDate(2024, 9, 5), 99999, 0),
	}
	expenses := []core.Expense{
		expense(1, core.NewDate(2024, 7, 15), 4000),
		expense(2, core.NewDate(2024, 7, 20), 1500),
		expense(3, core.NewDate(2024, 5, 31), 12345), // before the window
	}

	buckets := Aggregate(bookings, expenses, window)
	require.Len(t, buckets, 3)

	june, july, august := buckets[0], buckets[1], buckets[2]

	assert.Equal(t, 2, june.BookingsCount)
	assert.Equal(t, int64(80000), june.Revenue.Cents)
	assert.Equal(t, int64(60000), june.Prepaid.Cents)
	assert.Equal(t, int64(20000), june.Paid.Cents)
	assert.Zero(t, june.Expenses.Cents)

	assert.Zero(t, july.BookingsCount, "check-out month gets nothing")
	assert.Zero(t, july.Revenue.Cents)
	assert.Equal(t, int64(5500), july.Expenses.Cents)

	assert.Equal(t, 1, august.BookingsCount)
	assert.Equal(t, int64(70000), august.Revenue.Cents)
	assert.Equal(t, int64(70000), august.Paid.Cents)
}

// The series total must equal the sum of amounts over exactly the bookings
// whose check-in lies in the window.
func TestAggregateRevenueConservation(t *testing.T) {
	window := core.NewDateRange(core.NewDate(2024, 1, 1), core.NewDate(2024, 12, 31))
	var want int64
	var bookings []core.Booking
	for i := 0; i < 24; i++ {
		checkIn := core.NewDate(2024, 1, 5).AddDays(i * 20)
		b := booking(int64(i+1), checkIn, checkIn.AddDays(4), int64(1000*(i+1)), 0)
		bookings = append(bookings, b)
		if !checkIn.Before(window.Start) && !checkIn.After(window.End) {
			want += b.Amount.Cents
		}
	}

	var got int64
	for _, bucket := range Aggregate(bookings, nil, window) {
		got += bucket.Revenue.Cents
	}
	assert.Equal(t, want, got)
}

func TestAggregateInvertedWindow(t *testing.T) {
	window := core.NewDateRange(core.NewDate(2024, 6, 1), core.NewDate(2024, 5, 1))
	buckets := Aggregate([]core.Booking{
		booking(1, core.NewDate(2024, 5, 10), core.NewDate(2024, 5, 12), 1000, 0),
	}, nil, window)
	assert.Empty(t, buckets)
	assert.NotNil(t, buckets)
}

func TestAggregateWindowBoundaryDays(t *testing.T) {
	window := core.NewDateRange(core.NewDate(2024, 6, 10), core.NewDate(2024, 6, 20))
	bookings := []core.Booking{
		booking(1, core.NewDate(2024, 6, 10), core.NewDate(2024, 6, 12), 1000, 0), // first window day
		booking(2, core.NewDate(2024, 6, 20), core.NewDate(2024, 6, 25), 2000, 0), // last window day
		booking(3, core.NewDate(2024, 6, 9), core.NewDate(2024, 6, 15), 4000, 0),  // day before
		booking(4, core.NewDate(2024, 6, 21), core.NewDate(2024, 6, 25), 8000, 0), // day after
	}

	buckets := Aggregate(bookings, nil, window)
	require.Len(t, buckets, 1)
	assert.Equal(t, int64(3000), buckets[0].Revenue.Cents)
	assert.Equal(t, 2, buckets[0].BookingsCount)
}

func TestMonthWindow(t *testing.T) {
	w := MonthWindow(core.MonthKey{Year: 2024, Month: 2})
	assert.Equal(t, core.NewDate(2024, 2, 1), w.Start)
	assert.Equal(t, core.NewDate(2024, 2, 29), w.End, "2024 is a leap year")

	w = MonthWindow(core.MonthKey{Year: 2024, Month: 12})
	assert.Equal(t, core.NewDate(2024, 12, 31), w.End)
}
