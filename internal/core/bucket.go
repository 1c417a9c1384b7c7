package core

// MonthBucket is the aggregated financial summary for one calendar month.
// Buckets are derived data: recomputed on every report request, never stored.
//
// Invariant: Paid = Revenue - Prepaid, with Revenue the sum of Amount over
// bookings checking in during the month.
type MonthBucket struct {
	Month         MonthKey
	Prepaid       Money
	Paid          Money
	Revenue       Money
	BookingsCount int
	Expenses      Money
	IsProjection  bool
}

// Merge folds another bucket for the same month into b.
func (b *MonthBucket) Merge(other MonthBucket) {
	b.Prepaid = b.Prepaid.Add(other.Prepaid)
	b.Paid = b.Paid.Add(other.Paid)
	b.Revenue = b.Revenue.Add(other.Revenue)
	b.BookingsCount += other.BookingsCount
	b.Expenses = b.Expenses.Add(other.Expenses)
}

// AddBooking attributes a booking to this bucket. The whole amount lands in
// the check-in month; multi-month stays are not apportioned.
func (b *MonthBucket) AddBooking(bk Booking) {
	b.Prepaid = b.Prepaid.Add(bk.Prepayment)
	b.Paid = b.Paid.Add(bk.Amount.Sub(bk.Prepayment))
	b.Revenue = b.Revenue.Add(bk.Amount)
	b.BookingsCount++
}

// AddExpense attributes an expense to this bucket.
func (b *MonthBucket) AddExpense(e Expense) {
	b.Expenses = b.Expenses.Add(e.Amount)
}
