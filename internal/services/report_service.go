package services

import (
	"context"
	"fmt"

	"villabook/internal/core"
	"villabook/internal/report"
)

// ReportService produces the monthly cash-flow series for a reporting
// window, optionally extended with projection buckets fed from bookings and
// expenses already on record with future dates.
type ReportService struct {
	store FinanceStore
}

func NewReportService(store FinanceStore) *ReportService {
	return &ReportService{store: store}
}

// CashFlow aggregates the window and appends horizonMonths projection
// buckets. An inverted window yields an empty series; a zero or negative
// horizon skips the projection step.
func (s *ReportService) CashFlow(ctx context.Context, window core.DateRange, horizonMonths int) ([]core.MonthBucket, error) {
	if window.Start.After(window.End) {
		return []core.MonthBucket{}, nil
	}

	bookings, err := s.store.ListBookingsCheckInBetween(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	expenses, err := s.store.ListExpensesBetween(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	buckets := report.Aggregate(bookings, expenses, window)

	extended, err := report.Extend(ctx, buckets, horizonMonths, storeBucketSource{store: s.store})
	if err != nil {
		return nil, err
	}
	return extended, nil
}

// AddExpense validates and persists an expense.
func (s *ReportService) AddExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}
	return id, nil
}

// RemoveExpense deletes an expense; absent IDs are a no-op.
func (s *ReportService) RemoveExpense(ctx context.Context, id int64) error {
	return s.store.DeleteExpense(ctx, id)
}

// ListExpenses returns expenses dated inside the inclusive window.
func (s *ReportService) ListExpenses(ctx context.Context, from, to core.Date) ([]core.Expense, error) {
	return s.store.ListExpensesBetween(ctx, from, to)
}

// storeBucketSource is the storage-backed report.ForwardBucketSource: each
// projected month loads exactly that month's records and re-runs the same
// aggregation. Future months therefore show known future actuals, not a
// statistical forecast.
type storeBucketSource struct {
	store FinanceStore
}

func (s storeBucketSource) BucketFor(ctx context.Context, month core.MonthKey) (core.MonthBucket, error) {
	window := report.MonthWindow(month)
	bookings, err := s.store.ListBookingsCheckInBetween(ctx, window.Start, window.End)
	if err != nil {
		return core.MonthBucket{}, fmt.Errorf("load bookings: %w", err)
	}
	expenses, err := s.store.ListExpensesBetween(ctx, window.Start, window.End)
	if err != nil {
		return core.MonthBucket{}, fmt.Errorf("load expenses: %w", err)
	}
	buckets := report.Aggregate(bookings, expenses, window)
	if len(buckets) == 0 {
		return core.MonthBucket{Month: month}, nil
	}
	return buckets[0], nil
}
