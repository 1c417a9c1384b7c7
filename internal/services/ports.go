// Package services orchestrates validation, conflict detection, pricing and
// persistence. Handlers call services; services call storage and the sync
// bus. All domain rules are enforced here before anything is written.
package services

import (
	"context"

	"villabook/internal/core"
	"villabook/internal/storage"
)

type (
	// BookingStore is the slice of the repository the booking service needs.
	BookingStore interface {
		CreateBooking(ctx context.Context, b core.Booking) (int64, error)
		UpdateBooking(ctx context.Context, b core.Booking) error
		SoftDeleteBooking(ctx context.Context, id int64) error
		GetBooking(ctx context.Context, id int64) (core.Booking, error)
		ListBookings(ctx context.Context) ([]core.Booking, error)
	}

	// RuleStore persists seasonal rules.
	RuleStore interface {
		CreateSeasonalRule(ctx context.Context, sr core.SeasonalRule) (int64, error)
		UpdateSeasonalRule(ctx context.Context, sr core.SeasonalRule) error
		DeleteSeasonalRule(ctx context.Context, id int64) error
		ListSeasonalRules(ctx context.Context) ([]core.SeasonalRule, error)
	}

	// FinanceStore reads the windows the report service aggregates over and
	// persists expenses.
	FinanceStore interface {
		ListBookingsCheckInBetween(ctx context.Context, from, to core.Date) ([]core.Booking, error)
		ListExpensesBetween(ctx context.Context, from, to core.Date) ([]core.Expense, error)
		CreateExpense(ctx context.Context, e core.Expense) (int64, error)
		DeleteExpense(ctx context.Context, id int64) error
	}

	// SyncPublisher pushes booking change notifications onto the ledger sync
	// bus.
	SyncPublisher interface {
		PublishBookingSync(ctx context.Context, id, version int64) error
		PublishBookingDelete(ctx context.Context, id int64) error
	}
)

// Compile-time check: the SQLite repository satisfies every store port.
var (
	_ BookingStore = (*storage.SQLiteRepository)(nil)
	_ RuleStore    = (*storage.SQLiteRepository)(nil)
	_ FinanceStore = (*storage.SQLiteRepository)(nil)
)
