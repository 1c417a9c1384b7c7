// Package ledger defines the outbound ports for the owner's bookkeeping
// ledger, an external spreadsheet the worker mirrors bookings and cash-flow
// reports into.
package ledger

import (
	"context"

	"villabook/internal/core"
)

type (
	// BookingWriter mirrors a booking row into the ledger. id is the
	// database ID, used as the stable row key so edits overwrite.
	BookingWriter interface {
		AppendBooking(ctx context.Context, id int64, b core.Booking) (rowRef string, err error)
	}

	// BookingDeleter removes a booking row from the ledger.
	BookingDeleter interface {
		DeleteBooking(ctx context.Context, id int64) error
	}

	// CashFlowWriter replaces the ledger's cash-flow tab with the given
	// bucket series.
	CashFlowWriter interface {
		WriteCashFlow(ctx context.Context, buckets []core.MonthBucket) error
	}
)
