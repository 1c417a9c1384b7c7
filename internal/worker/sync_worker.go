// Package worker mirrors booking changes from SQLite into the owner's
// external ledger. It consumes sync messages from AMQP and also drains the
// pending queue on an interval, so rows survive lost messages and downtime.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"villabook/internal/amqp"
	"villabook/internal/core"
	"villabook/internal/ledger"
	"villabook/internal/storage"
)

// SyncWorker pushes booking rows into the ledger and tracks sync state in
// the repository. The deleter may be nil when the ledger backend cannot
// remove rows.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	writer    ledger.BookingWriter
	deleter   ledger.BookingDeleter
	batchSize int
}

func NewSyncWorker(repo *storage.SQLiteRepository, writer ledger.BookingWriter, deleter ledger.BookingDeleter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   repo,
		writer:    writer,
		deleter:   deleter,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single booking sync message from AMQP.
// Returned errors cause a nack-with-requeue, so they must be retryable.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.BookingSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version,
		"deleted", msg.Deleted)

	if msg.Deleted {
		return w.removeFromLedger(ctx, msg.ID)
	}

	booking, deleted, err := w.storage.GetBookingIncludingDeleted(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get booking from storage: %w", err)
	}
	// The booking may have been deleted between publish and consume.
	if deleted {
		return w.removeFromLedger(ctx, msg.ID)
	}

	return w.syncToLedger(ctx, msg.ID, booking)
}

// ProcessPendingBookings drains bookings that never made it to the ledger.
// This is the backup path for lost AMQP messages.
func (w *SyncWorker) ProcessPendingBookings(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncBookings(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending bookings: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending bookings", "count", len(pending))

	for _, p := range pending {
		if err := w.syncPending(ctx, p); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending booking", "id", p.ID, "error", err)
		}
	}

	return nil
}

// StartupSyncCheck drains a larger pending batch once at worker startup to
// recover from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncBookings(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending bookings for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending bookings found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending bookings on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, p := range pending {
		if err := w.syncPending(ctx, p); err != nil {
			slog.ErrorContext(ctx, "Failed to sync booking during startup", "id", p.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) syncPending(ctx context.Context, p storage.PendingSyncBooking) error {
	if p.Deleted {
		return w.removeFromLedger(ctx, p.ID)
	}

	booking, deleted, err := w.storage.GetBookingIncludingDeleted(ctx, p.ID)
	if err != nil {
		if markErr := w.storage.MarkBookingSyncError(ctx, p.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", markErr)
		}
		return fmt.Errorf("get booking: %w", err)
	}
	if deleted {
		return w.removeFromLedger(ctx, p.ID)
	}
	return w.syncToLedger(ctx, p.ID, booking)
}

func (w *SyncWorker) syncToLedger(ctx context.Context, id int64, booking core.Booking) error {
	ref, err := w.writer.AppendBooking(ctx, id, booking)
	if err != nil {
		if markErr := w.storage.MarkBookingSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append booking to ledger: %w", err)
	}

	if err := w.storage.MarkBookingSynced(ctx, id); err != nil {
		// The ledger write succeeded; the row will be retried but the
		// append is idempotent by ID.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced booking",
		"id", id,
		"ledger_ref", ref,
		"guest", booking.GuestName,
		"check_in", booking.Range.Start.Format("2006-01-02"))

	return nil
}

func (w *SyncWorker) removeFromLedger(ctx context.Context, id int64) error {
	if w.deleter == nil {
		slog.WarnContext(ctx, "No ledger deleter configured, skipping removal", "id", id)
		if err := w.storage.MarkBookingSynced(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
		}
		return nil
	}

	if err := w.deleter.DeleteBooking(ctx, id); err != nil {
		if markErr := w.storage.MarkBookingSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("delete booking from ledger: %w", err)
	}

	if err := w.storage.MarkBookingSynced(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Successfully removed booking from ledger", "id", id)
	return nil
}
