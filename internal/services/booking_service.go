package services

import (
	"context"
	"fmt"
	"log/slog"

	"villabook/internal/booking"
	"villabook/internal/core"
)

// ConflictError reports that a candidate booking overlaps existing stays.
// It is a typed error rather than a boolean so the HTTP layer can show the
// operator exactly which bookings collide and let them adjust dates instead
// of failing opaquely.
type ConflictError struct {
	Conflicts []core.Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking conflicts with %d existing booking(s)", len(e.Conflicts))
}

// BookingService validates and persists bookings and notifies the ledger
// sync bus. The publisher may be nil (no AMQP configured); bookings then
// stay 'pending' until the worker's interval drain picks them up.
type BookingService struct {
	store     BookingStore
	publisher SyncPublisher
}

func NewBookingService(store BookingStore, publisher SyncPublisher) *BookingService {
	return &BookingService{store: store, publisher: publisher}
}

// Create validates the booking, checks it against every live stay, and
// persists it. A range collision returns *ConflictError and writes nothing.
func (s *BookingService) Create(ctx context.Context, b core.Booking) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}

	existing, err := s.store.ListBookings(ctx)
	if err != nil {
		return 0, fmt.Errorf("list bookings: %w", err)
	}
	if conflicts := booking.ConflictsWith(b, existing, 0); len(conflicts) > 0 {
		return 0, &ConflictError{Conflicts: conflicts}
	}

	id, err := s.store.CreateBooking(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("save booking: %w", err)
	}

	// Async ledger sync; a publish failure never rolls back the save.
	if err := s.publishSync(ctx, id, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish booking sync message",
			"id", id, "error", err)
	}

	return id, nil
}

// Update validates and persists changes to an existing booking. The booking
// is excluded from its own conflict check so date tweaks within the original
// span always pass.
func (s *BookingService) Update(ctx context.Context, b core.Booking) error {
	if err := b.Validate(); err != nil {
		return err
	}

	existing, err := s.store.ListBookings(ctx)
	if err != nil {
		return fmt.Errorf("list bookings: %w", err)
	}
	if conflicts := booking.ConflictsWith(b, existing, b.ID); len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}

	if err := s.store.UpdateBooking(ctx, b); err != nil {
		return fmt.Errorf("update booking: %w", err)
	}

	if err := s.publishSync(ctx, b.ID, 0); err != nil {
		slog.ErrorContext(ctx, "Failed to publish booking sync message",
			"id", b.ID, "error", err)
	}

	return nil
}

// Delete soft-deletes the booking and publishes the removal.
func (s *BookingService) Delete(ctx context.Context, id int64) error {
	if err := s.store.SoftDeleteBooking(ctx, id); err != nil {
		return fmt.Errorf("soft delete booking: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishBookingDelete(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish booking delete message",
				"id", id, "error", err)
		}
	}

	return nil
}

// Get returns a single live booking.
func (s *BookingService) Get(ctx context.Context, id int64) (core.Booking, error) {
	return s.store.GetBooking(ctx, id)
}

// List returns all live bookings ordered by check-in.
func (s *BookingService) List(ctx context.Context) ([]core.Booking, error) {
	return s.store.ListBookings(ctx)
}

func (s *BookingService) publishSync(ctx context.Context, id, version int64) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, skipping sync message", "id", id)
		return nil
	}
	return s.publisher.PublishBookingSync(ctx, id, version)
}
