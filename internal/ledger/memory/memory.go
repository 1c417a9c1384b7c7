// Package memory is the in-process ledger backend, used in tests and local
// runs where no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"villabook/internal/core"
)

type Store struct {
	mu       sync.Mutex
	bookings map[int64]core.Booking
	cashflow []core.MonthBucket
}

func New() *Store {
	return &Store{bookings: make(map[int64]core.Booking)}
}

// AppendBooking stores the booking under its ID and returns a synthetic row
// reference.
func (s *Store) AppendBooking(_ context.Context, id int64, b core.Booking) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[id] = b
	return fmt.Sprintf("mem:%d", id), nil
}

// DeleteBooking removes the row; deleting an absent row is a no-op.
func (s *Store) DeleteBooking(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bookings, id)
	return nil
}

// WriteCashFlow replaces the stored cash-flow series.
func (s *Store) WriteCashFlow(_ context.Context, buckets []core.MonthBucket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cashflow = append([]core.MonthBucket(nil), buckets...)
	return nil
}

// Bookings returns a copy of the mirrored booking rows.
func (s *Store) Bookings() map[int64]core.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]core.Booking, len(s.bookings))
	for k, v := range s.bookings {
		out[k] = v
	}
	return out
}

// CashFlow returns a copy of the last written cash-flow series.
func (s *Store) CashFlow() []core.MonthBucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.MonthBucket(nil), s.cashflow...)
}
