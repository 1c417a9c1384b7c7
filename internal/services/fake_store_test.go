package services

import (
	"context"
	"sort"
	"sync"

	"villabook/internal/core"
	"villabook/internal/storage"
)

// fakeStore is an in-memory stand-in for the SQLite repository, covering
// every store port the services use.
type fakeStore struct {
	mu       sync.Mutex
	bookings map[int64]core.Booking
	rules    map[int64]core.SeasonalRule
	expenses map[int64]core.Expense
	nextID   int64

	failListBookings error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings: make(map[int64]core.Booking),
		rules:    make(map[int64]core.SeasonalRule),
		expenses: make(map[int64]core.Expense),
		nextID:   1,
	}
}

func (f *fakeStore) CreateBooking(_ context.Context, b core.Booking) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = f.nextID
	f.nextID++
	f.bookings[b.ID] = b
	return b.ID, nil
}

func (f *fakeStore) UpdateBooking(_ context.Context, b core.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[b.ID]; !ok {
		return storage.ErrNotFound
	}
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeStore) SoftDeleteBooking(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeStore) GetBooking(_ context.Context, id int64) (core.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return core.Booking{}, storage.ErrNotFound
	}
	return b, nil
}

func (f *fakeStore) ListBookings(_ context.Context) ([]core.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failListBookings != nil {
		return nil, f.failListBookings
	}
	out := make([]core.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Range.Start.Before(out[j].Range.Start) })
	return out, nil
}

func (f *fakeStore) ListBookingsCheckInBetween(ctx context.Context, from, to core.Date) ([]core.Booking, error) {
	all, err := f.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Booking
	for _, b := range all {
		if !b.Range.Start.Before(from) && !b.Range.Start.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateSeasonalRule(_ context.Context, sr core.SeasonalRule) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sr.ID = f.nextID
	f.nextID++
	f.rules[sr.ID] = sr
	return sr.ID, nil
}

func (f *fakeStore) UpdateSeasonalRule(_ context.Context, sr core.SeasonalRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rules[sr.ID]; !ok {
		return storage.ErrNotFound
	}
	f.rules[sr.ID] = sr
	return nil
}

func (f *fakeStore) DeleteSeasonalRule(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rules, id)
	return nil
}

func (f *fakeStore) ListSeasonalRules(_ context.Context) ([]core.SeasonalRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.SeasonalRule, 0, len(f.rules))
	for _, r := range f.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Range.Start.Before(out[j].Range.Start) })
	return out, nil
}

func (f *fakeStore) CreateExpense(_ context.Context, e core.Expense) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = f.nextID
	f.nextID++
	f.expenses[e.ID] = e
	return e.ID, nil
}

func (f *fakeStore) DeleteExpense(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.expenses, id)
	return nil
}

func (f *fakeStore) ListExpensesBetween(_ context.Context, from, to core.Date) ([]core.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Expense
	for _, e := range f.expenses {
		if !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// fakePublisher records published sync messages.
type fakePublisher struct {
	mu      sync.Mutex
	synced  []int64
	deleted []int64
	err     error
}

func (p *fakePublisher) PublishBookingSync(_ context.Context, id, _ int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.synced = append(p.synced, id)
	return nil
}

func (p *fakePublisher) PublishBookingDelete(_ context.Context, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.deleted = append(p.deleted, id)
	return nil
}
