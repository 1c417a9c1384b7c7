// Package storage persists bookings, seasonal rules and expenses in SQLite.
//
// The engine packages (pricing, booking, report) never touch this package
// directly; they operate on the in-memory snapshots the repository hands
// out. Writes go through the services layer, which validates first so no
// partial or invalid row ever reaches the database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"villabook/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist or was soft-deleted.
var ErrNotFound = errors.New("not found")

const dateLayout = "2006-01-02"

// SQLiteRepository is the single persistence gateway for the service.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func encodeDate(d core.Date) string {
	return d.Format(dateLayout)
}

func decodeDate(s string) (core.Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return core.Date{}, fmt.Errorf("decode date %q: %w", s, err)
	}
	return core.DateOf(t), nil
}

// ---- bookings ----

// CreateBooking inserts a booking and returns its database ID. The row
// starts in sync_status 'pending' so the ledger worker picks it up.
func (r *SQLiteRepository) CreateBooking(ctx context.Context, b core.Booking) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO bookings (check_in, check_out, guest_name, guest_phone,
			amount_cents, prepayment_cents, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		encodeDate(b.Range.Start), encodeDate(b.Range.End),
		b.GuestName, b.GuestPhone, b.Amount.Cents, b.Prepayment.Cents, b.Notes)
	if err != nil {
		return 0, fmt.Errorf("create booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("booking insert id: %w", err)
	}

	slog.InfoContext(ctx, "Booking saved",
		"id", id,
		"guest", b.GuestName,
		"check_in", encodeDate(b.Range.Start),
		"check_out", encodeDate(b.Range.End),
		"amount_cents", b.Amount.Cents)

	return id, nil
}

// UpdateBooking rewrites a booking's fields, bumps its version and resets
// sync_status to pending so the change is re-synced to the ledger.
func (r *SQLiteRepository) UpdateBooking(ctx context.Context, b core.Booking) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET check_in = ?, check_out = ?, guest_name = ?, guest_phone = ?,
			amount_cents = ?, prepayment_cents = ?, notes = ?,
			version = version + 1, sync_status = 'pending',
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`,
		encodeDate(b.Range.Start), encodeDate(b.Range.End),
		b.GuestName, b.GuestPhone, b.Amount.Cents, b.Prepayment.Cents, b.Notes,
		b.ID)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update booking rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDeleteBooking marks a booking deleted; the row stays for the ledger
// worker to propagate the removal. sync_status goes back to pending so the
// deletion is picked up by the drain even when the delete message is lost.
func (r *SQLiteRepository) SoftDeleteBooking(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP,
			sync_status = 'pending'
		WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete booking: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete booking rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) scanBooking(row interface{ Scan(...any) error }) (core.Booking, error) {
	var (
		b                  core.Booking
		checkIn, checkOut  string
		amount, prepayment int64
	)
	if err := row.Scan(&b.ID, &checkIn, &checkOut, &b.GuestName, &b.GuestPhone,
		&amount, &prepayment, &b.Notes); err != nil {
		return core.Booking{}, err
	}
	start, err := decodeDate(checkIn)
	if err != nil {
		return core.Booking{}, err
	}
	end, err := decodeDate(checkOut)
	if err != nil {
		return core.Booking{}, err
	}
	b.Range = core.NewDateRange(start, end)
	b.Amount = core.Money{Cents: amount}
	b.Prepayment = core.Money{Cents: prepayment}
	return b, nil
}

const bookingColumns = `id, check_in, check_out, guest_name, guest_phone,
	amount_cents, prepayment_cents, notes`

// GetBooking returns a live booking by ID.
func (r *SQLiteRepository) GetBooking(ctx context.Context, id int64) (core.Booking, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings WHERE id = ? AND deleted_at IS NULL`, id)
	b, err := r.scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Booking{}, ErrNotFound
	}
	if err != nil {
		return core.Booking{}, fmt.Errorf("get booking %d: %w", id, err)
	}
	return b, nil
}

// ListBookings returns all live bookings ordered by check-in date.
func (r *SQLiteRepository) ListBookings(ctx context.Context) ([]core.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings WHERE deleted_at IS NULL
		ORDER BY check_in`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()
	return r.collectBookings(rows)
}

// ListBookingsCheckInBetween returns live bookings whose check-in falls in
// the inclusive day interval [from, to], ordered by check-in.
func (r *SQLiteRepository) ListBookingsCheckInBetween(ctx context.Context, from, to core.Date) ([]core.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE deleted_at IS NULL AND check_in >= ? AND check_in <= ?
		ORDER BY check_in`, encodeDate(from), encodeDate(to))
	if err != nil {
		return nil, fmt.Errorf("list bookings between: %w", err)
	}
	defer rows.Close()
	return r.collectBookings(rows)
}

func (r *SQLiteRepository) collectBookings(rows *sql.Rows) ([]core.Booking, error) {
	var out []core.Booking
	for rows.Next() {
		b, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return out, nil
}

// ---- seasonal rules ----

// CreateSeasonalRule inserts a rule and returns its ID. Overlap enforcement
// lives in the pricing table; the services layer checks before calling.
func (r *SQLiteRepository) CreateSeasonalRule(ctx context.Context, sr core.SeasonalRule) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO seasonal_rules (start_date, end_date,
			sunday_cents, monday_cents, tuesday_cents, wednesday_cents,
			thursday_cents, friday_cents, saturday_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		encodeDate(sr.Range.Start), encodeDate(sr.Range.End),
		sr.WeekdayPrices[0].Cents, sr.WeekdayPrices[1].Cents,
		sr.WeekdayPrices[2].Cents, sr.WeekdayPrices[3].Cents,
		sr.WeekdayPrices[4].Cents, sr.WeekdayPrices[5].Cents,
		sr.WeekdayPrices[6].Cents)
	if err != nil {
		return 0, fmt.Errorf("create seasonal rule: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("seasonal rule insert id: %w", err)
	}

	slog.InfoContext(ctx, "Seasonal rule saved",
		"id", id,
		"start", encodeDate(sr.Range.Start),
		"end", encodeDate(sr.Range.End))

	return id, nil
}

// UpdateSeasonalRule rewrites an existing rule in place.
func (r *SQLiteRepository) UpdateSeasonalRule(ctx context.Context, sr core.SeasonalRule) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE seasonal_rules
		SET start_date = ?, end_date = ?,
			sunday_cents = ?, monday_cents = ?, tuesday_cents = ?,
			wednesday_cents = ?, thursday_cents = ?, friday_cents = ?,
			saturday_cents = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		encodeDate(sr.Range.Start), encodeDate(sr.Range.End),
		sr.WeekdayPrices[0].Cents, sr.WeekdayPrices[1].Cents,
		sr.WeekdayPrices[2].Cents, sr.WeekdayPrices[3].Cents,
		sr.WeekdayPrices[4].Cents, sr.WeekdayPrices[5].Cents,
		sr.WeekdayPrices[6].Cents, sr.ID)
	if err != nil {
		return fmt.Errorf("update seasonal rule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update seasonal rule rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSeasonalRule removes a rule. Deleting an absent rule is a no-op,
// matching the pricing table's idempotent Remove.
func (r *SQLiteRepository) DeleteSeasonalRule(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM seasonal_rules WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete seasonal rule: %w", err)
	}
	return nil
}

// ListSeasonalRules returns all rules ordered by ascending start date, the
// order the pricing table scans in.
func (r *SQLiteRepository) ListSeasonalRules(ctx context.Context) ([]core.SeasonalRule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, start_date, end_date,
			sunday_cents, monday_cents, tuesday_cents, wednesday_cents,
			thursday_cents, friday_cents, saturday_cents
		FROM seasonal_rules
		ORDER BY start_date`)
	if err != nil {
		return nil, fmt.Errorf("list seasonal rules: %w", err)
	}
	defer rows.Close()

	var out []core.SeasonalRule
	for rows.Next() {
		var (
			sr         core.SeasonalRule
			start, end string
			cents      [7]int64
		)
		if err := rows.Scan(&sr.ID, &start, &end,
			&cents[0], &cents[1], &cents[2], &cents[3],
			&cents[4], &cents[5], &cents[6]); err != nil {
			return nil, fmt.Errorf("scan seasonal rule: %w", err)
		}
		s, err := decodeDate(start)
		if err != nil {
			return nil, err
		}
		e, err := decodeDate(end)
		if err != nil {
			return nil, err
		}
		sr.Range = core.NewDateRange(s, e)
		for i, c := range cents {
			sr.WeekdayPrices[i] = core.Money{Cents: c}
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seasonal rules: %w", err)
	}
	return out, nil
}

// ---- expenses ----

// CreateExpense inserts an expense and returns its ID.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (expense_date, category, amount_cents, description)
		VALUES (?, ?, ?, ?)`,
		encodeDate(e.Date), e.Category, e.Amount.Cents, e.Description)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"category", e.Category,
		"amount_cents", e.Amount.Cents,
		"date", encodeDate(e.Date))

	return id, nil
}

// DeleteExpense removes an expense. Absent IDs are a no-op.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// ListExpensesBetween returns expenses dated inside the inclusive interval
// [from, to], ordered by date.
func (r *SQLiteRepository) ListExpensesBetween(ctx context.Context, from, to core.Date) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, expense_date, category, amount_cents, description
		FROM expenses
		WHERE expense_date >= ? AND expense_date <= ?
		ORDER BY expense_date`, encodeDate(from), encodeDate(to))
	if err != nil {
		return nil, fmt.Errorf("list expenses between: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e      core.Expense
			date   string
			amount int64
		)
		if err := rows.Scan(&e.ID, &date, &e.Category, &amount, &e.Description); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		d, err := decodeDate(date)
		if err != nil {
			return nil, err
		}
		e.Date = d
		e.Amount = core.Money{Cents: amount}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// ---- ledger sync queue ----

// PendingSyncBooking is the minimal row the ledger worker needs to build a
// sync message.
type PendingSyncBooking struct {
	ID      int64
	Version int64
	Deleted bool
}

// GetPendingSyncBookings returns up to limit bookings awaiting ledger sync,
// oldest first. Soft-deleted rows are included so deletions propagate.
func (r *SQLiteRepository) GetPendingSyncBookings(ctx context.Context, limit int) ([]PendingSyncBooking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version, deleted_at IS NOT NULL
		FROM bookings
		WHERE sync_status = 'pending'
		ORDER BY updated_at
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync bookings: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncBooking
	for rows.Next() {
		var p PendingSyncBooking
		if err := rows.Scan(&p.ID, &p.Version, &p.Deleted); err != nil {
			return nil, fmt.Errorf("scan pending sync booking: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending sync bookings: %w", err)
	}
	return out, nil
}

// MarkBookingSynced marks a booking as successfully written to the ledger.
func (r *SQLiteRepository) MarkBookingSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET sync_status = 'synced' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark booking synced: %w", err)
	}
	slog.InfoContext(ctx, "Booking marked as synced", "id", id)
	return nil
}

// MarkBookingSyncError flags a booking whose ledger write failed.
func (r *SQLiteRepository) MarkBookingSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET sync_status = 'error' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark booking sync error: %w", err)
	}
	slog.WarnContext(ctx, "Booking marked with sync error", "id", id)
	return nil
}

// GetBookingIncludingDeleted returns a booking row regardless of soft
// deletion, plus whether it was deleted. The ledger worker needs deleted
// rows to propagate removals.
func (r *SQLiteRepository) GetBookingIncludingDeleted(ctx context.Context, id int64) (core.Booking, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+bookingColumns+`, deleted_at IS NOT NULL
		FROM bookings WHERE id = ?`, id)
	var (
		b                  core.Booking
		checkIn, checkOut  string
		amount, prepayment int64
		deleted            bool
	)
	err := row.Scan(&b.ID, &checkIn, &checkOut, &b.GuestName, &b.GuestPhone,
		&amount, &prepayment, &b.Notes, &deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Booking{}, false, ErrNotFound
	}
	if err != nil {
		return core.Booking{}, false, fmt.Errorf("get booking %d: %w", id, err)
	}
	start, err := decodeDate(checkIn)
	if err != nil {
		return core.Booking{}, false, err
	}
	end, err := decodeDate(checkOut)
	if err != nil {
		return core.Booking{}, false, err
	}
	b.Range = core.NewDateRange(start, end)
	b.Amount = core.Money{Cents: amount}
	b.Prepayment = core.Money{Cents: prepayment}
	return b, deleted, nil
}
