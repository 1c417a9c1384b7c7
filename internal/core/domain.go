package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrZeroDate          = errors.New("date cannot be zero")
	ErrInvalidRange      = errors.New("end date must be after start date")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidPrice      = errors.New("weekday price cannot be negative")
	ErrInvalidPrepayment = errors.New("prepayment must be between zero and the booking amount")
	ErrEmptyGuestName    = errors.New("empty guest name")
	ErrEmptyCategory     = errors.New("empty expense category")
	ErrRuleOverlap       = errors.New("seasonal rule overlaps an existing rule")
	ErrUnpricedNight     = errors.New("night not covered by any seasonal rule")

	ErrGuestNameTooLong   = errors.New("guest name too long (max 200 characters)")
	ErrNotesTooLong       = errors.New("notes too long (max 1000 characters)")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

type (
	// Booking is a guest stay. Range is half-open: the stay covers the
	// nights [Start, End), so checkout day is free for the next check-in.
	Booking struct {
		ID         int64
		Range      DateRange
		GuestName  string
		GuestPhone string
		Amount     Money
		Prepayment Money
		Notes      string
	}

	// Expense is a single outgoing payment, bucketed by the month of Date.
	Expense struct {
		ID          int64
		Date        Date
		Category    string
		Amount      Money
		Description string
	}

	// SeasonalRule prices nights inside an inclusive date interval.
	// WeekdayPrices is indexed by time.Weekday: Sunday=0 .. Saturday=6.
	SeasonalRule struct {
		ID            int64
		Range         DateRange
		WeekdayPrices [7]Money
	}
)

// PriceForWeekday returns the rate the rule assigns to the given weekday.
func (sr SeasonalRule) PriceForWeekday(wd time.Weekday) Money {
	return sr.WeekdayPrices[int(wd)]
}

func (sr SeasonalRule) Validate() error {
	if err := sr.Range.Validate(); err != nil {
		return err
	}
	for _, p := range sr.WeekdayPrices {
		if p.IsNegative() {
			return ErrInvalidPrice
		}
	}
	return nil
}

// Validate checks the booking's own invariants. The amount is taken as
// supplied: operators may override the computed quote, so nothing here ties
// Amount back to the seasonal rates.
func (b Booking) Validate() error {
	if err := b.Range.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(b.GuestName)) == 0 {
		return ErrEmptyGuestName
	}
	if len(b.GuestName) > 200 {
		return ErrGuestNameTooLong
	}
	if b.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if b.Prepayment.IsNegative() || b.Prepayment.Cents > b.Amount.Cents {
		return ErrInvalidPrepayment
	}
	if len(b.Notes) > 1000 {
		return ErrNotesTooLong
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if e.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}
