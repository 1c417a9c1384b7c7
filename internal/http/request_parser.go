// Package http serves the booking, rate, expense and cash-flow JSON API.
//
// This file decodes request payloads into domain types. Monetary fields
// travel as decimal strings ("450.00") so clients never deal in float cents.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"villabook/internal/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON decodes the request body into dst, limiting body size.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	return nil
}

// bookingRequest is the wire form of a booking create/update.
type bookingRequest struct {
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	GuestName  string `json:"guest_name"`
	GuestPhone string `json:"guest_phone"`
	Amount     string `json:"amount"`
	Prepayment string `json:"prepayment"`
	Notes      string `json:"notes"`
}

func (req bookingRequest) toBooking() (core.Booking, error) {
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		return core.Booking{}, fmt.Errorf("invalid check_in date: %w", err)
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		return core.Booking{}, fmt.Errorf("invalid check_out date: %w", err)
	}

	amountCents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Booking{}, fmt.Errorf("invalid amount: %w", err)
	}
	var prepayCents int64
	if req.Prepayment != "" {
		prepayCents, err = core.ParseDecimalToCents(req.Prepayment)
		if err != nil {
			return core.Booking{}, fmt.Errorf("invalid prepayment: %w", err)
		}
	}

	return core.Booking{
		Range:      core.NewDateRange(checkIn, checkOut),
		GuestName:  sanitizeInput(req.GuestName),
		GuestPhone: sanitizeInput(req.GuestPhone),
		Amount:     core.Money{Cents: amountCents},
		Prepayment: core.Money{Cents: prepayCents},
		Notes:      sanitizeInput(req.Notes),
	}, nil
}

// rateRequest is the wire form of a seasonal rate rule. NightlyRates holds
// seven decimal strings, Sunday first.
type rateRequest struct {
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	NightlyRates [7]string `json:"nightly_rates"`
}

func (req rateRequest) toRule() (core.SeasonalRule, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return core.SeasonalRule{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return core.SeasonalRule{}, fmt.Errorf("invalid end_date: %w", err)
	}

	rule := core.SeasonalRule{Range: core.NewDateRange(start, end)}
	for i, rate := range req.NightlyRates {
		cents, err := core.ParseDecimalToCents(rate)
		if err != nil {
			return core.SeasonalRule{}, fmt.Errorf("invalid nightly rate for weekday %d: %w", i, err)
		}
		rule.WeekdayPrices[i] = core.Money{Cents: cents}
	}
	return rule, nil
}

// expenseRequest is the wire form of a property expense.
type expenseRequest struct {
	Date        string `json:"date"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

func (req expenseRequest) toExpense() (core.Expense, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("invalid date: %w", err)
	}
	cents, err := core.ParsePositiveCents(req.Amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("invalid amount: %w", err)
	}
	return core.Expense{
		Date:        date,
		Category:    sanitizeInput(req.Category),
		Amount:      core.Money{Cents: cents},
		Description: sanitizeInput(req.Description),
	}, nil
}

// parseWindow extracts the required from/to query parameters.
func parseWindow(r *http.Request) (core.DateRange, error) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr == "" || toStr == "" {
		return core.DateRange{}, errors.New("from and to query parameters are required")
	}
	from, err := parseDate(fromStr)
	if err != nil {
		return core.DateRange{}, fmt.Errorf("invalid from date: %w", err)
	}
	to, err := parseDate(toStr)
	if err != nil {
		return core.DateRange{}, fmt.Errorf("invalid to date: %w", err)
	}
	return core.NewDateRange(from, to), nil
}
