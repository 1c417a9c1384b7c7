// Package http serves the booking, rate, expense and cash-flow JSON API.
//
// This file builds JSON responses and maps domain errors onto HTTP status
// codes: conflicts are 409 with the colliding bookings attached, validation
// failures 422, missing records 404.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"villabook/internal/core"
	"villabook/internal/services"
	"villabook/internal/storage"
)

type bookingResponse struct {
	ID         int64  `json:"id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Nights     int    `json:"nights"`
	GuestName  string `json:"guest_name"`
	GuestPhone string `json:"guest_phone,omitempty"`
	Amount     string `json:"amount"`
	Prepayment string `json:"prepayment"`
	Notes      string `json:"notes,omitempty"`
}

func newBookingResponse(b core.Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		CheckIn:    b.Range.Start.Format(dateLayout),
		CheckOut:   b.Range.End.Format(dateLayout),
		Nights:     b.Range.Nights(),
		GuestName:  b.GuestName,
		GuestPhone: b.GuestPhone,
		Amount:     b.Amount.String(),
		Prepayment: b.Prepayment.String(),
		Notes:      b.Notes,
	}
}

func newBookingResponses(bookings []core.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, newBookingResponse(b))
	}
	return out
}

type rateResponse struct {
	ID           int64     `json:"id"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	NightlyRates [7]string `json:"nightly_rates"`
}

func newRateResponse(rule core.SeasonalRule) rateResponse {
	resp := rateResponse{
		ID:        rule.ID,
		StartDate: rule.Range.Start.Format(dateLayout),
		EndDate:   rule.Range.End.Format(dateLayout),
	}
	for i, p := range rule.WeekdayPrices {
		resp.NightlyRates[i] = p.String()
	}
	return resp
}

type expenseResponse struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

func newExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Date:        e.Date.Format(dateLayout),
		Category:    e.Category,
		Amount:      e.Amount.String(),
		Description: e.Description,
	}
}

type quoteResponse struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Nights   int    `json:"nights"`
	Amount   string `json:"amount"`
}

type bucketResponse struct {
	Month      string `json:"month"`
	Type       string `json:"type"`
	Bookings   int    `json:"bookings"`
	Prepayment string `json:"prepayment"`
	Paid       string `json:"paid"`
	Revenue    string `json:"revenue"`
	Expenses   string `json:"expenses"`
}

func newBucketResponses(buckets []core.MonthBucket) []bucketResponse {
	out := make([]bucketResponse, 0, len(buckets))
	for _, b := range buckets {
		bucketType := "Historical"
		if b.IsProjection {
			bucketType = "Projection"
		}
		out = append(out, bucketResponse{
			Month:      b.Month.String(),
			Type:       bucketType,
			Bookings:   b.BookingsCount,
			Prepayment: b.Prepaid.String(),
			Paid:       b.Paid.String(),
			Revenue:    b.Revenue.String(),
			Expenses:   b.Expenses.String(),
		})
	}
	return out
}

type errorResponse struct {
	Error     string            `json:"error"`
	Conflicts []bookingResponse `json:"conflicts,omitempty"`
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// writeBadRequest reports a malformed request body or query parameter.
func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

// writeError maps a service error onto the matching status code.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var conflict *services.ConflictError
	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:     conflict.Error(),
			Conflicts: newBookingResponses(conflict.Conflicts),
		})
	case isValidationError(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err, "method", r.Method, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrZeroDate,
		core.ErrInvalidRange,
		core.ErrInvalidAmount,
		core.ErrInvalidPrice,
		core.ErrInvalidPrepayment,
		core.ErrEmptyGuestName,
		core.ErrEmptyCategory,
		core.ErrRuleOverlap,
		core.ErrUnpricedNight,
		core.ErrGuestNameTooLong,
		core.ErrNotesTooLong,
		core.ErrDescriptionTooLong,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
