package http

import (
	"net/http"

	"villabook/internal/core"
)

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookings.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBookingResponses(bookings))
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	b, err := req.toBooking()
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	id, err := s.bookings.Create(r.Context(), b)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()
	s.accessLog.LogBookingCreated(r.Context(), id, b.GuestName,
		b.Range.Start.Format(dateLayout), b.Range.End.Format(dateLayout), b.Amount.Cents)

	b.ID = id
	writeJSON(w, http.StatusCreated, newBookingResponse(b))
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	b, err := s.bookings.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBookingResponse(b))
}

func (s *Server) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	b, err := req.toBooking()
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	b.ID = id

	if err := s.bookings.Update(r.Context(), b); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()

	writeJSON(w, http.StatusOK, newBookingResponse(b))
}

func (s *Server) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.bookings.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()

	w.WriteHeader(http.StatusNoContent)
}

// handleQuote prices a candidate stay without persisting anything.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	checkIn, err := parseDate(r.URL.Query().Get("check_in"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	checkOut, err := parseDate(r.URL.Query().Get("check_out"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	quote, err := s.quoter.QuoteStay(r.Context(), core.NewDateRange(checkIn, checkOut))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{
		CheckIn:  quote.Range.Start.Format(dateLayout),
		CheckOut: quote.Range.End.Format(dateLayout),
		Nights:   quote.Nights,
		Amount:   quote.Amount.String(),
	})
}
