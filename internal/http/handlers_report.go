package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"villabook/internal/core"
	"villabook/internal/report"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	expenses, err := s.reports.ListExpenses(r.Context(), window.Start, window.End)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, newExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	e, err := req.toExpense()
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	id, err := s.reports.AddExpense(r.Context(), e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()

	e.ID = id
	writeJSON(w, http.StatusCreated, newExpenseResponse(e))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.reports.RemoveExpense(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()

	w.WriteHeader(http.StatusNoContent)
}

// parseCashFlowQuery extracts the reporting window and optional horizon.
func parseCashFlowQuery(r *http.Request) (core.DateRange, int, error) {
	window, err := parseWindow(r)
	if err != nil {
		return core.DateRange{}, 0, err
	}
	horizon := 0
	if v := r.URL.Query().Get("horizon"); v != "" {
		horizon, err = strconv.Atoi(v)
		if err != nil || horizon < 0 {
			return core.DateRange{}, 0, fmt.Errorf("invalid horizon %q", v)
		}
	}
	return window, horizon, nil
}

// cachedCashFlow answers from the report cache when it can; the cache is
// cleared on every booking, rate or expense write.
func (s *Server) cachedCashFlow(r *http.Request, window core.DateRange, horizon int) ([]core.MonthBucket, error) {
	key := window.Start.Format(dateLayout) + "|" + window.End.Format(dateLayout) + "|" + strconv.Itoa(horizon)
	if buckets, found := s.reportCache.Get(key); found {
		slog.DebugContext(r.Context(), "Cash-flow cache hit", "key", key)
		return buckets, nil
	}

	buckets, err := s.reports.CashFlow(r.Context(), window, horizon)
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(key, buckets)
	return buckets, nil
}

func (s *Server) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	window, horizon, err := parseCashFlowQuery(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	buckets, err := s.cachedCashFlow(r, window, horizon)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBucketResponses(buckets))
}

// handleCashFlowExport streams the series as a CSV download.
func (s *Server) handleCashFlowExport(w http.ResponseWriter, r *http.Request) {
	window, horizon, err := parseCashFlowQuery(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	buckets, err := s.cachedCashFlow(r, window, horizon)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cashflow.csv"`)
	if err := report.WriteCSV(w, buckets); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
	}
}
