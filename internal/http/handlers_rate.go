package http

import "net/http"

func (s *Server) handleListRates(w http.ResponseWriter, r *http.Request) {
	rules, err := s.rates.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]rateResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, newRateResponse(rule))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateRate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	rule, err := req.toRule()
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	id, err := s.rates.Upsert(r.Context(), rule)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()

	rule.ID = id
	writeJSON(w, http.StatusCreated, newRateResponse(rule))
}

func (s *Server) handleUpdateRate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req rateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	rule, err := req.toRule()
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	rule.ID = id

	if _, err := s.rates.Upsert(r.Context(), rule); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()

	writeJSON(w, http.StatusOK, newRateResponse(rule))
}

func (s *Server) handleDeleteRate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.rates.Remove(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()

	w.WriteHeader(http.StatusNoContent)
}
