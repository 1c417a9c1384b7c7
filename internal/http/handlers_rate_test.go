package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatJuneRate() rateRequest {
	return rateRequest{
		StartDate:    "2024-06-01",
		EndDate:      "2024-06-30",
		NightlyRates: [7]string{"100.00", "100.00", "100.00", "100.00", "100.00", "100.00", "100.00"},
	}
}

func TestCreateRate(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/rates", flatJuneRate())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeBody[rateResponse](t, rec)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "2024-06-01", created.StartDate)
	assert.Equal(t, "100.00", created.NightlyRates[0])
}

func TestCreateRateOverlapRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/rates", flatJuneRate())
	require.Equal(t, http.StatusCreated, rec.Code)

	// shares June 30th with the first rule; rule ranges are inclusive
	overlapping := flatJuneRate()
	overlapping.StartDate = "2024-06-30"
	overlapping.EndDate = "2024-07-31"
	rec = doJSON(t, srv, http.MethodPost, "/api/rates", overlapping)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/api/rates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]rateResponse](t, rec), 1)
}

func TestUpdateRateExcludesSelf(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/rates", flatJuneRate())
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody[rateResponse](t, rec).ID

	widened := flatJuneRate()
	widened.EndDate = "2024-07-15"
	rec = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/rates/%d", id), widened)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "2024-07-15", decodeBody[rateResponse](t, rec).EndDate)
}

func TestDeleteRate(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/rates", flatJuneRate())
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody[rateResponse](t, rec).ID

	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/rates/%d", id), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// absent IDs are a no-op
	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/rates/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCreateRateValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	inverted := flatJuneRate()
	inverted.StartDate, inverted.EndDate = inverted.EndDate, inverted.StartDate
	rec := doJSON(t, srv, http.MethodPost, "/api/rates", inverted)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	badRate := flatJuneRate()
	badRate.NightlyRates[3] = "-5.00"
	rec = doJSON(t, srv, http.MethodPost, "/api/rates", badRate)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	zeroRate := flatJuneRate()
	zeroRate.NightlyRates[3] = "0.00"
	rec = doJSON(t, srv, http.MethodPost, "/api/rates", zeroRate)
	assert.Equal(t, http.StatusCreated, rec.Code, "zero nightly rates are allowed")
}
