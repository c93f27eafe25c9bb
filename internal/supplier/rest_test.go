package supplier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTAdapter_Recheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rates/recheck", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var rate domain.Rate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rate))
		assert.Equal(t, "SR-77", rate.Code)

		rate.Total = domain.NewMoney(7500, "USD")
		json.NewEncoder(w).Encode(rate)
	}))
	defer server.Close()

	a := NewRESTAdapter("sunhotels", server.URL, "key", time.Second)
	got, err := a.Recheck(context.Background(), domain.Rate{Code: "SR-77", Total: domain.NewMoney(8000, "USD")})

	require.NoError(t, err)
	assert.Equal(t, "SR-77", got.Code)
	assert.Equal(t, domain.NewMoney(7500, "USD"), got.Total)
}

func TestRESTAdapter_Book(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hotel/bookings", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(HotelReservation{
			ReservationID: "RES-9",
			Policies: []PolicyTerm{{
				Type:       domain.PolicyFreeCancellation,
				ValidFrom:  "2026-09-01T00:00:00Z",
				ValidUntil: "2026-09-25T00:00:00Z",
			}},
		})
	}))
	defer server.Close()

	a := NewRESTAdapter("sunhotels", server.URL, "key", time.Second)
	res, err := a.Book(context.Background(), HotelBookingRequest{HotelID: "H-551", RateCode: "SR-77"})

	require.NoError(t, err)
	assert.Equal(t, "RES-9", res.ReservationID)
	require.Len(t, res.Policies, 1)
	assert.Equal(t, domain.PolicyFreeCancellation, res.Policies[0].Type)
}

func TestRESTAdapter_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no availability", http.StatusConflict)
	}))
	defer server.Close()

	a := NewRESTAdapter("sunhotels", server.URL, "key", time.Second)
	res, err := a.Book(context.Background(), HotelBookingRequest{HotelID: "H-551"})

	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "sunhotels")
	assert.Contains(t, err.Error(), "409")
}

func TestActivityView_Book(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activity/bookings", r.URL.Path)
		json.NewEncoder(w).Encode(ActivityReservation{ReservationID: "ACT-RES-1"})
	}))
	defer server.Close()

	view := ActivityView{NewRESTAdapter("funthings", server.URL, "key", time.Second)}
	res, err := view.Book(context.Background(), ActivityBookingRequest{ActivityCode: "ACT-1"})

	require.NoError(t, err)
	assert.Equal(t, "ACT-RES-1", res.ReservationID)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	adapter := NewRESTAdapter("sunhotels", "http://example.invalid", "", time.Second)
	registry.RegisterHotel("sunhotels", adapter)
	registry.RegisterActivity("funthings", ActivityView{adapter})

	got, err := registry.Hotel("sunhotels")
	require.NoError(t, err)
	assert.Equal(t, adapter, got)

	_, err = registry.Hotel("ghost")
	assert.Error(t, err)

	_, err = registry.Activity("sunhotels")
	assert.Error(t, err)
}
