package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Domenick1991/travelbook/internal/domain"
)

// RESTAdapter talks JSON over HTTP to one supplier gateway. It
// implements both product capabilities; suppliers that only sell one
// product type simply never get registered for the other.
type RESTAdapter struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRESTAdapter(name, baseURL, apiKey string, timeout time.Duration) *RESTAdapter {
	return &RESTAdapter{
		name:    name,
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (a *RESTAdapter) Recheck(ctx context.Context, rate domain.Rate) (*domain.Rate, error) {
	var out domain.Rate
	if err := a.post(ctx, "/rates/recheck", rate, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *RESTAdapter) Book(ctx context.Context, req HotelBookingRequest) (*HotelReservation, error) {
	var out HotelReservation
	if err := a.post(ctx, "/hotel/bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *RESTAdapter) Cancel(ctx context.Context, req CancelRequest) (*CancelResult, error) {
	var out CancelResult
	if err := a.post(ctx, "/bookings/cancel", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *RESTAdapter) BookActivity(ctx context.Context, req ActivityBookingRequest) (*ActivityReservation, error) {
	var out ActivityReservation
	if err := a.post(ctx, "/activity/bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *RESTAdapter) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("supplier %s: %w", a.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("supplier %s returned %d on %s: %s", a.name, resp.StatusCode, path, msg)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ActivityView adapts a RESTAdapter to the ActivityAdapter interface,
// letting the same gateway be registered for both product types.
type ActivityView struct {
	*RESTAdapter
}

func (v ActivityView) Book(ctx context.Context, req ActivityBookingRequest) (*ActivityReservation, error) {
	return v.RESTAdapter.BookActivity(ctx, req)
}

var (
	_ HotelAdapter    = (*RESTAdapter)(nil)
	_ ActivityAdapter = ActivityView{}
)
