package supplier

import (
	"context"
	"fmt"

	"github.com/Domenick1991/travelbook/internal/domain"
)

// HotelBookingRequest is built from cached supplier-side identifiers,
// never from customer-facing codes.
type HotelBookingRequest struct {
	HotelID       string `json:"hotel_id"`
	RateCode      string `json:"rate_code"`
	RoomCode      string `json:"room_code"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	GuestFirst    string `json:"guest_first"`
	GuestLast     string `json:"guest_last"`
	GuestEmail    string `json:"guest_email"`
	GuestPhone    string `json:"guest_phone"`
	TransactionID string `json:"transaction_id"`
}

// PolicyTerm is one cancellation policy window returned by a supplier at
// booking time.
type PolicyTerm struct {
	Type       domain.CancellationPolicyType `json:"type"`
	ValidFrom  string                        `json:"valid_from"`
	ValidUntil string                        `json:"valid_until"`
	Penalty    domain.Money                  `json:"penalty"`
}

type HotelReservation struct {
	ReservationID string       `json:"reservation_id"`
	Rate          domain.Rate  `json:"rate"`
	Policies      []PolicyTerm `json:"policies"`
}

type CancelRequest struct {
	ReservationID string `json:"reservation_id"`
}

type CancelResult struct {
	Confirmed bool   `json:"confirmed"`
	Reference string `json:"reference"`
}

type ActivityBookingItem struct {
	VariantCode string       `json:"variant_code"`
	Date        string       `json:"date"`
	Quantity    int          `json:"quantity"`
	UnitPrice   domain.Money `json:"unit_price"`
}

type ActivityBookingRequest struct {
	ActivityCode  string                `json:"activity_code"`
	Items         []ActivityBookingItem `json:"items"`
	LeadFirst     string                `json:"lead_first"`
	LeadLast      string                `json:"lead_last"`
	LeadEmail     string                `json:"lead_email"`
	TransactionID string                `json:"transaction_id"`
}

type ActivityReservation struct {
	ReservationID string `json:"reservation_id"`
}

// HotelAdapter is the per-supplier hotel capability. Book throws on
// failure and is never retried automatically; Recheck returns the live
// rate for a previously quoted supplier rate code.
type HotelAdapter interface {
	Recheck(ctx context.Context, rate domain.Rate) (*domain.Rate, error)
	Book(ctx context.Context, req HotelBookingRequest) (*HotelReservation, error)
	Cancel(ctx context.Context, req CancelRequest) (*CancelResult, error)
}

type ActivityAdapter interface {
	Book(ctx context.Context, req ActivityBookingRequest) (*ActivityReservation, error)
	Cancel(ctx context.Context, req CancelRequest) (*CancelResult, error)
}

// Registry resolves adapters by the supplier-name string carried in
// cached payloads.
type Registry struct {
	hotels     map[string]HotelAdapter
	activities map[string]ActivityAdapter
}

func NewRegistry() *Registry {
	return &Registry{
		hotels:     make(map[string]HotelAdapter),
		activities: make(map[string]ActivityAdapter),
	}
}

func (r *Registry) RegisterHotel(name string, adapter HotelAdapter) {
	r.hotels[name] = adapter
}

func (r *Registry) RegisterActivity(name string, adapter ActivityAdapter) {
	r.activities[name] = adapter
}

func (r *Registry) Hotel(name string) (HotelAdapter, error) {
	adapter, ok := r.hotels[name]
	if !ok {
		return nil, fmt.Errorf("no hotel adapter registered for supplier %q", name)
	}
	return adapter, nil
}

func (r *Registry) Activity(name string) (ActivityAdapter, error) {
	adapter, ok := r.activities[name]
	if !ok {
		return nil, fmt.Errorf("no activity adapter registered for supplier %q", name)
	}
	return adapter, nil
}
