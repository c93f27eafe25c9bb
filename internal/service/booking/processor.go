package booking

import (
	"context"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/pricing"
)

// processor is the uniform per-product contract the orchestrator drives.
// New product types are added as new implementations, never by
// branching on type inside the orchestrator.
type processor interface {
	// product names the product type for logs and errors.
	product() string
	// totalPrice returns nil when this product type was not requested.
	totalPrice(ctx context.Context) (*domain.Money, error)
	// book executes exactly once and is never retried automatically.
	book(ctx context.Context) error
	// hasReservation reports whether book produced a supplier
	// reservation that would need compensating.
	hasReservation() bool
	// cancelReservation is the best-effort compensating cancel.
	// Failures are logged, not returned, so sibling compensation
	// continues.
	cancelReservation(ctx context.Context) bool
	// fillResponse adds this product's reservation details to the
	// aggregated booking response.
	fillResponse(resp *BookingResponse)
}

// rateSource is the slice of the rate correlation cache the processors
// read. A lookup is expensive, so each processor memoizes its result.
type rateSource interface {
	GetHotelRate(ctx context.Context, customerRateCode string) (*domain.HotelRateEntry, error)
	GetActivity(ctx context.Context, activityCode string) (*domain.ActivityEntry, error)
	GetVariant(ctx context.Context, date, code string) (*domain.ActivityVariant, error)
}

// rateVerifier re-checks a previously quoted supplier rate.
type rateVerifier interface {
	Recheck(ctx context.Context, supplierName string, original domain.Rate) (*pricing.VerifiedRate, error)
}
