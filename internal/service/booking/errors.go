package booking

import (
	"errors"
	"fmt"

	"github.com/Domenick1991/travelbook/internal/payment"
)

var (
	// ErrNoProducts rejects requests that carry neither a hotel nor an
	// activity sub-request, instead of authorizing a zero-amount charge.
	ErrNoProducts = errors.New("booking request contains no products")

	// ErrMismatchedCurrencies rejects bundles whose product prices span
	// more than one currency.
	ErrMismatchedCurrencies = errors.New("product prices span more than one currency")

	// ErrEmptyActivityItems rejects an activity sub-request with no line
	// items, which would otherwise price to a currencyless zero total.
	ErrEmptyActivityItems = errors.New("activity request contains no items")
)

// PriceVerificationError means the live supplier price failed the
// comparison policy. Raised before any payment or supplier booking call.
type PriceVerificationError struct {
	RateCode        string
	OriginalAmount  int64
	VerifiedAmount  int64
	PriceDifference int64
}

func (e *PriceVerificationError) Error() string {
	return fmt.Sprintf("price verification failed for rate %s: quoted %d, live %d (difference %d)",
		e.RateCode, e.OriginalAmount, e.VerifiedAmount, e.PriceDifference)
}

// PaymentError is a failed authorization. Fatal and never compensated,
// because no charge exists to refund.
type PaymentError struct {
	Code payment.ErrorCode
	Err  error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment authorization failed (%s): %v", e.Code, e.Err)
}

func (e *PaymentError) Unwrap() error { return e.Err }

// ProviderBookingError wraps a processor book() failure. By the time it
// surfaces, compensation (refund plus best-effort cancels) has run.
type ProviderBookingError struct {
	Product string
	Err     error
}

func (e *ProviderBookingError) Error() string {
	return fmt.Sprintf("supplier booking failed for %s: %v", e.Product, e.Err)
}

func (e *ProviderBookingError) Unwrap() error { return e.Err }

// CancellationError covers every rejection of the cancellation workflow:
// unknown booking, wrong state, missing or mismatched policy, supplier
// refusal. NotFound marks lookups that matched no booking, so transports
// can distinguish them without parsing Reason.
type CancellationError struct {
	Reason   string
	NotFound bool
}

func (e *CancellationError) Error() string {
	return "cancellation rejected: " + e.Reason
}
