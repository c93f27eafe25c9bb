package domain

import "time"

type CancellationPolicyType string

const (
	PolicyFreeCancellation CancellationPolicyType = "FREE_CANCELLATION"
	PolicyPartialRefund    CancellationPolicyType = "PARTIAL_REFUND"
	PolicyNonRefundable    CancellationPolicyType = "NON_REFUNDABLE"
	PolicyUnknown          CancellationPolicyType = "UNKNOWN"
)

// CancellationPolicy is written once at booking time from supplier data
// and never mutated. Several policies can coexist per reservation with
// overlapping or sequential validity windows.
type CancellationPolicy struct {
	ID            int64
	ReservationID int64
	Type          CancellationPolicyType
	ValidFrom     time.Time
	ValidUntil    time.Time
	Penalty       Money
	CreatedAt     time.Time
}

// ActiveAt reports whether the policy's validity window contains t.
func (p CancellationPolicy) ActiveAt(t time.Time) bool {
	return !t.Before(p.ValidFrom) && t.Before(p.ValidUntil)
}
