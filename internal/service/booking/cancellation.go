package booking

import (
	"context"
	"errors"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/kafka"
	"github.com/Domenick1991/travelbook/internal/repository"
	"github.com/Domenick1991/travelbook/internal/supplier"
)

// CancellationQuote is what Lookup reports before the customer commits.
type CancellationQuote struct {
	RecordLocator string                        `json:"record_locator"`
	Status        domain.BookingStatus          `json:"status"`
	PolicyType    domain.CancellationPolicyType `json:"policy_type"`
	PenaltyAmount domain.Money                  `json:"penalty_amount"`
	RefundAmount  domain.Money                  `json:"refund_amount"`
	IsCancellable bool                          `json:"is_cancellable"`
}

type CancellationResult struct {
	RecordLocator string               `json:"record_locator"`
	Status        domain.BookingStatus `json:"status"`
	RefundAmount  domain.Money         `json:"refund_amount"`
}

// cancellationContext bundles everything both operations re-derive.
type cancellationContext struct {
	booking     *domain.Booking
	reservation *domain.HotelReservation
	policy      domain.CancellationPolicy
	charge      *domain.PaymentTransaction
	quote       CancellationQuote
}

// LookupCancellation resolves a booking by (record locator, last name)
// and computes the penalty and refund the active policy implies.
func (s *Service) LookupCancellation(ctx context.Context, recordLocator, lastName string) (*CancellationQuote, error) {
	cc, err := s.resolveCancellation(ctx, recordLocator, lastName)
	if err != nil {
		return nil, err
	}
	return &cc.quote, nil
}

// ConfirmCancellation executes the cancellation: supplier cancel,
// currency check, refund when due, booking to CANCELLED. A second
// confirm on an already cancelled booking fails fast without contacting
// the supplier or the gateway again.
func (s *Service) ConfirmCancellation(ctx context.Context, recordLocator, lastName string) (*CancellationResult, error) {
	cc, err := s.resolveCancellation(ctx, recordLocator, lastName)
	if err != nil {
		return nil, err
	}

	if cc.booking.Status != domain.BookingStatusBooked {
		return nil, &CancellationError{Reason: "booking is not currently active"}
	}
	if !cc.quote.IsCancellable {
		return nil, &CancellationError{Reason: "booking is non-refundable"}
	}

	adapter, err := s.suppliers.Hotel(cc.reservation.Supplier)
	if err != nil {
		return nil, &CancellationError{Reason: err.Error()}
	}
	result, err := adapter.Cancel(ctx, supplier.CancelRequest{ReservationID: cc.reservation.SupplierReservation})
	if err != nil {
		return nil, &CancellationError{Reason: "supplier rejected cancellation: " + err.Error()}
	}
	if result == nil || !result.Confirmed {
		return nil, &CancellationError{Reason: "supplier did not confirm cancellation"}
	}

	if cc.policy.Penalty.Amount != 0 && cc.policy.Penalty.Currency != cc.charge.Amount.Currency {
		return nil, &CancellationError{Reason: "penalty currency does not match the original payment"}
	}

	refundAmount := cc.quote.RefundAmount
	if refundAmount.Amount > 0 {
		refund, err := s.gateway.Refund(ctx, cc.charge.ChargeID, refundAmount)
		if err != nil {
			return nil, &CancellationError{Reason: "refund failed: " + err.Error()}
		}
		refund.Type = domain.PaymentTypeRefund
		refund.Status = domain.PaymentStatusSucceeded
		refund.BookingID = cc.booking.ID
		if perr := s.payments.Create(ctx, refund); perr != nil {
			s.log.Error("persist cancellation refund", "charge_id", cc.charge.ChargeID, "error", perr)
		}
		if s.metrics != nil {
			s.metrics.PaymentRefunds.Inc()
		}
	}

	if _, err := s.bookings.UpdateStatus(ctx, cc.booking.ID, domain.BookingStatusCancelled); err != nil {
		s.log.Error("mark booking CANCELLED", "record_locator", recordLocator, "error", err)
	}
	if s.metrics != nil {
		s.metrics.Cancellations.Inc()
	}
	s.record(kafka.AnalyticsEvent{
		Kind:          "booking_cancelled",
		RecordLocator: recordLocator,
		TransactionID: cc.booking.TransactionID,
		Amount:        refundAmount.Amount,
		Currency:      refundAmount.Currency,
	})
	s.log.Info("booking cancelled", "record_locator", recordLocator, "refund", refundAmount.String())

	return &CancellationResult{
		RecordLocator: recordLocator,
		Status:        domain.BookingStatusCancelled,
		RefundAmount:  refundAmount,
	}, nil
}

func (s *Service) resolveCancellation(ctx context.Context, recordLocator, lastName string) (*cancellationContext, error) {
	bk, err := s.bookings.GetByLocator(ctx, recordLocator, lastName)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, &CancellationError{Reason: "booking not found", NotFound: true}
		}
		return nil, err
	}

	reservation, err := s.reservations.GetHotelForBooking(ctx, bk.ID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, &CancellationError{Reason: "no hotel reservation on this booking"}
		}
		return nil, err
	}

	policy, err := s.activePolicy(ctx, reservation.ID)
	if err != nil {
		return nil, err
	}

	charge, err := s.payments.GetChargeForBooking(ctx, bk.ID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, &CancellationError{Reason: "no payment on file for this booking"}
		}
		return nil, err
	}

	quote := buildQuote(bk, policy, charge)
	return &cancellationContext{
		booking:     bk,
		reservation: reservation,
		policy:      policy,
		charge:      charge,
		quote:       quote,
	}, nil
}

// activePolicy selects the policy whose validity window contains now,
// or the sole policy unconditionally when only one exists. No match is
// a hard failure.
func (s *Service) activePolicy(ctx context.Context, reservationID int64) (domain.CancellationPolicy, error) {
	policies, err := s.policies.ListForReservation(ctx, reservationID)
	if err != nil {
		return domain.CancellationPolicy{}, err
	}
	if len(policies) == 0 {
		return domain.CancellationPolicy{}, &CancellationError{Reason: "no cancellation policy on file"}
	}
	if len(policies) == 1 {
		return policies[0], nil
	}
	now := s.now()
	for _, p := range policies {
		if p.ActiveAt(now) {
			return p, nil
		}
	}
	return domain.CancellationPolicy{}, &CancellationError{Reason: "no cancellation policy active at this time"}
}

func buildQuote(bk *domain.Booking, policy domain.CancellationPolicy, charge *domain.PaymentTransaction) CancellationQuote {
	original := charge.Amount

	var penalty domain.Money
	switch policy.Type {
	case domain.PolicyNonRefundable:
		penalty = original
	case domain.PolicyFreeCancellation:
		penalty = domain.Money{Amount: 0, Currency: original.Currency}
	default:
		penalty = policy.Penalty
	}

	// Refund is the charge minus the penalty, capped at the original
	// amount so a negative penalty can never refund more than was paid.
	refundAmount := original.Abs() - penalty.Abs()
	if refundAmount > original.Amount {
		refundAmount = original.Amount
	}

	return CancellationQuote{
		RecordLocator: bk.RecordLocator,
		Status:        bk.Status,
		PolicyType:    policy.Type,
		PenaltyAmount: penalty,
		RefundAmount:  domain.Money{Amount: refundAmount, Currency: original.Currency},
		IsCancellable: policy.Type == domain.PolicyFreeCancellation || policy.Type == domain.PolicyPartialRefund,
	}
}
