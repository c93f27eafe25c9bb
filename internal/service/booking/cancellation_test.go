package booking

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/repository"
	"github.com/Domenick1991/travelbook/internal/supplier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func cancellableBooking(m *serviceMocks, status domain.BookingStatus, policy domain.CancellationPolicy) {
	m.bookings.On("GetByLocator", mock.Anything, "ABC234", "Lovelace").
		Return(&domain.Booking{ID: 42, RecordLocator: "ABC234", TransactionID: "tx-100", Status: status}, nil).Once()
	m.reservations.On("GetHotelForBooking", mock.Anything, int64(42)).
		Return(&domain.HotelReservation{ID: 7, BookingID: 42, Supplier: "sunhotels", SupplierReservation: "RES-9"}, nil).Once()
	m.policies.On("ListForReservation", mock.Anything, int64(7)).
		Return([]domain.CancellationPolicy{policy}, nil).Once()
	m.payments.On("GetChargeForBooking", mock.Anything, int64(42)).
		Return(&domain.PaymentTransaction{ChargeID: "ch_1", Amount: domain.NewMoney(50000, "USD")}, nil).Once()
}

func TestService_LookupCancellation_PartialRefund(t *testing.T) {
	svc, m := newTestService(t)
	cancellableBooking(m, domain.BookingStatusBooked, domain.CancellationPolicy{
		Type:    domain.PolicyPartialRefund,
		Penalty: domain.NewMoney(12500, "USD"),
	})

	quote, err := svc.LookupCancellation(context.Background(), "ABC234", "Lovelace")

	require.NoError(t, err)
	assert.Equal(t, domain.PolicyPartialRefund, quote.PolicyType)
	assert.Equal(t, domain.NewMoney(12500, "USD"), quote.PenaltyAmount)
	assert.Equal(t, domain.NewMoney(37500, "USD"), quote.RefundAmount)
	assert.True(t, quote.IsCancellable)
}

func TestService_LookupCancellation_NonRefundable(t *testing.T) {
	svc, m := newTestService(t)
	cancellableBooking(m, domain.BookingStatusBooked, domain.CancellationPolicy{
		Type: domain.PolicyNonRefundable,
	})

	quote, err := svc.LookupCancellation(context.Background(), "ABC234", "Lovelace")

	require.NoError(t, err)
	// The penalty is the whole charge, so nothing comes back.
	assert.Equal(t, domain.NewMoney(50000, "USD"), quote.PenaltyAmount)
	assert.Equal(t, int64(0), quote.RefundAmount.Amount)
	assert.False(t, quote.IsCancellable)
}

func TestService_LookupCancellation_SelectsActivePolicy(t *testing.T) {
	svc, m := newTestService(t)
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	WithClock(func() time.Time { return now })(svc)

	free := domain.CancellationPolicy{
		Type:       domain.PolicyFreeCancellation,
		ValidFrom:  now.AddDate(0, 0, -30),
		ValidUntil: now.AddDate(0, 0, -1),
	}
	partial := domain.CancellationPolicy{
		Type:       domain.PolicyPartialRefund,
		Penalty:    domain.NewMoney(10000, "USD"),
		ValidFrom:  now.AddDate(0, 0, -1),
		ValidUntil: now.AddDate(0, 0, 10),
	}
	m.bookings.On("GetByLocator", mock.Anything, "ABC234", "Lovelace").
		Return(&domain.Booking{ID: 42, RecordLocator: "ABC234", Status: domain.BookingStatusBooked}, nil).Once()
	m.reservations.On("GetHotelForBooking", mock.Anything, int64(42)).
		Return(&domain.HotelReservation{ID: 7, Supplier: "sunhotels", SupplierReservation: "RES-9"}, nil).Once()
	m.policies.On("ListForReservation", mock.Anything, int64(7)).
		Return([]domain.CancellationPolicy{free, partial}, nil).Once()
	m.payments.On("GetChargeForBooking", mock.Anything, int64(42)).
		Return(&domain.PaymentTransaction{ChargeID: "ch_1", Amount: domain.NewMoney(50000, "USD")}, nil).Once()

	quote, err := svc.LookupCancellation(context.Background(), "ABC234", "Lovelace")

	require.NoError(t, err)
	// The free window has lapsed; the partial-refund window applies now.
	assert.Equal(t, domain.PolicyPartialRefund, quote.PolicyType)
	assert.Equal(t, domain.NewMoney(40000, "USD"), quote.RefundAmount)
}

func TestService_ConfirmCancellation_RefundsAndCancels(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	cancellableBooking(m, domain.BookingStatusBooked, domain.CancellationPolicy{
		Type:    domain.PolicyPartialRefund,
		Penalty: domain.NewMoney(12500, "USD"),
	})

	m.hotel.On("Cancel", mock.Anything, supplier.CancelRequest{ReservationID: "RES-9"}).
		Return(&supplier.CancelResult{Confirmed: true, Reference: "CXL-1"}, nil).Once()
	m.gateway.On("Refund", mock.Anything, "ch_1", domain.NewMoney(37500, "USD")).
		Return(&domain.PaymentTransaction{ChargeID: "ch_1", Amount: domain.NewMoney(37500, "USD")}, nil).Once()
	m.payments.On("Create", mock.Anything, mock.MatchedBy(func(txn *domain.PaymentTransaction) bool {
		return txn.Type == domain.PaymentTypeRefund && txn.BookingID == 42
	})).Return(nil).Once()
	m.bookings.On("UpdateStatus", mock.Anything, int64(42), domain.BookingStatusCancelled).
		Return(&domain.Booking{ID: 42, Status: domain.BookingStatusCancelled}, nil).Once()
	m.recorder.On("Record", mock.MatchedBy(func(e interface{}) bool { return true })).Maybe()

	result, err := svc.ConfirmCancellation(ctx, "ABC234", "Lovelace")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, result.Status)
	assert.Equal(t, domain.NewMoney(37500, "USD"), result.RefundAmount)

	m.hotel.AssertExpectations(t)
	m.gateway.AssertExpectations(t)
	m.payments.AssertExpectations(t)
	m.bookings.AssertExpectations(t)
}

func TestService_ConfirmCancellation_NonRefundableRejected(t *testing.T) {
	svc, m := newTestService(t)
	cancellableBooking(m, domain.BookingStatusBooked, domain.CancellationPolicy{
		Type: domain.PolicyNonRefundable,
	})

	result, err := svc.ConfirmCancellation(context.Background(), "ABC234", "Lovelace")

	require.Error(t, err)
	assert.Nil(t, result)
	var cancelErr *CancellationError
	require.ErrorAs(t, err, &cancelErr)
	assert.Equal(t, "booking is non-refundable", cancelErr.Reason)
	m.hotel.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
	m.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ConfirmCancellation_AlreadyCancelled(t *testing.T) {
	svc, m := newTestService(t)
	cancellableBooking(m, domain.BookingStatusCancelled, domain.CancellationPolicy{
		Type: domain.PolicyFreeCancellation,
	})

	result, err := svc.ConfirmCancellation(context.Background(), "ABC234", "Lovelace")

	require.Error(t, err)
	assert.Nil(t, result)
	var cancelErr *CancellationError
	require.ErrorAs(t, err, &cancelErr)
	assert.Equal(t, "booking is not currently active", cancelErr.Reason)
	// A repeat confirm must not touch the supplier or the gateway.
	m.hotel.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
	m.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything)
	m.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ConfirmCancellation_SupplierMustConfirm(t *testing.T) {
	svc, m := newTestService(t)
	cancellableBooking(m, domain.BookingStatusBooked, domain.CancellationPolicy{
		Type: domain.PolicyFreeCancellation,
	})
	m.hotel.On("Cancel", mock.Anything, supplier.CancelRequest{ReservationID: "RES-9"}).
		Return(&supplier.CancelResult{Confirmed: false}, nil).Once()

	result, err := svc.ConfirmCancellation(context.Background(), "ABC234", "Lovelace")

	require.Error(t, err)
	assert.Nil(t, result)
	// Without supplier confirmation no money moves and the booking stays
	// BOOKED.
	m.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything)
	m.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ConfirmCancellation_PenaltyCurrencyMismatch(t *testing.T) {
	svc, m := newTestService(t)
	cancellableBooking(m, domain.BookingStatusBooked, domain.CancellationPolicy{
		Type:    domain.PolicyPartialRefund,
		Penalty: domain.NewMoney(5000, "EUR"),
	})
	m.hotel.On("Cancel", mock.Anything, mock.Anything).
		Return(&supplier.CancelResult{Confirmed: true}, nil).Once()

	result, err := svc.ConfirmCancellation(context.Background(), "ABC234", "Lovelace")

	require.Error(t, err)
	assert.Nil(t, result)
	var cancelErr *CancellationError
	require.ErrorAs(t, err, &cancelErr)
	m.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_LookupCancellation_NotFound(t *testing.T) {
	svc, m := newTestService(t)
	m.bookings.On("GetByLocator", mock.Anything, "ZZZZZZ", "Nobody").
		Return(nil, repository.ErrBookingNotFound).Once()

	quote, err := svc.LookupCancellation(context.Background(), "ZZZZZZ", "Nobody")

	require.Error(t, err)
	assert.Nil(t, quote)
	var cancelErr *CancellationError
	require.ErrorAs(t, err, &cancelErr)
	assert.Equal(t, "booking not found", cancelErr.Reason)
	assert.True(t, cancelErr.NotFound)
}
