package booking

import (
	"context"
	"time"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/kafka"
	"github.com/Domenick1991/travelbook/internal/pricing"
	"github.com/Domenick1991/travelbook/internal/supplier"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreatePending(ctx context.Context, traveler *domain.Traveler, booking *domain.Booking) error {
	args := m.Called(ctx, traveler, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByLocator(ctx context.Context, recordLocator, lastName string) (*domain.Booking, error) {
	args := m.Called(ctx, recordLocator, lastName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetTraveler(ctx context.Context, travelerID int64) (*domain.Traveler, error) {
	args := m.Called(ctx, travelerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Traveler), args.Error(1)
}

func (m *MockBookingRepository) LocatorExists(ctx context.Context, recordLocator string) (bool, error) {
	args := m.Called(ctx, recordLocator)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) FailPendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, txn *domain.PaymentTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetChargeForBooking(ctx context.Context, bookingID int64) (*domain.PaymentTransaction, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentTransaction), args.Error(1)
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) CreateHotel(ctx context.Context, res *domain.HotelReservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *MockReservationRepository) GetHotelForBooking(ctx context.Context, bookingID int64) (*domain.HotelReservation, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HotelReservation), args.Error(1)
}

func (m *MockReservationRepository) CreateActivity(ctx context.Context, res *domain.ActivityReservation, items []domain.ActivityReservationItem) error {
	args := m.Called(ctx, res, items)
	return args.Error(0)
}

type MockPolicyRepository struct {
	mock.Mock
}

func (m *MockPolicyRepository) Create(ctx context.Context, policy *domain.CancellationPolicy) error {
	args := m.Called(ctx, policy)
	return args.Error(0)
}

func (m *MockPolicyRepository) ListForReservation(ctx context.Context, reservationID int64) ([]domain.CancellationPolicy, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CancellationPolicy), args.Error(1)
}

type MockLockManager struct {
	mock.Mock
}

func (m *MockLockManager) AcquireOrWait(ctx context.Context, firstName, lastName string, request []byte) ([]byte, error) {
	args := m.Called(ctx, firstName, lastName, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockLockManager) Release(ctx context.Context, firstName, lastName string, response []byte) error {
	args := m.Called(ctx, firstName, lastName, response)
	return args.Error(0)
}

func (m *MockLockManager) Abandon(ctx context.Context, firstName, lastName string) error {
	args := m.Called(ctx, firstName, lastName)
	return args.Error(0)
}

type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) GetHotelRate(ctx context.Context, customerRateCode string) (*domain.HotelRateEntry, error) {
	args := m.Called(ctx, customerRateCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HotelRateEntry), args.Error(1)
}

func (m *MockRateSource) GetActivity(ctx context.Context, activityCode string) (*domain.ActivityEntry, error) {
	args := m.Called(ctx, activityCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActivityEntry), args.Error(1)
}

func (m *MockRateSource) GetVariant(ctx context.Context, date, code string) (*domain.ActivityVariant, error) {
	args := m.Called(ctx, date, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActivityVariant), args.Error(1)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Recheck(ctx context.Context, supplierName string, original domain.Rate) (*pricing.VerifiedRate, error) {
	args := m.Called(ctx, supplierName, original)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.VerifiedRate), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Authorize(ctx context.Context, amount domain.Money, instrument domain.PaymentInstrument, description string) (*domain.PaymentTransaction, error) {
	args := m.Called(ctx, amount, instrument, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentTransaction), args.Error(1)
}

func (m *MockGateway) Refund(ctx context.Context, chargeID string, amount domain.Money) (*domain.PaymentTransaction, error) {
	args := m.Called(ctx, chargeID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentTransaction), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(event kafka.AnalyticsEvent) {
	m.Called(event)
}

type MockHotelAdapter struct {
	mock.Mock
}

func (m *MockHotelAdapter) Recheck(ctx context.Context, rate domain.Rate) (*domain.Rate, error) {
	args := m.Called(ctx, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rate), args.Error(1)
}

func (m *MockHotelAdapter) Book(ctx context.Context, req supplier.HotelBookingRequest) (*supplier.HotelReservation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supplier.HotelReservation), args.Error(1)
}

func (m *MockHotelAdapter) Cancel(ctx context.Context, req supplier.CancelRequest) (*supplier.CancelResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supplier.CancelResult), args.Error(1)
}

type MockActivityAdapter struct {
	mock.Mock
}

func (m *MockActivityAdapter) Book(ctx context.Context, req supplier.ActivityBookingRequest) (*supplier.ActivityReservation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supplier.ActivityReservation), args.Error(1)
}

func (m *MockActivityAdapter) Cancel(ctx context.Context, req supplier.CancelRequest) (*supplier.CancelResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supplier.CancelResult), args.Error(1)
}
