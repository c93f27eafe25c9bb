package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/supplier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

func TestNoIncreasePolicy(t *testing.T) {
	tests := []struct {
		name     string
		original int64
		verified int64
		want     Comparison
	}{
		{"exact", 10000, 10000, Comparison{PriceDifference: 0, Allowed: true, IsExactPrice: true}},
		{"decrease", 10000, 9000, Comparison{PriceDifference: -1000, Allowed: true, IsExactPrice: false}},
		{"increase", 10000, 15000, Comparison{PriceDifference: 5000, Allowed: false, IsExactPrice: false}},
		{"minor increase", 10000, 10001, Comparison{PriceDifference: 1, Allowed: false, IsExactPrice: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NoIncreasePolicy{}.Evaluate(
				domain.NewMoney(tt.original, "USD"),
				domain.NewMoney(tt.verified, "USD"),
			)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifier_Recheck(t *testing.T) {
	adapter := &MockHotelAdapter{}
	registry := supplier.NewRegistry()
	registry.RegisterHotel("sunhotels", adapter)
	v := NewVerifier(registry, NoIncreasePolicy{})

	original := domain.Rate{Code: "SR-77", Total: domain.NewMoney(8000, "USD")}
	adapter.On("Recheck", mock.Anything, original).
		Return(&domain.Rate{Code: "SR-77", Total: domain.NewMoney(7500, "USD")}, nil).Once()

	verified, err := v.Recheck(context.Background(), "sunhotels", original)

	require.NoError(t, err)
	assert.Equal(t, original, verified.Original)
	assert.Equal(t, int64(-500), verified.Comparison.PriceDifference)
	assert.True(t, verified.Comparison.Allowed)
	assert.False(t, verified.Comparison.IsExactPrice)
	adapter.AssertExpectations(t)
}

func TestVerifier_Recheck_UnknownSupplier(t *testing.T) {
	v := NewVerifier(supplier.NewRegistry(), NoIncreasePolicy{})

	verified, err := v.Recheck(context.Background(), "ghost", domain.Rate{Code: "SR-77"})

	require.Error(t, err)
	assert.Nil(t, verified)
}

func TestVerifier_Recheck_SupplierError(t *testing.T) {
	adapter := &MockHotelAdapter{}
	registry := supplier.NewRegistry()
	registry.RegisterHotel("sunhotels", adapter)
	v := NewVerifier(registry, NoIncreasePolicy{})

	adapter.On("Recheck", mock.Anything, mock.Anything).Return(nil, errors.New("supplier timeout")).Once()

	verified, err := v.Recheck(context.Background(), "sunhotels", domain.Rate{Code: "SR-77"})

	require.Error(t, err)
	assert.Nil(t, verified)
	assert.Contains(t, err.Error(), "SR-77")
}

func TestVerifier_Recheck_RateVanished(t *testing.T) {
	adapter := &MockHotelAdapter{}
	registry := supplier.NewRegistry()
	registry.RegisterHotel("sunhotels", adapter)
	v := NewVerifier(registry, NoIncreasePolicy{})

	// An empty rate code means the supplier no longer knows the rate.
	adapter.On("Recheck", mock.Anything, mock.Anything).Return(&domain.Rate{}, nil).Once()

	verified, err := v.Recheck(context.Background(), "sunhotels", domain.Rate{Code: "SR-77"})

	require.Error(t, err)
	assert.Nil(t, verified)
}
