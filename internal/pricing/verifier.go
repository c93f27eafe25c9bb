package pricing

import (
	"context"
	"fmt"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/supplier"
)

// Comparison is the outcome of applying a policy to an original quote
// and the live supplier price.
type Comparison struct {
	PriceDifference int64
	Allowed         bool
	IsExactPrice    bool
}

// ComparisonPolicy decides whether a live price is acceptable against
// the originally quoted one. Strategy; only NoIncreasePolicy ships.
type ComparisonPolicy interface {
	Evaluate(original, verified domain.Money) Comparison
}

// NoIncreasePolicy allows a change iff the price dropped or stayed the
// same.
type NoIncreasePolicy struct{}

func (NoIncreasePolicy) Evaluate(original, verified domain.Money) Comparison {
	diff := verified.Amount - original.Amount
	return Comparison{
		PriceDifference: diff,
		Allowed:         diff <= 0,
		IsExactPrice:    diff == 0,
	}
}

// VerifiedRate is the result of a successful recheck.
type VerifiedRate struct {
	Original   domain.Rate
	Verified   domain.Rate
	Comparison Comparison
}

// Verifier re-queries a supplier for the current price of a cached rate
// and applies the comparison policy.
type Verifier struct {
	suppliers *supplier.Registry
	policy    ComparisonPolicy
}

func NewVerifier(suppliers *supplier.Registry, policy ComparisonPolicy) *Verifier {
	return &Verifier{suppliers: suppliers, policy: policy}
}

// Recheck fetches a fresh rate and evaluates it. A supplier returning no
// matching rate is a hard failure, not a business rejection.
func (v *Verifier) Recheck(ctx context.Context, supplierName string, original domain.Rate) (*VerifiedRate, error) {
	adapter, err := v.suppliers.Hotel(supplierName)
	if err != nil {
		return nil, err
	}

	verified, err := adapter.Recheck(ctx, original)
	if err != nil {
		return nil, fmt.Errorf("recheck rate %s with %s: %w", original.Code, supplierName, err)
	}
	if verified == nil || verified.Code == "" {
		return nil, fmt.Errorf("supplier %s returned no rate for code %s", supplierName, original.Code)
	}

	return &VerifiedRate{
		Original:   original,
		Verified:   *verified,
		Comparison: v.policy.Evaluate(original.Total, verified.Total),
	}, nil
}
