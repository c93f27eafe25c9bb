package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/travelbook/internal/domain"
)

// Gateway is the payment processor contract. Authorize returning nil or
// a transaction without a charge id is treated as failure by callers.
type Gateway interface {
	Authorize(ctx context.Context, amount domain.Money, instrument domain.PaymentInstrument, description string) (*domain.PaymentTransaction, error)
	Refund(ctx context.Context, chargeID string, amount domain.Money) (*domain.PaymentTransaction, error)
}

// ErrorCode classifies gateway declines so the API layer can answer with
// something more useful than "payment failed".
type ErrorCode string

const (
	CodeDeclined          ErrorCode = "CARD_DECLINED"
	CodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	CodeInvalidCard       ErrorCode = "INVALID_CARD"
	CodeProcessorError    ErrorCode = "PROCESSOR_ERROR"
)

// GatewayError is a classified failure from the payment processor.
type GatewayError struct {
	Code    ErrorCode
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway: %s (%s)", e.Message, e.Code)
}

// CodeOf extracts the gateway error code, defaulting to processor error
// for anything unclassified.
func CodeOf(err error) ErrorCode {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return CodeProcessorError
}
