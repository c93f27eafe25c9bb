package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/google/uuid"
)

// RESTGateway talks to the payment processor's JSON API.
type RESTGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRESTGateway(baseURL, apiKey string, timeout time.Duration) *RESTGateway {
	return &RESTGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type chargeRequest struct {
	IdempotencyKey string                   `json:"idempotency_key"`
	Amount         int64                    `json:"amount"`
	Currency       string                   `json:"currency"`
	Instrument     domain.PaymentInstrument `json:"instrument"`
	Description    string                   `json:"description"`
}

type refundRequest struct {
	ChargeID string `json:"charge_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type gatewayResponse struct {
	ChargeID     string `json:"charge_id"`
	Status       string `json:"status"`
	DeclineCode  string `json:"decline_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func (g *RESTGateway) Authorize(ctx context.Context, amount domain.Money, instrument domain.PaymentInstrument, description string) (*domain.PaymentTransaction, error) {
	req := chargeRequest{
		IdempotencyKey: uuid.NewString(),
		Amount:         amount.Amount,
		Currency:       amount.Currency,
		Instrument:     instrument,
		Description:    description,
	}

	resp, err := g.post(ctx, "/charges", req)
	if err != nil {
		return nil, err
	}
	if resp.Status != "succeeded" || resp.ChargeID == "" {
		return nil, declineError(resp)
	}

	return &domain.PaymentTransaction{
		ChargeID: resp.ChargeID,
		Type:     domain.PaymentTypeCharge,
		Amount:   amount,
		Status:   domain.PaymentStatusSucceeded,
	}, nil
}

func (g *RESTGateway) Refund(ctx context.Context, chargeID string, amount domain.Money) (*domain.PaymentTransaction, error) {
	resp, err := g.post(ctx, "/refunds", refundRequest{ChargeID: chargeID, Amount: amount.Amount, Currency: amount.Currency})
	if err != nil {
		return nil, err
	}
	if resp.Status != "succeeded" {
		return nil, declineError(resp)
	}

	return &domain.PaymentTransaction{
		ChargeID: chargeID,
		Type:     domain.PaymentTypeRefund,
		Amount:   amount,
		Status:   domain.PaymentStatusSucceeded,
	}, nil
}

func (g *RESTGateway) post(ctx context.Context, path string, payload interface{}) (*gatewayResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		// The processor is down; its body may be anything (HTML error
		// pages included), so a failed decode is not an error here.
		var out gatewayResponse
		_ = json.NewDecoder(resp.Body).Decode(&out)
		return nil, &GatewayError{Code: CodeProcessorError, Message: out.ErrorMessage}
	}

	var out gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	return &out, nil
}

// declineError maps processor decline codes onto the local taxonomy.
func declineError(resp *gatewayResponse) error {
	code := CodeProcessorError
	switch resp.DeclineCode {
	case "card_declined", "do_not_honor":
		code = CodeDeclined
	case "insufficient_funds":
		code = CodeInsufficientFunds
	case "invalid_number", "invalid_expiry", "invalid_cvc":
		code = CodeInvalidCard
	}
	msg := resp.ErrorMessage
	if msg == "" {
		msg = "authorization was not accepted"
	}
	return &GatewayError{Code: code, Message: msg}
}

var _ Gateway = (*RESTGateway)(nil)
