package domain

import "time"

type PaymentTransactionType string

const (
	PaymentTypeCharge PaymentTransactionType = "CHARGE"
	PaymentTypeRefund PaymentTransactionType = "REFUND"
)

type PaymentTransactionStatus string

const (
	PaymentStatusSucceeded PaymentTransactionStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentTransactionStatus = "FAILED"
)

// PaymentTransaction records one movement of money against the gateway.
// BookingID is zero until the owning booking row exists.
type PaymentTransaction struct {
	ID        int64
	ChargeID  string
	Type      PaymentTransactionType
	Amount    Money
	Status    PaymentTransactionStatus
	BookingID int64
	CreatedAt time.Time
}

// PaymentInstrument carries the tokenized card the customer pays with.
type PaymentInstrument struct {
	Token          string `json:"token"`
	HolderName     string `json:"holder_name"`
	ExpiryMonth    int    `json:"expiry_month"`
	ExpiryYear     int    `json:"expiry_year"`
	BillingPostal  string `json:"billing_postal,omitempty"`
	BillingCountry string `json:"billing_country,omitempty"`
}
