package domain

import "fmt"

// Money is an amount in minor units (cents) with its ISO currency code.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func NewMoney(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

func (m Money) IsZero() bool {
	return m.Amount == 0 && m.Currency == ""
}

func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

// Add returns m+other. Currencies must match; mixing them is a caller bug
// that the orchestrator screens out before any addition happens.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("cannot add %s to %s", other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

func (m Money) String() string {
	sign := ""
	if m.Amount < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, abs(m.Amount)/100, abs(m.Amount)%100, m.Currency)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Abs returns the amount with the sign stripped.
func (m Money) Abs() int64 {
	return abs(m.Amount)
}
