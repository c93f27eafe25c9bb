package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPaymentNotFound = errors.New("payment transaction not found")

type PaymentRepository interface {
	Create(ctx context.Context, txn *domain.PaymentTransaction) error
	GetChargeForBooking(ctx context.Context, bookingID int64) (*domain.PaymentTransaction, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

func (r *PGPaymentRepository) Create(ctx context.Context, txn *domain.PaymentTransaction) error {
	// booking_id is nullable; a charge can be recorded before its
	// booking exists.
	var bookingID interface{}
	if txn.BookingID != 0 {
		bookingID = txn.BookingID
	}
	return r.db.QueryRow(ctx, `INSERT INTO payment_transactions (charge_id, type, amount, currency, status, booking_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`, txn.ChargeID, txn.Type, txn.Amount.Amount, txn.Amount.Currency, txn.Status, bookingID).
		Scan(&txn.ID, &txn.CreatedAt)
}

// GetChargeForBooking returns the successful CHARGE owned by the
// booking. Exactly one exists for any booking that got past payment.
func (r *PGPaymentRepository) GetChargeForBooking(ctx context.Context, bookingID int64) (*domain.PaymentTransaction, error) {
	row := r.db.QueryRow(ctx, `SELECT id, charge_id, type, amount, currency, status, booking_id, created_at
		FROM payment_transactions
		WHERE booking_id=$1 AND type=$2 AND status=$3
		ORDER BY created_at LIMIT 1`, bookingID, domain.PaymentTypeCharge, domain.PaymentStatusSucceeded)
	var t domain.PaymentTransaction
	if err := row.Scan(&t.ID, &t.ChargeID, &t.Type, &t.Amount.Amount, &t.Amount.Currency, &t.Status, &t.BookingID, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &t, nil
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
