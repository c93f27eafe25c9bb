package repository

import (
	"context"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PolicyRepository interface {
	Create(ctx context.Context, policy *domain.CancellationPolicy) error
	ListForReservation(ctx context.Context, reservationID int64) ([]domain.CancellationPolicy, error)
}

type PGPolicyRepository struct {
	db *pgxpool.Pool
}

func NewPolicyRepository(db *pgxpool.Pool) PolicyRepository {
	return &PGPolicyRepository{db: db}
}

func (r *PGPolicyRepository) Create(ctx context.Context, policy *domain.CancellationPolicy) error {
	return r.db.QueryRow(ctx, `INSERT INTO cancellation_policies (reservation_id, type, valid_from, valid_until, penalty_amount, penalty_currency)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		policy.ReservationID, policy.Type, policy.ValidFrom, policy.ValidUntil, policy.Penalty.Amount, policy.Penalty.Currency).
		Scan(&policy.ID, &policy.CreatedAt)
}

func (r *PGPolicyRepository) ListForReservation(ctx context.Context, reservationID int64) ([]domain.CancellationPolicy, error) {
	rows, err := r.db.Query(ctx, `SELECT id, reservation_id, type, valid_from, valid_until, penalty_amount, penalty_currency, created_at
		FROM cancellation_policies WHERE reservation_id=$1 ORDER BY valid_from`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []domain.CancellationPolicy
	for rows.Next() {
		var p domain.CancellationPolicy
		if err := rows.Scan(&p.ID, &p.ReservationID, &p.Type, &p.ValidFrom, &p.ValidUntil, &p.Penalty.Amount, &p.Penalty.Currency, &p.CreatedAt); err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

var _ PolicyRepository = (*PGPolicyRepository)(nil)
