package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrBookingNotFound is returned when no booking matches the lookup.
var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository interface {
	CreatePending(ctx context.Context, traveler *domain.Traveler, booking *domain.Booking) error
	UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error)
	GetByLocator(ctx context.Context, recordLocator, lastName string) (*domain.Booking, error)
	GetTraveler(ctx context.Context, travelerID int64) (*domain.Traveler, error)
	LocatorExists(ctx context.Context, recordLocator string) (bool, error)
	FailPendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// CreatePending inserts the lead traveler and the PENDING booking row in
// one transaction.
func (r *PGBookingRepository) CreatePending(ctx context.Context, traveler *domain.Traveler, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO travelers (first_name, last_name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`, traveler.FirstName, traveler.LastName, traveler.Email, traveler.Phone).
		Scan(&traveler.ID, &traveler.CreatedAt); err != nil {
		return err
	}

	booking.Status = domain.BookingStatusPending
	booking.TravelerID = traveler.ID
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (record_locator, transaction_id, status, organization, traveler_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`, booking.RecordLocator, booking.TransactionID, booking.Status, booking.Organization, booking.TravelerID).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 RETURNING id, record_locator, transaction_id, status, organization, traveler_id, created_at, updated_at`, status, bookingID)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.RecordLocator, &b.TransactionID, &b.Status, &b.Organization, &b.TravelerID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetByLocator resolves a booking by (record locator, last name), the
// low-friction customer lookup used by the cancellation workflow.
func (r *PGBookingRepository) GetByLocator(ctx context.Context, recordLocator, lastName string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT b.id, b.record_locator, b.transaction_id, b.status, b.organization, b.traveler_id, b.created_at, b.updated_at
		FROM bookings b JOIN travelers t ON t.id = b.traveler_id
		WHERE b.record_locator=$1 AND t.last_name=$2`, recordLocator, lastName)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.RecordLocator, &b.TransactionID, &b.Status, &b.Organization, &b.TravelerID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) GetTraveler(ctx context.Context, travelerID int64) (*domain.Traveler, error) {
	row := r.db.QueryRow(ctx, `SELECT id, first_name, last_name, email, phone, created_at FROM travelers WHERE id=$1`, travelerID)
	var t domain.Traveler
	if err := row.Scan(&t.ID, &t.FirstName, &t.LastName, &t.Email, &t.Phone, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PGBookingRepository) LocatorExists(ctx context.Context, recordLocator string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE record_locator=$1)`, recordLocator).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FailPendingBefore marks bookings stuck in PENDING since before the
// deadline as FAILED. Run periodically by the worker so crashed
// orchestrations do not linger.
func (r *PGBookingRepository) FailPendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE status=$2 AND created_at <= $3 RETURNING id, record_locator, transaction_id, status, organization, traveler_id, created_at, updated_at`, domain.BookingStatusFailed, domain.BookingStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failed []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.RecordLocator, &b.TransactionID, &b.Status, &b.Organization, &b.TravelerID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		failed = append(failed, b)
	}
	return failed, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
