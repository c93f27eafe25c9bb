package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrReservationNotFound = errors.New("reservation not found")

type ReservationRepository interface {
	CreateHotel(ctx context.Context, res *domain.HotelReservation) error
	GetHotelForBooking(ctx context.Context, bookingID int64) (*domain.HotelReservation, error)
	CreateActivity(ctx context.Context, res *domain.ActivityReservation, items []domain.ActivityReservationItem) error
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

func (r *PGReservationRepository) CreateHotel(ctx context.Context, res *domain.HotelReservation) error {
	return r.db.QueryRow(ctx, `INSERT INTO hotel_reservations (booking_id, supplier, supplier_reservation, hotel_id, hotel_name, check_in, check_out, rate_amount, rate_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		res.BookingID, res.Supplier, res.SupplierReservation, res.HotelID, res.HotelName, res.CheckIn, res.CheckOut, res.Rate.Amount, res.Rate.Currency).
		Scan(&res.ID, &res.CreatedAt)
}

func (r *PGReservationRepository) GetHotelForBooking(ctx context.Context, bookingID int64) (*domain.HotelReservation, error) {
	row := r.db.QueryRow(ctx, `SELECT id, booking_id, supplier, supplier_reservation, hotel_id, hotel_name, check_in, check_out, rate_amount, rate_currency, created_at
		FROM hotel_reservations WHERE booking_id=$1`, bookingID)
	var res domain.HotelReservation
	if err := row.Scan(&res.ID, &res.BookingID, &res.Supplier, &res.SupplierReservation, &res.HotelID, &res.HotelName, &res.CheckIn, &res.CheckOut, &res.Rate.Amount, &res.Rate.Currency, &res.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// CreateActivity inserts the reservation and one row per line item in a
// single transaction.
func (r *PGReservationRepository) CreateActivity(ctx context.Context, res *domain.ActivityReservation, items []domain.ActivityReservationItem) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO activity_reservations (booking_id, supplier, supplier_reservation, activity_code, activity_title, total_amount, total_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		res.BookingID, res.Supplier, res.SupplierReservation, res.ActivityCode, res.ActivityTitle, res.Total.Amount, res.Total.Currency).
		Scan(&res.ID, &res.CreatedAt); err != nil {
		return err
	}

	for i := range items {
		items[i].ReservationID = res.ID
		if err := tx.QueryRow(ctx, `INSERT INTO activity_reservation_items (reservation_id, variant_code, date, quantity, unit_amount, unit_currency)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			items[i].ReservationID, items[i].VariantCode, items[i].Date, items[i].Quantity, items[i].UnitPrice.Amount, items[i].UnitPrice.Currency).
			Scan(&items[i].ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
