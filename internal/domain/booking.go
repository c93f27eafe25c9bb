package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusFailed    BookingStatus = "FAILED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	ID            int64
	RecordLocator string
	TransactionID string
	Status        BookingStatus
	Organization  string
	TravelerID    int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Traveler is the lead traveler persisted alongside a booking.
type Traveler struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// HotelReservation is the persisted result of a successful hotel booking.
// Rate holds the customer-facing (marked-up) price captured at search
// time, not the supplier's pre-markup rate.
type HotelReservation struct {
	ID                  int64
	BookingID           int64
	Supplier            string
	SupplierReservation string
	HotelID             string
	HotelName           string
	CheckIn             string
	CheckOut            string
	Rate                Money
	CreatedAt           time.Time
}

// ActivityReservation is the persisted result of a successful activity
// booking; line items live in ActivityReservationItem rows.
type ActivityReservation struct {
	ID                  int64
	BookingID           int64
	Supplier            string
	SupplierReservation string
	ActivityCode        string
	ActivityTitle       string
	Total               Money
	CreatedAt           time.Time
}

type ActivityReservationItem struct {
	ID            int64
	ReservationID int64
	VariantCode   string
	Date          string
	Quantity      int
	UnitPrice     Money
}
