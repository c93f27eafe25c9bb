package booking

import "github.com/Domenick1991/travelbook/internal/domain"

// CustomerInfo identifies the customer placing the booking. First and
// last name also feed the dedup lock key, case-sensitive.
type CustomerInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type HotelSubRequest struct {
	RateCode string `json:"rate_code"`
}

type ActivityItemRequest struct {
	VariantCode string `json:"variant_code"`
	Date        string `json:"date"`
	Quantity    int    `json:"quantity"`
}

type ActivitySubRequest struct {
	ActivityCode string                `json:"activity_code"`
	Items        []ActivityItemRequest `json:"items"`
}

// BookingRequest is the immutable input to one orchestration attempt.
type BookingRequest struct {
	TransactionID  string                   `json:"transaction_id"`
	Customer       CustomerInfo             `json:"customer"`
	Payment        domain.PaymentInstrument `json:"payment"`
	Hotel          *HotelSubRequest         `json:"hotel,omitempty"`
	Activity       *ActivitySubRequest      `json:"activity,omitempty"`
	AdditionalInfo map[string]string        `json:"additional_info,omitempty"`
}

type HotelReservationDetails struct {
	Supplier            string       `json:"supplier"`
	SupplierReservation string       `json:"supplier_reservation"`
	HotelName           string       `json:"hotel_name"`
	CheckIn             string       `json:"check_in"`
	CheckOut            string       `json:"check_out"`
	Rate                domain.Money `json:"rate"`
}

type ActivityReservationDetails struct {
	Supplier            string       `json:"supplier"`
	SupplierReservation string       `json:"supplier_reservation"`
	ActivityTitle       string       `json:"activity_title"`
	Total               domain.Money `json:"total"`
}

// BookingResponse is the aggregated outcome returned to the caller and,
// on shareable outcomes, published under the dedup response key.
type BookingResponse struct {
	Status        string                      `json:"status"`
	BookingID     int64                       `json:"booking_id,omitempty"`
	RecordLocator string                      `json:"record_locator,omitempty"`
	Error         string                      `json:"error,omitempty"`
	Hotel         *HotelReservationDetails    `json:"hotel,omitempty"`
	Activity      *ActivityReservationDetails `json:"activity,omitempty"`
}
