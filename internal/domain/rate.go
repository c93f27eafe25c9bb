package domain

// Rate is a priced, bookable option minted at search time. Code is the
// identifier the owning side (supplier or customer) knows the rate by.
type Rate struct {
	Code  string `json:"code"`
	Total Money  `json:"total"`
}

// HotelSnapshot is the denormalized hotel context captured at search
// time, enough to rebuild a supplier booking request without a second
// search.
type HotelSnapshot struct {
	HotelID  string `json:"hotel_id"`
	Name     string `json:"name"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	RoomCode string `json:"room_code"`
	Guests   int    `json:"guests"`
}

// HotelRateEntry correlates a customer-facing rate code with the
// supplier rate it was derived from. SupplierRate is pre-markup;
// CustomerRate is what the customer was shown and is billed.
type HotelRateEntry struct {
	Supplier     string        `json:"supplier"`
	SupplierRate Rate          `json:"supplier_rate"`
	CustomerRate Rate          `json:"customer_rate"`
	Hotel        HotelSnapshot `json:"hotel"`
}

// ActivityEntry is the cached activity payload written by the search
// path and read back at booking time.
type ActivityEntry struct {
	Supplier     string `json:"supplier"`
	ActivityCode string `json:"activity_code"`
	Title        string `json:"title"`
}

// ActivityVariant is one bookable date+code combination of an activity,
// cached with its customer-facing unit price.
type ActivityVariant struct {
	Code  string `json:"code"`
	Date  string `json:"date"`
	Price Money  `json:"price"`
}
