package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/repository"
	"github.com/Domenick1991/travelbook/internal/supplier"
	"github.com/Domenick1991/travelbook/pkg/logger"
)

type hotelProcessor struct {
	request   *BookingRequest
	bookingID int64

	rates        rateSource
	verifier     rateVerifier
	suppliers    *supplier.Registry
	reservations repository.ReservationRepository
	policies     repository.PolicyRepository
	log          logger.Logger

	// resolved is computed once per processor instance; totalPrice,
	// book and cancelReservation all need it.
	resolved    *domain.HotelRateEntry
	resolveErr  error
	resolveDone bool

	booked *domain.HotelReservation
}

func newHotelProcessor(req *BookingRequest, bookingID int64, deps *Service) *hotelProcessor {
	return &hotelProcessor{
		request:      req,
		bookingID:    bookingID,
		rates:        deps.rates,
		verifier:     deps.verifier,
		suppliers:    deps.suppliers,
		reservations: deps.reservations,
		policies:     deps.policies,
		log:          deps.log,
	}
}

func (p *hotelProcessor) product() string { return "hotel" }

// resolve fetches the correlation entry and verifies the live supplier
// price against it. Running verification here means a disallowed price
// increase surfaces on the first totalPrice call, before any payment is
// authorized and before book issues the supplier request.
func (p *hotelProcessor) resolve(ctx context.Context) (*domain.HotelRateEntry, error) {
	if p.resolveDone {
		return p.resolved, p.resolveErr
	}
	p.resolveDone = true

	entry, err := p.rates.GetHotelRate(ctx, p.request.Hotel.RateCode)
	if err != nil {
		p.resolveErr = err
		return nil, err
	}

	verified, err := p.verifier.Recheck(ctx, entry.Supplier, entry.SupplierRate)
	if err != nil {
		p.resolveErr = err
		return nil, err
	}
	if !verified.Comparison.Allowed {
		p.resolveErr = &PriceVerificationError{
			RateCode:        p.request.Hotel.RateCode,
			OriginalAmount:  verified.Original.Total.Amount,
			VerifiedAmount:  verified.Verified.Total.Amount,
			PriceDifference: verified.Comparison.PriceDifference,
		}
		return nil, p.resolveErr
	}

	p.resolved = entry
	return entry, nil
}

func (p *hotelProcessor) totalPrice(ctx context.Context) (*domain.Money, error) {
	if p.request.Hotel == nil {
		return nil, nil
	}
	entry, err := p.resolve(ctx)
	if err != nil {
		return nil, err
	}
	// The customer pays the marked-up rate they were quoted.
	total := entry.CustomerRate.Total
	return &total, nil
}

func (p *hotelProcessor) book(ctx context.Context) error {
	if p.request.Hotel == nil {
		return nil
	}
	entry, err := p.resolve(ctx)
	if err != nil {
		return err
	}

	adapter, err := p.suppliers.Hotel(entry.Supplier)
	if err != nil {
		return err
	}

	// The supplier request carries supplier-side identifiers only; the
	// customer-facing rate code never leaves this service.
	reservation, err := adapter.Book(ctx, supplier.HotelBookingRequest{
		HotelID:       entry.Hotel.HotelID,
		RateCode:      entry.SupplierRate.Code,
		RoomCode:      entry.Hotel.RoomCode,
		CheckIn:       entry.Hotel.CheckIn,
		CheckOut:      entry.Hotel.CheckOut,
		GuestFirst:    p.request.Customer.FirstName,
		GuestLast:     p.request.Customer.LastName,
		GuestEmail:    p.request.Customer.Email,
		GuestPhone:    p.request.Customer.Phone,
		TransactionID: p.request.TransactionID,
	})
	if err != nil {
		return err
	}

	// Persist with the originally cached, marked-up rate. The supplier
	// returns its pre-markup rate, which is not what the customer was
	// billed.
	record := &domain.HotelReservation{
		BookingID:           p.bookingID,
		Supplier:            entry.Supplier,
		SupplierReservation: reservation.ReservationID,
		HotelID:             entry.Hotel.HotelID,
		HotelName:           entry.Hotel.Name,
		CheckIn:             entry.Hotel.CheckIn,
		CheckOut:            entry.Hotel.CheckOut,
		Rate:                entry.CustomerRate.Total,
	}
	if err := p.reservations.CreateHotel(ctx, record); err != nil {
		return fmt.Errorf("persist hotel reservation: %w", err)
	}
	p.booked = record

	for _, term := range reservation.Policies {
		policy, err := policyFromTerm(record.ID, term)
		if err != nil {
			p.log.Warn("skipping malformed cancellation policy", "booking_id", p.bookingID, "error", err)
			continue
		}
		if err := p.policies.Create(ctx, policy); err != nil {
			return fmt.Errorf("persist cancellation policy: %w", err)
		}
	}

	return nil
}

func (p *hotelProcessor) hasReservation() bool {
	return p.booked != nil
}

func (p *hotelProcessor) fillResponse(resp *BookingResponse) {
	if p.booked == nil {
		return
	}
	resp.Hotel = &HotelReservationDetails{
		Supplier:            p.booked.Supplier,
		SupplierReservation: p.booked.SupplierReservation,
		HotelName:           p.booked.HotelName,
		CheckIn:             p.booked.CheckIn,
		CheckOut:            p.booked.CheckOut,
		Rate:                p.booked.Rate,
	}
}

func (p *hotelProcessor) cancelReservation(ctx context.Context) bool {
	if p.booked == nil {
		return false
	}
	entry, err := p.resolve(ctx)
	if err != nil {
		p.log.Error("hotel compensation cancel: resolve failed", "booking_id", p.bookingID, "error", err)
		return false
	}
	adapter, err := p.suppliers.Hotel(entry.Supplier)
	if err != nil {
		p.log.Error("hotel compensation cancel: no adapter", "supplier", entry.Supplier, "error", err)
		return false
	}
	if _, err := adapter.Cancel(ctx, supplier.CancelRequest{ReservationID: p.booked.SupplierReservation}); err != nil {
		p.log.Error("hotel compensation cancel failed", "booking_id", p.bookingID, "reservation", p.booked.SupplierReservation, "error", err)
		return false
	}
	return true
}

func policyFromTerm(reservationID int64, term supplier.PolicyTerm) (*domain.CancellationPolicy, error) {
	validFrom, err := time.Parse(time.RFC3339, term.ValidFrom)
	if err != nil {
		return nil, fmt.Errorf("parse valid_from: %w", err)
	}
	validUntil, err := time.Parse(time.RFC3339, term.ValidUntil)
	if err != nil {
		return nil, fmt.Errorf("parse valid_until: %w", err)
	}
	return &domain.CancellationPolicy{
		ReservationID: reservationID,
		Type:          term.Type,
		ValidFrom:     validFrom,
		ValidUntil:    validUntil,
		Penalty:       term.Penalty,
	}, nil
}
