package booking

import (
	"context"
	"fmt"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/repository"
	"github.com/Domenick1991/travelbook/internal/supplier"
	"github.com/Domenick1991/travelbook/pkg/logger"
)

// resolvedActivity is the memoized cache resolution: the activity
// payload plus adapter-ready line items with their recovered prices.
type resolvedActivity struct {
	entry *domain.ActivityEntry
	items []supplier.ActivityBookingItem
	total domain.Money
}

type activityProcessor struct {
	request   *BookingRequest
	bookingID int64

	rates        rateSource
	suppliers    *supplier.Registry
	reservations repository.ReservationRepository
	log          logger.Logger

	resolved    *resolvedActivity
	resolveErr  error
	resolveDone bool

	booked *domain.ActivityReservation
}

func newActivityProcessor(req *BookingRequest, bookingID int64, deps *Service) *activityProcessor {
	return &activityProcessor{
		request:      req,
		bookingID:    bookingID,
		rates:        deps.rates,
		suppliers:    deps.suppliers,
		reservations: deps.reservations,
		log:          deps.log,
	}
}

func (p *activityProcessor) product() string { return "activity" }

// resolve recovers the cached activity payload and re-resolves each
// line item's variant (date+code keyed) to its cached price.
func (p *activityProcessor) resolve(ctx context.Context) (*resolvedActivity, error) {
	if p.resolveDone {
		return p.resolved, p.resolveErr
	}
	p.resolveDone = true

	entry, err := p.rates.GetActivity(ctx, p.request.Activity.ActivityCode)
	if err != nil {
		p.resolveErr = err
		return nil, err
	}

	result := &resolvedActivity{entry: entry}
	for _, item := range p.request.Activity.Items {
		variant, err := p.rates.GetVariant(ctx, item.Date, item.VariantCode)
		if err != nil {
			p.resolveErr = fmt.Errorf("resolve variant %s on %s: %w", item.VariantCode, item.Date, err)
			return nil, p.resolveErr
		}

		line := domain.Money{Amount: variant.Price.Amount * int64(item.Quantity), Currency: variant.Price.Currency}
		if result.total.IsZero() {
			result.total = line
		} else {
			sum, err := result.total.Add(line)
			if err != nil {
				p.resolveErr = err
				return nil, err
			}
			result.total = sum
		}

		result.items = append(result.items, supplier.ActivityBookingItem{
			VariantCode: item.VariantCode,
			Date:        item.Date,
			Quantity:    item.Quantity,
			UnitPrice:   variant.Price,
		})
	}

	p.resolved = result
	return result, nil
}

func (p *activityProcessor) totalPrice(ctx context.Context) (*domain.Money, error) {
	if p.request.Activity == nil {
		return nil, nil
	}
	resolved, err := p.resolve(ctx)
	if err != nil {
		return nil, err
	}
	total := resolved.total
	return &total, nil
}

func (p *activityProcessor) book(ctx context.Context) error {
	if p.request.Activity == nil {
		return nil
	}
	resolved, err := p.resolve(ctx)
	if err != nil {
		return err
	}

	adapter, err := p.suppliers.Activity(resolved.entry.Supplier)
	if err != nil {
		return err
	}

	reservation, err := adapter.Book(ctx, supplier.ActivityBookingRequest{
		ActivityCode:  resolved.entry.ActivityCode,
		Items:         resolved.items,
		LeadFirst:     p.request.Customer.FirstName,
		LeadLast:      p.request.Customer.LastName,
		LeadEmail:     p.request.Customer.Email,
		TransactionID: p.request.TransactionID,
	})
	if err != nil {
		return err
	}

	record := &domain.ActivityReservation{
		BookingID:           p.bookingID,
		Supplier:            resolved.entry.Supplier,
		SupplierReservation: reservation.ReservationID,
		ActivityCode:        resolved.entry.ActivityCode,
		ActivityTitle:       resolved.entry.Title,
		Total:               resolved.total,
	}
	items := make([]domain.ActivityReservationItem, 0, len(resolved.items))
	for _, item := range resolved.items {
		items = append(items, domain.ActivityReservationItem{
			VariantCode: item.VariantCode,
			Date:        item.Date,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	if err := p.reservations.CreateActivity(ctx, record, items); err != nil {
		return fmt.Errorf("persist activity reservation: %w", err)
	}
	p.booked = record

	return nil
}

func (p *activityProcessor) hasReservation() bool {
	return p.booked != nil
}

func (p *activityProcessor) fillResponse(resp *BookingResponse) {
	if p.booked == nil {
		return
	}
	resp.Activity = &ActivityReservationDetails{
		Supplier:            p.booked.Supplier,
		SupplierReservation: p.booked.SupplierReservation,
		ActivityTitle:       p.booked.ActivityTitle,
		Total:               p.booked.Total,
	}
}

func (p *activityProcessor) cancelReservation(ctx context.Context) bool {
	if p.booked == nil {
		return false
	}
	adapter, err := p.suppliers.Activity(p.booked.Supplier)
	if err != nil {
		p.log.Error("activity compensation cancel: no adapter", "supplier", p.booked.Supplier, "error", err)
		return false
	}
	if _, err := adapter.Cancel(ctx, supplier.CancelRequest{ReservationID: p.booked.SupplierReservation}); err != nil {
		p.log.Error("activity compensation cancel failed", "booking_id", p.bookingID, "reservation", p.booked.SupplierReservation, "error", err)
		return false
	}
	return true
}
