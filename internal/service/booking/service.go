package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/kafka"
	"github.com/Domenick1991/travelbook/internal/payment"
	"github.com/Domenick1991/travelbook/internal/ratecache"
	"github.com/Domenick1991/travelbook/internal/repository"
	"github.com/Domenick1991/travelbook/internal/supplier"
	"github.com/Domenick1991/travelbook/pkg/logger"
	"github.com/Domenick1991/travelbook/pkg/metrics"
)

type UseCase interface {
	Book(ctx context.Context, req BookingRequest) (*BookingResponse, error)
	LookupCancellation(ctx context.Context, recordLocator, lastName string) (*CancellationQuote, error)
	ConfirmCancellation(ctx context.Context, recordLocator, lastName string) (*CancellationResult, error)
}

// lockManager is the dedup lock contract (cross-process, cache-backed).
type lockManager interface {
	AcquireOrWait(ctx context.Context, firstName, lastName string, request []byte) ([]byte, error)
	Release(ctx context.Context, firstName, lastName string, response []byte) error
	Abandon(ctx context.Context, firstName, lastName string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type analyticsRecorder interface {
	Record(event kafka.AnalyticsEvent)
}

// Service coordinates one multi-product booking as a single
// customer-facing transaction: dedup locking, persistence, price
// verification, payment, per-product supplier booking and compensation.
type Service struct {
	bookings     repository.BookingRepository
	payments     repository.PaymentRepository
	reservations repository.ReservationRepository
	policies     repository.PolicyRepository

	locks     lockManager
	rates     rateSource
	verifier  rateVerifier
	suppliers *supplier.Registry
	gateway   payment.Gateway

	producer           Producer
	notificationsTopic string
	analytics          analyticsRecorder

	organization string
	log          logger.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

type Option func(*Service)

func WithNotificationsTopic(topic string) Option {
	return func(s *Service) { s.notificationsTopic = topic }
}

func WithAnalytics(recorder analyticsRecorder) Option {
	return func(s *Service) { s.analytics = recorder }
}

func WithOrganization(org string) Option {
	return func(s *Service) { s.organization = org }
}

// WithClock pins time for tests that select cancellation policies.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(
	bookings repository.BookingRepository,
	payments repository.PaymentRepository,
	reservations repository.ReservationRepository,
	policies repository.PolicyRepository,
	locks lockManager,
	rates rateSource,
	verifier rateVerifier,
	suppliers *supplier.Registry,
	gateway payment.Gateway,
	producer Producer,
	log logger.Logger,
	m *metrics.Metrics,
	opts ...Option,
) *Service {
	s := &Service{
		bookings:     bookings,
		payments:     payments,
		reservations: reservations,
		policies:     policies,
		locks:        locks,
		rates:        rates,
		verifier:     verifier,
		suppliers:    suppliers,
		gateway:      gateway,
		producer:     producer,
		log:          log,
		metrics:      m,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book runs one orchestration attempt. Duplicate requests for the same
// customer name are served from the dedup response cache verbatim.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*BookingResponse, error) {
	started := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.BookingDuration.Observe(time.Since(started).Seconds())
		}
	}()
	if s.metrics != nil {
		s.metrics.BookingsStarted.Inc()
	}

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal booking request: %w", err)
	}

	cached, err := s.locks.AcquireOrWait(ctx, req.Customer.FirstName, req.Customer.LastName, reqJSON)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		// Idempotent short-circuit: the original outcome is returned
		// unchanged and no payment or supplier call is re-executed.
		var resp BookingResponse
		if err := json.Unmarshal(cached, &resp); err != nil {
			return nil, fmt.Errorf("decode cached booking response: %w", err)
		}
		if s.metrics != nil {
			s.metrics.DedupShortCircuits.Inc()
		}
		s.log.Info("booking served from dedup cache", "record_locator", resp.RecordLocator)
		return &resp, nil
	}

	resp, err := s.execute(ctx, &req)
	if err != nil {
		s.finishLock(ctx, &req, err)
		return nil, err
	}

	payload, merr := json.Marshal(resp)
	if merr != nil {
		s.log.Error("marshal booking response for lock release", "error", merr)
		payload = nil
	}
	if rerr := s.locks.Release(ctx, req.Customer.FirstName, req.Customer.LastName, payload); rerr != nil {
		s.log.Error("release dedup lock", "record_locator", resp.RecordLocator, "error", rerr)
	}
	return resp, nil
}

// finishLock decides what duplicate waiters get to see. Deterministic
// failures that happened before any supplier side effect are published,
// so a late poller observes the same outcome. Post-payment failures and
// anything unexpected abandon the lock instead; waiters then time out
// into a duplicate-booking error rather than reading a stale success.
func (s *Service) finishLock(ctx context.Context, req *BookingRequest, cause error) {
	if isShareableFailure(cause) {
		payload, err := json.Marshal(&BookingResponse{Status: string(domain.BookingStatusFailed), Error: cause.Error()})
		if err == nil {
			if rerr := s.locks.Release(ctx, req.Customer.FirstName, req.Customer.LastName, payload); rerr != nil {
				s.log.Error("release dedup lock after failure", "error", rerr)
			}
			return
		}
	}
	if aerr := s.locks.Abandon(ctx, req.Customer.FirstName, req.Customer.LastName); aerr != nil {
		s.log.Error("abandon dedup lock", "error", aerr)
	}
}

func isShareableFailure(err error) bool {
	var (
		priceErr *PriceVerificationError
		payErr   *PaymentError
	)
	switch {
	case errors.Is(err, ErrNoProducts),
		errors.Is(err, ErrEmptyActivityItems),
		errors.Is(err, ErrMismatchedCurrencies),
		errors.Is(err, ratecache.ErrRateNotFound),
		errors.As(err, &priceErr),
		errors.As(err, &payErr):
		return true
	}
	return false
}

func (s *Service) execute(ctx context.Context, req *BookingRequest) (*BookingResponse, error) {
	if req.Hotel == nil && req.Activity == nil {
		s.countFailure("no_products")
		return nil, ErrNoProducts
	}
	if req.Activity != nil && len(req.Activity.Items) == 0 {
		s.countFailure("no_products")
		return nil, ErrEmptyActivityItems
	}

	locator, err := s.generateLocator(ctx)
	if err != nil {
		return nil, err
	}

	traveler := &domain.Traveler{
		FirstName: req.Customer.FirstName,
		LastName:  req.Customer.LastName,
		Email:     req.Customer.Email,
		Phone:     req.Customer.Phone,
	}
	bk := &domain.Booking{
		RecordLocator: locator,
		TransactionID: req.TransactionID,
		Organization:  s.organization,
	}
	if err := s.bookings.CreatePending(ctx, traveler, bk); err != nil {
		return nil, fmt.Errorf("persist booking: %w", err)
	}

	// Fixed processor order: hotel, then activity.
	var procs []processor
	if req.Hotel != nil {
		procs = append(procs, newHotelProcessor(req, bk.ID, s))
	}
	if req.Activity != nil {
		procs = append(procs, newActivityProcessor(req, bk.ID, s))
	}

	total, err := s.sumPrices(ctx, procs)
	if err != nil {
		s.failBooking(ctx, bk)
		s.countFailureFor(err)
		return nil, err
	}

	charge, err := s.authorize(ctx, req, bk, total)
	if err != nil {
		s.failBooking(ctx, bk)
		s.countFailure("payment")
		return nil, err
	}

	for _, p := range procs {
		if err := p.book(ctx); err != nil {
			return nil, s.compensate(ctx, bk, charge, procs, p.product(), err)
		}
	}

	if _, err := s.bookings.UpdateStatus(ctx, bk.ID, domain.BookingStatusBooked); err != nil {
		// Side effects already happened; report the booking anyway and
		// leave the row for the maintenance sweep.
		s.log.Error("mark booking BOOKED", "record_locator", locator, "error", err)
	}

	resp := &BookingResponse{
		Status:        string(domain.BookingStatusBooked),
		BookingID:     bk.ID,
		RecordLocator: locator,
	}
	for _, p := range procs {
		p.fillResponse(resp)
	}

	s.notify(ctx, req, resp, "booking_confirmation")
	s.record(kafka.AnalyticsEvent{
		Kind:          "booking_booked",
		RecordLocator: locator,
		TransactionID: req.TransactionID,
		Amount:        total.Amount,
		Currency:      total.Currency,
	})
	if s.metrics != nil {
		s.metrics.BookingsBooked.Inc()
	}
	s.log.Info("booking completed", "record_locator", locator, "total", total.String())
	return resp, nil
}

// sumPrices totals the processors that priced a product. A bundle
// spanning more than one currency is rejected before payment.
func (s *Service) sumPrices(ctx context.Context, procs []processor) (domain.Money, error) {
	var (
		total domain.Money
		any   bool
	)
	for _, p := range procs {
		price, err := p.totalPrice(ctx)
		if err != nil {
			return domain.Money{}, err
		}
		if price == nil {
			continue
		}
		if !any {
			total = *price
			any = true
			continue
		}
		if price.Currency != total.Currency {
			return domain.Money{}, ErrMismatchedCurrencies
		}
		total.Amount += price.Amount
	}
	if !any {
		return domain.Money{}, ErrNoProducts
	}
	return total, nil
}

func (s *Service) authorize(ctx context.Context, req *BookingRequest, bk *domain.Booking, total domain.Money) (*domain.PaymentTransaction, error) {
	charge, err := s.gateway.Authorize(ctx, total, req.Payment, "travel booking "+bk.RecordLocator)
	if err != nil {
		return nil, &PaymentError{Code: payment.CodeOf(err), Err: err}
	}
	if charge == nil || charge.ChargeID == "" {
		return nil, &PaymentError{Code: payment.CodeProcessorError, Err: errors.New("gateway returned no transaction")}
	}

	charge.Type = domain.PaymentTypeCharge
	charge.Status = domain.PaymentStatusSucceeded
	charge.BookingID = bk.ID
	if err := s.payments.Create(ctx, charge); err != nil {
		return nil, fmt.Errorf("persist charge %s: %w", charge.ChargeID, err)
	}
	if s.metrics != nil {
		s.metrics.PaymentCharges.Inc()
	}
	return charge, nil
}

// compensate reverses the bundle after a supplier booking failure: full
// refund of the authorized amount, then best-effort cancel of every
// reservation booked before the failure. A cancel failure is logged and
// never aborts the loop; a refund failure propagates, because a charge
// without a booking is too severe to swallow.
func (s *Service) compensate(ctx context.Context, bk *domain.Booking, charge *domain.PaymentTransaction, procs []processor, product string, cause error) error {
	s.log.Error("supplier booking failed, compensating", "record_locator", bk.RecordLocator, "product", product, "error", cause)

	refund, err := s.gateway.Refund(ctx, charge.ChargeID, charge.Amount)
	if err != nil {
		s.failBooking(ctx, bk)
		return fmt.Errorf("refund charge %s after booking failure: %w", charge.ChargeID, err)
	}
	refund.Type = domain.PaymentTypeRefund
	refund.Status = domain.PaymentStatusSucceeded
	refund.BookingID = bk.ID
	if perr := s.payments.Create(ctx, refund); perr != nil {
		s.log.Error("persist refund transaction", "charge_id", charge.ChargeID, "error", perr)
	}
	if s.metrics != nil {
		s.metrics.PaymentRefunds.Inc()
	}

	for _, p := range procs {
		if p.hasReservation() {
			p.cancelReservation(ctx)
		}
	}

	s.failBooking(ctx, bk)
	s.countFailure("supplier")
	s.record(kafka.AnalyticsEvent{
		Kind:          "booking_failed",
		RecordLocator: bk.RecordLocator,
		TransactionID: bk.TransactionID,
		Amount:        charge.Amount.Amount,
		Currency:      charge.Amount.Currency,
		Reason:        product,
	})
	return &ProviderBookingError{Product: product, Err: cause}
}

func (s *Service) failBooking(ctx context.Context, bk *domain.Booking) {
	if _, err := s.bookings.UpdateStatus(ctx, bk.ID, domain.BookingStatusFailed); err != nil {
		s.log.Error("mark booking FAILED", "record_locator", bk.RecordLocator, "error", err)
	}
}

// notify publishes a templated notification, best-effort. A broker
// outage must never fail a booking.
func (s *Service) notify(ctx context.Context, req *BookingRequest, resp *BookingResponse, template string) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	params := map[string]string{
		"first_name":     req.Customer.FirstName,
		"record_locator": resp.RecordLocator,
		"status":         resp.Status,
	}
	if resp.Hotel != nil {
		params["hotel_name"] = resp.Hotel.HotelName
		params["check_in"] = resp.Hotel.CheckIn
	}
	if resp.Activity != nil {
		params["activity_title"] = resp.Activity.ActivityTitle
	}
	event := kafka.NotificationEvent{
		Template:      template,
		Recipient:     req.Customer.Email,
		RecordLocator: resp.RecordLocator,
		Params:        params,
		SentAt:        time.Now(),
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, resp.RecordLocator, event); err != nil {
		s.log.Warn("confirmation notification failed", "record_locator", resp.RecordLocator, "error", err)
	}
}

func (s *Service) record(event kafka.AnalyticsEvent) {
	if s.analytics != nil {
		s.analytics.Record(event)
	}
}

func (s *Service) countFailure(reason string) {
	if s.metrics != nil {
		s.metrics.BookingsFailed.WithLabelValues(reason).Inc()
	}
}

func (s *Service) countFailureFor(err error) {
	var priceErr *PriceVerificationError
	switch {
	case errors.Is(err, ErrMismatchedCurrencies):
		s.countFailure("currency_mismatch")
	case errors.As(err, &priceErr):
		s.countFailure("price_verification")
	case errors.Is(err, ratecache.ErrRateNotFound):
		s.countFailure("rate_not_found")
	default:
		s.countFailure("pricing")
	}
}

var _ UseCase = (*Service)(nil)
