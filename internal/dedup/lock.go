package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbook/internal/cache"
)

// ErrDuplicateBooking is returned when a request lock for the same
// customer already exists and no response was published within the wait
// window. The original attempt is assumed stuck or lost.
var ErrDuplicateBooking = errors.New("duplicate booking request for this customer is already in progress")

const (
	requestKeyPrefix  = "booking:lock:request:"
	responseKeyPrefix = "booking:lock:response:"
)

// Manager implements the cross-process dedup lock over the shared cache.
// It is advisory: the gap between Exists and Set is accepted, because
// the key is coarse (customer name only) and a missed duplicate is
// tolerable. A false positive cannot happen, only an explicit Release
// publishes a response.
type Manager struct {
	store        cache.Store
	requestTTL   time.Duration
	responseTTL  time.Duration
	pollInterval time.Duration
	waitTimeout  time.Duration
}

type Option func(*Manager)

// WithWait overrides the poll interval and total wait deadline. Used in
// tests to keep the wait loop fast.
func WithWait(interval, timeout time.Duration) Option {
	return func(m *Manager) {
		m.pollInterval = interval
		m.waitTimeout = timeout
	}
}

func WithTTLs(request, response time.Duration) Option {
	return func(m *Manager) {
		m.requestTTL = request
		m.responseTTL = response
	}
}

func NewManager(store cache.Store, opts ...Option) *Manager {
	m := &Manager{
		store:        store,
		requestTTL:   30 * time.Second,
		responseTTL:  60 * time.Second,
		pollInterval: 500 * time.Millisecond,
		waitTimeout:  25 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AcquireOrWait takes the request lock for the customer, or waits for
// the holder's response. A nil return means the caller owns the lock and
// must run the real booking. A non-nil return is the previously
// published response and the caller must not re-execute payment or
// supplier calls.
func (m *Manager) AcquireOrWait(ctx context.Context, firstName, lastName string, request []byte) ([]byte, error) {
	reqKey := requestKey(firstName, lastName)

	held, err := m.store.Exists(ctx, reqKey)
	if err != nil {
		return nil, fmt.Errorf("check request lock: %w", err)
	}
	if !held {
		if err := m.store.Set(ctx, reqKey, request, m.requestTTL); err != nil {
			return nil, fmt.Errorf("set request lock: %w", err)
		}
		return nil, nil
	}

	return m.waitForResponse(ctx, responseKey(firstName, lastName))
}

// waitForResponse polls until the holder publishes a response or the
// deadline elapses. The wait is context-aware so it never stalls other
// requests on the same instance.
func (m *Manager) waitForResponse(ctx context.Context, respKey string) ([]byte, error) {
	deadline := time.NewTimer(m.waitTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		data, found, err := m.store.Get(ctx, respKey)
		if err != nil {
			return nil, fmt.Errorf("poll response lock: %w", err)
		}
		if found {
			return data, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, ErrDuplicateBooking
		case <-ticker.C:
		}
	}
}

// Release publishes the outcome for late pollers and frees the request
// lock. Called after the real attempt finished with a shareable result.
func (m *Manager) Release(ctx context.Context, firstName, lastName string, response []byte) error {
	if err := m.store.Set(ctx, responseKey(firstName, lastName), response, m.responseTTL); err != nil {
		return fmt.Errorf("publish response: %w", err)
	}
	return m.store.Delete(ctx, requestKey(firstName, lastName))
}

// Abandon frees the request lock without publishing a response, so any
// waiter times out into ErrDuplicateBooking instead of reading a stale
// outcome.
func (m *Manager) Abandon(ctx context.Context, firstName, lastName string) error {
	return m.store.Delete(ctx, requestKey(firstName, lastName))
}

// Keys derive from the customer name only, case-sensitive. Two distinct
// bookings for customers sharing a name will contend; kept on purpose as
// a coarse anti-double-submit heuristic.
func requestKey(firstName, lastName string) string {
	return requestKeyPrefix + customerHash(firstName, lastName)
}

func responseKey(firstName, lastName string) string {
	return responseKeyPrefix + customerHash(firstName, lastName)
}

func customerHash(firstName, lastName string) string {
	sum := sha256.Sum256([]byte(firstName + ":" + lastName))
	return hex.EncodeToString(sum[:])
}
