package ratecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbook/internal/cache"
	"github.com/Domenick1991/travelbook/internal/domain"
)

// ErrRateNotFound means the previously shown price can no longer be
// explained. There is no fallback recomputation; callers must fail.
var ErrRateNotFound = errors.New("rate not found in correlation cache")

const (
	hotelRateKeyPrefix    = "rate:hotel:"
	supplierCodeKeyPrefix = "rate:supplier:"
	activityKeyPrefix     = "rate:activity:"
	variantKeyPrefix      = "rate:variant:"
)

// Cache maps opaque customer-facing rate codes to the supplier context
// captured at search time. Written by the search path, read-only during
// booking. Keys are content-hashed to bound key size and avoid leaking
// raw codes into the shared store.
type Cache struct {
	store cache.Store
	ttl   time.Duration
}

func New(store cache.Store, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl}
}

// PutHotelRate stores the correlation entry under the customer rate code
// and an auxiliary reverse mapping from the supplier's own code, so the
// verification path can resolve a payload starting from a supplier
// recheck response.
func (c *Cache) PutHotelRate(ctx context.Context, customerRateCode string, entry domain.HotelRateEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal hotel rate entry: %w", err)
	}
	if err := c.store.Set(ctx, hotelRateKeyPrefix+hashKey(customerRateCode), payload, c.ttl); err != nil {
		return err
	}
	return c.store.Set(ctx, supplierCodeKeyPrefix+hashKey(entry.SupplierRate.Code), []byte(customerRateCode), c.ttl)
}

func (c *Cache) GetHotelRate(ctx context.Context, customerRateCode string) (*domain.HotelRateEntry, error) {
	data, found, err := c.store.Get(ctx, hotelRateKeyPrefix+hashKey(customerRateCode))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrRateNotFound
	}
	var entry domain.HotelRateEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal hotel rate entry: %w", err)
	}
	return &entry, nil
}

// CustomerCodeForSupplier resolves the customer-facing rate code from a
// supplier rate code.
func (c *Cache) CustomerCodeForSupplier(ctx context.Context, supplierRateCode string) (string, error) {
	data, found, err := c.store.Get(ctx, supplierCodeKeyPrefix+hashKey(supplierRateCode))
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrRateNotFound
	}
	return string(data), nil
}

func (c *Cache) PutActivity(ctx context.Context, activityCode string, entry domain.ActivityEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal activity entry: %w", err)
	}
	return c.store.Set(ctx, activityKeyPrefix+hashKey(activityCode), payload, c.ttl)
}

func (c *Cache) GetActivity(ctx context.Context, activityCode string) (*domain.ActivityEntry, error) {
	data, found, err := c.store.Get(ctx, activityKeyPrefix+hashKey(activityCode))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrRateNotFound
	}
	var entry domain.ActivityEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal activity entry: %w", err)
	}
	return &entry, nil
}

// PutVariant stores one bookable activity variant keyed by date+code.
func (c *Cache) PutVariant(ctx context.Context, variant domain.ActivityVariant) error {
	payload, err := json.Marshal(variant)
	if err != nil {
		return fmt.Errorf("marshal activity variant: %w", err)
	}
	return c.store.Set(ctx, variantKeyPrefix+hashKey(variant.Date+":"+variant.Code), payload, c.ttl)
}

func (c *Cache) GetVariant(ctx context.Context, date, code string) (*domain.ActivityVariant, error) {
	data, found, err := c.store.Get(ctx, variantKeyPrefix+hashKey(date+":"+code))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrRateNotFound
	}
	var variant domain.ActivityVariant
	if err := json.Unmarshal(data, &variant); err != nil {
		return nil, fmt.Errorf("unmarshal activity variant: %w", err)
	}
	return &variant, nil
}

func hashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
