package booking

import (
	"context"
	"crypto/rand"
	"fmt"
)

const (
	locatorLength   = 6
	locatorAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	locatorAttempts = 5
)

// generateLocator mints a short, customer-facing record locator and
// collision-checks it against existing bookings. Regenerates on
// collision up to locatorAttempts; exhaustion is fatal.
func (s *Service) generateLocator(ctx context.Context) (string, error) {
	for attempt := 0; attempt < locatorAttempts; attempt++ {
		locator, err := randomLocator()
		if err != nil {
			return "", err
		}
		exists, err := s.bookings.LocatorExists(ctx, locator)
		if err != nil {
			return "", fmt.Errorf("check record locator: %w", err)
		}
		if !exists {
			return locator, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique record locator in %d attempts", locatorAttempts)
}

func randomLocator() (string, error) {
	buf := make([]byte, locatorLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate record locator: %w", err)
	}
	for i, b := range buf {
		buf[i] = locatorAlphabet[int(b)%len(locatorAlphabet)]
	}
	return string(buf), nil
}
