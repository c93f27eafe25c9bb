package email

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Domenick1991/travelbook/internal/kafka"
)

// Sender renders notification events for delivery. The real transport
// lives outside this service; failures here never affect booking
// outcomes.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.NotificationEvent) error {
	fmt.Printf("send %s to %s for booking %s (%s)\n",
		event.Template, event.Recipient, event.RecordLocator, formatParams(event.Params))
	return nil
}

func formatParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	return strings.Join(parts, " ")
}
