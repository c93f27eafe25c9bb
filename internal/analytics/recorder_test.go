package analytics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/travelbook/internal/kafka"
	"github.com/Domenick1991/travelbook/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingPublisher struct {
	mu     sync.Mutex
	events []kafka.AnalyticsEvent
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, _ string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, payload.(kafka.AnalyticsEvent))
	return nil
}

func (p *capturingPublisher) snapshot() []kafka.AnalyticsEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]kafka.AnalyticsEvent, len(p.events))
	copy(out, p.events)
	return out
}

func TestRecorder_FlushesQueuedEvents(t *testing.T) {
	pub := &capturingPublisher{}
	r := NewRecorder(pub, "analytics", 16, logger.NewNop(), nil)
	r.Start()

	r.Record(kafka.AnalyticsEvent{Kind: "booking_booked", RecordLocator: "ABC234"})
	r.Record(kafka.AnalyticsEvent{Kind: "booking_cancelled", RecordLocator: "ABC234"})
	r.Close()

	events := pub.snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, "booking_booked", events[0].Kind)
	assert.Equal(t, "booking_cancelled", events[1].Kind)
	// OccurredAt is stamped on enqueue when the caller left it zero.
	assert.False(t, events[0].OccurredAt.IsZero())
}

func TestRecorder_DropsWhenQueueIsFull(t *testing.T) {
	var drops int
	pub := &capturingPublisher{}
	// No Start: nothing consumes the queue, so capacity bounds intake.
	r := NewRecorder(pub, "analytics", 2, logger.NewNop(), func() { drops++ })

	for i := 0; i < 5; i++ {
		r.Record(kafka.AnalyticsEvent{Kind: "booking_booked"})
	}

	assert.Equal(t, 3, drops)
	assert.Empty(t, pub.snapshot())
	r.Close()
}

func TestRecorder_CloseDrainsBacklog(t *testing.T) {
	pub := &capturingPublisher{}
	r := NewRecorder(pub, "analytics", 16, logger.NewNop(), nil)

	// Enqueue before the goroutine exists; Start then Close must still
	// deliver everything.
	for i := 0; i < 10; i++ {
		r.Record(kafka.AnalyticsEvent{Kind: "booking_failed", OccurredAt: time.Now()})
	}
	r.Start()
	r.Close()

	assert.Len(t, pub.snapshot(), 10)
}

func TestRecorder_CloseWithoutStart(t *testing.T) {
	r := NewRecorder(&capturingPublisher{}, "analytics", 4, logger.NewNop(), nil)
	r.Record(kafka.AnalyticsEvent{Kind: "booking_booked"})

	done := make(chan struct{})
	go func() {
		r.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close blocked without a running flush goroutine")
	}
}
