package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/Domenick1991/travelbook/internal/kafka"
	"github.com/Domenick1991/travelbook/pkg/logger"
)

// Publisher is the slice of the kafka producer the recorder needs.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// Recorder buffers booking lifecycle events in a bounded queue and
// flushes them to the analytics topic from a background goroutine. The
// orchestrator only enqueues; it never blocks on the broker.
type Recorder struct {
	producer Publisher
	topic    string
	log      logger.Logger
	queue    chan kafka.AnalyticsEvent
	dropped  func()

	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
	done      chan struct{}
	drained   chan struct{}
}

// NewRecorder creates a recorder with the given queue capacity. onDrop
// is called once per event discarded because the queue was full; pass
// nil if drops need no accounting.
func NewRecorder(producer Publisher, topic string, capacity int, log logger.Logger, onDrop func()) *Recorder {
	if onDrop == nil {
		onDrop = func() {}
	}
	return &Recorder{
		producer: producer,
		topic:    topic,
		log:      log,
		queue:    make(chan kafka.AnalyticsEvent, capacity),
		dropped:  onDrop,
		done:     make(chan struct{}),
		drained:  make(chan struct{}),
	}
}

// Start launches the flush goroutine. Safe to call once per process.
func (r *Recorder) Start() {
	r.startOnce.Do(func() {
		r.started = true
		go r.run()
	})
}

func (r *Recorder) run() {
	defer close(r.drained)
	for {
		select {
		case event := <-r.queue:
			r.flush(event)
		case <-r.done:
			// Drain whatever is queued before exiting.
			for {
				select {
				case event := <-r.queue:
					r.flush(event)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) flush(event kafka.AnalyticsEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.producer.Publish(ctx, r.topic, event.RecordLocator, event); err != nil {
		r.log.Warn("analytics publish failed", "kind", event.Kind, "error", err)
	}
}

// Record enqueues an event without blocking. Full queue drops the event.
func (r *Recorder) Record(event kafka.AnalyticsEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	select {
	case r.queue <- event:
	default:
		r.dropped()
	}
}

// Close stops the flush goroutine after draining the queue.
func (r *Recorder) Close() {
	r.stopOnce.Do(func() {
		close(r.done)
		if r.started {
			<-r.drained
		}
	})
}
