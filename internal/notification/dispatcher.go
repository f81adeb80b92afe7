package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"candilib/pkg/platform/queue"
)

// Sink delivers a batch of events. A failed batch is logged and dropped by
// the dispatcher.
type Sink interface {
	Deliver(ctx context.Context, events []Event) error
}

// Dispatcher buffers events in a bounded ring and flushes them to a Sink.
// When the ring is full the oldest event is dropped and counted.
type Dispatcher struct {
	batcher *queue.Batcher[Event]
}

type Option func(*options)

type options struct {
	capacity int
	queue    []queue.Option
}

// WithCapacity bounds the number of buffered events.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

func WithFlushInterval(d time.Duration) Option {
	return func(o *options) { o.queue = append(o.queue, queue.WithInterval(d)) }
}

func WithBatchSize(n int) Option {
	return func(o *options) { o.queue = append(o.queue, queue.WithBatchSize(n)) }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.queue = append(o.queue, queue.WithLogger(logger)) }
}

// NewDispatcher creates a Dispatcher delivering to sink.
func NewDispatcher(sink Sink, opts ...Option) *Dispatcher {
	o := &options{capacity: 10000}
	for _, opt := range opts {
		opt(o)
	}
	return &Dispatcher{
		batcher: queue.NewBatcher("notification", o.capacity, sink.Deliver, o.queue...),
	}
}

// Publish enqueues ev without blocking.
func (d *Dispatcher) Publish(_ context.Context, ev Event) {
	d.batcher.Enqueue(ev)
}

// Run delivers batches until ctx is cancelled, then drains what is left.
func (d *Dispatcher) Run(ctx context.Context) error {
	return d.batcher.Run(ctx)
}

func (d *Dispatcher) Flush(ctx context.Context) error {
	return d.batcher.Flush(ctx)
}

func (d *Dispatcher) Pending() int {
	return d.batcher.Len()
}

func (d *Dispatcher) Dropped() int64 {
	return d.batcher.Dropped()
}

// LogSink writes events to a structured logger. It backs the dispatcher when
// no broker is configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(ctx context.Context, events []Event) error {
	for _, ev := range events {
		attrs := []any{
			"candidate_id", ev.CandidateID.String(),
			"type", string(ev.Type),
		}
		if ev.Slot != nil {
			attrs = append(attrs, "slot_id", ev.Slot.ID.String(), "slot_date", ev.Slot.Date)
		}
		if ev.Reason != "" {
			attrs = append(attrs, "reason", ev.Reason)
		}
		s.logger.InfoContext(ctx, "booking notification", attrs...)
	}
	return nil
}

func encode(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}
