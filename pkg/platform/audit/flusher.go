package audit

import (
	"context"
	"log/slog"
	"time"

	"candilib/pkg/platform/queue"
	"candilib/pkg/requestcontext"
)

// Sink persists a batch of entries.
type Sink interface {
	Write(ctx context.Context, entries []Entry) error
}

// Flusher is the process-scoped audit trail owner: a bounded queue plus a
// periodic flush task. Create it at startup, run it under the process
// errgroup, and cancel its context on shutdown to drain it.
type Flusher struct {
	batcher *queue.Batcher[Entry]
}

// Option configures the Flusher.
type Option func(*options)

type options struct {
	capacity int
	queue    []queue.Option
}

// WithCapacity bounds the number of entries held in memory.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// WithFlushInterval sets how often buffered entries are written.
func WithFlushInterval(d time.Duration) Option {
	return func(o *options) { o.queue = append(o.queue, queue.WithInterval(d)) }
}

// WithLogger sets the logger used to report flush failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.queue = append(o.queue, queue.WithLogger(logger)) }
}

// NewFlusher creates a Flusher writing to sink.
func NewFlusher(sink Sink, opts ...Option) *Flusher {
	o := &options{capacity: 10000}
	for _, opt := range opts {
		opt(o)
	}
	return &Flusher{
		batcher: queue.NewBatcher("audit", o.capacity, sink.Write, o.queue...),
	}
}

// Record enqueues an entry. It never blocks the caller.
func (f *Flusher) Record(ctx context.Context, entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = requestcontext.Now(ctx)
	}
	if entry.RequestID == "" {
		entry.RequestID = requestcontext.RequestID(ctx)
	}
	f.batcher.Enqueue(entry)
}

// Run flushes until ctx is cancelled, then drains.
func (f *Flusher) Run(ctx context.Context) error {
	return f.batcher.Run(ctx)
}

// Flush writes every buffered entry now.
func (f *Flusher) Flush(ctx context.Context) error {
	return f.batcher.Flush(ctx)
}

// Pending returns the number of buffered entries.
func (f *Flusher) Pending() int {
	return f.batcher.Len()
}

// Dropped returns the number of entries lost to overflow.
func (f *Flusher) Dropped() int64 {
	return f.batcher.Dropped()
}

// LogSink writes entries to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Write(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		s.logger.InfoContext(ctx, string(e.Action),
			"log_type", "audit",
			"actor", e.Actor,
			"subject", e.Subject,
			"detail", e.Detail,
			"request_id", e.RequestID,
			"at", e.Timestamp,
		)
	}
	return nil
}
