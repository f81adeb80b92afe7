// Package queue provides the bounded in-process buffers used by background
// publishers. A Batcher owns its ring and flush loop; callers create one at
// startup, run it under the process errgroup and let it drain on shutdown.
package queue

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// FlushFunc delivers one batch to a sink.
type FlushFunc[T any] func(ctx context.Context, batch []T) error

const (
	defaultBatchSize     = 100
	defaultFlushInterval = time.Second
	defaultDrainTimeout  = 5 * time.Second
)

// Batcher buffers items and flushes them periodically, or as soon as a full
// batch is waiting. Enqueue never blocks.
type Batcher[T any] struct {
	name         string
	ring         *Ring[T]
	flush        FlushFunc[T]
	batchSize    int
	interval     time.Duration
	drainTimeout time.Duration
	logger       *slog.Logger
	kick         chan struct{}

	flushed atomic.Int64
	failed  atomic.Int64
}

// Option configures a Batcher.
type Option func(*settings)

type settings struct {
	batchSize    int
	interval     time.Duration
	drainTimeout time.Duration
	logger       *slog.Logger
}

func WithBatchSize(n int) Option {
	return func(s *settings) { s.batchSize = n }
}

func WithInterval(d time.Duration) Option {
	return func(s *settings) { s.interval = d }
}

func WithDrainTimeout(d time.Duration) Option {
	return func(s *settings) { s.drainTimeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// NewBatcher creates a batcher with a ring of the given capacity.
func NewBatcher[T any](name string, capacity int, flush FlushFunc[T], opts ...Option) *Batcher[T] {
	cfg := settings{
		batchSize:    defaultBatchSize,
		interval:     defaultFlushInterval,
		drainTimeout: defaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.batchSize <= 0 {
		cfg.batchSize = defaultBatchSize
	}
	if cfg.interval <= 0 {
		cfg.interval = defaultFlushInterval
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Batcher[T]{
		name:         name,
		ring:         NewRing[T](capacity),
		flush:        flush,
		batchSize:    cfg.batchSize,
		interval:     cfg.interval,
		drainTimeout: cfg.drainTimeout,
		logger:       cfg.logger,
		kick:         make(chan struct{}, 1),
	}
}

// Enqueue buffers item. When the ring is full the oldest item is dropped.
func (b *Batcher[T]) Enqueue(item T) {
	if !b.ring.Enqueue(item) {
		b.logger.Warn("queue full, dropped oldest item", "queue", b.name, "dropped_total", b.ring.Dropped())
	}
	if b.ring.Len() >= b.batchSize {
		select {
		case b.kick <- struct{}{}:
		default:
		}
	}
}

// Run flushes until ctx is cancelled, then drains what is left using a fresh
// context bounded by the drain timeout.
func (b *Batcher[T]) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.drainTimeout)
			err := b.Flush(drainCtx)
			cancel()
			return err
		case <-ticker.C:
			_ = b.Flush(ctx)
		case <-b.kick:
			_ = b.Flush(ctx)
		}
	}
}

// Flush delivers every buffered item in batches. Failed batches are logged
// and discarded; the last error is returned.
func (b *Batcher[T]) Flush(ctx context.Context) error {
	var lastErr error
	for {
		batch := b.ring.DequeueBatch(b.batchSize)
		if len(batch) == 0 {
			return lastErr
		}
		if err := b.flush(ctx, batch); err != nil {
			b.failed.Add(int64(len(batch)))
			b.logger.ErrorContext(ctx, "queue flush failed",
				"queue", b.name,
				"batch_size", len(batch),
				"error", err,
			)
			lastErr = err
			if ctx.Err() != nil {
				return lastErr
			}
			continue
		}
		b.flushed.Add(int64(len(batch)))
	}
}

// Len returns the number of buffered items.
func (b *Batcher[T]) Len() int { return b.ring.Len() }

// Dropped returns the number of items lost to overflow.
func (b *Batcher[T]) Dropped() int64 { return b.ring.Dropped() }

// Flushed returns the number of items delivered.
func (b *Batcher[T]) Flushed() int64 { return b.flushed.Load() }

// Failed returns the number of items lost to sink errors.
func (b *Batcher[T]) Failed() int64 { return b.failed.Load() }
