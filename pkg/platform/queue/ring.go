package queue

import "sync"

// Ring is a bounded, thread-safe FIFO buffer.
// When full, the oldest items are dropped to make room for new ones.
type Ring[T any] struct {
	mu       sync.Mutex
	items    []T
	head     int // next write position
	tail     int // next read position
	count    int
	capacity int

	dropped int64
}

// NewRing creates a ring buffer with the given capacity.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = 10000
	}
	return &Ring[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

// Enqueue adds an item, dropping the oldest if necessary.
// Returns false when an item had to be dropped.
func (r *Ring[T]) Enqueue(item T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := true
	if r.count >= r.capacity {
		var zero T
		r.items[r.tail] = zero
		r.tail = (r.tail + 1) % r.capacity
		r.count--
		r.dropped++
		kept = false
	}

	r.items[r.head] = item
	r.head = (r.head + 1) % r.capacity
	r.count++
	return kept
}

// DequeueBatch removes up to n items in FIFO order.
func (r *Ring[T]) DequeueBatch(n int) []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 || n <= 0 {
		return nil
	}
	if n > r.count {
		n = r.count
	}

	var zero T
	result := make([]T, n)
	for i := 0; i < n; i++ {
		result[i] = r.items[r.tail]
		r.items[r.tail] = zero
		r.tail = (r.tail + 1) % r.capacity
	}
	r.count -= n
	return result
}

// Len returns the current number of buffered items.
func (r *Ring[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Dropped returns the total number of items dropped because the ring was full.
func (r *Ring[T]) Dropped() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}
