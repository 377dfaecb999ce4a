// Package ringbuffer provides a fixed-capacity circular buffer generic over
// its element type.
//
// The buffer keeps the most recent N values pushed into it. When it is full,
// a push silently evicts the oldest value. Values leave the buffer either one
// at a time via Pop, or all at once via Drain, which consumes the buffer and
// hands its remaining contents to an iterator.
package ringbuffer

import "slices"

// RingBuffer is a bounded FIFO of at most Cap() values.
//
// # How It Works
//
// The buffer tracks two pieces of state over a fixed slot slice:
//   - start: index of the oldest live value
//   - count: number of live values
//
// The next write position is (start + count) mod capacity. Tracking count
// directly means "empty" (count == 0) and "full" (count == capacity) never
// need to be told apart by inspecting slots.
//
// Visual example with a 3-slot buffer:
//
//	New(3):       [_, _, _]  start=0, count=0
//	Push 1,2,3:   [1, 2, 3]  start=0, count=3
//	Push 4:       [4, 2, 3]  start=1, count=3  (1 evicted)
//	Pop -> 2:     [4, _, 3]  start=2, count=2
//	Drain:        3, 4
//
// A capacity of 0 is valid: every Push discards its value and every Pop
// reports an empty buffer.
//
// RingBuffer is not safe for concurrent use.
type RingBuffer[T any] struct {
	slots []T
	start int
	count int
}

// New creates an empty ring buffer holding at most capacity values.
// A negative capacity is treated as 0.
func New[T any](capacity int) *RingBuffer[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &RingBuffer[T]{
		slots: make([]T, capacity),
	}
}

// Push appends v as the newest value. If the buffer is full, the oldest
// value is dropped first.
func (r *RingBuffer[T]) Push(v T) {
	n := len(r.slots)
	if n == 0 {
		return
	}

	if r.count == n {
		var zero T
		r.slots[r.start] = zero
		r.start = (r.start + 1) % n
		r.count--
	}

	r.slots[(r.start+r.count)%n] = v
	r.count++
}

// Pop removes and returns the oldest value. The second result is false
// when the buffer is empty.
func (r *RingBuffer[T]) Pop() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}

	v := r.slots[r.start]
	r.slots[r.start] = zero
	r.start = (r.start + 1) % len(r.slots)
	r.count--
	return v, true
}

// Peek returns the oldest value without removing it. The second result is
// false when the buffer is empty.
func (r *RingBuffer[T]) Peek() (T, bool) {
	if r.count == 0 {
		var zero T
		return zero, false
	}
	return r.slots[r.start], true
}

// Len returns the number of values currently held.
func (r *RingBuffer[T]) Len() int {
	return r.count
}

// Cap returns the maximum number of values the buffer can hold.
func (r *RingBuffer[T]) Cap() int {
	return len(r.slots)
}

// Drain consumes the buffer and returns an iterator over its remaining
// values, oldest first.
//
// The iterator takes over the buffer's storage. Afterwards r holds nothing
// and behaves like a buffer of capacity 0.
func (r *RingBuffer[T]) Drain() *Drain[T] {
	items := r.slots
	n := len(items)
	if n > 0 && r.start != 0 {
		rotateLeft(items, r.start)
	}
	items = items[:r.count]

	r.slots = nil
	r.start = 0
	r.count = 0

	return &Drain[T]{items: items}
}

// rotateLeft rotates s in place so that s[k] becomes s[0].
func rotateLeft[T any](s []T, k int) {
	slices.Reverse(s[:k])
	slices.Reverse(s[k:])
	slices.Reverse(s)
}
