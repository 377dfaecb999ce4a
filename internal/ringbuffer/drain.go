package ringbuffer

import "iter"

// Drain yields the values a RingBuffer held when it was drained, oldest
// first. It is finite and cannot be restarted.
type Drain[T any] struct {
	items []T
	next  int
}

// Next returns the oldest value not yet yielded. The second result is false
// once every value has been returned.
func (d *Drain[T]) Next() (T, bool) {
	var zero T
	if d.next >= len(d.items) {
		return zero, false
	}

	v := d.items[d.next]
	d.items[d.next] = zero
	d.next++
	return v, true
}

// Len returns the number of values not yet yielded.
func (d *Drain[T]) Len() int {
	return len(d.items) - d.next
}

// All returns an iterator over the remaining values. Values consumed by
// ranging over it are not yielded again by Next.
func (d *Drain[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := d.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Collect returns the remaining values as a slice.
func (d *Drain[T]) Collect() []T {
	out := make([]T, 0, d.Len())
	for v := range d.All() {
		out = append(out, v)
	}
	return out
}
