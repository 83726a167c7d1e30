package pool

// Recyclable is the contract pooled object types implement. Reset is
// invoked exactly once per recycling, after the last handle referencing
// an object is released and before the object re-enters the reclamation
// queue. Implementations should clear content while retaining allocated
// capacity so that reuse stays allocation-free.
type Recyclable interface {
	Reset()
}

// Factory produces fresh objects for lazy pool growth. It must be safe
// for concurrent use: the pool may invoke it from multiple goroutines
// at once while the population is below the configured maximum.
type Factory[T Recyclable] func() T

// Slice adapts a growable slice of E for pooling. Reset truncates the
// slice to zero length while keeping the underlying array, so a
// recycled Slice appends without reallocating.
type Slice[E any] struct {
	Items []E
}

// NewSlice returns a Slice with the given pre-allocated capacity.
func NewSlice[E any](capacity int) *Slice[E] {
	return &Slice[E]{Items: make([]E, 0, capacity)}
}

// SliceFactory returns a Factory producing Slices with the given
// pre-allocated capacity.
func SliceFactory[E any](capacity int) Factory[*Slice[E]] {
	return func() *Slice[E] {
		return NewSlice[E](capacity)
	}
}

// Reset truncates the slice, retaining capacity.
func (s *Slice[E]) Reset() {
	s.Items = s.Items[:0]
}

// Map adapts a map of K to V for pooling. Reset deletes every key while
// keeping the allocated buckets.
type Map[K comparable, V any] struct {
	Items map[K]V
}

// NewMap returns a Map pre-sized for the given number of entries.
func NewMap[K comparable, V any](size int) *Map[K, V] {
	return &Map[K, V]{Items: make(map[K]V, size)}
}

// MapFactory returns a Factory producing Maps pre-sized for size
// entries.
func MapFactory[K comparable, V any](size int) Factory[*Map[K, V]] {
	return func() *Map[K, V] {
		return NewMap[K, V](size)
	}
}

// Reset removes all entries, retaining the allocated buckets.
func (m *Map[K, V]) Reset() {
	for k := range m.Items {
		delete(m.Items, k)
	}
}

// Buffer adapts a byte buffer for pooling. Reset truncates to zero
// length while keeping the underlying array.
type Buffer struct {
	B []byte
}

// NewBuffer returns a Buffer with the given pre-allocated capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{B: make([]byte, 0, capacity)}
}

// BufferFactory returns a Factory producing Buffers with the given
// pre-allocated capacity.
func BufferFactory(capacity int) Factory[*Buffer] {
	return func() *Buffer {
		return NewBuffer(capacity)
	}
}

// Reset truncates the buffer, retaining capacity.
func (b *Buffer) Reset() {
	b.B = b.B[:0]
}

// Write appends p to the buffer, implementing io.Writer so a pooled
// Buffer can stage output for encoders.
func (b *Buffer) Write(p []byte) (int, error) {
	b.B = append(b.B, p...)
	return len(p), nil
}
