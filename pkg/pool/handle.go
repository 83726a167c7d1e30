package pool

import (
	"sync/atomic"

	"github.com/ajitpratap0/reservoir/pkg/errors"
)

// Handle is a reference-counted lease on a pooled object. Handles are
// created by Pool.Acquire and fan out through Clone; the object returns
// to the pool automatically when the last handle referencing it is
// released.
//
// A single Handle value is not safe for concurrent use. To share the
// underlying object across goroutines, give each goroutine its own
// Clone and let each release it independently.
type Handle[T Recyclable] struct {
	state    *leaseState[T]
	released atomic.Bool
}

// leaseState is the ownership record shared by a handle and all of its
// clones. refs counts live handles; detached marks an object that left
// pool circulation through Detach.
type leaseState[T Recyclable] struct {
	refs     atomic.Int32
	detached atomic.Bool
	value    T
	pool     *Pool[T]
}

func newHandle[T Recyclable](p *Pool[T], value T) *Handle[T] {
	s := &leaseState[T]{value: value, pool: p}
	s.refs.Store(1)
	return &Handle[T]{state: s}
}

// Value returns the pooled object for shared, read-oriented access. Any
// live handle may call Value no matter how many clones exist.
//
// Value panics with an ErrorTypeInternal error when the handle was
// already released or the object was detached.
func (h *Handle[T]) Value() T {
	h.mustBeLive("value")
	if h.state.detached.Load() {
		panic(errors.New(errors.ErrorTypeInternal, "access to detached pool object").
			WithDetail("pool", h.state.pool.name))
	}
	return h.state.value
}

// Exclusive returns the pooled object for mutation. It succeeds only
// when this handle is the sole reference, so no clone can observe the
// mutation mid-flight. It reports false when clones are outstanding or
// the object was detached; callers must not mutate through a false
// result.
func (h *Handle[T]) Exclusive() (T, bool) {
	h.mustBeLive("exclusive")
	s := h.state
	if s.detached.Load() || s.refs.Load() != 1 {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Clone creates an additional handle sharing the same pooled object.
// The object stays checked out until every handle referencing it has
// been released.
//
// Clone panics with an ErrorTypeInternal error when the handle was
// already released or the object was detached.
func (h *Handle[T]) Clone() *Handle[T] {
	h.mustBeLive("clone")
	s := h.state
	if s.detached.Load() {
		panic(errors.New(errors.ErrorTypeInternal, "clone of detached pool object").
			WithDetail("pool", s.pool.name))
	}
	s.refs.Add(1)
	return &Handle[T]{state: s}
}

// Detach permanently removes the object from pool circulation and
// transfers it to the caller. It succeeds only when this handle is the
// sole reference; it reports false when clones are outstanding or the
// object was already detached.
//
// The handle stays live after a successful Detach and must still be
// released. That final release surrenders the object's slot in the
// counted population instead of recycling anything, shrinking the pool
// by one.
func (h *Handle[T]) Detach() (T, bool) {
	h.mustBeLive("detach")
	s := h.state
	var zero T
	if s.refs.Load() != 1 {
		return zero, false
	}
	if !s.detached.CompareAndSwap(false, true) {
		return zero, false
	}
	value := s.value
	s.value = zero
	s.pool.noteDetach()
	return value, true
}

// Release gives up this handle's reference. When it is the last
// reference, the object is reset and pushed onto the pool's reclamation
// queue; if the object was detached, the pool records the lost slot
// instead. Releases arriving after the pool closed discard the object.
//
// Each handle must be released exactly once. A second Release panics
// with an ErrorTypeInternal error.
func (h *Handle[T]) Release() {
	if !h.released.CompareAndSwap(false, true) {
		panic(errors.New(errors.ErrorTypeInternal, "pool handle released twice").
			WithDetail("pool", h.state.pool.name))
	}
	s := h.state
	if s.refs.Add(-1) > 0 {
		return
	}
	if s.detached.Load() {
		s.pool.vacate()
		return
	}
	s.value.Reset()
	s.pool.recycle(s.value)
}

// Refs reports the number of live handles sharing the object. The value
// is advisory when clones are being created or released concurrently.
func (h *Handle[T]) Refs() int32 {
	return h.state.refs.Load()
}

func (h *Handle[T]) mustBeLive(op string) {
	if h.released.Load() {
		panic(errors.New(errors.ErrorTypeInternal, "use of released pool handle").
			WithDetail("pool", h.state.pool.name).
			WithDetail("op", op))
	}
}
