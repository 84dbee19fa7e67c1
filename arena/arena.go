// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package arena implements a fixed-capacity, append-only storage pool that
// hands out opaque handles in place of pointers.
//
// An Arena is created with a capacity that never changes. Each call to Alloc
// appends one value and returns a Handle whose index is the number of values
// stored before the call. Values are never modified or removed once stored.
//
// A Handle is branded with the identity of the arena that minted it, and its
// fields are unexported, so the only way to obtain a valid handle is from
// Alloc (or All) on a particular arena. Fetching a handle from a different
// arena is a programming error and panics; use Lookup to check instead.
package arena

import (
	"errors"
	"fmt"
	"iter"
	"sync/atomic"
)

// ErrCapacityExceeded is reported by Alloc when an arena is full.
var ErrCapacityExceeded = errors.New("arena capacity exceeded")

// nextID is the source of arena identities. Zero is never assigned, so the
// zero Handle does not belong to any arena.
var nextID atomic.Uint64

// An Arena is a fixed-capacity pool of values of type T.
// An Arena is not safe for concurrent mutation, but once all allocations are
// complete it may be read concurrently.
type Arena[T any] struct {
	id   uint64
	vals []T
}

// New constructs an empty arena with room for exactly capacity values.
// New panics if capacity <= 0.
func New[T any](capacity int) *Arena[T] {
	if capacity <= 0 {
		panic(fmt.Sprintf("arena: invalid capacity %d", capacity))
	}
	return &Arena[T]{
		id:   nextID.Add(1),
		vals: make([]T, 0, capacity),
	}
}

// A Handle is an opaque reference to a value of type T stored in an Arena.
// The zero Handle is not valid for any arena.
type Handle[T any] struct {
	arena uint64
	index int
}

// Index reports the allocation index of h. Handles from the same arena are
// numbered 0, 1, 2, ... in allocation order.
func (h Handle[T]) Index() int { return h.index }

// IsZero reports whether h is the zero Handle.
func (h Handle[T]) IsZero() bool { return h.arena == 0 }

func (h Handle[T]) String() string {
	if h.IsZero() {
		return "#invalid"
	}
	return fmt.Sprintf("#%d", h.index)
}

// Alloc appends v to a and returns its handle. If a is already at capacity,
// Alloc reports ErrCapacityExceeded and a is unchanged.
func (a *Arena[T]) Alloc(v T) (Handle[T], error) {
	if len(a.vals) == cap(a.vals) {
		return Handle[T]{}, fmt.Errorf("%w (capacity %d)", ErrCapacityExceeded, cap(a.vals))
	}
	h := Handle[T]{arena: a.id, index: len(a.vals)}
	a.vals = append(a.vals, v)
	return h, nil
}

// Owns reports whether h was minted by a.
func (a *Arena[T]) Owns(h Handle[T]) bool {
	return h.arena == a.id && h.index >= 0 && h.index < len(a.vals)
}

// Fetch returns the value stored for h.
// Fetch panics if h was not minted by a.
func (a *Arena[T]) Fetch(h Handle[T]) T {
	if !a.Owns(h) {
		panic(fmt.Sprintf("arena: handle %v does not belong to this arena", h))
	}
	return a.vals[h.index]
}

// Lookup returns the value stored for h, and reports whether h was minted by
// a. If not, Lookup returns a zero value and false.
func (a *Arena[T]) Lookup(h Handle[T]) (T, bool) {
	if !a.Owns(h) {
		var zero T
		return zero, false
	}
	return a.vals[h.index], true
}

// Len reports the number of values stored in a.
func (a *Arena[T]) Len() int { return len(a.vals) }

// Cap reports the capacity of a.
func (a *Arena[T]) Cap() int { return cap(a.vals) }

// All is a range function over the handles and values of a, in allocation
// order.
func (a *Arena[T]) All() iter.Seq2[Handle[T], T] {
	return func(yield func(Handle[T], T) bool) {
		for i, v := range a.vals {
			if !yield(Handle[T]{arena: a.id, index: i}, v) {
				return
			}
		}
	}
}
