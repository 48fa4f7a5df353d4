//go:build goexperiment.arenas
// +build goexperiment.arenas

// Package arenaalloc wraps Go's experimental arena package for bulk
// allocation of the slot array a growth pass (spec §4.6) replaces in one
// shot. Adapted from Voskan/arena-cache/internal/arena, trimmed to
// the primitives the growth engine actually needs (New, Free, MakeSlice):
// arena-cache used this to back cache-value generations; divchash reuses the
// same "allocate once, release as a unit" shape for a resize's new slot
// array instead of a TTL-bounded generation.
//
// Concurrency: Arena is not thread-safe. The growth engine only ever touches
// one Arena from the single goroutine driving growth (spec §4.6 runs with
// the gate closed and exactly one caller thread), so no locking is added
// here.
//
// © 2025 divchash authors. MIT License.
package arenaalloc

import "arena"

// Arena is a thin new-type wrapper so the rest of divchash never depends
// directly on the experimental arena.Arena type.
type Arena struct{ ar *arena.Arena }

// New constructs an empty arena ready for allocations.
func New() *Arena {
	return &Arena{ar: arena.NewArena()}
}

// Free releases all memory allocated in the arena. After the call, any
// slice previously returned from MakeSlice becomes invalid.
func (a *Arena) Free() {
	a.ar.Free()
}

// MakeSlice allocates a slice of length==cap==n inside the arena.
func MakeSlice[T any](a *Arena, n int) []T {
	return arena.MakeSlice[T](a.ar, n, n)
}
