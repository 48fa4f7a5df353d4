// Package lockgroup implements the power-of-two-sized array of mutexes that
// protects groups of slots in a divchash table (spec §4, component C5). A
// slot index i is protected by locks[i & mask]; the mask is derived once at
// construction from log2Locks.
//
// Grounded on pkg/cache.go's per-shard sync.RWMutex pattern in
// Voskan/arena-cache, generalized from "one mutex per shard" to "one mutex
// per bucket-group selected by bitmask" since divchash protects slots inside
// a single shared slot array rather than splitting the key space across
// independent shards.
//
// © 2025 divchash authors. MIT License.
package lockgroup

import "sync"

// Group is an array of 2^log2 mutexes plus the derived mask.
type Group struct {
	locks []sync.Mutex
	mask  uint64
}

// New constructs a Group sized 2^log2. log2 must be small enough that
// 1<<log2 doesn't overflow int; callers validate this against a sane upper
// bound before calling (pkg/divchash/config.go does).
func New(log2 uint) *Group {
	n := uint64(1) << log2
	return &Group{
		locks: make([]sync.Mutex, n),
		mask:  n - 1,
	}
}

// Mask returns locks_mask = 2^log2_locks - 1.
func (g *Group) Mask() uint64 { return g.mask }

// Len returns the number of mutexes in the group.
func (g *Group) Len() int { return len(g.locks) }

// Lock acquires the mutex protecting slot index ix.
func (g *Group) Lock(ix uint64) { g.locks[ix&g.mask].Lock() }

// Unlock releases the mutex protecting slot index ix.
func (g *Group) Unlock(ix uint64) { g.locks[ix&g.mask].Unlock() }

// ForIndex returns the lock index (ix & mask) a slot maps to, useful for
// callers that want to lock once and operate on several slots known to share
// a lock index.
func (g *Group) ForIndex(ix uint64) uint64 { return ix & g.mask }
