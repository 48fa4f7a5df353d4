package divchash

// growth.go implements spec §4.6: the single-threaded (from the gate's
// point of view) growth phase that advances the prime ladder and rehashes
// every existing node into a freshly-sized slot array.
//
// runGrowth only ever runs with the gate closed and in_flight drained to 1
// (gate.go's exit protocol), so the OLD slot array needs no locking at all —
// the calling goroutine and the worker goroutines it spawns are the only
// readers/writers of it, and they partition it into disjoint segments.
// Concurrent writes into the NEW slot array, however, can collide across
// worker segments (two old slots from different segments can hash to the
// same new slot), so new-chain prepends still go through the table's
// existing lock array, exactly as ordinary mutators do.
//
// Grounded on Voskan/arena-cache/internal/arena.go's bump allocator (kept
// under internal/arenaalloc) for the new slot array, and on
// golang.org/x/sync/errgroup, a sibling of the x/sync/singleflight package
// that Voskan/arena-cache's loader.go uses, for fanning the rehash pass out
// across grow_workers goroutines.
//
// © 2025 divchash authors. MIT License.

import (
	"golang.org/x/sync/errgroup"

	"github.com/Voskan/divchash/internal/arenaalloc"
	"github.com/Voskan/divchash/internal/bucket"
	"github.com/Voskan/divchash/internal/loadfactor"
	"github.com/Voskan/divchash/internal/primeladder"
	"github.com/Voskan/divchash/internal/reduce"
)

// runGrowth advances the table along the prime ladder, one or more entries,
// until the load-factor bound holds or the last entry is reached, and
// rehashes every node into the new slot array. If the ladder is already
// exhausted, or overflows on the first advance, the table is marked
// exhausted instead (spec §3
// count_index sentinel, §7.3, §8 scenario 6) and no rehash occurs — the
// table keeps operating at its current size indefinitely, violating the
// load-factor bound rather than failing.
func (t *Table) runGrowth() {
	// Step 1: advance the cursor, possibly by more than one ladder entry, until
	// the new count relieves the load-factor bound or the ladder is exhausted
	// (spec §4.6 step 1) — a single oversized batch can outgrow more than one
	// rung in one pass (spec §8 scenario 4).
	next := t.countIndex
	for {
		candidate, ok := primeladder.Next(next)
		if !ok || primeladder.Overflow(candidate) {
			if next == t.countIndex {
				t.countIndex = exhaustedIndex
				t.metrics.setExhausted(true)
				t.logger.Sugar().Warnw("divchash: prime ladder exhausted, growth disabled",
					"slot_count", len(t.slots), "element_count", t.elementCount)
				return
			}
			break
		}
		next = candidate
		bound := loadfactor.MaxElements(primeladder.BuildPrime(next), t.alphaNum, t.alphaLog2Den)
		if !loadfactor.Exceeded(t.elementCount, bound) {
			break
		}
	}

	oldSlots := t.slots
	newCount := primeladder.BuildPrime(next)
	newArena := arenaalloc.New()
	newSlots := arenaalloc.MakeSlice[*bucket.Node](newArena, int(newCount))

	workers := t.growWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(oldSlots) && len(oldSlots) > 0 {
		workers = len(oldSlots)
	}

	rehashSegment := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			n := oldSlots[i]
			for n != nil {
				succ := bucket.Next(n)
				newIx := reduce.Hash(t.keyReduce, n.Key, newCount)
				lockIx := t.locks.ForIndex(newIx)
				t.locks.Lock(lockIx)
				newSlots[newIx] = bucket.PrependNode(newSlots[newIx], n)
				t.locks.Unlock(lockIx)
				n = succ
			}
		}
	}

	segments := partition(len(oldSlots), workers)
	var eg errgroup.Group
	for w := 1; w < len(segments); w++ {
		lo, hi := segments[w][0], segments[w][1]
		eg.Go(func() error {
			rehashSegment(lo, hi)
			return nil
		})
	}
	if len(segments) > 0 {
		rehashSegment(segments[0][0], segments[0][1])
	}
	_ = eg.Wait() // workers never return an error

	t.slots = newSlots
	oldArena := t.arena
	t.arena = newArena
	oldArena.Free()
	t.countIndex = next
	t.maxElements = loadfactor.MaxElements(newCount, t.alphaNum, t.alphaLog2Den)
	t.metrics.incGrowth()
	t.metrics.setSlotCount(newCount)
	t.metrics.setMaxElements(t.maxElements)
	t.logger.Sugar().Debugw("divchash: growth complete",
		"slot_count", newCount, "element_count", t.elementCount, "max_elements", t.maxElements)
}

// partition splits [0, n) into at most workers contiguous segments, spreading
// the remainder across the first segments (spec §4.6: "the remainder
// spread across the first workers").
func partition(n, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if n == 0 {
		return [][2]int{{0, 0}}
	}
	base := n / workers
	rem := n % workers
	segs := make([][2]int, 0, workers)
	start := 0
	for w := 0; w < workers; w++ {
		size := base
		if w < rem {
			size++
		}
		if size == 0 {
			continue
		}
		segs = append(segs, [2]int{start, start + size})
		start += size
	}
	return segs
}
