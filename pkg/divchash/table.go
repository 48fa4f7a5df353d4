// Package divchash implements a generic, concurrently-accessible in-memory
// hash table based on the division method for hashing with chained
// collision resolution: a portable prime-sized slot table, fine-grained
// per-bucket-group locking, and a two-phase gate protocol that quiesces
// batched mutators so single-threaded growth can run without blocking
// reads.
//
// This is the Go-native reimplementation of the ht-divchn-pthread design:
// see SPEC_FULL.md and DESIGN.md at the repository root for the full
// specification and the grounding ledger tying every part of this package
// back to github.com/Voskan/arena-cache, this module's teacher repository.
//
// © 2025 divchash authors. MIT License.
package divchash

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Voskan/divchash/internal/arenaalloc"
	"github.com/Voskan/divchash/internal/bucket"
	"github.com/Voskan/divchash/internal/byteskey"
	"github.com/Voskan/divchash/internal/lockgroup"
	"github.com/Voskan/divchash/internal/loadfactor"
	"github.com/Voskan/divchash/internal/primeladder"
	"github.com/Voskan/divchash/internal/reduce"
)

// exhaustedIndex is the sentinel stored in countIndex once the prime ladder
// has been fully advanced and no further growth is possible (spec §3:
// count_index's "exhausted" sentinel). It is distinct from any valid ladder
// index.
const exhaustedIndex = -1

// Table is the central handle of spec §3: a fixed key_size/value_size
// byte-block hash table with chained collision resolution, prime-sized slot
// array, per-bucket-group locking and gated single-writer growth.
//
// Table is safe for concurrent InsertBatch/RemoveBatch/DeleteBatch calls
// from multiple goroutines. Search is lock-free and, per spec §4.8's
// external contract, must only be called when no mutator is in flight.
type Table struct {
	keySize   int
	valueSize int
	alignment uintptr
	started   atomic.Bool // true once InsertBatch, RemoveBatch or DeleteBatch has run

	countIndex int // index into primeladder, or exhaustedIndex
	slots      []*bucket.Node

	locks *lockgroup.Group

	alphaNum     uint64
	alphaLog2Den uint
	maxElements  uint64
	elementCount uint64 // guarded by gate.mu

	growWorkers int
	gate        *gate
	arena       *arenaalloc.Arena

	keyEqual  KeyEqualFunc
	keyReduce KeyReducerFunc
	eltMerge  EltMergeFunc
	keyFree   FreeFunc
	valueFree FreeFunc

	logger  *zap.Logger
	metrics metricsSink
}

// New constructs a Table for fixed-size keySize/valueSize byte blocks (spec
// §4.9 "init"). Both must be >= 1. See Option for tunables (reserve hint,
// load factor, lock-array size, grow worker count, callbacks, logging,
// metrics).
func New(keySize, valueSize int, opts ...Option) (*Table, error) {
	if keySize < 1 {
		return nil, ErrInvalidKeySize
	}
	if valueSize < 1 {
		return nil, ErrInvalidValueSize
	}

	cfg := defaultConfig()
	if err := applyOptions(cfg, opts); err != nil {
		return nil, err
	}

	idx := 0
	exhausted := false
	if cfg.reserve > 0 {
		minCount := reserveMinCount(cfg.reserve, cfg.alphaNum, cfg.alphaLog2Den)
		if found, ok := primeladder.FirstAtLeast(minCount); ok {
			idx = found
		} else {
			// No ladder entry is large enough to satisfy this reserve hint: go
			// as large as the ladder allows and mark the table exhausted from
			// the start (spec §8 boundary behavior: "reserve N past the
			// ladder" produces count_index == exhausted-sentinel immediately).
			idx = primeladder.Len() - 1
			exhausted = true
		}
	}

	count := primeladder.BuildPrime(idx)
	ar := arenaalloc.New()
	slots := arenaalloc.MakeSlice[*bucket.Node](ar, int(count))

	if exhausted {
		idx = exhaustedIndex
	}
	t := &Table{
		keySize:      keySize,
		valueSize:    valueSize,
		alignment:    1,
		countIndex:   idx,
		slots:        slots,
		locks:        lockgroup.New(cfg.log2Locks),
		alphaNum:     cfg.alphaNum,
		alphaLog2Den: cfg.alphaLog2Den,
		maxElements:  loadfactor.MaxElements(count, cfg.alphaNum, cfg.alphaLog2Den),
		growWorkers:  cfg.growWorkers,
		gate:         newGate(),
		arena:        ar,
		keyEqual:     cfg.keyEqual,
		keyReduce:    cfg.keyReduce,
		eltMerge:     cfg.eltMerge,
		keyFree:      cfg.keyFree,
		valueFree:    cfg.valueFree,
		logger:       cfg.logger,
		metrics:      newMetricsSink(cfg.registry),
	}
	t.metrics.setSlotCount(count)
	t.metrics.setMaxElements(t.maxElements)
	t.metrics.setElementCount(0)
	if exhausted {
		t.metrics.setExhausted(true)
	}
	return t, nil
}

// reserveMinCount returns the smallest slot count such that reserve elements
// do not exceed the load-factor bound: count >= reserve * 2^log2den /
// alphaNum, rounded up.
func reserveMinCount(reserve, alphaNum uint64, alphaLog2Den uint) uint64 {
	if alphaNum == 0 {
		alphaNum = 1
	}
	num := reserve << alphaLog2Den
	min := num / alphaNum
	if num%alphaNum != 0 {
		min++
	}
	return min
}

// AlignValue sets the value_alignment advertised by the table (spec §4.9
// "align-value"). It may only be called immediately after New, before any
// other operation. value_size is rounded up to the given alignment.
func (t *Table) AlignValue(align uintptr) error {
	if t.started.Load() {
		return ErrAlignAfterUse
	}
	if align == 0 {
		return ErrInvalidAlignment
	}
	if !byteskey.IsPowerOfTwo(align) {
		return ErrInvalidAlignment
	}
	t.alignment = align
	t.valueSize = int(byteskey.AlignUp(uintptr(t.valueSize), align))
	return nil
}

// KeySize returns the fixed key size in bytes.
func (t *Table) KeySize() int { return t.keySize }

// ValueSize returns the fixed value size in bytes (after AlignValue
// rounding, if any).
func (t *Table) ValueSize() int { return t.valueSize }

// Len returns the current element_count. Safe to call concurrently; reflects
// a recent, not necessarily instantaneous, value the same way spec §4.8
// frames Search's contract (no mutator in flight assumed for a precise
// read).
func (t *Table) Len() uint64 {
	t.gate.mu.Lock()
	n := t.elementCount
	t.gate.mu.Unlock()
	return n
}

// SlotCount returns the current number of slots (always a ladder prime,
// spec §3 invariant, whether or not the ladder is exhausted).
func (t *Table) SlotCount() uint64 {
	return uint64(len(t.slots))
}

// Exhausted reports whether the prime ladder has been fully advanced (spec
// §3's count_index "exhausted" sentinel, §7.3, §8 scenario 6).
func (t *Table) Exhausted() bool {
	return t.countIndex == exhaustedIndex
}

// Close releases all chains and callbacks-release external memory via
// key_free/value_free where configured (spec §4.9 "free"). The table must
// not be used after Close.
func (t *Table) Close() {
	for i := range t.slots {
		bucket.FreeAll(t.slots[i], t.keyFree, t.valueFree)
		t.slots[i] = nil
	}
	if t.arena != nil {
		t.arena.Free()
	}
	atomic.StoreUint64(&t.elementCount, 0)
}

func (t *Table) hash(key []byte) uint64 {
	return reduce.Hash(t.keyReduce, key, uint64(len(t.slots)))
}

func (t *Table) markStarted() { t.started.Store(true) }
