package divchash

// config.go mirrors Voskan/arena-cache/pkg/config.go nearly verbatim: a
// config struct plus a set of functional Options, applied then validated in
// one pass by applyOptions. Options never allocate unless strictly
// necessary; most just capture a callback or pointer.
//
// © 2025 divchash authors. MIT License.

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Voskan/divchash/internal/bucket"
	"github.com/Voskan/divchash/internal/reduce"
)

// KeyEqualFunc reports whether two key byte blocks of identical length
// should be treated as equal. A nil value falls back to byte-wise equality
// (spec §6: key_eq).
type KeyEqualFunc = bucket.KeyEqual

// FreeFunc releases external memory associated with a stored key or value
// block (spec §6: key_free / value_free).
type FreeFunc = bucket.FreeFunc

// KeyReducerFunc reduces key bytes to a native-width integer (spec §6:
// key_reduce).
type KeyReducerFunc = reduce.KeyReducer

// EltMergeFunc combines a newly-inserted value into an already-present
// node's value in place (spec §4.7.1, §6). It must be pure and infallible —
// spec §9's open question on this point is resolved as "no error return, no
// allocation" (see DESIGN.md). For deterministic results under concurrent
// overlapping inserts, it must be commutative and associative.
type EltMergeFunc func(existing, incoming []byte)

type config struct {
	reserve      uint64
	alphaNum     uint64
	alphaLog2Den uint
	log2Locks    uint
	growWorkers  int

	registry *prometheus.Registry
	logger   *zap.Logger

	keyEqual  KeyEqualFunc
	keyReduce KeyReducerFunc
	eltMerge  EltMergeFunc
	keyFree   FreeFunc
	valueFree FreeFunc
}

// Option configures a Table at construction time.
type Option func(*config)

func defaultConfig() *config {
	return &config{
		reserve:      0,
		alphaNum:     1,
		alphaLog2Den: 1, // alpha = 1/2
		log2Locks:    4, // 16 bucket-group locks
		growWorkers:  4,
		logger:       zap.NewNop(),
	}
}

// WithReserve pre-sizes the table so that inserting up to `n` distinct
// keys causes no growth (spec §8 boundary behavior).
func WithReserve(n uint64) Option {
	return func(c *config) { c.reserve = n }
}

// WithLoadFactor sets alpha = alphaNum / 2^alphaLog2Den (spec §3:
// alpha_num, alpha_log2_den). alphaNum must be >= 1.
func WithLoadFactor(alphaNum uint64, alphaLog2Den uint) Option {
	return func(c *config) {
		c.alphaNum = alphaNum
		c.alphaLog2Den = alphaLog2Den
	}
}

// WithLocksLog2 sets log2_locks: the lock array holds 2^log2Locks mutexes
// (spec §3: locks, locks_mask).
func WithLocksLog2(log2Locks uint) Option {
	return func(c *config) { c.log2Locks = log2Locks }
}

// WithGrowWorkers sets grow_workers, the number of goroutines (including the
// caller) that rehash chains in parallel during growth (spec §4.6).
func WithGrowWorkers(n int) Option {
	return func(c *config) { c.growWorkers = n }
}

// WithMetrics enables Prometheus metrics collection. Passing nil disables
// metrics (default).
func WithMetrics(reg *prometheus.Registry) Option {
	return func(c *config) { c.registry = reg }
}

// WithLogger plugs an external zap.Logger. The table never logs on the hot
// path (Insert/Search/Remove/Delete); only slow events are emitted: gate
// closing for growth and growth completion at Debug level, ladder
// exhaustion at Warn level.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithKeyEqual overrides the default byte-wise key comparison (spec §6:
// key_eq).
func WithKeyEqual(fn KeyEqualFunc) Option {
	return func(c *config) { c.keyEqual = fn }
}

// WithKeyReducer overrides DefaultReduce (spec §6: key_reduce). Recommended
// for structured/composite keys — see internal/reduce's doc comment for the
// all-zero-prefix weakness of the default reducer.
func WithKeyReducer(fn KeyReducerFunc) Option {
	return func(c *config) { c.keyReduce = fn }
}

// WithEltMerge installs the merge callback used to reconcile concurrent
// inserts of the same key (spec §4.7.1, §4.7 "Merge/update semantics").
// Without it, concurrent overlapping inserts converge to an unspecified but
// consistent winner.
func WithEltMerge(fn EltMergeFunc) Option {
	return func(c *config) { c.eltMerge = fn }
}

// WithKeyFree installs a release hook invoked on a key's byte block when its
// node is freed (spec §6: key_free). Use when the key bytes reference
// externally-owned memory.
func WithKeyFree(fn FreeFunc) Option {
	return func(c *config) { c.keyFree = fn }
}

// WithValueFree installs a release hook invoked on a value's byte block
// when its node is freed or replaced without a merge (spec §6: value_free).
func WithValueFree(fn FreeFunc) Option {
	return func(c *config) { c.valueFree = fn }
}

func applyOptions(c *config, opts []Option) error {
	for _, opt := range opts {
		opt(c)
	}
	if c.alphaNum == 0 {
		return ErrInvalidAlpha
	}
	if c.log2Locks > 24 {
		return ErrInvalidLocksLog2
	}
	if c.growWorkers < 1 {
		return ErrInvalidGrowWorker
	}
	return nil
}
