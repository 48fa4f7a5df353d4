package divchash

// typed.go layers a generic, type-safe front over the byte-block Table core,
// satisfying spec §9's own design note that a "generic-typed front / opaque
// bytes back" split is preferable to forcing callers to manage raw byte
// blocks directly. Marshaling is zero-copy: comparable/fixed-layout K and V
// are viewed as their own byte representation via unsafe.Slice, exactly as
// Voskan/arena-cache/internal/unsafehelpers does for its shard keys (kept
// here, generalized, as internal/byteskey).
//
// © 2025 divchash authors. MIT License.

import (
	"unsafe"

	"github.com/Voskan/divchash/internal/byteskey"
)

// TypedTable is a generic front over Table for fixed-layout key/value types.
// K and V must not contain pointers, slices, maps, strings, interfaces, or
// anything else whose in-memory representation is not its complete value —
// byteskey's unsafe view would otherwise alias or outlive freed memory.
type TypedTable[K comparable, V any] struct {
	raw *Table
}

// NewTyped constructs a TypedTable wrapping a fresh Table sized for
// unsafe.Sizeof(K{})/unsafe.Sizeof(V{}) byte blocks.
func NewTyped[K comparable, V any](opts ...Option) (*TypedTable[K, V], error) {
	var k K
	var v V
	raw, err := New(int(unsafe.Sizeof(k)), int(unsafe.Sizeof(v)), opts...)
	if err != nil {
		return nil, err
	}
	return &TypedTable[K, V]{raw: raw}, nil
}

// InsertBatch inserts or updates keys[i] -> values[i] for every i (spec
// §4.7, typed front over Table.InsertBatch).
func (tt *TypedTable[K, V]) InsertBatch(keys []K, values []V) (inserted int, err error) {
	if len(keys) != len(values) {
		return 0, ErrBatchLengthMismatch
	}
	kb := make([][]byte, len(keys))
	vb := make([][]byte, len(values))
	for i := range keys {
		kb[i] = byteskey.ValueBytes(&keys[i])
		vb[i] = byteskey.ValueBytes(&values[i])
	}
	return tt.raw.InsertBatch(kb, vb)
}

// Search looks up key and, if present, returns a decoded copy of its value.
func (tt *TypedTable[K, V]) Search(key K) (value V, found bool, err error) {
	out, ok, err := tt.raw.Search(byteskey.ValueBytes(&key))
	if err != nil || !ok {
		return value, ok, err
	}
	value = *(*V)(unsafe.Pointer(&out[0]))
	return value, true, nil
}

// RemoveBatch removes keys[i] for every i, decoding each removed value into
// the returned slice at the same index (a zero V where the key was absent).
func (tt *TypedTable[K, V]) RemoveBatch(keys []K) (values []V, removed int, err error) {
	kb := make([][]byte, len(keys))
	for i := range keys {
		kb[i] = byteskey.ValueBytes(&keys[i])
	}
	out := make([][]byte, len(keys))
	values = make([]V, len(keys))
	for i := range out {
		out[i] = byteskey.ValueBytes(&values[i])
	}
	removed, err = tt.raw.RemoveBatch(kb, out)
	return values, removed, err
}

// DeleteBatch deletes keys[i] for every i without decoding their values.
func (tt *TypedTable[K, V]) DeleteBatch(keys []K) (deleted int, err error) {
	kb := make([][]byte, len(keys))
	for i := range keys {
		kb[i] = byteskey.ValueBytes(&keys[i])
	}
	return tt.raw.DeleteBatch(kb)
}

// Len returns the current element count.
func (tt *TypedTable[K, V]) Len() uint64 { return tt.raw.Len() }

// Exhausted reports whether the prime ladder has been fully advanced.
func (tt *TypedTable[K, V]) Exhausted() bool { return tt.raw.Exhausted() }

// Close releases the underlying Table.
func (tt *TypedTable[K, V]) Close() { tt.raw.Close() }

// Raw exposes the underlying byte-block Table for callers that need the
// lower-level batch or Search contract directly.
func (tt *TypedTable[K, V]) Raw() *Table { return tt.raw }

// QuiesceAndSearch performs a single-key Search while holding the gate fully
// closed, guaranteeing no InsertBatch/RemoveBatch/DeleteBatch (and therefore
// no growth) can race the read.
//
// This is NOT part of the specification proper: spec §4.8 places the burden
// of excluding concurrent mutation on the caller, and spec §9's open
// question on this point is resolved (see DESIGN.md) as "no runtime
// enforcement, document the contract." QuiesceAndSearch is offered as an
// opt-in convenience for callers who would rather pay the serialization cost
// than reason about it themselves; ordinary Search stays lock-free.
func (tt *TypedTable[K, V]) QuiesceAndSearch(key K) (value V, found bool, err error) {
	t := tt.raw
	t.gate.mu.Lock()
	for !t.gate.open {
		t.gate.openCV.Wait()
	}
	t.gate.open = false
	for t.gate.inFlight > 0 {
		t.gate.doneCV.Wait()
	}
	t.gate.mu.Unlock()

	value, found, err = tt.Search(key)

	t.gate.mu.Lock()
	t.gate.open = true
	t.gate.openCV.Broadcast()
	t.gate.mu.Unlock()

	return value, found, err
}
