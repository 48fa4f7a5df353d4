package divchash

import (
	"encoding/binary"
	"sync"
	"testing"

	"github.com/Voskan/divchash/internal/bucket"
)

func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func asU64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

func newTestTable(t *testing.T, opts ...Option) *Table {
	t.Helper()
	tbl, err := New(8, 8, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tbl
}

// Scenario 1 (spec §8.1): insert 3 keys, check element_count and a lookup.
func TestScenarioBasicInsertAndSearch(t *testing.T) {
	tbl := newTestTable(t, WithLoadFactor(1, 1))

	keys := [][]byte{u64(1), u64(2), u64(3)}
	values := [][]byte{u64(10), u64(20), u64(30)}
	inserted, err := tbl.InsertBatch(keys, values)
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if inserted != 3 {
		t.Fatalf("inserted = %d, want 3", inserted)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}

	v, ok, err := tbl.Search(u64(2))
	if err != nil || !ok {
		t.Fatalf("Search(2) ok=%v err=%v", ok, err)
	}
	if asU64(v) != 20 {
		t.Fatalf("Search(2) = %d, want 20", asU64(v))
	}
}

// Scenario 2 (spec §8.2): delete a subset, verify residency.
func TestScenarioDeleteResidency(t *testing.T) {
	tbl := newTestTable(t, WithLoadFactor(1, 1))

	keys := [][]byte{u64(1), u64(2), u64(3)}
	values := [][]byte{u64(10), u64(20), u64(30)}
	if _, err := tbl.InsertBatch(keys, values); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	deleted, err := tbl.DeleteBatch([][]byte{u64(1), u64(3)})
	if err != nil {
		t.Fatalf("DeleteBatch: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tbl.Len())
	}

	if _, ok, _ := tbl.Search(u64(1)); ok {
		t.Fatalf("Search(1) found after delete")
	}
	if v, ok, _ := tbl.Search(u64(2)); !ok || asU64(v) != 20 {
		t.Fatalf("Search(2) ok=%v v=%v, want 20", ok, v)
	}
	if _, ok, _ := tbl.Search(u64(3)); ok {
		t.Fatalf("Search(3) found after delete")
	}
}

// Scenario 3 (spec §8.3): concurrent merge via a commutative elt_merge.
func TestScenarioConcurrentMergeMax(t *testing.T) {
	maxMerge := func(existing, incoming []byte) {
		if asU64(incoming) > asU64(existing) {
			copy(existing, incoming)
		}
	}
	tbl := newTestTable(t, WithLoadFactor(1, 1), WithEltMerge(maxMerge))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		tbl.InsertBatch([][]byte{u64(42)}, [][]byte{u64(7)})
	}()
	go func() {
		defer wg.Done()
		tbl.InsertBatch([][]byte{u64(42)}, [][]byte{u64(11)})
	}()
	wg.Wait()

	v, ok, err := tbl.Search(u64(42))
	if err != nil || !ok {
		t.Fatalf("Search(42) ok=%v err=%v", ok, err)
	}
	if asU64(v) != 11 {
		t.Fatalf("Search(42) = %d, want 11", asU64(v))
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tbl.Len())
	}
}

// Scenario 5 (spec §8.5): repeated insert of the same key with no elt_merge.
func TestScenarioRepeatedInsertSameKey(t *testing.T) {
	tbl := newTestTable(t, WithLoadFactor(1, 1))

	for i := uint64(0); i < 1000; i++ {
		if _, err := tbl.InsertBatch([][]byte{u64(1)}, [][]byte{u64(i)}); err != nil {
			t.Fatalf("InsertBatch(%d): %v", i, err)
		}
	}

	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tbl.Len())
	}
	if tbl.countIndex != 0 {
		t.Fatalf("countIndex = %d, want 0 (no growth)", tbl.countIndex)
	}
	v, ok, err := tbl.Search(u64(1))
	if err != nil || !ok {
		t.Fatalf("Search(1) ok=%v err=%v", ok, err)
	}
	if asU64(v) != 999 {
		t.Fatalf("Search(1) = %d, want 999 (last inserted value)", asU64(v))
	}
}

// Round-trip laws, spec §8.
func TestRoundTripLaws(t *testing.T) {
	tbl := newTestTable(t, WithLoadFactor(1, 1))

	if _, err := tbl.InsertBatch([][]byte{u64(5)}, [][]byte{u64(500)}); err != nil {
		t.Fatal(err)
	}
	v, ok, _ := tbl.Search(u64(5))
	if !ok || asU64(v) != 500 {
		t.Fatalf("insert-then-search round trip failed: ok=%v v=%v", ok, v)
	}

	if _, err := tbl.DeleteBatch([][]byte{u64(5)}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := tbl.Search(u64(5)); ok {
		t.Fatalf("insert-delete-search round trip failed: key still present")
	}

	if _, err := tbl.InsertBatch([][]byte{u64(6)}, [][]byte{u64(1)}); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.InsertBatch([][]byte{u64(6)}, [][]byte{u64(2)}); err != nil {
		t.Fatal(err)
	}
	v, ok, _ = tbl.Search(u64(6))
	if !ok || asU64(v) != 2 {
		t.Fatalf("overwrite-without-merge law failed: ok=%v v=%v, want 2", ok, v)
	}

	out := [][]byte{make([]byte, 8)}
	binary.LittleEndian.PutUint64(out[0], 0xDEADBEEF)
	removed, err := tbl.RemoveBatch([][]byte{u64(777)}, out)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Fatalf("removed = %d, want 0 for absent key", removed)
	}
	if asU64(out[0]) != 0xDEADBEEF {
		t.Fatalf("values_out slot mutated for an absent key")
	}
}

// insert(B); remove(B, out); insert(B) restores state; out holds first values.
func TestInsertRemoveInsertRestoresState(t *testing.T) {
	tbl := newTestTable(t, WithLoadFactor(1, 1))

	keys := [][]byte{u64(1), u64(2), u64(3)}
	values := [][]byte{u64(100), u64(200), u64(300)}
	if _, err := tbl.InsertBatch(keys, values); err != nil {
		t.Fatal(err)
	}

	out := make([][]byte, 3)
	for i := range out {
		out[i] = make([]byte, 8)
	}
	removed, err := tbl.RemoveBatch(keys, out)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}
	for i, want := range []uint64{100, 200, 300} {
		if asU64(out[i]) != want {
			t.Fatalf("out[%d] = %d, want %d", i, asU64(out[i]), want)
		}
	}
	if tbl.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after full removal", tbl.Len())
	}

	if _, err := tbl.InsertBatch(keys, values); err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 after restoring", tbl.Len())
	}
	for i, want := range []uint64{100, 200, 300} {
		v, ok, _ := tbl.Search(keys[i])
		if !ok || asU64(v) != want {
			t.Fatalf("restored Search(%d) = %v ok=%v, want %d", i, v, ok, want)
		}
	}
}

// Boundary behavior: reserve hint must prevent growth on the promised count.
func TestReserveHintPreventsGrowth(t *testing.T) {
	tbl := newTestTable(t, WithReserve(500), WithLoadFactor(1, 1))
	before := tbl.countIndex

	keys := make([][]byte, 500)
	values := make([][]byte, 500)
	for i := range keys {
		keys[i] = u64(uint64(i))
		values[i] = u64(uint64(i))
	}
	if _, err := tbl.InsertBatch(keys, values); err != nil {
		t.Fatal(err)
	}
	if tbl.countIndex != before {
		t.Fatalf("countIndex = %d, want %d (reserve should have pre-sized the table)", tbl.countIndex, before)
	}
}

// Boundary behavior (spec §8): an extremely small alpha must trigger growth
// on the very first insertion when the initial prime is not large enough,
// using the spec's own 33/2^15 example.
func TestExtremeSmallAlphaTriggersGrowthOnFirstInsert(t *testing.T) {
	tbl := newTestTable(t, WithLoadFactor(33, 15))
	if tbl.maxElements != 0 {
		t.Fatalf("maxElements = %d, want 0 for the smallest ladder prime under 33/2^15", tbl.maxElements)
	}

	if _, err := tbl.InsertBatch([][]byte{u64(1)}, [][]byte{u64(1)}); err != nil {
		t.Fatal(err)
	}
	if tbl.countIndex == 0 {
		t.Fatalf("countIndex = 0, want growth to have advanced the ladder")
	}
}

// Slot invariant (spec §8): every node in slots[i] hashes to i under the
// current count, once no mutator is in flight.
func TestSlotInvariant(t *testing.T) {
	tbl := newTestTable(t, WithLoadFactor(1, 1))

	keys := make([][]byte, 200)
	values := make([][]byte, 200)
	for i := range keys {
		keys[i] = u64(uint64(i))
		values[i] = u64(uint64(i))
	}
	if _, err := tbl.InsertBatch(keys, values); err != nil {
		t.Fatal(err)
	}

	for i, head := range tbl.slots {
		for n := head; n != nil; n = bucket.Next(n) {
			if got := tbl.hash(n.Key); got != uint64(i) {
				t.Fatalf("node with key %d found in slot %d, hashes to %d", asU64(n.Key), i, got)
			}
		}
	}
}
