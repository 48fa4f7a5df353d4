package divchash

// search.go implements spec §4.8's lock-free Search: hash the key, read the
// slot directly (no bucket-group lock, no gate), and linear-scan its chain.
//
// This is safe only when no mutator is concurrently touching the same slot
// array generation — exactly the external contract spec §4.8 states and
// which spec §9's open question resolves as "caller's responsibility, not
// enforced at runtime" (see DESIGN.md). Callers that cannot guarantee this
// on their own should use TypedTable.QuiesceAndSearch instead (typed.go),
// which is not part of the spec but composes the gate to provide that
// guarantee at a throughput cost.
//
// © 2025 divchash authors. MIT License.

import "github.com/Voskan/divchash/internal/bucket"

// Search looks up key and, if found, returns a copy of its value and true.
// Returns (nil, false) if key is absent. key must be exactly KeySize() bytes.
func (t *Table) Search(key []byte) ([]byte, bool, error) {
	if len(key) != t.keySize {
		return nil, false, ErrWrongKeySize
	}
	slotIx := t.hash(key)
	head := t.slots[slotIx]
	n := bucket.Search(head, key, t.keyEqual)
	if n == nil {
		return nil, false, nil
	}
	out := make([]byte, len(n.Value))
	copy(out, n.Value)
	return out, true, nil
}

// SearchBatch looks up every key in keys and reports, for each, whether it
// was found and (if so) its value. It offers no atomicity across keys beyond
// what Search itself offers per key — it exists purely as a convenience for
// callers doing bulk lookups (spec §4.8's rationale for why Search stays
// lock-free: graph-algorithm-style callers issuing many lookups per batch).
func (t *Table) SearchBatch(keys [][]byte) (values [][]byte, found []bool, err error) {
	values = make([][]byte, len(keys))
	found = make([]bool, len(keys))
	for i, key := range keys {
		v, ok, err := t.Search(key)
		if err != nil {
			return nil, nil, err
		}
		values[i] = v
		found[i] = ok
	}
	return values, found, nil
}
