package divchash

// mutate.go implements the batched mutators of spec §4.7 (InsertBatch,
// RemoveBatch, DeleteBatch): per-key hash→lock→chain-search→mutate, folded
// into the gate's entry/exit protocol (gate.go) so that the element-count
// update and the growth decision happen atomically with respect to other
// mutators, without holding any bucket-group lock across goroutines.
//
// Grounded on Voskan/arena-cache/pkg/cache.go's shard-striped Set/Get/Del,
// generalized from a single striped RWMutex per shard to the spec's
// independent lock-array/slot-array sizing and batched multi-key calling
// convention.
//
// © 2025 divchash authors. MIT License.

import "github.com/Voskan/divchash/internal/bucket"

// InsertBatch inserts or updates len(keys) key/value pairs (spec §4.7,
// "InsertBatch"). keys and values are slices of key_size/value_size blocks
// of equal length; violating this is a programmer error
// (ErrBatchLengthMismatch, ErrWrongKeySize/ErrWrongValueSize).
//
// For a key already present, the configured EltMergeFunc (if any) combines
// the incoming value into the existing one in place; otherwise the existing
// value is overwritten. For a key not present, a new node is prepended to
// its bucket's chain.
//
// Returns the number of keys that were newly inserted (as opposed to
// updated).
func (t *Table) InsertBatch(keys, values [][]byte) (inserted int, err error) {
	if err := t.checkBatch(keys, values); err != nil {
		return 0, err
	}
	t.markStarted()
	t.gate.enter()

	var localInserted, localUpdated int
	for i, key := range keys {
		value := values[i]
		slotIx := t.hash(key)
		lockIx := t.locks.ForIndex(slotIx)
		t.locks.Lock(lockIx)

		head := t.slots[slotIx]
		if n := bucket.Search(head, key, t.keyEqual); n != nil {
			if t.eltMerge != nil {
				t.eltMerge(n.Value, value)
			} else {
				if t.valueFree != nil {
					t.valueFree(n.Value)
				}
				copy(n.Value, value)
			}
			localUpdated++
		} else {
			node := bucket.Prepend(head, key, value)
			t.slots[slotIx] = node
			localInserted++
		}

		t.locks.Unlock(lockIx)
	}

	t.gate.exit(func() bool {
		t.elementCount += uint64(localInserted)
		return !t.Exhausted() && t.elementCount > t.maxElements
	}, func() {
		t.logger.Sugar().Debugw("divchash: gate closed for growth",
			"slot_count", len(t.slots), "element_count", t.elementCount)
		t.runGrowth()
	})

	for i := 0; i < localInserted; i++ {
		t.metrics.incInsert()
	}
	for i := 0; i < localUpdated; i++ {
		t.metrics.incUpdate()
	}
	t.metrics.setElementCount(t.Len())
	return localInserted, nil
}

// RemoveBatch removes len(keys) keys, copying each removed value into the
// caller-supplied out buffer at the corresponding offset (spec §4.7,
// "RemoveBatch"). out must be sized like values in InsertBatch. A key not
// present is silently skipped (its out slot is left untouched) — the spec
// frames Remove/Delete of an absent key as a no-op, not an error.
//
// Returns the number of keys actually removed.
func (t *Table) RemoveBatch(keys [][]byte, out [][]byte) (removed int, err error) {
	if len(keys) != len(out) {
		return 0, ErrBatchLengthMismatch
	}
	for _, k := range keys {
		if len(k) != t.keySize {
			return 0, ErrWrongKeySize
		}
	}
	for _, v := range out {
		if len(v) != t.valueSize {
			return 0, ErrWrongValueSize
		}
	}
	t.markStarted()
	t.gate.enter()

	var localRemoved int
	for i, key := range keys {
		slotIx := t.hash(key)
		lockIx := t.locks.ForIndex(slotIx)
		t.locks.Lock(lockIx)

		head := t.slots[slotIx]
		if n := bucket.Search(head, key, t.keyEqual); n != nil {
			copy(out[i], n.Value)
			t.slots[slotIx] = bucket.Detach(head, n)
			bucket.FreeNode(n, t.keyFree, nil)
			localRemoved++
		}

		t.locks.Unlock(lockIx)
	}

	t.gate.exit(func() bool {
		t.elementCount -= uint64(localRemoved)
		return false // removal never triggers growth
	}, nil)

	for i := 0; i < localRemoved; i++ {
		t.metrics.incRemove()
	}
	t.metrics.setElementCount(t.Len())
	return localRemoved, nil
}

// DeleteBatch deletes len(keys) keys without copying out their values (spec
// §4.7, "DeleteBatch"). If value_free was configured, it is invoked on each
// deleted key's value; otherwise the value bytes are simply dropped. A key
// not present is silently skipped.
//
// Returns the number of keys actually deleted.
func (t *Table) DeleteBatch(keys [][]byte) (deleted int, err error) {
	for _, k := range keys {
		if len(k) != t.keySize {
			return 0, ErrWrongKeySize
		}
	}
	t.markStarted()
	t.gate.enter()

	var localDeleted int
	for _, key := range keys {
		slotIx := t.hash(key)
		lockIx := t.locks.ForIndex(slotIx)
		t.locks.Lock(lockIx)

		head := t.slots[slotIx]
		if n := bucket.Search(head, key, t.keyEqual); n != nil {
			t.slots[slotIx] = bucket.Detach(head, n)
			bucket.FreeNode(n, t.keyFree, t.valueFree)
			localDeleted++
		}

		t.locks.Unlock(lockIx)
	}

	t.gate.exit(func() bool {
		t.elementCount -= uint64(localDeleted)
		return false // deletion never triggers growth
	}, nil)

	for i := 0; i < localDeleted; i++ {
		t.metrics.incDelete()
	}
	t.metrics.setElementCount(t.Len())
	return localDeleted, nil
}

func (t *Table) checkBatch(keys, values [][]byte) error {
	if len(keys) != len(values) {
		return ErrBatchLengthMismatch
	}
	for _, k := range keys {
		if len(k) != t.keySize {
			return ErrWrongKeySize
		}
	}
	for _, v := range values {
		if len(v) != t.valueSize {
			return ErrWrongValueSize
		}
	}
	return nil
}
