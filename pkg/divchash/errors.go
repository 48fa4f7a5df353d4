package divchash

import "errors"

// Sentinel errors returned by New/AlignValue and by the batch and search
// methods for programmer-contract violations (spec §7.1). Allocation failure (§7.2) is not represented here
// — it is fatal and surfaces as the Go runtime's own out-of-memory panic,
// exactly as spec §7.2 argues recovery would require distributed rollback.
var (
	ErrInvalidKeySize      = errors.New("divchash: key_size must be >= 1")
	ErrInvalidValueSize    = errors.New("divchash: value_size must be >= 1")
	ErrInvalidAlpha        = errors.New("divchash: alpha_num must be >= 1")
	ErrInvalidLocksLog2    = errors.New("divchash: log2_locks must be in [0, 24]")
	ErrInvalidGrowWorker   = errors.New("divchash: grow_workers must be >= 1")
	ErrAlignAfterUse       = errors.New("divchash: AlignValue must be called immediately after New, before any other operation")
	ErrInvalidAlignment    = errors.New("divchash: alignment must be a power of two")
	ErrBatchLengthMismatch = errors.New("divchash: keys and values batch lengths must match")
	ErrWrongKeySize        = errors.New("divchash: key length does not match table key_size")
	ErrWrongValueSize      = errors.New("divchash: value length does not match table value_size")
)
