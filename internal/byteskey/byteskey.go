// Package byteskey centralises the unavoidable uses of the `unsafe` package
// that let divchash's generic typed front (pkg/divchash.TypedTable) treat a
// fixed-layout Go value as a byte block without copying or reflection.
//
// Adapted from Voskan/arena-cache/internal/unsafehelpers: PtrSlice,
// ByteSliceFrom, AlignUp and IsPowerOfTwo are kept verbatim in spirit (same
// pre/post-conditions); BytesToString/StringToBytes are dropped — a
// fixed-size byte-block table has no string-specific fast path to exploit.
//
// ⚠️ These helpers deliberately step outside the Go memory-safety model for
// zero-copy conversions. Use only within this repository.
//
// © 2025 divchash authors. MIT License.
package byteskey

import "unsafe"

// PtrSlice converts an arbitrary *T pointer + element count into a []T
// without copying.
func PtrSlice[T any](ptr *T, n int) []T {
	if n == 0 {
		return nil
	}
	return unsafe.Slice(ptr, n)
}

// ByteSliceFrom returns a []byte view of raw memory starting at ptr with the
// given length. Caller must ensure the memory block is at least length
// bytes. Used to reinterpret a fixed-layout K or V as its byte-block
// representation for TypedTable.
func ByteSliceFrom(ptr unsafe.Pointer, length uintptr) []byte {
	return unsafe.Slice((*byte)(ptr), length)
}

// ValueBytes returns a byte view of *v without copying; writes through the
// slice modify *v. v must outlive the returned slice.
func ValueBytes[T any](v *T) []byte {
	return ByteSliceFrom(unsafe.Pointer(v), unsafe.Sizeof(*v))
}

// AlignUp rounds x up to the nearest multiple of align (which must be a
// power of two). Backs Table.AlignValue (spec §4.9 align-value operation).
func AlignUp(x, align uintptr) uintptr {
	return (x + align - 1) &^ (align - 1)
}

// IsPowerOfTwo returns true if x is a power of two (exactly one bit set).
// Used by Table.AlignValue to validate the requested value alignment.
func IsPowerOfTwo(x uintptr) bool {
	return x != 0 && (x&(x-1)) == 0
}
