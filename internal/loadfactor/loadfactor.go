// Package loadfactor implements the integer-only load-factor bound
// arithmetic of spec §4.4: max_elements = floor(count * alpha_num /
// 2^alpha_log2_den), computed exactly via a checked 128-bit-wide multiply
// and saturated to math.MaxUint64 on overflow. No floating point is used
// anywhere in this package.
//
// © 2025 divchash authors. MIT License.
package loadfactor

import (
	"math"
	"math/bits"
)

// MaxElements computes floor(count*alphaNum / 2^alphaLog2Den), saturating to
// math.MaxUint64 if the exact product does not fit back into 64 bits after
// the shift. alphaLog2Den must be in [0, 64).
func MaxElements(count, alphaNum uint64, alphaLog2Den uint) uint64 {
	hi, lo := bits.Mul64(count, alphaNum)
	if alphaLog2Den == 0 {
		if hi != 0 {
			return math.MaxUint64
		}
		return lo
	}
	if alphaLog2Den >= 64 {
		// Shifting by >=64 bits of a 128-bit value: the result is entirely
		// drawn from hi shifted further, or zero if hi is exhausted too.
		shift := alphaLog2Den - 64
		if shift >= 64 {
			return 0
		}
		return hi >> shift
	}
	// Stitch the low/high 64-bit halves of the 128-bit product (hi:lo) and
	// shift right by alphaLog2Den bits.
	low := lo>>alphaLog2Den | hi<<(64-alphaLog2Den)
	high := hi >> alphaLog2Den
	if high != 0 {
		return math.MaxUint64
	}
	return low
}

// Exceeded reports whether elementCount violates the bound implied by
// maxElements, per spec §4.4: "element_count > max_elements".
func Exceeded(elementCount, maxElements uint64) bool {
	return elementCount > maxElements
}
