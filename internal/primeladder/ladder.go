// Package primeladder provides the compile-time table of slot-count primes
// consumed by the growth engine.
//
// The table itself is the classical hash-table prime progression used by
// glib's GHashTable (g_spaced_primes_closest): 11, 19, 37, 73, 109, 163,
// 251, … — each roughly 1.5x the last, deliberately not near a power of two
// or ten — extended here with a handful of larger 64-bit primes so
// reserve-hint pre-growth has real headroom before the ladder is exhausted.
//
// Per spec §4.2 each prime is representable as 1–4 little-endian 16-bit
// "parts", so the table stays meaningful on hosts with 16-bit native
// integers; BuildPrime/NumParts/Overflow operate on that decomposition
// (computed from the stored uint64, not hand-encoded, to avoid transcription
// errors in a 62-entry table).
//
// © 2025 divchash authors. MIT License.
package primeladder

// table is the ladder itself, in ascending order. All of these are prime.
var table = []uint64{
	11, 19, 37, 73, 109, 163, 251, 367, 557, 823,
	1237, 1861, 2777, 4177, 6247, 9371, 14057, 21089, 31627, 47431,
	71143, 106721, 160073, 240101, 360163, 540217, 810343, 1215497,
	1823231, 2734867, 4102283, 6153409, 9230113, 13845163, 20767777,
	31151639, 46727507, 70091207, 105136813, 157705231, 236557861,
	354836753, 532255177, 798382703, 1197574073, 1796361101,
	2694541627, 4041812443, 6062718661, 9094077997, 13641117019,
	20461675489, 30692513273, 46038769853, 69058154831, 103587232247,
	155380848331, 233071272517, 349606908829, 524410363187,
	786615544817, 1179923317151,
}

// Len reports how many entries the ladder has.
func Len() int { return len(table) }

// BuildPrime returns the prime at ladder index i. Panics if i is out of
// range — callers must check i against Len() first (this is an internal
// package; callers are the table's own growth engine).
func BuildPrime(i int) uint64 { return table[i] }

// NumParts reports how many 16-bit parts the prime at index i occupies when
// decomposed per spec §4.2: ceil(bitlen/16), minimum 1.
func NumParts(i int) int {
	v := table[i]
	n := 1
	for v >>= 16; v != 0; v >>= 16 {
		n++
	}
	return n
}

// Overflow reports whether index i is outside the table or the entry at i
// exceeds the representable width (more than 4 parts, i.e. beyond 64 bits).
// With the bundled table this is false for every valid index (every entry
// fits in <=4 parts); it is
// kept as a named operation because reaching the *end of the table* is the
// real exhaustion condition this implementation uses — see Next.
func Overflow(i int) bool {
	if i < 0 || i >= len(table) {
		return true
	}
	return NumParts(i) > 4
}

// Next returns the ladder index immediately after i, and whether that index
// is valid. When ok is false, the ladder is exhausted at i: no further
// growth is possible and the caller should record the exhausted sentinel.
func Next(i int) (next int, ok bool) {
	if i >= len(table)-1 || Overflow(i) {
		return i, false
	}
	return i + 1, true
}

// FirstAtLeast returns the smallest ladder index whose prime is >= min, and
// whether one exists. Used by New(reserve) to pre-grow the initial table so
// that inserting `reserve` elements causes no growth (spec §8 boundary
// behavior).
func FirstAtLeast(min uint64) (idx int, ok bool) {
	for i := 0; i < len(table); i++ {
		if table[i] >= min {
			return i, true
		}
	}
	return len(table) - 1, false
}
