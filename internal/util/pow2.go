// Package util contains internal helpers shared by the buffers and caches:
// power-of-two arithmetic, key hashing, shard sizing and cache-line padding.
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import "math/bits"

// IsPowerOfTwo reports whether x is a power of two (> 0).
func IsPowerOfTwo(x uint64) bool {
	return x != 0 && x&(x-1) == 0
}

// NextPow2 returns the smallest power of two >= x.
// Special cases:
//   - x <= 1 -> 1
//   - if the exact next power would overflow 64 bits, the result is clamped to 1<<63
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	if x > 1<<63 {
		return 1 << 63
	}
	return 1 << (64 - bits.LeadingZeros64(x-1))
}

// CeilPow2 is NextPow2 for non-negative ints. Callers bound n beforehand;
// values <= 1 yield 1.
func CeilPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return int(NextPow2(uint64(n)))
}
