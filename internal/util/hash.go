package util

import (
	"fmt"
	"math"
)

const (
	fnvOffset64 = 1469598103934665603
	fnvPrime64  = 1099511628211
)

// Fnv64a hashes common key types with 64-bit FNV-1a. It is the default
// shard selector of the concurrent cache.
//
// Strings and fixed byte arrays hash their bytes; integer,
// float and bool keys hash the little-endian bytes of their value;
// fmt.Stringer is the fallback. Any other key type panics: the caller has to
// convert it or supply its own hasher rather than silently hashing poorly.
func Fnv64a[K comparable](k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return fnvString(v)
	case [16]byte:
		return fnvBytes(v[:])
	case [32]byte:
		return fnvBytes(v[:])
	case bool:
		if v {
			return fnvWord(1)
		}
		return fnvWord(0)
	case int:
		return fnvWord(uint64(v))
	case int8:
		return fnvWord(uint64(uint8(v)))
	case int16:
		return fnvWord(uint64(uint16(v)))
	case int32:
		return fnvWord(uint64(uint32(v)))
	case int64:
		return fnvWord(uint64(v))
	case uint:
		return fnvWord(uint64(v))
	case uint8:
		return fnvWord(uint64(v))
	case uint16:
		return fnvWord(uint64(v))
	case uint32:
		return fnvWord(uint64(v))
	case uint64:
		return fnvWord(v)
	case uintptr:
		return fnvWord(uint64(v))
	case float32:
		return fnvWord(uint64(math.Float32bits(v)))
	case float64:
		return fnvWord(math.Float64bits(v))
	case fmt.Stringer:
		return fnvString(v.String())
	default:
		panic(fmt.Sprintf("util.Fnv64a: unsupported key type %T", k))
	}
}

// fnvString avoids the []byte conversion of the string.
func fnvString(s string) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

func fnvBytes(b []byte) uint64 {
	h := uint64(fnvOffset64)
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

func fnvWord(u uint64) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < 8; i++ {
		h ^= u & 0xff
		h *= fnvPrime64
		u >>= 8
	}
	return h
}
