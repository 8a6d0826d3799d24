package util

import "runtime"

// MaxShards bounds the automatic shard count.
const MaxShards = 256

// ReasonableShardCount picks a default shard count from CPU parallelism:
// nextPow2(2*GOMAXPROCS), clamped to [1..MaxShards].
func ReasonableShardCount() int {
	p := runtime.GOMAXPROCS(0)
	if p < 1 {
		p = 1
	}
	return ShardCount(2 * p)
}

// ShardCount rounds a requested shard count up to a power of two within
// [1..MaxShards]. Non-positive requests fall back to ReasonableShardCount.
func ShardCount(requested int) int {
	if requested <= 0 {
		return ReasonableShardCount()
	}
	n := CeilPow2(requested)
	if n > MaxShards {
		n = MaxShards
	}
	return n
}

// ShardIndex maps a 64-bit hash to a shard index. shards must be a power of two.
func ShardIndex(hash uint64, shards int) int {
	return int(hash & uint64(shards-1))
}
