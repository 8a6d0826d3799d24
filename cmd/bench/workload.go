package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/bufkit/cache"
	"github.com/IvanBrykalov/bufkit/lru"
	pmet "github.com/IvanBrykalov/bufkit/metrics/prom"
	"github.com/IvanBrykalov/bufkit/ring"
	"github.com/IvanBrykalov/bufkit/segment"
)

// segmentRecycleAt bounds memory for unbounded segment runs.
const segmentRecycleAt = 256 << 20

type result struct {
	Elapsed time.Duration
	Ops     uint64
	Bytes   uint64
	Hits    uint64
	Reads   uint64
}

func (r result) hitRate() float64 {
	if r.Reads == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Reads) * 100
}

func run(ctx context.Context, cfg Config, reg prometheus.Registerer) (result, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	start := time.Now()
	var (
		res result
		err error
	)
	switch cfg.Target {
	case "ring":
		res, err = runRing(ctx, cfg)
	case "segment":
		res, err = runSegment(ctx, cfg)
	case "lru":
		res, err = runLRU(ctx, cfg, pmet.New(reg, "bufkit", "bench_lru", nil))
	case "cache":
		res, err = runCache(ctx, cfg, pmet.New(reg, "bufkit", "bench_cache", nil))
	default:
		err = fmt.Errorf("unknown target %q", cfg.Target)
	}
	res.Elapsed = time.Since(start)
	return res, err
}

// runRing fills and drains one buffer in chunk-sized steps.
func runRing(ctx context.Context, cfg Config) (result, error) {
	buf := ring.New(ring.Options{MinCapacity: cfg.Ring.Capacity})
	defer buf.Close()

	chunk := make([]byte, cfg.Ring.ChunkSize)
	rand.New(rand.NewSource(cfg.Seed)).Read(chunk)
	scratch := make([]byte, cfg.Ring.ChunkSize)

	var res result
	for ctx.Err() == nil {
		buf.Write(chunk)
		n, err := buf.ReadInto(scratch, 0)
		if err != nil {
			return res, err
		}
		res.Ops++
		res.Bytes += uint64(n)
	}
	return res, nil
}

// runSegment appends chunks, recycling the store when it reaches the cap.
func runSegment(ctx context.Context, cfg Config) (result, error) {
	opt := segment.Options{
		BlockSize:       cfg.Segment.BlockSize,
		GrowthBlockSize: cfg.Segment.GrowthBlockSize,
		MaxCapacity:     cfg.Segment.MaxCapacity,
	}
	if opt.MaxCapacity <= 0 {
		opt.MaxCapacity = segmentRecycleAt
	}
	chunk := make([]byte, cfg.Segment.ChunkSize)
	rand.New(rand.NewSource(cfg.Seed)).Read(chunk)

	var res result
	store := segment.New(opt)
	defer func() { _ = store.Close() }()

	for ctx.Err() == nil {
		_, err := store.Append(chunk, 0, len(chunk))
		if errors.Is(err, segment.ErrCapacityExhausted) {
			_ = store.Close()
			store = segment.New(opt)
			continue
		}
		if err != nil {
			return res, err
		}
		res.Ops++
		res.Bytes += uint64(len(chunk))
	}
	return res, nil
}

// runLRU drives a single-owner lru.Cache; it is not safe for concurrent
// use, so Workers is ignored.
func runLRU(ctx context.Context, cfg Config, m lru.Metrics) (result, error) {
	c, err := lru.New[string, string](lru.Options[string, string]{
		Capacity: cfg.Cache.Capacity,
		Metrics:  m,
	})
	if err != nil {
		return result{}, err
	}
	r := rand.New(rand.NewSource(cfg.Seed))
	zipf := rand.NewZipf(r, cfg.Cache.ZipfS, 1, uint64(cfg.Cache.Keys-1))

	var res result
	for ctx.Err() == nil {
		k := "k:" + strconv.FormatUint(zipf.Uint64(), 10)
		res.Ops++
		if r.Intn(100) < cfg.Cache.ReadPct {
			res.Reads++
			if _, ok, _ := c.TryGet(k); ok {
				res.Hits++
			}
			continue
		}
		if err := c.Add(k, "v"); err != nil {
			return res, err
		}
	}
	return res, nil
}

// runCache drives the sharded cache from cfg.Workers goroutines.
func runCache(ctx context.Context, cfg Config, m lru.Metrics) (result, error) {
	c := cache.New[string, string](cache.Options[string, string]{
		Capacity: cfg.Cache.Capacity,
		Shards:   cfg.Cache.Shards,
		Metrics:  m,
	})
	defer func() { _ = c.Close() }()

	var ops, reads, hits atomic.Uint64
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			// rand.Rand is not goroutine-safe: one per worker.
			r := rand.New(rand.NewSource(cfg.Seed + int64(w)*9973))
			zipf := rand.NewZipf(r, cfg.Cache.ZipfS, 1, uint64(cfg.Cache.Keys-1))
			for ctx.Err() == nil {
				k := "k:" + strconv.FormatUint(zipf.Uint64(), 10)
				ops.Add(1)
				if r.Intn(100) < cfg.Cache.ReadPct {
					reads.Add(1)
					if _, ok := c.Get(k); ok {
						hits.Add(1)
					}
					continue
				}
				c.Set(k, "v"+strconv.Itoa(r.Int()))
			}
			return nil
		})
	}
	err := g.Wait()
	return result{Ops: ops.Load(), Reads: reads.Load(), Hits: hits.Load()}, err
}
