// Command bench drives a synthetic workload against one of the bufkit
// containers and exposes Prometheus metrics while it runs.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"
)

func main() {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		level.Error(logger).Log("msg", "invalid configuration", "err", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			level.Info(logger).Log("msg", "serving metrics", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				level.Error(logger).Log("msg", "metrics server failed", "err", err)
			}
		}()
		defer srv.Close()
	}

	level.Info(logger).Log("msg", "starting", "target", cfg.Target, "workers", cfg.Workers,
		"duration", cfg.Duration, "seed", cfg.Seed)

	res, err := run(ctx, cfg, reg)
	if err != nil {
		level.Error(logger).Log("msg", "run failed", "err", err)
		os.Exit(1)
	}

	secs := res.Elapsed.Seconds()
	level.Info(logger).Log(
		"msg", "done",
		"target", cfg.Target,
		"elapsed", res.Elapsed,
		"ops", res.Ops,
		"ops_per_sec", fmt.Sprintf("%.0f", float64(res.Ops)/secs),
		"bytes", res.Bytes,
		"mb_per_sec", fmt.Sprintf("%.1f", float64(res.Bytes)/secs/(1<<20)),
		"hit_rate", fmt.Sprintf("%.2f%%", res.hitRate()),
	)
}

func parseConfig(args []string) (Config, error) {
	cfg := defaultConfig()
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)

	configPath := fs.String("config", "", "YAML workload file; explicit flags override it")
	target := fs.StringP("target", "t", cfg.Target, "container to exercise: ring | segment | lru | cache")
	duration := fs.DurationP("duration", "d", cfg.Duration, "benchmark duration")
	workers := fs.IntP("workers", "w", 2*runtime.GOMAXPROCS(0), "worker goroutines (cache target only; others run one owner)")
	seed := fs.Int64("seed", cfg.Seed, "random seed")
	capacity := fs.Int("cap", cfg.Cache.Capacity, "cache capacity (entries)")
	shards := fs.Int("shards", cfg.Cache.Shards, "cache shards (0=auto)")
	keys := fs.Int("keys", cfg.Cache.Keys, "cache keyspace size")
	reads := fs.Int("reads", cfg.Cache.ReadPct, "cache read percentage [0..100]")
	ringCap := fs.Int("ring-cap", cfg.Ring.Capacity, "ring buffer minimum capacity")
	blockSize := fs.Int("block-size", cfg.Segment.BlockSize, "segment first block size")
	metricsAddr := fs.String("http", "", "serve Prometheus metrics at addr (e.g. :8080); empty = disabled")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	cfg.Workers = *workers
	if *configPath != "" {
		if err := loadConfigFile(*configPath, &cfg); err != nil {
			return cfg, err
		}
	}

	// Explicit flags win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target":
			cfg.Target = *target
		case "duration":
			cfg.Duration = *duration
		case "workers":
			cfg.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		case "cap":
			cfg.Cache.Capacity = *capacity
		case "shards":
			cfg.Cache.Shards = *shards
		case "keys":
			cfg.Cache.Keys = *keys
		case "reads":
			cfg.Cache.ReadPct = *reads
		case "ring-cap":
			cfg.Ring.Capacity = *ringCap
		case "block-size":
			cfg.Segment.BlockSize = *blockSize
		case "http":
			cfg.MetricsAddr = *metricsAddr
		}
	})
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return cfg, cfg.validate()
}
