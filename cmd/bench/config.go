package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes one benchmark run. Fields can come from a YAML file
// (--config) and are then overridden by explicitly set flags.
type Config struct {
	Target   string        `yaml:"target"` // ring | segment | lru | cache
	Duration time.Duration `yaml:"duration"`
	Workers  int           `yaml:"workers"`
	Seed     int64         `yaml:"seed"`

	Ring struct {
		Capacity  int `yaml:"capacity"`
		ChunkSize int `yaml:"chunk_size"`
	} `yaml:"ring"`

	Segment struct {
		BlockSize       int   `yaml:"block_size"`
		GrowthBlockSize int   `yaml:"growth_block_size"`
		MaxCapacity     int64 `yaml:"max_capacity"`
		ChunkSize       int   `yaml:"chunk_size"`
	} `yaml:"segment"`

	Cache struct {
		Capacity int     `yaml:"capacity"`
		Shards   int     `yaml:"shards"`
		Keys     int     `yaml:"keys"`
		ReadPct  int     `yaml:"read_pct"`
		ZipfS    float64 `yaml:"zipf_s"`
	} `yaml:"cache"`

	MetricsAddr string `yaml:"metrics_addr"`
}

func defaultConfig() Config {
	var c Config
	c.Target = "cache"
	c.Duration = 5 * time.Second
	c.Seed = time.Now().UnixNano()
	c.Ring.Capacity = 64 << 10
	c.Ring.ChunkSize = 4 << 10
	c.Segment.BlockSize = 64 << 10
	c.Segment.ChunkSize = 4 << 10
	c.Cache.Capacity = 100_000
	c.Cache.Keys = 1_000_000
	c.Cache.ReadPct = 80
	c.Cache.ZipfS = 1.1
	return c
}

func loadConfigFile(path string, into *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Target {
	case "ring", "segment", "lru", "cache":
	default:
		return fmt.Errorf("unknown target %q (use ring, segment, lru or cache)", c.Target)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be > 0, got %v", c.Duration)
	}
	if c.Cache.ReadPct < 0 || c.Cache.ReadPct > 100 {
		return fmt.Errorf("read_pct must be in [0..100], got %d", c.Cache.ReadPct)
	}
	if c.Cache.ZipfS <= 1 {
		return fmt.Errorf("zipf_s must be > 1, got %v", c.Cache.ZipfS)
	}
	if c.Cache.Keys < 1 || c.Cache.Capacity < 1 {
		return fmt.Errorf("cache keys and capacity must be > 0")
	}
	if c.Ring.ChunkSize < 1 || c.Segment.ChunkSize < 1 {
		return fmt.Errorf("chunk sizes must be > 0")
	}
	return nil
}
