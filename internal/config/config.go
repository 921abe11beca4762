// Package config loads orbit configuration from TOML files.
//
// Everything has a sensible default: an absent file yields a fully usable
// configuration (file provider, no cache, reference layout constants).
// Layout values are presentation parameters, safe to tune freely.
package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/orbitviz/orbit/pkg/ringmap"
)

// Provider kinds accepted in [ProviderConfig].
const (
	ProviderFile  = "file"
	ProviderHTTP  = "http"
	ProviderMongo = "mongo"
)

// Cache kinds accepted in [CacheConfig].
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the root configuration.
type Config struct {
	Canvas   CanvasConfig   `toml:"canvas"`
	Layout   LayoutConfig   `toml:"layout"`
	Provider ProviderConfig `toml:"provider"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
}

// CanvasConfig sets the logical canvas extent the layout targets.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// LayoutConfig exposes the tunable radial layout constants. Zero values
// fall back to the reference defaults.
type LayoutConfig struct {
	RingRadius     float64 `toml:"ring_radius"`
	OuterRadius    float64 `toml:"outer_radius"`
	OverflowRadius float64 `toml:"overflow_radius"`
	Jitter         float64 `toml:"jitter"`
	ArcClampDeg    float64 `toml:"arc_clamp_deg"`     // max ring-2 arc width, degrees
	ArcPerChildDeg float64 `toml:"arc_per_child_deg"` // arc width per ring-2 child, degrees
}

// ProviderConfig selects and configures the inventory source.
type ProviderConfig struct {
	Kind    string      `toml:"kind"`     // file, http, or mongo
	Path    string      `toml:"path"`     // file: inventory snapshot path
	BaseURL string      `toml:"base_url"` // http: inventory service base URL
	Mongo   MongoConfig `toml:"mongo"`
}

// MongoConfig configures the MongoDB inventory source.
type MongoConfig struct {
	URI            string `toml:"uri"`
	Database       string `toml:"database"`
	NodeCollection string `toml:"node_collection"`
	EdgeCollection string `toml:"edge_collection"`
}

// CacheConfig selects and configures the fetch cache.
type CacheConfig struct {
	Kind  string      `toml:"kind"` // none, file, or redis
	Dir   string      `toml:"dir"`  // file: cache directory
	TTL   duration    `toml:"ttl"`
	Redis RedisConfig `toml:"redis"`
}

// RedisConfig configures the Redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// duration wraps time.Duration with TOML string decoding ("15m", "1h").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Canvas:   CanvasConfig{Width: 1200, Height: 900},
		Provider: ProviderConfig{Kind: ProviderFile, Path: "inventory.json"},
		Cache:    CacheConfig{Kind: CacheNone, TTL: duration{15 * time.Minute}},
		Server:   ServerConfig{Addr: ":8080"},
	}
}

// Load reads a TOML configuration file, layering it over the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Provider.Kind {
	case ProviderFile, ProviderHTTP, ProviderMongo:
	default:
		return fmt.Errorf("unknown provider kind %q", c.Provider.Kind)
	}
	switch c.Cache.Kind {
	case CacheNone, CacheFile, CacheRedis:
	default:
		return fmt.Errorf("unknown cache kind %q", c.Cache.Kind)
	}
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		return fmt.Errorf("canvas dimensions must be non-negative")
	}
	return nil
}

// LayoutParams converts the layout section to ringmap parameters, filling
// zero values from the reference defaults.
func (c Config) LayoutParams() ringmap.Params {
	p := ringmap.DefaultParams()
	if c.Layout.RingRadius > 0 {
		p.RingRadius = c.Layout.RingRadius
	}
	if c.Layout.OuterRadius > 0 {
		p.OuterRadius = c.Layout.OuterRadius
	}
	if c.Layout.OverflowRadius > 0 {
		p.OverflowRadius = c.Layout.OverflowRadius
	}
	if c.Layout.Jitter > 0 {
		p.Jitter = c.Layout.Jitter
	}
	if c.Layout.ArcClampDeg > 0 {
		p.ArcClamp = c.Layout.ArcClampDeg * math.Pi / 180
	}
	if c.Layout.ArcPerChildDeg > 0 {
		p.ArcPerChild = c.Layout.ArcPerChildDeg * math.Pi / 180
	}
	return p
}

// CacheTTL returns the configured cache TTL.
func (c Config) CacheTTL() time.Duration {
	return c.Cache.TTL.Duration
}
