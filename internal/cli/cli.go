// Package cli implements the orbit command-line interface.
//
// This package provides commands for exploring resource-dependency graphs
// interactively in the terminal, serving computed layouts over HTTP, and
// exporting them as DOT/SVG/PNG artifacts. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - explore: Interactive radial graph explorer (pan, zoom, drag, click)
//   - serve: HTTP API serving computed layouts as JSON
//   - export: Render a layout to DOT, SVG, or PNG
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/orbitviz/orbit/internal/config"
	"github.com/orbitviz/orbit/pkg/buildinfo"
	"github.com/orbitviz/orbit/pkg/cache"
	"github.com/orbitviz/orbit/pkg/provider"
)

// appName is the application name used for directories and display.
const appName = "orbit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "orbit",
		Short:        "Orbit explores resource-dependency graphs radially",
		Long:         `Orbit lays out the dependency neighborhood of a cloud resource on concentric rings around it and lets you pan, zoom, drag nodes, and click through to neighboring resources.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", defaultConfigPath(), "path to orbit.toml")

	// Register all subcommands
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configured TOML file (defaults apply when absent).
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// =============================================================================
// Provider and Cache Factories
// =============================================================================

// newProvider builds the inventory provider selected by the config,
// wrapped with the configured cache.
func (c *CLI) newProvider(ctx context.Context, cfg config.Config) (provider.Provider, func(), error) {
	var (
		prov    provider.Provider
		cleanup = func() {}
		err     error
	)

	switch cfg.Provider.Kind {
	case config.ProviderFile:
		prov, err = provider.NewFile(cfg.Provider.Path)
	case config.ProviderHTTP:
		prov, err = provider.NewHTTP(cfg.Provider.BaseURL, nil)
	case config.ProviderMongo:
		var m *provider.Mongo
		m, err = provider.NewMongo(ctx, provider.MongoConfig{
			URI:            cfg.Provider.Mongo.URI,
			Database:       cfg.Provider.Mongo.Database,
			NodeCollection: cfg.Provider.Mongo.NodeCollection,
			EdgeCollection: cfg.Provider.Mongo.EdgeCollection,
		})
		if err == nil {
			prov = m
			cleanup = func() { _ = m.Close(context.Background()) }
		}
	default:
		err = fmt.Errorf("unknown provider kind %q", cfg.Provider.Kind)
	}
	if err != nil {
		return nil, nil, err
	}

	store, storeCleanup, err := c.newCache(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if _, isNull := store.(*cache.NullCache); isNull {
		return prov, cleanup, nil
	}

	both := func() {
		storeCleanup()
		cleanup()
	}
	return provider.NewCached(prov, store, nil, cfg.CacheTTL()), both, nil
}

func (c *CLI) newCache(ctx context.Context, cfg config.Config) (cache.Cache, func(), error) {
	switch cfg.Cache.Kind {
	case config.CacheNone:
		return cache.NewNullCache(), func() {}, nil
	case config.CacheFile:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), func() {}, nil
			}
		}
		store, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case config.CacheRedis:
		store, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown cache kind %q", cfg.Cache.Kind)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/orbit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// defaultConfigPath returns ./orbit.toml, the conventional location.
func defaultConfigPath() string {
	return appName + ".toml"
}
