// Package cli implements the crator command-line interface.
//
// This package provides commands for retrieving crate metadata from
// crates.io, serving it over HTTP, and managing the record cache. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - info: Retrieve and display metadata for a crate
//   - serve: Expose retrieval as a small JSON HTTP API
//   - cache: Manage the record cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/crator-sh/crator/pkg/buildinfo"
	"github.com/crator-sh/crator/pkg/cache"
	"github.com/crator-sh/crator/pkg/crates"
	"github.com/crator-sh/crator/pkg/errors"
	"github.com/crator-sh/crator/pkg/observability"
)

// appName is the application name used for directories and display.
const appName = "crator"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger and the default
// configuration. The config file, if present, is loaded by RootCommand's
// PersistentPreRunE so --config can point elsewhere.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          appName,
		Short:        "Crator retrieves crate metadata from crates.io",
		Long:         `Crator is a CLI tool for fetching crate metadata from the crates.io registry over a raw TLS connection, with a built-in polling task driver and a dot-path JSON extractor instead of a general-purpose runtime.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(c.infoCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache builds the record cache selected by configuration.
// Failures fall back to a null cache; caching is never load-bearing.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	switch c.Config.Cache.Backend {
	case "none":
		return cache.NewNullCache()
	case "redis":
		store, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Config.Cache.Redis.Addr,
			Password: c.Config.Cache.Redis.Password,
			DB:       c.Config.Cache.Redis.DB,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "err", err)
			return cache.NewNullCache()
		}
		return store
	default:
		dir, err := c.cacheDir()
		if err != nil {
			return cache.NewNullCache()
		}
		store, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, continuing without cache", "err", err)
			return cache.NewNullCache()
		}
		return store
	}
}

// newClient builds the registry client from configuration.
func (c *CLI) newClient() *crates.Client {
	return crates.NewClient(crates.WithHost(c.Config.Host))
}

// lookup retrieves a record through the cache. The second return value
// reports whether the record came from cache.
func (c *CLI) lookup(ctx context.Context, store cache.Cache, client *crates.Client, name string, refresh bool) (*crates.Record, bool, error) {
	if err := errors.ValidateCrateName(name); err != nil {
		return nil, false, err
	}
	key := cache.Key("crate", name)

	if !refresh {
		if data, hit, _ := store.Get(ctx, key); hit {
			var rec crates.Record
			if err := json.Unmarshal(data, &rec); err == nil {
				observability.Cache().OnHit(ctx, key)
				return &rec, true, nil
			}
		}
		observability.Cache().OnMiss(ctx, key)
	}

	fetchCtx := ctx
	if c.Config.Timeout.Value() > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.Config.Timeout.Value())
		defer cancel()
	}

	rec, err := client.Retrieve(fetchCtx, name)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(rec); err == nil {
		if err := store.Set(ctx, key, data, c.Config.Cache.TTL.Value()); err == nil {
			observability.Cache().OnSet(ctx, key, len(data))
		}
	}
	return rec, false, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/crator/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// contextTimeout is a guard against serve handlers hanging on a dead
// registry when no timeout is configured.
const contextTimeout = 30 * time.Second
