package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/crator-sh/crator/pkg/crates"
	"github.com/crator-sh/crator/pkg/errors"
)

// Config is the on-disk configuration, loaded from
// ~/.config/crator/config.toml (or --config). Missing file means
// defaults; flags override individual values per command.
type Config struct {
	Host    string      `toml:"host"`    // registry host, default "crates.io"
	Timeout Duration    `toml:"timeout"` // per-retrieval deadline, threaded to the fetch task
	Cache   CacheConfig `toml:"cache"`
}

// CacheConfig selects and configures the record cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend"` // "file", "redis", or "none"
	TTL     Duration    `toml:"ttl"`
	Dir     string      `toml:"dir"` // file backend root, defaults to XDG cache dir
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Duration wraps time.Duration so TOML values can be written as "10s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Value returns the wrapped duration.
func (d Duration) Value() time.Duration { return time.Duration(d) }

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Host:    crates.DefaultHost,
		Timeout: Duration(10 * time.Second),
		Cache: CacheConfig{
			Backend: "file",
			TTL:     Duration(time.Hour),
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
	}
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error; defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return cfg, errors.New(errors.ErrCodeInvalidInput, "config file not found: %s", path)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if err := errors.ValidateHost(cfg.Host); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// defaultConfigPath returns ~/.config/crator/config.toml, honoring
// XDG_CONFIG_HOME.
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
