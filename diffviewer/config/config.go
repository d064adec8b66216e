// Package config provides the configuration of the diff viewer server.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultListen       = "localhost:8080"
	DefaultMaxInputSize = 4 << 20
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 2 * time.Minute
)

// Duration is a [time.Duration] that can be decoded from strings like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses text with [time.ParseDuration].
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats d like [time.Duration.String].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Cache configures the in-memory result cache, see statcache.
type Cache struct {
	NumCounters int64 `toml:"num_counters"`
	MaxCost     int64 `toml:"max_cost"` // in bytes of input
	BufferItems int64 `toml:"buffer_items"`
}

// Config is the configuration of the diffviewer server, as read from a TOML file. Zero values for
// timeouts mean no timeout and a nil Cache disables caching.
type Config struct {
	Listen       string   `toml:"listen"`
	MaxInputSize int64    `toml:"max_input_size"` // per document, in bytes
	ReadTimeout  Duration `toml:"read_timeout,omitempty"`
	WriteTimeout Duration `toml:"write_timeout,omitempty"`
	IdleTimeout  Duration `toml:"idle_timeout,omitempty"`
	Charset      string   `toml:"charset,omitempty"`
	Cache        *Cache   `toml:"cache,omitempty"`
}

// Default returns the configuration that is used if no configuration file is provided.
func Default() *Config {
	return &Config{
		Listen:       DefaultListen,
		MaxInputSize: DefaultMaxInputSize,
		ReadTimeout:  Duration{DefaultReadTimeout},
		WriteTimeout: Duration{DefaultWriteTimeout},
		IdleTimeout:  Duration{DefaultIdleTimeout},
		Cache: &Cache{
			NumCounters: 100000,
			MaxCost:     64 << 20,
			BufferItems: 64,
		},
	}
}

// Load reads the configuration file at path. Values missing from the file keep their defaults. An
// empty path returns the default configuration.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %v", err)
	}
	return cfg, Parse(cfg, string(b))
}

// Parse decodes the TOML document in data into cfg.
func Parse(cfg *Config, data string) error {
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return fmt.Errorf("parsing config: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("parsing config: unknown key %q", undecoded[0].String())
	}
	return cfg.Validate()
}

// Validate checks that cfg is usable.
func (cfg *Config) Validate() error {
	if cfg.Listen == "" {
		return fmt.Errorf("listen address must be set")
	}
	if cfg.MaxInputSize < 0 {
		return fmt.Errorf("max_input_size must not be negative, got %d", cfg.MaxInputSize)
	}
	if c := cfg.Cache; c != nil && (c.NumCounters <= 0 || c.MaxCost <= 0 || c.BufferItems <= 0) {
		return fmt.Errorf("cache settings must be positive, got %+v", *c)
	}
	return nil
}
