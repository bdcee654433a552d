// Package config loads factionmap settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/factionmap/config.toml
//  3. FACTIONMAP_* environment variables (FACTIONMAP_CACHE_DRIVER=redis)
//  4. command-line flags, applied by the CLI
//
// Example file:
//
//	[data]
//	families = "data/**/*.yaml"
//
//	[store]
//	driver = "sqlite"
//
//	[server]
//	addr = ":8080"
//	rate_limit_rps = 10
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/matzehuels/factionmap/pkg/core/timeline"
	fmerrors "github.com/matzehuels/factionmap/pkg/errors"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "FACTIONMAP_"

// Config is the full settings tree.
type Config struct {
	Data     Data     `toml:"data" envPrefix:"DATA_"`
	Store    Store    `toml:"store" envPrefix:"STORE_"`
	Cache    Cache    `toml:"cache" envPrefix:"CACHE_"`
	Server   Server   `toml:"server" envPrefix:"SERVER_"`
	Layout   Layout   `toml:"layout" envPrefix:"LAYOUT_"`
	Timeline Timeline `toml:"timeline" envPrefix:"TIMELINE_"`
}

// Data selects where families and events come from. With a sheet URL set
// the spreadsheet is the primary source; otherwise local files are used
// when given, and the built-in dataset otherwise.
type Data struct {
	Families              string `toml:"families" env:"FAMILIES"`
	Events                string `toml:"events" env:"EVENTS"`
	Sheet                 bool   `toml:"sheet" env:"SHEET"`
	SheetFamiliesURL      string `toml:"sheet_families_url" env:"SHEET_FAMILIES_URL"`
	SheetRelationshipsURL string `toml:"sheet_relationships_url" env:"SHEET_RELATIONSHIPS_URL"`
	SheetTimelineURL      string `toml:"sheet_timeline_url" env:"SHEET_TIMELINE_URL"`
}

// UseSheet reports whether the spreadsheet is the primary source.
func (d Data) UseSheet() bool {
	return d.Sheet || d.SheetFamiliesURL != ""
}

// Store configures the snapshot store.
type Store struct {
	Driver        string `toml:"driver" env:"DRIVER"`
	SQLitePath    string `toml:"sqlite_path" env:"SQLITE_PATH"`
	MongoURI      string `toml:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase string `toml:"mongo_database" env:"MONGO_DATABASE"`
}

// Cache configures the layout and artifact cache.
type Cache struct {
	Driver   string        `toml:"driver" env:"DRIVER"`
	Dir      string        `toml:"dir" env:"DIR"`
	RedisURL string        `toml:"redis_url" env:"REDIS_URL"`
	TTL      time.Duration `toml:"ttl" env:"TTL"`
}

// Server configures the HTTP API.
type Server struct {
	Addr           string   `toml:"addr" env:"ADDR"`
	RateLimitRPS   float64  `toml:"rate_limit_rps" env:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `toml:"rate_limit_burst" env:"RATE_LIMIT_BURST"`
	Watch          bool     `toml:"watch" env:"WATCH"`
	// TrustedProxies lists CIDRs or single addresses of reverse proxies
	// whose X-Forwarded-For and X-Real-IP headers are believed.
	TrustedProxies []string `toml:"trusted_proxies" env:"TRUSTED_PROXIES"`
}

// Proxies parses TrustedProxies. A bare address becomes a single-host
// prefix.
func (s Server) Proxies() ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(s.TrustedProxies))
	for _, raw := range s.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if p, err := netip.ParsePrefix(raw); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmerrors.New(fmerrors.ErrCodeInvalidInput, "config: server.trusted_proxies: %q is not an address or CIDR", raw)
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// Layout configures the social-map layout.
type Layout struct {
	RelaxPasses int `toml:"relax_passes" env:"RELAX_PASSES"`
}

// Timeline configures the interactive timeline.
type Timeline struct {
	MinYear      int           `toml:"min_year" env:"MIN_YEAR"`
	MaxYear      int           `toml:"max_year" env:"MAX_YEAR"`
	PlayInterval time.Duration `toml:"play_interval" env:"PLAY_INTERVAL"`
}

// Store and cache drivers.
const (
	DriverNone   = "none"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Store: Store{
			Driver:        DriverSQLite,
			SQLitePath:    filepath.Join(userDir(os.UserCacheDir), "snapshot.db"),
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "factionmap",
		},
		Cache: Cache{
			Driver:   DriverFile,
			Dir:      userDir(os.UserCacheDir),
			RedisURL: "redis://localhost:6379/0",
			TTL:      7 * 24 * time.Hour,
		},
		Server: Server{
			Addr:           ":8080",
			RateLimitRPS:   10,
			RateLimitBurst: 20,
		},
		Layout: Layout{RelaxPasses: 3},
		Timeline: Timeline{
			MinYear:      timeline.InitialYear,
			MaxYear:      timeline.MaxYear,
			PlayInterval: timeline.PlayInterval,
		},
	}
}

func userDir(base func() (string, error)) string {
	dir, err := base()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "factionmap")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(userDir(os.UserConfigDir), "config.toml")
}

// Load reads defaults, then the file at path, then the process environment.
// An empty path means [DefaultPath], which may be absent.
func Load(path string) (Config, error) {
	return LoadWith(path, env.ToMap(os.Environ()))
}

// LoadWith is [Load] with an explicit environment.
func LoadWith(path string, environ map[string]string) (Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultPath()
	}
	if err := cfg.mergeFile(path); err != nil {
		if !(optional && errors.Is(err, os.ErrNotExist)) {
			return cfg, err
		}
	}

	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmerrors.Wrap(fmerrors.ErrCodeInvalidInput, err, "config: environment")
	}
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		return fmerrors.Wrap(fmerrors.ErrCodeInvalidFormat, err, "config: %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmerrors.New(fmerrors.ErrCodeInvalidInput, "config: %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverMongo, DriverNone:
	default:
		return fmerrors.New(fmerrors.ErrCodeInvalidInput, "config: store.driver %q (want sqlite, mongo or none)", c.Store.Driver)
	}
	switch c.Cache.Driver {
	case DriverFile, DriverRedis, DriverNone:
	default:
		return fmerrors.New(fmerrors.ErrCodeInvalidInput, "config: cache.driver %q (want file, redis or none)", c.Cache.Driver)
	}
	for name, u := range map[string]string{
		"sheet_families_url":      c.Data.SheetFamiliesURL,
		"sheet_relationships_url": c.Data.SheetRelationshipsURL,
		"sheet_timeline_url":      c.Data.SheetTimelineURL,
	} {
		if u == "" {
			continue
		}
		if err := fmerrors.ValidateURL(u); err != nil {
			return fmt.Errorf("config: data.%s: %w", name, err)
		}
	}
	if c.Layout.RelaxPasses < 0 {
		return fmerrors.New(fmerrors.ErrCodeInvalidInput, "config: layout.relax_passes must be >= 0")
	}
	if _, err := c.Server.Proxies(); err != nil {
		return err
	}
	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return fmerrors.New(fmerrors.ErrCodeInvalidInput, "config: server rate limit must be >= 0")
	}
	if err := fmerrors.ValidateYear(c.Timeline.MinYear); err != nil {
		return fmt.Errorf("config: timeline.min_year: %w", err)
	}
	if err := fmerrors.ValidateYear(c.Timeline.MaxYear); err != nil {
		return fmt.Errorf("config: timeline.max_year: %w", err)
	}
	if c.Timeline.MaxYear < c.Timeline.MinYear {
		return fmerrors.New(fmerrors.ErrCodeInvalidYear, "config: timeline.max_year %d before min_year %d", c.Timeline.MaxYear, c.Timeline.MinYear)
	}
	if c.Timeline.PlayInterval <= 0 {
		return fmerrors.New(fmerrors.ErrCodeInvalidInput, "config: timeline.play_interval must be positive")
	}
	return nil
}
