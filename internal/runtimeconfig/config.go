package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrStorageDriverUnknown   = errors.New("cms config: storage driver is invalid")
	ErrStorageDSNRequired     = errors.New("cms config: storage dsn is required for postgres")
	ErrCacheTTLInvalid        = errors.New("cms config: cache ttl must be positive when cache is enabled")
	ErrLoggingProviderUnknown = errors.New("cms config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("cms config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("cms config: logging format is invalid")
	ErrDispatchActionRequired = errors.New("cms config: routing dispatch action is required")
	ErrHTTPAddressRequired    = errors.New("cms config: http address is required")
	ErrHTTPAdminPrefixInvalid = errors.New("cms config: http admin prefix must start with / and not be /")
	ErrHTTPTimeoutInvalid     = errors.New("cms config: http timeouts must be zero or positive")
	ErrHTTPBodyLimitInvalid   = errors.New("cms config: http max body bytes must be zero or positive")
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Logging providers. ProviderNone disables logging.
const (
	ProviderGoLogger = "gologger"
	ProviderZap      = "zap"
	ProviderNone     = "none"
)

// Config aggregates the runtime settings of the CMS.
type Config struct {
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage"`
	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Routing    RoutingConfig    `mapstructure:"routing" yaml:"routing"`
	Registry   RegistryConfig   `mapstructure:"registry" yaml:"registry"`
	Versioning VersioningConfig `mapstructure:"versioning" yaml:"versioning"`
	HTTP       HTTPConfig       `mapstructure:"http" yaml:"http"`
}

// StorageConfig selects the repository backend. The memory driver ignores
// DSN.
type StorageConfig struct {
	Driver      string `mapstructure:"driver" yaml:"driver"`
	DSN         string `mapstructure:"dsn" yaml:"dsn"`
	Debug       bool   `mapstructure:"debug" yaml:"debug"`
	AutoMigrate bool   `mapstructure:"auto_migrate" yaml:"auto_migrate"`
}

// CacheConfig controls the repository read cache used with SQL storage.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled" yaml:"enabled"`
	DefaultTTL time.Duration `mapstructure:"default_ttl" yaml:"default_ttl"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider" yaml:"provider"`
	Level     string   `mapstructure:"level" yaml:"level"`
	Format    string   `mapstructure:"format" yaml:"format"`
	AddSource bool     `mapstructure:"add_source" yaml:"add_source"`
	Focus     []string `mapstructure:"focus" yaml:"focus,omitempty"`
}

// RoutingConfig tunes the dynamic route resolver.
type RoutingConfig struct {
	DispatchAction string `mapstructure:"dispatch_action" yaml:"dispatch_action"`
	RootFallback   bool   `mapstructure:"root_fallback" yaml:"root_fallback"`
	SeedRootPage   bool   `mapstructure:"seed_root_page" yaml:"seed_root_page"`
}

// RegistryConfig tunes component and controller registries.
type RegistryConfig struct {
	StrictNames bool `mapstructure:"strict_names" yaml:"strict_names"`
}

// VersioningConfig tunes the versioned content stores.
type VersioningConfig struct {
	OptimisticConcurrency bool `mapstructure:"optimistic_concurrency" yaml:"optimistic_concurrency"`
}

// HTTPConfig configures the cmsd server.
type HTTPConfig struct {
	Address      string        `mapstructure:"address" yaml:"address"`
	AdminPrefix  string        `mapstructure:"admin_prefix" yaml:"admin_prefix"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	// MaxBodyBytes caps admin API request bodies. Zero keeps the default.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

// DefaultConfig returns in-memory storage with go-logger console output.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver:      DriverMemory,
			AutoMigrate: true,
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: ProviderGoLogger,
			Level:    "info",
			Format:   "console",
		},
		Routing: RoutingConfig{
			DispatchAction: "Index",
			RootFallback:   true,
		},
		Versioning: VersioningConfig{
			OptimisticConcurrency: true,
		},
		HTTP: HTTPConfig{
			Address:      ":8080",
			AdminPrefix:  "/admin/api",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	driver := normalize(cfg.Storage.Driver)
	switch driver {
	case DriverMemory, DriverSQLite, "sqlite":
	case DriverPostgres, "pg", "postgresql":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}

	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}

	provider := normalize(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(provider, format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}

	if strings.TrimSpace(cfg.Routing.DispatchAction) == "" {
		return ErrDispatchActionRequired
	}

	if strings.TrimSpace(cfg.HTTP.Address) == "" {
		return ErrHTTPAddressRequired
	}
	if prefix := strings.TrimSpace(cfg.HTTP.AdminPrefix); !strings.HasPrefix(prefix, "/") || strings.Trim(prefix, "/") == "" {
		return fmt.Errorf("%w: %q", ErrHTTPAdminPrefixInvalid, cfg.HTTP.AdminPrefix)
	}
	if cfg.HTTP.ReadTimeout < 0 || cfg.HTTP.WriteTimeout < 0 {
		return ErrHTTPTimeoutInvalid
	}
	if cfg.HTTP.MaxBodyBytes < 0 {
		return ErrHTTPBodyLimitInvalid
	}
	return nil
}

// StorageDriver returns the canonical driver name.
func (cfg Config) StorageDriver() string {
	switch normalize(cfg.Storage.Driver) {
	case DriverSQLite, "sqlite":
		return DriverSQLite
	case DriverPostgres, "pg", "postgresql":
		return DriverPostgres
	default:
		return DriverMemory
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case ProviderGoLogger, ProviderZap, ProviderNone:
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(provider, format string) bool {
	switch normalize(format) {
	case "json", "console":
		return true
	case "pretty":
		return provider == ProviderGoLogger || provider == ""
	default:
		return false
	}
}
