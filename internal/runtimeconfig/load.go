package runtimeconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. CMS_STORAGE_DSN.
const EnvPrefix = "CMS"

// Load reads path over DefaultConfig and applies CMS_ environment overrides.
// An empty path loads defaults and environment only. The result is
// validated.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if trimmed := strings.TrimSpace(path); trimmed != "" {
		v.SetConfigFile(trimmed)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("cms config: read %s: %w", trimmed, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("cms config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Dump renders cfg as YAML.
func Dump(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// setDefaults registers every key so AutomaticEnv can override keys absent
// from the file.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("storage.driver", cfg.Storage.Driver)
	v.SetDefault("storage.dsn", cfg.Storage.DSN)
	v.SetDefault("storage.debug", cfg.Storage.Debug)
	v.SetDefault("storage.auto_migrate", cfg.Storage.AutoMigrate)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.default_ttl", cfg.Cache.DefaultTTL)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)

	v.SetDefault("routing.dispatch_action", cfg.Routing.DispatchAction)
	v.SetDefault("routing.root_fallback", cfg.Routing.RootFallback)
	v.SetDefault("routing.seed_root_page", cfg.Routing.SeedRootPage)

	v.SetDefault("registry.strict_names", cfg.Registry.StrictNames)

	v.SetDefault("versioning.optimistic_concurrency", cfg.Versioning.OptimisticConcurrency)

	v.SetDefault("http.address", cfg.HTTP.Address)
	v.SetDefault("http.admin_prefix", cfg.HTTP.AdminPrefix)
	v.SetDefault("http.read_timeout", cfg.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", cfg.HTTP.WriteTimeout)
	v.SetDefault("http.max_body_bytes", cfg.HTTP.MaxBodyBytes)
}
