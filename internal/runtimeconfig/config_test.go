package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-cms-zones/internal/runtimeconfig"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.StorageDriver() != runtimeconfig.DriverMemory {
		t.Fatalf("expected memory driver, got %q", cfg.StorageDriver())
	}
}

func TestConfigValidateRejections(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"unknown driver", func(c *runtimeconfig.Config) { c.Storage.Driver = "mongo" }, runtimeconfig.ErrStorageDriverUnknown},
		{"postgres without dsn", func(c *runtimeconfig.Config) { c.Storage.Driver = "postgres" }, runtimeconfig.ErrStorageDSNRequired},
		{"cache without ttl", func(c *runtimeconfig.Config) { c.Cache.Enabled = true; c.Cache.DefaultTTL = 0 }, runtimeconfig.ErrCacheTTLInvalid},
		{"unknown provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"bad level", func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"pretty zap", func(c *runtimeconfig.Config) { c.Logging.Provider = "zap"; c.Logging.Format = "pretty" }, runtimeconfig.ErrLoggingFormatInvalid},
		{"blank action", func(c *runtimeconfig.Config) { c.Routing.DispatchAction = " " }, runtimeconfig.ErrDispatchActionRequired},
		{"blank address", func(c *runtimeconfig.Config) { c.HTTP.Address = "" }, runtimeconfig.ErrHTTPAddressRequired},
		{"root admin prefix", func(c *runtimeconfig.Config) { c.HTTP.AdminPrefix = "/" }, runtimeconfig.ErrHTTPAdminPrefixInvalid},
		{"negative timeout", func(c *runtimeconfig.Config) { c.HTTP.ReadTimeout = -time.Second }, runtimeconfig.ErrHTTPTimeoutInvalid},
		{"negative body limit", func(c *runtimeconfig.Config) { c.HTTP.MaxBodyBytes = -1 }, runtimeconfig.ErrHTTPBodyLimitInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestStorageDriverAliases(t *testing.T) {
	t.Parallel()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = " SQLite "
	if cfg.StorageDriver() != runtimeconfig.DriverSQLite {
		t.Fatalf("expected sqlite3, got %q", cfg.StorageDriver())
	}
	cfg.Storage.Driver = "postgresql"
	if cfg.StorageDriver() != runtimeconfig.DriverPostgres {
		t.Fatalf("expected postgres, got %q", cfg.StorageDriver())
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cms.yaml")
	body := strings.Join([]string{
		"storage:",
		"  driver: sqlite3",
		"  dsn: file::memory:?cache=shared",
		"routing:",
		"  dispatch_action: Show",
		"  seed_root_page: true",
		"http:",
		"  read_timeout: 5s",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CMS_HTTP_ADDRESS", ":9090")

	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageDriver() != runtimeconfig.DriverSQLite || cfg.Routing.DispatchAction != "Show" || !cfg.Routing.SeedRootPage {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if !cfg.Routing.RootFallback || cfg.HTTP.AdminPrefix != "/admin/api" {
		t.Fatalf("defaults not kept: %+v", cfg)
	}
	if cfg.HTTP.ReadTimeout != 5*time.Second {
		t.Fatalf("expected 5s read timeout, got %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.HTTP.Address != ":9090" {
		t.Fatalf("expected env override, got %q", cfg.HTTP.Address)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cms.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  driver: mongo\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := runtimeconfig.Load(path); !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected driver error, got %v", err)
	}
	if _, err := runtimeconfig.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDumpRoundTrips(t *testing.T) {
	t.Parallel()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Focus = []string{"cms.routing"}
	out, err := runtimeconfig.Dump(cfg)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(string(out), "dispatch_action: Index") {
		t.Fatalf("expected routing section in dump:\n%s", out)
	}
	var back runtimeconfig.Config
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal dump: %v", err)
	}
	if back.HTTP.WriteTimeout != cfg.HTTP.WriteTimeout || back.Logging.Focus[0] != "cms.routing" {
		t.Fatalf("dump lost values: %+v", back)
	}
}
