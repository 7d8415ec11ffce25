package cms

import "github.com/goliatone/go-cms-zones/internal/runtimeconfig"

var (
	ErrStorageDriverUnknown   = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid        = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrDispatchActionRequired = runtimeconfig.ErrDispatchActionRequired
	ErrHTTPAddressRequired    = runtimeconfig.ErrHTTPAddressRequired
	ErrHTTPAdminPrefixInvalid = runtimeconfig.ErrHTTPAdminPrefixInvalid
	ErrHTTPTimeoutInvalid     = runtimeconfig.ErrHTTPTimeoutInvalid
	ErrHTTPBodyLimitInvalid   = runtimeconfig.ErrHTTPBodyLimitInvalid
)

const (
	DriverMemory   = runtimeconfig.DriverMemory
	DriverSQLite   = runtimeconfig.DriverSQLite
	DriverPostgres = runtimeconfig.DriverPostgres

	LoggingProviderGoLogger = runtimeconfig.ProviderGoLogger
	LoggingProviderZap      = runtimeconfig.ProviderZap
	LoggingProviderNone     = runtimeconfig.ProviderNone
)

type (
	Config           = runtimeconfig.Config
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	RoutingConfig    = runtimeconfig.RoutingConfig
	RegistryConfig   = runtimeconfig.RegistryConfig
	VersioningConfig = runtimeconfig.VersioningConfig
	HTTPConfig       = runtimeconfig.HTTPConfig
)

// DefaultConfig returns in-memory storage with go-logger console output.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads path over the defaults and applies CMS_ environment
// overrides. An empty path loads defaults and environment only.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}

// DumpConfig renders cfg as YAML.
func DumpConfig(cfg Config) ([]byte, error) {
	return runtimeconfig.Dump(cfg)
}
