package logging

import (
	"context"

	"github.com/goliatone/go-cms-zones/pkg/interfaces"
)

const (
	rootModule       = "cms"
	versioningModule = "cms.versioning"
	pagesModule      = "cms.pages"
	registryModule   = "cms.registry"
	routingModule    = "cms.routing"
	zonesModule      = "cms.zones"
	adminModule      = "cms.admin"
	commandsModule   = "cms.commands"
	httpModule       = "cms.http"
)

// ModuleLogger returns a logger scoped to module. A nil provider, or one that
// returns nil, yields the no-op logger. The module name is attached as the
// "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// VersioningLogger returns the logger used by versioned content stores.
func VersioningLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, versioningModule)
}

// PagesLogger returns the logger used by the route table.
func PagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pagesModule)
}

// RegistryLogger returns the logger used while building component registries.
func RegistryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, registryModule)
}

// RoutingLogger returns the logger used by the dynamic route resolver.
func RoutingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, routingModule)
}

// ZonesLogger returns the logger used by the content zone engine.
func ZonesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, zonesModule)
}

// AdminLogger returns the logger used by the admin façades.
func AdminLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, adminModule)
}

// CommandsLogger returns the logger used by command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// HTTPLogger returns the logger used by the HTTP layer.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
