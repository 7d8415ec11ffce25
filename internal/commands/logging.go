package commands

import (
	"strings"

	"github.com/goliatone/go-cms-zones/internal/logging"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
)

// Logger returns the logger for the command group module, such as "pages".
func Logger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.CommandsLogger(provider)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
