package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName is returned by Builder.Add in strict mode when a name is
	// already registered.
	ErrDuplicateName = errors.New("registry: duplicate name")
	// ErrUnknownEntry reports a lookup of an unregistered name.
	ErrUnknownEntry = errors.New("registry: unknown entry")
	// ErrNoConfiguration reports an entry without a configuration model.
	ErrNoConfiguration = errors.New("registry: entry has no configuration model")
)

// ModuleFailure records a module skipped during Build.
type ModuleFailure struct {
	Module string
	Err    error
}

func (f ModuleFailure) Error() string {
	return fmt.Sprintf("registry module %q: %v", f.Module, f.Err)
}
