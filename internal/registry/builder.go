package registry

import (
	"fmt"
	"reflect"
	"strings"
)

// Builder collects registrations for one module.
type Builder struct {
	state   *buildState
	module  string
	pending []Entry
}

type buildState struct {
	kind    Kind
	cfg     buildConfig
	entries []Entry
	byName  map[string]int
}

// Kind returns the kind of registry being built.
func (b *Builder) Kind() Kind {
	return b.state.kind
}

// Add queues reg. Registrations without a nameable concrete renderer, or
// refused by the accept filter, are skipped without error.
func (b *Builder) Add(reg Registration) error {
	logger := b.state.cfg.logger
	if reg.Renderer == nil {
		logger.Debug("registry.register.skipped", "module", b.module, "reason", "abstract")
		return nil
	}
	rendererType := reflect.TypeOf(reg.Renderer)
	name := DeriveName(reg.Renderer, b.state.kind.Suffix())
	if name == "" {
		logger.Debug("registry.register.skipped", "module", b.module, "type", rendererType.String(), "reason", "unnamed")
		return nil
	}
	if accept := b.state.cfg.accept; accept != nil && !accept(reg.Renderer) {
		logger.Debug("registry.register.skipped", "module", b.module, "name", name, "reason", "filtered")
		return nil
	}

	cfgType, err := configType(reg.Config)
	if err != nil {
		return err
	}
	properties, err := describe(cfgType)
	if err != nil {
		return err
	}

	display := strings.TrimSpace(reg.DisplayName)
	if display == "" {
		display = humanize(name)
	}

	entry := Entry{
		Name:         name,
		DisplayName:  display,
		Description:  reg.Description,
		Category:     strings.TrimSpace(reg.Category),
		Order:        reg.Order,
		Module:       b.module,
		Properties:   properties,
		Renderer:     reg.Renderer,
		RendererType: rendererType,
		ConfigType:   cfgType,
	}

	key := canonicalKey(name)
	if b.state.cfg.strict {
		if _, exists := b.state.byName[key]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		for _, queued := range b.pending {
			if canonicalKey(queued.Name) == key {
				return fmt.Errorf("%w: %s", ErrDuplicateName, name)
			}
		}
	}
	b.pending = append(b.pending, entry)
	return nil
}

// MustAdd calls Add and panics on error. The panic fails only the current
// module.
func (b *Builder) MustAdd(reg Registration) {
	if err := b.Add(reg); err != nil {
		panic(err)
	}
}

func (s *buildState) run(module string, register func(*Builder) error) (err error) {
	if register == nil {
		return nil
	}
	builder := &Builder{state: s, module: module}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	if err := register(builder); err != nil {
		return err
	}
	s.commit(builder.pending)
	return nil
}

func (s *buildState) commit(entries []Entry) {
	for _, entry := range entries {
		key := canonicalKey(entry.Name)
		if i, exists := s.byName[key]; exists {
			previous := s.entries[i]
			s.cfg.logger.Warn("registry.register.replaced",
				"kind", s.kind,
				"name", entry.Name,
				"previous_module", previous.Module,
				"module", entry.Module,
			)
			s.entries[i] = entry
			continue
		}
		s.byName[key] = len(s.entries)
		s.entries = append(s.entries, entry)
	}
}
