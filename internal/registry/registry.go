package registry

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/goliatone/go-cms-zones/internal/logging"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Module is a unit of code contributing registrations. Register is invoked
// once while the registry is built.
type Module struct {
	Name     string
	Register func(*Builder) error
}

// Option configures Build.
type Option func(*buildConfig)

type buildConfig struct {
	logger interfaces.Logger
	strict bool
	accept func(any) bool
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *buildConfig) {
		c.logger = logging.OrNoOp(logger)
	}
}

// WithStrictNames makes a duplicate name fail the module that registers it
// instead of replacing the earlier entry.
func WithStrictNames() Option {
	return func(c *buildConfig) {
		c.strict = true
	}
}

// WithAccept filters renderers. Rejected registrations are skipped.
func WithAccept(fn func(renderer any) bool) Option {
	return func(c *buildConfig) {
		c.accept = fn
	}
}

// Registry is an immutable catalog of renderers keyed by case-insensitive
// name. It is safe for concurrent readers.
type Registry struct {
	kind       Kind
	entries    []Entry
	byName     map[string]int
	byCategory map[string][]Entry
	categories []string
	schemas    map[string]*jsonschema.Schema
	failures   []ModuleFailure
	logger     interfaces.Logger
}

// Build runs every module against a fresh builder and freezes the result.
// A module that returns an error or panics is logged and skipped along with
// everything it registered; the remaining modules still contribute.
func Build(kind Kind, modules []Module, opts ...Option) *Registry {
	cfg := buildConfig{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	state := &buildState{
		kind:   kind,
		cfg:    cfg,
		byName: map[string]int{},
	}
	var failures []ModuleFailure
	for i, module := range modules {
		name := module.Name
		if name == "" {
			name = fmt.Sprintf("module-%d", i)
		}
		if err := state.run(name, module.Register); err != nil {
			cfg.logger.Error("registry.module.failed", "kind", kind, "module", name, "error", err)
			failures = append(failures, ModuleFailure{Module: name, Err: err})
		}
	}

	reg := &Registry{
		kind:       kind,
		byName:     map[string]int{},
		byCategory: map[string][]Entry{},
		schemas:    map[string]*jsonschema.Schema{},
		failures:   failures,
		logger:     cfg.logger,
	}
	reg.freeze(state.entries)
	cfg.logger.Info("registry.built", "kind", kind, "entries", len(reg.entries), "failed_modules", len(failures))
	return reg
}

func (r *Registry) freeze(entries []Entry) {
	sorted := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Name != "" {
			sorted = append(sorted, entry)
		}
	}
	sortEntries(sorted)
	r.entries = sorted

	for i, entry := range sorted {
		key := canonicalKey(entry.Name)
		r.byName[key] = i

		category := canonicalKey(entry.Category)
		if _, seen := r.byCategory[category]; !seen {
			r.categories = append(r.categories, entry.Category)
		}
		r.byCategory[category] = append(r.byCategory[category], entry)

		if entry.HasConfiguration() {
			compiled, err := compileSchema(entry)
			if err != nil {
				r.logger.Warn("registry.schema.invalid", "kind", r.kind, "entry", entry.Name, "error", err)
				continue
			}
			r.schemas[key] = compiled
		}
	}
}

// Kind returns the registry kind.
func (r *Registry) Kind() Kind {
	return r.kind
}

// All returns every entry ordered by category, order and display name.
func (r *Registry) All() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Get looks up name case-insensitively.
func (r *Registry) Get(name string) (Entry, bool) {
	i, ok := r.byName[canonicalKey(name)]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// ByCategory returns the entries of one category in catalog order.
func (r *Registry) ByCategory(category string) []Entry {
	entries := r.byCategory[canonicalKey(category)]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Categories lists category names in catalog order.
func (r *Registry) Categories() []string {
	out := make([]string, len(r.categories))
	copy(out, r.categories)
	return out
}

// Failures lists the modules skipped during Build.
func (r *Registry) Failures() []ModuleFailure {
	out := make([]ModuleFailure, len(r.failures))
	copy(out, r.failures)
	return out
}

// CreateDefaultConfiguration returns a pointer to a new configuration model
// for name, with Defaults applied when the model implements Defaulter. It
// reports false when the entry is unknown, has no model, or construction
// panics.
func (r *Registry) CreateDefaultConfiguration(name string) (config any, ok bool) {
	entry, found := r.Get(name)
	if !found || !entry.HasConfiguration() {
		return nil, false
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("registry.default_config.panic", "entry", entry.Name, "panic", rec)
			config, ok = nil, false
		}
	}()
	value := reflect.New(entry.ConfigType).Interface()
	if defaulter, isDefaulter := value.(Defaulter); isDefaulter {
		defaulter.Defaults()
	}
	return value, true
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if c := strings.Compare(canonicalKey(a.Category), canonicalKey(b.Category)); c != 0 {
			return c < 0
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return canonicalKey(a.DisplayName) < canonicalKey(b.DisplayName)
	})
}
