package versioning

import (
	"time"

	"github.com/goliatone/go-cms-zones/internal/logging"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
	"github.com/google/uuid"
)

// Option configures a Store.
type Option func(*settings)

type settings struct {
	resource    string
	now         func() time.Time
	newID       func() uuid.UUID
	logger      interfaces.Logger
	prepare     []func(Entity) error
	rejectStale bool
}

func defaultSettings() settings {
	return settings{
		resource:    "content",
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.New,
		logger:      logging.NoOp(),
		rejectStale: true,
	}
}

// WithResource names the entity type in errors and log entries.
func WithResource(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.resource = name
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides row id allocation.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *settings) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *settings) {
		s.logger = logging.OrNoOp(logger)
	}
}

// WithPrepare registers a hook run on the entity before Create and Update
// persist it. A hook error aborts the write.
func WithPrepare(fn func(Entity) error) Option {
	return func(s *settings) {
		if fn != nil {
			s.prepare = append(s.prepare, fn)
		}
	}
}

// WithOptimisticConcurrency toggles rejection of updates based on a row that
// is no longer the latest version of its master.
func WithOptimisticConcurrency(enabled bool) Option {
	return func(s *settings) {
		s.rejectStale = enabled
	}
}
