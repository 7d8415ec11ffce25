package testsupport

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LoadGolden decodes the JSON file at path into v.
func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts the clock at start, or at a fixed date when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	}
	return &Clock{now: start}
}

// Now returns the current reading and advances the clock by one second so
// successive writes get distinct timestamps.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.now
	c.now = c.now.Add(time.Second)
	return current
}

// SequentialIDs returns a generator yielding UUIDs whose last byte counts up
// from 1.
func SequentialIDs() func() uuid.UUID {
	var (
		mu   sync.Mutex
		next uint16
	)
	return func() uuid.UUID {
		mu.Lock()
		defer mu.Unlock()
		next++
		var id uuid.UUID
		id[0] = 0x10
		id[14] = byte(next >> 8)
		id[15] = byte(next)
		return id
	}
}
