// clock.go: cached clock for hot-path timestamps (C9)

package ringlog

import (
	"time"

	timecache "github.com/agilira/go-timecache"
)

// Clock is a cached wall-clock source: it avoids a time.Now() syscall on
// every call by refreshing at a fixed resolution in the background. It is
// ambient convenience, not core semantics — NewEventHeader still takes an
// explicit timestamp and doesn't require a Clock.
type Clock struct {
	cache *timecache.TimeCache
}

// NewClock starts a Clock refreshing at millisecond resolution, matched to
// EventHeader's nanosecond timestamp field being producer-chosen and
// opaque to the core.
func NewClock() *Clock {
	return &Clock{cache: timecache.NewWithResolution(time.Millisecond)}
}

// Now returns the cached wall-clock time.
func (c *Clock) Now() time.Time {
	return c.cache.CachedTime()
}

// NewEventHeader builds a header stamped with the cached clock's current
// time, in nanoseconds since the Unix epoch.
func (c *Clock) NewEventHeader(eventType uint8, payloadLen int) (EventHeader, error) {
	return NewEventHeader(uint64(c.Now().UnixNano()), eventType, payloadLen)
}

// Stop releases the background refresh goroutine. Call it when the Clock
// is no longer needed.
func (c *Clock) Stop() {
	c.cache.Stop()
}
