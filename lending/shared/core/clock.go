package core

import (
	"sync"
	"time"
)

// Clock provides "now" to the lending rules. Its location defines the local day.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system time in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock creates a SystemClock in the local time zone.
func NewSystemClock() SystemClock {
	return SystemClock{Location: time.Local}
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}

	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant until it is moved.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a FixedClock at now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Set moves the clock to now.
func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// ScriptedClock returns the scripted instants one after the other and repeats the last one.
type ScriptedClock struct {
	mu    sync.Mutex
	times []time.Time
	next  int
}

// NewScriptedClock creates a ScriptedClock. At least one instant is required.
func NewScriptedClock(first time.Time, rest ...time.Time) *ScriptedClock {
	return &ScriptedClock{times: append([]time.Time{first}, rest...)}
}

func (c *ScriptedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.times[c.next]
	if c.next < len(c.times)-1 {
		c.next++
	}

	return now
}
