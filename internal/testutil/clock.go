package testutil

import (
	"fmt"
	"sync"
	"time"
)

// StubClock returns a controlled time. When step is non-zero every call to
// Now moves the clock forward by step, so records created in sequence get
// distinct, increasing timestamps. Safe for concurrent use.
type StubClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewStubClock creates a StubClock frozen at t.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock frozen at 2025-11-01 12:00:00 UTC.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC))
}

// TickingClock returns a clock starting at FixedClock's time that advances
// one second per reading.
func TickingClock() *StubClock {
	c := FixedClock()
	c.step = time.Second
	return c
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubIDGenerator returns sequential IDs: "id-1", "id-2", etc.
type StubIDGenerator struct {
	mu      sync.Mutex
	counter int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("id-%d", g.counter)
}
