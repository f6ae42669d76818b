package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/scoreboard/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing. Tickers it creates
// only fire when the test calls Tick.
type MockClock struct {
	mu          sync.Mutex
	currentTime time.Time
	tickers     []*MockTicker
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentTime
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = c.currentTime.Add(d)
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = t
}

// NewTicker returns a manual ticker registered with this clock
func (c *MockClock) NewTicker(d time.Duration) clock.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &MockTicker{Interval: d, ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

// Tickers returns every ticker created so far, stopped or not
func (c *MockClock) Tickers() []*MockTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*MockTicker, len(c.tickers))
	copy(out, c.tickers)
	return out
}

// AdvanceAndTick moves the clock forward by d and delivers the new time to
// every live ticker. It blocks until each receiver has taken the tick.
func (c *MockClock) AdvanceAndTick(d time.Duration) {
	c.Advance(d)
	now := c.Now()
	for _, t := range c.Tickers() {
		t.Tick(now)
	}
}

// MockTicker is a ticker driven by the test
type MockTicker struct {
	Interval time.Duration

	mu      sync.Mutex
	ch      chan time.Time
	stopped bool
}

// C returns the tick channel
func (t *MockTicker) C() <-chan time.Time {
	return t.ch
}

// Stop stops the ticker. Pending and future Tick calls return without
// delivering.
func (t *MockTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped reports whether Stop has been called
func (t *MockTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Tick delivers now to the receiver. It returns false without blocking forever
// if the ticker is stopped or nobody receives within a second.
func (t *MockTicker) Tick(now time.Time) bool {
	if t.Stopped() {
		return false
	}
	select {
	case t.ch <- now:
		return true
	case <-time.After(time.Second):
		return false
	}
}
