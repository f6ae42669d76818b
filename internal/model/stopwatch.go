package model

import "time"

// StopwatchState is the externally visible phase of a stopwatch
type StopwatchState string

const (
	StopwatchIdle    StopwatchState = "idle"
	StopwatchRunning StopwatchState = "running"
)

// Stopwatch is an immutable stopwatch value. Elapsed only grows through Tick,
// which adds the time since PreviousTimestamp while running.
type Stopwatch struct {
	Running           bool
	PreviousTimestamp time.Time
	Elapsed           time.Duration
}

// NewStopwatch returns an idle stopwatch at zero
func NewStopwatch(now time.Time) Stopwatch {
	return Stopwatch{PreviousTimestamp: now}
}

// State returns the current phase
func (s Stopwatch) State() StopwatchState {
	if s.Running {
		return StopwatchRunning
	}
	return StopwatchIdle
}

// Start moves an idle stopwatch to running. Starting a running stopwatch
// changes nothing.
func (s Stopwatch) Start(now time.Time) Stopwatch {
	if s.Running {
		return s
	}
	s.Running = true
	s.PreviousTimestamp = now
	return s
}

// Stop freezes a running stopwatch. The interval since the last tick is
// folded in first so the frozen value matches the wall clock.
func (s Stopwatch) Stop(now time.Time) Stopwatch {
	if !s.Running {
		return s
	}
	s = s.Tick(now)
	s.Running = false
	return s
}

// Reset zeroes the elapsed time without changing the running state.
// PreviousTimestamp is refreshed so a running stopwatch does not jump.
func (s Stopwatch) Reset(now time.Time) Stopwatch {
	s.Elapsed = 0
	s.PreviousTimestamp = now
	return s
}

// Tick advances a running stopwatch to now. It is a no-op while idle, and
// a reading at or before PreviousTimestamp changes nothing.
func (s Stopwatch) Tick(now time.Time) Stopwatch {
	if !s.Running {
		return s
	}
	if delta := now.Sub(s.PreviousTimestamp); delta > 0 {
		s.Elapsed += delta
		s.PreviousTimestamp = now
	}
	return s
}

// ElapsedMilliseconds returns the elapsed time in whole milliseconds
func (s Stopwatch) ElapsedMilliseconds() int64 {
	return s.Elapsed.Milliseconds()
}

// Seconds returns the elapsed time floor-divided to whole seconds, as displayed
func (s Stopwatch) Seconds() int64 {
	return s.ElapsedMilliseconds() / 1000
}
