package stopwatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/scoreboard/internal/dependencies/clock"
	"github.com/mcoot/scoreboard/internal/metrics"
	"github.com/mcoot/scoreboard/internal/model"
)

// DefaultTickInterval is how often a mounted stopwatch is advanced
const DefaultTickInterval = 100 * time.Millisecond

// Ticker is the part of Service a Runner drives
type Ticker interface {
	Tick(ctx context.Context, code model.BoardCode) (model.Stopwatch, error)
}

// Runner is the tick loop of one mounted board. It starts on creation and
// runs until Stop is called or the board disappears.
type Runner struct {
	code   model.BoardCode
	target Ticker
	ticker clock.Ticker
	logger *slog.Logger

	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
}

// StartRunner mounts a tick loop for the board
func StartRunner(code model.BoardCode, target Ticker, clk clock.Clock, interval time.Duration, logger *slog.Logger) *Runner {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	r := &Runner{
		code:   code,
		target: target,
		ticker: clk.NewTicker(interval),
		logger: logger.With(slog.String("board", string(code))),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Runner) run() {
	defer close(r.exited)
	defer r.ticker.Stop()

	ctx := context.Background()
	for {
		select {
		case <-r.done:
			return
		case <-r.ticker.C():
			select {
			case <-r.done:
				return
			default:
			}
			if _, err := r.target.Tick(ctx, r.code); err != nil {
				if errors.Is(err, model.ErrBoardNotFound) {
					r.logger.Info("board gone, stopping runner")
					return
				}
				r.logger.Warn("tick failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Stop tears the loop down and waits for it to exit. Only the first call has
// any effect; no tick is applied once Stop has returned.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
	<-r.exited
}

// Exited is closed once the loop has returned
func (r *Runner) Exited() <-chan struct{} {
	return r.exited
}

// RunnerManager keeps at most one Runner per board
type RunnerManager struct {
	mu       sync.Mutex
	target   Ticker
	clock    clock.Clock
	interval time.Duration
	runners  map[model.BoardCode]*Runner
	metrics  *metrics.Manager
	logger   *slog.Logger
}

// NewRunnerManager creates a manager ticking target every interval
func NewRunnerManager(target Ticker, clk clock.Clock, interval time.Duration, m *metrics.Manager, logger *slog.Logger) *RunnerManager {
	return &RunnerManager{
		target:   target,
		clock:    clk,
		interval: interval,
		runners:  make(map[model.BoardCode]*Runner),
		metrics:  m,
		logger:   logger.With(slog.String("component", "stopwatch_runner")),
	}
}

// Mount starts the runner for the board unless a live one exists. It reports
// whether a new runner was started.
func (m *RunnerManager) Mount(code model.BoardCode) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.runners[code]; ok {
		select {
		case <-r.Exited():
			// Exited on its own; replace it
			r.Stop()
			m.metrics.RunnerMounted(-1)
		default:
			return false
		}
	}

	m.runners[code] = StartRunner(code, m.target, m.clock, m.interval, m.logger)
	m.metrics.RunnerMounted(1)
	m.logger.Debug("runner mounted", slog.String("board", string(code)))
	return true
}

// Unmount stops and forgets the runner for the board, if any
func (m *RunnerManager) Unmount(code model.BoardCode) {
	m.mu.Lock()
	r, ok := m.runners[code]
	delete(m.runners, code)
	m.mu.Unlock()

	if !ok {
		return
	}
	r.Stop()
	m.metrics.RunnerMounted(-1)
	m.logger.Debug("runner unmounted", slog.String("board", string(code)))
}

// Mounted reports whether a runner exists for the board
func (m *RunnerManager) Mounted(code model.BoardCode) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.runners[code]
	return ok
}

// Count returns the number of mounted runners
func (m *RunnerManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runners)
}

// UnmountAll stops every runner
func (m *RunnerManager) UnmountAll() {
	m.mu.Lock()
	runners := m.runners
	m.runners = make(map[model.BoardCode]*Runner)
	m.mu.Unlock()

	for _, r := range runners {
		r.Stop()
		m.metrics.RunnerMounted(-1)
	}
	m.logger.Info("all runners unmounted", slog.Int("count", len(runners)))
}
