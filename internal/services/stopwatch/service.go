package stopwatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/scoreboard/internal/dependencies/clock"
	"github.com/mcoot/scoreboard/internal/metrics"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/board"
	"github.com/mcoot/scoreboard/internal/storage"
)

// Service owns the stopwatch of every board
type Service struct {
	mu sync.Mutex

	storage         storage.Storage
	boardController *board.Controller
	clock           clock.Clock
	events          model.EventSink
	metrics         *metrics.Manager
	logger          *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithEventSink sets where stopwatch events are published
func WithEventSink(sink model.EventSink) Option {
	return func(s *Service) {
		if sink != nil {
			s.events = sink
		}
	}
}

// WithMetrics enables instrumentation
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New creates a new stopwatch Service
func New(
	storage storage.Storage,
	boardController *board.Controller,
	clock clock.Clock,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		storage:         storage,
		boardController: boardController,
		clock:           clock,
		events:          model.NopEventSink{},
		logger:          logger.With(slog.String("component", "stopwatch")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the board's stopwatch as of now. A running stopwatch is
// advanced for the read only; the stored value moves with Tick.
func (s *Service) Get(ctx context.Context, code model.BoardCode) (model.Stopwatch, error) {
	sw, err := s.storage.GetStopwatch(ctx, code)
	if err != nil {
		return model.Stopwatch{}, err
	}
	return sw.Tick(s.clock.Now()), nil
}

// Start moves the stopwatch to running. Starting a running stopwatch is a no-op.
func (s *Service) Start(ctx context.Context, code model.BoardCode) (model.Stopwatch, error) {
	return s.transition(ctx, code, "start", model.EventStopwatchStarted, model.Stopwatch.Start)
}

// Stop freezes the stopwatch, folding in the time since the last tick
func (s *Service) Stop(ctx context.Context, code model.BoardCode) (model.Stopwatch, error) {
	return s.transition(ctx, code, "stop", model.EventStopwatchStopped, model.Stopwatch.Stop)
}

// Reset zeroes the elapsed time and keeps the running state
func (s *Service) Reset(ctx context.Context, code model.BoardCode) (model.Stopwatch, error) {
	return s.transition(ctx, code, "reset", model.EventStopwatchReset, model.Stopwatch.Reset)
}

func (s *Service) transition(
	ctx context.Context,
	code model.BoardCode,
	action string,
	eventType model.EventType,
	apply func(model.Stopwatch, time.Time) model.Stopwatch,
) (model.Stopwatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw, err := s.storage.GetStopwatch(ctx, code)
	if err != nil {
		return model.Stopwatch{}, err
	}
	now := s.clock.Now()
	next := apply(sw, now)
	if err := s.storage.SaveStopwatch(ctx, code, next); err != nil {
		return model.Stopwatch{}, err
	}
	if err := s.boardController.Touch(ctx, code); err != nil {
		s.logger.Warn("failed to touch board",
			slog.String("board", string(code)),
			slog.String("error", err.Error()),
		)
	}

	s.metrics.StopwatchTransition(action)
	s.logger.Info("stopwatch "+action,
		slog.String("board", string(code)),
		slog.String("state", string(next.State())),
		slog.Int64("elapsed_ms", next.ElapsedMilliseconds()),
	)
	s.events.Publish(ctx, model.Event{
		Type:      eventType,
		Timestamp: now,
		BoardCode: code,
		Payload:   model.StopwatchPayload{Stopwatch: next},
	})
	return next, nil
}

// Tick advances a running stopwatch to the current time. A tick event is
// published only when the displayed seconds change.
func (s *Service) Tick(ctx context.Context, code model.BoardCode) (model.Stopwatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw, err := s.storage.GetStopwatch(ctx, code)
	if err != nil {
		return model.Stopwatch{}, err
	}
	if !sw.Running {
		return sw, nil
	}

	now := s.clock.Now()
	next := sw.Tick(now)
	if err := s.storage.SaveStopwatch(ctx, code, next); err != nil {
		return model.Stopwatch{}, err
	}
	s.metrics.StopwatchTicked()

	if next.Seconds() != sw.Seconds() {
		s.events.Publish(ctx, model.Event{
			Type:      model.EventStopwatchTicked,
			Timestamp: now,
			BoardCode: code,
			Payload:   model.StopwatchPayload{Stopwatch: next},
		})
	}
	return next, nil
}
