package board

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/scoreboard/internal/dependencies/clock"
	"github.com/mcoot/scoreboard/internal/dependencies/random"
	"github.com/mcoot/scoreboard/internal/metrics"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/storage"
)

const (
	// CodeLength is the length of generated board codes
	CodeLength = 6
	// CodeAlphabet is the characters used in board codes (avoid confusing chars)
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// SeedPlayer is a player every new board starts with
type SeedPlayer struct {
	Name  string
	Score int
}

// DefaultSeedPlayers is the roster a board starts with when none is configured
func DefaultSeedPlayers() []SeedPlayer {
	return []SeedPlayer{
		{Name: "Jim Hoskins", Score: 31},
		{Name: "Andrew Chalkley", Score: 20},
		{Name: "Alena Holligan", Score: 50},
	}
}

// Controller manages the lifecycle of boards
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	seed    []SeedPlayer
	events  model.EventSink
	metrics *metrics.Manager
	logger  *slog.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithSeedPlayers replaces the default starting roster
func WithSeedPlayers(seed []SeedPlayer) Option {
	return func(c *Controller) {
		c.seed = seed
	}
}

// WithEventSink sets where board events are published
func WithEventSink(sink model.EventSink) Option {
	return func(c *Controller) {
		if sink != nil {
			c.events = sink
		}
	}
}

// WithMetrics enables instrumentation
func WithMetrics(m *metrics.Manager) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// NewController creates a new board Controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	opts ...Option,
) *Controller {
	c := &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		seed:    DefaultSeedPlayers(),
		events:  model.NopEventSink{},
		logger:  logger.With(slog.String("component", "board")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateBoard creates a board with a fresh code, the seed roster and an idle
// stopwatch
func (c *Controller) CreateBoard(ctx context.Context) (*model.Board, error) {
	now := c.clock.Now()

	// Generate unique board code
	var code model.BoardCode
	for {
		code = model.BoardCode(c.random.String(CodeLength, CodeAlphabet))
		exists, err := c.storage.BoardExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	players := make([]model.Player, 0, len(c.seed))
	for _, sp := range c.seed {
		players = append(players, model.Player{
			ID:    model.PlayerID(c.random.UUID()),
			Name:  sp.Name,
			Score: sp.Score,
		})
	}
	roster, err := model.NewRoster(players...)
	if err != nil {
		return nil, fmt.Errorf("seeding roster: %w", err)
	}

	board := &model.Board{
		Code:       code,
		CreatedAt:  now,
		LastActive: now,
	}
	if err := c.storage.SaveBoard(ctx, board); err != nil {
		return nil, err
	}
	if err := c.storage.SaveRoster(ctx, code, roster); err != nil {
		return nil, err
	}
	if err := c.storage.SaveStopwatch(ctx, code, model.NewStopwatch(now)); err != nil {
		return nil, err
	}

	c.metrics.BoardCreated()
	c.logger.Info("board created",
		slog.String("board", string(code)),
		slog.Int("player_count", roster.Len()),
	)
	c.events.Publish(ctx, model.Event{
		Type:      model.EventBoardCreated,
		Timestamp: now,
		BoardCode: code,
	})

	return board, nil
}

// GetBoard retrieves a board by code
func (c *Controller) GetBoard(ctx context.Context, code model.BoardCode) (*model.Board, error) {
	return c.storage.GetBoard(ctx, code)
}

// Exists reports whether a board with this code is mounted
func (c *Controller) Exists(ctx context.Context, code model.BoardCode) (bool, error) {
	return c.storage.BoardExists(ctx, code)
}

// ListBoards returns every mounted board
func (c *Controller) ListBoards(ctx context.Context) ([]*model.Board, error) {
	return c.storage.ListBoards(ctx)
}

// Touch records activity on the board so the janitor keeps it
func (c *Controller) Touch(ctx context.Context, code model.BoardCode) error {
	return c.storage.TouchBoard(ctx, code, c.clock.Now())
}

// DeleteBoard removes a board and all of its state
func (c *Controller) DeleteBoard(ctx context.Context, code model.BoardCode) error {
	exists, err := c.storage.BoardExists(ctx, code)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrBoardNotFound
	}
	if err := c.storage.DeleteBoard(ctx, code); err != nil {
		return err
	}
	c.metrics.BoardRemoved(false)
	c.logger.Info("board deleted", slog.String("board", string(code)))
	c.events.Publish(ctx, model.Event{
		Type:      model.EventBoardDeleted,
		Timestamp: c.clock.Now(),
		BoardCode: code,
	})
	return nil
}

// ReapIdle deletes every board with no activity for longer than maxIdle and
// returns the codes removed. Boards for which watched reports true are kept
// and touched, so their idle time restarts when the last viewer leaves.
// A nil watched treats every board as unwatched.
func (c *Controller) ReapIdle(ctx context.Context, maxIdle time.Duration, watched func(model.BoardCode) bool) ([]model.BoardCode, error) {
	boards, err := c.storage.ListBoards(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	cutoff := now.Add(-maxIdle)
	var reaped []model.BoardCode
	for _, b := range boards {
		if !b.IdleSince(cutoff) {
			continue
		}
		if watched != nil && watched(b.Code) {
			if err := c.storage.TouchBoard(ctx, b.Code, now); err != nil {
				c.logger.Warn("failed to touch watched board",
					slog.String("board", string(b.Code)),
					slog.String("error", err.Error()),
				)
			}
			continue
		}
		if err := c.storage.DeleteBoard(ctx, b.Code); err != nil {
			c.logger.Error("failed to reap board",
				slog.String("board", string(b.Code)),
				slog.String("error", err.Error()),
			)
			continue
		}
		reaped = append(reaped, b.Code)
		c.metrics.BoardRemoved(true)
		c.logger.Info("board reaped",
			slog.String("board", string(b.Code)),
			slog.Duration("idle", now.Sub(b.LastActive)),
		)
		c.events.Publish(ctx, model.Event{
			Type:      model.EventBoardReaped,
			Timestamp: now,
			BoardCode: b.Code,
		})
	}
	return reaped, nil
}
