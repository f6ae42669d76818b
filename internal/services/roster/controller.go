package roster

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/scoreboard/internal/dependencies/clock"
	"github.com/mcoot/scoreboard/internal/dependencies/random"
	"github.com/mcoot/scoreboard/internal/metrics"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/board"
	"github.com/mcoot/scoreboard/internal/storage"
)

// Controller owns the roster of every board and mediates all mutations to it.
// Mutations are serialized; each one reads the current snapshot, derives a new
// one and stores it.
type Controller struct {
	mu sync.Mutex

	storage         storage.Storage
	boardController *board.Controller
	clock           clock.Clock
	random          random.Random
	allowBlankNames bool
	events          model.EventSink
	metrics         *metrics.Manager
	logger          *slog.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithAllowBlankNames accepts whitespace-only player names
func WithAllowBlankNames(allow bool) Option {
	return func(c *Controller) {
		c.allowBlankNames = allow
	}
}

// WithEventSink sets where roster events are published
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

// NewController creates a new roster Controller
func NewController(
	storage storage.Storage,
	boardController *board.Controller,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	opts ...Option,
) *Controller {
	c := &Controller{
		storage:         storage,
		boardController: boardController,
		clock:           clock,
		random:          random,
		events:          model.NopEventSink{},
		logger:          logger.With(slog.String("component", "roster")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Roster returns the current roster snapshot
func (c *Controller) Roster(ctx context.Context, code model.BoardCode) (model.Roster, error) {
	return c.storage.GetRoster(ctx, code)
}

// Stats returns the statistics of the current roster
func (c *Controller) Stats(ctx context.Context, code model.BoardCode) (model.Stats, error) {
	roster, err := c.storage.GetRoster(ctx, code)
	if err != nil {
		return model.Stats{}, err
	}
	return roster.Stats(), nil
}

// AddPlayer appends a new player with score 0 to the end of the roster.
// The name is stored exactly as given; whitespace only matters for the blank check.
func (c *Controller) AddPlayer(ctx context.Context, code model.BoardCode, name string) (model.Player, error) {
	if strings.TrimSpace(name) == "" && !c.allowBlankNames {
		c.metrics.AddRejected()
		return model.Player{}, model.ErrBlankName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	roster, err := c.storage.GetRoster(ctx, code)
	if err != nil {
		return model.Player{}, err
	}

	player := model.Player{
		ID:   model.PlayerID(c.random.UUID()),
		Name: name,
	}
	next, err := roster.Append(player)
	if err != nil {
		return model.Player{}, err
	}
	if err := c.commit(ctx, code, next); err != nil {
		return model.Player{}, err
	}

	c.metrics.PlayerAdded()
	c.logger.Info("player added",
		slog.String("board", string(code)),
		slog.String("player_id", string(player.ID)),
		slog.Int("roster_size", next.Len()),
	)
	c.publish(ctx, model.EventPlayerAdded, code, player.ID, model.PlayerAddedPayload{
		Player: player,
		Roster: next,
	})
	return player, nil
}

// ChangeScore adds delta to the score of the player with the given id
func (c *Controller) ChangeScore(ctx context.Context, code model.BoardCode, id model.PlayerID, delta int) (model.Player, error) {
	if delta == 0 {
		return model.Player{}, model.ErrInvalidDelta
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	roster, err := c.storage.GetRoster(ctx, code)
	if err != nil {
		return model.Player{}, err
	}
	return c.changeScoreAt(ctx, code, roster, roster.IndexOf(id), delta)
}

// ChangeScoreAt adds delta to the score of the player at the given position
// in the current roster
func (c *Controller) ChangeScoreAt(ctx context.Context, code model.BoardCode, index, delta int) (model.Player, error) {
	if delta == 0 {
		return model.Player{}, model.ErrInvalidDelta
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	roster, err := c.storage.GetRoster(ctx, code)
	if err != nil {
		return model.Player{}, err
	}
	if _, err := roster.At(index); err != nil {
		return model.Player{}, err
	}
	return c.changeScoreAt(ctx, code, roster, index, delta)
}

func (c *Controller) changeScoreAt(ctx context.Context, code model.BoardCode, roster model.Roster, index, delta int) (model.Player, error) {
	if index < 0 {
		return model.Player{}, model.ErrPlayerNotFound
	}
	next, err := roster.ChangeScoreAt(index, delta)
	if err != nil {
		return model.Player{}, err
	}
	if err := c.commit(ctx, code, next); err != nil {
		return model.Player{}, err
	}

	player, _ := next.At(index)
	c.metrics.ScoreChanged(delta)
	c.logger.Debug("score changed",
		slog.String("board", string(code)),
		slog.String("player_id", string(player.ID)),
		slog.Int("delta", delta),
		slog.Int("score", player.Score),
	)
	c.publish(ctx, model.EventScoreChanged, code, player.ID, model.ScoreChangedPayload{
		Delta:    delta,
		NewScore: player.Score,
		Roster:   next,
	})
	return player, nil
}

// RemovePlayer removes the player with the given id. Later players move up
// one position.
func (c *Controller) RemovePlayer(ctx context.Context, code model.BoardCode, id model.PlayerID) (model.Player, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	roster, err := c.storage.GetRoster(ctx, code)
	if err != nil {
		return model.Player{}, err
	}
	idx := roster.IndexOf(id)
	if idx < 0 {
		return model.Player{}, model.ErrPlayerNotFound
	}
	return c.removeAt(ctx, code, roster, idx)
}

// RemoveAt removes the player at the given position in the current roster
func (c *Controller) RemoveAt(ctx context.Context, code model.BoardCode, index int) (model.Player, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	roster, err := c.storage.GetRoster(ctx, code)
	if err != nil {
		return model.Player{}, err
	}
	return c.removeAt(ctx, code, roster, index)
}

func (c *Controller) removeAt(ctx context.Context, code model.BoardCode, roster model.Roster, index int) (model.Player, error) {
	removed, err := roster.At(index)
	if err != nil {
		return model.Player{}, err
	}
	next, err := roster.RemoveAt(index)
	if err != nil {
		return model.Player{}, err
	}
	if err := c.commit(ctx, code, next); err != nil {
		return model.Player{}, err
	}

	c.metrics.PlayerRemoved()
	c.logger.Info("player removed",
		slog.String("board", string(code)),
		slog.String("player_id", string(removed.ID)),
		slog.Int("roster_size", next.Len()),
	)
	c.publish(ctx, model.EventPlayerRemoved, code, removed.ID, model.PlayerRemovedPayload{
		Player:      removed,
		FormerIndex: index,
		Roster:      next,
	})
	return removed, nil
}

// commit stores the new snapshot and marks the board active
func (c *Controller) commit(ctx context.Context, code model.BoardCode, next model.Roster) error {
	if err := c.storage.SaveRoster(ctx, code, next); err != nil {
		c.logger.Error("failed to save roster",
			slog.String("board", string(code)),
			slog.String("error", err.Error()),
		)
		return err
	}
	if err := c.boardController.Touch(ctx, code); err != nil {
		c.logger.Warn("failed to touch board",
			slog.String("board", string(code)),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

func (c *Controller) publish(ctx context.Context, t model.EventType, code model.BoardCode, id model.PlayerID, payload any) {
	c.events.Publish(ctx, model.Event{
		Type:      t,
		Timestamp: c.clock.Now(),
		BoardCode: code,
		PlayerID:  id,
		Payload:   payload,
	})
}
