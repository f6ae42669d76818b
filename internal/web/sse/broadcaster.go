package sse

import (
	"context"
	"log/slog"

	"github.com/mcoot/scoreboard/internal/model"
)

// Broadcaster pushes board events to the board's SSE clients. It is the
// EventSink the services publish to.
type Broadcaster struct {
	hubManager *HubManager
	renderer   *Renderer
	logger     *slog.Logger
}

// Ensure Broadcaster is an EventSink
var _ model.EventSink = (*Broadcaster)(nil)

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		renderer:   NewRenderer(),
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish renders the event and broadcasts it to the board's viewers. A
// removed board has its hub closed, which disconnects the viewers.
func (b *Broadcaster) Publish(ctx context.Context, event model.Event) {
	if event.Type == model.EventBoardReaped || event.Type == model.EventBoardDeleted {
		b.hubManager.RemoveHub(event.BoardCode)
		return
	}

	hub := b.hubManager.GetHub(event.BoardCode)
	if hub == nil {
		return
	}

	messages, err := b.renderer.RenderBoardEvent(ctx, event)
	if err != nil {
		b.logger.Error("sse failed to render event",
			slog.String("board", string(event.BoardCode)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}
	for _, m := range messages {
		hub.BroadcastEvent(m.EventName, m.HTML)
	}
}

// Fanout publishes every event to each sink in order
type Fanout []model.EventSink

// Publish forwards the event
func (f Fanout) Publish(ctx context.Context, event model.Event) {
	for _, s := range f {
		s.Publish(ctx, event)
	}
}
