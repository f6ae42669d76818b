package sse

import (
	"bytes"
	"context"

	"github.com/a-h/templ"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/web/templates/components"
	"github.com/mcoot/scoreboard/internal/web/templates/layout"
)

// SSE event names
const (
	EventRosterUpdate    = "roster-update"
	EventStopwatchUpdate = "stopwatch-update"
)

// Renderer converts board state to HTML fragments for SSE and htmx responses
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderRoster renders the player list and stats as out-of-band swaps
func (r *Renderer) RenderRoster(ctx context.Context, code model.BoardCode, roster model.Roster) (string, error) {
	players, err := render(ctx, components.PlayerList(code, roster.Players()))
	if err != nil {
		return "", err
	}
	stats, err := render(ctx, components.Stats(roster.Stats()))
	if err != nil {
		return "", err
	}
	return WrapForOOBSwap(components.PlayersID, players) + WrapForOOBSwap(components.StatsID, stats), nil
}

// RenderStopwatch renders the stopwatch as an out-of-band swap
func (r *Renderer) RenderStopwatch(ctx context.Context, code model.BoardCode, sw model.Stopwatch) (string, error) {
	html, err := render(ctx, components.Stopwatch(code, sw))
	if err != nil {
		return "", err
	}
	return WrapForOOBSwap(components.StopwatchID, html), nil
}

// RenderAddPlayerForm renders the viewer's form as an out-of-band swap
func (r *Renderer) RenderAddPlayerForm(ctx context.Context, code model.BoardCode, draft string) (string, error) {
	html, err := render(ctx, components.AddPlayerForm(code, draft))
	if err != nil {
		return "", err
	}
	return WrapForOOBSwap(components.AddPlayerFormID, html), nil
}

// RenderFlash renders a flash message as an out-of-band swap
func (r *Renderer) RenderFlash(ctx context.Context, flash *layout.FlashMessage) (string, error) {
	html, err := render(ctx, layout.FlashContent(flash))
	if err != nil {
		return "", err
	}
	return WrapForOOBSwap(layout.FlashID, html), nil
}

func render(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WrapForOOBSwap wraps HTML in a div that replaces the children of the
// element with the given id
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="innerHTML">` + html + `</div>`
}

// EventData represents SSE event data
type EventData struct {
	EventName string
	HTML      string
}

// RenderBoardEvent converts a board event to the SSE messages viewers need.
// Events that carry no view change render nothing.
func (r *Renderer) RenderBoardEvent(ctx context.Context, event model.Event) ([]EventData, error) {
	var roster *model.Roster
	switch p := event.Payload.(type) {
	case model.PlayerAddedPayload:
		roster = &p.Roster
	case model.PlayerRemovedPayload:
		roster = &p.Roster
	case model.ScoreChangedPayload:
		roster = &p.Roster
	case model.StopwatchPayload:
		html, err := r.RenderStopwatch(ctx, event.BoardCode, p.Stopwatch)
		if err != nil {
			return nil, err
		}
		return []EventData{{EventName: EventStopwatchUpdate, HTML: html}}, nil
	}
	if roster == nil {
		return nil, nil
	}

	html, err := r.RenderRoster(ctx, event.BoardCode, *roster)
	if err != nil {
		return nil, err
	}
	return []EventData{{EventName: EventRosterUpdate, HTML: html}}, nil
}
