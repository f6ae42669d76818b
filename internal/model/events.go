package model

import (
	"context"
	"time"
)

// EventType identifies the type of event
type EventType string

const (
	// Board events
	EventBoardCreated EventType = "board_created"
	EventBoardDeleted EventType = "board_deleted"
	EventBoardReaped  EventType = "board_reaped"

	// Roster events
	EventPlayerAdded   EventType = "player_added"
	EventPlayerRemoved EventType = "player_removed"
	EventScoreChanged  EventType = "score_changed"

	// Stopwatch events
	EventStopwatchStarted EventType = "stopwatch_started"
	EventStopwatchStopped EventType = "stopwatch_stopped"
	EventStopwatchReset   EventType = "stopwatch_reset"
	EventStopwatchTicked  EventType = "stopwatch_ticked"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	BoardCode BoardCode
	PlayerID  PlayerID // Empty for board and stopwatch events
	Payload   any      // Type-specific data
}

// PlayerAddedPayload contains data for player added events
type PlayerAddedPayload struct {
	Player Player
	Roster Roster
}

// PlayerRemovedPayload contains data for player removed events
type PlayerRemovedPayload struct {
	Player      Player
	FormerIndex int
	Roster      Roster
}

// ScoreChangedPayload contains data for score changed events
type ScoreChangedPayload struct {
	Delta    int
	NewScore int
	Roster   Roster
}

// StopwatchPayload carries the stopwatch after a transition or tick
type StopwatchPayload struct {
	Stopwatch Stopwatch
}

// EventSink receives events after the state change they describe has been
// stored
type EventSink interface {
	Publish(ctx context.Context, event Event)
}

// NopEventSink discards all events
type NopEventSink struct{}

// Publish does nothing
func (NopEventSink) Publish(context.Context, Event) {}
