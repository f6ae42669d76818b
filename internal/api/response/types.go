package response

import (
	"time"

	"github.com/mcoot/scoreboard/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:    string(p.ID),
		Name:  p.Name,
		Score: p.Score,
	}
}

// Stats represents roster statistics
type Stats struct {
	PlayerCount int `json:"player_count"`
	TotalPoints int `json:"total_points"`
}

// StatsFromModel converts model.Stats
func StatsFromModel(s model.Stats) Stats {
	return Stats{
		PlayerCount: s.PlayerCount,
		TotalPoints: s.TotalPoints,
	}
}

// Roster is the ordered player list with its statistics
type Roster struct {
	Players []Player `json:"players"`
	Stats   Stats    `json:"stats"`
}

// RosterFromModel converts model.Roster
func RosterFromModel(r model.Roster) Roster {
	players := make([]Player, 0, r.Len())
	for _, p := range r.Players() {
		players = append(players, PlayerFromModel(p))
	}
	return Roster{
		Players: players,
		Stats:   StatsFromModel(r.Stats()),
	}
}

// Stopwatch represents a board's stopwatch
type Stopwatch struct {
	State     string `json:"state"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Seconds   int64  `json:"seconds"`
}

// StopwatchFromModel converts model.Stopwatch
func StopwatchFromModel(s model.Stopwatch) Stopwatch {
	return Stopwatch{
		State:     string(s.State()),
		ElapsedMS: s.ElapsedMilliseconds(),
		Seconds:   s.Seconds(),
	}
}

// BoardSummary represents a board in list responses
type BoardSummary struct {
	Code       string    `json:"code"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// BoardSummaryFromModel converts model.Board
func BoardSummaryFromModel(b *model.Board) BoardSummary {
	return BoardSummary{
		Code:       string(b.Code),
		CreatedAt:  b.CreatedAt,
		LastActive: b.LastActive,
	}
}

// BoardList is the response for listing boards
type BoardList struct {
	Boards []BoardSummary `json:"boards"`
}

// Board is the full state of one board
type Board struct {
	BoardSummary
	Roster
	Stopwatch Stopwatch `json:"stopwatch"`
}

// BoardFromModel assembles a Board response
func BoardFromModel(b *model.Board, r model.Roster, s model.Stopwatch) Board {
	return Board{
		BoardSummary: BoardSummaryFromModel(b),
		Roster:       RosterFromModel(r),
		Stopwatch:    StopwatchFromModel(s),
	}
}

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
	Boards int    `json:"boards"`
}
