package components

import (
	"strconv"
	"strings"

	"github.com/mcoot/scoreboard/internal/model"
)

// ScoreboardView is everything the Scoreboard component renders. It is
// rebuilt from fresh snapshots on every render, so the player ids bound into
// each control always match the roster shown.
type ScoreboardView struct {
	Players   []model.Player
	Stats     model.Stats
	Stopwatch model.Stopwatch
	Draft     string
}

// NewScoreboardView derives the view from the current state
func NewScoreboardView(roster model.Roster, sw model.Stopwatch, draft string) ScoreboardView {
	return ScoreboardView{
		Players:   roster.Players(),
		Stats:     roster.Stats(),
		Stopwatch: sw,
		Draft:     draft,
	}
}

// Element ids targeted by out-of-band swaps
const (
	PlayersID       = "players"
	StatsID         = "stats-panel"
	StopwatchID     = "stopwatch-panel"
	AddPlayerFormID = "add-player-form"
)

// BoardPath joins path segments under /board/{code}
func BoardPath(code model.BoardCode, parts ...string) string {
	return "/board/" + string(code) + joinParts(parts)
}

// PlayerPath joins path segments under /board/{code}/players/{id}
func PlayerPath(code model.BoardCode, id model.PlayerID, parts ...string) string {
	return BoardPath(code, "players", string(id)) + joinParts(parts)
}

func joinParts(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return "/" + strings.Join(parts, "/")
}

func seconds(sw model.Stopwatch) string {
	return strconv.FormatInt(sw.Seconds(), 10)
}
