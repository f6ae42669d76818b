package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Board:
		o.printBoard(v)
	case BoardList:
		o.printBoardList(v)
	case Roster:
		o.printRoster(v)
	case Player:
		o.printPlayer(v)
	case Stats:
		o.printStats(v)
	case Stopwatch:
		o.printStopwatch(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Stats response type
type Stats struct {
	PlayerCount int `json:"player_count"`
	TotalPoints int `json:"total_points"`
}

// Roster response type
type Roster struct {
	Players []Player `json:"players"`
	Stats   Stats    `json:"stats"`
}

// Stopwatch response type
type Stopwatch struct {
	State     string `json:"state"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Seconds   int64  `json:"seconds"`
}

// BoardSummary response type
type BoardSummary struct {
	Code       string    `json:"code"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// BoardList response type
type BoardList struct {
	Boards []BoardSummary `json:"boards"`
}

// Board response type
type Board struct {
	BoardSummary
	Roster
	Stopwatch Stopwatch `json:"stopwatch"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
	Boards int    `json:"boards"`
}

func (o *Output) printBoard(b Board) {
	fmt.Printf("Board: %s\n", b.Code)
	fmt.Printf("Stopwatch: %s (%s)\n", formatSeconds(b.Stopwatch.Seconds), b.Stopwatch.State)
	o.printRoster(b.Roster)
}

func (o *Output) printBoardList(l BoardList) {
	if len(l.Boards) == 0 {
		fmt.Println("No boards")
		return
	}
	fmt.Printf("Boards (%d):\n", len(l.Boards))
	for _, b := range l.Boards {
		fmt.Printf("  - %s (last active %s)\n", b.Code, b.LastActive.Local().Format("2006-01-02 15:04:05"))
	}
}

func (o *Output) printRoster(r Roster) {
	o.printStats(r.Stats)
	for i, p := range r.Players {
		fmt.Printf("  %2d. %-24s %5d  (%s)\n", i+1, p.Name, p.Score, p.ID)
	}
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.Name, p.ID)
	fmt.Printf("Score: %d\n", p.Score)
}

func (o *Output) printStats(s Stats) {
	fmt.Printf("Players: %d\n", s.PlayerCount)
	fmt.Printf("Total Points: %d\n", s.TotalPoints)
}

func (o *Output) printStopwatch(s Stopwatch) {
	fmt.Printf("Stopwatch: %s (%s)\n", formatSeconds(s.Seconds), s.State)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Boards: %d\n", h.Boards)
}

// formatSeconds renders whole seconds as m:ss, or h:mm:ss past the hour
func formatSeconds(secs int64) string {
	h, m, s := secs/3600, (secs/60)%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
