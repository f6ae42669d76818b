package model

import "time"

// BoardCode is a human-readable identifier for a scoreboard
type BoardCode string

// Board is one mounted scoreboard. Its roster, stopwatch and drafts are
// stored separately and keyed by Code.
type Board struct {
	Code       BoardCode
	CreatedAt  time.Time
	LastActive time.Time
}

// IdleSince reports whether the board has seen no activity since cutoff
func (b *Board) IdleSince(cutoff time.Time) bool {
	return b.LastActive.Before(cutoff)
}
