package model

// PlayerID uniquely identifies a player on a board
type PlayerID string

// Player is a single roster entry
type Player struct {
	ID    PlayerID
	Name  string // Set at creation, never renamed
	Score int
}
