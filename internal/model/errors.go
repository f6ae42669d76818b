package model

import "errors"

// Common errors used across the application
var (
	// Board errors
	ErrBoardNotFound = errors.New("board not found")

	// Roster errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrIndexOutOfRange = errors.New("roster index out of range")
	ErrBlankName       = errors.New("player name is blank")
	ErrInvalidDelta    = errors.New("score delta must be non-zero")
	ErrDuplicatePlayer = errors.New("player id already on roster")
)
