package storage

import (
	"context"
	"time"

	"github.com/mcoot/scoreboard/internal/model"
)

// Storage holds the state of every mounted board. Rosters and stopwatches are
// immutable values: callers replace them wholesale with Save.
type Storage interface {
	// Board operations
	SaveBoard(ctx context.Context, board *model.Board) error
	GetBoard(ctx context.Context, code model.BoardCode) (*model.Board, error)
	DeleteBoard(ctx context.Context, code model.BoardCode) error
	BoardExists(ctx context.Context, code model.BoardCode) (bool, error)
	ListBoards(ctx context.Context) ([]*model.Board, error)
	// TouchBoard sets LastActive on an existing board. It never creates one.
	TouchBoard(ctx context.Context, code model.BoardCode, now time.Time) error

	// Roster operations
	SaveRoster(ctx context.Context, code model.BoardCode, roster model.Roster) error
	GetRoster(ctx context.Context, code model.BoardCode) (model.Roster, error)

	// Stopwatch operations
	SaveStopwatch(ctx context.Context, code model.BoardCode, sw model.Stopwatch) error
	GetStopwatch(ctx context.Context, code model.BoardCode) (model.Stopwatch, error)

	// Draft operations. A missing draft reads as empty.
	SaveDraft(ctx context.Context, draft model.Draft) error
	GetDraft(ctx context.Context, code model.BoardCode, viewer model.ViewerID) (model.Draft, error)
}
