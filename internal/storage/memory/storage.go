package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	boards      map[model.BoardCode]*model.Board
	rosters     map[model.BoardCode]model.Roster
	stopwatches map[model.BoardCode]model.Stopwatch
	drafts      map[draftKey]string
}

type draftKey struct {
	code   model.BoardCode
	viewer model.ViewerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		boards:      make(map[model.BoardCode]*model.Board),
		rosters:     make(map[model.BoardCode]model.Roster),
		stopwatches: make(map[model.BoardCode]model.Stopwatch),
		drafts:      make(map[draftKey]string),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Board operations

func (s *Storage) SaveBoard(ctx context.Context, board *model.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *board
	s.boards[board.Code] = &cp
	return nil
}

func (s *Storage) GetBoard(ctx context.Context, code model.BoardCode) (*model.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	board, ok := s.boards[code]
	if !ok {
		return nil, model.ErrBoardNotFound
	}
	cp := *board
	return &cp, nil
}

// DeleteBoard removes the board together with its roster, stopwatch and drafts
func (s *Storage) DeleteBoard(ctx context.Context, code model.BoardCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.boards, code)
	delete(s.rosters, code)
	delete(s.stopwatches, code)
	for k := range s.drafts {
		if k.code == code {
			delete(s.drafts, k)
		}
	}
	return nil
}

func (s *Storage) BoardExists(ctx context.Context, code model.BoardCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.boards[code]
	return ok, nil
}

// ListBoards returns every board ordered by creation time
func (s *Storage) ListBoards(ctx context.Context) ([]*model.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	boards := make([]*model.Board, 0, len(s.boards))
	for _, b := range s.boards {
		cp := *b
		boards = append(boards, &cp)
	}
	sort.Slice(boards, func(i, j int) bool {
		return boards[i].CreatedAt.Before(boards[j].CreatedAt)
	})
	return boards, nil
}

func (s *Storage) TouchBoard(ctx context.Context, code model.BoardCode, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	board, ok := s.boards[code]
	if !ok {
		return model.ErrBoardNotFound
	}
	board.LastActive = now
	return nil
}

// Roster operations

func (s *Storage) SaveRoster(ctx context.Context, code model.BoardCode, roster model.Roster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boards[code]; !ok {
		return model.ErrBoardNotFound
	}
	s.rosters[code] = roster
	return nil
}

func (s *Storage) GetRoster(ctx context.Context, code model.BoardCode) (model.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.boards[code]; !ok {
		return model.Roster{}, model.ErrBoardNotFound
	}
	return s.rosters[code], nil
}

// Stopwatch operations

func (s *Storage) SaveStopwatch(ctx context.Context, code model.BoardCode, sw model.Stopwatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boards[code]; !ok {
		return model.ErrBoardNotFound
	}
	s.stopwatches[code] = sw
	return nil
}

func (s *Storage) GetStopwatch(ctx context.Context, code model.BoardCode) (model.Stopwatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	board, ok := s.boards[code]
	if !ok {
		return model.Stopwatch{}, model.ErrBoardNotFound
	}
	sw, ok := s.stopwatches[code]
	if !ok {
		return model.NewStopwatch(board.CreatedAt), nil
	}
	return sw, nil
}

// Draft operations

func (s *Storage) SaveDraft(ctx context.Context, draft model.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boards[draft.BoardCode]; !ok {
		return model.ErrBoardNotFound
	}
	key := draftKey{code: draft.BoardCode, viewer: draft.ViewerID}
	if draft.Name == "" {
		delete(s.drafts, key)
		return nil
	}
	s.drafts[key] = draft.Name
	return nil
}

func (s *Storage) GetDraft(ctx context.Context, code model.BoardCode, viewer model.ViewerID) (model.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.boards[code]; !ok {
		return model.Draft{}, model.ErrBoardNotFound
	}
	return model.Draft{
		BoardCode: code,
		ViewerID:  viewer,
		Name:      s.drafts[draftKey{code: code, viewer: viewer}],
	}, nil
}
