package draft

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/storage"
)

// PlayerAdder adds a named player to a board
type PlayerAdder interface {
	AddPlayer(ctx context.Context, code model.BoardCode, name string) (model.Player, error)
}

// Service holds the add-player form draft of each viewer on each board
type Service struct {
	mu      sync.Mutex
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new draft Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "draft")),
	}
}

// Get returns the viewer's current draft, empty if none
func (s *Service) Get(ctx context.Context, code model.BoardCode, viewer model.ViewerID) (model.Draft, error) {
	return s.storage.GetDraft(ctx, code, viewer)
}

// UpdateName replaces the draft with the input's current text
func (s *Service) UpdateName(ctx context.Context, code model.BoardCode, viewer model.ViewerID, text string) (model.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := model.Draft{BoardCode: code, ViewerID: viewer, Name: text}
	if err := s.storage.SaveDraft(ctx, d); err != nil {
		return model.Draft{}, err
	}
	return d, nil
}

// Submit hands the current draft to adder and then clears it. The draft is
// cleared whether or not the add succeeded, and an empty draft is still
// submitted.
func (s *Service) Submit(ctx context.Context, code model.BoardCode, viewer model.ViewerID, adder PlayerAdder) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.storage.GetDraft(ctx, code, viewer)
	if err != nil {
		return model.Player{}, err
	}

	player, addErr := adder.AddPlayer(ctx, code, d.Name)

	cleared := model.Draft{BoardCode: code, ViewerID: viewer}
	if err := s.storage.SaveDraft(ctx, cleared); err != nil {
		s.logger.Warn("failed to clear draft",
			slog.String("board", string(code)),
			slog.String("error", err.Error()),
		)
	}
	return player, addErr
}
