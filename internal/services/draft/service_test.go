package draft

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/storage/memory"
	"github.com/mcoot/scoreboard/internal/testutil"
)

type fakeAdder struct {
	names []string
	err   error
}

func (f *fakeAdder) AddPlayer(_ context.Context, _ model.BoardCode, name string) (model.Player, error) {
	f.names = append(f.names, name)
	if f.err != nil {
		return model.Player{}, f.err
	}
	return model.Player{ID: "new", Name: name}, nil
}

type ServiceSuite struct {
	suite.Suite
	service *Service
	adder   *fakeAdder
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	storage := memory.New()
	s.ctx = context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(storage.SaveBoard(s.ctx, &model.Board{Code: "ABC123", CreatedAt: now, LastActive: now}))
	s.service = New(storage, testutil.NopLogger())
	s.adder = &fakeAdder{}
}

func (s *ServiceSuite) TestDraftStartsEmpty() {
	d, err := s.service.Get(s.ctx, "ABC123", "viewer-1")
	s.Require().NoError(err)
	s.Equal("", d.Name)
}

func (s *ServiceSuite) TestUpdateNameReplacesDraft() {
	_, _ = s.service.UpdateName(s.ctx, "ABC123", "viewer-1", "Ja")
	d, err := s.service.UpdateName(s.ctx, "ABC123", "viewer-1", "Jane")
	s.Require().NoError(err)
	s.Equal("Jane", d.Name)

	stored, _ := s.service.Get(s.ctx, "ABC123", "viewer-1")
	s.Equal("Jane", stored.Name)
}

func (s *ServiceSuite) TestDraftsArePerViewer() {
	_, _ = s.service.UpdateName(s.ctx, "ABC123", "viewer-1", "Jane")

	other, _ := s.service.Get(s.ctx, "ABC123", "viewer-2")
	s.Equal("", other.Name)
}

func (s *ServiceSuite) TestSubmitAddsAndClears() {
	_, _ = s.service.UpdateName(s.ctx, "ABC123", "viewer-1", "Jane")

	player, err := s.service.Submit(s.ctx, "ABC123", "viewer-1", s.adder)
	s.Require().NoError(err)
	s.Equal("Jane", player.Name)
	s.Equal([]string{"Jane"}, s.adder.names)

	d, _ := s.service.Get(s.ctx, "ABC123", "viewer-1")
	s.Equal("", d.Name)
}

func (s *ServiceSuite) TestSubmitEmptyDraftStillFires() {
	_, err := s.service.Submit(s.ctx, "ABC123", "viewer-1", s.adder)
	s.Require().NoError(err)
	s.Equal([]string{""}, s.adder.names)
}

func (s *ServiceSuite) TestSubmitClearsEvenWhenAddFails() {
	s.adder.err = model.ErrBlankName
	_, _ = s.service.UpdateName(s.ctx, "ABC123", "viewer-1", "   ")

	_, err := s.service.Submit(s.ctx, "ABC123", "viewer-1", s.adder)
	s.ErrorIs(err, model.ErrBlankName)

	d, _ := s.service.Get(s.ctx, "ABC123", "viewer-1")
	s.Equal("", d.Name)
}

func (s *ServiceSuite) TestUnknownBoard() {
	_, err := s.service.UpdateName(s.ctx, "NOPE00", "viewer-1", "x")
	s.ErrorIs(err, model.ErrBoardNotFound)

	_, err = s.service.Submit(s.ctx, "NOPE00", "viewer-1", s.adder)
	s.ErrorIs(err, model.ErrBoardNotFound)
	s.Empty(s.adder.names)
}
