package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"polingo/internal/db"
	"polingo/internal/models"
	"polingo/internal/repository"
	"polingo/internal/repository/sqlite"
	"polingo/internal/testutil"
)

type SessionServiceSuite struct {
	suite.Suite
	db    *db.DB
	words repository.WordRepository
	svc   SessionService
}

func (s *SessionServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.words = sqlite.NewWordRepository(s.db.DB)
	s.svc = NewSessionService(sqlite.NewSessionRepository(s.db.DB), s.words)
}

func (s *SessionServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SessionServiceSuite) insertWord(polish string) int64 {
	id, err := s.words.Insert(context.Background(), models.Word{
		Polish: polish, English: polish + "-en", Ukrainian: polish + "-uk",
	})
	s.Require().NoError(err)
	return id
}

func (s *SessionServiceSuite) TestGetStateCreatesSession() {
	state, err := s.svc.GetState(context.Background())
	s.Require().NoError(err)
	s.Equal(models.LanguageSetEnglish, state.LanguageSet)
	s.Empty(state.Words)
}

func (s *SessionServiceSuite) TestUpdateLanguage() {
	state, err := s.svc.UpdateLanguage(context.Background(), models.LanguageSetUkrainian)
	s.Require().NoError(err)
	s.Equal(models.LanguageSetUkrainian, state.LanguageSet)

	_, err = s.svc.UpdateLanguage(context.Background(), "german")
	s.Error(err)
}

func (s *SessionServiceSuite) TestAddWordReturnsFreshState() {
	id := s.insertWord("kot")

	state, err := s.svc.AddWord(context.Background(), id)
	s.Require().NoError(err)
	s.Require().Len(state.Words, 1)
	s.Equal(id, state.Words[0].ID)

	_, err = s.svc.AddWord(context.Background(), 404)
	s.Error(err)
}

func (s *SessionServiceSuite) TestAddWordsBulk() {
	a := s.insertWord("kot")
	b := s.insertWord("pies")

	state, err := s.svc.AddWords(context.Background(), []int64{a, b})
	s.Require().NoError(err)
	s.Len(state.Words, 2)

	_, err = s.svc.AddWords(context.Background(), nil)
	s.Error(err)
}

func TestSessionServiceSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceSuite))
}
