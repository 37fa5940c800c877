package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"polingo/internal/db"
	"polingo/internal/models"
	"polingo/internal/repository"
	"polingo/internal/repository/sqlite"
	"polingo/internal/testutil"
)

var robicConjugations = []models.ConjugationPair{
	{Pronoun: models.PronounJa, ConjugatedForm: "robię"},
	{Pronoun: models.PronounTy, ConjugatedForm: "robisz"},
	{Pronoun: models.PronounOnOnaOno, ConjugatedForm: "robi"},
	{Pronoun: models.PronounMy, ConjugatedForm: "robimy"},
	{Pronoun: models.PronounWy, ConjugatedForm: "robicie"},
	{Pronoun: models.PronounOniOne, ConjugatedForm: "robią"},
}

type VerbRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.VerbRepository
}

func (s *VerbRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewVerbRepository(s.db.DB)
}

func (s *VerbRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *VerbRepositorySuite) insertRobic() int64 {
	id, err := s.repo.Insert(context.Background(), models.Verb{
		Infinitive: "robić", English: "to do", Ukrainian: "робити",
	}, robicConjugations)
	s.Require().NoError(err)
	return id
}

func (s *VerbRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	id := s.insertRobic()

	v, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(v)
	s.Equal("robić", v.Infinitive)
	s.True(v.Enabled)

	conjugations, err := s.repo.Conjugations(ctx, id)
	s.Require().NoError(err)
	s.Require().Len(conjugations, 6)
	s.Equal(models.PronounJa, conjugations[0].Pronoun)
	s.Equal("robię", conjugations[0].ConjugatedForm)
}

func (s *VerbRepositorySuite) TestGetByInfinitive() {
	ctx := context.Background()
	id := s.insertRobic()

	v, err := s.repo.GetByInfinitive(ctx, "robić")
	s.Require().NoError(err)
	s.Require().NotNil(v)
	s.Equal(id, v.ID)

	missing, err := s.repo.GetByInfinitive(ctx, "spać")
	s.Require().NoError(err)
	s.Nil(missing)
}

func (s *VerbRepositorySuite) TestConjugationLookup() {
	ctx := context.Background()
	id := s.insertRobic()

	c, err := s.repo.Conjugation(ctx, id, models.PronounMy)
	s.Require().NoError(err)
	s.Require().NotNil(c)
	s.Equal("robimy", c.ConjugatedForm)

	missing, err := s.repo.Conjugation(ctx, id+1, models.PronounMy)
	s.Require().NoError(err)
	s.Nil(missing)
}

func (s *VerbRepositorySuite) TestSetEnabled() {
	ctx := context.Background()
	id := s.insertRobic()

	s.Require().NoError(s.repo.SetEnabled(ctx, id, false))

	v, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(v)
	s.False(v.Enabled)
}

func (s *VerbRepositorySuite) TestPracticeCounts() {
	ctx := context.Background()
	id := s.insertRobic()

	for _, rec := range []models.VerbPracticeRecord{
		{VerbID: id, Pronoun: models.PronounJa, WasCorrect: true},
		{VerbID: id, Pronoun: models.PronounTy, WasCorrect: false},
		{VerbID: id, Pronoun: models.PronounMy, WasCorrect: true},
	} {
		s.Require().NoError(s.repo.InsertPracticeRecord(ctx, rec))
	}

	today := time.Now().UTC().Format("2006-01-02")

	correct, total, err := s.repo.DayCounts(ctx, today)
	s.Require().NoError(err)
	s.Equal(2, correct)
	s.Equal(3, total)

	correct, total, err = s.repo.OverallCounts(ctx)
	s.Require().NoError(err)
	s.Equal(2, correct)
	s.Equal(3, total)

	correct, total, err = s.repo.VerbCounts(ctx, id)
	s.Require().NoError(err)
	s.Equal(2, correct)
	s.Equal(3, total)
}

func (s *VerbRepositorySuite) TestCount() {
	s.insertRobic()

	count, err := s.repo.Count(context.Background())
	s.Require().NoError(err)
	s.Equal(1, count)
}

func TestVerbRepositorySuite(t *testing.T) {
	suite.Run(t, new(VerbRepositorySuite))
}
