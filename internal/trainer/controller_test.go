package trainer_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"polingo/internal/models"
	"polingo/internal/testutil/mocks"
	"polingo/internal/trainer"
)

var testPool = []models.WordWithStats{
	{ID: 1, Polish: "kot", English: "cat", Ukrainian: "кіт", Enabled: true},
	{ID: 2, Polish: "pies", English: "dog", Ukrainian: "пес", Enabled: true},
	{ID: 3, Polish: "dom", English: "house", Ukrainian: "дім", Enabled: true},
}

func newController(t *testing.T, ttl time.Duration) (*trainer.Controller, *mocks.MockAPI) {
	t.Helper()
	api := new(mocks.MockAPI)
	return trainer.New(api, ttl), api
}

func validation(correct bool, answer string) *models.PracticeValidationResponse {
	return &models.PracticeValidationResponse{
		WasCorrect:    correct,
		CorrectAnswer: answer,
		Alternatives:  []string{answer},
		Stats:         models.Stats{TodayPercentage: 75, OverallPercentage: 80, AvailableWords: 3},
	}
}

func TestEnterResetsCursorAndAnswer(t *testing.T) {
	c, api := newController(t, time.Minute)
	c.SetPool(testPool)
	c.SetAnswer("half typed")

	c.Enter(context.Background(), trainer.ModeTranslate)

	snap := c.Snapshot()
	assert.Equal(t, trainer.ModeTranslate, snap.Mode)
	assert.Equal(t, 0, snap.Cursor)
	assert.Empty(t, snap.Answer)
	assert.Nil(t, snap.WordFeedback)
	assert.Nil(t, snap.Status)
	api.AssertExpectations(t)
}

func TestSetPoolKeepsMultiset(t *testing.T) {
	c, _ := newController(t, time.Minute)

	big := make([]models.WordWithStats, 20)
	for i := range big {
		big[i] = models.WordWithStats{ID: int64(i + 1), Polish: string(rune('a' + i))}
	}
	c.SetPool(big)

	snap := c.Snapshot()
	require.Len(t, snap.Pool, len(big))

	ids := make([]int64, len(snap.Pool))
	for i, w := range snap.Pool {
		ids[i] = w.ID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i, id := range ids {
		assert.Equal(t, int64(i+1), id)
	}
}

func TestSetPoolShuffles(t *testing.T) {
	c, _ := newController(t, time.Minute)

	big := make([]models.WordWithStats, 20)
	for i := range big {
		big[i] = models.WordWithStats{ID: int64(i + 1)}
	}

	// A permutation of 20 items landing in input order ten times in a row
	// is effectively impossible, so one reorder among the attempts proves
	// the pool actually gets shuffled.
	reordered := false
	for attempt := 0; attempt < 10 && !reordered; attempt++ {
		c.SetPool(big)
		for i, w := range c.Snapshot().Pool {
			if w.ID != big[i].ID {
				reordered = true
				break
			}
		}
	}
	assert.True(t, reordered)
}

func TestSubmitEmptyAnswerStaysLocal(t *testing.T) {
	c, api := newController(t, time.Minute)
	c.SetPool(testPool)
	c.Enter(context.Background(), trainer.ModeTranslate)

	before := c.Snapshot()
	c.SubmitAnswer(context.Background(), "   ")
	after := c.Snapshot()

	require.NotNil(t, after.Status)
	assert.Equal(t, trainer.SeverityError, after.Status.Severity)
	assert.Equal(t, "Type an answer first", after.Status.Message)
	assert.Equal(t, before.Cursor, after.Cursor)
	api.AssertNotCalled(t, "ValidatePractice", mock.Anything, mock.Anything)
}

func TestSubmitAdvancesCursorAndClearsAnswer(t *testing.T) {
	c, api := newController(t, time.Minute)
	api.On("ValidatePractice", mock.Anything, mock.Anything).Return(validation(true, "cat"), nil)

	c.SetPool(testPool)
	c.Enter(context.Background(), trainer.ModeTranslate)
	c.SetAnswer("cat")
	c.SubmitAnswer(context.Background(), "cat")

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Cursor)
	assert.Empty(t, snap.Answer)
	require.NotNil(t, snap.WordFeedback)
	assert.True(t, snap.WordFeedback.Correct)
	assert.Equal(t, "cat", snap.WordFeedback.CorrectAnswer)
	assert.Nil(t, snap.WordFeedback.Diff)
	assert.Equal(t, 75.0, snap.Stats.TodayPercentage)
	api.AssertExpectations(t)
}

func TestSubmitCyclesThroughPool(t *testing.T) {
	c, api := newController(t, time.Minute)
	api.On("ValidatePractice", mock.Anything, mock.Anything).Return(validation(true, "x"), nil)

	c.SetPool(testPool)
	c.Enter(context.Background(), trainer.ModeTranslate)

	first := c.Snapshot().Current
	require.NotNil(t, first)
	for i := 0; i < len(testPool); i++ {
		c.SubmitAnswer(context.Background(), "x")
	}

	snap := c.Snapshot()
	assert.Equal(t, 0, snap.Cursor)
	require.NotNil(t, snap.Current)
	assert.Equal(t, first.ID, snap.Current.ID)
	api.AssertNumberOfCalls(t, "ValidatePractice", len(testPool))
}

func TestSubmitSendsCurrentWordAndDirection(t *testing.T) {
	c, api := newController(t, time.Minute)

	c.SetPool(testPool)
	c.Enter(context.Background(), trainer.ModeWrite)
	current := c.Snapshot().Current
	require.NotNil(t, current)

	api.On("ValidatePractice", mock.Anything, models.PracticeValidationRequest{
		WordID:      current.ID,
		LanguageSet: models.LanguageSetEnglish,
		Direction:   models.DirectionWriting,
		Answer:      "kot",
	}).Return(validation(true, "kot"), nil)

	c.SubmitAnswer(context.Background(), "kot")
	api.AssertExpectations(t)
}

func TestSubmitFailureAdvancesWithoutStats(t *testing.T) {
	c, api := newController(t, time.Minute)
	api.On("ValidatePractice", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	c.SetPool(testPool)
	c.Enter(context.Background(), trainer.ModeTranslate)
	c.SubmitAnswer(context.Background(), "cat")

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Cursor)
	assert.Empty(t, snap.Answer)
	assert.Nil(t, snap.WordFeedback)
	assert.Equal(t, models.Stats{}, snap.Stats)
	require.NotNil(t, snap.Status)
	assert.Equal(t, trainer.SeverityError, snap.Status.Severity)
	assert.Equal(t, "Something went wrong, please try again", snap.Status.Message)
}

func TestIncorrectWriteAnswerCarriesDiff(t *testing.T) {
	c, api := newController(t, time.Minute)
	api.On("ValidatePractice", mock.Anything, mock.Anything).Return(validation(false, "kod"), nil)

	c.SetPool(testPool)
	c.Enter(context.Background(), trainer.ModeWrite)
	c.SubmitAnswer(context.Background(), "kot")

	fb := c.Snapshot().WordFeedback
	require.NotNil(t, fb)
	assert.False(t, fb.Correct)
	require.Len(t, fb.Diff, 3)
	assert.Equal(t, trainer.DiffCorrect, fb.Diff[0].State)
	assert.Equal(t, trainer.DiffCorrect, fb.Diff[1].State)
	assert.Equal(t, trainer.DiffIncorrect, fb.Diff[2].State)
}

func TestIncorrectTranslateAnswerHasNoDiff(t *testing.T) {
	c, api := newController(t, time.Minute)
	api.On("ValidatePractice", mock.Anything, mock.Anything).Return(validation(false, "dog"), nil)

	c.SetPool(testPool)
	c.Enter(context.Background(), trainer.ModeTranslate)
	c.SubmitAnswer(context.Background(), "cat")

	fb := c.Snapshot().WordFeedback
	require.NotNil(t, fb)
	assert.False(t, fb.Correct)
	assert.Nil(t, fb.Diff)
}

func TestSkipMarksFeedbackSkipped(t *testing.T) {
	c, api := newController(t, time.Minute)
	api.On("SkipPractice", mock.Anything, mock.MatchedBy(func(req models.PracticeValidationRequest) bool {
		return req.Answer == ""
	})).Return(validation(false, "cat"), nil)

	c.SetPool(testPool)
	c.Enter(context.Background(), trainer.ModeWrite)
	c.Skip(context.Background())

	snap := c.Snapshot()
	require.NotNil(t, snap.WordFeedback)
	assert.True(t, snap.WordFeedback.Skipped)
	assert.Nil(t, snap.WordFeedback.Diff)
	assert.Equal(t, 1, snap.Cursor)
	api.AssertExpectations(t)
}

func TestSkipInPronounceModeUsesPronunciationChannel(t *testing.T) {
	c, api := newController(t, time.Minute)
	api.On("SkipPractice", mock.Anything, mock.MatchedBy(func(req models.PracticeValidationRequest) bool {
		return req.Direction == models.DirectionPronunciation
	})).Return(validation(false, "kot"), nil)

	c.SetPool(testPool)
	c.Enter(context.Background(), trainer.ModePronounce)
	c.Skip(context.Background())

	snap := c.Snapshot()
	assert.Nil(t, snap.WordFeedback)
	require.NotNil(t, snap.PronunciationFeedback)
	assert.True(t, snap.PronunciationFeedback.Skipped)
	api.AssertExpectations(t)
}

func TestFeedbackAutoHides(t *testing.T) {
	c, api := newController(t, 40*time.Millisecond)
	api.On("ValidatePractice", mock.Anything, mock.Anything).Return(validation(true, "cat"), nil)

	c.SetPool(testPool)
	c.Enter(context.Background(), trainer.ModeTranslate)
	c.SubmitAnswer(context.Background(), "cat")

	require.NotNil(t, c.Snapshot().WordFeedback)
	assert.Eventually(t, func() bool {
		return c.Snapshot().WordFeedback == nil
	}, time.Second, 10*time.Millisecond)
}

func TestNewAnswerReschedulesHideTimer(t *testing.T) {
	c, api := newController(t, 120*time.Millisecond)
	api.On("ValidatePractice", mock.Anything, mock.Anything).Return(validation(true, "cat"), nil)

	c.SetPool(testPool)
	c.Enter(context.Background(), trainer.ModeTranslate)

	c.SubmitAnswer(context.Background(), "first")
	time.Sleep(80 * time.Millisecond)
	c.SubmitAnswer(context.Background(), "second")
	time.Sleep(80 * time.Millisecond)

	// The first timer's deadline has passed but the second answer took
	// over the slot, so its feedback must still be visible.
	fb := c.Snapshot().WordFeedback
	require.NotNil(t, fb)
	assert.Equal(t, "second", fb.UserAnswer)

	assert.Eventually(t, func() bool {
		return c.Snapshot().WordFeedback == nil
	}, time.Second, 10*time.Millisecond)
}

func TestModeSwitchDiscardsInFlightResponse(t *testing.T) {
	c, api := newController(t, time.Minute)
	api.On("ValidatePractice", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			// Leave word practice while the request is on the wire.
			c.Enter(context.Background(), trainer.ModeIdle)
		}).
		Return(validation(true, "cat"), nil)

	c.SetPool(testPool)
	c.Enter(context.Background(), trainer.ModeTranslate)
	c.SubmitAnswer(context.Background(), "cat")

	snap := c.Snapshot()
	assert.Equal(t, trainer.ModeIdle, snap.Mode)
	assert.Nil(t, snap.WordFeedback)
	assert.Equal(t, models.Stats{}, snap.Stats)
	assert.Equal(t, 0, snap.Cursor)
}

func TestConjugationAnswerFetchesNextQuestion(t *testing.T) {
	c, api := newController(t, time.Minute)

	q1 := &models.ConjugationQuestion{VerbID: 1, Infinitive: "robić", Pronoun: models.PronounJa,
		Options: []string{"robię", "robisz", "robi", "robimy"}}
	q2 := &models.ConjugationQuestion{VerbID: 1, Infinitive: "robić", Pronoun: models.PronounTy,
		Options: []string{"robisz", "robię", "robi", "robicie"}}

	api.On("VerbQuestion", mock.Anything).Return(q1, nil).Once()
	api.On("VerbQuestion", mock.Anything).Return(q2, nil).Once()
	api.On("ValidateConjugation", mock.Anything, models.ConjugationValidationRequest{
		VerbID: 1, Pronoun: models.PronounJa, Answer: "robię",
	}).Return(&models.ConjugationValidationResponse{
		WasCorrect:    true,
		CorrectAnswer: "robię",
		Stats:         models.VerbStats{TodayPercentage: 100, AvailableVerbs: 1},
	}, nil)

	c.Enter(context.Background(), trainer.ModeConjugate)
	require.Equal(t, q1.Pronoun, c.Snapshot().Question.Pronoun)

	c.AnswerConjugation(context.Background(), "robię")

	snap := c.Snapshot()
	require.NotNil(t, snap.Question)
	assert.Equal(t, q2.Pronoun, snap.Question.Pronoun)
	require.NotNil(t, snap.ConjugationFeedback)
	assert.True(t, snap.ConjugationFeedback.Correct)
	assert.Equal(t, 100.0, snap.VerbStats.TodayPercentage)
	api.AssertExpectations(t)
}

func TestConjugationSkipSendsEmptyAnswer(t *testing.T) {
	c, api := newController(t, time.Minute)

	q := &models.ConjugationQuestion{VerbID: 2, Infinitive: "mieć", Pronoun: models.PronounMy}
	api.On("VerbQuestion", mock.Anything).Return(q, nil)
	api.On("ValidateConjugation", mock.Anything, models.ConjugationValidationRequest{
		VerbID: 2, Pronoun: models.PronounMy, Answer: "",
	}).Return(&models.ConjugationValidationResponse{
		WasCorrect:    false,
		CorrectAnswer: "mamy",
	}, nil)

	c.Enter(context.Background(), trainer.ModeConjugate)
	c.SkipConjugation(context.Background())

	fb := c.Snapshot().ConjugationFeedback
	require.NotNil(t, fb)
	assert.True(t, fb.Skipped)
	assert.False(t, fb.Correct)
	assert.Equal(t, "mamy", fb.CorrectAnswer)
}

func TestAddVocabularyRefreshesPool(t *testing.T) {
	c, api := newController(t, time.Minute)

	api.On("CheckWordsBulk", mock.Anything, "kot, pies").Return(&models.WordCheckBulkResponse{
		AddedCount: 2,
	}, nil)
	api.On("GetSession", mock.Anything).Return(&models.SessionState{
		LanguageSet: models.LanguageSetEnglish,
		Words:       testPool,
	}, nil)

	c.AddVocabulary(context.Background(), "kot, pies")

	snap := c.Snapshot()
	assert.Len(t, snap.Pool, len(testPool))
	require.NotNil(t, snap.Status)
	assert.Equal(t, trainer.SeverityInfo, snap.Status.Severity)
	assert.Equal(t, "Added 2, skipped 0 duplicates, 0 failed", snap.Status.Message)
	api.AssertExpectations(t)
}

func TestAddVocabularyRejectsEmptyEntry(t *testing.T) {
	c, api := newController(t, time.Minute)

	c.AddVocabulary(context.Background(), "  ")

	status := c.Snapshot().Status
	require.NotNil(t, status)
	assert.Equal(t, "Enter a word first", status.Message)
	api.AssertNotCalled(t, "CheckWordsBulk", mock.Anything, mock.Anything)
}

func TestSetLanguageReloadsPool(t *testing.T) {
	c, api := newController(t, time.Minute)

	api.On("UpdateLanguage", mock.Anything, models.LanguageSetUkrainian).Return(&models.SessionState{
		LanguageSet: models.LanguageSetUkrainian,
		Words:       testPool[:2],
	}, nil)

	c.SetLanguage(context.Background(), models.LanguageSetUkrainian)

	snap := c.Snapshot()
	assert.Equal(t, models.LanguageSetUkrainian, snap.LanguageSet)
	assert.Len(t, snap.Pool, 2)
	api.AssertExpectations(t)
}

func TestBootstrapLoadsSessionAndStats(t *testing.T) {
	c, api := newController(t, time.Minute)

	api.On("GetSession", mock.Anything).Return(&models.SessionState{
		LanguageSet: models.LanguageSetUkrainian,
		Words:       testPool,
	}, nil)
	api.On("Stats", mock.Anything).Return(&models.Stats{OverallPercentage: 66.7, AvailableWords: 3}, nil)

	require.NoError(t, c.Bootstrap(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, models.LanguageSetUkrainian, snap.LanguageSet)
	assert.Len(t, snap.Pool, 3)
	assert.Equal(t, 66.7, snap.Stats.OverallPercentage)
}

func TestEmptyPoolSubmitHasNoCurrent(t *testing.T) {
	c, api := newController(t, time.Minute)
	c.Enter(context.Background(), trainer.ModeTranslate)

	snap := c.Snapshot()
	assert.Nil(t, snap.Current)

	c.SubmitAnswer(context.Background(), "anything")
	api.AssertNotCalled(t, "ValidatePractice", mock.Anything, mock.Anything)
}

func TestOnChangeFiresOnAsyncExpiry(t *testing.T) {
	c, api := newController(t, 30*time.Millisecond)
	api.On("ValidatePractice", mock.Anything, mock.Anything).Return(validation(true, "cat"), nil)

	changed := make(chan struct{}, 16)
	c.SetOnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	c.SetPool(testPool)
	c.Enter(context.Background(), trainer.ModeTranslate)
	c.SubmitAnswer(context.Background(), "cat")

	// Drain synchronous notifications, then wait for the timer's one.
	deadline := time.After(time.Second)
	for c.Snapshot().WordFeedback != nil {
		select {
		case <-changed:
		case <-deadline:
			t.Fatal("feedback never expired")
		}
	}
}
