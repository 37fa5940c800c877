package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"polingo/internal/errors"
	"polingo/internal/llm"
	"polingo/internal/logger"
	"polingo/internal/models"
	"polingo/internal/repository"
)

// Answer match sources reported to the client.
const (
	MatchExact  = "exact"
	MatchOption = "option"
	MatchLLM    = "llm"
)

// PracticeService validates practice answers and tracks accuracy
type PracticeService interface {
	// Validate grades a typed answer. An empty answer counts as a skip and
	// is recorded as incorrect without consulting the language model.
	Validate(ctx context.Context, req models.PracticeValidationRequest) (*models.PracticeValidationResponse, error)
	// ValidatePronunciation transcribes recorded audio and grades it
	// against the word's Polish form.
	ValidatePronunciation(ctx context.Context, wordID int64, audio []byte, filename string) (*models.PronunciationValidationResponse, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

type practiceService struct {
	words    repository.WordRepository
	practice repository.PracticeRepository
	llm      llm.Provider
	now      func() time.Time
}

// NewPracticeService creates a new PracticeService. The language model
// provider may be nil; validation then relies on exact and stored-option
// matching only.
func NewPracticeService(words repository.WordRepository, practice repository.PracticeRepository, provider llm.Provider) PracticeService {
	return &practiceService{words: words, practice: practice, llm: provider, now: time.Now}
}

// answerLanguage maps a practice direction to the language the answer is
// expected in.
func answerLanguage(direction models.Direction, ls models.LanguageSet) models.WordLanguage {
	if direction != models.DirectionTranslation {
		return models.WordLanguagePolish
	}
	if ls == models.LanguageSetUkrainian {
		return models.WordLanguageUkrainian
	}
	return models.WordLanguageEnglish
}

func (s *practiceService) Validate(ctx context.Context, req models.PracticeValidationRequest) (*models.PracticeValidationResponse, error) {
	log := logger.FromContext(ctx)
	log.Debug("validating answer: word_id=%d, direction=%s", req.WordID, req.Direction)

	switch req.Direction {
	case models.DirectionTranslation, models.DirectionWriting, models.DirectionPronunciation:
	default:
		return nil, errors.NewValidationError("direction", "unknown practice direction")
	}
	if !req.LanguageSet.Valid() {
		return nil, errors.NewValidationError("language_set", "must be english or ukrainian")
	}

	word, err := s.words.Get(ctx, req.WordID)
	if err != nil {
		log.Error("failed to get word: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if word == nil {
		return nil, errors.NewNotFoundError("word", req.WordID)
	}

	expected := word.Polish
	if req.Direction == models.DirectionTranslation {
		expected = word.Translation(req.LanguageSet)
	}
	lang := answerLanguage(req.Direction, req.LanguageSet)

	options, err := s.words.Options(ctx, req.WordID, lang)
	if err != nil {
		log.Error("failed to load word options: %v", err)
		return nil, errors.NewInternalError(err)
	}

	answer := normalize(req.Answer)
	wasCorrect, matchedVia := s.grade(ctx, word, expected, answer, options, req)

	rec := models.PracticeRecord{
		WordID:       word.ID,
		LanguageSet:  req.LanguageSet,
		Direction:    req.Direction,
		WasCorrect:   wasCorrect,
		PracticeDate: s.now().Format(dateLayout),
	}
	if err := s.practice.InsertRecord(ctx, rec); err != nil {
		log.Error("failed to record practice attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &models.PracticeValidationResponse{
		WasCorrect:    wasCorrect,
		CorrectAnswer: expected,
		MatchedVia:    matchedVia,
		Alternatives:  options,
		Stats:         *stats,
	}, nil
}

// grade decides correctness: exact match first, then stored alternatives,
// then the language model. An empty answer is always incorrect.
func (s *practiceService) grade(ctx context.Context, word *models.Word, expected, answer string, options []string, req models.PracticeValidationRequest) (bool, string) {
	log := logger.FromContext(ctx)

	if answer == "" {
		return false, ""
	}
	if answer == normalize(expected) {
		return true, MatchExact
	}
	for _, opt := range options {
		if answer == normalize(opt) {
			return true, MatchOption
		}
	}
	if s.llm == nil {
		return false, ""
	}

	judgement, err := s.llm.ValidateTranslation(ctx, llm.TranslationQuery{
		Polish:         word.Polish,
		Expected:       expected,
		Answer:         req.Answer,
		Direction:      req.Direction,
		TargetLanguage: answerLanguage(req.Direction, req.LanguageSet),
	})
	if err != nil {
		log.Warn("language model validation failed, treating as incorrect: %v", err)
		return false, ""
	}
	if !judgement.IsCorrect {
		return false, ""
	}

	// Remember the accepted answer so the next attempt matches without a
	// model round-trip.
	lang := answerLanguage(req.Direction, req.LanguageSet)
	if err := s.words.AddOption(ctx, word.ID, lang, answer); err != nil {
		log.Warn("failed to store accepted alternative: %v", err)
	}
	return true, MatchLLM
}

func (s *practiceService) ValidatePronunciation(ctx context.Context, wordID int64, audio []byte, filename string) (*models.PronunciationValidationResponse, error) {
	log := logger.FromContext(ctx)
	log.Debug("validating pronunciation: word_id=%d, audio_bytes=%d", wordID, len(audio))

	if s.llm == nil {
		return nil, errors.NewBadRequestError("pronunciation practice requires a configured language model")
	}
	if len(audio) == 0 {
		return nil, errors.NewValidationError("audio", "must not be empty")
	}

	word, err := s.words.Get(ctx, wordID)
	if err != nil {
		log.Error("failed to get word: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if word == nil {
		return nil, errors.NewNotFoundError("word", wordID)
	}

	transcribed, err := s.llm.Transcribe(ctx, audio, filename)
	if err != nil {
		log.Error("transcription failed: %v", err)
		return nil, err
	}

	judgement, err := s.llm.EvaluatePronunciation(ctx, word.Polish, transcribed)
	if err != nil {
		log.Error("pronunciation evaluation failed: %v", err)
		return nil, err
	}

	attempt := models.PronunciationAttempt{
		ID:              uuid.NewString(),
		WordID:          word.ID,
		TranscribedText: transcribed,
		SimilarityScore: judgement.SimilarityScore,
		WasCorrect:      judgement.IsCorrect,
	}
	if err := s.practice.InsertPronunciationAttempt(ctx, attempt); err != nil {
		log.Error("failed to store pronunciation attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}

	rec := models.PracticeRecord{
		WordID:       word.ID,
		LanguageSet:  models.LanguageSetEnglish,
		Direction:    models.DirectionPronunciation,
		WasCorrect:   judgement.IsCorrect,
		PracticeDate: s.now().Format(dateLayout),
	}
	if err := s.practice.InsertRecord(ctx, rec); err != nil {
		log.Error("failed to record pronunciation practice: %v", err)
		return nil, errors.NewInternalError(err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &models.PronunciationValidationResponse{
		WasCorrect:      judgement.IsCorrect,
		ExpectedWord:    word.Polish,
		TranscribedText: transcribed,
		Feedback:        judgement.Feedback,
		SimilarityScore: judgement.SimilarityScore,
		Stats:           *stats,
	}, nil
}

func (s *practiceService) Stats(ctx context.Context) (*models.Stats, error) {
	log := logger.FromContext(ctx)

	today, yesterday := practiceDates(s.now())

	todayCorrect, todayTotal, err := s.practice.DayCounts(ctx, today)
	if err != nil {
		log.Error("failed to get today's counts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	yCorrect, yTotal, err := s.practice.DayCounts(ctx, yesterday)
	if err != nil {
		log.Error("failed to get yesterday's counts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	overallCorrect, overallTotal, err := s.practice.OverallCounts(ctx)
	if err != nil {
		log.Error("failed to get overall counts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	available, err := s.words.Count(ctx)
	if err != nil {
		log.Error("failed to count words: %v", err)
		return nil, errors.NewInternalError(err)
	}

	todayPct := percentage(todayCorrect, todayTotal)
	return &models.Stats{
		TodayPercentage:   todayPct,
		Trend:             round1(todayPct - percentage(yCorrect, yTotal)),
		OverallPercentage: percentage(overallCorrect, overallTotal),
		AvailableWords:    available,
	}, nil
}
