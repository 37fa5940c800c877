package client

import (
	"context"

	"polingo/internal/models"
)

// API is the backend surface the practice controller depends on. Declared
// as an interface so the controller can be tested against a mock backend.
type API interface {
	GetSession(ctx context.Context) (*models.SessionState, error)
	UpdateLanguage(ctx context.Context, ls models.LanguageSet) (*models.SessionState, error)
	InitialWords(ctx context.Context, count int) ([]models.Word, error)
	AddSessionWord(ctx context.Context, wordID int64) (*models.SessionState, error)
	AddSessionWords(ctx context.Context, wordIDs []int64) (*models.SessionState, error)
	CheckWord(ctx context.Context, text string) (*models.WordCheckResponse, error)
	CheckWordsBulk(ctx context.Context, text string) (*models.WordCheckBulkResponse, error)

	ValidatePractice(ctx context.Context, req models.PracticeValidationRequest) (*models.PracticeValidationResponse, error)
	SkipPractice(ctx context.Context, req models.PracticeValidationRequest) (*models.PracticeValidationResponse, error)
	ValidatePronunciation(ctx context.Context, wordID int64, audio []byte, filename string) (*models.PronunciationValidationResponse, error)
	Stats(ctx context.Context) (*models.Stats, error)

	VerbSession(ctx context.Context) (*models.VerbSessionState, error)
	AddVerb(ctx context.Context, req models.VerbAddRequest) (*models.VerbAddResponse, error)
	AddSessionVerb(ctx context.Context, verbID int64) error
	VerbQuestion(ctx context.Context) (*models.ConjugationQuestion, error)
	ValidateConjugation(ctx context.Context, req models.ConjugationValidationRequest) (*models.ConjugationValidationResponse, error)
	VerbStats(ctx context.Context) (*models.VerbStats, error)
}

var _ API = (*Client)(nil)
