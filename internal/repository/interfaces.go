package repository

import (
	"context"
	"time"

	"polingo/internal/models"
)

// WordRepository handles vocabulary data access.
type WordRepository interface {
	Get(ctx context.Context, id int64) (*models.Word, error)
	List(ctx context.Context, filter models.WordFilter) ([]models.Word, error)
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, w models.Word) (int64, error)
	// FindByAnyField looks a normalized value up against the polish, english
	// and ukrainian columns plus the word options, returning the matched
	// field name alongside the word.
	FindByAnyField(ctx context.Context, normalized string) (*models.Word, string, error)
	Options(ctx context.Context, wordID int64, language models.WordLanguage) ([]string, error)
	AddOption(ctx context.Context, wordID int64, language models.WordLanguage, value string) error
	SetEnabled(ctx context.Context, id int64, enabled bool) error
}

// SessionRepository handles the implicit user session and its pools.
type SessionRepository interface {
	GetOrCreate(ctx context.Context) (*models.UserSession, error)
	UpdateLanguage(ctx context.Context, sessionID int64, ls models.LanguageSet) error
	AddWord(ctx context.Context, sessionID, wordID int64) error
	AddWords(ctx context.Context, sessionID int64, wordIDs []int64) error
	// Words returns the session pool with per-word statistics, ordered by
	// error rate descending, then attempts descending, then insertion time.
	Words(ctx context.Context, sessionID int64) ([]models.WordWithStats, error)
	AddVerb(ctx context.Context, sessionID, verbID int64) error
	VerbIDs(ctx context.Context, sessionID int64) ([]int64, error)
}

// PracticeRepository records word practice outcomes and aggregates them.
type PracticeRepository interface {
	InsertRecord(ctx context.Context, rec models.PracticeRecord) error
	DayCounts(ctx context.Context, date string) (correct, total int, err error)
	OverallCounts(ctx context.Context) (correct, total int, err error)
	InsertPronunciationAttempt(ctx context.Context, attempt models.PronunciationAttempt) error
}

// VerbRepository handles verbs, conjugations and conjugation practice.
type VerbRepository interface {
	Get(ctx context.Context, id int64) (*models.Verb, error)
	GetByInfinitive(ctx context.Context, infinitive string) (*models.Verb, error)
	Insert(ctx context.Context, v models.Verb, conjugations []models.ConjugationPair) (int64, error)
	Conjugations(ctx context.Context, verbID int64) ([]models.VerbConjugation, error)
	Conjugation(ctx context.Context, verbID int64, pronoun models.Pronoun) (*models.VerbConjugation, error)
	Count(ctx context.Context) (int, error)
	SetEnabled(ctx context.Context, id int64, enabled bool) error
	InsertPracticeRecord(ctx context.Context, rec models.VerbPracticeRecord) error
	DayCounts(ctx context.Context, date string) (correct, total int, err error)
	OverallCounts(ctx context.Context) (correct, total int, err error)
	VerbCounts(ctx context.Context, verbID int64) (correct, total int, err error)
}

// DeviceRepository tracks API clients for the admin view.
type DeviceRepository interface {
	Upsert(ctx context.Context, ip, userAgent string) error
	List(ctx context.Context) ([]models.Device, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int, error)
	PruneInactive(ctx context.Context, before time.Time) (int, error)
}
