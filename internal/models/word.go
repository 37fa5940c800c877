package models

import "time"

// LanguageSet is the secondary language paired with Polish for a session.
type LanguageSet string

const (
	LanguageSetEnglish   LanguageSet = "english"
	LanguageSetUkrainian LanguageSet = "ukrainian"
)

// Valid reports whether the language set is one of the supported values.
func (ls LanguageSet) Valid() bool {
	return ls == LanguageSetEnglish || ls == LanguageSetUkrainian
}

// Direction tells which way a practice prompt maps.
type Direction string

const (
	// DirectionTranslation prompts with Polish, expects the target language.
	DirectionTranslation Direction = "translation"
	// DirectionWriting prompts with the target language, expects Polish.
	DirectionWriting Direction = "writing"
	// DirectionPronunciation is recorded for spoken attempts and for
	// skips issued from pronunciation practice.
	DirectionPronunciation Direction = "pronunciation"
)

// WordLanguage identifies which field of a word a value belongs to.
type WordLanguage string

const (
	WordLanguagePolish    WordLanguage = "polish"
	WordLanguageEnglish   WordLanguage = "english"
	WordLanguageUkrainian WordLanguage = "ukrainian"
)

type Word struct {
	ID        int64     `json:"id"`
	Polish    string    `json:"polish"`
	English   string    `json:"english"`
	Ukrainian string    `json:"ukrainian"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// Translation returns the word's form in the given language set.
func (w Word) Translation(ls LanguageSet) string {
	if ls == LanguageSetUkrainian {
		return w.Ukrainian
	}
	return w.English
}

// WordWithStats is a word enriched with cumulative practice statistics.
type WordWithStats struct {
	ID             int64   `json:"id"`
	Polish         string  `json:"polish"`
	English        string  `json:"english"`
	Ukrainian      string  `json:"ukrainian"`
	TotalAttempts  int     `json:"total_attempts"`
	CorrectAttempts int    `json:"correct_attempts"`
	ErrorRate      float64 `json:"error_rate"`
	Enabled        bool    `json:"enabled"`
}

// Translation returns the word's form in the given language set.
func (w WordWithStats) Translation(ls LanguageSet) string {
	if ls == LanguageSetUkrainian {
		return w.Ukrainian
	}
	return w.English
}

// WordFilter narrows word listing queries.
type WordFilter struct {
	Search      string
	EnabledOnly bool
	Limit       int
	Offset      int
}

// UserSession is the single implicit session row holding the learner's
// language preference.
type UserSession struct {
	ID          int64       `json:"id"`
	LanguageSet LanguageSet `json:"language_set"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// WordOption is an accepted alternative spelling for one field of a word.
type WordOption struct {
	ID     int64        `json:"id"`
	WordID int64        `json:"word_id"`
	Language WordLanguage `json:"language"`
	Value  string       `json:"value"`
}

type PracticeRecord struct {
	ID           int64       `json:"id"`
	WordID       int64       `json:"word_id"`
	LanguageSet  LanguageSet `json:"language_set"`
	Direction    Direction   `json:"direction"`
	WasCorrect   bool        `json:"was_correct"`
	PracticeDate string      `json:"practice_date"` // YYYY-MM-DD
	CreatedAt    time.Time   `json:"created_at"`
}

// PronunciationAttempt stores the outcome of one spoken attempt.
type PronunciationAttempt struct {
	ID              string    `json:"id"`
	WordID          int64     `json:"word_id"`
	TranscribedText string    `json:"transcribed_text"`
	SimilarityScore float64   `json:"similarity_score"`
	WasCorrect      bool      `json:"was_correct"`
	CreatedAt       time.Time `json:"created_at"`
}
