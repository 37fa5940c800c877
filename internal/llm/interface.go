package llm

import (
	"context"

	"polingo/internal/models"
)

// WordResolution is the model's reading of a free-form vocabulary entry.
type WordResolution struct {
	DetectedLanguage string `json:"detected_language"`
	CorrectedInput   string `json:"corrected_input"`
	Polish           string `json:"polish"`
	English          string `json:"english"`
	Ukrainian        string `json:"ukrainian"`
}

// TranslationJudgement is the model's verdict on a learner answer.
type TranslationJudgement struct {
	IsCorrect        bool   `json:"is_correct"`
	NormalizedAnswer string `json:"normalized_answer"`
	Rationale        string `json:"rationale"`
}

// PronunciationJudgement scores a transcription against the expected word.
type PronunciationJudgement struct {
	IsCorrect       bool    `json:"is_correct"`
	Feedback        string  `json:"feedback"`
	SimilarityScore float64 `json:"similarity_score"`
}

// VerbGeneration is a generated Polish verb with present-tense conjugations.
type VerbGeneration struct {
	Infinitive   string            `json:"infinitive"`
	English      string            `json:"english"`
	Ukrainian    string            `json:"ukrainian"`
	Conjugations map[string]string `json:"conjugations"`
}

// TranslationQuery describes one answer to be judged by the model.
type TranslationQuery struct {
	Polish         string
	Expected       string
	Answer         string
	Direction      models.Direction
	TargetLanguage models.WordLanguage
}

// Provider is the language-model surface the services depend on.
// It enables testability by allowing mock implementations.
type Provider interface {
	ResolveWord(ctx context.Context, text string) (*WordResolution, error)
	ValidateTranslation(ctx context.Context, q TranslationQuery) (*TranslationJudgement, error)
	GenerateVerb(ctx context.Context, text, sourceLanguage string) (*VerbGeneration, error)
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
	EvaluatePronunciation(ctx context.Context, expected, transcribed string) (*PronunciationJudgement, error)
}

// Ensure Client implements the interface
var _ Provider = (*Client)(nil)
