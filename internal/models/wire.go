package models

import "time"

// Request and response payloads shared by the API server and the client.

type SessionState struct {
	LanguageSet LanguageSet     `json:"language_set"`
	Words       []WordWithStats `json:"words"`
}

type SessionLanguageUpdate struct {
	LanguageSet LanguageSet `json:"language_set"`
}

type SessionWordAdd struct {
	WordID int64 `json:"word_id"`
}

type SessionWordBulkAdd struct {
	WordIDs []int64 `json:"word_ids"`
}

type WordCheckRequest struct {
	Text string `json:"text"`
}

type WordCheckResponse struct {
	Found        bool   `json:"found"`
	Word         *Word  `json:"word"`
	MatchedField string `json:"matched_field,omitempty"`
	Created      bool   `json:"created"`
	Source       string `json:"source,omitempty"`
}

// WordCheckBulkRequest carries comma-separated words or phrases.
type WordCheckBulkRequest struct {
	Text string `json:"text"`
}

type WordCheckResult struct {
	Text         string `json:"text"`
	Found        bool   `json:"found"`
	Word         *Word  `json:"word,omitempty"`
	MatchedField string `json:"matched_field,omitempty"`
	Created      bool   `json:"created"`
	Duplicate    bool   `json:"duplicate"`
}

type WordCheckBulkResponse struct {
	Results        []WordCheckResult `json:"results"`
	AddedCount     int               `json:"added_count"`
	DuplicateCount int               `json:"duplicate_count"`
	FailedCount    int               `json:"failed_count"`
}

type PracticeValidationRequest struct {
	WordID      int64       `json:"word_id"`
	LanguageSet LanguageSet `json:"language_set"`
	Direction   Direction   `json:"direction"`
	Answer      string      `json:"answer"`
}

type PracticeValidationResponse struct {
	WasCorrect    bool     `json:"was_correct"`
	CorrectAnswer string   `json:"correct_answer"`
	MatchedVia    string   `json:"matched_via,omitempty"`
	Alternatives  []string `json:"alternatives"`
	Stats         Stats    `json:"stats"`
}

type PronunciationValidationResponse struct {
	WasCorrect      bool    `json:"was_correct"`
	ExpectedWord    string  `json:"expected_word"`
	TranscribedText string  `json:"transcribed_text"`
	Feedback        string  `json:"feedback"`
	SimilarityScore float64 `json:"similarity_score"`
	Stats           Stats   `json:"stats"`
}

// Stats is the externally computed accuracy snapshot for word practice.
type Stats struct {
	TodayPercentage   float64 `json:"today_percentage"`
	Trend             float64 `json:"trend"`
	OverallPercentage float64 `json:"overall_percentage"`
	AvailableWords    int     `json:"available_words"`
}

// VerbStats is the accuracy snapshot for conjugation practice.
type VerbStats struct {
	TodayPercentage   float64 `json:"today_percentage"`
	Trend             float64 `json:"trend"`
	OverallPercentage float64 `json:"overall_percentage"`
	AvailableVerbs    int     `json:"available_verbs"`
}

type VerbAddRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
}

type VerbAddResponse struct {
	Success   bool                  `json:"success"`
	Verb      *VerbWithConjugations `json:"verb,omitempty"`
	Message   string                `json:"message"`
	Duplicate bool                  `json:"duplicate"`
}

type VerbSessionState struct {
	Verbs []VerbWithConjugations `json:"verbs"`
}

type ConjugationValidationRequest struct {
	VerbID  int64   `json:"verb_id"`
	Pronoun Pronoun `json:"pronoun"`
	Answer  string  `json:"answer"`
}

type ConjugationValidationResponse struct {
	WasCorrect    bool      `json:"was_correct"`
	CorrectAnswer string    `json:"correct_answer"`
	Stats         VerbStats `json:"stats"`
}

type WordToggleRequest struct {
	WordID  int64 `json:"word_id"`
	Enabled bool  `json:"enabled"`
}

type VerbToggleRequest struct {
	VerbID  int64 `json:"verb_id"`
	Enabled bool  `json:"enabled"`
}

// Device is one tracked client of the API.
type Device struct {
	ID           int64     `json:"id"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	FirstSeen    time.Time `json:"first_seen"`
	LastActivity time.Time `json:"last_activity"`
	RequestCount int       `json:"request_count"`
	IsActive     bool      `json:"is_active"`
}

type DevicesResponse struct {
	Devices     []Device `json:"devices"`
	TotalCount  int      `json:"total_count"`
	ActiveCount int      `json:"active_count"`
}
