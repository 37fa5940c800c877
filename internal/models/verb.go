package models

import "time"

// Pronoun is a Polish personal pronoun group used for conjugation practice.
type Pronoun string

const (
	PronounJa       Pronoun = "ja"
	PronounTy       Pronoun = "ty"
	PronounOnOnaOno Pronoun = "on_ona_ono"
	PronounMy       Pronoun = "my"
	PronounWy       Pronoun = "wy"
	PronounOniOne   Pronoun = "oni_one"
)

// Pronouns lists all pronoun groups in conventional order.
var Pronouns = []Pronoun{
	PronounJa, PronounTy, PronounOnOnaOno,
	PronounMy, PronounWy, PronounOniOne,
}

// Valid reports whether p is a known pronoun group.
func (p Pronoun) Valid() bool {
	for _, known := range Pronouns {
		if p == known {
			return true
		}
	}
	return false
}

type Verb struct {
	ID         int64     `json:"id"`
	Infinitive string    `json:"infinitive"`
	English    string    `json:"english"`
	Ukrainian  string    `json:"ukrainian"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
}

type VerbConjugation struct {
	ID             int64   `json:"id"`
	VerbID         int64   `json:"verb_id"`
	Pronoun        Pronoun `json:"pronoun"`
	ConjugatedForm string  `json:"conjugated_form"`
}

// ConjugationPair is the wire form of a pronoun/conjugation mapping.
type ConjugationPair struct {
	Pronoun        Pronoun `json:"pronoun"`
	ConjugatedForm string  `json:"conjugated_form"`
}

// VerbWithConjugations is a verb with its conjugation set and practice stats.
type VerbWithConjugations struct {
	ID              int64             `json:"id"`
	Infinitive      string            `json:"infinitive"`
	English         string            `json:"english"`
	Ukrainian       string            `json:"ukrainian"`
	Conjugations    []ConjugationPair `json:"conjugations"`
	TotalAttempts   int               `json:"total_attempts"`
	CorrectAttempts int               `json:"correct_attempts"`
	ErrorRate       float64           `json:"error_rate"`
	Enabled         bool              `json:"enabled"`
}

type VerbPracticeRecord struct {
	ID           int64     `json:"id"`
	VerbID       int64     `json:"verb_id"`
	Pronoun      Pronoun   `json:"pronoun"`
	WasCorrect   bool      `json:"was_correct"`
	PracticeDate string    `json:"practice_date"` // YYYY-MM-DD
	CreatedAt    time.Time `json:"created_at"`
}

// ConjugationQuestion is one multiple-choice verb-ending prompt.
type ConjugationQuestion struct {
	VerbID        int64    `json:"verb_id"`
	Infinitive    string   `json:"infinitive"`
	English       string   `json:"english"`
	Ukrainian     string   `json:"ukrainian"`
	Pronoun       Pronoun  `json:"pronoun"`
	CorrectAnswer string   `json:"correct_answer"`
	Options       []string `json:"options"`
}
