package trainer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"polingo/internal/trainer"
)

func TestDiffAnswer(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		correct string
		want    []trainer.DiffChar
	}{
		{
			name:    "single wrong character",
			answer:  "kot",
			correct: "kod",
			want: []trainer.DiffChar{
				{Char: 'k', State: trainer.DiffCorrect},
				{Char: 'o', State: trainer.DiffCorrect},
				{Char: 't', State: trainer.DiffIncorrect},
			},
		},
		{
			name:    "short answer emits missing marker",
			answer:  "ko",
			correct: "kot",
			want: []trainer.DiffChar{
				{Char: 'k', State: trainer.DiffCorrect},
				{Char: 'o', State: trainer.DiffCorrect},
				{Char: 't', State: trainer.DiffMissing},
			},
		},
		{
			name:    "case insensitive match",
			answer:  "Kot",
			correct: "kot",
			want: []trainer.DiffChar{
				{Char: 'K', State: trainer.DiffCorrect},
				{Char: 'o', State: trainer.DiffCorrect},
				{Char: 't', State: trainer.DiffCorrect},
			},
		},
		{
			name:    "long answer marks extra characters incorrect",
			answer:  "koty",
			correct: "kot",
			want: []trainer.DiffChar{
				{Char: 'k', State: trainer.DiffCorrect},
				{Char: 'o', State: trainer.DiffCorrect},
				{Char: 't', State: trainer.DiffCorrect},
				{Char: 'y', State: trainer.DiffIncorrect},
			},
		},
		{
			name:    "polish diacritics compare by rune",
			answer:  "zolw",
			correct: "żółw",
			want: []trainer.DiffChar{
				{Char: 'z', State: trainer.DiffIncorrect},
				{Char: 'o', State: trainer.DiffIncorrect},
				{Char: 'l', State: trainer.DiffIncorrect},
				{Char: 'w', State: trainer.DiffCorrect},
			},
		},
		{
			name:    "empty answer is all missing",
			answer:  "",
			correct: "to",
			want: []trainer.DiffChar{
				{Char: 't', State: trainer.DiffMissing},
				{Char: 'o', State: trainer.DiffMissing},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trainer.DiffAnswer(tt.answer, tt.correct))
		})
	}
}
