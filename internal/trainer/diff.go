package trainer

import "unicode"

// DiffState classifies one position of a character diff.
type DiffState int

const (
	DiffCorrect DiffState = iota
	DiffIncorrect
	DiffMissing
)

// DiffChar is one annotated position of a learner-answer diff. For missing
// positions Char carries the expected character the learner left out.
type DiffChar struct {
	Char  rune
	State DiffState
}

// DiffAnswer compares the learner's text against the correct text position
// by position, case-insensitively. It is a positional diff: an inserted or
// dropped character marks everything after it, there is no realignment.
func DiffAnswer(answer, correct string) []DiffChar {
	a := []rune(answer)
	c := []rune(correct)

	n := len(a)
	if len(c) > n {
		n = len(c)
	}

	out := make([]DiffChar, 0, n)
	for i := 0; i < n; i++ {
		switch {
		case i >= len(a):
			out = append(out, DiffChar{Char: c[i], State: DiffMissing})
		case i >= len(c):
			out = append(out, DiffChar{Char: a[i], State: DiffIncorrect})
		case unicode.ToLower(a[i]) == unicode.ToLower(c[i]):
			out = append(out, DiffChar{Char: a[i], State: DiffCorrect})
		default:
			out = append(out, DiffChar{Char: a[i], State: DiffIncorrect})
		}
	}
	return out
}
