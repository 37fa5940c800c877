package db

import (
	"context"
)

type starterWord struct {
	polish    string
	english   string
	ukrainian string
}

// starterWords is a small beginner vocabulary loaded into an empty database
// so the first session has something to practice.
var starterWords = []starterWord{
	{"dom", "house", "дім"},
	{"woda", "water", "вода"},
	{"chleb", "bread", "хліб"},
	{"kot", "cat", "кіт"},
	{"pies", "dog", "пес"},
	{"mleko", "milk", "молоко"},
	{"okno", "window", "вікно"},
	{"stół", "table", "стіл"},
	{"krzesło", "chair", "стілець"},
	{"książka", "book", "книга"},
	{"miasto", "city", "місто"},
	{"ulica", "street", "вулиця"},
	{"praca", "work", "робота"},
	{"szkoła", "school", "школа"},
	{"dziecko", "child", "дитина"},
	{"matka", "mother", "мати"},
	{"ojciec", "father", "батько"},
	{"dzień", "day", "день"},
	{"noc", "night", "ніч"},
	{"czas", "time", "час"},
}

// SeedStarterWords inserts the starter vocabulary if the words table is empty.
func (db *DB) SeedStarterWords(ctx context.Context) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		db.log.Debug("words table already populated, skipping seed")
		return nil
	}

	db.log.Info("seeding %d starter words", len(starterWords))
	stmt, err := db.PrepareContext(ctx, `INSERT INTO words (polish, english, ukrainian) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, w := range starterWords {
		if _, err := stmt.ExecContext(ctx, w.polish, w.english, w.ukrainian); err != nil {
			return err
		}
	}
	return nil
}
