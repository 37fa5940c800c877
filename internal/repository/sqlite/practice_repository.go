package sqlite

import (
	"context"
	"database/sql"

	"polingo/internal/logger"
	"polingo/internal/models"
	"polingo/internal/repository"
)

type practiceRepository struct {
	db *sql.DB
}

// NewPracticeRepository creates a new PracticeRepository implementation
func NewPracticeRepository(db *sql.DB) repository.PracticeRepository {
	return &practiceRepository{db: db}
}

func (r *practiceRepository) InsertRecord(ctx context.Context, rec models.PracticeRecord) error {
	log := logger.FromContext(ctx).WithPrefix("practice_repo")
	log.Debug("recording practice: word_id=%d, direction=%s, correct=%t", rec.WordID, rec.Direction, rec.WasCorrect)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO practice_records (word_id, language_set, direction, was_correct, practice_date)
VALUES (?, ?, ?, ?, COALESCE(NULLIF(?, ''), date('now')))
`, rec.WordID, string(rec.LanguageSet), string(rec.Direction), rec.WasCorrect, rec.PracticeDate)
	if err != nil {
		log.Error("failed to insert practice record: %v", err)
	}
	return err
}

func (r *practiceRepository) DayCounts(ctx context.Context, date string) (int, int, error) {
	correct, total, err := counts(ctx, r.db, `
SELECT COALESCE(SUM(CASE WHEN was_correct THEN 1 ELSE 0 END), 0), COUNT(*)
FROM practice_records
WHERE practice_date = ?
`, date)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("practice_repo").Error("failed to aggregate day counts: %v", err)
	}
	return correct, total, err
}

func (r *practiceRepository) OverallCounts(ctx context.Context) (int, int, error) {
	correct, total, err := counts(ctx, r.db, `
SELECT COALESCE(SUM(CASE WHEN was_correct THEN 1 ELSE 0 END), 0), COUNT(*)
FROM practice_records
`)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("practice_repo").Error("failed to aggregate overall counts: %v", err)
	}
	return correct, total, err
}

func (r *practiceRepository) InsertPronunciationAttempt(ctx context.Context, attempt models.PronunciationAttempt) error {
	log := logger.FromContext(ctx).WithPrefix("practice_repo")
	log.Debug("recording pronunciation attempt: id=%s, word_id=%d, score=%.2f", attempt.ID, attempt.WordID, attempt.SimilarityScore)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO pronunciation_attempts (id, word_id, transcribed_text, similarity_score, was_correct)
VALUES (?, ?, ?, ?, ?)
`, attempt.ID, attempt.WordID, attempt.TranscribedText, attempt.SimilarityScore, attempt.WasCorrect)
	if err != nil {
		log.Error("failed to insert pronunciation attempt: %v", err)
	}
	return err
}
