package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"polingo/internal/logger"
	"polingo/internal/models"
	"polingo/internal/repository"
)

type verbRepository struct {
	db *sql.DB
}

// NewVerbRepository creates a new VerbRepository implementation
func NewVerbRepository(db *sql.DB) repository.VerbRepository {
	return &verbRepository{db: db}
}

func (r *verbRepository) Get(ctx context.Context, id int64) (*models.Verb, error) {
	log := logger.FromContext(ctx).WithPrefix("verb_repo")

	var v models.Verb
	err := r.db.QueryRowContext(ctx, `
SELECT id, infinitive, english, ukrainian, enabled, created_at
FROM verbs
WHERE id = ?
`, id).Scan(&v.ID, &v.Infinitive, &v.English, &v.Ukrainian, &v.Enabled, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("verb not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get verb: %v", err)
		return nil, err
	}
	return &v, nil
}

func (r *verbRepository) GetByInfinitive(ctx context.Context, infinitive string) (*models.Verb, error) {
	log := logger.FromContext(ctx).WithPrefix("verb_repo")

	var v models.Verb
	err := r.db.QueryRowContext(ctx, `
SELECT id, infinitive, english, ukrainian, enabled, created_at
FROM verbs
WHERE infinitive = ?
`, infinitive).Scan(&v.ID, &v.Infinitive, &v.English, &v.Ukrainian, &v.Enabled, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get verb by infinitive: %v", err)
		return nil, err
	}
	return &v, nil
}

func (r *verbRepository) Insert(ctx context.Context, v models.Verb, conjugations []models.ConjugationPair) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("verb_repo")
	log.Debug("inserting verb: infinitive=%q with %d conjugations", v.Infinitive, len(conjugations))

	var id int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO verbs (infinitive, english, ukrainian, enabled)
VALUES (?, ?, ?, ?)
`, v.Infinitive, v.English, v.Ukrainian, true)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO verb_conjugations (verb_id, pronoun, conjugated_form)
VALUES (?, ?, ?)
ON CONFLICT(verb_id, pronoun) DO UPDATE SET conjugated_form = excluded.conjugated_form
`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, c := range conjugations {
			if _, err := stmt.ExecContext(ctx, id, string(c.Pronoun), c.ConjugatedForm); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert verb: %v", err)
		return 0, err
	}
	log.Debug("verb inserted: id=%d", id)
	return id, nil
}

func (r *verbRepository) Conjugations(ctx context.Context, verbID int64) ([]models.VerbConjugation, error) {
	log := logger.FromContext(ctx).WithPrefix("verb_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, verb_id, pronoun, conjugated_form
FROM verb_conjugations
WHERE verb_id = ?
ORDER BY id
`, verbID)
	if err != nil {
		log.Error("failed to query conjugations: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.VerbConjugation
	for rows.Next() {
		var c models.VerbConjugation
		if err := rows.Scan(&c.ID, &c.VerbID, &c.Pronoun, &c.ConjugatedForm); err != nil {
			log.Error("failed to scan conjugation: %v", err)
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *verbRepository) Conjugation(ctx context.Context, verbID int64, pronoun models.Pronoun) (*models.VerbConjugation, error) {
	log := logger.FromContext(ctx).WithPrefix("verb_repo")

	var c models.VerbConjugation
	err := r.db.QueryRowContext(ctx, `
SELECT id, verb_id, pronoun, conjugated_form
FROM verb_conjugations
WHERE verb_id = ? AND pronoun = ?
`, verbID, string(pronoun)).Scan(&c.ID, &c.VerbID, &c.Pronoun, &c.ConjugatedForm)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get conjugation: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *verbRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM verbs`).Scan(&count)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("verb_repo").Error("failed to count verbs: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *verbRepository) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	log := logger.FromContext(ctx).WithPrefix("verb_repo")
	log.Debug("setting verb enabled: id=%d, enabled=%t", id, enabled)

	_, err := r.db.ExecContext(ctx, `UPDATE verbs SET enabled = ? WHERE id = ?`, enabled, id)
	if err != nil {
		log.Error("failed to update verb enabled flag: %v", err)
	}
	return err
}

func (r *verbRepository) InsertPracticeRecord(ctx context.Context, rec models.VerbPracticeRecord) error {
	log := logger.FromContext(ctx).WithPrefix("verb_repo")
	log.Debug("recording verb practice: verb_id=%d, pronoun=%s, correct=%t", rec.VerbID, rec.Pronoun, rec.WasCorrect)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO verb_practice_records (verb_id, pronoun, was_correct, practice_date)
VALUES (?, ?, ?, COALESCE(NULLIF(?, ''), date('now')))
`, rec.VerbID, string(rec.Pronoun), rec.WasCorrect, rec.PracticeDate)
	if err != nil {
		log.Error("failed to insert verb practice record: %v", err)
	}
	return err
}

func (r *verbRepository) DayCounts(ctx context.Context, date string) (int, int, error) {
	correct, total, err := counts(ctx, r.db, `
SELECT COALESCE(SUM(CASE WHEN was_correct THEN 1 ELSE 0 END), 0), COUNT(*)
FROM verb_practice_records
WHERE practice_date = ?
`, date)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("verb_repo").Error("failed to aggregate verb day counts: %v", err)
	}
	return correct, total, err
}

func (r *verbRepository) OverallCounts(ctx context.Context) (int, int, error) {
	correct, total, err := counts(ctx, r.db, `
SELECT COALESCE(SUM(CASE WHEN was_correct THEN 1 ELSE 0 END), 0), COUNT(*)
FROM verb_practice_records
`)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("verb_repo").Error("failed to aggregate verb overall counts: %v", err)
	}
	return correct, total, err
}

func (r *verbRepository) VerbCounts(ctx context.Context, verbID int64) (int, int, error) {
	correct, total, err := counts(ctx, r.db, `
SELECT COALESCE(SUM(CASE WHEN was_correct THEN 1 ELSE 0 END), 0), COUNT(*)
FROM verb_practice_records
WHERE verb_id = ?
`, verbID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("verb_repo").Error("failed to aggregate verb counts: %v", err)
	}
	return correct, total, err
}
