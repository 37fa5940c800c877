package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"polingo/internal/logger"
	"polingo/internal/models"
	"polingo/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) GetOrCreate(ctx context.Context) (*models.UserSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	var s models.UserSession
	err := r.db.QueryRowContext(ctx, `
SELECT id, language_set, updated_at
FROM user_sessions
ORDER BY id
LIMIT 1
`).Scan(&s.ID, &s.LanguageSet, &s.UpdatedAt)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to load session: %v", err)
		return nil, err
	}

	log.Info("no session found, creating one")
	res, err := r.db.ExecContext(ctx, `INSERT INTO user_sessions (language_set) VALUES (?)`, string(models.LanguageSetEnglish))
	if err != nil {
		log.Error("failed to create session: %v", err)
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	err = r.db.QueryRowContext(ctx, `SELECT id, language_set, updated_at FROM user_sessions WHERE id = ?`, id).
		Scan(&s.ID, &s.LanguageSet, &s.UpdatedAt)
	if err != nil {
		log.Error("failed to reload session: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) UpdateLanguage(ctx context.Context, sessionID int64, ls models.LanguageSet) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("updating session language: session_id=%d, language_set=%s", sessionID, ls)

	_, err := r.db.ExecContext(ctx, `
UPDATE user_sessions
SET language_set = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, string(ls), sessionID)
	if err != nil {
		log.Error("failed to update session language: %v", err)
	}
	return err
}

func (r *sessionRepository) AddWord(ctx context.Context, sessionID, wordID int64) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("adding word to session: session_id=%d, word_id=%d", sessionID, wordID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_session_words (session_id, word_id)
VALUES (?, ?)
ON CONFLICT(session_id, word_id) DO NOTHING
`, sessionID, wordID)
	if err != nil {
		log.Error("failed to add session word: %v", err)
	}
	return err
}

func (r *sessionRepository) AddWords(ctx context.Context, sessionID int64, wordIDs []int64) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("adding %d words to session: session_id=%d", len(wordIDs), sessionID)

	if len(wordIDs) == 0 {
		return nil
	}
	return tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO user_session_words (session_id, word_id)
VALUES (?, ?)
ON CONFLICT(session_id, word_id) DO NOTHING
`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, wordID := range wordIDs {
			if _, err := stmt.ExecContext(ctx, sessionID, wordID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Words joins the session pool against aggregated practice records. Words
// with the highest error rate come first, untouched words last.
func (r *sessionRepository) Words(ctx context.Context, sessionID int64) ([]models.WordWithStats, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("loading session words: session_id=%d", sessionID)

	rows, err := r.db.QueryContext(ctx, `
SELECT
    w.id, w.polish, w.english, w.ukrainian, w.enabled,
    COALESCE(pr.total_attempts, 0) AS total_attempts,
    COALESCE(pr.correct_attempts, 0) AS correct_attempts
FROM user_session_words sw
JOIN words w ON w.id = sw.word_id
LEFT JOIN (
    SELECT word_id,
           COUNT(*) AS total_attempts,
           SUM(CASE WHEN was_correct THEN 1 ELSE 0 END) AS correct_attempts
    FROM practice_records
    GROUP BY word_id
) pr ON pr.word_id = w.id
WHERE sw.session_id = ?
ORDER BY
    CASE WHEN COALESCE(pr.total_attempts, 0) = 0 THEN -1
         ELSE (COALESCE(pr.total_attempts, 0) - COALESCE(pr.correct_attempts, 0)) * 1.0 / COALESCE(pr.total_attempts, 1)
    END DESC,
    COALESCE(pr.total_attempts, 0) DESC,
    sw.added_at
`, sessionID)
	if err != nil {
		log.Error("failed to load session words: %v", err)
		return nil, err
	}
	defer rows.Close()

	var words []models.WordWithStats
	for rows.Next() {
		var w models.WordWithStats
		if err := rows.Scan(&w.ID, &w.Polish, &w.English, &w.Ukrainian, &w.Enabled, &w.TotalAttempts, &w.CorrectAttempts); err != nil {
			log.Error("failed to scan session word: %v", err)
			return nil, err
		}
		if w.TotalAttempts > 0 {
			rate := float64(w.TotalAttempts-w.CorrectAttempts) / float64(w.TotalAttempts) * 100
			w.ErrorRate = math.Round(rate*10) / 10
		}
		words = append(words, w)
	}
	log.Debug("session has %d words", len(words))
	return words, rows.Err()
}

func (r *sessionRepository) AddVerb(ctx context.Context, sessionID, verbID int64) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("adding verb to session: session_id=%d, verb_id=%d", sessionID, verbID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_session_verbs (session_id, verb_id)
VALUES (?, ?)
ON CONFLICT(session_id, verb_id) DO NOTHING
`, sessionID, verbID)
	if err != nil {
		log.Error("failed to add session verb: %v", err)
	}
	return err
}

func (r *sessionRepository) VerbIDs(ctx context.Context, sessionID int64) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT verb_id
FROM user_session_verbs
WHERE session_id = ?
ORDER BY added_at
`, sessionID)
	if err != nil {
		log.Error("failed to load session verbs: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan session verb: %v", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
