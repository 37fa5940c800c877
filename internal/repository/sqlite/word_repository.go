package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"polingo/internal/logger"
	"polingo/internal/models"
	"polingo/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type wordRepository struct {
	db *sql.DB
}

// NewWordRepository creates a new WordRepository implementation
func NewWordRepository(db *sql.DB) repository.WordRepository {
	return &wordRepository{db: db}
}

func (r *wordRepository) Get(ctx context.Context, id int64) (*models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("getting word: id=%d", id)

	var w models.Word
	err := r.db.QueryRowContext(ctx, `
SELECT id, polish, english, ukrainian, enabled, created_at
FROM words
WHERE id = ?
`, id).Scan(&w.ID, &w.Polish, &w.English, &w.Ukrainian, &w.Enabled, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("word not found: id=%d", id)
			return nil, nil
		}
		log.Error("failed to get word: %v", err)
		return nil, err
	}
	return &w, nil
}

func (r *wordRepository) List(ctx context.Context, filter models.WordFilter) ([]models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("listing words: search=%q, enabled_only=%t, limit=%d, offset=%d",
		filter.Search, filter.EnabledOnly, filter.Limit, filter.Offset)

	query := sqlBuilder.Select("id", "polish", "english", "ukrainian", "enabled", "created_at").
		From("words")

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"polish": like},
			squirrel.Like{"english": like},
			squirrel.Like{"ukrainian": like},
		})
	}
	if filter.EnabledOnly {
		query = query.Where(squirrel.Eq{"enabled": true})
	}

	query = query.OrderBy("id ASC")
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query = query.Limit(uint64(limit))
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list words: %v", err)
		return nil, err
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var w models.Word
		if err := rows.Scan(&w.ID, &w.Polish, &w.English, &w.Ukrainian, &w.Enabled, &w.CreatedAt); err != nil {
			log.Error("failed to scan word row: %v", err)
			return nil, err
		}
		words = append(words, w)
	}
	log.Debug("found %d words", len(words))
	return words, rows.Err()
}

func (r *wordRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&count)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("word_repo").Error("failed to count words: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *wordRepository) Insert(ctx context.Context, w models.Word) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("inserting word: polish=%q", w.Polish)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO words (polish, english, ukrainian, enabled)
VALUES (?, ?, ?, ?)
`, w.Polish, w.English, w.Ukrainian, true)
	if err != nil {
		log.Error("failed to insert word: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get word id: %v", err)
		return 0, err
	}
	log.Debug("word inserted: id=%d", id)
	return id, nil
}

func (r *wordRepository) FindByAnyField(ctx context.Context, normalized string) (*models.Word, string, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("resolving word by value: %q", normalized)

	for _, field := range []string{"polish", "english", "ukrainian"} {
		var w models.Word
		err := r.db.QueryRowContext(ctx, `
SELECT id, polish, english, ukrainian, enabled, created_at
FROM words
WHERE LOWER(`+field+`) = ?
`, normalized).Scan(&w.ID, &w.Polish, &w.English, &w.Ukrainian, &w.Enabled, &w.CreatedAt)
		if err == nil {
			log.Debug("matched word id=%d on field=%s", w.ID, field)
			return &w, field, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("failed to resolve word: %v", err)
			return nil, "", err
		}
	}

	// Fall back to accepted alternative spellings.
	var w models.Word
	var language string
	err := r.db.QueryRowContext(ctx, `
SELECT w.id, w.polish, w.english, w.ukrainian, w.enabled, w.created_at, o.language
FROM word_options o
JOIN words w ON w.id = o.word_id
WHERE LOWER(o.value) = ?
`, normalized).Scan(&w.ID, &w.Polish, &w.English, &w.Ukrainian, &w.Enabled, &w.CreatedAt, &language)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		log.Error("failed to resolve word option: %v", err)
		return nil, "", err
	}
	log.Debug("matched word id=%d via option language=%s", w.ID, language)
	return &w, language, nil
}

func (r *wordRepository) Options(ctx context.Context, wordID int64, language models.WordLanguage) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT value
FROM word_options
WHERE word_id = ? AND language = ?
ORDER BY value
`, wordID, string(language))
	if err != nil {
		log.Error("failed to query word options: %v", err)
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			log.Error("failed to scan word option: %v", err)
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *wordRepository) AddOption(ctx context.Context, wordID int64, language models.WordLanguage, value string) error {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("adding word option: word_id=%d, language=%s, value=%q", wordID, language, value)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO word_options (word_id, language, value)
VALUES (?, ?, ?)
ON CONFLICT(word_id, language, value) DO NOTHING
`, wordID, string(language), value)
	if err != nil {
		log.Error("failed to add word option: %v", err)
	}
	return err
}

func (r *wordRepository) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("setting word enabled: id=%d, enabled=%t", id, enabled)

	_, err := r.db.ExecContext(ctx, `UPDATE words SET enabled = ? WHERE id = ?`, enabled, id)
	if err != nil {
		log.Error("failed to update word enabled flag: %v", err)
	}
	return err
}
