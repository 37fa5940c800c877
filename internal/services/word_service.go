package services

import (
	"context"
	"strings"

	"polingo/internal/errors"
	"polingo/internal/llm"
	"polingo/internal/logger"
	"polingo/internal/models"
	"polingo/internal/repository"
)

// WordService handles vocabulary lookup and creation
type WordService interface {
	// Check resolves a free-form entry against the stored vocabulary,
	// falling back to the language model to create a missing word.
	Check(ctx context.Context, text string) (*models.WordCheckResponse, error)
	// CheckBulk resolves a comma-separated list of entries and adds the
	// resulting words to the session pool.
	CheckBulk(ctx context.Context, text string) (*models.WordCheckBulkResponse, error)
	List(ctx context.Context, filter models.WordFilter) ([]models.Word, error)
	SetEnabled(ctx context.Context, wordID int64, enabled bool) error
}

type wordService struct {
	words    repository.WordRepository
	sessions repository.SessionRepository
	llm      llm.Provider
}

// NewWordService creates a new WordService. The language model provider may
// be nil, in which case unknown words are reported as not found instead of
// being created.
func NewWordService(words repository.WordRepository, sessions repository.SessionRepository, provider llm.Provider) WordService {
	return &wordService{words: words, sessions: sessions, llm: provider}
}

// normalize lowercases and trims an entry for matching.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *wordService) Check(ctx context.Context, text string) (*models.WordCheckResponse, error) {
	log := logger.FromContext(ctx)

	normalized := normalize(text)
	if normalized == "" {
		return nil, errors.NewValidationError("text", "must not be empty")
	}

	word, field, err := s.words.FindByAnyField(ctx, normalized)
	if err != nil {
		log.Error("failed to look up word: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if word != nil {
		log.Debug("word found: id=%d, matched_field=%s", word.ID, field)
		return &models.WordCheckResponse{
			Found:        true,
			Word:         word,
			MatchedField: field,
			Source:       "database",
		}, nil
	}

	if s.llm == nil {
		log.Debug("word not found and no language model configured: %q", normalized)
		return &models.WordCheckResponse{Found: false}, nil
	}

	resolution, err := s.llm.ResolveWord(ctx, normalized)
	if err != nil {
		log.Error("failed to resolve word: %v", err)
		return nil, err
	}

	// The model may have corrected a typo into a word we already store.
	corrected := normalize(resolution.Polish)
	if existing, field, err := s.words.FindByAnyField(ctx, corrected); err != nil {
		log.Error("failed to re-check resolved word: %v", err)
		return nil, errors.NewInternalError(err)
	} else if existing != nil {
		return &models.WordCheckResponse{
			Found:        true,
			Word:         existing,
			MatchedField: field,
			Source:       "llm",
		}, nil
	}

	created := models.Word{
		Polish:    strings.TrimSpace(resolution.Polish),
		English:   strings.TrimSpace(resolution.English),
		Ukrainian: strings.TrimSpace(resolution.Ukrainian),
		Enabled:   true,
	}
	id, err := s.words.Insert(ctx, created)
	if err != nil {
		log.Error("failed to insert resolved word: %v", err)
		return nil, errors.NewInternalError(err)
	}
	created.ID = id

	log.Info("created word from language model: id=%d, polish=%q", id, created.Polish)
	return &models.WordCheckResponse{
		Found:   true,
		Word:    &created,
		Created: true,
		Source:  "llm",
	}, nil
}

func (s *wordService) CheckBulk(ctx context.Context, text string) (*models.WordCheckBulkResponse, error) {
	log := logger.FromContext(ctx)

	parts := strings.Split(text, ",")
	entries := make([]string, 0, len(parts))
	seen := make(map[string]bool)
	for _, p := range parts {
		n := normalize(p)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		entries = append(entries, n)
	}
	if len(entries) == 0 {
		return nil, errors.NewValidationError("text", "must contain at least one word")
	}

	session, err := s.sessions.GetOrCreate(ctx)
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	poolWords, err := s.sessions.Words(ctx, session.ID)
	if err != nil {
		log.Error("failed to load session words: %v", err)
		return nil, errors.NewInternalError(err)
	}
	inPool := make(map[int64]bool, len(poolWords))
	for _, w := range poolWords {
		inPool[w.ID] = true
	}

	resp := &models.WordCheckBulkResponse{Results: make([]models.WordCheckResult, 0, len(entries))}
	for _, entry := range entries {
		check, err := s.Check(ctx, entry)
		if err != nil {
			log.Warn("bulk check failed for %q: %v", entry, err)
			resp.Results = append(resp.Results, models.WordCheckResult{Text: entry})
			resp.FailedCount++
			continue
		}
		result := models.WordCheckResult{
			Text:         entry,
			Found:        check.Found,
			Word:         check.Word,
			MatchedField: check.MatchedField,
			Created:      check.Created,
		}
		if check.Word == nil {
			resp.Results = append(resp.Results, result)
			resp.FailedCount++
			continue
		}
		if inPool[check.Word.ID] {
			result.Duplicate = true
			resp.DuplicateCount++
		} else {
			if err := s.sessions.AddWord(ctx, session.ID, check.Word.ID); err != nil {
				log.Error("failed to add word %d to session: %v", check.Word.ID, err)
				resp.Results = append(resp.Results, result)
				resp.FailedCount++
				continue
			}
			inPool[check.Word.ID] = true
			resp.AddedCount++
		}
		resp.Results = append(resp.Results, result)
	}

	log.Debug("bulk check done: added=%d, duplicates=%d, failed=%d",
		resp.AddedCount, resp.DuplicateCount, resp.FailedCount)
	return resp, nil
}

func (s *wordService) List(ctx context.Context, filter models.WordFilter) ([]models.Word, error) {
	log := logger.FromContext(ctx)

	words, err := s.words.List(ctx, filter)
	if err != nil {
		log.Error("failed to list words: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return words, nil
}

func (s *wordService) SetEnabled(ctx context.Context, wordID int64, enabled bool) error {
	log := logger.FromContext(ctx)
	log.Debug("toggling word: word_id=%d, enabled=%t", wordID, enabled)

	word, err := s.words.Get(ctx, wordID)
	if err != nil {
		log.Error("failed to get word: %v", err)
		return errors.NewInternalError(err)
	}
	if word == nil {
		return errors.NewNotFoundError("word", wordID)
	}

	if err := s.words.SetEnabled(ctx, wordID, enabled); err != nil {
		log.Error("failed to toggle word: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
