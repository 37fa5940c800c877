package services

import (
	"context"

	"polingo/internal/errors"
	"polingo/internal/logger"
	"polingo/internal/models"
	"polingo/internal/repository"
)

// SessionService handles the implicit learner session and its word pool
type SessionService interface {
	GetState(ctx context.Context) (*models.SessionState, error)
	UpdateLanguage(ctx context.Context, ls models.LanguageSet) (*models.SessionState, error)
	AddWord(ctx context.Context, wordID int64) (*models.SessionState, error)
	AddWords(ctx context.Context, wordIDs []int64) (*models.SessionState, error)
}

type sessionService struct {
	sessions repository.SessionRepository
	words    repository.WordRepository
}

// NewSessionService creates a new SessionService
func NewSessionService(sessions repository.SessionRepository, words repository.WordRepository) SessionService {
	return &sessionService{sessions: sessions, words: words}
}

func (s *sessionService) GetState(ctx context.Context) (*models.SessionState, error) {
	log := logger.FromContext(ctx)

	session, err := s.sessions.GetOrCreate(ctx)
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	words, err := s.sessions.Words(ctx, session.ID)
	if err != nil {
		log.Error("failed to load session words: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &models.SessionState{
		LanguageSet: session.LanguageSet,
		Words:       words,
	}, nil
}

func (s *sessionService) UpdateLanguage(ctx context.Context, ls models.LanguageSet) (*models.SessionState, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating session language: %s", ls)

	if !ls.Valid() {
		return nil, errors.NewValidationError("language_set", "must be english or ukrainian")
	}

	session, err := s.sessions.GetOrCreate(ctx)
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if err := s.sessions.UpdateLanguage(ctx, session.ID, ls); err != nil {
		log.Error("failed to update session language: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return s.GetState(ctx)
}

func (s *sessionService) AddWord(ctx context.Context, wordID int64) (*models.SessionState, error) {
	log := logger.FromContext(ctx)
	log.Debug("adding word to session: word_id=%d", wordID)

	word, err := s.words.Get(ctx, wordID)
	if err != nil {
		log.Error("failed to get word: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if word == nil {
		return nil, errors.NewNotFoundError("word", wordID)
	}

	session, err := s.sessions.GetOrCreate(ctx)
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if err := s.sessions.AddWord(ctx, session.ID, wordID); err != nil {
		log.Error("failed to add word to session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return s.GetState(ctx)
}

func (s *sessionService) AddWords(ctx context.Context, wordIDs []int64) (*models.SessionState, error) {
	log := logger.FromContext(ctx)
	log.Debug("adding words to session: count=%d", len(wordIDs))

	if len(wordIDs) == 0 {
		return nil, errors.NewValidationError("word_ids", "must not be empty")
	}

	session, err := s.sessions.GetOrCreate(ctx)
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if err := s.sessions.AddWords(ctx, session.ID, wordIDs); err != nil {
		log.Error("failed to add words to session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return s.GetState(ctx)
}
