package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"polingo/internal/models"
)

// MockAPI is a mock implementation of client.API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) GetSession(ctx context.Context) (*models.SessionState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionState), args.Error(1)
}

func (m *MockAPI) UpdateLanguage(ctx context.Context, ls models.LanguageSet) (*models.SessionState, error) {
	args := m.Called(ctx, ls)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionState), args.Error(1)
}

func (m *MockAPI) InitialWords(ctx context.Context, count int) ([]models.Word, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Word), args.Error(1)
}

func (m *MockAPI) AddSessionWord(ctx context.Context, wordID int64) (*models.SessionState, error) {
	args := m.Called(ctx, wordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionState), args.Error(1)
}

func (m *MockAPI) AddSessionWords(ctx context.Context, wordIDs []int64) (*models.SessionState, error) {
	args := m.Called(ctx, wordIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionState), args.Error(1)
}

func (m *MockAPI) CheckWord(ctx context.Context, text string) (*models.WordCheckResponse, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WordCheckResponse), args.Error(1)
}

func (m *MockAPI) CheckWordsBulk(ctx context.Context, text string) (*models.WordCheckBulkResponse, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WordCheckBulkResponse), args.Error(1)
}

func (m *MockAPI) ValidatePractice(ctx context.Context, req models.PracticeValidationRequest) (*models.PracticeValidationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PracticeValidationResponse), args.Error(1)
}

func (m *MockAPI) SkipPractice(ctx context.Context, req models.PracticeValidationRequest) (*models.PracticeValidationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PracticeValidationResponse), args.Error(1)
}

func (m *MockAPI) ValidatePronunciation(ctx context.Context, wordID int64, audio []byte, filename string) (*models.PronunciationValidationResponse, error) {
	args := m.Called(ctx, wordID, audio, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PronunciationValidationResponse), args.Error(1)
}

func (m *MockAPI) Stats(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}

func (m *MockAPI) VerbSession(ctx context.Context) (*models.VerbSessionState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerbSessionState), args.Error(1)
}

func (m *MockAPI) AddVerb(ctx context.Context, req models.VerbAddRequest) (*models.VerbAddResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerbAddResponse), args.Error(1)
}

func (m *MockAPI) AddSessionVerb(ctx context.Context, verbID int64) error {
	args := m.Called(ctx, verbID)
	return args.Error(0)
}

func (m *MockAPI) VerbQuestion(ctx context.Context) (*models.ConjugationQuestion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConjugationQuestion), args.Error(1)
}

func (m *MockAPI) ValidateConjugation(ctx context.Context, req models.ConjugationValidationRequest) (*models.ConjugationValidationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConjugationValidationResponse), args.Error(1)
}

func (m *MockAPI) VerbStats(ctx context.Context) (*models.VerbStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerbStats), args.Error(1)
}
