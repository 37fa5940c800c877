package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"polingo/internal/llm"
)

// MockProvider is a mock implementation of llm.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) ResolveWord(ctx context.Context, text string) (*llm.WordResolution, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.WordResolution), args.Error(1)
}

func (m *MockProvider) ValidateTranslation(ctx context.Context, q llm.TranslationQuery) (*llm.TranslationJudgement, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.TranslationJudgement), args.Error(1)
}

func (m *MockProvider) GenerateVerb(ctx context.Context, text, sourceLanguage string) (*llm.VerbGeneration, error) {
	args := m.Called(ctx, text, sourceLanguage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.VerbGeneration), args.Error(1)
}

func (m *MockProvider) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	args := m.Called(ctx, audio, filename)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) EvaluatePronunciation(ctx context.Context, expected, transcribed string) (*llm.PronunciationJudgement, error) {
	args := m.Called(ctx, expected, transcribed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.PronunciationJudgement), args.Error(1)
}
