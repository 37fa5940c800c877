package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"polingo/internal/api"
	"polingo/internal/db"
	"polingo/internal/llm"
	"polingo/internal/models"
	"polingo/internal/repository"
	"polingo/internal/repository/sqlite"
	"polingo/internal/services"
	"polingo/internal/testutil"
	"polingo/internal/testutil/mocks"
)

type APISuite struct {
	suite.Suite
	db       *db.DB
	words    repository.WordRepository
	verbs    repository.VerbRepository
	provider *mocks.MockProvider
	handler  http.Handler
}

func (s *APISuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.provider = new(mocks.MockProvider)

	s.words = sqlite.NewWordRepository(s.db.DB)
	s.verbs = sqlite.NewVerbRepository(s.db.DB)
	sessions := sqlite.NewSessionRepository(s.db.DB)
	practice := sqlite.NewPracticeRepository(s.db.DB)
	devices := sqlite.NewDeviceRepository(s.db.DB)

	server := &api.Server{
		DB:              s.db,
		SessionService:  services.NewSessionService(sessions, s.words),
		WordService:     services.NewWordService(s.words, sessions, s.provider),
		PracticeService: services.NewPracticeService(s.words, practice, s.provider),
		VerbService:     services.NewVerbService(s.verbs, sessions, s.provider),
		DeviceService:   services.NewDeviceService(devices),
		CORSOrigins:     []string{"http://localhost:5173"},
	}
	s.handler = server.Routes()
}

func (s *APISuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
	s.provider.AssertExpectations(s.T())
}

func (s *APISuite) request(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, dst any) {
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(dst))
}

func (s *APISuite) insertWord(polish, english, ukrainian string) int64 {
	id, err := s.words.Insert(context.Background(), models.Word{
		Polish: polish, English: english, Ukrainian: ukrainian,
	})
	s.Require().NoError(err)
	return id
}

func (s *APISuite) TestHealthAndReadiness() {
	rec := s.request(http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("OK", rec.Body.String())

	rec = s.request(http.MethodGet, "/readyz", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Ready", rec.Body.String())
}

func (s *APISuite) TestGetSession() {
	rec := s.request(http.MethodGet, "/api/session", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/json", rec.Header().Get("Content-Type"))

	var state models.SessionState
	s.decode(rec, &state)
	s.Equal(models.LanguageSetEnglish, state.LanguageSet)
	s.Empty(state.Words)
}

func (s *APISuite) TestUpdateLanguage() {
	rec := s.request(http.MethodPut, "/api/session/language",
		models.SessionLanguageUpdate{LanguageSet: models.LanguageSetUkrainian})
	s.Equal(http.StatusOK, rec.Code)

	var state models.SessionState
	s.decode(rec, &state)
	s.Equal(models.LanguageSetUkrainian, state.LanguageSet)
}

func (s *APISuite) TestUpdateLanguageRejectsUnknownSet() {
	rec := s.request(http.MethodPut, "/api/session/language",
		models.SessionLanguageUpdate{LanguageSet: "german"})
	s.Equal(http.StatusBadRequest, rec.Code)

	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	s.decode(rec, &payload)
	s.Equal("VALIDATION_ERROR", payload.Error.Code)
	s.NotEmpty(payload.Error.Message)
}

func (s *APISuite) TestAddSessionWord() {
	id := s.insertWord("kot", "cat", "кіт")

	rec := s.request(http.MethodPost, "/api/session/words", models.SessionWordAdd{WordID: id})
	s.Equal(http.StatusOK, rec.Code)

	var state models.SessionState
	s.decode(rec, &state)
	s.Require().Len(state.Words, 1)
	s.Equal(id, state.Words[0].ID)
}

func (s *APISuite) TestAddSessionWordNotFound() {
	rec := s.request(http.MethodPost, "/api/session/words", models.SessionWordAdd{WordID: 404})
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestInitialWordsRespectsCountAndEnabled() {
	ctx := context.Background()
	for _, polish := range []string{"kot", "pies", "dom", "ryba"} {
		s.insertWord(polish, polish+"-en", polish+"-uk")
	}
	disabled := s.insertWord("zły", "bad", "поганий")
	s.Require().NoError(s.words.SetEnabled(ctx, disabled, false))

	rec := s.request(http.MethodGet, "/api/words/initial?count=3", nil)
	s.Equal(http.StatusOK, rec.Code)

	var words []models.Word
	s.decode(rec, &words)
	s.Len(words, 3)
	for _, w := range words {
		s.NotEqual(disabled, w.ID)
	}
}

func (s *APISuite) TestCheckWord() {
	id := s.insertWord("kot", "cat", "кіт")

	rec := s.request(http.MethodPost, "/api/words/check", models.WordCheckRequest{Text: "cat"})
	s.Equal(http.StatusOK, rec.Code)

	var resp models.WordCheckResponse
	s.decode(rec, &resp)
	s.True(resp.Found)
	s.Equal(id, resp.Word.ID)
	s.Equal("english", resp.MatchedField)
}

func (s *APISuite) TestCheckWordRejectsMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/words/check", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestValidatePractice() {
	id := s.insertWord("kot", "cat", "кіт")

	rec := s.request(http.MethodPost, "/api/practice/validate", models.PracticeValidationRequest{
		WordID:      id,
		LanguageSet: models.LanguageSetEnglish,
		Direction:   models.DirectionTranslation,
		Answer:      "cat",
	})
	s.Equal(http.StatusOK, rec.Code)

	var resp models.PracticeValidationResponse
	s.decode(rec, &resp)
	s.True(resp.WasCorrect)
	s.Equal("cat", resp.CorrectAnswer)
	s.Equal(100.0, resp.Stats.TodayPercentage)
}

func (s *APISuite) TestSkipPracticeIgnoresAnswer() {
	id := s.insertWord("kot", "cat", "кіт")

	rec := s.request(http.MethodPost, "/api/practice/skip", models.PracticeValidationRequest{
		WordID:      id,
		LanguageSet: models.LanguageSetEnglish,
		Direction:   models.DirectionTranslation,
		Answer:      "cat",
	})
	s.Equal(http.StatusOK, rec.Code)

	var resp models.PracticeValidationResponse
	s.decode(rec, &resp)
	s.False(resp.WasCorrect)
	s.Equal("cat", resp.CorrectAnswer)
}

func (s *APISuite) TestValidatePronunciation() {
	id := s.insertWord("kot", "cat", "кіт")

	s.provider.On("Transcribe", mock.Anything, []byte("fake audio"), "attempt.webm").Return("kot", nil)
	s.provider.On("EvaluatePronunciation", mock.Anything, "kot", "kot").
		Return(&llm.PronunciationJudgement{IsCorrect: true, SimilarityScore: 0.9}, nil)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("audio", "attempt.webm")
	s.Require().NoError(err)
	_, err = part.Write([]byte("fake audio"))
	s.Require().NoError(err)
	s.Require().NoError(w.WriteField("word_id", strconv.FormatInt(id, 10)))
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/practice/pronunciation", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)

	var resp models.PronunciationValidationResponse
	s.decode(rec, &resp)
	s.True(resp.WasCorrect)
	s.Equal("kot", resp.TranscribedText)
}

func (s *APISuite) TestVerbFlow() {
	s.provider.On("GenerateVerb", mock.Anything, "robić", "").Return(&llm.VerbGeneration{
		Infinitive: "robić",
		English:    "to do",
		Ukrainian:  "робити",
		Conjugations: map[string]string{
			"ja": "robię", "ty": "robisz", "on_ona_ono": "robi",
			"my": "robimy", "wy": "robicie", "oni_one": "robią",
		},
	}, nil)

	rec := s.request(http.MethodPost, "/api/verbs/add", models.VerbAddRequest{Text: "robić"})
	s.Equal(http.StatusOK, rec.Code)

	var added models.VerbAddResponse
	s.decode(rec, &added)
	s.True(added.Success)
	s.Require().NotNil(added.Verb)

	rec = s.request(http.MethodGet, "/api/verbs/question", nil)
	s.Equal(http.StatusOK, rec.Code)

	var q models.ConjugationQuestion
	s.decode(rec, &q)
	s.Equal(added.Verb.ID, q.VerbID)
	s.Len(q.Options, 4)

	rec = s.request(http.MethodPost, "/api/verbs/validate", models.ConjugationValidationRequest{
		VerbID:  q.VerbID,
		Pronoun: q.Pronoun,
		Answer:  q.CorrectAnswer,
	})
	s.Equal(http.StatusOK, rec.Code)

	var validated models.ConjugationValidationResponse
	s.decode(rec, &validated)
	s.True(validated.WasCorrect)

	rec = s.request(http.MethodGet, "/api/verbs/stats", nil)
	s.Equal(http.StatusOK, rec.Code)

	var stats models.VerbStats
	s.decode(rec, &stats)
	s.Equal(100.0, stats.TodayPercentage)
	s.Equal(1, stats.AvailableVerbs)
}

func (s *APISuite) TestVerbQuestionEmptyPool() {
	rec := s.request(http.MethodGet, "/api/verbs/question", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestAdminToggleWord() {
	ctx := context.Background()
	id := s.insertWord("kot", "cat", "кіт")

	rec := s.request(http.MethodPost, "/api/admin/words/toggle",
		models.WordToggleRequest{WordID: id, Enabled: false})
	s.Equal(http.StatusNoContent, rec.Code)

	w, err := s.words.Get(ctx, id)
	s.Require().NoError(err)
	s.False(w.Enabled)
}

func (s *APISuite) TestAdminDevices() {
	ctx := context.Background()
	devices := sqlite.NewDeviceRepository(s.db.DB)
	s.Require().NoError(devices.Upsert(ctx, "10.0.0.1", "curl/8.0"))

	rec := s.request(http.MethodGet, "/api/admin/devices", nil)
	s.Equal(http.StatusOK, rec.Code)

	var resp models.DevicesResponse
	s.decode(rec, &resp)
	s.Equal(1, resp.TotalCount)

	rec = s.request(http.MethodDelete, "/api/admin/devices", nil)
	s.Equal(http.StatusOK, rec.Code)

	var deleted map[string]int
	s.decode(rec, &deleted)
	s.Equal(1, deleted["deleted"])
}

func (s *APISuite) TestStats() {
	rec := s.request(http.MethodGet, "/api/stats", nil)
	s.Equal(http.StatusOK, rec.Code)

	var stats models.Stats
	s.decode(rec, &stats)
	s.Zero(stats.TodayPercentage)
	s.Zero(stats.AvailableWords)
}

func (s *APISuite) TestRequestIDHeader() {
	rec := s.request(http.MethodGet, "/healthz", nil)
	s.NotEmpty(rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "test-id-1")
	echo := httptest.NewRecorder()
	s.handler.ServeHTTP(echo, req)
	s.Equal("test-id-1", echo.Header().Get("X-Request-ID"))
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}
