package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"polingo/internal/logger"
	"polingo/internal/models"
)

// Client is the typed HTTP client for the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a backend client. baseURL should include the /api prefix,
// e.g. http://localhost:8000/api.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Default().WithPrefix("client"),
	}
}

// do issues a JSON request and decodes the response into out (out may be
// nil for endpoints without a body).
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	log := logger.FromContext(ctx).WithPrefix("client").WithField("path", path)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("request failed: status=%d, body=%s", resp.StatusCode, string(data))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("failed to decode response: %v", err)
		return err
	}
	return nil
}

func (c *Client) GetSession(ctx context.Context) (*models.SessionState, error) {
	var out models.SessionState
	if err := c.do(ctx, http.MethodGet, "/session", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateLanguage(ctx context.Context, ls models.LanguageSet) (*models.SessionState, error) {
	var out models.SessionState
	req := models.SessionLanguageUpdate{LanguageSet: ls}
	if err := c.do(ctx, http.MethodPut, "/session/language", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) InitialWords(ctx context.Context, count int) ([]models.Word, error) {
	var out []models.Word
	path := fmt.Sprintf("/words/initial?count=%d", count)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddSessionWord(ctx context.Context, wordID int64) (*models.SessionState, error) {
	var out models.SessionState
	req := models.SessionWordAdd{WordID: wordID}
	if err := c.do(ctx, http.MethodPost, "/session/words", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddSessionWords(ctx context.Context, wordIDs []int64) (*models.SessionState, error) {
	var out models.SessionState
	req := models.SessionWordBulkAdd{WordIDs: wordIDs}
	if err := c.do(ctx, http.MethodPost, "/session/words/bulk", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CheckWord(ctx context.Context, text string) (*models.WordCheckResponse, error) {
	var out models.WordCheckResponse
	req := models.WordCheckRequest{Text: text}
	if err := c.do(ctx, http.MethodPost, "/words/check", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CheckWordsBulk(ctx context.Context, text string) (*models.WordCheckBulkResponse, error) {
	var out models.WordCheckBulkResponse
	req := models.WordCheckBulkRequest{Text: text}
	if err := c.do(ctx, http.MethodPost, "/words/check/bulk", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ValidatePractice(ctx context.Context, req models.PracticeValidationRequest) (*models.PracticeValidationResponse, error) {
	var out models.PracticeValidationResponse
	if err := c.do(ctx, http.MethodPost, "/practice/validate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SkipPractice(ctx context.Context, req models.PracticeValidationRequest) (*models.PracticeValidationResponse, error) {
	req.Answer = ""
	var out models.PracticeValidationResponse
	if err := c.do(ctx, http.MethodPost, "/practice/skip", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ValidatePronunciation(ctx context.Context, wordID int64, audio []byte, filename string) (*models.PronunciationValidationResponse, error) {
	log := logger.FromContext(ctx).WithPrefix("client")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("audio", filename)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("writing audio payload: %w", err)
	}
	if err := w.WriteField("word_id", fmt.Sprintf("%d", wordID)); err != nil {
		return nil, fmt.Errorf("writing word_id field: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/practice/pronunciation", &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("pronunciation request failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("pronunciation request failed: status=%d, body=%s", resp.StatusCode, string(data))
		return nil, fmt.Errorf("pronunciation: status %d: %s", resp.StatusCode, string(data))
	}

	var out models.PronunciationValidationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var out models.Stats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerbSession(ctx context.Context) (*models.VerbSessionState, error) {
	var out models.VerbSessionState
	if err := c.do(ctx, http.MethodGet, "/verbs/session", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddVerb(ctx context.Context, req models.VerbAddRequest) (*models.VerbAddResponse, error) {
	var out models.VerbAddResponse
	if err := c.do(ctx, http.MethodPost, "/verbs/add", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddSessionVerb(ctx context.Context, verbID int64) error {
	q := url.Values{"verb_id": {fmt.Sprintf("%d", verbID)}}
	return c.do(ctx, http.MethodPost, "/verbs/session?"+q.Encode(), nil, nil)
}

func (c *Client) VerbQuestion(ctx context.Context) (*models.ConjugationQuestion, error) {
	var out models.ConjugationQuestion
	if err := c.do(ctx, http.MethodGet, "/verbs/question", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ValidateConjugation(ctx context.Context, req models.ConjugationValidationRequest) (*models.ConjugationValidationResponse, error) {
	var out models.ConjugationValidationResponse
	if err := c.do(ctx, http.MethodPost, "/verbs/validate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerbStats(ctx context.Context) (*models.VerbStats, error) {
	var out models.VerbStats
	if err := c.do(ctx, http.MethodGet, "/verbs/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
