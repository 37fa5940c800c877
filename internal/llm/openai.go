package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	apperrors "polingo/internal/errors"
	"polingo/internal/logger"
	"polingo/internal/models"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	whisperModel   = "whisper-1"
)

// Client talks to the OpenAI API for word resolution, answer validation,
// verb generation and speech transcription.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an OpenAI client. An empty baseURL falls back to the
// public API endpoint.
func NewClient(apiKey, model, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// completeJSON runs a chat completion in JSON mode and unmarshals the
// single choice into out.
func (c *Client) completeJSON(ctx context.Context, system, user string, out any) error {
	log := logger.FromContext(ctx).WithPrefix("llm")

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
		Temperature:    0.2,
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("Chat completion request failed: %v", err)
		return apperrors.NewUpstreamError("openai", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Error("Chat completion returned status %d: %s", resp.StatusCode, string(body))
		return apperrors.NewUpstreamError("openai", fmt.Errorf("status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return apperrors.NewUpstreamError("openai", fmt.Errorf("decoding response: %w", err))
	}
	if parsed.Error != nil {
		return apperrors.NewUpstreamError("openai", fmt.Errorf("api error: %s", parsed.Error.Message))
	}
	if len(parsed.Choices) == 0 {
		return apperrors.NewUpstreamError("openai", fmt.Errorf("no choices returned"))
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		log.Error("Model returned malformed JSON: %v", err)
		return apperrors.NewUpstreamError("openai", fmt.Errorf("parsing model output: %w", err))
	}
	return nil
}

// ResolveWord detects the language of a free-form entry, fixes typos and
// fills in the missing translations.
func (c *Client) ResolveWord(ctx context.Context, text string) (*WordResolution, error) {
	system := "You are a translator for a Polish vocabulary trainer. " +
		"The user enters a word or short phrase in Polish, English or Ukrainian, possibly with typos. " +
		"Detect the language, correct obvious typos, and provide all three translations. " +
		"Respond with a JSON object with keys: detected_language (polish/english/ukrainian), " +
		"corrected_input, polish, english, ukrainian."

	var res WordResolution
	if err := c.completeJSON(ctx, system, text, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ValidateTranslation asks the model whether an answer is an acceptable
// translation, catching synonyms and minor inflection differences that
// exact matching misses.
func (c *Client) ValidateTranslation(ctx context.Context, q TranslationQuery) (*TranslationJudgement, error) {
	system := "You are grading answers in a Polish vocabulary trainer. " +
		"Judge whether the learner's answer is an acceptable translation: accept synonyms, " +
		"minor spelling slips and equivalent forms, reject wrong words. " +
		"Respond with a JSON object with keys: is_correct (boolean), normalized_answer, rationale."

	user := fmt.Sprintf("Polish word: %q\nExpected %s translation: %q\nLearner answer: %q\nExercise: %s",
		q.Polish, q.TargetLanguage, q.Expected, q.Answer, q.Direction)

	var res TranslationJudgement
	if err := c.completeJSON(ctx, system, user, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GenerateVerb produces a Polish infinitive with full present-tense
// conjugations from a verb given in any supported language.
func (c *Client) GenerateVerb(ctx context.Context, text, sourceLanguage string) (*VerbGeneration, error) {
	system := "You are a Polish grammar assistant. Given a verb in Polish, English or Ukrainian, " +
		"return its Polish infinitive, English and Ukrainian translations, and the full present-tense " +
		"conjugation. Respond with a JSON object with keys: infinitive, english, ukrainian, conjugations. " +
		"The conjugations object must have exactly these keys: ja, ty, on_ona_ono, my, wy, oni_one."

	user := fmt.Sprintf("Verb: %q (language hint: %s)", text, sourceLanguage)

	var res VerbGeneration
	if err := c.completeJSON(ctx, system, user, &res); err != nil {
		return nil, err
	}
	for _, p := range models.Pronouns {
		if res.Conjugations[string(p)] == "" {
			return nil, apperrors.NewUpstreamError("openai", fmt.Errorf("missing conjugation for %s", p))
		}
	}
	return &res, nil
}

// Transcribe sends recorded audio to the Whisper endpoint and returns the
// transcribed text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("llm")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("writing audio payload: %w", err)
	}
	if err := w.WriteField("model", whisperModel); err != nil {
		return "", fmt.Errorf("writing model field: %w", err)
	}
	if err := w.WriteField("language", "pl"); err != nil {
		return "", fmt.Errorf("writing language field: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("creating transcription request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("Transcription request failed: %v", err)
		return "", apperrors.NewUpstreamError("openai", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Error("Transcription returned status %d: %s", resp.StatusCode, string(body))
		return "", apperrors.NewUpstreamError("openai", fmt.Errorf("status %d", resp.StatusCode))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", apperrors.NewUpstreamError("openai", fmt.Errorf("decoding transcription: %w", err))
	}
	return strings.TrimSpace(parsed.Text), nil
}

// EvaluatePronunciation compares a Whisper transcription against the
// expected Polish word.
func (c *Client) EvaluatePronunciation(ctx context.Context, expected, transcribed string) (*PronunciationJudgement, error) {
	system := "You are evaluating Polish pronunciation via a speech transcription. " +
		"Compare the transcription with the expected word; be tolerant of transcription artifacts " +
		"such as punctuation or capitalization, strict about saying a different word. " +
		"Respond with a JSON object with keys: is_correct (boolean), feedback (one short sentence), " +
		"similarity_score (0.0 to 1.0)."

	user := fmt.Sprintf("Expected word: %q\nTranscription: %q", expected, transcribed)

	var res PronunciationJudgement
	if err := c.completeJSON(ctx, system, user, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
