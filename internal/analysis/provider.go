package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/imrics/DermAI/internal/config"
)

// VisionRequest is one multimodal analysis call: system instruction,
// prompt text, legend, and the ordered labeled images.
type VisionRequest struct {
	System string
	Prompt string
	Legend string
	Images []LabeledImage
}

// VisionClient is the provider boundary. Implementations return the
// model's single text response.
type VisionClient interface {
	Analyze(ctx context.Context, req VisionRequest) (string, error)
}

// OpenAIVisionClient talks to an OpenAI-compatible chat completions
// endpoint. Calls run through a circuit breaker so a flapping provider
// fails fast into the orchestrator's fallback path.
type OpenAIVisionClient struct {
	apiKey          string
	baseURL         string
	model           string
	maxOutputTokens int
	httpClient      *http.Client
	breaker         *gobreaker.CircuitBreaker
	logger          *logrus.Logger
}

func NewOpenAIVisionClient(cfg config.Config, logger *logrus.Logger) *OpenAIVisionClient {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &OpenAIVisionClient{
		apiKey:          strings.TrimSpace(cfg.OpenAIAPIKey),
		baseURL:         strings.TrimRight(strings.TrimSpace(cfg.OpenAIBaseURL), "/"),
		model:           strings.TrimSpace(cfg.OpenAIModel),
		maxOutputTokens: cfg.AIMaxOutputTokens,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "openai-vision",
			Timeout: 30 * time.Second,
		}),
		logger: logger,
	}
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

func (c *OpenAIVisionClient) Analyze(ctx context.Context, req VisionRequest) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("OPENAI_API_KEY is not configured")
	}
	if c.baseURL == "" {
		return "", errors.New("OPENAI_BASE_URL is not configured")
	}
	if c.model == "" {
		return "", errors.New("OPENAI_MODEL is not configured")
	}

	parts := make([]chatContentPart, 0, len(req.Images)*2+3)
	parts = append(parts, chatContentPart{Type: "text", Text: req.Prompt})
	if strings.TrimSpace(req.Legend) != "" {
		parts = append(parts,
			chatContentPart{Type: "text", Text: "TIMELINE OVERVIEW:"},
			chatContentPart{Type: "text", Text: req.Legend},
		)
	}
	for _, img := range req.Images {
		parts = append(parts,
			chatContentPart{Type: "text", Text: img.Label},
			chatContentPart{Type: "image_url", ImageURL: &chatImageURL{URL: "data:image/jpeg;base64," + img.Base64}},
		)
	}

	maxTokens := c.maxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 600
	}
	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]any{
			{"role": "system", "content": req.System},
			{"role": "user", "content": parts},
		},
		"max_tokens":  maxTokens,
		"temperature": 0.3,
	}
	bodyRaw, err := json.Marshal(payload)
	if err != nil {
		return "", &ProviderError{Err: err}
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.call(ctx, bodyRaw)
	})
	if err != nil {
		return "", &ProviderError{Err: err}
	}

	answer, ok := result.(string)
	if !ok || strings.TrimSpace(answer) == "" {
		return "", &ProviderError{Err: errors.New("provider response answer is empty")}
	}
	return answer, nil
}

func (c *OpenAIVisionClient) call(ctx context.Context, body []byte) (string, error) {
	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", err
	}
	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", fmt.Errorf("chat completions error (%d): %s", response.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return "", fmt.Errorf("decode chat completions response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		c.logger.WithField("body", truncateForLog(string(responseBody), 1200)).Warn("chat completions response had no choices")
		return "", errors.New("chat completions response had no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncateForLog(value string, limit int) string {
	trimmed := strings.TrimSpace(value)
	if limit <= 0 || len(trimmed) <= limit {
		return trimmed
	}
	return trimmed[:limit] + "...(truncated)"
}

// MockVisionClient returns deterministic structured answers keyed off the
// prompt's expected output shape. Used for local development and tests.
type MockVisionClient struct{}

func (MockVisionClient) Analyze(_ context.Context, req VisionRequest) (string, error) {
	switch {
	case strings.Contains(req.Prompt, "norwood_score"):
		return `{"norwood_score": 2, "observations": "Mock hairline observation.", "suggestions": "Mock hairline suggestion.", "treatment": "Ketoconazole Shampoo, Minoxidil Topical 5%"}`, nil
	case strings.Contains(req.Prompt, "texture_level"):
		return `{"texture_level": "textured", "observations": "Mock texture observation.", "suggestions": "Mock texture suggestion.", "treatment": "Benzoyl Peroxide Wash, Adapalene"}`, nil
	default:
		return `{"feature_regular": true, "observations": "Mock feature observation.", "suggestions": "Mock feature suggestion.", "treatment": "Shave Excision"}`, nil
	}
}
