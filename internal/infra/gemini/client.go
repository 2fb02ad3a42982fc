package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"li-insights/internal/infra/metrics"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Client выполняет запросы generateContent.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewClient создаёт клиента Gemini.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout + 5*time.Second}
	return &Client{http: httpClient, baseURL: baseURL, apiKey: apiKey}
}

// Part — фрагмент контента.
type Part struct {
	Text string `json:"text,omitempty"`
}

// Content — сообщение с ролью.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig задаёт параметры генерации.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// GenerateContentRequest описывает тело запроса.
type GenerateContentRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// GenerateContentResponse описывает ответ модели.
type GenerateContentResponse struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *UsageMetadata  `json:"usageMetadata,omitempty"`
}

// Candidate содержит один вариант ответа.
type Candidate struct {
	Content Content `json:"content"`
}

// PromptFeedback сообщает о блокировке промпта.
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// UsageMetadata описывает статистику использования токенов.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// Text собирает текст первого кандидата.
func (r GenerateContentResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}

// GenerateContent вызывает models/{model}:generateContent.
func (c *Client) GenerateContent(ctx context.Context, model string, req GenerateContentRequest) (GenerateContentResponse, error) {
	if c.apiKey == "" {
		return GenerateContentResponse{}, fmt.Errorf("gemini: api key is empty")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return GenerateContentResponse{}, fmt.Errorf("gemini: marshal request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return GenerateContentResponse{}, fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.ObserveNetworkRequest("gemini", "generate_content", model, start, err)
		return GenerateContentResponse{}, fmt.Errorf("gemini: do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveNetworkRequest("gemini", "generate_content", model, start, err)
		return GenerateContentResponse{}, fmt.Errorf("gemini: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var apiErr apiErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			err = fmt.Errorf("gemini: %s", apiErr.Error.Message)
		} else {
			err = fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
		}
		metrics.ObserveNetworkRequest("gemini", "generate_content", model, start, err)
		return GenerateContentResponse{}, err
	}
	var generated GenerateContentResponse
	if err := json.Unmarshal(respBody, &generated); err != nil {
		metrics.ObserveNetworkRequest("gemini", "generate_content", model, start, err)
		return GenerateContentResponse{}, fmt.Errorf("gemini: decode response: %w", err)
	}
	if generated.PromptFeedback != nil && generated.PromptFeedback.BlockReason != "" {
		err = fmt.Errorf("gemini: prompt blocked: %s", generated.PromptFeedback.BlockReason)
		metrics.ObserveNetworkRequest("gemini", "generate_content", model, start, err)
		return GenerateContentResponse{}, err
	}
	metrics.ObserveNetworkRequest("gemini", "generate_content", model, start, nil)
	if generated.UsageMetadata != nil {
		metrics.ObserveLLMGeneration(model, time.Since(start), generated.UsageMetadata.PromptTokenCount, generated.UsageMetadata.CandidatesTokenCount, generated.UsageMetadata.TotalTokenCount)
	}
	return generated, nil
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
