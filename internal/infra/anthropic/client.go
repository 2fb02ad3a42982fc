package anthropic

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

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
)

// Client выполняет запросы к Messages API.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewClient создаёт клиента Anthropic.
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

// MessagesRequest описывает тело запроса.
type MessagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
}

// Message представляет сообщение в диалоге.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RoleUser сообщение пользователя.
const RoleUser = "user"

// MessagesResponse описывает ответ модели.
type MessagesResponse struct {
	Content []ContentBlock `json:"content"`
	Usage   *Usage         `json:"usage,omitempty"`
}

// ContentBlock содержит один блок ответа.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Usage описывает статистику использования токенов.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Text собирает текстовые блоки ответа.
func (r MessagesResponse) Text() string {
	var b strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// CreateMessage вызывает /v1/messages.
func (c *Client) CreateMessage(ctx context.Context, req MessagesRequest) (MessagesResponse, error) {
	if c.apiKey == "" {
		return MessagesResponse{}, fmt.Errorf("anthropic: api key is empty")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return MessagesResponse{}, fmt.Errorf("anthropic: marshal request: %w", err)
	}
	endpoint := c.baseURL + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return MessagesResponse{}, fmt.Errorf("anthropic: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.ObserveNetworkRequest("anthropic", "messages", req.Model, start, err)
		return MessagesResponse{}, fmt.Errorf("anthropic: do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveNetworkRequest("anthropic", "messages", req.Model, start, err)
		return MessagesResponse{}, fmt.Errorf("anthropic: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var apiErr apiErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			err = fmt.Errorf("anthropic: %s", apiErr.Error.Message)
		} else {
			err = fmt.Errorf("anthropic: unexpected status %d", resp.StatusCode)
		}
		metrics.ObserveNetworkRequest("anthropic", "messages", req.Model, start, err)
		return MessagesResponse{}, err
	}
	var message MessagesResponse
	if err := json.Unmarshal(respBody, &message); err != nil {
		metrics.ObserveNetworkRequest("anthropic", "messages", req.Model, start, err)
		return MessagesResponse{}, fmt.Errorf("anthropic: decode response: %w", err)
	}
	metrics.ObserveNetworkRequest("anthropic", "messages", req.Model, start, nil)
	if message.Usage != nil {
		total := message.Usage.InputTokens + message.Usage.OutputTokens
		metrics.ObserveLLMGeneration(req.Model, time.Since(start), message.Usage.InputTokens, message.Usage.OutputTokens, total)
	}
	return message, nil
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
