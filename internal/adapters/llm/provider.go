package llm

import (
	"context"
	"fmt"
	"strings"

	"li-insights/internal/domain"
	"li-insights/internal/infra/anthropic"
	"li-insights/internal/infra/gemini"
	"li-insights/internal/infra/openai"
)

const (
	generationTemperature = 0.4
	primaryMaxTokens      = 4096
	fallbackMaxTokens     = 2048
)

type chatCompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider реализует domain.Generator через Chat Completions.
// Пустой или ошибочный ответ основной модели повторяется запасной
// моделью того же бэкенда.
type OpenAIProvider struct {
	client   chatCompletionClient
	model    string
	fallback string
}

var _ domain.Generator = (*OpenAIProvider)(nil)

// NewOpenAI создаёт провайдер генерации на базе OpenAI.
func NewOpenAI(client chatCompletionClient, model, fallback string) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o"
	}
	if fallback == "" {
		fallback = "gpt-4o-mini"
	}
	return &OpenAIProvider{client: client, model: model, fallback: fallback}
}

// Name возвращает имя бэкенда.
func (p *OpenAIProvider) Name() string { return "openai" }

// Generate выполняет одну генерацию текста.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt, system string) (string, error) {
	text, primaryErr := p.call(ctx, p.model, primaryMaxTokens, prompt, system)
	if primaryErr == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	text, err := p.call(ctx, p.fallback, fallbackMaxTokens, prompt, system)
	if err != nil {
		return "", fmt.Errorf("обе модели openai не ответили: основная: %v: %w", primaryErr, err)
	}
	return text, nil
}

func (p *OpenAIProvider) call(ctx context.Context, model string, maxTokens int, prompt, system string) (string, error) {
	messages := make([]openai.ChatMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatMessage{Role: openai.RoleSystem, Content: system})
	}
	messages = append(messages, openai.ChatMessage{Role: openai.RoleUser, Content: prompt})
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:          model,
		Temperature:    generationTemperature,
		MaxTokens:      maxTokens,
		Messages:       messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ResponseFormatTypeJSONObject},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: пустой ответ")
	}
	return resp.Choices[0].Message.Content, nil
}

type messagesClient interface {
	CreateMessage(ctx context.Context, req anthropic.MessagesRequest) (anthropic.MessagesResponse, error)
}

// AnthropicProvider реализует domain.Generator через Messages API.
type AnthropicProvider struct {
	client   messagesClient
	model    string
	fallback string
}

var _ domain.Generator = (*AnthropicProvider)(nil)

// NewAnthropic создаёт провайдер генерации на базе Anthropic.
func NewAnthropic(client messagesClient, model, fallback string) *AnthropicProvider {
	if model == "" {
		model = "claude-3-5-sonnet-latest"
	}
	if fallback == "" {
		fallback = "claude-3-5-haiku-latest"
	}
	return &AnthropicProvider{client: client, model: model, fallback: fallback}
}

// Name возвращает имя бэкенда.
func (p *AnthropicProvider) Name() string { return "anthropic" }

// Generate выполняет одну генерацию текста.
func (p *AnthropicProvider) Generate(ctx context.Context, prompt, system string) (string, error) {
	text, primaryErr := p.call(ctx, p.model, primaryMaxTokens, prompt, system)
	if primaryErr == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	text, err := p.call(ctx, p.fallback, fallbackMaxTokens, prompt, system)
	if err != nil {
		return "", fmt.Errorf("обе модели anthropic не ответили: основная: %v: %w", primaryErr, err)
	}
	return text, nil
}

func (p *AnthropicProvider) call(ctx context.Context, model string, maxTokens int, prompt, system string) (string, error) {
	resp, err := p.client.CreateMessage(ctx, anthropic.MessagesRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: generationTemperature,
		System:      system,
		Messages:    []anthropic.Message{{Role: anthropic.RoleUser, Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

type generateContentClient interface {
	GenerateContent(ctx context.Context, model string, req gemini.GenerateContentRequest) (gemini.GenerateContentResponse, error)
}

// GeminiProvider реализует domain.Generator через generateContent.
type GeminiProvider struct {
	client   generateContentClient
	model    string
	fallback string
}

var _ domain.Generator = (*GeminiProvider)(nil)

// NewGemini создаёт провайдер генерации на базе Gemini.
func NewGemini(client generateContentClient, model, fallback string) *GeminiProvider {
	if model == "" {
		model = "gemini-2.5-pro"
	}
	if fallback == "" {
		fallback = "gemini-2.5-flash"
	}
	return &GeminiProvider{client: client, model: model, fallback: fallback}
}

// Name возвращает имя бэкенда.
func (p *GeminiProvider) Name() string { return "gemini" }

// Generate выполняет одну генерацию текста.
func (p *GeminiProvider) Generate(ctx context.Context, prompt, system string) (string, error) {
	text, primaryErr := p.call(ctx, p.model, prompt, system)
	if primaryErr == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	text, err := p.call(ctx, p.fallback, prompt, system)
	if err != nil {
		return "", fmt.Errorf("обе модели gemini не ответили: основная: %v: %w", primaryErr, err)
	}
	return text, nil
}

func (p *GeminiProvider) call(ctx context.Context, model string, prompt, system string) (string, error) {
	// Модели pro рассуждают и требуют больший бюджет токенов.
	maxTokens := fallbackMaxTokens
	if strings.Contains(strings.ToLower(model), "pro") {
		maxTokens = 8192
	}
	req := gemini.GenerateContentRequest{
		Contents:         []gemini.Content{{Role: "user", Parts: []gemini.Part{{Text: prompt}}}},
		GenerationConfig: &gemini.GenerationConfig{Temperature: generationTemperature, MaxOutputTokens: maxTokens},
	}
	if system != "" {
		req.SystemInstruction = &gemini.Content{Parts: []gemini.Part{{Text: system}}}
	}
	resp, err := p.client.GenerateContent(ctx, model, req)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
