package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"li-insights/internal/infra/config"
	"li-insights/internal/infra/openai"
)

type stubChatClient struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.calls = append(s.calls, req.Model)
	if err, ok := s.errs[req.Model]; ok {
		return openai.ChatCompletionResponse{}, err
	}
	text := s.responses[req.Model]
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatMessage{Role: "assistant", Content: text}}},
	}, nil
}

func TestOpenAIProvider_PrimaryOK(t *testing.T) {
	client := &stubChatClient{responses: map[string]string{"gpt-4o": "ответ"}}
	p := NewOpenAI(client, "gpt-4o", "gpt-4o-mini")

	text, err := p.Generate(context.Background(), "prompt", "system")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if text != "ответ" {
		t.Fatalf("неверный текст: %q", text)
	}
	if len(client.calls) != 1 || client.calls[0] != "gpt-4o" {
		t.Fatalf("ожидали один вызов основной модели, получили %v", client.calls)
	}
}

func TestOpenAIProvider_FallbackOnError(t *testing.T) {
	client := &stubChatClient{
		errs:      map[string]error{"gpt-4o": errors.New("rate limit")},
		responses: map[string]string{"gpt-4o-mini": "запасной ответ"},
	}
	p := NewOpenAI(client, "gpt-4o", "gpt-4o-mini")

	text, err := p.Generate(context.Background(), "prompt", "")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if text != "запасной ответ" {
		t.Fatalf("неверный текст: %q", text)
	}
	if len(client.calls) != 2 || client.calls[1] != "gpt-4o-mini" {
		t.Fatalf("ожидали вызов запасной модели, получили %v", client.calls)
	}
}

func TestOpenAIProvider_FallbackOnEmpty(t *testing.T) {
	client := &stubChatClient{responses: map[string]string{
		"gpt-4o":      "   ",
		"gpt-4o-mini": "непустой",
	}}
	p := NewOpenAI(client, "gpt-4o", "gpt-4o-mini")

	text, err := p.Generate(context.Background(), "prompt", "")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if text != "непустой" {
		t.Fatalf("пустой ответ основной модели должен вести к запасной, получили %q", text)
	}
}

func TestOpenAIProvider_BothFail(t *testing.T) {
	client := &stubChatClient{errs: map[string]error{
		"gpt-4o":      errors.New("down"),
		"gpt-4o-mini": errors.New("also down"),
	}}
	p := NewOpenAI(client, "gpt-4o", "gpt-4o-mini")

	if _, err := p.Generate(context.Background(), "prompt", ""); err == nil {
		t.Fatal("ожидали ошибку, когда обе модели недоступны")
	}
}

func TestSelect_Priority(t *testing.T) {
	base := config.LLMConfig{Timeout: time.Second}

	cfg := base
	cfg.GeminiKey = "g"
	cfg.OpenAIKey = "o"
	cfg.AnthropicKey = "a"
	if gen := Select(cfg); gen == nil || gen.Name() != "gemini" {
		t.Fatalf("при всех ключах ожидали gemini, получили %v", gen)
	}

	cfg = base
	cfg.OpenAIKey = "o"
	cfg.AnthropicKey = "a"
	if gen := Select(cfg); gen == nil || gen.Name() != "openai" {
		t.Fatalf("без ключа gemini ожидали openai, получили %v", gen)
	}

	cfg = base
	cfg.AnthropicKey = "a"
	if gen := Select(cfg); gen == nil || gen.Name() != "anthropic" {
		t.Fatalf("ожидали anthropic, получили %v", gen)
	}

	if gen := Select(base); gen != nil {
		t.Fatalf("без ключей ожидали nil, получили %v", gen)
	}
}
