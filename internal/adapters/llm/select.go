package llm

import (
	"li-insights/internal/domain"
	"li-insights/internal/infra/anthropic"
	"li-insights/internal/infra/config"
	"li-insights/internal/infra/gemini"
	"li-insights/internal/infra/openai"
)

// Select выбирает первый бэкенд с выставленным ключом в порядке
// Gemini, OpenAI, Anthropic. Без единого ключа возвращает nil:
// анализ продолжается в деградированном режиме без генерации.
func Select(cfg config.LLMConfig) domain.Generator {
	switch {
	case cfg.GeminiKey != "":
		client := gemini.NewClient(cfg.GeminiKey, "", cfg.Timeout)
		return NewGemini(client, cfg.GeminiModel, cfg.GeminiFallback)
	case cfg.OpenAIKey != "":
		client := openai.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.Timeout)
		return NewOpenAI(client, cfg.OpenAIModel, cfg.OpenAIFallback)
	case cfg.AnthropicKey != "":
		client := anthropic.NewClient(cfg.AnthropicKey, "", cfg.Timeout)
		return NewAnthropic(client, cfg.AnthropicModel, cfg.AnthropicFallback)
	default:
		return nil
	}
}
