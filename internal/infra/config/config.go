package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервисов.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	Port   int    `envconfig:"PORT" default:"8080"`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	RabbitURL           string `envconfig:"RABBITMQ_URL"`
	RabbitManagementURL string `envconfig:"RABBITMQ_MANAGEMENT_URL"`

	Apify struct {
		Token    string        `envconfig:"APIFY_TOKEN"`
		ActorID  string        `envconfig:"APIFY_ACTOR" default:"apimaestro~linkedin-profile-posts"`
		Timeout  time.Duration `envconfig:"APIFY_TIMEOUT" default:"300s"`
		CacheTTL time.Duration `envconfig:"APIFY_CACHE_TTL" default:"6h"`
	} `envconfig:""`

	LLM LLMConfig `envconfig:""`

	Analysis struct {
		PostsLimit int  `envconfig:"POSTS_LIMIT" default:"50"`
		ChunkSize  int  `envconfig:"CHUNK_SIZE" default:"40"`
		SkipAI     bool `envconfig:"SKIP_AI" default:"false"`
	} `envconfig:""`

	Telegram struct {
		Token  string `envconfig:"TG_BOT_TOKEN"`
		ChatID int64  `envconfig:"TG_CHAT_ID"`
	} `envconfig:""`

	Queues struct {
		Analysis string `envconfig:"ANALYSIS_QUEUE_KEY" default:"analysis_jobs"`
	} `envconfig:""`
}

// LLMConfig описывает доступ к бэкендам генерации. Ключ задаёт
// выбор бэкенда, для каждого есть основная и запасная модели.
type LLMConfig struct {
	GeminiKey         string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel       string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-pro"`
	GeminiFallback    string        `envconfig:"GEMINI_FALLBACK_MODEL" default:"gemini-2.5-flash"`
	OpenAIKey         string        `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL     string        `envconfig:"OPENAI_BASE_URL"`
	OpenAIModel       string        `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	OpenAIFallback    string        `envconfig:"OPENAI_FALLBACK_MODEL" default:"gpt-4o-mini"`
	AnthropicKey      string        `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel    string        `envconfig:"ANTHROPIC_MODEL" default:"claude-3-5-sonnet-latest"`
	AnthropicFallback string        `envconfig:"ANTHROPIC_FALLBACK_MODEL" default:"claude-3-5-haiku-latest"`
	Timeout           time.Duration `envconfig:"LLM_TIMEOUT" default:"120s"`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
