package domain

import (
	"context"
	"time"
)

// Generator — единственная операция генерации текста по промпту.
// Бэкенд выбирается один раз на прогон; вызовы не разделяют состояние
// и безопасны для конкурентного использования.
type Generator interface {
	Generate(ctx context.Context, prompt, system string) (string, error)
	Name() string
}

// PostSource выгружает сырые посты профиля.
type PostSource interface {
	Fetch(ctx context.Context, profileURL string, limit int) ([]RawPost, error)
}

// AnalysisRepo сохраняет и возвращает готовые отчёты.
type AnalysisRepo interface {
	SaveAnalysis(ctx context.Context, id string, profileURL string, analysis FullAnalysis) error
	GetAnalysis(ctx context.Context, id string) (StoredAnalysis, error)
	ListRecentAnalyses(ctx context.Context, limit int) ([]StoredAnalysis, error)
}

// StoredAnalysis — отчёт с метаданными хранения.
type StoredAnalysis struct {
	ID         string       `json:"id"`
	ProfileURL string       `json:"profileUrl"`
	CreatedAt  time.Time    `json:"createdAt"`
	Analysis   FullAnalysis `json:"analysis"`
}

// Notifier уведомляет о готовом отчёте.
type Notifier interface {
	NotifyAnalysisReady(ctx context.Context, chatID int64, analysis FullAnalysis) error
}

// Cache используется для простых TTL-хранилищ.
type Cache interface {
	Set(key string, value []byte, ttl time.Duration) error
	Get(key string) ([]byte, error)
}
