package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"li-insights/internal/domain"
	"li-insights/internal/infra/metrics"
)

// Postgres реализует репозитории на основе pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

var (
	_ domain.AnalysisRepo          = (*Postgres)(nil)
	_ domain.AnalysisJobStatusRepo = (*Postgres)(nil)
)

// NewPostgres создаёт адаптер БД.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

func (p *Postgres) connCtxWithParent(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return p.connCtx()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// SaveAnalysis сохраняет готовый отчёт целиком как jsonb.
func (p *Postgres) SaveAnalysis(ctx context.Context, id string, profileURL string, analysis domain.FullAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("сериализация отчёта: %w", err)
	}

	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	_, err = p.pool.Exec(ctx, `
INSERT INTO analyses (id, profile_url, payload)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET profile_url = EXCLUDED.profile_url, payload = EXCLUDED.payload
`, id, profileURL, payload)
	metrics.ObserveNetworkRequest("postgres", "analyses_save", "analyses", start, err)
	if err != nil {
		return fmt.Errorf("сохранение отчёта: %w", err)
	}
	return nil
}

// GetAnalysis возвращает отчёт по id.
func (p *Postgres) GetAnalysis(ctx context.Context, id string) (domain.StoredAnalysis, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	var (
		stored  domain.StoredAnalysis
		payload []byte
	)
	start := time.Now()
	err := p.pool.QueryRow(ctx, `
SELECT id, profile_url, payload, created_at
FROM analyses
WHERE id = $1
`, id).Scan(&stored.ID, &stored.ProfileURL, &payload, &stored.CreatedAt)
	metrics.ObserveNetworkRequest("postgres", "analyses_get", "analyses", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.StoredAnalysis{}, domain.ErrAnalysisNotFound
	}
	if err != nil {
		return domain.StoredAnalysis{}, fmt.Errorf("чтение отчёта: %w", err)
	}
	if err := json.Unmarshal(payload, &stored.Analysis); err != nil {
		return domain.StoredAnalysis{}, fmt.Errorf("разбор отчёта %s: %w", id, err)
	}
	return stored, nil
}

// ListRecentAnalyses возвращает последние отчёты, новые первыми.
func (p *Postgres) ListRecentAnalyses(ctx context.Context, limit int) ([]domain.StoredAnalysis, error) {
	if limit <= 0 {
		limit = 20
	}

	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, profile_url, payload, created_at
FROM analyses
ORDER BY created_at DESC
LIMIT $1
`, limit)
	metrics.ObserveNetworkRequest("postgres", "analyses_list", "analyses", start, err)
	if err != nil {
		return nil, fmt.Errorf("список отчётов: %w", err)
	}
	defer rows.Close()

	var out []domain.StoredAnalysis
	for rows.Next() {
		var (
			stored  domain.StoredAnalysis
			payload []byte
		)
		if err := rows.Scan(&stored.ID, &stored.ProfileURL, &payload, &stored.CreatedAt); err != nil {
			return nil, fmt.Errorf("скан строки отчёта: %w", err)
		}
		if err := json.Unmarshal(payload, &stored.Analysis); err != nil {
			return nil, fmt.Errorf("разбор отчёта %s: %w", stored.ID, err)
		}
		out = append(out, stored)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("обход строк отчётов: %w", err)
	}
	return out, nil
}

// EnsureAnalysisJob регистрирует попытку обработки задания и
// возвращает, было ли оно уже завершено. Повторная доставка из
// очереди увеличивает attempt, но не приводит к повторному анализу.
func (p *Postgres) EnsureAnalysisJob(jobID string) (bool, int, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	var (
		done    bool
		attempt int
	)
	start := time.Now()
	err := p.pool.QueryRow(ctx, `
INSERT INTO analysis_jobs (id, attempt)
VALUES ($1, 1)
ON CONFLICT (id) DO UPDATE SET attempt = analysis_jobs.attempt + 1, updated_at = now()
RETURNING done, attempt
`, jobID).Scan(&done, &attempt)
	metrics.ObserveNetworkRequest("postgres", "analysis_jobs_ensure", "analysis_jobs", start, err)
	if err != nil {
		return false, 0, fmt.Errorf("регистрация задания %s: %w", jobID, err)
	}
	return done, attempt, nil
}

// MarkAnalysisJobDone помечает задание завершённым.
func (p *Postgres) MarkAnalysisJobDone(jobID string) error {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
UPDATE analysis_jobs SET done = true, updated_at = now() WHERE id = $1
`, jobID)
	metrics.ObserveNetworkRequest("postgres", "analysis_jobs_done", "analysis_jobs", start, err)
	if err != nil {
		return fmt.Errorf("завершение задания %s: %w", jobID, err)
	}
	return nil
}
