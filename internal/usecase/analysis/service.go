package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"li-insights/internal/adapters/cleaner"
	"li-insights/internal/domain"
	inframetrics "li-insights/internal/infra/metrics"
	"li-insights/internal/usecase/insights"
	"li-insights/internal/usecase/metrics"
)

const topPostsCount = 5

// InsightBuilder строит AI-инсайты по подготовленному входу.
type InsightBuilder interface {
	Generate(ctx context.Context, in insights.Input) (domain.AIInsights, []domain.Warning)
}

// Service собирает полный отчёт: выгрузка, нормализация,
// детерминированные метрики и AI-инсайты. Единственная фатальная
// ошибка самого анализа — пустая коллекция постов; всё остальное
// деградирует до плейсхолдеров и предупреждений.
type Service struct {
	source     domain.PostSource
	normalizer *cleaner.Normalizer
	builder    InsightBuilder
	logger     zerolog.Logger
	now        func() time.Time
}

// NewService создаёт сервис анализа. builder может быть nil — тогда
// каждый прогон идёт в деградированном режиме без генерации.
func NewService(source domain.PostSource, normalizer *cleaner.Normalizer, builder InsightBuilder, logger zerolog.Logger) *Service {
	return &Service{
		source:     source,
		normalizer: normalizer,
		builder:    builder,
		logger:     logger,
		now:        time.Now,
	}
}

// RunParams — параметры одного прогона.
type RunParams struct {
	ProfileURL string
	Limit      int
	SkipAI     bool
}

// Run выполняет полный цикл анализа профиля.
func (s *Service) Run(ctx context.Context, params RunParams) (domain.FullAnalysis, error) {
	start := s.now()
	inframetrics.AnalysisRequestsTotal.Inc()

	raw, err := s.source.Fetch(ctx, params.ProfileURL, params.Limit)
	if err != nil {
		return domain.FullAnalysis{}, fmt.Errorf("выгрузка постов %s: %w", params.ProfileURL, err)
	}

	posts, warnings, err := s.normalizer.Normalize(raw, params.Limit)
	if err != nil {
		return domain.FullAnalysis{}, fmt.Errorf("нормализация постов: %w", err)
	}

	bundle := metrics.ComputeAll(posts)
	in := insights.Input{Posts: posts, Scored: bundle.ScoredPosts}

	var ai domain.AIInsights
	if params.SkipAI || s.builder == nil {
		s.logger.Info().Str("profile", params.ProfileURL).Msg("генерация пропущена, отчёт с плейсхолдерами")
		ai = insights.Placeholders(in)
	} else {
		var aiWarnings []domain.Warning
		ai, aiWarnings = s.builder.Generate(ctx, in)
		warnings = append(warnings, aiWarnings...)
	}

	analysis := s.assemble(params.ProfileURL, posts, bundle, ai, warnings)
	inframetrics.AnalysisBuildSeconds.Observe(time.Since(start).Seconds())
	s.logger.Info().
		Str("profile", params.ProfileURL).
		Int("posts", len(posts)).
		Int("warnings", len(warnings)).
		Msg("отчёт собран")
	return analysis, nil
}

func (s *Service) assemble(profileURL string, posts []domain.Post, bundle metrics.Bundle, ai domain.AIInsights, warnings []domain.Warning) domain.FullAnalysis {
	analysis := domain.FullAnalysis{
		ProfileURL:    profileURL,
		AnalyzedAt:    s.now().UTC(),
		Cadence:       bundle.Cadence,
		Engagement:    bundle.Engagement,
		PostTypes:     bundle.PostTypes,
		Schedule:      bundle.Schedule,
		ScoredPosts:   bundle.ScoredPosts,
		TopPosts:      metrics.TopPosts(bundle.ScoredPosts, topPostsCount),
		WorstPosts:    metrics.WorstPosts(bundle.ScoredPosts, topPostsCount),
		TextPatterns:  bundle.TextPatterns,
		WordFrequency: bundle.WordFrequency,
		HookAnalysis:  bundle.HookAnalysis,
		CTAAnalysis:   bundle.CTAAnalysis,
		Insights:      ai,
		Warnings:      warnings,
	}
	if len(posts) > 0 {
		analysis.ProfileName = posts[0].AuthorName
		analysis.ProfileHeadline = posts[0].AuthorHeadline
	}
	return analysis
}
