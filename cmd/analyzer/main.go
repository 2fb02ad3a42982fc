package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"li-insights/internal/adapters/cleaner"
	"li-insights/internal/adapters/llm"
	"li-insights/internal/adapters/scraper"
	"li-insights/internal/domain"
	"li-insights/internal/infra/cache"
	"li-insights/internal/infra/config"
	applog "li-insights/internal/infra/log"
	"li-insights/internal/usecase/analysis"
	"li-insights/internal/usecase/insights"
	"li-insights/internal/usecase/report"
)

func main() {
	var (
		profileURL string
		filePath   string
		outPath    string
		limit      int
		skipAI     bool
		asText     bool
	)
	flag.StringVar(&profileURL, "profile", "", "LinkedIn profile URL to analyze")
	flag.StringVar(&filePath, "file", "", "Path to a JSON file with raw posts (skips scraping)")
	flag.StringVar(&outPath, "out", "", "Write the result to this file instead of stdout")
	flag.IntVar(&limit, "limit", 0, "Maximum posts to analyze (default from POSTS_LIMIT)")
	flag.BoolVar(&skipAI, "skip-ai", false, "Deterministic metrics only, no generation")
	flag.BoolVar(&asText, "text", false, "Render a human-readable report instead of JSON")
	flag.Parse()

	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv, "analyzer")

	if profileURL == "" && filePath == "" {
		logger.Fatal().Msg("analyzer: укажите профиль (-profile) или файл с постами (-file)")
	}
	if limit <= 0 {
		limit = cfg.Analysis.PostsLimit
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var source domain.PostSource
	switch {
	case filePath != "":
		source = scraper.NewFile(filePath)
	default:
		if cfg.Apify.Token == "" {
			logger.Fatal().Msg("analyzer: не указан токен Apify (APIFY_TOKEN)")
		}
		source = scraper.NewApify(cfg.Apify.Token, cfg.Apify.ActorID, cfg.Apify.Timeout)
		if cfg.RedisAddr != "" {
			client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			source = scraper.NewCached(source, cache.NewRedis(client), cfg.Apify.CacheTTL, logger)
		}
	}

	var builder analysis.InsightBuilder
	if gen := llm.Select(cfg.LLM); gen != nil {
		logger.Info().Str("backend", gen.Name()).Msg("analyzer: выбран бэкенд генерации")
		builder = insights.NewOrchestrator(gen, logger,
			insights.WithChunkSize(cfg.Analysis.ChunkSize),
			insights.WithCallTimeout(cfg.LLM.Timeout))
	} else {
		logger.Warn().Msg("analyzer: ключи генерации не заданы, деградированный режим")
	}

	svc := analysis.NewService(source, cleaner.New(), builder, logger)
	result, err := svc.Run(ctx, analysis.RunParams{
		ProfileURL: profileURL,
		Limit:      limit,
		SkipAI:     skipAI || cfg.Analysis.SkipAI,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("analyzer: анализ не выполнен")
	}

	var payload []byte
	if asText {
		payload = []byte(report.FormatAnalysis(result))
	} else {
		payload, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			logger.Fatal().Err(err).Msg("analyzer: не удалось сериализовать отчёт")
		}
	}
	payload = append(payload, '\n')

	if outPath != "" {
		if err := os.WriteFile(outPath, payload, 0o644); err != nil {
			logger.Fatal().Err(err).Str("path", outPath).Msg("analyzer: не удалось записать отчёт")
		}
		logger.Info().Str("path", outPath).Msg("analyzer: отчёт сохранён")
		return
	}
	if _, err := os.Stdout.Write(payload); err != nil {
		logger.Fatal().Err(err).Msg("analyzer: не удалось вывести отчёт")
	}
}
