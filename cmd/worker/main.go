package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"li-insights/internal/adapters/cleaner"
	"li-insights/internal/adapters/llm"
	"li-insights/internal/adapters/notifier"
	"li-insights/internal/adapters/repo"
	"li-insights/internal/adapters/scraper"
	"li-insights/internal/domain"
	"li-insights/internal/infra/cache"
	"li-insights/internal/infra/config"
	"li-insights/internal/infra/db"
	applog "li-insights/internal/infra/log"
	"li-insights/internal/infra/metrics"
	"li-insights/internal/infra/queue"
	"li-insights/internal/usecase/analysis"
	"li-insights/internal/usecase/insights"
	"li-insights/internal/usecase/report"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv, "worker")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), ":9090")

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: нет подключения к БД")
	}
	defer pool.Close()
	repoAdapter := repo.NewPostgres(pool)

	jobs, err := buildQueue(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: не удалось инициализировать очередь")
	}

	if cfg.Apify.Token == "" {
		logger.Fatal().Msg("worker: не указан токен Apify (APIFY_TOKEN)")
	}
	var source domain.PostSource = scraper.NewApify(cfg.Apify.Token, cfg.Apify.ActorID, cfg.Apify.Timeout)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		source = scraper.NewCached(source, cache.NewRedis(client), cfg.Apify.CacheTTL, logger)
	}

	var builder analysis.InsightBuilder
	if gen := llm.Select(cfg.LLM); gen != nil {
		logger.Info().Str("backend", gen.Name()).Msg("worker: выбран бэкенд генерации")
		builder = insights.NewOrchestrator(gen, logger,
			insights.WithChunkSize(cfg.Analysis.ChunkSize),
			insights.WithCallTimeout(cfg.LLM.Timeout))
	} else {
		logger.Warn().Msg("worker: ключи генерации не заданы, деградированный режим")
	}

	var notify domain.Notifier
	if cfg.Telegram.Token != "" {
		botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: не удалось создать бота")
		}
		notify = notifier.NewTelegram(botAPI, report.FormatAnalysis, logger)
	}

	w := &jobWorker{
		log:           logger,
		queue:         jobs,
		service:       analysis.NewService(source, cleaner.New(), builder, logger),
		analyses:      repoAdapter,
		statuses:      repoAdapter,
		notifier:      notify,
		defaultChatID: cfg.Telegram.ChatID,
		skipAI:        cfg.Analysis.SkipAI,
	}

	logger.Info().Msg("worker: запуск обработки очереди")
	w.Run(ctx)
	logger.Info().Msg("worker: остановлен")
}

func buildQueue(cfg config.AppConfig) (domain.AnalysisQueue, error) {
	if cfg.RabbitURL != "" {
		return queue.NewRabbitAnalysisQueue(cfg.RabbitURL, cfg.RabbitManagementURL, cfg.Queues.Analysis)
	}
	if cfg.RedisAddr == "" {
		return nil, errors.New("не задана ни RABBITMQ_URL, ни REDIS_ADDR")
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return queue.NewRedisAnalysisQueue(client, cfg.Queues.Analysis), nil
}

type jobWorker struct {
	log           zerolog.Logger
	queue         domain.AnalysisQueue
	service       *analysis.Service
	analyses      domain.AnalysisRepo
	statuses      domain.AnalysisJobStatusRepo
	notifier      domain.Notifier
	defaultChatID int64
	skipAI        bool
}

func (w *jobWorker) Run(ctx context.Context) {
	for {
		job, err := w.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.log.Error().Err(err).Msg("worker: ошибка чтения очереди")
			time.Sleep(time.Second)
			continue
		}

		jobLog := w.log.With().
			Str("job_id", job.ID).
			Str("profile", job.ProfileURL).
			Str("cause", string(job.Cause)).
			Logger()

		if job.ID == "" {
			jobLog.Error().Msg("worker: получена задача без идентификатора, пропускаем")
			continue
		}

		done, attempt, err := w.statuses.EnsureAnalysisJob(job.ID)
		if err != nil {
			jobLog.Error().Err(err).Msg("worker: не удалось зарегистрировать задачу")
			time.Sleep(time.Second)
			continue
		}
		jobLog = jobLog.With().Int("attempt", attempt).Logger()
		if done {
			jobLog.Info().Msg("worker: задача уже выполнена, пропускаем")
			continue
		}

		w.handleJob(ctx, job, jobLog)
	}
}

func (w *jobWorker) handleJob(ctx context.Context, job domain.AnalysisJob, jobLog zerolog.Logger) {
	result, err := w.service.Run(ctx, analysis.RunParams{
		ProfileURL: job.ProfileURL,
		Limit:      job.Limit,
		SkipAI:     job.SkipAI || w.skipAI,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyInput) {
			jobLog.Error().Err(err).Msg("worker: профиль без постов, задача закрыта")
			w.markDone(job.ID, jobLog)
			return
		}
		jobLog.Error().Err(err).Msg("worker: анализ не выполнен, повторим позже")
		return
	}

	chatID := job.ChatID
	if chatID == 0 {
		chatID = w.defaultChatID
	}
	if w.notifier != nil && chatID != 0 {
		if err := w.notifier.NotifyAnalysisReady(ctx, chatID, result); err != nil {
			jobLog.Error().Err(err).Int64("chat_id", chatID).Msg("worker: не удалось уведомить о готовом отчёте")
			result.Warnings = append(result.Warnings, domain.Warning{
				Kind:    domain.WarnNotifyFailure,
				Message: fmt.Sprintf("уведомление в чат %d не доставлено", chatID),
			})
		}
	}

	if err := w.analyses.SaveAnalysis(ctx, job.ID, job.ProfileURL, result); err != nil {
		jobLog.Error().Err(err).Msg("worker: не удалось сохранить отчёт, повторим позже")
		return
	}
	w.markDone(job.ID, jobLog)
	jobLog.Info().Int("warnings", len(result.Warnings)).Msg("worker: отчёт готов")
}

func (w *jobWorker) markDone(jobID string, jobLog zerolog.Logger) {
	if err := w.statuses.MarkAnalysisJobDone(jobID); err != nil {
		jobLog.Error().Err(err).Msg("worker: не удалось пометить задачу выполненной")
	}
}
