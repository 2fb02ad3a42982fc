package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"li-insights/internal/adapters/cleaner"
	"li-insights/internal/adapters/llm"
	"li-insights/internal/adapters/repo"
	"li-insights/internal/domain"
	"li-insights/internal/infra/config"
	"li-insights/internal/infra/db"
	httpinfra "li-insights/internal/infra/http"
	applog "li-insights/internal/infra/log"
	"li-insights/internal/infra/metrics"
	"li-insights/internal/infra/queue"
	"li-insights/internal/usecase/deconstruct"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv, "api")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: нет подключения к БД")
	}
	defer pool.Close()
	analyses := repo.NewPostgres(pool)

	jobs, err := buildQueue(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: не удалось инициализировать очередь")
	}

	h := &handler{
		log:          logger,
		analyses:     analyses,
		jobs:         jobs,
		normalizer:   cleaner.New(),
		deconstruct:  deconstruct.NewService(llm.Select(cfg.LLM), logger),
		defaultLimit: cfg.Analysis.PostsLimit,
	}

	srv := httpinfra.NewServer(logger)
	srv.Router.Route("/api/v1/analyses", func(r chi.Router) {
		r.Post("/", h.createAnalysis)
		r.Get("/", h.listAnalyses)
		r.Get("/{id}", h.getAnalysis)
	})
	srv.Router.Post("/api/v1/deconstruct", h.deconstructPost)

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), ":9090")

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("api: сервер остановлен")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
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

type handler struct {
	log          zerolog.Logger
	analyses     domain.AnalysisRepo
	jobs         domain.AnalysisQueue
	normalizer   *cleaner.Normalizer
	deconstruct  *deconstruct.Service
	defaultLimit int
}

type createAnalysisRequest struct {
	ProfileURL string `json:"profile_url"`
	Limit      int    `json:"limit"`
	SkipAI     bool   `json:"skip_ai"`
	ChatID     int64  `json:"chat_id"`
}

func (h *handler) createAnalysis(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req createAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validProfileURL(req.ProfileURL) {
		writeError(w, http.StatusBadRequest, "profile_url must be a LinkedIn profile link")
		return
	}
	if req.Limit <= 0 {
		req.Limit = h.defaultLimit
	}

	job := domain.AnalysisJob{
		ID:          uuid.NewString(),
		ProfileURL:  req.ProfileURL,
		Limit:       req.Limit,
		SkipAI:      req.SkipAI,
		ChatID:      req.ChatID,
		RequestedAt: time.Now().UTC(),
		Cause:       domain.AnalysisCauseManual,
	}
	if err := h.jobs.Enqueue(r.Context(), job); err != nil {
		h.log.Error().Err(err).Str("profile", req.ProfileURL).Msg("api: не удалось поставить задачу")
		writeError(w, http.StatusInternalServerError, "failed to enqueue analysis")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"job_id": job.ID})
}

func (h *handler) getAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	stored, err := h.analyses.GetAnalysis(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAnalysisNotFound) {
			writeError(w, http.StatusNotFound, "analysis not found")
			return
		}
		h.log.Error().Err(err).Str("id", id).Msg("api: не удалось прочитать отчёт")
		writeError(w, http.StatusInternalServerError, "failed to load analysis")
		return
	}
	writeJSON(w, stored)
}

func (h *handler) listAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	items, err := h.analyses.ListRecentAnalyses(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("api: не удалось получить список отчётов")
		writeError(w, http.StatusInternalServerError, "failed to list analyses")
		return
	}
	if items == nil {
		items = []domain.StoredAnalysis{}
	}
	writeJSON(w, map[string]any{"analyses": items})
}

func (h *handler) deconstructPost(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var raw domain.RawPost
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	posts, _, err := h.normalizer.Normalize([]domain.RawPost{raw}, 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "post has no analyzable content")
		return
	}
	writeJSON(w, h.deconstruct.Deconstruct(r.Context(), posts[0]))
}

func validProfileURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return false
	}
	return strings.Contains(parsed.Host, "linkedin.com")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
