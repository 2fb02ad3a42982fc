package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	ScrapeErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scrape_errors_total",
		Help: "Ошибки при выгрузке постов профиля",
	})
	AnalysisBuildSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "analysis_build_seconds",
		Help:    "Время построения полного отчёта",
		Buckets: prometheus.DefBuckets,
	})
	AnalysisRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analysis_requests_total",
		Help: "Общее количество запросов на построение отчёта",
	})
	InsightFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_fallbacks_total",
		Help: "Количество инсайтов, заменённых плейсхолдером",
	}, []string{"kind"})
	NotifySendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notify_send_errors_total",
		Help: "Ошибки отправки уведомлений о готовом отчёте",
	})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 45, 60, 90, 120, 180, 240, 300},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})

	LLMGenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_generation_duration_seconds",
		Help:    "Длительность генерации ответа LLM",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	LLMTokensTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_tokens_total",
		Help: "Количество токенов, использованных LLM",
	}, []string{"model", "type"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		ScrapeErrors,
		AnalysisBuildSeconds,
		AnalysisRequestsTotal,
		InsightFallbacks,
		NotifySendErrors,
		NetworkRequestDuration,
		NetworkRequestTotal,
		LLMGenerationDuration,
		LLMTokensTotal,
	)
}

// ObserveNetworkRequest фиксирует длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	elapsed := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(elapsed)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveLLMGeneration фиксирует длительность генерации и расход токенов.
func ObserveLLMGeneration(model string, elapsed time.Duration, promptTokens, completionTokens, totalTokens int) {
	LLMGenerationDuration.WithLabelValues(model).Observe(elapsed.Seconds())
	LLMTokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	LLMTokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
	LLMTokensTotal.WithLabelValues(model, "total").Add(float64(totalTokens))
}

// IncInsightFallback учитывает подстановку плейсхолдера для вида инсайта.
func IncInsightFallback(kind string) {
	InsightFallbacks.WithLabelValues(kind).Inc()
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-ctx.Done():
		case <-shutdownCtx.Done():
		}
		shutdownTimeout, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
		cancel()
	}()
}
