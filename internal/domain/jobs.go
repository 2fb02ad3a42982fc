package domain

import (
	"context"
	"time"
)

// AnalysisJobCause описывает источник запроса на анализ.
type AnalysisJobCause string

const (
	// AnalysisCauseManual — анализ запрошен через API вручную.
	AnalysisCauseManual AnalysisJobCause = "manual"
	// AnalysisCauseScheduled — анализ запланирован по расписанию.
	AnalysisCauseScheduled AnalysisJobCause = "scheduled"
)

// AnalysisJob содержит информацию о задаче построения отчёта.
type AnalysisJob struct {
	ID          string           `json:"job_id"`
	ProfileURL  string           `json:"profile_url"`
	Limit       int              `json:"limit,omitempty"`
	SkipAI      bool             `json:"skip_ai,omitempty"`
	ChatID      int64            `json:"chat_id,omitempty"`
	RequestedAt time.Time        `json:"requested_at"`
	Cause       AnalysisJobCause `json:"cause"`
}

// AnalysisQueue описывает очередь задач на построение отчётов.
type AnalysisQueue interface {
	Enqueue(ctx context.Context, job AnalysisJob) error
	Pop(ctx context.Context) (AnalysisJob, error)
}

// AnalysisJobStatusRepo отвечает за идемпотентную обработку задач.
type AnalysisJobStatusRepo interface {
	// EnsureAnalysisJob регистрирует попытку обработки и возвращает признак
	// завершённости задачи и номер текущей попытки.
	EnsureAnalysisJob(jobID string) (done bool, attempt int, err error)
	// MarkAnalysisJobDone помечает задачу выполненной.
	MarkAnalysisJobDone(jobID string) error
}
