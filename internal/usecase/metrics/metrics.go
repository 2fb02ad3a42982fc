// Package metrics считает детерминированные метрики по нормализованной
// коллекции постов. Все функции чистые: одинаковый вход даёт побайтово
// одинаковый результат, внешних вызовов и часов здесь нет.
package metrics

import (
	"math"
	"sort"

	"li-insights/internal/domain"
)

// Bundle — все детерминированные метрики одного прогона.
type Bundle struct {
	Cadence       domain.CadenceMetrics
	Engagement    domain.EngagementMetrics
	PostTypes     []domain.PostTypeStats
	Schedule      domain.ScheduleMetrics
	ScoredPosts   []domain.ScoredPost
	TextPatterns  domain.TextPatternMetrics
	WordFrequency []domain.WordCount
	HookAnalysis  domain.HookAnalysis
	CTAAnalysis   domain.CTAAnalysis
}

// ComputeAll считает полный набор метрик.
func ComputeAll(posts []domain.Post) Bundle {
	return Bundle{
		Cadence:       ComputeCadence(posts),
		Engagement:    ComputeEngagement(posts),
		PostTypes:     ComputePostTypes(posts),
		Schedule:      ComputeSchedule(posts),
		ScoredPosts:   ScoreAndRank(posts),
		TextPatterns:  ComputeTextPatterns(posts),
		WordFrequency: ComputeWordFrequency(posts),
		HookAnalysis:  AnalyzeHooks(posts),
		CTAAnalysis:   AnalyzeCTAs(posts),
	}
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 != 0 {
		return sorted[mid]
	}
	return math.Round((sorted[mid-1] + sorted[mid]) / 2)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
