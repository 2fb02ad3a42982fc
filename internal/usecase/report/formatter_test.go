package report

import (
	"strings"
	"testing"

	"li-insights/internal/domain"
)

func sampleAnalysis() domain.FullAnalysis {
	return domain.FullAnalysis{
		ProfileName:     "Jane Doe",
		ProfileHeadline: "Founder & CEO",
		Cadence: domain.CadenceMetrics{
			TotalPosts:   50,
			PeriodStart:  "2024-01-01",
			PeriodEnd:    "2024-06-01",
			PostsPerWeek: 2.3,
		},
		Engagement: domain.EngagementMetrics{AvgReactions: 120, AvgComments: 14},
		Schedule:   domain.ScheduleMetrics{BestDay: "Tuesday", BestHour: 9},
		TopPosts: []domain.ScoredPost{
			{Index: 0, EngagementScore: 3.1, Post: domain.Post{Text: "Is remote work dead?\nMore text", NumLikes: 300, URL: "https://example.com/p1"}},
		},
		Insights: domain.AIInsights{
			Executive: domain.ExecutiveSummary{Summary: "Острый вывод.", BigOpportunity: "Видео."},
			Pillars: []domain.ContentPillar{
				{Name: "AI & Automation", Description: "Практика", PercentageOfPosts: 40, EngagementLevel: domain.EngagementHigh},
			},
			HookStrategy: domain.Strategy{
				Formula:  "Задай вопрос.",
				Patterns: []domain.StrategyPattern{{Name: "Question", Description: "останавливает скролл", EngagementLevel: domain.EngagementHigh}},
			},
		},
		Warnings: []domain.Warning{{Kind: domain.WarnTruncated, Message: "коллекция усечена до 50"}},
	}
}

func TestFormatAnalysis(t *testing.T) {
	text := FormatAnalysis(sampleAnalysis())

	for _, fragment := range []string{
		"Jane Doe",
		"Founder &amp; CEO",
		"Острый вывод.",
		"💡 Видео.",
		"Постов: 50 (2024-01-01 — 2024-06-01)",
		"Лучший день: Tuesday",
		"AI &amp; Automation",
		"Задай вопрос.",
		`<a href="https://example.com/p1">Is remote work dead?</a>`,
		"коллекция усечена до 50",
	} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("в отчёте нет фрагмента %q:\n%s", fragment, text)
		}
	}
}

func TestFormatAnalysis_PlaceholderStrategiesHidden(t *testing.T) {
	a := sampleAnalysis()
	a.Insights.HookStrategy = domain.Strategy{Formula: "Analysis unavailable"}
	text := FormatAnalysis(a)
	if strings.Contains(text, "Analysis unavailable") {
		t.Fatal("плейсхолдерная стратегия не должна попадать в отчёт")
	}
	if strings.Contains(text, "Зацепки") {
		t.Fatal("секция зацепок без формулы должна скрываться")
	}
}

func TestFormatAnalysis_Empty(t *testing.T) {
	text := FormatAnalysis(domain.FullAnalysis{})
	if !strings.Contains(text, "Анализ LinkedIn-профиля") {
		t.Fatalf("даже пустой отчёт должен иметь заголовок: %q", text)
	}
}
