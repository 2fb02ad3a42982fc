package report

import (
	"fmt"
	"html"
	"strings"

	"li-insights/internal/domain"
)

// FormatAnalysis формирует текстовое представление отчёта для отправки
// пользователю.
func FormatAnalysis(a domain.FullAnalysis) string {
	var sections []string

	title := "📊 <b>Анализ LinkedIn-профиля</b>"
	if name := strings.TrimSpace(a.ProfileName); name != "" {
		title += "\n<b>" + escapeHTML(name) + "</b>"
		if headline := strings.TrimSpace(a.ProfileHeadline); headline != "" {
			title += " — " + escapeHTML(headline)
		}
	}
	sections = append(sections, title)

	if summary := strings.TrimSpace(a.Insights.Executive.Summary); summary != "" {
		section := "🧭 <b>Главный вывод</b>\n" + escapeHTML(summary)
		if opp := strings.TrimSpace(a.Insights.Executive.BigOpportunity); opp != "" {
			section += "\n\n💡 " + escapeHTML(opp)
		}
		sections = append(sections, section)
	}

	if cadence := buildCadenceSection(a); cadence != "" {
		sections = append(sections, cadence)
	}
	if pillars := buildPillarsSection(a.Insights.Pillars); pillars != "" {
		sections = append(sections, pillars)
	}
	if hooks := buildStrategySection("🪝 <b>Зацепки</b>", a.Insights.HookStrategy); hooks != "" {
		sections = append(sections, hooks)
	}
	if ctas := buildStrategySection("📣 <b>Призывы к действию</b>", a.Insights.CTAStrategy); ctas != "" {
		sections = append(sections, ctas)
	}
	if top := buildTopPostsSection(a.TopPosts); top != "" {
		sections = append(sections, top)
	}
	if warnings := buildWarningsSection(a.Warnings); warnings != "" {
		sections = append(sections, warnings)
	}

	return strings.TrimSpace(strings.Join(sections, "\n\n"))
}

func buildCadenceSection(a domain.FullAnalysis) string {
	c := a.Cadence
	if c.TotalPosts == 0 {
		return ""
	}
	var builder strings.Builder
	builder.WriteString("📅 <b>Ритм публикаций</b>")
	fmt.Fprintf(&builder, "\nПостов: %d", c.TotalPosts)
	if c.PeriodStart != "" {
		fmt.Fprintf(&builder, " (%s — %s)", c.PeriodStart, c.PeriodEnd)
	}
	if c.PostsPerWeek > 0 {
		fmt.Fprintf(&builder, "\nЧастота: %.1f в неделю", c.PostsPerWeek)
	}
	if a.Schedule.BestDay != "" && a.Schedule.BestDay != "N/A" {
		fmt.Fprintf(&builder, "\nЛучший день: %s, лучший час: %d:00 UTC", a.Schedule.BestDay, a.Schedule.BestHour)
	}
	fmt.Fprintf(&builder, "\nРеакций в среднем: %.0f, комментариев: %.0f", a.Engagement.AvgReactions, a.Engagement.AvgComments)
	return builder.String()
}

func buildPillarsSection(pillars []domain.ContentPillar) string {
	if len(pillars) == 0 {
		return ""
	}
	var builder strings.Builder
	builder.WriteString("🏛 <b>Контентные колонны</b>")
	for _, p := range pillars {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		fmt.Fprintf(&builder, "\n• <b>%s</b> — %.0f%%, вовлечённость %s", escapeHTML(name), p.PercentageOfPosts, levelLabel(p.EngagementLevel))
		if desc := strings.TrimSpace(p.Description); desc != "" {
			builder.WriteString("\n  " + escapeHTML(desc))
		}
	}
	return strings.TrimSpace(builder.String())
}

func buildStrategySection(title string, s domain.Strategy) string {
	formula := strings.TrimSpace(s.Formula)
	if formula == "" || formula == "Analysis unavailable" {
		return ""
	}
	var builder strings.Builder
	builder.WriteString(title)
	builder.WriteString("\n" + escapeHTML(formula))
	for _, p := range s.Patterns {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		builder.WriteString("\n• " + escapeHTML(name))
		if desc := strings.TrimSpace(p.Description); desc != "" {
			builder.WriteString(" — " + escapeHTML(desc))
		}
	}
	return strings.TrimSpace(builder.String())
}

func buildTopPostsSection(top []domain.ScoredPost) string {
	if len(top) == 0 {
		return ""
	}
	var builder strings.Builder
	builder.WriteString("🏆 <b>Лучшие посты</b>")
	for _, sp := range top {
		label := firstLine(sp.Post.Text)
		if label == "" {
			label = fmt.Sprintf("Пост %d", sp.Index+1)
		}
		line := escapeHTML(label)
		if url := strings.TrimSpace(sp.Post.URL); url != "" {
			line = fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(url), line)
		}
		fmt.Fprintf(&builder, "\n• %s (оценка %.1f, %d реакций)", line, sp.EngagementScore, sp.Post.NumLikes)
	}
	return strings.TrimSpace(builder.String())
}

func buildWarningsSection(warnings []domain.Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "⚠️ <b>Предупреждения</b> (%d)", len(warnings))
	const maxShown = 5
	for i, w := range warnings {
		if i == maxShown {
			fmt.Fprintf(&builder, "\n… и ещё %d", len(warnings)-maxShown)
			break
		}
		builder.WriteString("\n- " + escapeHTML(w.Message))
	}
	return strings.TrimSpace(builder.String())
}

// firstLine возвращает первую непустую строку текста, усечённую до
// разумной длины для списка.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		runes := []rune(trimmed)
		if len(runes) > 80 {
			return string(runes[:80]) + "…"
		}
		return trimmed
	}
	return ""
}

func levelLabel(level domain.EngagementLevel) string {
	switch level {
	case domain.EngagementHigh:
		return "высокая"
	case domain.EngagementLow:
		return "низкая"
	default:
		return "средняя"
	}
}

func escapeHTML(s string) string {
	return html.EscapeString(s)
}
