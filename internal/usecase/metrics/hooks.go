package metrics

import (
	"sort"
	"strings"

	"li-insights/internal/domain"
)

// AnalyzeHooks строит детерминированный разбор зацепок: среднюю длину,
// распределение по типам, долю срочности и самые частые слова.
func AnalyzeHooks(posts []domain.Post) domain.HookAnalysis {
	if len(posts) == 0 {
		return domain.HookAnalysis{}
	}

	hooks := make([]string, len(posts))
	for i, p := range posts {
		hooks[i] = ExtractHook(p.Text)
	}

	totalWords := 0
	for _, h := range hooks {
		totalWords += len(splitWords(h))
	}

	type agg struct {
		count          int
		totalReactions int
	}
	typeMap := map[domain.HookType]*agg{}
	var typeOrder []domain.HookType
	urgencyCount := 0
	firstWordFreq := map[string]int{}
	var firstWordOrder []string
	hookWordFreq := map[string]int{}
	var hookWordOrder []string

	for i, h := range hooks {
		t := ClassifyHookType(h)
		if typeMap[t] == nil {
			typeMap[t] = &agg{}
			typeOrder = append(typeOrder, t)
		}
		typeMap[t].count++
		typeMap[t].totalReactions += posts[i].NumLikes

		if urgencyRe.MatchString(h) {
			urgencyCount++
		}

		if words := splitWords(h); len(words) > 0 {
			fw := nonAlphaRe.ReplaceAllString(strings.ToLower(words[0]), "")
			if fw != "" {
				if _, seen := firstWordFreq[fw]; !seen {
					firstWordOrder = append(firstWordOrder, fw)
				}
				firstWordFreq[fw]++
			}
		}

		for _, w := range contentWords(h) {
			if _, seen := hookWordFreq[w]; !seen {
				hookWordOrder = append(hookWordOrder, w)
			}
			hookWordFreq[w]++
		}
	}

	breakdown := make([]domain.HookTypeBreakdown, 0, len(typeOrder))
	for _, t := range typeOrder {
		a := typeMap[t]
		breakdown = append(breakdown, domain.HookTypeBreakdown{
			Type:         t,
			Count:        a.count,
			Percentage:   float64(roundInt(float64(a.count) / float64(len(hooks)) * 100)),
			AvgReactions: float64(roundInt(float64(a.totalReactions) / float64(a.count))),
		})
	}
	sort.SliceStable(breakdown, func(a, b int) bool { return breakdown[a].Count > breakdown[b].Count })

	return domain.HookAnalysis{
		AvgHookLength: float64(roundInt(float64(totalWords) / float64(len(hooks)))),
		HookTypes:     breakdown,
		UrgencyRate:   float64(roundInt(float64(urgencyCount) / float64(len(hooks)) * 100)),
		TopFirstWords: topWords(firstWordFreq, firstWordOrder, 10),
		TopHookWords:  topWords(hookWordFreq, hookWordOrder, 10),
	}
}
