package metrics

import (
	"sort"
	"strings"

	"li-insights/internal/domain"
)

var actionWords = []string{
	"comment", "follow", "dm", "save", "share", "repost", "click",
	"link", "join", "download", "grab", "get", "drop", "type", "reply",
	"tag", "send", "check", "access",
}

// AnalyzeCTAs строит детерминированный разбор призывов к действию.
// BestCTAType — тип с наибольшими средними реакциями, не считая None.
func AnalyzeCTAs(posts []domain.Post) domain.CTAAnalysis {
	if len(posts) == 0 {
		return domain.CTAAnalysis{BestCTAType: domain.CTANone}
	}

	type agg struct {
		count          int
		totalReactions int
	}
	typeMap := map[domain.CTAType]*agg{}
	var typeOrder []domain.CTAType
	actionFreq := map[string]int{}

	for _, p := range posts {
		cta := ExtractCTA(p.Text)
		t := ClassifyCTAType(cta)
		if typeMap[t] == nil {
			typeMap[t] = &agg{}
			typeOrder = append(typeOrder, t)
		}
		typeMap[t].count++
		typeMap[t].totalReactions += p.NumLikes

		lower := strings.ToLower(cta)
		for _, w := range actionWords {
			if strings.Contains(lower, w) {
				actionFreq[w]++
			}
		}
	}

	breakdown := make([]domain.CTATypeBreakdown, 0, len(typeOrder))
	for _, t := range typeOrder {
		a := typeMap[t]
		breakdown = append(breakdown, domain.CTATypeBreakdown{
			Type:         t,
			Count:        a.count,
			Percentage:   float64(roundInt(float64(a.count) / float64(len(posts)) * 100)),
			AvgReactions: float64(roundInt(float64(a.totalReactions) / float64(a.count))),
		})
	}
	sort.SliceStable(breakdown, func(a, b int) bool {
		return breakdown[a].AvgReactions > breakdown[b].AvgReactions
	})

	best := domain.CTANone
	for _, b := range breakdown {
		if b.Type != domain.CTANone {
			best = b.Type
			break
		}
	}

	noCTARate := 0.0
	if a := typeMap[domain.CTANone]; a != nil {
		noCTARate = float64(roundInt(float64(a.count) / float64(len(posts)) * 100))
	}

	return domain.CTAAnalysis{
		CTATypes:       breakdown,
		TopActionWords: topActionWords(actionFreq, 8),
		BestCTAType:    best,
		NoCTARate:      noCTARate,
	}
}

// topActionWords сортирует слова действия по убыванию частоты; ничьи
// решает фиксированный порядок списка actionWords.
func topActionWords(freq map[string]int, limit int) []domain.WordCount {
	var counts []domain.WordCount
	for _, w := range actionWords {
		if c, ok := freq[w]; ok {
			counts = append(counts, domain.WordCount{Word: w, Count: c})
		}
	}
	sort.SliceStable(counts, func(a, b int) bool { return counts[a].Count > counts[b].Count })
	if limit < len(counts) {
		counts = counts[:limit]
	}
	return counts
}
