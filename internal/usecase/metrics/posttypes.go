package metrics

import (
	"sort"

	"li-insights/internal/domain"
)

// ComputePostTypes группирует посты по формату. Порядок групп — по
// убыванию количества, при равенстве сохраняется порядок первого
// появления формата в коллекции.
func ComputePostTypes(posts []domain.Post) []domain.PostTypeStats {
	if len(posts) == 0 {
		return nil
	}

	type group struct {
		count         int
		totalLikes    int
		totalComments int
	}
	groups := map[domain.PostType]*group{}
	var order []domain.PostType
	for _, p := range posts {
		g, ok := groups[p.Type]
		if !ok {
			g = &group{}
			groups[p.Type] = g
			order = append(order, p.Type)
		}
		g.count++
		g.totalLikes += p.NumLikes
		g.totalComments += p.NumComments
	}

	stats := make([]domain.PostTypeStats, 0, len(order))
	for _, t := range order {
		g := groups[t]
		stats = append(stats, domain.PostTypeStats{
			Type:         t,
			Count:        g.count,
			Percentage:   float64(roundInt(float64(g.count) / float64(len(posts)) * 100)),
			AvgReactions: float64(roundInt(float64(g.totalLikes) / float64(g.count))),
			AvgComments:  float64(roundInt(float64(g.totalComments) / float64(g.count))),
		})
	}
	sort.SliceStable(stats, func(a, b int) bool { return stats[a].Count > stats[b].Count })
	return stats
}
