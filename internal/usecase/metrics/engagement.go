package metrics

import (
	"sort"

	"li-insights/internal/domain"
)

// ComputeEngagement агрегирует реакции по коллекции.
func ComputeEngagement(posts []domain.Post) domain.EngagementMetrics {
	if len(posts) == 0 {
		return domain.EngagementMetrics{}
	}

	likes := make([]float64, 0, len(posts))
	comments := make([]float64, 0, len(posts))
	var totalLikes, totalComments, totalShares int
	for _, p := range posts {
		likes = append(likes, float64(p.NumLikes))
		comments = append(comments, float64(p.NumComments))
		totalLikes += p.NumLikes
		totalComments += p.NumComments
		totalShares += p.NumShares
	}

	count := float64(len(posts))
	return domain.EngagementMetrics{
		TotalReactions:  totalLikes,
		TotalComments:   totalComments,
		TotalReposts:    totalShares,
		AvgReactions:    float64(roundInt(float64(totalLikes) / count)),
		AvgComments:     float64(roundInt(float64(totalComments) / count)),
		AvgReposts:      float64(roundInt(float64(totalShares) / count)),
		MedianReactions: median(likes),
		MedianComments:  median(comments),
	}
}

// ScoreAndRank присваивает каждому посту две оценки и два ранга.
// engagementScore — взвешенная вовлечённость, нормированная на медиану
// по коллекции; ageAdjustedScore дополнительно умножается на линейный
// возрастной коэффициент от 0.5 у старейшего поста до 1.0 у новейшего.
// Посты без валидного времени получают коэффициент 1.0. Результат в
// исходном порядке коллекции.
func ScoreAndRank(posts []domain.Post) []domain.ScoredPost {
	if len(posts) == 0 {
		return nil
	}

	weighted := make([]float64, len(posts))
	for i, p := range posts {
		weighted[i] = p.WeightedEngagement()
	}
	med := median(weighted)
	if med <= 0 {
		med = 1
	}

	var oldest, newest int64
	haveValid := false
	for _, p := range posts {
		if !p.TimestampValid {
			continue
		}
		ts := p.PublishedAt.UnixMilli()
		if !haveValid {
			oldest, newest = ts, ts
			haveValid = true
			continue
		}
		if ts < oldest {
			oldest = ts
		}
		if ts > newest {
			newest = ts
		}
	}

	scored := make([]domain.ScoredPost, len(posts))
	for i, p := range posts {
		score := weighted[i] / med
		decay := 1.0
		if p.TimestampValid && haveValid && newest > oldest {
			ts := p.PublishedAt.UnixMilli()
			decay = 0.5 + 0.5*float64(ts-oldest)/float64(newest-oldest)
		}
		scored[i] = domain.ScoredPost{
			Index:            i,
			Post:             p,
			EngagementScore:  score,
			AgeAdjustedScore: score * decay,
		}
	}

	assignRanks(scored, func(sp domain.ScoredPost) float64 { return sp.EngagementScore },
		func(sp *domain.ScoredPost, rank int) { sp.Rank = rank })
	assignRanks(scored, func(sp domain.ScoredPost) float64 { return sp.AgeAdjustedScore },
		func(sp *domain.ScoredPost, rank int) { sp.AgeAdjustedRank = rank })
	return scored
}

// assignRanks присваивает ранги от 1 (лучший) по убыванию оценки.
// Сортировка стабильная: при равенстве раньше стоящий пост получает
// лучший ранг.
func assignRanks(scored []domain.ScoredPost, score func(domain.ScoredPost) float64, set func(*domain.ScoredPost, int)) {
	order := make([]int, len(scored))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return score(scored[order[a]]) > score(scored[order[b]])
	})
	for rank, idx := range order {
		set(&scored[idx], rank+1)
	}
}

// TopPosts возвращает n лучших постов по рангу.
func TopPosts(scored []domain.ScoredPost, n int) []domain.ScoredPost {
	return sliceByRank(scored, n, func(sp domain.ScoredPost) int { return sp.Rank })
}

// WorstPosts возвращает n худших постов по рангу.
func WorstPosts(scored []domain.ScoredPost, n int) []domain.ScoredPost {
	out := sliceByRank(scored, len(scored), func(sp domain.ScoredPost) int { return sp.Rank })
	if n > len(out) {
		n = len(out)
	}
	return out[len(out)-n:]
}

func sliceByRank(scored []domain.ScoredPost, n int, rank func(domain.ScoredPost) int) []domain.ScoredPost {
	out := make([]domain.ScoredPost, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(a, b int) bool { return rank(out[a]) < rank(out[b]) })
	if n > len(out) {
		n = len(out)
	}
	return out[:n]
}
