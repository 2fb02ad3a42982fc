package metrics

import (
	"math"
	"sort"
	"time"

	"li-insights/internal/domain"
)

const msPerDay = 24 * 60 * 60 * 1000

// ComputeCadence считает частоту публикаций. Посты без валидного
// времени в расчёт периода не входят, но учитываются в totalPosts.
func ComputeCadence(posts []domain.Post) domain.CadenceMetrics {
	if len(posts) == 0 {
		return domain.CadenceMetrics{}
	}

	var timestamps []int64
	for _, p := range posts {
		if p.TimestampValid {
			timestamps = append(timestamps, p.PublishedAt.UnixMilli())
		}
	}
	if len(timestamps) == 0 {
		return domain.CadenceMetrics{TotalPosts: len(posts)}
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	oldest := timestamps[0]
	newest := timestamps[len(timestamps)-1]
	weeksCovered := round1(float64(newest-oldest) / float64(7*msPerDay))

	var totalGap int64
	for i := 1; i < len(timestamps); i++ {
		totalGap += timestamps[i] - timestamps[i-1]
	}
	avgGapMs := 0.0
	if len(timestamps) > 1 {
		avgGapMs = float64(totalGap) / float64(len(timestamps)-1)
	}

	postsPerWeek := 0.0
	if weeksCovered > 0 {
		postsPerWeek = round1(float64(len(posts)) / weeksCovered)
	}

	return domain.CadenceMetrics{
		TotalPosts:          len(posts),
		PeriodStart:         time.UnixMilli(oldest).UTC().Format("2006-01-02"),
		PeriodEnd:           time.UnixMilli(newest).UTC().Format("2006-01-02"),
		WeeksCovered:        int(math.Ceil(weeksCovered)),
		PostsPerWeek:        postsPerWeek,
		AvgDaysBetweenPosts: round1(avgGapMs / float64(msPerDay)),
	}
}
