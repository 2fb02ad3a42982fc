package metrics

import (
	"li-insights/internal/domain"
)

// ComputeSchedule строит распределение публикаций по дням недели и
// часам (UTC). Посты без валидного времени пропускаются. При равенстве
// побеждает день, встретившийся раньше, и меньший час.
func ComputeSchedule(posts []domain.Post) domain.ScheduleMetrics {
	postsByDay := map[string]int{}
	postsByHour := map[int]int{}

	type agg struct {
		total int
		count int
	}
	engByDay := map[string]*agg{}
	engByHour := map[int]*agg{}
	var dayOrder []string

	for _, p := range posts {
		if !p.TimestampValid {
			continue
		}
		t := p.PublishedAt.UTC()
		day := t.Weekday().String()
		hour := t.Hour()

		if _, seen := postsByDay[day]; !seen {
			dayOrder = append(dayOrder, day)
		}
		postsByDay[day]++
		postsByHour[hour]++

		if engByDay[day] == nil {
			engByDay[day] = &agg{}
		}
		engByDay[day].total += p.NumLikes
		engByDay[day].count++

		if engByHour[hour] == nil {
			engByHour[hour] = &agg{}
		}
		engByHour[hour].total += p.NumLikes
		engByHour[hour].count++
	}

	metrics := domain.ScheduleMetrics{
		PostsByDay:  postsByDay,
		PostsByHour: postsByHour,
		BestDay:     "N/A",
	}

	bestDayCount := 0
	for _, day := range dayOrder {
		if postsByDay[day] > bestDayCount {
			bestDayCount = postsByDay[day]
			metrics.BestDay = day
		}
	}
	bestHourCount := 0
	for hour := 0; hour < 24; hour++ {
		if postsByHour[hour] > bestHourCount {
			bestHourCount = postsByHour[hour]
			metrics.BestHour = hour
		}
	}

	metrics.HighestEngagementDay = "N/A"
	bestDayAvg := -1.0
	for _, day := range dayOrder {
		a := engByDay[day]
		avg := float64(a.total) / float64(a.count)
		if avg > bestDayAvg {
			bestDayAvg = avg
			metrics.HighestEngagementDay = day
		}
	}
	bestHourAvg := -1.0
	for hour := 0; hour < 24; hour++ {
		a := engByHour[hour]
		if a == nil {
			continue
		}
		avg := float64(a.total) / float64(a.count)
		if avg > bestHourAvg {
			bestHourAvg = avg
			metrics.HighestEngagementHour = hour
		}
	}
	return metrics
}
