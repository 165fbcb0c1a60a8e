package analytics

import (
	"time"

	"github.com/readraise/insights/internal/model"
)

// BuildHeatmap buckets events per calendar day over [now-days, now] and
// classifies each day by raw event count. Thresholds are fixed: 0 low,
// 1-3 medium, 4-7 high, 8+ very high.
func BuildHeatmap(events []model.ActivityEvent, days int, now time.Time) model.Heatmap {
	start := dateOnly(now).AddDate(0, 0, -days)
	end := dateOnly(now)

	counts := map[string]int{}
	order := make([]string, 0, days+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := dayKey(d)
		order = append(order, key)
		counts[key] = 0
	}
	for _, e := range events {
		key := dayKey(e.CreatedAt)
		if _, ok := counts[key]; ok {
			counts[key]++
		}
	}

	hm := model.Heatmap{
		Timeframe:   model.Timeframe{From: start, To: now},
		Cells:       make([]model.HeatmapCell, 0, len(order)),
		GeneratedAt: now,
	}
	for _, key := range order {
		hm.Cells = append(hm.Cells, model.HeatmapCell{
			Date:  key,
			Value: counts[key],
			Level: heatLevel(counts[key]),
		})
	}
	return hm
}

func heatLevel(count int) string {
	switch {
	case count == 0:
		return model.HeatLow
	case count <= 3:
		return model.HeatMedium
	case count <= 7:
		return model.HeatHigh
	default:
		return model.HeatVeryHigh
	}
}
