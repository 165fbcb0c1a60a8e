// Package analytics holds the pure computation core of the insights service:
// XP-velocity estimation, genre-engagement scoring, and dashboard rollups.
// Every function is a deterministic function of its input records and "now";
// nothing here touches storage or keeps state between calls.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/readraise/insights/internal/model"
)

const (
	// emaAlpha is the smoothing factor of a 14-period EMA (2 / (14+1)).
	emaAlpha = 2.0 / 15.0

	// xpPerLevel is the flat XP cost of every level.
	xpPerLevel = 1000
)

// ComputeVelocity estimates a user's XP-per-day velocity and the ETA to the
// next level from their XP log. Entries newer than now are ignored.
func ComputeVelocity(user model.User, logs []model.XpLogEntry, now time.Time) model.VelocityMetrics {
	m := model.VelocityMetrics{
		UserID:      user.UserID,
		CurrentXP:   user.XP,
		Level:       user.Level,
		NextLevelXP: user.Level * xpPerLevel,
		GeneratedAt: now,
	}
	if m.XPToNextLevel = user.Level*xpPerLevel - user.XP; m.XPToNextLevel < 0 {
		m.XPToNextLevel = 0
	}

	cut7 := now.AddDate(0, 0, -7)
	cut30 := now.AddDate(0, 0, -30)

	days7 := map[string]struct{}{}
	days30 := map[string]struct{}{}
	daily := map[string]int{}
	for _, e := range logs {
		if e.CreatedAt.Before(cut30) || e.CreatedAt.After(now) {
			continue
		}
		key := dayKey(e.CreatedAt)
		m.XPLast30d += e.XPEarned
		days30[key] = struct{}{}
		daily[key] += e.XPEarned
		if !e.CreatedAt.Before(cut7) {
			m.XPLast7d += e.XPEarned
			days7[key] = struct{}{}
		}
	}
	m.ActiveDays7d = len(days7)
	m.ActiveDays30 = len(days30)

	if m.ActiveDays7d > 0 {
		m.XPPerActiveDay7d = float64(m.XPLast7d) / float64(m.ActiveDays7d)
	}
	if m.ActiveDays30 > 0 {
		m.XPPerActiveDay30d = float64(m.XPLast30d) / float64(m.ActiveDays30)
	}
	m.XPPerCalendarDay7d = float64(m.XPLast7d) / 7
	m.XPPerCalendarDay30d = float64(m.XPLast30d) / 30

	series := dailySeries(daily)
	m.EMAVelocity = ema(series, m.XPPerCalendarDay30d)
	m.DailyStdDev = stdDev(series)

	if m.EMAVelocity > 0 {
		days := etaAt(m.XPToNextLevel, m.EMAVelocity)
		date := now.AddDate(0, 0, *days)
		m.ETADays = days
		m.ETADate = &date
		m.ETADaysOptimistic = etaAt(m.XPToNextLevel, m.EMAVelocity+m.DailyStdDev)
		m.ETADaysPessimistic = etaAt(m.XPToNextLevel, m.EMAVelocity-m.DailyStdDev)
	}

	switch {
	case m.ActiveDays7d >= 5:
		m.ConfidenceBand = model.ConfidenceHigh
	case m.ActiveDays7d >= 3:
		m.ConfidenceBand = model.ConfidenceMedium
	case m.ActiveDays7d >= 1:
		m.ConfidenceBand = model.ConfidenceLow
	default:
		m.ConfidenceBand = model.ConfidenceNone
	}
	m.IsLowSignal = m.ActiveDays7d < 3

	return m
}

// dailySeries flattens the per-day XP map into chronological order. Days with
// no entries are absent, not zero-filled.
func dailySeries(daily map[string]int) []float64 {
	keys := make([]string, 0, len(daily))
	for k := range daily {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	series := make([]float64, len(keys))
	for i, k := range keys {
		series[i] = float64(daily[k])
	}
	return series
}

// ema folds the series in date order into an exponential moving average
// seeded with the 30-day per-calendar-day rate.
func ema(series []float64, seed float64) float64 {
	v := seed
	for _, x := range series {
		v = emaAlpha*x + (1-emaAlpha)*v
	}
	return v
}

// stdDev is the population standard deviation of the daily series; 0 when
// fewer than 2 active days.
func stdDev(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	var sum float64
	for _, x := range series {
		sum += x
	}
	mean := sum / float64(len(series))
	var sq float64
	for _, x := range series {
		sq += (x - mean) * (x - mean)
	}
	return math.Sqrt(sq / float64(len(series)))
}

// etaAt re-derives the days-to-level at a given velocity, nil when the
// velocity is not positive.
func etaAt(xpToNext int, velocity float64) *int {
	if velocity <= 0 {
		return nil
	}
	d := int(math.Ceil(float64(xpToNext) / velocity))
	return &d
}
