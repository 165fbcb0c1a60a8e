package analytics

import (
	"math"
	"strconv"
	"time"

	"github.com/readraise/insights/internal/model"
)

const (
	// DefaultWindowDays is used when no window is requested.
	DefaultWindowDays = 30

	// allWindowDays is the fixed lookback substituted for "all" on chart
	// variants.
	allWindowDays = 365
)

// ParseWindowDays interprets a raw dateRange parameter: empty means the
// default, "all" means the fixed long lookback, anything else must be a
// positive day count.
func ParseWindowDays(raw string) (int, error) {
	switch raw {
	case "":
		return DefaultWindowDays, nil
	case "all":
		return allWindowDays, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, model.ErrValidation
	}
	return n, nil
}

// BuildActivityReport buckets activity events into one dense bucket per
// calendar day over [now-days, now], both endpoints included. userCreatedAt
// supplies account-creation dates for the new-user counts.
func BuildActivityReport(events []model.ActivityEvent, userCreatedAt map[string]time.Time, days int, now time.Time) model.ActivityReport {
	start := dateOnly(now).AddDate(0, 0, -days)
	end := dateOnly(now)

	type bucket struct {
		active       map[string]struct{}
		newUsers     map[string]struct{}
		sessions     int
		totalSeconds int
	}
	order := make([]string, 0, days+1)
	buckets := map[string]*bucket{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := dayKey(d)
		order = append(order, key)
		buckets[key] = &bucket{active: map[string]struct{}{}, newUsers: map[string]struct{}{}}
	}

	windowActive := map[string]struct{}{}
	totalSessions := 0
	totalSeconds := 0
	for _, e := range events {
		b, ok := buckets[dayKey(e.CreatedAt)]
		if !ok {
			continue
		}
		b.active[e.UserID] = struct{}{}
		windowActive[e.UserID] = struct{}{}
		b.sessions++
		totalSessions++
		if e.DurationSeconds != nil {
			b.totalSeconds += *e.DurationSeconds
			totalSeconds += *e.DurationSeconds
		}
		if created, ok := userCreatedAt[e.UserID]; ok && dayKey(created) == dayKey(e.CreatedAt) {
			b.newUsers[e.UserID] = struct{}{}
		}
	}

	report := model.ActivityReport{
		Timeframe:   model.Timeframe{From: start, To: now},
		DataPoints:  make([]model.ActivityDataPoint, 0, len(order)),
		GeneratedAt: now,
	}
	peakDay := ""
	peakActive := 0
	for _, key := range order {
		b := buckets[key]
		report.DataPoints = append(report.DataPoints, model.ActivityDataPoint{
			Date:                  key,
			ActiveUsers:           len(b.active),
			NewUsers:              len(b.newUsers),
			Sessions:              b.sessions,
			TotalSeconds:          b.totalSeconds,
			AverageSessionMinutes: averageSessionMinutes(b.totalSeconds, b.sessions),
		})
		if len(b.active) > peakActive {
			peakActive = len(b.active)
			peakDay = key
		}
	}
	report.Summary = model.ActivitySummary{
		TotalActiveUsers:      len(windowActive),
		TotalSessions:         totalSessions,
		AverageSessionMinutes: averageSessionMinutes(totalSeconds, totalSessions),
		PeakDay:               peakDay,
		PeakActiveUsers:       peakActive,
	}
	return report
}

// CardsInput carries the independently fetched record sets for the metric
// cards: the current period, the equal-length previous period, and the
// lesson-progress rows behind the alignment score.
type CardsInput struct {
	Days           int
	CurrentEvents  []model.ActivityEvent
	PreviousEvents []model.ActivityEvent
	CurrentXP      []model.XpLogEntry
	PreviousXP     []model.XpLogEntry
	LessonProgress []model.LessonProgress
}

// BuildMetricsCards aggregates the current and previous periods the same way
// and derives period-over-period growth for each card. Alignment growth is
// fixed at 0 (trend not applicable upstream).
func BuildMetricsCards(in CardsInput, now time.Time) model.MetricsCards {
	cur := periodTotals(in.CurrentEvents, in.CurrentXP, in.Days)
	prev := periodTotals(in.PreviousEvents, in.PreviousXP, in.Days)
	alignment := AlignmentScore(in.LessonProgress)

	return model.MetricsCards{
		Sessions:              card(cur.sessions, prev.sessions),
		ActiveUsers:           card(cur.activeUsers, prev.activeUsers),
		AverageSessionMinutes: card(cur.avgSessionMinutes, prev.avgSessionMinutes),
		XPVelocity:            card(cur.xpPerDay, prev.xpPerDay),
		AlignmentScore:        model.MetricCard{Current: alignment, Previous: alignment, GrowthPercent: 0},
		GeneratedAt:           now,
	}
}

type periodAggregate struct {
	sessions          float64
	activeUsers       float64
	avgSessionMinutes float64
	xpPerDay          float64
}

func periodTotals(events []model.ActivityEvent, xpLogs []model.XpLogEntry, days int) periodAggregate {
	active := map[string]struct{}{}
	sessions := 0
	seconds := 0
	for _, e := range events {
		active[e.UserID] = struct{}{}
		sessions++
		if e.DurationSeconds != nil {
			seconds += *e.DurationSeconds
		}
	}
	xp := 0
	for _, e := range xpLogs {
		xp += e.XPEarned
	}
	if days < 1 {
		days = 1
	}
	return periodAggregate{
		sessions:          float64(sessions),
		activeUsers:       float64(len(active)),
		avgSessionMinutes: averageSessionMinutes(seconds, sessions),
		xpPerDay:          round1(float64(xp) / float64(days)),
	}
}

func card(current, previous float64) model.MetricCard {
	return model.MetricCard{
		Current:       current,
		Previous:      previous,
		GrowthPercent: CalculateGrowth(current, previous),
	}
}

// CalculateGrowth returns the period-over-period change as a rounded percent.
// A zero previous period reports 100 when anything happened, else 0.
func CalculateGrowth(current, previous float64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round((current - previous) / previous * 100))
}

// AlignmentScore is the percentage of lesson-progress rows where the article
// sat within one level of the student, rounded to a whole percent.
func AlignmentScore(progress []model.LessonProgress) float64 {
	if len(progress) == 0 {
		return 0
	}
	aligned := 0
	for _, p := range progress {
		if math.Abs(p.ArticleLevel-p.UserLevel) <= 1 {
			aligned++
		}
	}
	return math.Round(float64(aligned) / float64(len(progress)) * 100)
}

// AssignmentCompletion summarises status rows into a completion rate.
func AssignmentCompletion(assignments []model.Assignment, statuses []model.AssignmentStatus) model.AssignmentStats {
	stats := model.AssignmentStats{TotalAssignments: len(assignments), TotalStatuses: len(statuses)}
	for _, s := range statuses {
		if s.Status == "completed" {
			stats.Completed++
		}
	}
	if stats.TotalStatuses > 0 {
		stats.CompletionRate = math.Round(float64(stats.Completed) / float64(stats.TotalStatuses) * 100)
	}
	return stats
}

// averageSessionMinutes converts accumulated seconds into a one-decimal
// minutes-per-session figure; 0 when there were no sessions.
func averageSessionMinutes(totalSeconds, sessions int) float64 {
	if sessions == 0 {
		return 0
	}
	return round1(float64(totalSeconds) / float64(sessions) / 60)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
