package model

import "time"

// CacheInfo marks whether a response was served from a cache. The platform
// reserved this field for a caching layer that was never wired in; it is
// always {cached:false} today and kept for response-shape compatibility.
type CacheInfo struct {
	Cached bool `json:"cached"`
}

// Timeframe is the half-open window a metric was computed over.
type Timeframe struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Confidence bands for the velocity estimate, derived from how many of the
// last 7 days the user was active on.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
	ConfidenceNone   = "none"
)

// VelocityMetrics is the per-user XP velocity estimate. Recomputed on every
// request; pure function of the user's XP log and "now".
type VelocityMetrics struct {
	UserID string `json:"userId"`

	XPLast7d     int `json:"xpLast7d"`
	XPLast30d    int `json:"xpLast30d"`
	ActiveDays7d int `json:"activeDays7d"`
	ActiveDays30 int `json:"activeDays30d"`

	XPPerActiveDay7d    float64 `json:"xpPerActiveDay7d"`
	XPPerCalendarDay7d  float64 `json:"xpPerCalendarDay7d"`
	XPPerActiveDay30d   float64 `json:"xpPerActiveDay30d"`
	XPPerCalendarDay30d float64 `json:"xpPerCalendarDay30d"`

	EMAVelocity float64 `json:"emaVelocity"`
	DailyStdDev float64 `json:"dailyStdDev"`

	CurrentXP     int `json:"currentXp"`
	Level         int `json:"level"`
	XPToNextLevel int `json:"xpToNextLevel"`
	NextLevelXP   int `json:"nextLevelXp"`

	// ETADays is nil when the smoothed velocity is zero. The optimistic
	// bound re-derives the ETA at velocity+1σ, the pessimistic bound at
	// velocity-1σ; a bound is nil when its divisor is not positive.
	ETADays            *int       `json:"etaDays"`
	ETADate            *time.Time `json:"etaDate"`
	ETADaysOptimistic  *int       `json:"etaDaysOptimistic"`
	ETADaysPessimistic *int       `json:"etaDaysPessimistic"`

	ConfidenceBand string `json:"confidenceBand"`
	IsLowSignal    bool   `json:"isLowSignal"`

	GeneratedAt time.Time `json:"generatedAt"`
	Cache       CacheInfo `json:"cache"`
}

// GenreEngagement is one genre's engagement profile for one user.
type GenreEngagement struct {
	Genre             string  `json:"genre"`
	TotalReads        int     `json:"totalReads"`
	Reads30d          int     `json:"reads30d"`
	Reads7d           int     `json:"reads7d"`
	QuizCompletions   int     `json:"quizCompletions"`
	XPTotal           int     `json:"xpTotal"`
	XP30d             int     `json:"xp30d"`
	ActiveDays        int     `json:"activeDays"`
	DailyActivityRate float64 `json:"dailyActivityRate"`
	Score             float64 `json:"score"`
}

// Recommendation types, in priority order.
const (
	RecommendationSimilar    = "similar"
	RecommendationLevelMatch = "level_match"
	RecommendationAdjacent   = "adjacent"
)

// GenreRecommendation suggests an unexplored genre. Confidence values are
// fixed per recommendation type, not learned.
type GenreRecommendation struct {
	Genre           string  `json:"genre"`
	Rationale       string  `json:"rationale"`
	Confidence      float64 `json:"confidence"`
	CEFRAppropriate bool    `json:"cefrAppropriate"`
	AdjacencyWeight float64 `json:"adjacencyWeight"`
	Type            string  `json:"recommendationType"`
}

// GenreMetrics is the full genre-engagement response for one user.
type GenreMetrics struct {
	UserID          string                `json:"userId"`
	Timeframe       Timeframe             `json:"timeframe"`
	Genres          []GenreEngagement     `json:"genres"`
	Recommendations []GenreRecommendation `json:"recommendations"`
	LevelHistogram  map[string]int        `json:"levelHistogram"`
	GeneratedAt     time.Time             `json:"generatedAt"`
	Cache           CacheInfo             `json:"cache"`
}

// ActivityDataPoint is one calendar day of the activity chart. The series is
// dense: a bucket exists for every day in the window, zeros included.
type ActivityDataPoint struct {
	Date                  string  `json:"date"` // YYYY-MM-DD, UTC
	ActiveUsers           int     `json:"activeUsers"`
	NewUsers              int     `json:"newUsers"`
	Sessions              int     `json:"sessions"`
	TotalSeconds          int     `json:"totalSeconds"`
	AverageSessionMinutes float64 `json:"averageSessionLength"`
}

// ActivitySummary totals the whole window. TotalActiveUsers is deduplicated
// across days, not the sum of the daily counts.
type ActivitySummary struct {
	TotalActiveUsers      int     `json:"totalActiveUsers"`
	TotalSessions         int     `json:"totalSessions"`
	AverageSessionMinutes float64 `json:"averageSessionLength"`
	PeakDay               string  `json:"peakDay"`
	PeakActiveUsers       int     `json:"peakActiveUsers"`
}

// ActivityReport is the dashboard activity chart payload.
type ActivityReport struct {
	Timeframe   Timeframe           `json:"timeframe"`
	DataPoints  []ActivityDataPoint `json:"dataPoints"`
	Summary     ActivitySummary     `json:"summary"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Cache       CacheInfo           `json:"cache"`
}

// MetricCard compares the last N days against the N days before that.
type MetricCard struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	GrowthPercent int     `json:"growthPercent"`
}

// MetricsCards is the dashboard cards payload. AlignmentScore growth is
// always 0 ("trend not applicable" upstream).
type MetricsCards struct {
	Sessions              MetricCard `json:"sessions"`
	ActiveUsers           MetricCard `json:"activeUsers"`
	AverageSessionMinutes MetricCard `json:"averageSessionLength"`
	XPVelocity            MetricCard `json:"xpVelocity"`
	AlignmentScore        MetricCard `json:"alignmentScore"`
	GeneratedAt           time.Time  `json:"generatedAt"`
	Cache                 CacheInfo  `json:"cache"`
}

// Heatmap intensity levels, keyed on raw per-day event counts with fixed
// thresholds (0, 1-3, 4-7, 8+).
const (
	HeatLow      = "low"
	HeatMedium   = "medium"
	HeatHigh     = "high"
	HeatVeryHigh = "very_high"
)

// HeatmapCell is one day of the calendar heatmap.
type HeatmapCell struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
	Level string `json:"level"`
}

// Heatmap is the calendar heatmap payload.
type Heatmap struct {
	Timeframe   Timeframe     `json:"timeframe"`
	Cells       []HeatmapCell `json:"cells"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Cache       CacheInfo     `json:"cache"`
}

// AssignmentStats summarises assignment completion across the population.
type AssignmentStats struct {
	TotalAssignments int     `json:"totalAssignments"`
	TotalStatuses    int     `json:"totalStatuses"`
	Completed        int     `json:"completed"`
	CompletionRate   float64 `json:"completionRate"` // rounded percent
}

// DashboardSummary combines every dashboard section. It is the only payload
// that degrades per section: a failed section is nil and recorded in Errors
// (value "Unknown" when no detail is available) so a partial dashboard can
// still render. Numbers are never fabricated.
type DashboardSummary struct {
	Cards       *MetricsCards     `json:"cards,omitempty"`
	Activity    *ActivityReport   `json:"activity,omitempty"`
	Heatmap     *Heatmap          `json:"heatmap,omitempty"`
	Assignments *AssignmentStats  `json:"assignments,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Cache       CacheInfo         `json:"cache"`
}
