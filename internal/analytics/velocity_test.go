package analytics

import (
	"testing"
	"time"

	"github.com/readraise/insights/internal/model"
)

var velocityNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func xpEntry(userID string, xp int, at time.Time) model.XpLogEntry {
	return model.XpLogEntry{EntryID: "e-" + at.Format("20060102150405"), UserID: userID, XPEarned: xp, ActivityType: "article_read", CreatedAt: at}
}

func TestComputeVelocity_NoActivity(t *testing.T) {
	user := model.User{UserID: "u1", XP: 250, Level: 1}
	m := ComputeVelocity(user, nil, velocityNow)

	if m.EMAVelocity != 0 {
		t.Errorf("emaVelocity = %v, want 0", m.EMAVelocity)
	}
	if m.ETADays != nil || m.ETADate != nil {
		t.Errorf("eta fields should be nil with no activity")
	}
	if m.ConfidenceBand != model.ConfidenceNone {
		t.Errorf("confidenceBand = %q, want %q", m.ConfidenceBand, model.ConfidenceNone)
	}
	if !m.IsLowSignal {
		t.Errorf("isLowSignal should be true with no activity")
	}
	if m.XPPerActiveDay7d != 0 || m.XPPerCalendarDay30d != 0 {
		t.Errorf("rates should all be zero, got %v and %v", m.XPPerActiveDay7d, m.XPPerCalendarDay30d)
	}
	if m.XPToNextLevel != 750 {
		t.Errorf("xpToNextLevel = %d, want 750", m.XPToNextLevel)
	}
}

func TestComputeVelocity_WindowsAreMonotonic(t *testing.T) {
	user := model.User{UserID: "u1", XP: 100, Level: 1}
	var logs []model.XpLogEntry
	for d := 0; d < 25; d++ {
		logs = append(logs, xpEntry("u1", 10+d, velocityNow.AddDate(0, 0, -d)))
	}
	m := ComputeVelocity(user, logs, velocityNow)

	if m.XPLast30d < m.XPLast7d {
		t.Errorf("xpLast30d (%d) must be >= xpLast7d (%d)", m.XPLast30d, m.XPLast7d)
	}
	if m.ActiveDays30 < m.ActiveDays7d {
		t.Errorf("activeDays30d (%d) must be >= activeDays7d (%d)", m.ActiveDays30, m.ActiveDays7d)
	}
}

func TestComputeVelocity_SteadyEarner(t *testing.T) {
	// Level 1 user at 400 XP earning exactly 100 XP/day for the last 10 days.
	user := model.User{UserID: "u1", XP: 400, Level: 1}
	var logs []model.XpLogEntry
	for d := 0; d < 10; d++ {
		logs = append(logs, xpEntry("u1", 100, velocityNow.AddDate(0, 0, -d)))
	}
	m := ComputeVelocity(user, logs, velocityNow)

	if m.XPToNextLevel != 600 {
		t.Fatalf("xpToNextLevel = %d, want 600", m.XPToNextLevel)
	}
	if m.XPLast30d != 1000 {
		t.Fatalf("xpLast30d = %d, want 1000", m.XPLast30d)
	}
	want30 := 1000.0 / 30
	if diff := m.XPPerCalendarDay30d - want30; diff > 0.01 || diff < -0.01 {
		t.Errorf("xpPerCalendarDay30d = %v, want ~%v", m.XPPerCalendarDay30d, want30)
	}

	// The EMA is seeded with the calendar-day average and folds toward the
	// observed 100 XP/day; after 10 days it sits between seed and 100, well
	// on its way to converging.
	if m.EMAVelocity <= m.XPPerCalendarDay30d || m.EMAVelocity >= 100 {
		t.Errorf("emaVelocity = %v, want in (%v, 100)", m.EMAVelocity, m.XPPerCalendarDay30d)
	}
	if m.EMAVelocity < 80 {
		t.Errorf("emaVelocity = %v, expected to have converged past 80", m.EMAVelocity)
	}

	if m.ETADays == nil {
		t.Fatal("etaDays should be set for a positive velocity")
	}
	approx := int(600/m.EMAVelocity) + 1
	if *m.ETADays < 1 || *m.ETADays > approx {
		t.Errorf("etaDays = %d, want finite positive around %d", *m.ETADays, approx)
	}
	if m.ETADate == nil || !m.ETADate.Equal(velocityNow.AddDate(0, 0, *m.ETADays)) {
		t.Errorf("etaDate should be now + etaDays")
	}
	if m.ConfidenceBand != model.ConfidenceHigh {
		t.Errorf("confidenceBand = %q, want high", m.ConfidenceBand)
	}
}

func TestComputeVelocity_ConfidenceBands(t *testing.T) {
	cases := []struct {
		activeDays int
		band       string
		lowSignal  bool
	}{
		{0, model.ConfidenceNone, true},
		{1, model.ConfidenceLow, true},
		{2, model.ConfidenceLow, true},
		{3, model.ConfidenceMedium, false},
		{5, model.ConfidenceHigh, false},
		{7, model.ConfidenceHigh, false},
	}
	for _, tc := range cases {
		var logs []model.XpLogEntry
		for d := 0; d < tc.activeDays; d++ {
			logs = append(logs, xpEntry("u1", 50, velocityNow.AddDate(0, 0, -d)))
		}
		m := ComputeVelocity(model.User{UserID: "u1", Level: 1}, logs, velocityNow)
		if m.ConfidenceBand != tc.band {
			t.Errorf("activeDays=%d: band = %q, want %q", tc.activeDays, m.ConfidenceBand, tc.band)
		}
		if m.IsLowSignal != tc.lowSignal {
			t.Errorf("activeDays=%d: isLowSignal = %v, want %v", tc.activeDays, m.IsLowSignal, tc.lowSignal)
		}
	}
}

func TestComputeVelocity_PessimisticBoundSkipped(t *testing.T) {
	// One huge day and one tiny day: sigma exceeds the EMA, so the
	// pessimistic divisor goes non-positive and that bound is dropped.
	user := model.User{UserID: "u1", XP: 0, Level: 1}
	logs := []model.XpLogEntry{
		xpEntry("u1", 1000, velocityNow.AddDate(0, 0, -20)),
		xpEntry("u1", 1, velocityNow.AddDate(0, 0, -1)),
	}
	m := ComputeVelocity(user, logs, velocityNow)

	if m.DailyStdDev <= m.EMAVelocity {
		t.Skipf("scenario did not produce sigma > ema (sigma=%v ema=%v)", m.DailyStdDev, m.EMAVelocity)
	}
	if m.ETADaysPessimistic != nil {
		t.Errorf("pessimistic bound should be skipped when velocity-sigma <= 0")
	}
	if m.ETADaysOptimistic == nil {
		t.Errorf("optimistic bound should still be present")
	}
}

func TestComputeVelocity_IgnoresFutureEntries(t *testing.T) {
	user := model.User{UserID: "u1", Level: 1}
	logs := []model.XpLogEntry{
		xpEntry("u1", 500, velocityNow.Add(time.Hour)),
		xpEntry("u1", 40, velocityNow.AddDate(0, 0, -2)),
	}
	m := ComputeVelocity(user, logs, velocityNow)
	if m.XPLast30d != 40 {
		t.Errorf("xpLast30d = %d, future entries must be excluded", m.XPLast30d)
	}
}

func TestStdDev(t *testing.T) {
	if got := stdDev([]float64{10}); got != 0 {
		t.Errorf("stdDev of single-point series = %v, want 0", got)
	}
	// Population stddev of {2, 4, 4, 4, 5, 5, 7, 9} is exactly 2.
	got := stdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if got < 1.999 || got > 2.001 {
		t.Errorf("stdDev = %v, want 2", got)
	}
}
