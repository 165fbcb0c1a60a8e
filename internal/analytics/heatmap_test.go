package analytics

import (
	"testing"
	"time"

	"github.com/readraise/insights/internal/model"
)

func TestBuildHeatmap_EmptyWindowIsAllLow(t *testing.T) {
	now := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	hm := BuildHeatmap(nil, 7, now)

	if len(hm.Cells) != 8 {
		t.Fatalf("cells = %d, want 8 (endpoints included)", len(hm.Cells))
	}
	for _, c := range hm.Cells {
		if c.Level != model.HeatLow || c.Value != 0 {
			t.Errorf("cell %s = %s/%d, want low/0", c.Date, c.Level, c.Value)
		}
	}
}

func TestBuildHeatmap_Thresholds(t *testing.T) {
	cases := []struct {
		count int
		want  string
	}{
		{0, model.HeatLow},
		{1, model.HeatMedium},
		{3, model.HeatMedium},
		{4, model.HeatHigh},
		{7, model.HeatHigh},
		{8, model.HeatVeryHigh},
		{25, model.HeatVeryHigh},
	}
	for _, tc := range cases {
		if got := heatLevel(tc.count); got != tc.want {
			t.Errorf("heatLevel(%d) = %s, want %s", tc.count, got, tc.want)
		}
	}
}

func TestBuildHeatmap_CountsEvents(t *testing.T) {
	now := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	busy := now.AddDate(0, 0, -2)
	var events []model.ActivityEvent
	for i := 0; i < 9; i++ {
		events = append(events, event("u1", busy.Add(time.Duration(i)*time.Minute), 0))
	}
	events = append(events, event("u2", now.AddDate(0, 0, -30), 0)) // outside window

	hm := BuildHeatmap(events, 7, now)
	found := false
	for _, c := range hm.Cells {
		if c.Date == dayKey(busy) {
			found = true
			if c.Value != 9 || c.Level != model.HeatVeryHigh {
				t.Errorf("busy day = %d/%s, want 9/very_high", c.Value, c.Level)
			}
		}
	}
	if !found {
		t.Fatalf("busy day bucket missing")
	}
}
