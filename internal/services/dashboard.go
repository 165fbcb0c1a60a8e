package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/readraise/insights/internal/analytics"
	"github.com/readraise/insights/internal/model"
	"github.com/readraise/insights/internal/store"
)

// DashboardService aggregates population-wide activity into the dashboard
// payloads. All methods are read-only and recompute from the raw streams.
type DashboardService struct {
	store store.Store
	now   func() time.Time
}

func NewDashboardService(s store.Store) *DashboardService {
	return &DashboardService{store: s, now: time.Now}
}

// windowStart is midnight UTC of the first bucketed day.
func windowStart(now time.Time, days int) time.Time {
	d := now.UTC().AddDate(0, 0, -days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *DashboardService) ActivityReport(ctx context.Context, days int, f model.ActivityFilter) (*model.ActivityReport, error) {
	now := s.now().UTC()
	from := windowStart(now, days)

	var (
		events  []model.ActivityEvent
		created map[string]time.Time
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.store.Activity().ListInWindow(gctx, from, now, f)
		return err
	})
	g.Go(func() error {
		var err error
		created, err = s.store.Users().CreationTimes(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := analytics.BuildActivityReport(events, created, days, now)
	return &out, nil
}

func (s *DashboardService) MetricsCards(ctx context.Context, days int, f model.ActivityFilter) (*model.MetricsCards, error) {
	now := s.now().UTC()
	curFrom := windowStart(now, days)
	prevFrom := curFrom.AddDate(0, 0, -days)

	in := analytics.CardsInput{Days: days}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.CurrentEvents, err = s.store.Activity().ListInWindow(gctx, curFrom, now, f)
		return err
	})
	g.Go(func() error {
		var err error
		in.PreviousEvents, err = s.store.Activity().ListInWindow(gctx, prevFrom, curFrom, f)
		return err
	})
	g.Go(func() error {
		var err error
		in.CurrentXP, err = s.store.XpLogs().ListInWindow(gctx, curFrom, now)
		return err
	})
	g.Go(func() error {
		var err error
		in.PreviousXP, err = s.store.XpLogs().ListInWindow(gctx, prevFrom, curFrom)
		return err
	})
	g.Go(func() error {
		var err error
		in.LessonProgress, err = s.store.LessonProgress().ListInWindow(gctx, curFrom, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := analytics.BuildMetricsCards(in, now)
	return &out, nil
}

func (s *DashboardService) Heatmap(ctx context.Context, days int, f model.ActivityFilter) (*model.Heatmap, error) {
	now := s.now().UTC()
	events, err := s.store.Activity().ListInWindow(ctx, windowStart(now, days), now, f)
	if err != nil {
		return nil, err
	}
	out := analytics.BuildHeatmap(events, days, now)
	return &out, nil
}

func (s *DashboardService) Assignments(ctx context.Context, days int) (*model.AssignmentStats, error) {
	now := s.now().UTC()
	due, err := s.store.Assignments().ListDueInWindow(ctx, windowStart(now, days), now.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(due))
	for _, a := range due {
		ids = append(ids, a.AssignmentID)
	}
	statuses, err := s.store.Assignments().StatusesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := analytics.AssignmentCompletion(due, statuses)
	return &out, nil
}

// Summary assembles every dashboard section concurrently. A failed section
// leaves its slot nil and records the failure under Errors; the summary
// itself only errors when the context is done.
func (s *DashboardService) Summary(ctx context.Context, days int, f model.ActivityFilter) (*model.DashboardSummary, error) {
	out := model.DashboardSummary{
		GeneratedAt: s.now().UTC(),
		Cache:       model.CacheInfo{Cached: false},
	}

	var mu sync.Mutex
	fail := func(section string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if out.Errors == nil {
			out.Errors = map[string]string{}
		}
		msg := "Unknown"
		if err != nil && err.Error() != "" {
			msg = err.Error()
		}
		out.Errors[section] = msg
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		if cards, err := s.MetricsCards(ctx, days, f); err != nil {
			fail("cards", err)
		} else {
			out.Cards = cards
		}
	}()
	go func() {
		defer wg.Done()
		if rep, err := s.ActivityReport(ctx, days, f); err != nil {
			fail("activity", err)
		} else {
			out.Activity = rep
		}
	}()
	go func() {
		defer wg.Done()
		if hm, err := s.Heatmap(ctx, days, f); err != nil {
			fail("heatmap", err)
		} else {
			out.Heatmap = hm
		}
	}()
	go func() {
		defer wg.Done()
		if stats, err := s.Assignments(ctx, days); err != nil {
			fail("assignments", err)
		} else {
			out.Assignments = stats
		}
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &out, nil
}
