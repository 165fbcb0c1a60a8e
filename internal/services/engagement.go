package services

import (
	"context"
	"time"

	"github.com/readraise/insights/internal/analytics"
	"github.com/readraise/insights/internal/model"
	"github.com/readraise/insights/internal/store"
)

// EngagementService scores genre engagement and recommends unexplored genres.
type EngagementService struct {
	store store.Store
	now   func() time.Time
}

func NewEngagementService(s store.Store) *EngagementService {
	return &EngagementService{store: s, now: time.Now}
}

func (s *EngagementService) Get(ctx context.Context, userID string) (*model.GenreMetrics, error) {
	user, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	reads, err := s.store.ArticleReads().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Lifetime XP feeds the all-time genre totals, so no lower bound here.
	logs, err := s.store.XpLogs().ListByUserSince(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}
	catalog, err := s.store.Articles().Catalog(ctx)
	if err != nil {
		return nil, err
	}
	out := analytics.ScoreGenres(analytics.GenreScoreInput{
		UserID:    user.UserID,
		CEFRLevel: user.CEFRLevel,
		Reads:     reads,
		XPLogs:    logs,
		Catalog:   catalog,
	}, s.now().UTC())
	return &out, nil
}
