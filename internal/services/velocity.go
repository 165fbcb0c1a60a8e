package services

import (
	"context"
	"time"

	"github.com/readraise/insights/internal/analytics"
	"github.com/readraise/insights/internal/model"
	"github.com/readraise/insights/internal/store"
)

// VelocityService computes per-user XP velocity metrics.
type VelocityService struct {
	store store.Store
	now   func() time.Time
}

func NewVelocityService(s store.Store) *VelocityService {
	return &VelocityService{store: s, now: time.Now}
}

// Get returns the velocity snapshot for a user. Unknown users surface
// model.ErrNotFound unchanged.
func (s *VelocityService) Get(ctx context.Context, userID string) (*model.VelocityMetrics, error) {
	user, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	logs, err := s.store.XpLogs().ListByUserSince(ctx, userID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	out := analytics.ComputeVelocity(*user, logs, now)
	return &out, nil
}
