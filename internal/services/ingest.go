package services

import (
	"context"

	"github.com/readraise/insights/internal/model"
	"github.com/readraise/insights/internal/store"
)

// IngestService handles writes: users, catalog entries and the raw event
// streams the analytics read side aggregates.
type IngestService struct {
	store store.Store
}

func NewIngestService(s store.Store) *IngestService { return &IngestService{store: s} }

func (s *IngestService) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	if u.UserID == "" || u.Email == "" {
		return nil, model.ErrValidation
	}
	if u.CEFRLevel == "" {
		u.CEFRLevel = "A1"
	}
	return s.store.Users().Create(ctx, u)
}

func (s *IngestService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.store.Users().Get(ctx, userID)
}

func (s *IngestService) CreateArticle(ctx context.Context, a *model.Article) (*model.Article, error) {
	if a.Title == "" || a.Genre == "" || a.CEFRLevel == "" {
		return nil, model.ErrValidation
	}
	return s.store.Articles().Create(ctx, a)
}

func (s *IngestService) GetArticle(ctx context.Context, articleID string) (*model.Article, error) {
	return s.store.Articles().Get(ctx, articleID)
}

func (s *IngestService) RecordActivity(ctx context.Context, e *model.ActivityEvent) (*model.ActivityEvent, error) {
	if e.UserID == "" || e.ActivityType == "" {
		return nil, model.ErrValidation
	}
	return s.store.Activity().Create(ctx, e)
}

// RecordRead denormalises genre and level from the article so read rows stay
// self-contained for the genre scorer.
func (s *IngestService) RecordRead(ctx context.Context, r *model.ArticleRead) (*model.ArticleRead, error) {
	if r.UserID == "" || r.ArticleID == "" {
		return nil, model.ErrValidation
	}
	art, err := s.store.Articles().Get(ctx, r.ArticleID)
	if err != nil {
		return nil, err
	}
	r.Genre = art.Genre
	r.CEFRLevel = art.CEFRLevel
	return s.store.ArticleReads().Create(ctx, r)
}

// RecordXP appends an xp log entry and applies the amount to the user's
// running total, recomputing the level tier.
func (s *IngestService) RecordXP(ctx context.Context, e *model.XpLogEntry) (*model.User, error) {
	if e.UserID == "" || e.XPEarned < 0 {
		return nil, model.ErrValidation
	}
	if _, err := s.store.XpLogs().Create(ctx, e); err != nil {
		return nil, err
	}
	return s.store.Users().AddXP(ctx, e.UserID, e.XPEarned)
}

func (s *IngestService) RecordLessonProgress(ctx context.Context, p *model.LessonProgress) (*model.LessonProgress, error) {
	if p.UserID == "" || p.ArticleID == "" {
		return nil, model.ErrValidation
	}
	return s.store.LessonProgress().Create(ctx, p)
}

func (s *IngestService) CreateAssignment(ctx context.Context, a *model.Assignment) (*model.Assignment, error) {
	if a.ClassroomID == "" || a.Title == "" || a.DueDate.IsZero() {
		return nil, model.ErrValidation
	}
	return s.store.Assignments().Create(ctx, a)
}

func (s *IngestService) UpsertAssignmentStatus(ctx context.Context, st *model.AssignmentStatus) error {
	if st.AssignmentID == "" || st.UserID == "" {
		return model.ErrValidation
	}
	switch st.Status {
	case "assigned", "in_progress", "completed":
	default:
		return model.ErrValidation
	}
	return s.store.Assignments().UpsertStatus(ctx, st)
}
