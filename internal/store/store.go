package store

import (
	"context"
	"time"

	"github.com/readraise/insights/internal/model"
)

// Store exposes the persistence operations the analytics services consume.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
// Time filtering happens in SQL; windows are half-open [from, to) unless a
// method says otherwise, and a zero "since" means no lower bound.
type Store interface {
	Users() Users
	Articles() Articles
	ArticleReads() ArticleReads
	XpLogs() XpLogs
	Activity() Activity
	LessonProgress() LessonProgress
	Assignments() Assignments
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	// AddXP adds the earned amount and advances the level under the flat
	// 1000-XP-per-level rule, returning the updated user.
	AddXP(ctx context.Context, userID string, amount int) (*model.User, error)
	// CreationTimes maps userID to account-creation time for every user in
	// scope; the dashboard uses it for new-user detection.
	CreationTimes(ctx context.Context, f model.ActivityFilter) (map[string]time.Time, error)
}

type Articles interface {
	Create(ctx context.Context, a *model.Article) (*model.Article, error)
	Get(ctx context.Context, articleID string) (*model.Article, error)
	// Catalog returns every article; the recommendation heuristics derive
	// the known-genre set from it.
	Catalog(ctx context.Context) ([]model.Article, error)
}

type ArticleReads interface {
	Create(ctx context.Context, r *model.ArticleRead) (*model.ArticleRead, error)
	ListByUser(ctx context.Context, userID string) ([]model.ArticleRead, error)
}

type XpLogs interface {
	Create(ctx context.Context, e *model.XpLogEntry) (*model.XpLogEntry, error)
	ListByUserSince(ctx context.Context, userID string, since time.Time) ([]model.XpLogEntry, error)
	ListInWindow(ctx context.Context, from, to time.Time) ([]model.XpLogEntry, error)
}

type Activity interface {
	Create(ctx context.Context, e *model.ActivityEvent) (*model.ActivityEvent, error)
	ListInWindow(ctx context.Context, from, to time.Time, f model.ActivityFilter) ([]model.ActivityEvent, error)
}

type LessonProgress interface {
	Create(ctx context.Context, p *model.LessonProgress) (*model.LessonProgress, error)
	ListInWindow(ctx context.Context, from, to time.Time) ([]model.LessonProgress, error)
}

type Assignments interface {
	Create(ctx context.Context, a *model.Assignment) (*model.Assignment, error)
	UpsertStatus(ctx context.Context, s *model.AssignmentStatus) error
	// ListDueInWindow selects assignments by due date.
	ListDueInWindow(ctx context.Context, from, to time.Time) ([]model.Assignment, error)
	StatusesFor(ctx context.Context, assignmentIDs []string) ([]model.AssignmentStatus, error)
}
