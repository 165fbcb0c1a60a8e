package services

import (
	"context"
	"fmt"
	"time"

	"github.com/readraise/insights/internal/model"
	"github.com/readraise/insights/internal/store"
)

// fakeStore is an in-memory store.Store with per-group error injection.
type fakeStore struct {
	users    map[string]*model.User
	articles map[string]*model.Article
	reads    []model.ArticleRead
	xpLogs   []model.XpLogEntry
	events   []model.ActivityEvent
	progress []model.LessonProgress
	asgs     []model.Assignment
	statuses map[string]model.AssignmentStatus

	activityErr    error
	xpErr          error
	progressErr    error
	assignmentsErr error
	usersErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]*model.User{},
		articles: map[string]*model.Article{},
		statuses: map[string]model.AssignmentStatus{},
	}
}

func (f *fakeStore) Users() store.Users                   { return fakeUsers{f} }
func (f *fakeStore) Articles() store.Articles             { return fakeArticles{f} }
func (f *fakeStore) ArticleReads() store.ArticleReads     { return fakeReads{f} }
func (f *fakeStore) XpLogs() store.XpLogs                 { return fakeXpLogs{f} }
func (f *fakeStore) Activity() store.Activity             { return fakeActivity{f} }
func (f *fakeStore) LessonProgress() store.LessonProgress { return fakeProgress{f} }
func (f *fakeStore) Assignments() store.Assignments       { return fakeAssignments{f} }

type fakeUsers struct{ f *fakeStore }

func (u fakeUsers) Create(_ context.Context, m *model.User) (*model.User, error) {
	out := *m
	if out.Level < 1 {
		out.Level = 1
	}
	u.f.users[out.UserID] = &out
	return &out, nil
}

func (u fakeUsers) Get(_ context.Context, userID string) (*model.User, error) {
	if u.f.usersErr != nil {
		return nil, u.f.usersErr
	}
	m, ok := u.f.users[userID]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := *m
	return &out, nil
}

func (u fakeUsers) AddXP(_ context.Context, userID string, amount int) (*model.User, error) {
	m, ok := u.f.users[userID]
	if !ok {
		return nil, model.ErrNotFound
	}
	m.XP += amount
	m.Level = m.XP/1000 + 1
	out := *m
	return &out, nil
}

func (u fakeUsers) CreationTimes(_ context.Context, _ model.ActivityFilter) (map[string]time.Time, error) {
	if u.f.usersErr != nil {
		return nil, u.f.usersErr
	}
	out := map[string]time.Time{}
	for id, m := range u.f.users {
		out[id] = m.CreatedAt
	}
	return out, nil
}

type fakeArticles struct{ f *fakeStore }

func (a fakeArticles) Create(_ context.Context, m *model.Article) (*model.Article, error) {
	out := *m
	if out.ArticleID == "" {
		out.ArticleID = fmt.Sprintf("art-%d", len(a.f.articles)+1)
	}
	a.f.articles[out.ArticleID] = &out
	return &out, nil
}

func (a fakeArticles) Get(_ context.Context, articleID string) (*model.Article, error) {
	m, ok := a.f.articles[articleID]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := *m
	return &out, nil
}

func (a fakeArticles) Catalog(_ context.Context) ([]model.Article, error) {
	out := make([]model.Article, 0, len(a.f.articles))
	for _, m := range a.f.articles {
		out = append(out, *m)
	}
	return out, nil
}

type fakeReads struct{ f *fakeStore }

func (r fakeReads) Create(_ context.Context, m *model.ArticleRead) (*model.ArticleRead, error) {
	out := *m
	if out.ReadID == "" {
		out.ReadID = fmt.Sprintf("read-%d", len(r.f.reads)+1)
	}
	r.f.reads = append(r.f.reads, out)
	return &out, nil
}

func (r fakeReads) ListByUser(_ context.Context, userID string) ([]model.ArticleRead, error) {
	var out []model.ArticleRead
	for _, m := range r.f.reads {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeXpLogs struct{ f *fakeStore }

func (x fakeXpLogs) Create(_ context.Context, m *model.XpLogEntry) (*model.XpLogEntry, error) {
	out := *m
	if out.EntryID == "" {
		out.EntryID = fmt.Sprintf("xp-%d", len(x.f.xpLogs)+1)
	}
	x.f.xpLogs = append(x.f.xpLogs, out)
	return &out, nil
}

func (x fakeXpLogs) ListByUserSince(_ context.Context, userID string, since time.Time) ([]model.XpLogEntry, error) {
	if x.f.xpErr != nil {
		return nil, x.f.xpErr
	}
	var out []model.XpLogEntry
	for _, m := range x.f.xpLogs {
		if m.UserID == userID && !m.CreatedAt.Before(since) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (x fakeXpLogs) ListInWindow(_ context.Context, from, to time.Time) ([]model.XpLogEntry, error) {
	if x.f.xpErr != nil {
		return nil, x.f.xpErr
	}
	var out []model.XpLogEntry
	for _, m := range x.f.xpLogs {
		if !m.CreatedAt.Before(from) && m.CreatedAt.Before(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeActivity struct{ f *fakeStore }

func (a fakeActivity) Create(_ context.Context, m *model.ActivityEvent) (*model.ActivityEvent, error) {
	out := *m
	if out.EventID == "" {
		out.EventID = fmt.Sprintf("ev-%d", len(a.f.events)+1)
	}
	a.f.events = append(a.f.events, out)
	return &out, nil
}

func (a fakeActivity) ListInWindow(_ context.Context, from, to time.Time, f model.ActivityFilter) ([]model.ActivityEvent, error) {
	if a.f.activityErr != nil {
		return nil, a.f.activityErr
	}
	var out []model.ActivityEvent
	for _, m := range a.f.events {
		if m.CreatedAt.Before(from) || !m.CreatedAt.Before(to) {
			continue
		}
		if f.SchoolID != "" && (m.SchoolID == nil || *m.SchoolID != f.SchoolID) {
			continue
		}
		if f.ClassroomID != "" && (m.ClassroomID == nil || *m.ClassroomID != f.ClassroomID) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type fakeProgress struct{ f *fakeStore }

func (p fakeProgress) Create(_ context.Context, m *model.LessonProgress) (*model.LessonProgress, error) {
	out := *m
	if out.ProgressID == "" {
		out.ProgressID = fmt.Sprintf("lp-%d", len(p.f.progress)+1)
	}
	p.f.progress = append(p.f.progress, out)
	return &out, nil
}

func (p fakeProgress) ListInWindow(_ context.Context, from, to time.Time) ([]model.LessonProgress, error) {
	if p.f.progressErr != nil {
		return nil, p.f.progressErr
	}
	var out []model.LessonProgress
	for _, m := range p.f.progress {
		if !m.CreatedAt.Before(from) && m.CreatedAt.Before(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeAssignments struct{ f *fakeStore }

func (a fakeAssignments) Create(_ context.Context, m *model.Assignment) (*model.Assignment, error) {
	out := *m
	if out.AssignmentID == "" {
		out.AssignmentID = fmt.Sprintf("asg-%d", len(a.f.asgs)+1)
	}
	a.f.asgs = append(a.f.asgs, out)
	return &out, nil
}

func (a fakeAssignments) UpsertStatus(_ context.Context, s *model.AssignmentStatus) error {
	a.f.statuses[s.AssignmentID+"/"+s.UserID] = *s
	return nil
}

func (a fakeAssignments) ListDueInWindow(_ context.Context, from, to time.Time) ([]model.Assignment, error) {
	if a.f.assignmentsErr != nil {
		return nil, a.f.assignmentsErr
	}
	var out []model.Assignment
	for _, m := range a.f.asgs {
		if !m.DueDate.Before(from) && m.DueDate.Before(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (a fakeAssignments) StatusesFor(_ context.Context, assignmentIDs []string) ([]model.AssignmentStatus, error) {
	if a.f.assignmentsErr != nil {
		return nil, a.f.assignmentsErr
	}
	want := map[string]bool{}
	for _, id := range assignmentIDs {
		want[id] = true
	}
	var out []model.AssignmentStatus
	for _, s := range a.f.statuses {
		if want[s.AssignmentID] {
			out = append(out, s)
		}
	}
	return out, nil
}
