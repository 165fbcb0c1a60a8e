package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/readraise/insights/internal/model"
	"github.com/readraise/insights/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Unique test identifiers
	userID := "u-" + uuid.New().String()
	email := userID + "@example.test"

	// Users
	school := "school-1"
	u := &model.User{UserID: userID, Email: email, CEFRLevel: "B1", SchoolID: &school, CreatedAt: base}
	if _, err := s.Users().Create(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if got, err := s.Users().Get(ctx, userID); err != nil || got == nil || got.UserID != userID || got.Level != 1 {
		t.Fatalf("GetUser: got=%v err=%v", got, err)
	}
	if _, err := s.Users().Get(ctx, "missing-user"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUser missing: want ErrNotFound, got %v", err)
	}

	// AddXP bumps xp and recomputes the flat 1000-per-level tier.
	if got, err := s.Users().AddXP(ctx, userID, 2500); err != nil || got.XP != 2500 || got.Level != 3 {
		t.Fatalf("AddXP: got=%v err=%v", got, err)
	}
	if _, err := s.Users().AddXP(ctx, "missing-user", 10); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("AddXP missing: want ErrNotFound, got %v", err)
	}

	if times, err := s.Users().CreationTimes(ctx, model.ActivityFilter{SchoolID: school}); err != nil || len(times) != 1 {
		t.Fatalf("CreationTimes filtered: n=%d err=%v", len(times), err)
	} else if !times[userID].Equal(base) {
		t.Fatalf("CreationTimes: got %v want %v", times[userID], base)
	}
	if times, err := s.Users().CreationTimes(ctx, model.ActivityFilter{SchoolID: "other-school"}); err != nil || len(times) != 0 {
		t.Fatalf("CreationTimes other school: n=%d err=%v", len(times), err)
	}

	// Articles
	art, err := s.Articles().Create(ctx, &model.Article{Title: "Volcano Diaries", Genre: "nature", CEFRLevel: "B1", ReadingLevel: 3.5})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	if art.ArticleID == "" {
		t.Fatalf("CreateArticle: empty article id")
	}
	if got, err := s.Articles().Get(ctx, art.ArticleID); err != nil || got == nil || got.Genre != "nature" {
		t.Fatalf("GetArticle: got=%v err=%v", got, err)
	}
	if _, err := s.Articles().Get(ctx, "missing-article"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetArticle missing: want ErrNotFound, got %v", err)
	}
	if cat, err := s.Articles().Catalog(ctx); err != nil || len(cat) == 0 {
		t.Fatalf("Catalog: n=%d err=%v", len(cat), err)
	}

	// ArticleReads
	read, err := s.ArticleReads().Create(ctx, &model.ArticleRead{
		UserID: userID, ArticleID: art.ArticleID, Genre: art.Genre, CEFRLevel: art.CEFRLevel,
		MCQCompleted: true, CreatedAt: base.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateRead: %v", err)
	}
	if read.ReadID == "" {
		t.Fatalf("CreateRead: empty read id")
	}
	if reads, err := s.ArticleReads().ListByUser(ctx, userID); err != nil || len(reads) != 1 || !reads[0].MCQCompleted {
		t.Fatalf("ListReads: n=%d err=%v", len(reads), err)
	}

	// XpLogs
	actID := art.ArticleID
	if _, err := s.XpLogs().Create(ctx, &model.XpLogEntry{
		UserID: userID, XPEarned: 120, ActivityID: &actID, ActivityType: "article", CreatedAt: base.Add(2 * time.Hour),
	}); err != nil {
		t.Fatalf("CreateXpLog: %v", err)
	}
	if _, err := s.XpLogs().Create(ctx, &model.XpLogEntry{
		UserID: userID, XPEarned: 30, ActivityType: "quiz", CreatedAt: base.Add(-40 * 24 * time.Hour),
	}); err != nil {
		t.Fatalf("CreateXpLog old: %v", err)
	}
	if logs, err := s.XpLogs().ListByUserSince(ctx, userID, base.Add(-30*24*time.Hour)); err != nil || len(logs) != 1 || logs[0].XPEarned != 120 {
		t.Fatalf("ListByUserSince: n=%d err=%v", len(logs), err)
	}
	if logs, err := s.XpLogs().ListInWindow(ctx, base, base.Add(24*time.Hour)); err != nil || len(logs) != 1 {
		t.Fatalf("XpLogs ListInWindow: n=%d err=%v", len(logs), err)
	}

	// Activity events, with and without org filters
	dur := 300
	if _, err := s.Activity().Create(ctx, &model.ActivityEvent{
		UserID: userID, ActivityType: "reading_session", DurationSeconds: &dur, SchoolID: &school, CreatedAt: base.Add(3 * time.Hour),
	}); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if evs, err := s.Activity().ListInWindow(ctx, base, base.Add(24*time.Hour), model.ActivityFilter{}); err != nil || len(evs) != 1 {
		t.Fatalf("Activity ListInWindow: n=%d err=%v", len(evs), err)
	} else if evs[0].DurationSeconds == nil || *evs[0].DurationSeconds != 300 {
		t.Fatalf("Activity ListInWindow: duration=%v", evs[0].DurationSeconds)
	}
	if evs, err := s.Activity().ListInWindow(ctx, base, base.Add(24*time.Hour), model.ActivityFilter{SchoolID: "other-school"}); err != nil || len(evs) != 0 {
		t.Fatalf("Activity filtered: n=%d err=%v", len(evs), err)
	}

	// LessonProgress
	if _, err := s.LessonProgress().Create(ctx, &model.LessonProgress{
		UserID: userID, ArticleID: art.ArticleID, ArticleLevel: 3, UserLevel: 2.5, CreatedAt: base.Add(4 * time.Hour),
	}); err != nil {
		t.Fatalf("CreateLessonProgress: %v", err)
	}
	if lps, err := s.LessonProgress().ListInWindow(ctx, base, base.Add(24*time.Hour)); err != nil || len(lps) != 1 || lps[0].UserLevel != 2.5 {
		t.Fatalf("LessonProgress ListInWindow: n=%d err=%v", len(lps), err)
	}

	// Assignments and statuses
	asg, err := s.Assignments().Create(ctx, &model.Assignment{
		ClassroomID: "class-1", Title: "Week 9 reading", DueDate: base.Add(5 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	if due, err := s.Assignments().ListDueInWindow(ctx, base, base.Add(7*24*time.Hour)); err != nil || len(due) != 1 {
		t.Fatalf("ListDueInWindow: n=%d err=%v", len(due), err)
	}
	if err := s.Assignments().UpsertStatus(ctx, &model.AssignmentStatus{
		AssignmentID: asg.AssignmentID, UserID: userID, Status: "in_progress",
	}); err != nil {
		t.Fatalf("UpsertStatus insert: %v", err)
	}
	score := 92.5
	if err := s.Assignments().UpsertStatus(ctx, &model.AssignmentStatus{
		AssignmentID: asg.AssignmentID, UserID: userID, Status: "completed", Score: &score,
	}); err != nil {
		t.Fatalf("UpsertStatus update: %v", err)
	}
	sts, err := s.Assignments().StatusesFor(ctx, []string{asg.AssignmentID})
	if err != nil || len(sts) != 1 {
		t.Fatalf("StatusesFor: n=%d err=%v", len(sts), err)
	}
	if sts[0].Status != "completed" || sts[0].Score == nil || *sts[0].Score != 92.5 {
		t.Fatalf("StatusesFor: got %+v", sts[0])
	}
	if sts, err := s.Assignments().StatusesFor(ctx, nil); err != nil || len(sts) != 0 {
		t.Fatalf("StatusesFor empty: n=%d err=%v", len(sts), err)
	}
}
