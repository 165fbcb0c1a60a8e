// Package sqlite backs the store with a cgo-free SQLite database. It is the
// local/dev driver and the one the storetest suite runs against in-memory.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/readraise/insights/internal/model"
	"github.com/readraise/insights/internal/store"
)

// Open opens (or creates) a SQLite database at path. Use ":memory:" for an
// ephemeral database.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The analytics service is read-mostly; a single writer avoids
	// SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Bootstrap opens the database and applies the idempotent schema.
func Bootstrap(ctx context.Context, path string) (*sql.DB, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

// NewWithDB constructs a SQLite store backed by an existing connection.
func NewWithDB(db *sql.DB) store.Store { return &liteStore{db: db} }

type liteStore struct{ db *sql.DB }

func (s *liteStore) Users() store.Users                   { return &users{db: s.db} }
func (s *liteStore) Articles() store.Articles             { return &articles{db: s.db} }
func (s *liteStore) ArticleReads() store.ArticleReads     { return &articleReads{db: s.db} }
func (s *liteStore) XpLogs() store.XpLogs                 { return &xpLogs{db: s.db} }
func (s *liteStore) Activity() store.Activity             { return &activity{db: s.db} }
func (s *liteStore) LessonProgress() store.LessonProgress { return &lessonProgress{db: s.db} }
func (s *liteStore) Assignments() store.Assignments       { return &assignments{db: s.db} }

// HealthPing implements health.Pinger.
func (s *liteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	out := *m
	out.UserID = newID(m.UserID)
	out.CreatedAt = stamp(m.CreatedAt)
	if out.Level < 1 {
		out.Level = 1
	}
	_, err := u.db.ExecContext(ctx, `
        INSERT INTO users (user_id, email, display_name, xp, level, cefr_level, school_id, classroom_id, created_at)
        VALUES (?,?,?,?,?,?,?,?,?)
    `, out.UserID, out.Email, out.DisplayName, out.XP, out.Level, out.CEFRLevel, out.SchoolID, out.ClassroomID, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	return scanUser(u.db.QueryRowContext(ctx, `
        SELECT user_id, email, display_name, xp, level, cefr_level, school_id, classroom_id, created_at
        FROM users WHERE user_id = ?
    `, userID))
}

func (u *users) AddXP(ctx context.Context, userID string, amount int) (*model.User, error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
        UPDATE users SET xp = xp + ?, level = (xp + ?) / 1000 + 1 WHERE user_id = ?
    `, amount, amount, userID)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, model.ErrNotFound
	}
	out, err := scanUser(tx.QueryRowContext(ctx, `
        SELECT user_id, email, display_name, xp, level, cefr_level, school_id, classroom_id, created_at
        FROM users WHERE user_id = ?
    `, userID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var out model.User
	err := row.Scan(&out.UserID, &out.Email, &out.DisplayName, &out.XP, &out.Level, &out.CEFRLevel, &out.SchoolID, &out.ClassroomID, &out.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *users) CreationTimes(ctx context.Context, f model.ActivityFilter) (map[string]time.Time, error) {
	q := `SELECT user_id, created_at FROM users WHERE 1=1`
	args := []interface{}{}
	if f.SchoolID != "" {
		q += " AND school_id = ?"
		args = append(args, f.SchoolID)
	}
	if f.ClassroomID != "" {
		q += " AND classroom_id = ?"
		args = append(args, f.ClassroomID)
	}
	rows, err := u.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := map[string]time.Time{}
	for rows.Next() {
		var id string
		var created time.Time
		if err := rows.Scan(&id, &created); err != nil {
			return nil, err
		}
		out[id] = created
	}
	return out, rows.Err()
}

// --- Articles ---

type articles struct{ db *sql.DB }

func (a *articles) Create(ctx context.Context, m *model.Article) (*model.Article, error) {
	out := *m
	out.ArticleID = newID(m.ArticleID)
	out.CreatedAt = stamp(m.CreatedAt)
	_, err := a.db.ExecContext(ctx, `
        INSERT INTO articles (article_id, title, genre, cefr_level, reading_level, created_at)
        VALUES (?,?,?,?,?,?)
    `, out.ArticleID, out.Title, out.Genre, out.CEFRLevel, out.ReadingLevel, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *articles) Get(ctx context.Context, articleID string) (*model.Article, error) {
	var out model.Article
	row := a.db.QueryRowContext(ctx, `
        SELECT article_id, title, genre, cefr_level, reading_level, created_at
        FROM articles WHERE article_id = ?
    `, articleID)
	err := row.Scan(&out.ArticleID, &out.Title, &out.Genre, &out.CEFRLevel, &out.ReadingLevel, &out.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *articles) Catalog(ctx context.Context) ([]model.Article, error) {
	rows, err := a.db.QueryContext(ctx, `
        SELECT article_id, title, genre, cefr_level, reading_level, created_at
        FROM articles ORDER BY genre, article_id
    `)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Article
	for rows.Next() {
		var m model.Article
		if err := rows.Scan(&m.ArticleID, &m.Title, &m.Genre, &m.CEFRLevel, &m.ReadingLevel, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// --- ArticleReads ---

type articleReads struct{ db *sql.DB }

func (r *articleReads) Create(ctx context.Context, m *model.ArticleRead) (*model.ArticleRead, error) {
	out := *m
	out.ReadID = newID(m.ReadID)
	out.CreatedAt = stamp(m.CreatedAt)
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO article_reads (read_id, user_id, article_id, genre, cefr_level, mcq_completed, saq_completed, laq_completed, created_at)
        VALUES (?,?,?,?,?,?,?,?,?)
    `, out.ReadID, out.UserID, out.ArticleID, out.Genre, out.CEFRLevel, out.MCQCompleted, out.SAQCompleted, out.LAQCompleted, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *articleReads) ListByUser(ctx context.Context, userID string) ([]model.ArticleRead, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT read_id, user_id, article_id, genre, cefr_level, mcq_completed, saq_completed, laq_completed, created_at
        FROM article_reads WHERE user_id = ? ORDER BY created_at
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.ArticleRead
	for rows.Next() {
		var m model.ArticleRead
		if err := rows.Scan(&m.ReadID, &m.UserID, &m.ArticleID, &m.Genre, &m.CEFRLevel, &m.MCQCompleted, &m.SAQCompleted, &m.LAQCompleted, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// --- XpLogs ---

type xpLogs struct{ db *sql.DB }

func (x *xpLogs) Create(ctx context.Context, m *model.XpLogEntry) (*model.XpLogEntry, error) {
	out := *m
	out.EntryID = newID(m.EntryID)
	out.CreatedAt = stamp(m.CreatedAt)
	_, err := x.db.ExecContext(ctx, `
        INSERT INTO xp_logs (entry_id, user_id, xp_earned, activity_id, activity_type, created_at)
        VALUES (?,?,?,?,?,?)
    `, out.EntryID, out.UserID, out.XPEarned, out.ActivityID, out.ActivityType, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (x *xpLogs) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]model.XpLogEntry, error) {
	rows, err := x.db.QueryContext(ctx, `
        SELECT entry_id, user_id, xp_earned, activity_id, activity_type, created_at
        FROM xp_logs WHERE user_id = ? AND created_at >= ? ORDER BY created_at
    `, userID, since.UTC())
	if err != nil {
		return nil, err
	}
	return scanXpLogs(rows)
}

func (x *xpLogs) ListInWindow(ctx context.Context, from, to time.Time) ([]model.XpLogEntry, error) {
	rows, err := x.db.QueryContext(ctx, `
        SELECT entry_id, user_id, xp_earned, activity_id, activity_type, created_at
        FROM xp_logs WHERE created_at >= ? AND created_at < ? ORDER BY created_at
    `, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	return scanXpLogs(rows)
}

func scanXpLogs(rows *sql.Rows) ([]model.XpLogEntry, error) {
	defer func() { _ = rows.Close() }()
	var out []model.XpLogEntry
	for rows.Next() {
		var m model.XpLogEntry
		if err := rows.Scan(&m.EntryID, &m.UserID, &m.XPEarned, &m.ActivityID, &m.ActivityType, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// --- Activity ---

type activity struct{ db *sql.DB }

func (a *activity) Create(ctx context.Context, m *model.ActivityEvent) (*model.ActivityEvent, error) {
	out := *m
	out.EventID = newID(m.EventID)
	out.CreatedAt = stamp(m.CreatedAt)
	_, err := a.db.ExecContext(ctx, `
        INSERT INTO activity_events (event_id, user_id, activity_type, duration_seconds, school_id, classroom_id, created_at)
        VALUES (?,?,?,?,?,?,?)
    `, out.EventID, out.UserID, out.ActivityType, out.DurationSeconds, out.SchoolID, out.ClassroomID, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *activity) ListInWindow(ctx context.Context, from, to time.Time, f model.ActivityFilter) ([]model.ActivityEvent, error) {
	q := `
        SELECT event_id, user_id, activity_type, duration_seconds, school_id, classroom_id, created_at
        FROM activity_events WHERE created_at >= ? AND created_at < ?`
	args := []interface{}{from.UTC(), to.UTC()}
	if f.SchoolID != "" {
		q += " AND school_id = ?"
		args = append(args, f.SchoolID)
	}
	if f.ClassroomID != "" {
		q += " AND classroom_id = ?"
		args = append(args, f.ClassroomID)
	}
	q += " ORDER BY created_at"

	rows, err := a.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.ActivityEvent
	for rows.Next() {
		var m model.ActivityEvent
		if err := rows.Scan(&m.EventID, &m.UserID, &m.ActivityType, &m.DurationSeconds, &m.SchoolID, &m.ClassroomID, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// --- LessonProgress ---

type lessonProgress struct{ db *sql.DB }

func (l *lessonProgress) Create(ctx context.Context, m *model.LessonProgress) (*model.LessonProgress, error) {
	out := *m
	out.ProgressID = newID(m.ProgressID)
	out.CreatedAt = stamp(m.CreatedAt)
	_, err := l.db.ExecContext(ctx, `
        INSERT INTO lesson_progress (progress_id, user_id, article_id, article_level, user_level, created_at)
        VALUES (?,?,?,?,?,?)
    `, out.ProgressID, out.UserID, out.ArticleID, out.ArticleLevel, out.UserLevel, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *lessonProgress) ListInWindow(ctx context.Context, from, to time.Time) ([]model.LessonProgress, error) {
	rows, err := l.db.QueryContext(ctx, `
        SELECT progress_id, user_id, article_id, article_level, user_level, created_at
        FROM lesson_progress WHERE created_at >= ? AND created_at < ? ORDER BY created_at
    `, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.LessonProgress
	for rows.Next() {
		var m model.LessonProgress
		if err := rows.Scan(&m.ProgressID, &m.UserID, &m.ArticleID, &m.ArticleLevel, &m.UserLevel, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// --- Assignments ---

type assignments struct{ db *sql.DB }

func (a *assignments) Create(ctx context.Context, m *model.Assignment) (*model.Assignment, error) {
	out := *m
	out.AssignmentID = newID(m.AssignmentID)
	out.CreatedAt = stamp(m.CreatedAt)
	_, err := a.db.ExecContext(ctx, `
        INSERT INTO assignments (assignment_id, classroom_id, title, due_date, created_at)
        VALUES (?,?,?,?,?)
    `, out.AssignmentID, out.ClassroomID, out.Title, out.DueDate.UTC(), out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *assignments) UpsertStatus(ctx context.Context, s *model.AssignmentStatus) error {
	_, err := a.db.ExecContext(ctx, `
        INSERT INTO assignment_statuses (assignment_id, user_id, status, score)
        VALUES (?,?,?,?)
        ON CONFLICT (assignment_id, user_id) DO UPDATE SET status = excluded.status, score = excluded.score
    `, s.AssignmentID, s.UserID, s.Status, s.Score)
	return err
}

func (a *assignments) ListDueInWindow(ctx context.Context, from, to time.Time) ([]model.Assignment, error) {
	rows, err := a.db.QueryContext(ctx, `
        SELECT assignment_id, classroom_id, title, due_date, created_at
        FROM assignments WHERE due_date >= ? AND due_date < ? ORDER BY due_date
    `, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Assignment
	for rows.Next() {
		var m model.Assignment
		if err := rows.Scan(&m.AssignmentID, &m.ClassroomID, &m.Title, &m.DueDate, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (a *assignments) StatusesFor(ctx context.Context, assignmentIDs []string) ([]model.AssignmentStatus, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(assignmentIDs)), ",")
	args := make([]interface{}, len(assignmentIDs))
	for i, id := range assignmentIDs {
		args[i] = id
	}
	rows, err := a.db.QueryContext(ctx, `
        SELECT assignment_id, user_id, status, score
        FROM assignment_statuses WHERE assignment_id IN (`+placeholders+`)
    `, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.AssignmentStatus
	for rows.Next() {
		var m model.AssignmentStatus
		if err := rows.Scan(&m.AssignmentID, &m.UserID, &m.Status, &m.Score); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
