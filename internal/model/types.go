package model

import "time"

// User is a student (or teacher/admin) account. XP and Level are maintained
// by the XP ingest path under the flat 1000-XP-per-level rule.
type User struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"displayName,omitempty"`
	XP          int       `json:"xp"`
	Level       int       `json:"level"`
	CEFRLevel   string    `json:"cefrLevel"`
	SchoolID    *string   `json:"schoolId,omitempty"`
	ClassroomID *string   `json:"classroomId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Article is the minimal catalog record the recommendation heuristics need.
type Article struct {
	ArticleID    string    `json:"articleId"`
	Title        string    `json:"title"`
	Genre        string    `json:"genre"`
	CEFRLevel    string    `json:"cefrLevel"`
	ReadingLevel float64   `json:"readingLevel"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ActivityEvent records one trackable user action. Immutable once written.
type ActivityEvent struct {
	EventID         string    `json:"eventId"`
	UserID          string    `json:"userId"`
	ActivityType    string    `json:"activityType"`
	DurationSeconds *int      `json:"durationSeconds,omitempty"`
	SchoolID        *string   `json:"schoolId,omitempty"`
	ClassroomID     *string   `json:"classroomId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// XpLogEntry records one XP-granting event. Immutable once written.
type XpLogEntry struct {
	EntryID      string    `json:"entryId"`
	UserID       string    `json:"userId"`
	XPEarned     int       `json:"xpEarned"`
	ActivityID   *string   `json:"activityId,omitempty"`
	ActivityType string    `json:"activityType"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ArticleRead records a user finishing an article, with per-quiz-type
// completion flags. Genre and CEFRLevel are denormalised from the article at
// write time, mirroring the upstream schema.
type ArticleRead struct {
	ReadID       string    `json:"readId"`
	UserID       string    `json:"userId"`
	ArticleID    string    `json:"articleId"`
	Genre        string    `json:"genre"`
	CEFRLevel    string    `json:"cefrLevel"`
	MCQCompleted bool      `json:"mcqCompleted"`
	SAQCompleted bool      `json:"saqCompleted"`
	LAQCompleted bool      `json:"laqCompleted"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LessonProgress pairs the article's reading level with the student's level
// at the time the lesson was taken. Input to the alignment score.
type LessonProgress struct {
	ProgressID   string    `json:"progressId"`
	UserID       string    `json:"userId"`
	ArticleID    string    `json:"articleId"`
	ArticleLevel float64   `json:"articleLevel"`
	UserLevel    float64   `json:"userLevel"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Assignment is classroom work with a due date.
type Assignment struct {
	AssignmentID string    `json:"assignmentId"`
	ClassroomID  string    `json:"classroomId"`
	Title        string    `json:"title"`
	DueDate      time.Time `json:"dueDate"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AssignmentStatus tracks one student's state on one assignment.
type AssignmentStatus struct {
	AssignmentID string   `json:"assignmentId"`
	UserID       string   `json:"userId"`
	Status       string   `json:"status"` // "assigned", "in_progress", "completed"
	Score        *float64 `json:"score,omitempty"`
}

// ActivityFilter scopes dashboard queries to a school and/or classroom.
// Zero value means no scoping.
type ActivityFilter struct {
	SchoolID    string
	ClassroomID string
}
