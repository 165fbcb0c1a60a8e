package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/readraise/insights/internal/api/respond"
	"github.com/readraise/insights/internal/model"
	"github.com/readraise/insights/internal/services"
)

// IngestHandler exposes the write-side endpoints.
type IngestHandler struct {
	svc *services.IngestService
}

func NewIngestHandler(svc *services.IngestService) *IngestHandler { return &IngestHandler{svc: svc} }

func (h *IngestHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID      string  `json:"userId"`
		Email       string  `json:"email"`
		DisplayName *string `json:"displayName,omitempty"`
		CEFRLevel   string  `json:"cefrLevel"`
		SchoolID    *string `json:"schoolId,omitempty"`
		ClassroomID *string `json:"classroomId,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	out, err := h.svc.CreateUser(r.Context(), &model.User{
		UserID:      in.UserID,
		Email:       in.Email,
		DisplayName: in.DisplayName,
		CEFRLevel:   in.CEFRLevel,
		SchoolID:    in.SchoolID,
		ClassroomID: in.ClassroomID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *IngestHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		respond.WriteBadRequest(w, "userId required")
		return
	}
	out, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *IngestHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ArticleID    string  `json:"articleId"`
		Title        string  `json:"title"`
		Genre        string  `json:"genre"`
		CEFRLevel    string  `json:"cefrLevel"`
		ReadingLevel float64 `json:"readingLevel"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	out, err := h.svc.CreateArticle(r.Context(), &model.Article{
		ArticleID:    in.ArticleID,
		Title:        in.Title,
		Genre:        in.Genre,
		CEFRLevel:    in.CEFRLevel,
		ReadingLevel: in.ReadingLevel,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *IngestHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID          string    `json:"userId"`
		ActivityType    string    `json:"activityType"`
		DurationSeconds *int      `json:"durationSeconds,omitempty"`
		SchoolID        *string   `json:"schoolId,omitempty"`
		ClassroomID     *string   `json:"classroomId,omitempty"`
		OccurredAt      time.Time `json:"occurredAt,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	out, err := h.svc.RecordActivity(r.Context(), &model.ActivityEvent{
		UserID:          in.UserID,
		ActivityType:    in.ActivityType,
		DurationSeconds: in.DurationSeconds,
		SchoolID:        in.SchoolID,
		ClassroomID:     in.ClassroomID,
		CreatedAt:       in.OccurredAt,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *IngestHandler) RecordRead(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID       string    `json:"userId"`
		ArticleID    string    `json:"articleId"`
		MCQCompleted bool      `json:"mcqCompleted"`
		SAQCompleted bool      `json:"saqCompleted"`
		LAQCompleted bool      `json:"laqCompleted"`
		OccurredAt   time.Time `json:"occurredAt,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	out, err := h.svc.RecordRead(r.Context(), &model.ArticleRead{
		UserID:       in.UserID,
		ArticleID:    in.ArticleID,
		MCQCompleted: in.MCQCompleted,
		SAQCompleted: in.SAQCompleted,
		LAQCompleted: in.LAQCompleted,
		CreatedAt:    in.OccurredAt,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *IngestHandler) RecordXP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID       string    `json:"userId"`
		XPEarned     int       `json:"xpEarned"`
		ActivityID   *string   `json:"activityId,omitempty"`
		ActivityType string    `json:"activityType"`
		OccurredAt   time.Time `json:"occurredAt,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	out, err := h.svc.RecordXP(r.Context(), &model.XpLogEntry{
		UserID:       in.UserID,
		XPEarned:     in.XPEarned,
		ActivityID:   in.ActivityID,
		ActivityType: in.ActivityType,
		CreatedAt:    in.OccurredAt,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *IngestHandler) RecordLessonProgress(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID       string    `json:"userId"`
		ArticleID    string    `json:"articleId"`
		ArticleLevel float64   `json:"articleLevel"`
		UserLevel    float64   `json:"userLevel"`
		OccurredAt   time.Time `json:"occurredAt,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	out, err := h.svc.RecordLessonProgress(r.Context(), &model.LessonProgress{
		UserID:       in.UserID,
		ArticleID:    in.ArticleID,
		ArticleLevel: in.ArticleLevel,
		UserLevel:    in.UserLevel,
		CreatedAt:    in.OccurredAt,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *IngestHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ClassroomID string    `json:"classroomId"`
		Title       string    `json:"title"`
		DueDate     time.Time `json:"dueDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	out, err := h.svc.CreateAssignment(r.Context(), &model.Assignment{
		ClassroomID: in.ClassroomID,
		Title:       in.Title,
		DueDate:     in.DueDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *IngestHandler) UpsertAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	assignmentID := mux.Vars(r)["assignmentId"]
	var in struct {
		UserID string   `json:"userId"`
		Status string   `json:"status"`
		Score  *float64 `json:"score,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	err := h.svc.UpsertAssignmentStatus(r.Context(), &model.AssignmentStatus{
		AssignmentID: assignmentID,
		UserID:       in.UserID,
		Status:       in.Status,
		Score:        in.Score,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
