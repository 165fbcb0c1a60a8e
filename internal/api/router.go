package api

import (
	"github.com/gorilla/mux"

	"github.com/readraise/insights/internal/api/recovery"
	"github.com/readraise/insights/internal/services"
	"github.com/readraise/insights/internal/store"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(s store.Store) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)
	router.Use(MetricsMiddleware)

	// Domain services
	ingest := services.NewIngestService(s)
	velocity := services.NewVelocityService(s)
	engagement := services.NewEngagementService(s)
	dashboard := services.NewDashboardService(s)

	// Handlers
	healthHandler := NewHealthHandler()
	ingestHandler := NewIngestHandler(ingest)
	insightsHandler := NewInsightsHandler(velocity, engagement)
	dashboardHandler := NewDashboardHandler(dashboard)

	// Health and metrics
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.Handle("/metrics", MetricsHandler()).Methods("GET")

	// Users and catalog
	router.HandleFunc("/api/users", ingestHandler.CreateUser).Methods("POST")
	router.HandleFunc("/api/users/{userId}", ingestHandler.GetUser).Methods("GET")
	router.HandleFunc("/api/articles", ingestHandler.CreateArticle).Methods("POST")

	// Event streams
	router.HandleFunc("/api/activity", ingestHandler.RecordActivity).Methods("POST")
	router.HandleFunc("/api/xp", ingestHandler.RecordXP).Methods("POST")
	router.HandleFunc("/api/reads", ingestHandler.RecordRead).Methods("POST")
	router.HandleFunc("/api/progress", ingestHandler.RecordLessonProgress).Methods("POST")
	router.HandleFunc("/api/assignments", ingestHandler.CreateAssignment).Methods("POST")
	router.HandleFunc("/api/assignments/{assignmentId}/status", ingestHandler.UpsertAssignmentStatus).Methods("PUT")

	// Per-user analytics
	router.HandleFunc("/api/users/{userId}/velocity", insightsHandler.GetVelocity).Methods("GET")
	router.HandleFunc("/api/users/{userId}/genres", insightsHandler.GetGenres).Methods("GET")

	// Dashboard
	router.HandleFunc("/api/dashboard/activity", dashboardHandler.Activity).Methods("GET")
	router.HandleFunc("/api/dashboard/cards", dashboardHandler.Cards).Methods("GET")
	router.HandleFunc("/api/dashboard/heatmap", dashboardHandler.Heatmap).Methods("GET")
	router.HandleFunc("/api/dashboard/assignments", dashboardHandler.Assignments).Methods("GET")
	router.HandleFunc("/api/dashboard/summary", dashboardHandler.Summary).Methods("GET")

	return router
}
