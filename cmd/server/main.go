package main

import (
	"log"
	"net/http"
	"time"

	"github.com/campuswell/backend/internal/analytics"
	"github.com/campuswell/backend/internal/assessments"
	"github.com/campuswell/backend/internal/auth"
	"github.com/campuswell/backend/internal/config"
	"github.com/campuswell/backend/internal/counselor"
	"github.com/campuswell/backend/internal/database"
	"github.com/campuswell/backend/internal/gamification"
	"github.com/campuswell/backend/internal/insights"
	"github.com/campuswell/backend/internal/middleware"
	"github.com/campuswell/backend/internal/models"
	"github.com/campuswell/backend/internal/mood"
	"github.com/campuswell/backend/internal/profile"
	"github.com/campuswell/backend/internal/scoring"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(cfg); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	bank := scoring.DefaultBank()
	tokens := middleware.NewTokens(cfg.JWTSecret, 72*time.Hour)

	// Initialize services
	gamService := gamification.NewService(gamification.NewStore(db))

	assessmentService := assessments.NewService(assessments.NewStore(db), bank, insights.NewService(cfg))
	assessmentService.SetActivityRecorder(gamService)

	moodService := mood.NewService(mood.NewStore(db))
	moodService.SetActivityRecorder(gamService)

	counselorService := counselor.NewService(counselor.NewStore(db))
	counselorService.SetActivityRecorder(gamService)

	// Initialize handlers
	authHandler := auth.NewHandler(db, tokens)
	profileHandler := profile.NewHandler(profile.NewService(profile.NewStore(db)))
	assessmentHandler := assessments.NewHandler(assessmentService)
	moodHandler := mood.NewHandler(moodService)
	gamHandler := gamification.NewHandler(gamService)
	counselorHandler := counselor.NewHandler(counselorService)
	analyticsHandler := analytics.NewHandler(analytics.NewService(analytics.NewStore(db), bank))

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(tokens.Auth)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	profileHandler.RegisterRoutes(protected)
	assessmentHandler.RegisterRoutes(protected)
	moodHandler.RegisterRoutes(protected)
	gamHandler.RegisterRoutes(protected)

	// Student-only routes
	student := protected.PathPrefix("").Subrouter()
	student.Use(middleware.RequireRole(models.RoleStudent))
	counselorHandler.RegisterStudentRoutes(student)

	// Counselor-only routes
	counselorOnly := protected.PathPrefix("").Subrouter()
	counselorOnly.Use(middleware.RequireRole(models.RoleCounselor))
	counselorHandler.RegisterCounselorRoutes(counselorOnly)

	// Staff dashboards
	staff := protected.PathPrefix("").Subrouter()
	staff.Use(middleware.RequireRole(models.RoleCounselor, models.RoleAdmin))
	analyticsHandler.RegisterRoutes(staff)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
