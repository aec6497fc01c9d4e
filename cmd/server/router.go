package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ali-aktas/hocalingo-api/internal/api"
	"github.com/ali-aktas/hocalingo-api/internal/api/middleware"
)

// setupRouter configures the HTTP router with all routes and middleware.
func (app *application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	profileMiddleware := middleware.NewProfileMiddleware(app.config.Profile.DefaultID)

	studyHandler := api.NewStudyHandler(app.studyService, app.logger)
	statsHandler := api.NewStatsHandler(app.statsService, app.logger)
	generationHandler := api.NewGenerationHandler(app.generationService, app.logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"available"}`))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(profileMiddleware.Resolve)

		r.Route("/queue", func(r chi.Router) {
			r.Get("/", studyHandler.GetQueue)
			r.Get("/check", studyHandler.CheckQueue)
		})

		r.Post("/items/{id}/grade", studyHandler.SubmitGrade)

		r.Get("/review/pick", studyHandler.PickReview)

		r.Route("/stats", func(r chi.Router) {
			r.Get("/today", statsHandler.GetTodayStats)
			r.Get("/streak", statsHandler.GetStreak)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", statsHandler.StartSession)
			r.Post("/{id}/finish", statsHandler.FinishSession)
		})

		r.Route("/generation", func(r chi.Router) {
			r.Post("/", generationHandler.RequestGeneration)
			r.Get("/{id}", generationHandler.GetGenerationStatus)
		})
	})

	return r
}
