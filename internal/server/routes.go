package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/memorizabiblia/memoriza-api/internal/auth"
	"github.com/memorizabiblia/memoriza-api/internal/engine"
	"github.com/memorizabiblia/memoriza-api/internal/reminder"
	"github.com/memorizabiblia/memoriza-api/pkg/response"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", engine.DeviceIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.ServerIsWorking)

	r.Route("/memoriza-api/v1", func(r chi.Router) {
		s.loadAuthRoutes(r)
		s.loadEngineRoutes(r)
		s.loadReminderRoutes(r)
	})
	r.Get("/memoriza-api/v1", s.ServerIsWorking)

	return r
}

func (s *Server) ServerIsWorking(w http.ResponseWriter, r *http.Request) {
	resp := make(map[string]string)
	resp["message"] = "Welcome to MemorizaBíblia api"
	response.Success(w, resp, "Success")
}

func (s *Server) loadAuthRoutes(router chi.Router) {
	authRepo := auth.NewRepository(s.db)
	authService := auth.NewAuthService(authRepo, s.mail)
	authHandler := auth.NewHandler(authService)

	router.Post("/auth/login", authHandler.LoginHandler)
	router.Post("/auth/register-with-email", authHandler.RegisterHandler)

	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)
		r.Get("/auth/me", authHandler.GetUserDetailsHandler)
		r.Patch("/auth/update-profile", authHandler.UpdateProfileHandler)
	})
}

// loadEngineRoutes exposes the memorization engine. Every route works both
// authenticated (bearer token) and anonymous (device header); OptionalAuth
// extracts the account when a token is present without requiring one.
func (s *Server) loadEngineRoutes(router chi.Router) {
	engineHandler := engine.NewHandler(s.sessions, defaultTimezone)

	router.Group(func(r chi.Router) {
		r.Use(auth.OptionalAuthMiddleware)

		r.Get("/engine/state", engineHandler.GetStateHandler)
		r.Post("/engine/day/select", engineHandler.SelectDayHandler)
		r.Post("/engine/activity/complete", engineHandler.CompleteActivityHandler)
		r.Post("/engine/activity/reference-guess", engineHandler.GuessReferenceHandler)
		r.Post("/engine/arrange/select", engineHandler.ArrangeSelectHandler)
		r.Post("/engine/arrange/unselect", engineHandler.ArrangeUnselectHandler)
		r.Post("/engine/arrange/reset", engineHandler.ArrangeResetHandler)
		r.Post("/engine/arrange/verify", engineHandler.ArrangeVerifyHandler)
		r.Post("/engine/verse/new", engineHandler.NewVerseHandler)
		r.Post("/engine/verse/start", engineHandler.StartMemorizationHandler)
		r.Get("/engine/verse/search", engineHandler.SearchHandler)
		r.Get("/engine/verse/recall", engineHandler.RecallHandler)
		r.Post("/engine/history/notes", engineHandler.UpdateNotesHandler)
		r.Post("/engine/reminder/config", engineHandler.SetReminderHandler)
		r.Get("/engine/achievements", engineHandler.GetAchievementsHandler)
		r.Post("/engine/achievements/ack", engineHandler.AckAchievementHandler)
	})
}

func (s *Server) loadReminderRoutes(router chi.Router) {
	reminderHandler := reminder.NewHandler(s.remote)

	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)
		r.Post("/reminder/target", reminderHandler.RegisterTargetHandler)
		r.Delete("/reminder/target", reminderHandler.UnregisterTargetHandler)
	})
}
