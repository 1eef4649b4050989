package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dataqueryai/dataquery/internal/auth"
	"github.com/dataqueryai/dataquery/internal/config"
	"github.com/dataqueryai/dataquery/internal/dataset"
	"github.com/dataqueryai/dataquery/internal/handlers"
	"github.com/dataqueryai/dataquery/internal/middleware"
	"github.com/dataqueryai/dataquery/internal/qa"
	"github.com/dataqueryai/dataquery/internal/repo"
	"github.com/dataqueryai/dataquery/internal/session"
)

// newRouter builds the full API handler chain. Kept separate from main so
// the integration test can run the real stack against httptest.
func newRouter(database *sql.DB, cfg config.Config, sessions *session.Manager,
	datasets *dataset.Store, model qa.Answerer) http.Handler {

	accounts := repo.NewAccountRepo(database)
	authSvc := auth.NewService(accounts)

	authH := &handlers.AuthHandler{Auth: authSvc, Sessions: sessions}
	dataH := &handlers.DatasetHandler{Datasets: datasets}
	qaH := &handlers.QAHandler{Datasets: datasets, Model: model}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public auth endpoints, rate limited per IP.
	authLimiter := middleware.AuthRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
	})

	// Everything below requires a live session.
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(sessions))
		r.Post("/auth/logout", authH.Logout)
		r.Get("/me", authH.Me)
		r.With(middleware.MaxBytes(cfg.MaxUploadBytes)).Post("/datasets", dataH.Upload)
		r.Get("/datasets", dataH.Get)
		r.With(middleware.MaxBytes(middleware.DefaultMaxBodyBytes)).Post("/questions", qaH.Ask)
	})

	return r
}
