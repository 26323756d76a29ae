// Package server assembles the HTTP routes of the birthdays API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/birthdays/birthdays-go/internal/handler"
	"github.com/birthdays/birthdays-go/internal/middleware"
	"github.com/birthdays/birthdays-go/internal/repository"
	"github.com/birthdays/birthdays-go/internal/service"
	"github.com/birthdays/birthdays-go/internal/session"
)

// Options configures the router.
type Options struct {
	// CORSOrigin enables credentialed CORS for a single browser origin when set.
	CORSOrigin string
}

// New wires repositories, services and handlers over db and returns the root handler.
func New(db *repository.DB, sessions *session.Manager, logger *slog.Logger, opts Options) http.Handler {
	userRepo := repository.NewUserRepository(db.DB, db.Dialect)
	authService := service.NewAuthService(userRepo)
	authHandler := handler.NewAuthHandler(authService, sessions, logger)

	birthdayRepo := repository.NewBirthdayRepository(db.DB, db.Dialect)
	birthdayService := service.NewBirthdayService(birthdayRepo)
	birthdayHandler := handler.NewBirthdayHandler(birthdayService, logger)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)

	if opts.CORSOrigin != "" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{opts.CORSOrigin},
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessions, logger))

			r.Get("/sessions", authHandler.HandleGetSession)
			r.Delete("/sessions", authHandler.HandleDeleteSession)

			r.Get("/data", birthdayHandler.HandleList)
			r.Post("/data", birthdayHandler.HandleCreate)
			r.Patch("/data/{id}", birthdayHandler.HandleUpdate)
			r.Delete("/data/{id}", birthdayHandler.HandleDelete)
		})
	})

	return r
}
