package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dom/web-ads-backend/internal/api/handlers"
	"github.com/dom/web-ads-backend/internal/api/middleware"
	"github.com/dom/web-ads-backend/internal/service"
	"github.com/dom/web-ads-backend/internal/ws"
)

func NewRouter(services *service.Services, hub *ws.Hub) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth, services.RefreshToken)
	adHandler := handlers.NewAdHandler(services.Ad)
	feedHandler := handlers.NewFeedHandler(hub)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/ads", func(r chi.Router) {
			// Public reads; the listing resolves an identity when one is
			// present so showMineOnly can work.
			r.With(middleware.OptionalAuth(services.Auth)).Get("/", adHandler.List)
			r.Get("/feed", feedHandler.Handle)
			r.Get("/{id}", adHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Post("/", adHandler.Create)
				r.Put("/{id}", adHandler.Update)
				r.Delete("/{id}", adHandler.Delete)
			})
		})
	})

	return r
}
