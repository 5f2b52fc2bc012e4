package api

import (
	"net/http"

	"github.com/dom/postgram/internal/api/handlers"
	"github.com/dom/postgram/internal/api/middleware"
	"github.com/dom/postgram/internal/config"
	"github.com/dom/postgram/internal/service"
	"github.com/dom/postgram/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSAllowedOrigin))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg, log)
	postHandler := handlers.NewPostHandler(services.Post, services.Like, hub, log)
	commentHandler := handlers.NewCommentHandler(services.Comment, hub, log)
	wsHandler := handlers.NewWebSocketHandler(hub, cfg.CORSAllowedOrigin, log)

	requireSession := middleware.Session(services.Auth, cfg, log)
	optionalSession := middleware.OptionalSession(services.Auth, cfg, log)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.With(requireSession).Get("/me", authHandler.Me)
		})

		r.Route("/posts", func(r chi.Router) {
			r.With(optionalSession).Get("/", postHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(requireSession)
				r.Post("/", postHandler.Create)
				r.Put("/{id}", postHandler.Update)
				r.Delete("/{id}", postHandler.Delete)
				r.Post("/{id}/like", postHandler.ToggleLike)
				r.Get("/{id}/liked", postHandler.Liked)
			})
		})

		// {id} is the post id for GET and POST, the comment id for DELETE.
		r.Route("/comments", func(r chi.Router) {
			r.With(optionalSession).Get("/{id}", commentHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(requireSession)
				r.Post("/{id}", commentHandler.Create)
				r.Delete("/{id}", commentHandler.Delete)
			})
		})

		// WebSocket endpoint
		r.With(requireSession).Get("/ws", wsHandler.Handle)
	})

	return r
}
