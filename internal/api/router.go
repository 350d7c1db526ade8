package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/fluxfeed-be/internal/api/handlers"
	"github.com/isdelr/fluxfeed-be/internal/auth"
	"github.com/isdelr/fluxfeed-be/internal/policy"
	ws "github.com/isdelr/fluxfeed-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router. All operations go
// through the single graph dispatch endpoint; the auth middleware resolves
// the caller identity for every request without rejecting any.
func NewRouter(codec *auth.TokenCodec, registry *policy.Registry, hub *ws.Hub, allowedOrigin string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(auth.Middleware(codec))

	graphHandler := handlers.NewGraphHandler(registry)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/graph", graphHandler.Dispatch)
		r.Get("/ws", wsHandler.Serve)
	})

	return r
}
