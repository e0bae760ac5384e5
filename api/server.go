/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer connecting URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  unique id per request for tracing
  2. Recoverer:  panic recovery (500 instead of crash)
  3. requestLogger: structured request logging via zap
  4. CORS:       cross-origin requests for the frontend

SECURITY NOTE:
  No authentication middleware. All endpoints are public; auth is an
  upstream concern for deployments that need it.

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/banks", func(r chi.Router) {
			r.Get("/", h.ListBanks)
			r.Post("/", h.CreateBank)
			r.Post("/import", h.ImportBanks)
		})

		r.Route("/balances", func(r chi.Router) {
			r.Get("/", h.ListBalances)
			r.Put("/", h.UpsertBalance)
			r.Delete("/", h.ClearBalances)
			r.Delete("/{bankCode}", h.RemoveBalance)
			r.Post("/import", h.ImportBalances)
		})

		r.Route("/revenues", func(r chi.Router) {
			r.Get("/", h.ListRevenues)
			r.Post("/", h.CreateRevenue)
			r.Delete("/", h.ClearRevenues)
			r.Get("/pending", h.ListPendingRevenues)
			r.Get("/overdue", h.ListOverdueRevenues)
			r.Post("/import", h.ImportRevenues)
			r.Delete("/{id}", h.RemoveRevenue)
			r.Post("/{id}/confirm", h.ConfirmRevenue)
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.ListSuppliers)
			r.Post("/", h.CreateSupplier)
			r.Delete("/", h.ClearSuppliers)
			r.Post("/import", h.ImportSuppliers)
			r.Delete("/{id}", h.RemoveSupplier)
		})

		r.Route("/outflows", func(r chi.Router) {
			r.Get("/", h.ListOutflows)
			r.Post("/", h.CreateOutflow)
			r.Delete("/", h.ClearOutflows)
			r.Delete("/{id}", h.RemoveOutflow)
		})

		r.Get("/report", h.GetReport)

		r.Route("/state", func(r chi.Router) {
			r.Get("/", h.GetState)
			r.Put("/", h.PutState)
			r.Post("/save", h.SaveState)
			r.Post("/load", h.LoadState)
		})

		r.Post("/reset", h.Reset)
	})

	return r
}

// requestLogger logs method, path, status and duration per request.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
