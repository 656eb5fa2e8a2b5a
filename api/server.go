/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the mobile/web frontend

ROUTE GROUPS:
  /api/settings       Application settings
  /api/payments/*     Recurring payment templates
  /api/tracker        Period view and one-time payments
  /api/logs/*         Payment log lifecycle
  /api/periods/*      Per-period balances
  /api/scenarios/*    Demo scenarios (dev only)

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080", "capacitor://localhost"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Settings
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
		})

		// Recurring payment templates
		r.Route("/payments", func(r chi.Router) {
			r.Get("/", h.ListPayments)
			r.Post("/", h.CreatePayment)
			r.Get("/{id}", h.GetPayment)
			r.Put("/{id}", h.UpdatePayment)
			r.Delete("/{id}", h.DeletePayment)
			r.Delete("/{id}/permanent", h.PermanentDeletePayment)
		})

		// Period view
		r.Route("/tracker", func(r chi.Router) {
			r.Get("/", h.GetTrackerView)
			r.Post("/payments", h.CreateOneTimePayment)
		})

		// Payment log lifecycle
		r.Route("/logs", func(r chi.Router) {
			r.Post("/{id}/complete", h.CompleteLog)
			r.Post("/{id}/incomplete", h.IncompleteLog)
			r.Put("/{id}/amount", h.SetLogAmount)
			r.Delete("/{id}", h.DeleteLog)
		})

		// Period balances
		r.Put("/periods/{key}/balance", h.SetPeriodBalance)

		// Demo scenarios
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetData)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Budget Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Budget Engine API</h1>
<ul>
<li><a href="/api/settings">/api/settings</a> - Application settings</li>
<li><a href="/api/payments">/api/payments</a> - Recurring payments</li>
<li><a href="/api/tracker">/api/tracker</a> - Current period view</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
