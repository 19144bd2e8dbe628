/**
 * @description
 * This file sets up the HTTP router. It defines the API endpoints, associates
 * them with their corresponding handlers, and applies the standard middleware
 * stack plus CORS for the mobile client.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes creates and returns the service router.
func Routes(h *Handlers, tm *TokenManager) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, http.StatusOK, "", map[string]string{"status": "healthy"})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.RegisterHandler)
		r.Post("/login", h.LoginHandler)
		r.Post("/send-code", h.SendCodeHandler)
		r.Post("/verify-code", h.VerifyCodeHandler)
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Use(tm.Middleware)
		r.Get("/profile", h.ProfileHandler)
		r.Put("/profile", h.UpdateProfileHandler)
		r.Get("/cards", h.ListCardsHandler)
		r.Post("/cards", h.AddCardHandler)
		r.Delete("/cards/{cardID}", h.DeleteCardHandler)
		r.Put("/cards/{cardID}/primary", h.SetPrimaryCardHandler)
	})

	r.Route("/api/payments", func(r chi.Router) {
		// Anyone holding a share link may inspect the request.
		r.Get("/requests/{shareCode}", h.GetPaymentRequestHandler)

		r.Group(func(r chi.Router) {
			r.Use(tm.Middleware)
			r.Post("/create", h.CreatePaymentHandler)
			r.Get("/transactions", h.ListTransactionsHandler)
			r.Post("/requests", h.CreatePaymentRequestHandler)
			r.Get("/requests", h.ListPaymentRequestsHandler)
			r.Post("/requests/pay", h.PayPaymentRequestHandler)
		})
	})

	r.Route("/api/mock", func(r chi.Router) {
		r.Post("/reset", h.ResetDemoDataHandler)
		r.Get("/demo-users", h.DemoUsersHandler)
	})

	return r
}
