package wire

import (
	"travel-marketplace/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, g guards) {
	// ==================== PUBLIC ROUTES ====================
	r.With(g.limit).Post("/auth/register", authHandler.Register)
	r.With(g.limit).Post("/auth/login", authHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	r.With(g.auth).Post("/auth/logout", authHandler.Logout)
	r.With(g.auth).Get("/me", authHandler.Me)
}
