package wire

import (
	"travel-marketplace/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, g guards) {
	// GET /reviews?package_id= - newest first (public)
	r.Get("/reviews", reviewHandler.GetPackageReviews)

	r.With(g.auth, g.limit).Post("/reviews", reviewHandler.CreateReview)
}
