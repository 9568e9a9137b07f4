package wire

import (
	"travel-marketplace/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePackage(r chi.Router, packageHandler *adaptor.PackageHandler, g guards) {
	r.Route("/packages", func(r chi.Router) {
		// public catalogue
		r.Get("/", packageHandler.GetPackages)

		// owners and admins can also see unapproved packages
		r.With(g.optional).Get("/{id}", packageHandler.GetPackageByID)

		r.Group(func(r chi.Router) {
			r.Use(g.auth, g.limit)

			r.Post("/", packageHandler.CreatePackage)
			r.Put("/{id}", packageHandler.UpdatePackage)
			r.Delete("/{id}", packageHandler.DeletePackage)
		})
	})
}

func wireSeller(r chi.Router, packageHandler *adaptor.PackageHandler, dashboardHandler *adaptor.DashboardHandler, g guards) {
	r.Route("/seller", func(r chi.Router) {
		r.Use(g.auth)

		r.Get("/packages", packageHandler.GetMyPackages)
		r.Get("/dashboard", dashboardHandler.GetSellerDashboard)
	})
}
