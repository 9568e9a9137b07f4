package wire

import (
	"travel-marketplace/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireAdmin mounts the moderation queue and the platform dashboard. Role
// checks happen in the services.
func wireAdmin(r chi.Router, adminHandler *adaptor.AdminHandler, dashboardHandler *adaptor.DashboardHandler, g guards) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(g.auth)

		r.Get("/packages/pending", adminHandler.GetPendingPackages)
		r.Get("/dashboard", dashboardHandler.GetAdminDashboard)

		r.With(g.limit).Post("/approve-package", adminHandler.ApprovePackage)
		r.With(g.limit).Post("/reject-package", adminHandler.RejectPackage)
	})
}
