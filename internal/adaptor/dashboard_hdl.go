package adaptor

import (
	"net/http"

	"travel-marketplace/internal/usecase"
	"travel-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type DashboardHandler struct {
	base
	service usecase.DashboardService
}

func NewDashboardHandler(service usecase.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		base:    base{log: log.With(zap.String("handler", "dashboard"))},
		service: service,
	}
}

// GetSellerDashboard handles GET /seller/dashboard?year=
func (h *DashboardHandler) GetSellerDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	year := utils.ParseYear(r.URL.Query().Get("year"))

	dashboard, err := h.service.SellerDashboard(r.Context(), actor, year)
	if err != nil {
		h.handleServiceError(w, err, "seller dashboard")
		return
	}

	utils.ResponseSuccess(w, "success", dashboard)
}

// GetAdminDashboard handles GET /admin/dashboard?year=
func (h *DashboardHandler) GetAdminDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	year := utils.ParseYear(r.URL.Query().Get("year"))

	dashboard, err := h.service.AdminDashboard(r.Context(), actor, year)
	if err != nil {
		h.handleServiceError(w, err, "admin dashboard")
		return
	}

	utils.ResponseSuccess(w, "success", dashboard)
}
