package adaptor

import (
	"net/http"

	"travel-marketplace/internal/authz"
	"travel-marketplace/internal/dto/request"
	"travel-marketplace/internal/usecase"
	"travel-marketplace/pkg/utils"

	"go.uber.org/zap"
)

// AdminHandler serves the package review queue.
type AdminHandler struct {
	base
	service usecase.PackageService
}

func NewAdminHandler(service usecase.PackageService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		base:    base{log: log.With(zap.String("handler", "admin"))},
		service: service,
	}
}

// GetPendingPackages handles GET /admin/packages/pending
func (h *AdminHandler) GetPendingPackages(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	packages, err := h.service.ListPending(r.Context(), actor)
	if err != nil {
		h.handleServiceError(w, err, "list pending packages")
		return
	}

	utils.ResponseSuccess(w, "success", packages)
}

// ApprovePackage handles POST /admin/approve-package
func (h *AdminHandler) ApprovePackage(w http.ResponseWriter, r *http.Request) {
	actor, req, ok := h.moderationInput(w, r)
	if !ok {
		return
	}

	pkg, err := h.service.Approve(r.Context(), actor, req.PackageID)
	if err != nil {
		h.handleServiceError(w, err, "approve package")
		return
	}

	utils.ResponseSuccess(w, "Package approved", pkg)
}

// RejectPackage handles POST /admin/reject-package
func (h *AdminHandler) RejectPackage(w http.ResponseWriter, r *http.Request) {
	actor, req, ok := h.moderationInput(w, r)
	if !ok {
		return
	}

	if err := h.service.Reject(r.Context(), actor, req.PackageID); err != nil {
		h.handleServiceError(w, err, "reject package")
		return
	}

	utils.ResponseSuccess(w, "Package rejected", nil)
}

func (h *AdminHandler) moderationInput(w http.ResponseWriter, r *http.Request) (actor authz.Actor, req request.ModeratePackageRequest, ok bool) {
	actor, ok = utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return actor, req, false
	}

	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return actor, req, false
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return actor, req, false
	}

	return actor, req, true
}
