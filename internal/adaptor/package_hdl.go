package adaptor

import (
	"net/http"
	"strings"

	"travel-marketplace/internal/authz"
	"travel-marketplace/internal/dto/request"
	"travel-marketplace/internal/usecase"
	"travel-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PackageHandler struct {
	base
	service usecase.PackageService
}

func NewPackageHandler(service usecase.PackageService, log *zap.Logger) *PackageHandler {
	return &PackageHandler{
		base:    base{log: log.With(zap.String("handler", "package"))},
		service: service,
	}
}

// GetPackages handles GET /packages (public)
func (h *PackageHandler) GetPackages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.ListPackagesRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), request.DefaultPerPage),
		},
		Category:    utils.OptionalString(query.Get("category")),
		Destination: utils.OptionalString(query.Get("destination")),
		Sort:        strings.TrimSpace(query.Get("sort")),
	}

	fieldErrors := map[string]string{}
	var ok bool
	if req.MinPrice, ok = utils.ParseOptionalInt64(query.Get("minPrice")); !ok {
		fieldErrors["minPrice"] = "Must be a non-negative integer"
	}
	if req.MaxPrice, ok = utils.ParseOptionalInt64(query.Get("maxPrice")); !ok {
		fieldErrors["maxPrice"] = "Must be a non-negative integer"
	}
	if len(fieldErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", fieldErrors)
		return
	}

	packages, err := h.service.ListApproved(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "list packages")
		return
	}

	utils.ResponseSuccess(w, "success", packages)
}

// GetPackageByID handles GET /packages/{id} (optional auth)
func (h *PackageHandler) GetPackageByID(w http.ResponseWriter, r *http.Request) {
	var actor *authz.Actor
	if a, ok := utils.GetActorFromContext(r.Context()); ok {
		actor = &a
	}

	pkg, err := h.service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "get package")
		return
	}

	utils.ResponseSuccess(w, "success", pkg)
}

// CreatePackage handles POST /packages (seller)
func (h *PackageHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreatePackageRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	pkg, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(w, err, "create package")
		return
	}

	utils.ResponseCreated(w, "Package submitted for review", pkg)
}

// UpdatePackage handles PUT /packages/{id} (owner or admin)
func (h *PackageHandler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdatePackageRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	pkg, err := h.service.Edit(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "update package")
		return
	}

	utils.ResponseSuccess(w, "Package updated and sent back for review", pkg)
}

// DeletePackage handles DELETE /packages/{id} (owner or admin)
func (h *PackageHandler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "delete package")
		return
	}

	utils.ResponseSuccess(w, "Package deleted", nil)
}

// GetMyPackages handles GET /seller/packages
func (h *PackageHandler) GetMyPackages(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	packages, err := h.service.ListMine(r.Context(), actor)
	if err != nil {
		h.handleServiceError(w, err, "list seller packages")
		return
	}

	utils.ResponseSuccess(w, "success", packages)
}
