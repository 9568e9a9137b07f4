package adaptor

import (
	"net/http"

	"travel-marketplace/internal/dto/request"
	"travel-marketplace/internal/usecase"
	"travel-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type ReviewHandler struct {
	base
	service usecase.ReviewService
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		base:    base{log: log.With(zap.String("handler", "review"))},
		service: service,
	}
}

// CreateReview handles POST /reviews (protected)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.Submit(r.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(w, err, "create review")
		return
	}

	utils.ResponseCreated(w, "success", review)
}

// GetPackageReviews handles GET /reviews?package_id= (public)
func (h *ReviewHandler) GetPackageReviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	packageID := query.Get("package_id")
	if packageID == "" {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"package_id": "This field is required"})
		return
	}

	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), request.DefaultPerPage),
	}

	reviews, err := h.service.ListByPackage(r.Context(), packageID, req)
	if err != nil {
		h.handleServiceError(w, err, "get package reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}
