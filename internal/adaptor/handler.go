package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"travel-marketplace/internal/usecase"
	"travel-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	Package   *PackageHandler
	Admin     *AdminHandler
	Booking   *BookingHandler
	Review    *ReviewHandler
	Dashboard *DashboardHandler
	Upload    *UploadHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, log),
		Package:   NewPackageHandler(service.Package, log),
		Admin:     NewAdminHandler(service.Package, log),
		Booking:   NewBookingHandler(service.Booking, log),
		Review:    NewReviewHandler(service.Review, log),
		Dashboard: NewDashboardHandler(service.Dashboard, log),
		Upload:    NewUploadHandler(service.Upload, config.Upload.MaxBytes, log),
	}
}

// base carries the logger and the error mapping shared by every handler.
type base struct {
	log *zap.Logger
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// handleServiceError maps service errors to status codes
func (h base) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.As(err, &validationErr):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrUnauthenticated):
		h.log.Warn(operation+" failed - unauthenticated", zap.Error(err))
		utils.ResponseUnauthorized(w, "Authentication required")

	case errors.Is(err, usecase.ErrForbidden):
		h.log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrAlreadyApproved),
		errors.Is(err, usecase.ErrConflict):
		h.log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrCapacityExceeded):
		h.log.Warn(operation+" failed - capacity", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error())

	case errors.Is(err, usecase.ErrUnsupportedMediaType):
		utils.ResponseJSON(w, http.StatusUnsupportedMediaType, false, "Only JPEG, PNG, WebP and GIF images are accepted", nil, nil)

	case errors.Is(err, usecase.ErrPayloadTooLarge):
		utils.ResponseJSON(w, http.StatusRequestEntityTooLarge, false, err.Error(), nil, nil)

	case errors.Is(err, usecase.ErrUploadFailed):
		h.log.Error(operation+" failed - storage", zap.Error(err))
		utils.ResponseJSON(w, http.StatusBadGateway, false, err.Error(), nil, nil)

	case errors.Is(err, usecase.ErrStoreUnavailable):
		h.log.Error(operation+" failed - store unavailable", zap.Error(err))
		utils.ResponseUnavailable(w, "Service temporarily unavailable")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
