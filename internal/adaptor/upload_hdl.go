package adaptor

import (
	"errors"
	"io"
	"net/http"

	"travel-marketplace/internal/usecase"
	"travel-marketplace/pkg/utils"

	"go.uber.org/zap"
)

// multipart framing on top of the file itself
const multipartOverhead = 1 << 20

type UploadHandler struct {
	base
	service  usecase.UploadService
	maxBytes int64
}

func NewUploadHandler(service usecase.UploadService, maxBytes int64, log *zap.Logger) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &UploadHandler{
		base:     base{log: log.With(zap.String("handler", "upload"))},
		service:  service,
		maxBytes: maxBytes,
	}
}

// UploadImage handles POST /uploads (multipart field "file")
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.handleServiceError(w, usecase.ErrPayloadTooLarge, "upload image")
			return
		}
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"file": "This field is required"})
		return
	}
	defer file.Close()

	// one extra byte tells an oversize file apart from one exactly at the limit
	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		h.log.Warn("Failed to read upload", zap.Error(err))
		utils.ResponseBadRequest(w, "Could not read uploaded file", nil)
		return
	}

	resp, err := h.service.Upload(r.Context(), actor, data, header.Header.Get("Content-Type"))
	if err != nil {
		h.handleServiceError(w, err, "upload image")
		return
	}

	utils.ResponseCreated(w, "Image uploaded", resp)
}
