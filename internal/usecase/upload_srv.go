package usecase

import (
	"context"

	"travel-marketplace/internal/authz"
	"travel-marketplace/internal/dto/response"
	"travel-marketplace/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UploadService interface {
	// Upload stores an image and returns its public URL. The declared type
	// is logged but the stored type always comes from the content.
	Upload(ctx context.Context, actor authz.Actor, data []byte, declaredType string) (*response.UploadResponse, error)
}

type uploadService struct {
	store    storage.Store
	maxBytes int64
	log      *zap.Logger
}

func NewUploadService(store storage.Store, maxBytes int64, log *zap.Logger) UploadService {
	return &uploadService{
		store:    store,
		maxBytes: maxBytes,
		log:      log.With(zap.String("service", "upload")),
	}
}

func (s *uploadService) Upload(ctx context.Context, actor authz.Actor, data []byte, declaredType string) (*response.UploadResponse, error) {
	if !authz.CanAct(actor, authz.OpUploadImage, uuid.Nil) {
		return nil, ErrForbidden
	}

	if len(data) == 0 {
		return nil, newValidationError("file", "This field is required")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, ErrPayloadTooLarge
	}

	mime, ext, ok := storage.DetectImage(data)
	if !ok {
		s.log.Warn("Rejected upload",
			zap.String("declared_type", declaredType),
			zap.String("detected_type", mime),
		)
		return nil, ErrUnsupportedMediaType
	}

	url, err := s.store.Save(ctx, data, ext)
	if err != nil {
		s.log.Error("Failed to store upload", zap.Error(err))
		return nil, ErrUploadFailed
	}

	s.log.Info("Image uploaded",
		zap.String("actor_id", actor.ID.String()),
		zap.String("content_type", mime),
		zap.Int("size", len(data)),
	)

	return &response.UploadResponse{URL: url, ContentType: mime, Size: len(data)}, nil
}
