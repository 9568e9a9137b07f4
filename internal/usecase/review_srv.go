package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travel-marketplace/internal/authz"
	"travel-marketplace/internal/data/entity"
	"travel-marketplace/internal/data/repository"
	"travel-marketplace/internal/dto/request"
	"travel-marketplace/internal/dto/response"
	"travel-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	Submit(ctx context.Context, actor authz.Actor, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	// ListByPackage is public and newest first.
	ListByPackage(ctx context.Context, packageID string, req *request.PaginatedRequest) (*response.PackageReviewsResponse, error)
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
		now:  time.Now,
	}
}

func (s *reviewService) Submit(ctx context.Context, actor authz.Actor, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if !authz.CanAct(actor, authz.OpSubmitReview, uuid.Nil) {
		return nil, ErrForbidden
	}

	req.Comment = trimmedOrNil(req.Comment)
	if err := validate(req); err != nil {
		s.log.Warn("Submit review validation failed", zap.Error(err))
		return nil, err
	}

	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		return nil, newValidationError("package_id", "Must be a valid UUID")
	}

	pkg, err := s.repo.Package.FindByID(ctx, packageID)
	if err != nil {
		return nil, storeErr("find package", err)
	}
	if pkg == nil || !pkg.IsApproved {
		return nil, notFound("package", req.PackageID)
	}

	existing, err := s.repo.Review.FindByUserAndPackage(ctx, actor.ID, packageID)
	if err != nil {
		return nil, storeErr("check existing review", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("review of package %s: %w", req.PackageID, ErrConflict)
	}

	review := &entity.Review{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.now().UTC(),
		},
		UserID:    actor.ID,
		PackageID: packageID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("review of package %s: %w", req.PackageID, ErrConflict)
		}
		return nil, storeErr("create review", err)
	}

	s.log.Info("Review submitted",
		zap.String("review_id", review.ID.String()),
		zap.String("package_id", req.PackageID),
		zap.Int("rating", req.Rating),
	)

	resp := response.ReviewToResponse(review, actor.Name)
	return &resp, nil
}

func (s *reviewService) ListByPackage(ctx context.Context, packageID string, req *request.PaginatedRequest) (*response.PackageReviewsResponse, error) {
	id, err := uuid.Parse(packageID)
	if err != nil {
		return nil, newValidationError("package_id", "Must be a valid UUID")
	}

	if req == nil {
		req = request.DefaultPage()
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	reviews, err := s.repo.Review.FindByPackageID(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		return nil, storeErr("list reviews", err)
	}

	avg, count, err := s.repo.Review.GetPackageReviewStats(ctx, id)
	if err != nil {
		return nil, storeErr("review stats", err)
	}

	items := make([]response.ReviewResponse, len(reviews))
	for i, r := range reviews {
		items[i] = response.ReviewToResponse(&r.Review, r.AuthorName)
	}

	return &response.PackageReviewsResponse{
		PackageID:     id.String(),
		AverageRating: avg,
		ReviewCount:   count,
		Reviews:       response.NewPaginatedResponse(items, req.Page, req.Limit(), count),
	}, nil
}
