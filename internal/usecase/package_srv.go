package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"travel-marketplace/internal/authz"
	"travel-marketplace/internal/data/entity"
	"travel-marketplace/internal/data/repository"
	"travel-marketplace/internal/dto/request"
	"travel-marketplace/internal/dto/response"
	"travel-marketplace/pkg/broker"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PackageService interface {
	Create(ctx context.Context, actor authz.Actor, req *request.CreatePackageRequest) (*response.PackageResponse, error)
	Edit(ctx context.Context, actor authz.Actor, packageID string, req *request.UpdatePackageRequest) (*response.PackageResponse, error)
	Delete(ctx context.Context, actor authz.Actor, packageID string) error

	// Moderation (admin only)
	Approve(ctx context.Context, actor authz.Actor, packageID string) (*response.PackageResponse, error)
	Reject(ctx context.Context, actor authz.Actor, packageID string) error
	ListPending(ctx context.Context, actor authz.Actor) ([]response.PackageResponse, error)

	// Get returns approved packages to anyone; actor may be nil.
	Get(ctx context.Context, actor *authz.Actor, packageID string) (*response.PackageResponse, error)
	ListApproved(ctx context.Context, req *request.ListPackagesRequest) (*response.PaginatedResponse[response.PackageResponse], error)
	ListMine(ctx context.Context, actor authz.Actor) ([]response.PackageResponse, error)
}

type packageService struct {
	repo   *repository.Repository
	events broker.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewPackageService(repo *repository.Repository, events broker.Publisher, log *zap.Logger) PackageService {
	return &packageService{
		repo:   repo,
		events: events,
		log:    log.With(zap.String("service", "package")),
		now:    time.Now,
	}
}

func (s *packageService) Create(ctx context.Context, actor authz.Actor, req *request.CreatePackageRequest) (*response.PackageResponse, error) {
	if !authz.CanAct(actor, authz.OpCreatePackage, uuid.Nil) {
		return nil, ErrForbidden
	}

	normalizePackageRequest(req)
	if err := validate(req); err != nil {
		s.log.Warn("Create package validation failed", zap.Error(err))
		return nil, err
	}

	now := s.now().UTC()
	pkg := &entity.Package{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		SellerID:   actor.ID,
		IsApproved: false,
	}
	applyPackageFields(pkg, req)

	if err := s.repo.Package.Create(ctx, pkg); err != nil {
		return nil, storeErr("create package", err)
	}

	s.log.Info("Package created",
		zap.String("package_id", pkg.ID.String()),
		zap.String("seller_id", actor.ID.String()),
	)

	resp := response.PackageToResponse(pkg)
	return &resp, nil
}

func (s *packageService) Edit(ctx context.Context, actor authz.Actor, packageID string, req *request.UpdatePackageRequest) (*response.PackageResponse, error) {
	pkg, err := s.findPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	if !authz.CanAct(actor, authz.OpEditPackage, pkg.SellerID) {
		s.log.Warn("Edit package forbidden",
			zap.String("package_id", packageID),
			zap.String("actor_id", actor.ID.String()),
		)
		return nil, ErrForbidden
	}

	merged := packageToRequest(pkg)
	mergePackagePatch(merged, req)
	normalizePackageRequest(merged)
	if err := validate(merged); err != nil {
		return nil, err
	}

	applyPackageFields(pkg, merged)
	pkg.IsApproved = false
	pkg.UpdatedAt = s.now().UTC()

	if err := s.repo.Package.Update(ctx, pkg); err != nil {
		if errors.Is(err, repository.ErrNotUpdated) {
			// deleted between read and write
			return nil, notFound("package", packageID)
		}
		return nil, storeErr("update package", err)
	}

	s.log.Info("Package edited, approval reset",
		zap.String("package_id", pkg.ID.String()),
		zap.String("actor_id", actor.ID.String()),
	)

	resp := response.PackageToResponse(pkg)
	return &resp, nil
}

func (s *packageService) Delete(ctx context.Context, actor authz.Actor, packageID string) error {
	pkg, err := s.findPackage(ctx, packageID)
	if err != nil {
		return err
	}

	if !authz.CanAct(actor, authz.OpDeletePackage, pkg.SellerID) {
		return ErrForbidden
	}

	if err := s.repo.Package.Delete(ctx, pkg.ID); err != nil {
		if errors.Is(err, repository.ErrNotUpdated) {
			return notFound("package", packageID)
		}
		return storeErr("delete package", err)
	}

	s.log.Info("Package deleted",
		zap.String("package_id", pkg.ID.String()),
		zap.String("actor_id", actor.ID.String()),
	)
	return nil
}

func (s *packageService) Approve(ctx context.Context, actor authz.Actor, packageID string) (*response.PackageResponse, error) {
	if !authz.CanAct(actor, authz.OpApprovePackage, uuid.Nil) {
		return nil, ErrForbidden
	}

	id, err := uuid.Parse(packageID)
	if err != nil {
		return nil, notFound("package", packageID)
	}

	if err := s.repo.Package.Approve(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrNotUpdated) {
			return nil, storeErr("approve package", err)
		}
		return nil, s.explainNoTransition(ctx, id, packageID)
	}

	pkg, err := s.repo.Package.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find package", err)
	}
	if pkg == nil {
		return nil, notFound("package", packageID)
	}

	s.log.Info("Package approved",
		zap.String("package_id", packageID),
		zap.String("admin_id", actor.ID.String()),
	)
	publish(ctx, s.events, s.log, broker.PackageApproved, s.packageEvent(pkg, actor))

	resp := response.PackageToResponse(pkg)
	return &resp, nil
}

func (s *packageService) Reject(ctx context.Context, actor authz.Actor, packageID string) error {
	if !authz.CanAct(actor, authz.OpRejectPackage, uuid.Nil) {
		return ErrForbidden
	}

	pkg, err := s.findPackage(ctx, packageID)
	if err != nil {
		return err
	}
	if pkg.IsApproved {
		return ErrAlreadyApproved
	}

	if err := s.repo.Package.DeletePending(ctx, pkg.ID); err != nil {
		if !errors.Is(err, repository.ErrNotUpdated) {
			return storeErr("reject package", err)
		}
		return s.explainNoTransition(ctx, pkg.ID, packageID)
	}

	s.log.Info("Package rejected",
		zap.String("package_id", packageID),
		zap.String("admin_id", actor.ID.String()),
	)
	publish(ctx, s.events, s.log, broker.PackageRejected, s.packageEvent(pkg, actor))

	return nil
}

// explainNoTransition tells apart the two reasons a conditional write on a
// pending package can miss.
func (s *packageService) explainNoTransition(ctx context.Context, id uuid.UUID, packageID string) error {
	pkg, err := s.repo.Package.FindByID(ctx, id)
	if err != nil {
		return storeErr("find package", err)
	}
	if pkg == nil {
		return notFound("package", packageID)
	}
	return ErrAlreadyApproved
}

func (s *packageService) ListPending(ctx context.Context, actor authz.Actor) ([]response.PackageResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	packages, err := s.repo.Package.FindPending(ctx)
	if err != nil {
		return nil, storeErr("list pending packages", err)
	}

	return response.PackagesToResponse(packages), nil
}

func (s *packageService) Get(ctx context.Context, actor *authz.Actor, packageID string) (*response.PackageResponse, error) {
	pkg, err := s.findPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	var (
		actorID uuid.UUID
		isAdmin bool
	)
	if actor != nil {
		actorID, isAdmin = actor.ID, actor.IsAdmin()
	}

	// hidden packages are indistinguishable from missing ones
	if !pkg.VisibleTo(actorID, isAdmin) {
		return nil, notFound("package", packageID)
	}

	resp := response.PackageToResponse(pkg)
	return &resp, nil
}

func (s *packageService) ListApproved(ctx context.Context, req *request.ListPackagesRequest) (*response.PaginatedResponse[response.PackageResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := entity.PackageFilter{
		Category:    req.Category,
		Destination: req.Destination,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		Sort:        entity.PackageSort(req.Sort),
	}
	if !filter.Sort.Valid() {
		filter.Sort = entity.SortNewest
	}

	packages, err := s.repo.Package.FindApproved(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, storeErr("list approved packages", err)
	}

	total, err := s.repo.Package.CountApproved(ctx, filter)
	if err != nil {
		return nil, storeErr("count approved packages", err)
	}

	return response.NewPaginatedResponse(response.PackagesToResponse(packages), req.Page, req.Limit(), total), nil
}

func (s *packageService) ListMine(ctx context.Context, actor authz.Actor) ([]response.PackageResponse, error) {
	if !actor.IsSeller() {
		return nil, ErrForbidden
	}

	packages, err := s.repo.Package.FindBySellerID(ctx, actor.ID)
	if err != nil {
		return nil, storeErr("list seller packages", err)
	}

	return response.PackagesToResponse(packages), nil
}

// ==================== HELPER METHODS ====================

func (s *packageService) findPackage(ctx context.Context, packageID string) (*entity.Package, error) {
	id, err := uuid.Parse(packageID)
	if err != nil {
		return nil, notFound("package", packageID)
	}

	pkg, err := s.repo.Package.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find package", err)
	}
	if pkg == nil {
		return nil, notFound("package", packageID)
	}

	return pkg, nil
}

func (s *packageService) packageEvent(pkg *entity.Package, actor authz.Actor) PackageEvent {
	return PackageEvent{
		PackageID:  pkg.ID,
		SellerID:   pkg.SellerID,
		ActorID:    actor.ID,
		Title:      pkg.Title,
		OccurredAt: s.now().UTC(),
	}
}

func normalizePackageRequest(req *request.CreatePackageRequest) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Destination = strings.TrimSpace(req.Destination)
	req.Category = strings.TrimSpace(req.Category)
	for i := range req.Itinerary {
		req.Itinerary[i].Title = strings.TrimSpace(req.Itinerary[i].Title)
	}
}

func applyPackageFields(pkg *entity.Package, req *request.CreatePackageRequest) {
	pkg.Title = req.Title
	pkg.Description = req.Description
	pkg.Destination = req.Destination
	pkg.Category = req.Category
	if req.Price != nil {
		pkg.Price = *req.Price
	}
	pkg.Discount = req.Discount
	pkg.Duration = req.Duration
	pkg.MaxPeople = req.MaxPeople
	pkg.Images = req.Images
	pkg.Inclusions = req.Inclusions
	pkg.Exclusions = req.Exclusions
	pkg.CancellationPolicy = req.CancellationPolicy

	pkg.Itinerary = make([]entity.ItineraryDay, len(req.Itinerary))
	for i, day := range req.Itinerary {
		pkg.Itinerary[i] = entity.ItineraryDay{
			Day:         day.Day,
			Title:       day.Title,
			Description: day.Description,
		}
	}
}

func packageToRequest(pkg *entity.Package) *request.CreatePackageRequest {
	price := pkg.Price
	req := &request.CreatePackageRequest{
		Title:              pkg.Title,
		Description:        pkg.Description,
		Destination:        pkg.Destination,
		Category:           pkg.Category,
		Price:              &price,
		Discount:           pkg.Discount,
		Duration:           pkg.Duration,
		MaxPeople:          pkg.MaxPeople,
		Images:             pkg.Images,
		Inclusions:         pkg.Inclusions,
		Exclusions:         pkg.Exclusions,
		CancellationPolicy: pkg.CancellationPolicy,
	}

	req.Itinerary = make([]request.ItineraryDayRequest, len(pkg.Itinerary))
	for i, day := range pkg.Itinerary {
		req.Itinerary[i] = request.ItineraryDayRequest{
			Day:         day.Day,
			Title:       day.Title,
			Description: day.Description,
		}
	}

	return req
}

func mergePackagePatch(dst *request.CreatePackageRequest, patch *request.UpdatePackageRequest) {
	if patch == nil {
		return
	}
	if patch.Title != nil {
		dst.Title = *patch.Title
	}
	if patch.Description != nil {
		dst.Description = *patch.Description
	}
	if patch.Destination != nil {
		dst.Destination = *patch.Destination
	}
	if patch.Category != nil {
		dst.Category = *patch.Category
	}
	if patch.Price != nil {
		dst.Price = patch.Price
	}
	if patch.Discount != nil {
		dst.Discount = *patch.Discount
	}
	if patch.Duration != nil {
		dst.Duration = *patch.Duration
	}
	if patch.MaxPeople != nil {
		dst.MaxPeople = patch.MaxPeople
	}
	if patch.Images != nil {
		dst.Images = *patch.Images
	}
	if patch.Itinerary != nil {
		dst.Itinerary = *patch.Itinerary
	}
	if patch.Inclusions != nil {
		dst.Inclusions = *patch.Inclusions
	}
	if patch.Exclusions != nil {
		dst.Exclusions = *patch.Exclusions
	}
	if patch.CancellationPolicy != nil {
		dst.CancellationPolicy = *patch.CancellationPolicy
	}
}
