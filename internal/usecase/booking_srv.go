package usecase

import (
	"context"
	"errors"
	"time"

	"travel-marketplace/internal/authz"
	"travel-marketplace/internal/data/entity"
	"travel-marketplace/internal/data/repository"
	"travel-marketplace/internal/dto/request"
	"travel-marketplace/internal/dto/response"
	"travel-marketplace/internal/pricing"
	"travel-marketplace/pkg/broker"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	Create(ctx context.Context, actor authz.Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	Confirm(ctx context.Context, actor authz.Actor, bookingID string) (*response.BookingResponse, error)
	Cancel(ctx context.Context, actor authz.Actor, bookingID string) (*response.BookingResponse, error)

	// List dispatches to the list matching the actor's role.
	List(ctx context.Context, actor authz.Actor) ([]response.BookingResponse, error)
	ListForUser(ctx context.Context, actor authz.Actor) ([]response.BookingResponse, error)
	ListForSeller(ctx context.Context, actor authz.Actor) ([]response.BookingResponse, error)
	ListForAdmin(ctx context.Context, actor authz.Actor) ([]response.BookingResponse, error)
}

type bookingService struct {
	repo   *repository.Repository
	events broker.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewBookingService(repo *repository.Repository, events broker.Publisher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:   repo,
		events: events,
		log:    log.With(zap.String("service", "booking")),
		now:    time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, actor authz.Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if !authz.CanAct(actor, authz.OpCreateBooking, uuid.Nil) {
		return nil, ErrForbidden
	}

	if err := validate(req); err != nil {
		s.log.Warn("Create booking validation failed", zap.Error(err))
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
	// pending packages cannot be booked and are not disclosed
	if pkg == nil || !pkg.IsApproved {
		return nil, notFound("package", req.PackageID)
	}

	if pkg.MaxPeople != nil && req.Travelers > *pkg.MaxPeople {
		s.log.Warn("Booking exceeds package capacity",
			zap.String("package_id", req.PackageID),
			zap.Int("travelers", req.Travelers),
			zap.Int("max_people", *pkg.MaxPeople),
		)
		return nil, ErrCapacityExceeded
	}

	now := s.now().UTC()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PackageID:  pkg.ID,
		UserID:     actor.ID,
		Travelers:  req.Travelers,
		TotalPrice: pricing.TotalForBooking(pkg.Price, pkg.Discount, req.Travelers),
		Status:     entity.BookingStatusPending,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		return nil, storeErr("create booking", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("package_id", pkg.ID.String()),
		zap.String("user_id", actor.ID.String()),
		zap.Int("travelers", booking.Travelers),
	)
	publish(ctx, s.events, s.log, broker.BookingCreated, s.bookingEvent(booking, actor))

	resp := response.BookingToResponse(booking, summarize(pkg))
	return &resp, nil
}

func (s *bookingService) Confirm(ctx context.Context, actor authz.Actor, bookingID string) (*response.BookingResponse, error) {
	return s.transition(ctx, actor, bookingID, entity.BookingStatusConfirmed)
}

func (s *bookingService) Cancel(ctx context.Context, actor authz.Actor, bookingID string) (*response.BookingResponse, error) {
	return s.transition(ctx, actor, bookingID, entity.BookingStatusCancelled)
}

// transition moves a pending booking to target with one conditional write.
// The package's seller owns the booking for permission purposes; once the
// package is gone only an admin can act on it.
func (s *bookingService) transition(ctx context.Context, actor authz.Actor, bookingID string, target entity.BookingStatus) (*response.BookingResponse, error) {
	op := authz.OpConfirmBooking
	routingKey := broker.BookingConfirmed
	if target == entity.BookingStatusCancelled {
		op = authz.OpCancelBooking
		routingKey = broker.BookingCancelled
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, notFound("booking", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find booking", err)
	}
	if booking == nil {
		return nil, notFound("booking", bookingID)
	}

	pkg, err := s.repo.Package.FindByID(ctx, booking.PackageID)
	if err != nil {
		return nil, storeErr("find package", err)
	}

	owner := uuid.Nil
	if pkg != nil {
		owner = pkg.SellerID
	}

	if !authz.CanAct(actor, op, owner) {
		s.log.Warn("Booking transition forbidden",
			zap.String("booking_id", bookingID),
			zap.String("actor_id", actor.ID.String()),
			zap.String("target", string(target)),
		)
		return nil, ErrForbidden
	}

	if booking.Status.Terminal() {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.Booking.TransitionFromPending(ctx, id, target); err != nil {
		if !errors.Is(err, repository.ErrNotUpdated) {
			return nil, storeErr("update booking status", err)
		}
		// lost a race: someone else moved or removed it first
		current, err := s.repo.Booking.FindByID(ctx, id)
		if err != nil {
			return nil, storeErr("find booking", err)
		}
		if current == nil {
			return nil, notFound("booking", bookingID)
		}
		return nil, ErrInvalidTransition
	}

	booking.Status = target
	booking.UpdatedAt = s.now().UTC()

	s.log.Info("Booking status changed",
		zap.String("booking_id", bookingID),
		zap.String("status", string(target)),
		zap.String("actor_id", actor.ID.String()),
	)
	publish(ctx, s.events, s.log, routingKey, s.bookingEvent(booking, actor))

	resp := response.BookingToResponse(booking, summarize(pkg))
	return &resp, nil
}

func (s *bookingService) List(ctx context.Context, actor authz.Actor) ([]response.BookingResponse, error) {
	switch actor.Role {
	case authz.RoleAdmin:
		return s.ListForAdmin(ctx, actor)
	case authz.RoleSeller:
		return s.ListForSeller(ctx, actor)
	case authz.RoleUser:
		return s.ListForUser(ctx, actor)
	}
	return nil, ErrForbidden
}

func (s *bookingService) ListForUser(ctx context.Context, actor authz.Actor) ([]response.BookingResponse, error) {
	if actor.ID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	details, err := s.repo.Booking.FindDetailByUserID(ctx, actor.ID)
	if err != nil {
		return nil, storeErr("list user bookings", err)
	}

	return response.BookingDetailsToResponse(details), nil
}

func (s *bookingService) ListForSeller(ctx context.Context, actor authz.Actor) ([]response.BookingResponse, error) {
	if !actor.IsSeller() {
		return nil, ErrForbidden
	}

	details, err := s.repo.Booking.FindDetailBySellerID(ctx, actor.ID)
	if err != nil {
		return nil, storeErr("list seller bookings", err)
	}

	return response.BookingDetailsToResponse(details), nil
}

func (s *bookingService) ListForAdmin(ctx context.Context, actor authz.Actor) ([]response.BookingResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	details, err := s.repo.Booking.FindDetailAll(ctx)
	if err != nil {
		return nil, storeErr("list bookings", err)
	}

	return response.BookingDetailsToResponse(details), nil
}

func (s *bookingService) bookingEvent(b *entity.Booking, actor authz.Actor) BookingEvent {
	return BookingEvent{
		BookingID:  b.ID,
		PackageID:  b.PackageID,
		UserID:     b.UserID,
		ActorID:    actor.ID,
		Status:     string(b.Status),
		Travelers:  b.Travelers,
		TotalPrice: b.TotalPrice,
		OccurredAt: s.now().UTC(),
	}
}

func summarize(pkg *entity.Package) *entity.PackageSummary {
	if pkg == nil {
		return nil
	}
	return &entity.PackageSummary{
		ID:          pkg.ID,
		SellerID:    pkg.SellerID,
		Title:       pkg.Title,
		Destination: pkg.Destination,
		Category:    pkg.Category,
		Price:       pkg.Price,
		Discount:    pkg.Discount,
	}
}
