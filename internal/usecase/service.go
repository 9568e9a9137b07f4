package usecase

import (
	"travel-marketplace/internal/data/repository"
	"travel-marketplace/pkg/broker"
	"travel-marketplace/pkg/storage"
	"travel-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	Role      RoleResolver
	Package   PackageService
	Booking   BookingService
	Dashboard DashboardService
	Review    ReviewService
	Upload    UploadService
}

func NewService(
	repo *repository.Repository,
	events broker.Publisher,
	store storage.Store,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:      NewAuthService(repo, config, log),
		Role:      NewRoleResolver(repo.Profile, log),
		Package:   NewPackageService(repo, events, log),
		Booking:   NewBookingService(repo, events, log),
		Dashboard: NewDashboardService(repo, log),
		Review:    NewReviewService(repo, log),
		Upload:    NewUploadService(store, config.Upload.MaxBytes, log),
	}
}
