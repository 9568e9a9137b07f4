package repository

import (
	"travel-marketplace/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Account AccountRepository
	Profile ProfileRepository
	Session SessionRepository
	Package PackageRepository
	Booking BookingRepository
	Review  ReviewRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Account: NewAccountRepository(db, log),
		Profile: NewProfileRepository(db, log),
		Session: NewSessionRepository(db, log),
		Package: NewPackageRepository(db, log),
		Booking: NewBookingRepository(db, log),
		Review:  NewReviewRepository(db, log),
	}
}
