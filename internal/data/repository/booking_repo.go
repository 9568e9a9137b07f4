package repository

import (
	"context"
	"errors"
	"fmt"

	"travel-marketplace/internal/data/entity"
	"travel-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)

	// Detail lists are newest first and carry the package summary when the
	// package still exists.
	FindDetailByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.BookingDetail, error)
	FindDetailBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*entity.BookingDetail, error)
	FindDetailAll(ctx context.Context) ([]*entity.BookingDetail, error)

	// Raw lists feed the dashboard aggregations.
	FindBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*entity.Booking, error)
	FindAll(ctx context.Context) ([]*entity.Booking, error)

	// TransitionFromPending moves a pending booking to status. ErrNotUpdated
	// when the booking is missing or no longer pending.
	TransitionFromPending(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `b.id, b.package_id, b.user_id, b.travelers, b.total_price, b.status, b.created_at, b.updated_at`

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, package_id, user_id, travelers, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.PackageID,
		booking.UserID,
		booking.Travelers,
		booking.TotalPrice,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", booking.UserID.String()),
			zap.String("package_id", booking.PackageID.String()),
		)
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

func scanBooking(row rowScanner) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.PackageID,
		&b.UserID,
		&b.Travelers,
		&b.TotalPrice,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

const bookingDetailSelect = `
	SELECT ` + bookingColumns + `,
	       p.id, p.seller_id, p.title, p.destination, p.category, p.price, p.discount
	FROM bookings b
	LEFT JOIN packages p ON p.id = b.package_id
`

func (r *bookingRepository) queryDetails(ctx context.Context, op, query string, args ...any) ([]*entity.BookingDetail, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query bookings", zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	details := make([]*entity.BookingDetail, 0)
	for rows.Next() {
		var (
			d           entity.BookingDetail
			pkgID       *uuid.UUID
			sellerID    *uuid.UUID
			title       *string
			destination *string
			category    *string
			price       *int64
			discount    *int
		)
		err := rows.Scan(
			&d.ID,
			&d.PackageID,
			&d.UserID,
			&d.Travelers,
			&d.TotalPrice,
			&d.Status,
			&d.CreatedAt,
			&d.UpdatedAt,
			&pkgID,
			&sellerID,
			&title,
			&destination,
			&category,
			&price,
			&discount,
		)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.String("op", op), zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}

		if pkgID != nil {
			d.Package = &entity.PackageSummary{
				ID:          *pkgID,
				SellerID:    *sellerID,
				Title:       *title,
				Destination: *destination,
				Category:    *category,
				Price:       *price,
				Discount:    *discount,
			}
		}
		details = append(details, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return details, nil
}

func (r *bookingRepository) FindDetailByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.BookingDetail, error) {
	query := bookingDetailSelect + ` WHERE b.user_id = $1 ORDER BY b.created_at DESC`
	return r.queryDetails(ctx, "find bookings by user", query, userID)
}

func (r *bookingRepository) FindDetailBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*entity.BookingDetail, error) {
	query := bookingDetailSelect + ` WHERE p.seller_id = $1 ORDER BY b.created_at DESC`
	return r.queryDetails(ctx, "find bookings by seller", query, sellerID)
}

func (r *bookingRepository) FindDetailAll(ctx context.Context) ([]*entity.BookingDetail, error) {
	query := bookingDetailSelect + ` ORDER BY b.created_at DESC`
	return r.queryDetails(ctx, "find all bookings", query)
}

func (r *bookingRepository) queryBookings(ctx context.Context, op, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query bookings", zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	bookings := make([]*entity.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.String("op", op), zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

func (r *bookingRepository) FindBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN packages p ON p.id = b.package_id
		WHERE p.seller_id = $1
		ORDER BY b.created_at ASC
	`
	return r.queryBookings(ctx, "find seller bookings", query, sellerID)
}

func (r *bookingRepository) FindAll(ctx context.Context) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b ORDER BY b.created_at ASC`
	return r.queryBookings(ctx, "find bookings", query)
}

func (r *bookingRepository) TransitionFromPending(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotUpdated
	}

	return nil
}
