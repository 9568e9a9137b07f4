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

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByPackageID(ctx context.Context, packageID uuid.UUID, limit, offset int) ([]*entity.ReviewWithAuthor, error)
	FindByUserAndPackage(ctx context.Context, userID, packageID uuid.UUID) (*entity.Review, error)

	// GetPackageReviewStats returns the average rating and review count.
	GetPackageReviewStats(ctx context.Context, packageID uuid.UUID) (float64, int64, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

// Create yields ErrDuplicate when the user already reviewed the package.
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, package_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.PackageID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)

	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("package_id", review.PackageID.String()),
		)
		return fmt.Errorf("create review for package %s by user %s: %w",
			review.PackageID.String(), review.UserID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByPackageID(ctx context.Context, packageID uuid.UUID, limit, offset int) ([]*entity.ReviewWithAuthor, error) {
	query := `
		SELECT r.id, r.user_id, r.package_id, r.rating, r.comment, r.created_at, pr.name
		FROM reviews r
		LEFT JOIN profiles pr ON pr.id = r.user_id
		WHERE r.package_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, packageID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by package ID",
			zap.Error(err),
			zap.String("package_id", packageID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find reviews by package ID %s: %w", packageID.String(), err)
	}
	defer rows.Close()

	reviews := make([]*entity.ReviewWithAuthor, 0)
	for rows.Next() {
		var review entity.ReviewWithAuthor
		err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.PackageID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.AuthorName,
		)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) FindByUserAndPackage(ctx context.Context, userID, packageID uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, user_id, package_id, rating, comment, created_at
		FROM reviews
		WHERE user_id = $1 AND package_id = $2
		LIMIT 1
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, userID, packageID).Scan(
		&review.ID,
		&review.UserID,
		&review.PackageID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by user and package",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("package_id", packageID.String()),
		)
		return nil, fmt.Errorf("find review by user and package: %w", err)
	}

	return &review, nil
}

func (r *reviewRepository) GetPackageReviewStats(ctx context.Context, packageID uuid.UUID) (float64, int64, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		FROM reviews
		WHERE package_id = $1
	`

	var (
		avg   float64
		count int64
	)
	if err := r.db.QueryRow(ctx, query, packageID).Scan(&avg, &count); err != nil {
		r.log.Error("Failed to get package review stats",
			zap.Error(err),
			zap.String("package_id", packageID.String()),
		)
		return 0, 0, fmt.Errorf("get review stats for package %s: %w", packageID.String(), err)
	}

	return avg, count, nil
}
