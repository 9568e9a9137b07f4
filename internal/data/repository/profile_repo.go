package repository

import (
	"context"
	"errors"
	"fmt"

	"travel-marketplace/internal/authz"
	"travel-marketplace/internal/data/entity"
	"travel-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	CountByRole(ctx context.Context) (map[authz.Role]int64, error)
}

type profileRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProfileRepository(db database.PgxIface, log *zap.Logger) ProfileRepository {
	return &profileRepository{
		db:  db,
		log: log.With(zap.String("repository", "profile")),
	}
}

func (r *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	query := `
		INSERT INTO profiles (id, role, name, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.Role,
		profile.Name,
		profile.AvatarURL,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create profile",
			zap.Error(err),
			zap.String("profile_id", profile.ID.String()),
			zap.String("role", string(profile.Role)),
		)
		return fmt.Errorf("create profile %s: %w", profile.ID.String(), err)
	}

	return nil
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	query := `
		SELECT id, role, name, avatar_url, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var profile entity.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Role,
		&profile.Name,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find profile by ID",
			zap.Error(err),
			zap.String("profile_id", id.String()),
		)
		return nil, fmt.Errorf("find profile by ID %s: %w", id.String(), err)
	}

	return &profile, nil
}

// CountByRole returns the number of profiles per role. Roles with no
// profiles are absent from the map.
func (r *profileRepository) CountByRole(ctx context.Context) (map[authz.Role]int64, error) {
	query := `
		SELECT role, COUNT(*)
		FROM profiles
		GROUP BY role
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to count profiles by role", zap.Error(err))
		return nil, fmt.Errorf("count profiles by role: %w", err)
	}
	defer rows.Close()

	counts := make(map[authz.Role]int64)
	for rows.Next() {
		var (
			role  authz.Role
			count int64
		)
		if err := rows.Scan(&role, &count); err != nil {
			r.log.Error("Failed to scan role count row", zap.Error(err))
			return nil, fmt.Errorf("scan role count row: %w", err)
		}
		counts[role] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role counts: %w", err)
	}

	return counts, nil
}
