package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"travel-marketplace/internal/data/entity"
	"travel-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PackageRepository interface {
	Create(ctx context.Context, pkg *entity.Package) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Package, error)
	FindApproved(ctx context.Context, filter entity.PackageFilter, limit, offset int) ([]*entity.Package, error)
	CountApproved(ctx context.Context, filter entity.PackageFilter) (int64, error)
	FindBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*entity.Package, error)
	FindPending(ctx context.Context) ([]*entity.Package, error)
	FindAll(ctx context.Context) ([]*entity.Package, error)
	CountByApproval(ctx context.Context) (total, pending int64, err error)

	// Update overwrites the editable fields and clears approval.
	Update(ctx context.Context, pkg *entity.Package) error
	// Approve flips a pending package to approved. ErrNotUpdated when the
	// package is missing or already approved.
	Approve(ctx context.Context, id uuid.UUID) error
	// DeletePending removes a package only while it is still pending.
	DeletePending(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type packageRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPackageRepository(db database.PgxIface, log *zap.Logger) PackageRepository {
	return &packageRepository{
		db:  db,
		log: log.With(zap.String("repository", "package")),
	}
}

const packageColumns = `
	id, seller_id, title, description, destination, category, price, discount,
	duration, max_people, images, itinerary, inclusions, exclusions,
	cancellation_policy, is_approved, created_at, updated_at`

var packageOrderBy = map[entity.PackageSort]string{
	entity.SortNewest:    "created_at DESC, id",
	entity.SortOldest:    "created_at ASC, id",
	entity.SortPriceAsc:  "price ASC, created_at DESC, id",
	entity.SortPriceDesc: "price DESC, created_at DESC, id",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPackage(row rowScanner) (*entity.Package, error) {
	var p entity.Package
	err := row.Scan(
		&p.ID,
		&p.SellerID,
		&p.Title,
		&p.Description,
		&p.Destination,
		&p.Category,
		&p.Price,
		&p.Discount,
		&p.Duration,
		&p.MaxPeople,
		&p.Images,
		&p.Itinerary,
		&p.Inclusions,
		&p.Exclusions,
		&p.CancellationPolicy,
		&p.IsApproved,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *packageRepository) queryPackages(ctx context.Context, op, query string, args ...any) ([]*entity.Package, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query packages", zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	packages := make([]*entity.Package, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			r.log.Error("Failed to scan package row", zap.String("op", op), zap.Error(err))
			return nil, fmt.Errorf("scan package row: %w", err)
		}
		packages = append(packages, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return packages, nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (r *packageRepository) Create(ctx context.Context, pkg *entity.Package) error {
	query := `
		INSERT INTO packages (id, seller_id, title, description, destination, category,
		                      price, discount, duration, max_people, images, itinerary,
		                      inclusions, exclusions, cancellation_policy, is_approved,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.db.Exec(ctx, query,
		pkg.ID,
		pkg.SellerID,
		pkg.Title,
		pkg.Description,
		pkg.Destination,
		pkg.Category,
		pkg.Price,
		pkg.Discount,
		pkg.Duration,
		pkg.MaxPeople,
		emptyIfNil(pkg.Images),
		emptyIfNil(pkg.Itinerary),
		emptyIfNil(pkg.Inclusions),
		emptyIfNil(pkg.Exclusions),
		emptyIfNil(pkg.CancellationPolicy),
		pkg.IsApproved,
		pkg.CreatedAt,
		pkg.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create package",
			zap.Error(err),
			zap.String("seller_id", pkg.SellerID.String()),
			zap.String("title", pkg.Title),
		)
		return fmt.Errorf("create package %q: %w", pkg.Title, err)
	}

	return nil
}

func (r *packageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`

	pkg, err := scanPackage(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find package by ID",
			zap.Error(err),
			zap.String("package_id", id.String()),
		)
		return nil, fmt.Errorf("find package by ID %s: %w", id.String(), err)
	}

	return pkg, nil
}

// approvedWhere builds the WHERE clause of the public catalogue.
func approvedWhere(filter entity.PackageFilter) (string, []any) {
	conds := []string{"is_approved = TRUE"}
	var args []any

	if filter.Category != nil && *filter.Category != "" {
		args = append(args, *filter.Category)
		conds = append(conds, fmt.Sprintf("LOWER(category) = LOWER($%d)", len(args)))
	}
	if filter.Destination != nil && *filter.Destination != "" {
		args = append(args, "%"+escapeLike(*filter.Destination)+"%")
		conds = append(conds, fmt.Sprintf(`destination ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *packageRepository) FindApproved(ctx context.Context, filter entity.PackageFilter, limit, offset int) ([]*entity.Package, error) {
	where, args := approvedWhere(filter)

	order, ok := packageOrderBy[filter.Sort]
	if !ok {
		order = packageOrderBy[entity.SortNewest]
	}

	args = append(args, limit, offset)
	query := `SELECT ` + packageColumns + ` FROM packages` + where +
		` ORDER BY ` + order +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return r.queryPackages(ctx, "find approved packages", query, args...)
}

func (r *packageRepository) CountApproved(ctx context.Context, filter entity.PackageFilter) (int64, error) {
	where, args := approvedWhere(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM packages`+where, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count approved packages", zap.Error(err))
		return 0, fmt.Errorf("count approved packages: %w", err)
	}

	return count, nil
}

func (r *packageRepository) FindBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*entity.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE seller_id = $1 ORDER BY created_at DESC`
	return r.queryPackages(ctx, "find packages by seller", query, sellerID)
}

func (r *packageRepository) FindPending(ctx context.Context) ([]*entity.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE is_approved = FALSE ORDER BY created_at ASC`
	return r.queryPackages(ctx, "find pending packages", query)
}

func (r *packageRepository) FindAll(ctx context.Context) ([]*entity.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages ORDER BY created_at DESC`
	return r.queryPackages(ctx, "find all packages", query)
}

func (r *packageRepository) CountByApproval(ctx context.Context) (int64, int64, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_approved = FALSE)
		FROM packages
	`

	var total, pending int64
	if err := r.db.QueryRow(ctx, query).Scan(&total, &pending); err != nil {
		r.log.Error("Failed to count packages", zap.Error(err))
		return 0, 0, fmt.Errorf("count packages: %w", err)
	}

	return total, pending, nil
}

func (r *packageRepository) Update(ctx context.Context, pkg *entity.Package) error {
	query := `
		UPDATE packages
		SET title = $2, description = $3, destination = $4, category = $5,
		    price = $6, discount = $7, duration = $8, max_people = $9,
		    images = $10, itinerary = $11, inclusions = $12, exclusions = $13,
		    cancellation_policy = $14, is_approved = FALSE, updated_at = $15
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		pkg.ID,
		pkg.Title,
		pkg.Description,
		pkg.Destination,
		pkg.Category,
		pkg.Price,
		pkg.Discount,
		pkg.Duration,
		pkg.MaxPeople,
		emptyIfNil(pkg.Images),
		emptyIfNil(pkg.Itinerary),
		emptyIfNil(pkg.Inclusions),
		emptyIfNil(pkg.Exclusions),
		emptyIfNil(pkg.CancellationPolicy),
		pkg.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update package",
			zap.Error(err),
			zap.String("package_id", pkg.ID.String()),
		)
		return fmt.Errorf("update package %s: %w", pkg.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotUpdated
	}

	pkg.IsApproved = false
	return nil
}

func (r *packageRepository) Approve(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE packages
		SET is_approved = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_approved = FALSE
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to approve package",
			zap.Error(err),
			zap.String("package_id", id.String()),
		)
		return fmt.Errorf("approve package %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotUpdated
	}

	return nil
}

func (r *packageRepository) DeletePending(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, `DELETE FROM packages WHERE id = $1 AND is_approved = FALSE`, id)
}

func (r *packageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, `DELETE FROM packages WHERE id = $1`, id)
}

func (r *packageRepository) delete(ctx context.Context, query string, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete package",
			zap.Error(err),
			zap.String("package_id", id.String()),
		)
		return fmt.Errorf("delete package %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotUpdated
	}

	return nil
}
