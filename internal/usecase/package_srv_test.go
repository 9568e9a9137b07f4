package usecase_test

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"travel-marketplace/internal/authz"
	"travel-marketplace/internal/data/entity"
	"travel-marketplace/internal/dto/request"
	"travel-marketplace/internal/usecase"
	"travel-marketplace/pkg/broker"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func validCreatePackage() *request.CreatePackageRequest {
	return &request.CreatePackageRequest{
		Title:       "  Komodo Trek ",
		Description: "Three islands in four days",
		Destination: "Labuan Bajo",
		Category:    "adventure",
		Price:       int64Ptr(2500),
		Discount:    10,
		Duration:    4,
		MaxPeople:   intPtr(8),
		Images:      []string{"https://cdn.example.com/komodo.jpg"},
		Itinerary: []request.ItineraryDayRequest{
			{Day: 1, Title: "Arrival", Description: "Harbour pickup"},
		},
	}
}

func TestPackageService_Create(t *testing.T) {
	f := newFixture()
	svc := usecase.NewPackageService(f.repo, f.events, zap.NewNop())
	seller := newActor(authz.RoleSeller)

	t.Run("SellerCreatesPendingPackage", func(t *testing.T) {
		resp, err := svc.Create(context.Background(), seller, validCreatePackage())
		require.NoError(t, err)

		assert.Equal(t, "Komodo Trek", resp.Title)
		assert.False(t, resp.IsApproved)
		assert.Equal(t, seller.ID.String(), resp.SellerID)
		assert.Equal(t, int64(2250), resp.FinalPrice)

		stored := f.packages.rows[uuid.MustParse(resp.ID)]
		require.NotNil(t, stored)
		assert.False(t, stored.IsApproved)
	})

	t.Run("UserIsForbidden", func(t *testing.T) {
		_, err := svc.Create(context.Background(), newActor(authz.RoleUser), validCreatePackage())
		assert.ErrorIs(t, err, usecase.ErrForbidden)
	})

	t.Run("AdminIsForbidden", func(t *testing.T) {
		_, err := svc.Create(context.Background(), newActor(authz.RoleAdmin), validCreatePackage())
		assert.ErrorIs(t, err, usecase.ErrForbidden)
	})

	t.Run("InvalidFieldsAreReported", func(t *testing.T) {
		req := validCreatePackage()
		req.Title = "   "
		req.Discount = 120
		req.Images = []string{"a", "b", "c", "d"}

		_, err := svc.Create(context.Background(), seller, req)

		var vErr *usecase.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "title")
		assert.Contains(t, vErr.Fields, "discount")
		assert.Contains(t, vErr.Fields, "images")
	})

	t.Run("MissingPriceIsInvalid", func(t *testing.T) {
		req := validCreatePackage()
		req.Price = nil

		_, err := svc.Create(context.Background(), seller, req)

		var vErr *usecase.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "price")
	})

	t.Run("StoreFailure", func(t *testing.T) {
		f.packages.err = errDB
		defer func() { f.packages.err = nil }()

		_, err := svc.Create(context.Background(), seller, validCreatePackage())
		assert.ErrorIs(t, err, usecase.ErrStoreUnavailable)
		assert.ErrorIs(t, err, errDB)
	})
}

func TestPackageService_Approve(t *testing.T) {
	f := newFixture()
	svc := usecase.NewPackageService(f.repo, f.events, zap.NewNop())
	admin := newActor(authz.RoleAdmin)
	seller := newActor(authz.RoleSeller)

	pending := f.addPackage(seller.ID, false)

	resp, err := svc.Approve(context.Background(), admin, pending.ID.String())
	require.NoError(t, err)
	assert.True(t, resp.IsApproved)
	assert.True(t, f.packages.rows[pending.ID].IsApproved)
	assert.Equal(t, []string{broker.PackageApproved}, f.events.keys())

	// second approval must not succeed silently
	_, err = svc.Approve(context.Background(), admin, pending.ID.String())
	assert.ErrorIs(t, err, usecase.ErrAlreadyApproved)

	_, err = svc.Approve(context.Background(), admin, uuid.NewString())
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	_, err = svc.Approve(context.Background(), admin, "not-a-uuid")
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	_, err = svc.Approve(context.Background(), seller, pending.ID.String())
	assert.ErrorIs(t, err, usecase.ErrForbidden)
}

func TestPackageService_Approve_PublishFailureIsIgnored(t *testing.T) {
	f := newFixture()
	f.events.err = errDB
	svc := usecase.NewPackageService(f.repo, f.events, zap.NewNop())

	pending := f.addPackage(uuid.New(), false)

	_, err := svc.Approve(context.Background(), newActor(authz.RoleAdmin), pending.ID.String())
	require.NoError(t, err)
	assert.True(t, f.packages.rows[pending.ID].IsApproved)
}

func TestPackageService_Reject(t *testing.T) {
	f := newFixture()
	svc := usecase.NewPackageService(f.repo, f.events, zap.NewNop())
	admin := newActor(authz.RoleAdmin)

	pending := f.addPackage(uuid.New(), false)
	approved := f.addPackage(uuid.New(), true)

	require.NoError(t, svc.Reject(context.Background(), admin, pending.ID.String()))
	assert.NotContains(t, f.packages.rows, pending.ID)
	assert.Equal(t, []string{broker.PackageRejected}, f.events.keys())

	err := svc.Reject(context.Background(), admin, approved.ID.String())
	assert.ErrorIs(t, err, usecase.ErrAlreadyApproved)
	assert.Contains(t, f.packages.rows, approved.ID)

	err = svc.Reject(context.Background(), admin, pending.ID.String())
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	err = svc.Reject(context.Background(), newActor(authz.RoleUser), approved.ID.String())
	assert.ErrorIs(t, err, usecase.ErrForbidden)
}

func TestPackageService_Edit(t *testing.T) {
	f := newFixture()
	svc := usecase.NewPackageService(f.repo, f.events, zap.NewNop())
	seller := newActor(authz.RoleSeller)

	t.Run("EditResetsApproval", func(t *testing.T) {
		pkg := f.addPackage(seller.ID, true)

		resp, err := svc.Edit(context.Background(), seller, pkg.ID.String(), &request.UpdatePackageRequest{
			Price: int64Ptr(1200),
		})
		require.NoError(t, err)

		assert.False(t, resp.IsApproved)
		assert.Equal(t, int64(1200), resp.Price)
		// untouched fields keep their value
		assert.Equal(t, "Bali Escape", resp.Title)
		assert.Equal(t, 15, resp.Discount)
		assert.False(t, f.packages.rows[pkg.ID].IsApproved)
	})

	t.Run("AdminMayEditAnyPackage", func(t *testing.T) {
		pkg := f.addPackage(uuid.New(), true)

		resp, err := svc.Edit(context.Background(), newActor(authz.RoleAdmin), pkg.ID.String(), &request.UpdatePackageRequest{
			Title: strPtr("Bali Deluxe"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Bali Deluxe", resp.Title)
		assert.False(t, resp.IsApproved)
	})

	t.Run("OtherSellerIsForbidden", func(t *testing.T) {
		pkg := f.addPackage(seller.ID, true)

		_, err := svc.Edit(context.Background(), newActor(authz.RoleSeller), pkg.ID.String(), &request.UpdatePackageRequest{
			Title: strPtr("Mine now"),
		})
		assert.ErrorIs(t, err, usecase.ErrForbidden)
		assert.True(t, f.packages.rows[pkg.ID].IsApproved)
	})

	t.Run("InvalidMergedPackage", func(t *testing.T) {
		pkg := f.addPackage(seller.ID, true)

		_, err := svc.Edit(context.Background(), seller, pkg.ID.String(), &request.UpdatePackageRequest{
			Discount: intPtr(101),
		})

		var vErr *usecase.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "discount")
		assert.True(t, f.packages.rows[pkg.ID].IsApproved)
	})

	t.Run("MissingPackage", func(t *testing.T) {
		_, err := svc.Edit(context.Background(), seller, uuid.NewString(), &request.UpdatePackageRequest{})
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})
}

func TestPackageService_Delete(t *testing.T) {
	f := newFixture()
	svc := usecase.NewPackageService(f.repo, f.events, zap.NewNop())
	seller := newActor(authz.RoleSeller)

	pkg := f.addPackage(seller.ID, true)
	f.addBooking(pkg, uuid.New(), entity.BookingStatusPending)

	assert.ErrorIs(t, svc.Delete(context.Background(), newActor(authz.RoleSeller), pkg.ID.String()), usecase.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(context.Background(), newActor(authz.RoleUser), pkg.ID.String()), usecase.ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), seller, pkg.ID.String()))
	assert.NotContains(t, f.packages.rows, pkg.ID)
	// bookings outlive their package
	assert.Len(t, f.bookings.rows, 1)

	assert.ErrorIs(t, svc.Delete(context.Background(), seller, pkg.ID.String()), usecase.ErrNotFound)
}

func TestPackageService_Get(t *testing.T) {
	f := newFixture()
	svc := usecase.NewPackageService(f.repo, f.events, zap.NewNop())
	seller := newActor(authz.RoleSeller)

	approved := f.addPackage(seller.ID, true)
	pending := f.addPackage(seller.ID, false)

	type testCase struct {
		name    string
		actor   *authz.Actor
		id      uuid.UUID
		wantErr error
	}

	admin := newActor(authz.RoleAdmin)
	other := newActor(authz.RoleSeller)

	tests := []testCase{
		{"AnonymousSeesApproved", nil, approved.ID, nil},
		{"AnonymousCannotSeePending", nil, pending.ID, usecase.ErrNotFound},
		{"OwnerSeesPending", &seller, pending.ID, nil},
		{"AdminSeesPending", &admin, pending.ID, nil},
		{"OtherSellerCannotSeePending", &other, pending.ID, usecase.ErrNotFound},
		{"MissingPackage", nil, uuid.New(), usecase.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Get(context.Background(), tt.actor, tt.id.String())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id.String(), resp.ID)
		})
	}
}

func TestPackageService_ListApproved(t *testing.T) {
	f := newFixture()
	svc := usecase.NewPackageService(f.repo, f.events, zap.NewNop())
	seller := uuid.New()

	f.addPackage(seller, true, func(p *entity.Package) { p.Category = "Beach"; p.Price = 900 })
	f.addPackage(seller, true, func(p *entity.Package) { p.Category = "city"; p.Destination = "Tokyo"; p.Price = 3000 })
	f.addPackage(seller, false, func(p *entity.Package) { p.Category = "beach" })

	t.Run("OnlyApprovedAreListed", func(t *testing.T) {
		resp, err := svc.ListApproved(context.Background(), &request.ListPackagesRequest{
			PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		})
		require.NoError(t, err)
		assert.Len(t, resp.Data, 2)
		assert.Equal(t, int64(2), resp.Pagination.Total)
		for _, p := range resp.Data {
			assert.True(t, p.IsApproved)
		}
	})

	t.Run("CategoryIgnoresCase", func(t *testing.T) {
		resp, err := svc.ListApproved(context.Background(), &request.ListPackagesRequest{
			PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
			Category:         strPtr("beach"),
		})
		require.NoError(t, err)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "Beach", resp.Data[0].Category)
	})

	t.Run("PriceBoundsAreInclusive", func(t *testing.T) {
		resp, err := svc.ListApproved(context.Background(), &request.ListPackagesRequest{
			PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
			MinPrice:         int64Ptr(900),
			MaxPrice:         int64Ptr(900),
		})
		require.NoError(t, err)
		assert.Len(t, resp.Data, 1)
	})

	t.Run("UnknownSortIsInvalid", func(t *testing.T) {
		_, err := svc.ListApproved(context.Background(), &request.ListPackagesRequest{
			PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
			Sort:             "rating",
		})
		var vErr *usecase.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestPackageService_ListApproved_Pages(t *testing.T) {
	f := newFixture()
	svc := usecase.NewPackageService(f.repo, f.events, zap.NewNop())
	seller := uuid.New()
	for range 3 {
		f.addPackage(seller, true)
	}

	t.Run("LastPageIsPartial", func(t *testing.T) {
		resp, err := svc.ListApproved(context.Background(), &request.ListPackagesRequest{
			PaginatedRequest: request.PaginatedRequest{Page: 2, PerPage: 2},
		})
		require.NoError(t, err)
		assert.Len(t, resp.Data, 1)
		assert.Equal(t, int64(3), resp.Pagination.Total)
	})

	t.Run("StorePageIsNotFilteredAgain", func(t *testing.T) {
		// the store matched this row on its own terms; the page must stay full
		f.packages.approvedPage = []*entity.Package{
			f.addPackage(seller, true, func(p *entity.Package) { p.Destination = "Denpasar" }),
		}
		defer func() { f.packages.approvedPage = nil }()

		resp, err := svc.ListApproved(context.Background(), &request.ListPackagesRequest{
			PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 1},
			Destination:      strPtr("bali"),
		})
		require.NoError(t, err)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "Denpasar", resp.Data[0].Destination)
	})

	t.Run("HugePageIsInvalid", func(t *testing.T) {
		_, err := svc.ListApproved(context.Background(), &request.ListPackagesRequest{
			PaginatedRequest: request.PaginatedRequest{Page: math.MaxInt64, PerPage: 10},
		})
		var vErr *usecase.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestPackageService_ListPendingAndMine(t *testing.T) {
	f := newFixture()
	svc := usecase.NewPackageService(f.repo, f.events, zap.NewNop())
	seller := newActor(authz.RoleSeller)

	f.addPackage(seller.ID, false)
	f.addPackage(seller.ID, true)
	f.addPackage(uuid.New(), false)

	pending, err := svc.ListPending(context.Background(), newActor(authz.RoleAdmin))
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = svc.ListPending(context.Background(), seller)
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	mine, err := svc.ListMine(context.Background(), seller)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = svc.ListMine(context.Background(), newActor(authz.RoleUser))
	assert.ErrorIs(t, err, usecase.ErrForbidden)
}
