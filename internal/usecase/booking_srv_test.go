package usecase_test

import (
	"context"
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

func TestBookingService_Create(t *testing.T) {
	f := newFixture()
	svc := usecase.NewBookingService(f.repo, f.events, zap.NewNop())
	user := newActor(authz.RoleUser)

	approved := f.addPackage(uuid.New(), true, func(p *entity.Package) { p.MaxPeople = intPtr(4) })
	pending := f.addPackage(uuid.New(), false)

	t.Run("SnapshotsDiscountedTotal", func(t *testing.T) {
		resp, err := svc.Create(context.Background(), user, &request.CreateBookingRequest{
			PackageID: approved.ID.String(),
			Travelers: 3,
		})
		require.NoError(t, err)

		assert.Equal(t, entity.BookingStatusPending, resp.Status)
		assert.Equal(t, int64(850*3), resp.TotalPrice)
		assert.Equal(t, user.ID.String(), resp.UserID)
		require.NotNil(t, resp.Package)
		assert.Equal(t, int64(850), resp.Package.FinalPrice)
		assert.Equal(t, []string{broker.BookingCreated}, f.events.keys())
	})

	t.Run("CapacityIsEnforced", func(t *testing.T) {
		_, err := svc.Create(context.Background(), user, &request.CreateBookingRequest{
			PackageID: approved.ID.String(),
			Travelers: 5,
		})
		assert.ErrorIs(t, err, usecase.ErrCapacityExceeded)
	})

	t.Run("CapacityBoundaryIsAllowed", func(t *testing.T) {
		_, err := svc.Create(context.Background(), user, &request.CreateBookingRequest{
			PackageID: approved.ID.String(),
			Travelers: 4,
		})
		assert.NoError(t, err)
	})

	t.Run("PendingPackageIsNotFound", func(t *testing.T) {
		_, err := svc.Create(context.Background(), user, &request.CreateBookingRequest{
			PackageID: pending.ID.String(),
			Travelers: 1,
		})
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})

	t.Run("ZeroTravelersIsInvalid", func(t *testing.T) {
		_, err := svc.Create(context.Background(), user, &request.CreateBookingRequest{
			PackageID: approved.ID.String(),
		})
		var vErr *usecase.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "travelers")
	})

	t.Run("OnlyUsersBook", func(t *testing.T) {
		for _, role := range []authz.Role{authz.RoleSeller, authz.RoleAdmin} {
			_, err := svc.Create(context.Background(), newActor(role), &request.CreateBookingRequest{
				PackageID: approved.ID.String(),
				Travelers: 1,
			})
			assert.ErrorIs(t, err, usecase.ErrForbidden, string(role))
		}
	})

	t.Run("StoreFailure", func(t *testing.T) {
		f.bookings.err = errDB
		defer func() { f.bookings.err = nil }()

		_, err := svc.Create(context.Background(), user, &request.CreateBookingRequest{
			PackageID: approved.ID.String(),
			Travelers: 1,
		})
		assert.ErrorIs(t, err, usecase.ErrStoreUnavailable)
	})
}

func TestBookingService_Transitions(t *testing.T) {
	f := newFixture()
	svc := usecase.NewBookingService(f.repo, f.events, zap.NewNop())
	seller := newActor(authz.RoleSeller)
	pkg := f.addPackage(seller.ID, true)

	t.Run("OwnerConfirms", func(t *testing.T) {
		b := f.addBooking(pkg, uuid.New(), entity.BookingStatusPending)

		resp, err := svc.Confirm(context.Background(), seller, b.ID.String())
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusConfirmed, resp.Status)
		assert.Equal(t, entity.BookingStatusConfirmed, f.bookings.rows[b.ID].Status)
	})

	t.Run("AdminCancels", func(t *testing.T) {
		b := f.addBooking(pkg, uuid.New(), entity.BookingStatusPending)

		resp, err := svc.Cancel(context.Background(), newActor(authz.RoleAdmin), b.ID.String())
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusCancelled, resp.Status)
	})

	t.Run("TerminalStatesAreFinal", func(t *testing.T) {
		for _, status := range []entity.BookingStatus{entity.BookingStatusConfirmed, entity.BookingStatusCancelled} {
			b := f.addBooking(pkg, uuid.New(), status)

			_, err := svc.Confirm(context.Background(), seller, b.ID.String())
			assert.ErrorIs(t, err, usecase.ErrInvalidTransition)
			_, err = svc.Cancel(context.Background(), seller, b.ID.String())
			assert.ErrorIs(t, err, usecase.ErrInvalidTransition)

			assert.Equal(t, status, f.bookings.rows[b.ID].Status)
		}
	})

	t.Run("LostRaceIsInvalidTransition", func(t *testing.T) {
		b := f.addBooking(pkg, uuid.New(), entity.BookingStatusPending)
		f.bookings.beforeTransition = func(row *entity.Booking) {
			row.Status = entity.BookingStatusCancelled
		}
		defer func() { f.bookings.beforeTransition = nil }()

		_, err := svc.Confirm(context.Background(), seller, b.ID.String())
		assert.ErrorIs(t, err, usecase.ErrInvalidTransition)
		assert.Equal(t, entity.BookingStatusCancelled, f.bookings.rows[b.ID].Status)
	})

	t.Run("BookerCannotConfirm", func(t *testing.T) {
		booker := newActor(authz.RoleUser)
		b := f.addBooking(pkg, booker.ID, entity.BookingStatusPending)

		_, err := svc.Confirm(context.Background(), booker, b.ID.String())
		assert.ErrorIs(t, err, usecase.ErrForbidden)
	})

	t.Run("OtherSellerCannotCancel", func(t *testing.T) {
		b := f.addBooking(pkg, uuid.New(), entity.BookingStatusPending)

		_, err := svc.Cancel(context.Background(), newActor(authz.RoleSeller), b.ID.String())
		assert.ErrorIs(t, err, usecase.ErrForbidden)
	})

	t.Run("DeletedPackageLeavesOnlyAdmin", func(t *testing.T) {
		gone := f.addPackage(seller.ID, true)
		b := f.addBooking(gone, uuid.New(), entity.BookingStatusPending)
		delete(f.packages.rows, gone.ID)

		_, err := svc.Confirm(context.Background(), seller, b.ID.String())
		assert.ErrorIs(t, err, usecase.ErrForbidden)

		resp, err := svc.Confirm(context.Background(), newActor(authz.RoleAdmin), b.ID.String())
		require.NoError(t, err)
		assert.Nil(t, resp.Package)
	})

	t.Run("MissingBooking", func(t *testing.T) {
		_, err := svc.Confirm(context.Background(), seller, uuid.NewString())
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})
}

func TestBookingService_List(t *testing.T) {
	f := newFixture()
	svc := usecase.NewBookingService(f.repo, f.events, zap.NewNop())

	seller := newActor(authz.RoleSeller)
	user := newActor(authz.RoleUser)

	mine := f.addPackage(seller.ID, true)
	theirs := f.addPackage(uuid.New(), true)

	f.addBooking(mine, user.ID, entity.BookingStatusPending)
	f.addBooking(theirs, user.ID, entity.BookingStatusConfirmed)
	f.addBooking(mine, uuid.New(), entity.BookingStatusCancelled)

	got, err := svc.List(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.List(context.Background(), seller)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, b := range got {
		assert.Equal(t, mine.ID.String(), b.PackageID)
	}

	got, err = svc.List(context.Background(), newActor(authz.RoleAdmin))
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = svc.ListForAdmin(context.Background(), seller)
	assert.ErrorIs(t, err, usecase.ErrForbidden)
	_, err = svc.ListForSeller(context.Background(), user)
	assert.ErrorIs(t, err, usecase.ErrForbidden)
}
