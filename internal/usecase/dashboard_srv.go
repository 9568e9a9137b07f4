package usecase

import (
	"context"

	"travel-marketplace/internal/analytics"
	"travel-marketplace/internal/authz"
	"travel-marketplace/internal/data/entity"
	"travel-marketplace/internal/data/repository"
	"travel-marketplace/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const widgetUnavailable = "data unavailable"

type DashboardService interface {
	SellerDashboard(ctx context.Context, actor authz.Actor, year int) (*response.SellerDashboardResponse, error)
	AdminDashboard(ctx context.Context, actor authz.Actor, year int) (*response.AdminDashboardResponse, error)
}

type dashboardService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewDashboardService(repo *repository.Repository, log *zap.Logger) DashboardService {
	return &dashboardService{
		repo: repo,
		log:  log.With(zap.String("service", "dashboard")),
	}
}

// load runs one read of a dashboard. The error stays local so a failed read
// only blanks the widgets that depend on it.
type load struct {
	name string
	fn   func(ctx context.Context) error
	err  error
}

func (s *dashboardService) runLoads(ctx context.Context, loads []*load) (failed int) {
	g, gctx := errgroup.WithContext(ctx)
	for _, l := range loads {
		g.Go(func() error {
			if err := l.fn(gctx); err != nil {
				s.log.Error("Dashboard load failed", zap.String("load", l.name), zap.Error(err))
				l.err = err
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, l := range loads {
		if l.err != nil {
			failed++
		}
	}
	return failed
}

func (s *dashboardService) SellerDashboard(ctx context.Context, actor authz.Actor, year int) (*response.SellerDashboardResponse, error) {
	if !authz.CanAct(actor, authz.OpViewDashboard, uuid.Nil) || !actor.IsSeller() {
		return nil, ErrForbidden
	}

	var (
		packages []*entity.Package
		bookings []*entity.Booking
	)
	pkgLoad := &load{name: "packages", fn: func(ctx context.Context) (err error) {
		packages, err = s.repo.Package.FindBySellerID(ctx, actor.ID)
		return err
	}}
	bookingLoad := &load{name: "bookings", fn: func(ctx context.Context) (err error) {
		bookings, err = s.repo.Booking.FindBySellerID(ctx, actor.ID)
		return err
	}}

	loads := []*load{pkgLoad, bookingLoad}
	if s.runLoads(ctx, loads) == len(loads) {
		return nil, ErrStoreUnavailable
	}

	resp := &response.SellerDashboardResponse{Year: year}

	if pkgLoad.err != nil {
		resp.Packages.Error = widgetUnavailable
	} else {
		resp.Packages.Data = packageTotals(packages)
	}

	if bookingLoad.err != nil {
		resp.MonthlyBookings.Error = widgetUnavailable
		resp.StatusBreakdown.Error = widgetUnavailable
		resp.NewCustomers.Error = widgetUnavailable
	} else {
		resp.MonthlyBookings.Data = analytics.MonthlyBookingCounts(bookings, year)
		resp.StatusBreakdown.Data = statusBreakdown(bookings)
		// bookings are already scoped to this seller, so "new" means new to them
		resp.NewCustomers.Data = analytics.NewCustomersByMonth(bookings, year)
	}

	// revenue and destinations need both reads
	if pkgLoad.err != nil || bookingLoad.err != nil {
		resp.RevenueByMonth.Error = widgetUnavailable
		resp.TotalRevenue.Error = widgetUnavailable
		resp.PopularDestinations.Error = widgetUnavailable
	} else {
		resp.RevenueByMonth.Data = analytics.RevenueByMonth(bookings, packages, year)
		resp.TotalRevenue.Data = analytics.TotalRevenue(bookings, packages)
		resp.PopularDestinations.Data = destinationsToResponse(analytics.PopularDestinations(bookings, packages))
	}

	return resp, nil
}

func (s *dashboardService) AdminDashboard(ctx context.Context, actor authz.Actor, year int) (*response.AdminDashboardResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	var (
		packages       []*entity.Package
		bookings       []*entity.Booking
		total, pending int64
		roles          map[authz.Role]int64
	)
	pkgLoad := &load{name: "packages", fn: func(ctx context.Context) (err error) {
		packages, err = s.repo.Package.FindAll(ctx)
		return err
	}}
	bookingLoad := &load{name: "bookings", fn: func(ctx context.Context) (err error) {
		bookings, err = s.repo.Booking.FindAll(ctx)
		return err
	}}
	countLoad := &load{name: "package_counts", fn: func(ctx context.Context) (err error) {
		total, pending, err = s.repo.Package.CountByApproval(ctx)
		return err
	}}
	roleLoad := &load{name: "profiles", fn: func(ctx context.Context) (err error) {
		roles, err = s.repo.Profile.CountByRole(ctx)
		return err
	}}

	loads := []*load{pkgLoad, bookingLoad, countLoad, roleLoad}
	if s.runLoads(ctx, loads) == len(loads) {
		return nil, ErrStoreUnavailable
	}

	resp := &response.AdminDashboardResponse{Year: year}

	if countLoad.err != nil {
		resp.Packages.Error = widgetUnavailable
	} else {
		resp.Packages.Data = response.PackageTotals{Total: total, Pending: pending, Approved: total - pending}
	}

	if roleLoad.err != nil {
		resp.Profiles.Error = widgetUnavailable
	} else {
		resp.Profiles.Data = map[string]int64{
			string(authz.RoleUser):   roles[authz.RoleUser],
			string(authz.RoleSeller): roles[authz.RoleSeller],
			string(authz.RoleAdmin):  roles[authz.RoleAdmin],
		}
	}

	if bookingLoad.err != nil {
		resp.MonthlyBookings.Error = widgetUnavailable
		resp.NewCustomers.Error = widgetUnavailable
	} else {
		resp.MonthlyBookings.Data = analytics.MonthlyBookingCounts(bookings, year)
		resp.NewCustomers.Data = analytics.NewCustomersByMonth(bookings, year)
	}

	if pkgLoad.err != nil || bookingLoad.err != nil {
		resp.RevenueByMonth.Error = widgetUnavailable
		resp.PopularDestinations.Error = widgetUnavailable
	} else {
		resp.RevenueByMonth.Data = analytics.RevenueByMonth(bookings, packages, year)
		resp.PopularDestinations.Data = destinationsToResponse(analytics.PopularDestinations(bookings, packages))
	}

	return resp, nil
}

func packageTotals(packages []*entity.Package) response.PackageTotals {
	var totals response.PackageTotals
	for _, p := range packages {
		totals.Total++
		if p.IsApproved {
			totals.Approved++
		} else {
			totals.Pending++
		}
	}
	return totals
}

func statusBreakdown(bookings []*entity.Booking) map[string]int {
	out := map[string]int{
		string(entity.BookingStatusPending):   0,
		string(entity.BookingStatusConfirmed): 0,
		string(entity.BookingStatusCancelled): 0,
	}
	for status, n := range analytics.StatusBreakdown(bookings) {
		out[string(status)] = n
	}
	return out
}

func destinationsToResponse(counts []analytics.DestinationCount) []response.DestinationCountResponse {
	resp := make([]response.DestinationCountResponse, len(counts))
	for i, c := range counts {
		resp[i] = response.DestinationCountResponse{Destination: c.Destination, Count: c.Count}
	}
	return resp
}
