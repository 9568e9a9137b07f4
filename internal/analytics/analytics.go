// Package analytics derives dashboard figures from bookings and packages.
// Every function is pure and recomputed on demand; nothing is persisted.
// Months are calendar months in UTC.
package analytics

import (
	"sort"

	"github.com/google/uuid"

	"travel-marketplace/internal/data/entity"
)

type DestinationCount struct {
	Destination string `json:"destination"`
	Count       int    `json:"count"`
}

// MonthlyBookingCounts buckets bookings created in year by month, any status.
func MonthlyBookingCounts(bookings []*entity.Booking, year int) [12]int {
	var counts [12]int
	for _, b := range bookings {
		if b == nil {
			continue
		}
		created := b.CreatedAt.UTC()
		if created.Year() != year {
			continue
		}
		counts[created.Month()-1]++
	}
	return counts
}

// RevenueByMonth sums base price x travelers of confirmed bookings created in
// year. Bookings whose package is unknown contribute nothing.
func RevenueByMonth(bookings []*entity.Booking, packages []*entity.Package, year int) [12]int64 {
	var revenue [12]int64
	byID := indexPackages(packages)

	for _, b := range bookings {
		if b == nil || b.Status != entity.BookingStatusConfirmed {
			continue
		}
		created := b.CreatedAt.UTC()
		if created.Year() != year {
			continue
		}
		pkg, ok := byID[b.PackageID]
		if !ok {
			continue
		}
		revenue[created.Month()-1] += pkg.Price * int64(b.Travelers)
	}
	return revenue
}

// TotalRevenue is the all-time confirmed revenue over the given bookings.
func TotalRevenue(bookings []*entity.Booking, packages []*entity.Package) int64 {
	var total int64
	byID := indexPackages(packages)

	for _, b := range bookings {
		if b == nil || b.Status != entity.BookingStatusConfirmed {
			continue
		}
		if pkg, ok := byID[b.PackageID]; ok {
			total += pkg.Price * int64(b.Travelers)
		}
	}
	return total
}

// PopularDestinations counts bookings per destination of their package,
// highest first, ties by destination name.
func PopularDestinations(bookings []*entity.Booking, packages []*entity.Package) []DestinationCount {
	byID := indexPackages(packages)
	counts := make(map[string]int)

	for _, b := range bookings {
		if b == nil {
			continue
		}
		pkg, ok := byID[b.PackageID]
		if !ok {
			continue
		}
		counts[pkg.Destination]++
	}

	result := make([]DestinationCount, 0, len(counts))
	for dest, n := range counts {
		result = append(result, DestinationCount{Destination: dest, Count: n})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Destination < result[j].Destination
	})

	return result
}

// NewCustomersByMonth counts, for year, the users whose earliest booking in
// the given set falls in each month. A user is counted at most once, and
// only if that earliest booking is in year.
func NewCustomersByMonth(bookings []*entity.Booking, year int) [12]int {
	var counts [12]int
	first := make(map[uuid.UUID]*entity.Booking)

	for _, b := range bookings {
		if b == nil {
			continue
		}
		if cur, ok := first[b.UserID]; !ok || b.CreatedAt.Before(cur.CreatedAt) {
			first[b.UserID] = b
		}
	}

	for _, b := range first {
		created := b.CreatedAt.UTC()
		if created.Year() != year {
			continue
		}
		counts[created.Month()-1]++
	}
	return counts
}

// StatusBreakdown counts bookings per status.
func StatusBreakdown(bookings []*entity.Booking) map[entity.BookingStatus]int {
	counts := map[entity.BookingStatus]int{
		entity.BookingStatusPending:   0,
		entity.BookingStatusConfirmed: 0,
		entity.BookingStatusCancelled: 0,
	}
	for _, b := range bookings {
		if b == nil {
			continue
		}
		counts[b.Status]++
	}
	return counts
}

func indexPackages(packages []*entity.Package) map[uuid.UUID]*entity.Package {
	byID := make(map[uuid.UUID]*entity.Package, len(packages))
	for _, p := range packages {
		if p != nil {
			byID[p.ID] = p
		}
	}
	return byID
}
