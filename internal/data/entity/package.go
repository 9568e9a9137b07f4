package entity

import (
	"strings"

	"github.com/google/uuid"

	"travel-marketplace/internal/pricing"
)

type ItineraryDay struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Package is a travel offering. Price is the base price per traveler in
// whole currency units.
type Package struct {
	Base
	SellerID           uuid.UUID      `db:"seller_id"`
	Title              string         `db:"title"`
	Description        string         `db:"description"`
	Destination        string         `db:"destination"`
	Category           string         `db:"category"`
	Price              int64          `db:"price"`
	Discount           int            `db:"discount"`
	Duration           int            `db:"duration"`
	MaxPeople          *int           `db:"max_people"`
	Images             []string       `db:"images"`
	Itinerary          []ItineraryDay `db:"itinerary"`
	Inclusions         []string       `db:"inclusions"`
	Exclusions         []string       `db:"exclusions"`
	CancellationPolicy []string       `db:"cancellation_policy"`
	IsApproved         bool           `db:"is_approved"`
}

func (p *Package) FinalPrice() int64 {
	return pricing.FinalPrice(p.Price, p.Discount)
}

// VisibleTo reports whether the package can be read by actorID. Approved
// packages are public; pending ones only by their seller or an admin.
func (p *Package) VisibleTo(actorID uuid.UUID, isAdmin bool) bool {
	return p.IsApproved || isAdmin || (actorID != uuid.Nil && actorID == p.SellerID)
}

type PackageSort string

const (
	SortNewest    PackageSort = "newest"
	SortOldest    PackageSort = "oldest"
	SortPriceAsc  PackageSort = "price_asc"
	SortPriceDesc PackageSort = "price_desc"
)

func (s PackageSort) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

// PackageFilter narrows the public catalogue. Nil fields do not filter.
type PackageFilter struct {
	Category    *string
	Destination *string
	MinPrice    *int64
	MaxPrice    *int64
	Sort        PackageSort
}

// Match applies the catalogue rules to a single row: approved only, category
// equal ignoring case, destination substring ignoring case, inclusive price
// bounds on the base price.
func (f PackageFilter) Match(p *Package) bool {
	if p == nil || !p.IsApproved {
		return false
	}
	if f.Category != nil && *f.Category != "" && !strings.EqualFold(p.Category, *f.Category) {
		return false
	}
	if f.Destination != nil && *f.Destination != "" &&
		!strings.Contains(strings.ToLower(p.Destination), strings.ToLower(*f.Destination)) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// PackageSummary is the slice of a package shown next to its bookings.
type PackageSummary struct {
	ID          uuid.UUID `db:"package_id"`
	SellerID    uuid.UUID `db:"seller_id"`
	Title       string    `db:"title"`
	Destination string    `db:"destination"`
	Category    string    `db:"category"`
	Price       int64     `db:"price"`
	Discount    int       `db:"discount"`
}
