package response

import (
	"time"

	"travel-marketplace/internal/data/entity"
	"travel-marketplace/internal/pricing"
)

type PackageResponse struct {
	ID                 string                `json:"id"`
	SellerID           string                `json:"seller_id"`
	Title              string                `json:"title"`
	Description        string                `json:"description"`
	Destination        string                `json:"destination"`
	Category           string                `json:"category"`
	Price              int64                 `json:"price"`
	Discount           int                   `json:"discount"`
	FinalPrice         int64                 `json:"final_price"`
	Savings            int64                 `json:"savings"`
	Duration           int                   `json:"duration"`
	MaxPeople          *int                  `json:"max_people"`
	Images             []string              `json:"images"`
	Itinerary          []entity.ItineraryDay `json:"itinerary"`
	Inclusions         []string              `json:"inclusions"`
	Exclusions         []string              `json:"exclusions"`
	CancellationPolicy []string              `json:"cancellation_policy"`
	IsApproved         bool                  `json:"is_approved"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

func PackageToResponse(p *entity.Package) PackageResponse {
	return PackageResponse{
		ID:                 p.ID.String(),
		SellerID:           p.SellerID.String(),
		Title:              p.Title,
		Description:        p.Description,
		Destination:        p.Destination,
		Category:           p.Category,
		Price:              p.Price,
		Discount:           p.Discount,
		FinalPrice:         p.FinalPrice(),
		Savings:            pricing.Savings(p.Price, p.Discount, 1),
		Duration:           p.Duration,
		MaxPeople:          p.MaxPeople,
		Images:             nonNil(p.Images),
		Itinerary:          nonNil(p.Itinerary),
		Inclusions:         nonNil(p.Inclusions),
		Exclusions:         nonNil(p.Exclusions),
		CancellationPolicy: nonNil(p.CancellationPolicy),
		IsApproved:         p.IsApproved,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func PackagesToResponse(packages []*entity.Package) []PackageResponse {
	resp := make([]PackageResponse, len(packages))
	for i, p := range packages {
		resp[i] = PackageToResponse(p)
	}
	return resp
}

// nonNil keeps empty lists as [] in JSON instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
