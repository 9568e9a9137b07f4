package response

import (
	"time"

	"travel-marketplace/internal/data/entity"
	"travel-marketplace/internal/pricing"
)

type BookingPackageResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Destination string `json:"destination"`
	Price       int64  `json:"price"`
	Discount    int    `json:"discount"`
	FinalPrice  int64  `json:"final_price"`
}

type BookingResponse struct {
	ID         string                  `json:"id"`
	PackageID  string                  `json:"package_id"`
	UserID     string                  `json:"user_id"`
	Travelers  int                     `json:"travelers"`
	TotalPrice int64                   `json:"total_price"`
	Status     entity.BookingStatus    `json:"status"`
	Package    *BookingPackageResponse `json:"package,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

func BookingToResponse(b *entity.Booking, pkg *entity.PackageSummary) BookingResponse {
	resp := BookingResponse{
		ID:         b.ID.String(),
		PackageID:  b.PackageID.String(),
		UserID:     b.UserID.String(),
		Travelers:  b.Travelers,
		TotalPrice: b.TotalPrice,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}

	if pkg != nil {
		resp.Package = &BookingPackageResponse{
			ID:          pkg.ID.String(),
			Title:       pkg.Title,
			Destination: pkg.Destination,
			Price:       pkg.Price,
			Discount:    pkg.Discount,
			FinalPrice:  pricing.FinalPrice(pkg.Price, pkg.Discount),
		}
	}

	return resp
}

func BookingDetailsToResponse(details []*entity.BookingDetail) []BookingResponse {
	resp := make([]BookingResponse, len(details))
	for i, d := range details {
		resp[i] = BookingToResponse(&d.Booking, d.Package)
	}
	return resp
}
