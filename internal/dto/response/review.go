package response

import (
	"time"

	"travel-marketplace/internal/data/entity"
)

type ReviewResponse struct {
	ID         string    `json:"id"`
	PackageID  string    `json:"package_id"`
	UserID     string    `json:"user_id"`
	AuthorName *string   `json:"author_name,omitempty"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type PackageReviewsResponse struct {
	PackageID     string                             `json:"package_id"`
	AverageRating float64                            `json:"average_rating"`
	ReviewCount   int64                              `json:"review_count"`
	Reviews       *PaginatedResponse[ReviewResponse] `json:"reviews"`
}

// Helper converter
func ReviewToResponse(review *entity.Review, authorName *string) ReviewResponse {
	return ReviewResponse{
		ID:         review.ID.String(),
		PackageID:  review.PackageID.String(),
		UserID:     review.UserID.String(),
		AuthorName: authorName,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}
}
