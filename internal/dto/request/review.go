package request

type CreateReviewRequest struct {
	PackageID string  `json:"package_id" validate:"required,uuid"`
	Rating    int     `json:"rating" validate:"gte=1,lte=5"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}
