package request

type CreateBookingRequest struct {
	PackageID string `json:"package_id" validate:"required,uuid"`
	Travelers int    `json:"travelers" validate:"gte=1"`
}
