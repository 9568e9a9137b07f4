package request

type ItineraryDayRequest struct {
	Day         int    `json:"day" validate:"gte=1"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// CreatePackageRequest is also the shape an edited package must satisfy
// after the patch is merged.
type CreatePackageRequest struct {
	Title              string                `json:"title" validate:"required,max=255"`
	Description        string                `json:"description" validate:"required"`
	Destination        string                `json:"destination" validate:"required,max=255"`
	Category           string                `json:"category" validate:"max=100"`
	Price              *int64                `json:"price" validate:"required,gte=0"`
	Discount           int                   `json:"discount" validate:"gte=0,lte=100"`
	Duration           int                   `json:"duration" validate:"gte=1"`
	MaxPeople          *int                  `json:"max_people,omitempty" validate:"omitempty,gte=1"`
	Images             []string              `json:"images" validate:"max=3,dive,url"`
	Itinerary          []ItineraryDayRequest `json:"itinerary" validate:"dive"`
	Inclusions         []string              `json:"inclusions"`
	Exclusions         []string              `json:"exclusions"`
	CancellationPolicy []string              `json:"cancellation_policy"`
}

// UpdatePackageRequest is a patch: nil fields keep their current value.
type UpdatePackageRequest struct {
	Title              *string                `json:"title"`
	Description        *string                `json:"description"`
	Destination        *string                `json:"destination"`
	Category           *string                `json:"category"`
	Price              *int64                 `json:"price"`
	Discount           *int                   `json:"discount"`
	Duration           *int                   `json:"duration"`
	MaxPeople          *int                   `json:"max_people"`
	Images             *[]string              `json:"images"`
	Itinerary          *[]ItineraryDayRequest `json:"itinerary"`
	Inclusions         *[]string              `json:"inclusions"`
	Exclusions         *[]string              `json:"exclusions"`
	CancellationPolicy *[]string              `json:"cancellation_policy"`
}

type ListPackagesRequest struct {
	PaginatedRequest
	Category    *string
	Destination *string
	MinPrice    *int64
	MaxPrice    *int64
	Sort        string `validate:"omitempty,oneof=newest oldest price_asc price_desc"`
}

// ModeratePackageRequest is the body of approve and reject.
type ModeratePackageRequest struct {
	PackageID string `json:"package_id" validate:"required,uuid"`
}
