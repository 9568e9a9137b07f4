package response

// Widget is one dashboard panel. Error is set, and Data left zero, when the
// panel's source could not be read.
type Widget[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

type DestinationCountResponse struct {
	Destination string `json:"destination"`
	Count       int    `json:"count"`
}

type PackageTotals struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
}

type SellerDashboardResponse struct {
	Year                int                                `json:"year"`
	Packages            Widget[PackageTotals]              `json:"packages"`
	MonthlyBookings     Widget[[12]int]                    `json:"monthly_bookings"`
	RevenueByMonth      Widget[[12]int64]                  `json:"revenue_by_month"`
	TotalRevenue        Widget[int64]                      `json:"total_revenue"`
	PopularDestinations Widget[[]DestinationCountResponse] `json:"popular_destinations"`
	StatusBreakdown     Widget[map[string]int]             `json:"status_breakdown"`
	NewCustomers        Widget[[12]int]                    `json:"new_customers"`
}

type AdminDashboardResponse struct {
	Year                int                                `json:"year"`
	Packages            Widget[PackageTotals]              `json:"packages"`
	Profiles            Widget[map[string]int64]           `json:"profiles"`
	MonthlyBookings     Widget[[12]int]                    `json:"monthly_bookings"`
	RevenueByMonth      Widget[[12]int64]                  `json:"revenue_by_month"`
	PopularDestinations Widget[[]DestinationCountResponse] `json:"popular_destinations"`
	NewCustomers        Widget[[12]int]                    `json:"new_customers"`
}
