package core

// DaySummary aggregates total revenue and record count for one day.
type DaySummary struct {
	TotalRevenue Money `json:"totalRevenue"`
	Count        int64 `json:"count"`
}

// RevenuePoint is revenue for one calendar day (local date, YYYY-MM-DD).
// Days with no sales are simply absent from a series.
type RevenuePoint struct {
	Date    string `json:"date"`
	Revenue Money  `json:"revenue"`
}

// DashboardSnapshot is the read-only view rendered by the dashboard.
type DashboardSnapshot struct {
	Recent []Transaction  `json:"recent"`
	Today  DaySummary     `json:"today"`
	Chart  []RevenuePoint `json:"chart"`
}
