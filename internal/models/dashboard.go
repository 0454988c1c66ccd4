package models

type EventStats struct {
	ViewCount     uint    `json:"view_count"`
	ReviewCount   int64   `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
	CommentCount  int64   `json:"comment_count"`
}

type DashboardEvent struct {
	ID            uint             `json:"id"`
	BrandName     string           `json:"brand_name"`
	Logo          string           `json:"logo"`
	Location      string           `json:"location"`
	IsActive      bool             `json:"is_active"`
	Stats         EventStats       `json:"stats"`
	RecentReviews []ReviewResponse `json:"recent_reviews"`
}

// AggregatedStats spans all of a seller's events. AverageRating is weighted
// by per-event review count, not a flat average of per-event averages.
type AggregatedStats struct {
	TotalViews         uint           `json:"total_views"`
	TotalReviews       int64          `json:"total_reviews"`
	AverageRating      float64        `json:"average_rating"`
	TotalComments      int64          `json:"total_comments"`
	TotalEvents        int            `json:"total_events"`
	RatingDistribution map[string]int `json:"rating_distribution,omitempty"`
}

type DashboardResponse struct {
	Events          []DashboardEvent `json:"events"`
	AggregatedStats AggregatedStats  `json:"aggregated_stats"`
}
