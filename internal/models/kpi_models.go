package models

// ShopKPI aggregates reviews by shop. PK in the KPI store: shop_id.
type ShopKPI struct {
	ShopID                  string  `json:"shop_id"`
	AverageProfit           float64 `json:"average_profit"`
	PositiveReviews         int     `json:"positive_reviews"`
	NegativeReviews         int     `json:"negative_reviews"`
	LikenessScore           float64 `json:"likeness_score"`
	NormalizedLikenessScore float64 `json:"normalized_likeness_score"`
}

// UserKPI aggregates reviews by user. PK in the KPI store: id.
type UserKPI struct {
	UserID                  string  `json:"id"`
	AverageSpent            float64 `json:"average_spent"`
	PositiveReviews         int     `json:"positive_reviews"`
	NegativeReviews         int     `json:"negative_reviews"`
	LikenessScore           float64 `json:"likeness_score"`
	NormalizedLikenessScore float64 `json:"normalized_likeness_score"`
}

// DateKPI aggregates daily revenue. PK in the KPI store: date.
type DateKPI struct {
	Date                string  `json:"date"`
	AverageProfitPerDay float64 `json:"average_profit_per_day"`
}
