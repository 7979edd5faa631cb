package domain

// AdvertiserSummary is a listing row returned by search and top10.
type AdvertiserSummary struct {
	ID            int64   `json:"id"`
	BusinessName  string  `json:"business_name"`
	Description   string  `json:"description"`
	Phone         string  `json:"phone"`
	Logo          string  `json:"logo"`
	City          string  `json:"city"`
	Category      string  `json:"category"`
	AverageRating float64 `json:"average_rating"`
}

// Advertiser is the full public profile.
type Advertiser struct {
	AdvertiserSummary
	Website  string `json:"website"`
	Address  string `json:"address"`
	MaxItems int    `json:"max_items"`
	IsActive bool   `json:"is_active"`
	Items    []Item `json:"items"`
}

// Item is a product or service listed on an advertiser profile.
type Item struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}

// Review is a consumer rating of an advertiser.
type Review struct {
	ID        int64  `json:"id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	UserName  string `json:"user_name,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// SearchFilter narrows an advertiser search.
type SearchFilter struct {
	Query      string
	CategoryID int64
	CityID     int64
}
