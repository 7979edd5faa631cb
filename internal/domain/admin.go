package domain

// AdminStats summarises platform activity for the dashboard.
type AdminStats struct {
	TotalAdvertisers  int `json:"total_advertisers"`
	ActiveAdvertisers int `json:"active_advertisers"`
	TotalUsers        int `json:"total_users"`
	TotalReviews      int `json:"total_reviews"`
	PendingReports    int `json:"pending_reports"`
}

// Report is a user complaint awaiting moderation.
type Report struct {
	ID           int64  `json:"id"`
	AdvertiserID int64  `json:"advertiser_id"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// BetaStatus describes the platform's beta programme.
type BetaStatus struct {
	IsBeta          bool           `json:"is_beta"`
	Message         string         `json:"message"`
	Features        map[string]any `json:"features,omitempty"`
	MigrationNotice *string        `json:"migration_notice"`
}

// AdvertiserRegistration is the payload for a new advertiser account.
type AdvertiserRegistration struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	BirthDate    string `json:"birth_date"`
	CPF          string `json:"cpf"`
	BusinessName string `json:"business_name"`
	Description  string `json:"description,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Website      string `json:"website,omitempty"`
	Address      string `json:"address,omitempty"`
	CityID       int64  `json:"city_id,omitempty"`
	CategoryID   int64  `json:"category_id,omitempty"`
}

// ConsumerRegistration is the payload for a new consumer account.
type ConsumerRegistration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
