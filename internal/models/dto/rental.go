package dto

type BookRentalRequest struct {
	CarID      int64  `json:"carId"`
	LocationID int64  `json:"locationId"`
	StartDate  string `json:"startDate"` // YYYY-MM-DD
	EndDate    string `json:"endDate"`   // YYYY-MM-DD
	PromoCode  string `json:"promoCode"`
}

type CarUpsertRequest struct {
	LocationID     int64  `json:"locationId"`
	Make           string `json:"make"`
	Model          string `json:"model"`
	Year           int    `json:"year"`
	Plate          string `json:"plate"`
	DailyRateCents int64  `json:"dailyRateCents"`
}

type LocationCreateRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type PromotionUpsertRequest struct {
	Code            string `json:"code"`
	Description     string `json:"description"`
	DiscountPercent int    `json:"discountPercent"`
	StartsAt        string `json:"startsAt"` // YYYY-MM-DD
	EndsAt          string `json:"endsAt"`   // YYYY-MM-DD
}

type MaintenanceCreateRequest struct {
	Description string `json:"description"`
}

type PhotoUploadResponse struct {
	StorageKey string `json:"storage_key"`
	UploadURL  string `json:"upload_url"`
}
