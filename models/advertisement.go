package models

import "time"

// AdvertisementRequest is a prospective advertiser's enquiry.
type AdvertisementRequest struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Description string    `json:"description"`
	Budget      float64   `json:"budget"`
	UserIP      string    `json:"user_ip"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAdvertisementRequest is the insert payload for an AdvertisementRequest.
type NewAdvertisementRequest struct {
	Email       string  `json:"email"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
	UserIP      string  `json:"user_ip"`
}
