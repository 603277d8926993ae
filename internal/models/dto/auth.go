package dto

import "github.com/driveline/rental-be/internal/models"

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	// PhoneNumber is accepted as an alias for Phone for older clients.
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MeResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
}
