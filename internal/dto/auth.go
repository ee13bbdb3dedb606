package dto

import "time"

// LoginRequest carries member credentials.
type LoginRequest struct {
	MemberID string `json:"memberID" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SetupPasswordRequest sets the first password of a member created without one.
type SetupPasswordRequest struct {
	MemberID string `json:"memberID" binding:"required"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	MemberID  string    `json:"memberID"`
	IsAdmin   bool      `json:"isAdmin"`
}
