package domain

import (
	"time"
)

// AccountTier classifies an account for pricing purposes.
type AccountTier string

const (
	TierRetail    AccountTier = "retail"
	TierWholesale AccountTier = "wholesale"
)

// Valid reports whether the tier is one of the known values.
func (t AccountTier) Valid() bool {
	return t == TierRetail || t == TierWholesale
}

// User represents a storefront account.
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	PasswordHash string      `json:"-"`
	Tier         AccountTier `json:"account_type"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	AccountType string `json:"account_type"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful register/login.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
