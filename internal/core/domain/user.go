package domain

import "time"

// User is an authenticated account: a self-registered donor or an admin.
type User struct {
	UserID       string    `json:"userID"`
	FullName     string    `json:"fullName"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DonorType    DonorType `json:"donorType"`
	IsActive     bool      `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	AuditFields

	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}
