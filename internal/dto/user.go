package dto

import (
	"time"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

// RegisterUserRequest defines the data needed for donor self-registration.
type RegisterUserRequest struct {
	FullName  string           `json:"fullName" binding:"required"`
	Email     string           `json:"email" binding:"required,email"`
	Password  string           `json:"password" binding:"required,min=6"`
	DonorType domain.DonorType `json:"donorType" binding:"required,oneof=individual organization"`
	Phone     string           `json:"phone"`
	Address   string           `json:"address"`
}

// LoginRequest defines the credentials for login. Identifier accepts either
// the account email or the username.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// RefreshTokenResponse represents the response for a successful token refresh.
type RefreshTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UpdateUserRequest defines the data allowed for updating a user profile.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	FullName *string `json:"fullName"`
}

// UserResponse defines the data returned for a user. Credential and token
// fields never leave the service layer.
type UserResponse struct {
	UserID      string           `json:"userID"`
	FullName    string           `json:"fullName"`
	Username    string           `json:"username"`
	Email       string           `json:"email"`
	DonorType   domain.DonorType `json:"donorType"`
	IsActive    bool             `json:"isActive"`
	LastLoginAt *time.Time       `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// ToUserResponse converts a domain.User to a UserResponse DTO
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:      u.UserID,
		FullName:    u.FullName,
		Username:    u.Username,
		Email:       u.Email,
		DonorType:   u.DonorType,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListUsersResponse wraps the list of users with the pagination cursor.
type ListUsersResponse struct {
	Users     []UserResponse `json:"users"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse
func ToListUserResponse(users []domain.User, nextToken *string) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{Users: userResponses, NextToken: nextToken}
}
