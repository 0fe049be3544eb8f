package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

// CreateDonorRequest defines the data needed to register a new donor.
type CreateDonorRequest struct {
	Name      string           `json:"name" binding:"required"`
	DonorType domain.DonorType `json:"donorType" binding:"required,oneof=individual organization"`
	Email     string           `json:"email" binding:"required,email"`
	Phone     string           `json:"phone"`
	Address   string           `json:"address"`
	UserID    *string          `json:"userID"` // Optional link to a login account
}

// UpdateDonorRequest defines the data allowed for updating a donor profile.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateDonorRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateDonorStatusRequest carries a requested donor status change.
type UpdateDonorStatusRequest struct {
	Status domain.DonorStatus `json:"status" binding:"required,oneof=active inactive blacklisted"`
}

// DonorResponse defines the data returned for a donor.
// Mirrors domain.Donor, with the derived contribution total attached.
type DonorResponse struct {
	DonorID       string             `json:"donorID"`
	Name          string             `json:"name"`
	DonorType     domain.DonorType   `json:"donorType"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone,omitempty"`
	Address       string             `json:"address,omitempty"`
	Status        domain.DonorStatus `json:"status"`
	TotalDonated  decimal.Decimal    `json:"totalDonated"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// ToDonorResponse converts a domain.Donor plus its derived total to a DonorResponse DTO
func ToDonorResponse(d *domain.Donor, total decimal.Decimal) DonorResponse {
	return DonorResponse{
		DonorID:       d.DonorID,
		Name:          d.Name,
		DonorType:     d.DonorType,
		Email:         d.Email,
		Phone:         d.Phone,
		Address:       d.Address,
		Status:        d.Status,
		TotalDonated:  total,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// DonorTotalResponse reports a donor's derived contribution total.
type DonorTotalResponse struct {
	DonorID        string          `json:"donorID"`
	Total          decimal.Decimal `json:"total"`
	IncludePending bool            `json:"includePending"`
}

// ListDonorsParams defines query parameters for listing donors.
type ListDonorsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
	Status    *string `form:"status"`
}

// ListDonorsResponse wraps the list of donors with the pagination cursor.
type ListDonorsResponse struct {
	Donors    []DonorResponse `json:"donors"`
	NextToken *string         `json:"nextToken,omitempty"`
}
