package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

// CreateDonationRequest defines the data needed to record a new pledge.
// Monetary pledges carry an amount; in-kind pledges carry item details.
type CreateDonationRequest struct {
	DonorID  string              `json:"donorID" binding:"required"`
	Kind     domain.DonationKind `json:"kind" binding:"required,oneof=monetary in_kind"`
	Amount   *decimal.Decimal    `json:"amount"`
	ItemName string              `json:"itemName"`
	Category string              `json:"category"`
	Quantity int64               `json:"quantity"`
	Unit     string              `json:"unit"`
}

// UpdateDonationStatusRequest carries a requested donation status change.
type UpdateDonationStatusRequest struct {
	Status domain.DonationStatus `json:"status" binding:"required,oneof=pending verified rejected received distributed"`
}

// DonationResponse defines the data returned for a donation.
type DonationResponse struct {
	DonationID    string                `json:"donationID"`
	DonorID       string                `json:"donorID"`
	Kind          domain.DonationKind   `json:"kind"`
	Amount        *decimal.Decimal      `json:"amount,omitempty"`
	ItemName      string                `json:"itemName,omitempty"`
	Category      string                `json:"category,omitempty"`
	Quantity      int64                 `json:"quantity,omitempty"`
	Unit          string                `json:"unit,omitempty"`
	Status        domain.DonationStatus `json:"status"`
	DonatedAt     time.Time             `json:"donatedAt"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy string                `json:"lastUpdatedBy"`
}

// ToDonationResponse converts a domain.Donation to a DonationResponse DTO
func ToDonationResponse(d *domain.Donation) DonationResponse {
	resp := DonationResponse{
		DonationID:    d.DonationID,
		DonorID:       d.DonorID,
		Kind:          d.Kind,
		ItemName:      d.ItemName,
		Category:      d.Category,
		Quantity:      d.Quantity,
		Unit:          d.Unit,
		Status:        d.Status,
		DonatedAt:     d.DonatedAt,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
	if d.Kind == domain.Monetary {
		amount := d.Amount
		resp.Amount = &amount
	}
	return resp
}

// ToListDonationResponse converts a slice of domain.Donation to DonationResponse DTOs
func ToListDonationResponse(donations []domain.Donation) []DonationResponse {
	res := make([]DonationResponse, len(donations))
	for i := range donations {
		res[i] = ToDonationResponse(&donations[i])
	}
	return res
}

// ListDonationsParams defines query parameters for listing donations.
type ListDonationsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
	Status    *string `form:"status"`
	DonorID   *string `form:"donorID"`
	Kind      *string `form:"kind"`
}

// ListDonationsResponse wraps the list of donations with the pagination cursor.
type ListDonationsResponse struct {
	Donations []DonationResponse `json:"donations"`
	NextToken *string            `json:"nextToken,omitempty"`
}
