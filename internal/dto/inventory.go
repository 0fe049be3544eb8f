package dto

import (
	"time"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

// CreateInventoryItemRequest defines the data needed to record a received item
// that arrived outside the donation pipeline.
type CreateInventoryItemRequest struct {
	DonorID    string     `json:"donorID" binding:"required"`
	DonationID *string    `json:"donationID"`
	Name       string     `json:"name" binding:"required"`
	Category   string     `json:"category" binding:"required"`
	Quantity   int64      `json:"quantity" binding:"required,gt=0"`
	Unit       string     `json:"unit" binding:"required"`
	ExpiryDate *time.Time `json:"expiryDate"`
	ReceivedAt *time.Time `json:"receivedAt"`
}

// UpdateInventoryItemRequest defines the fields editable while an item is
// still pending or verified.
type UpdateInventoryItemRequest struct {
	Name       *string    `json:"name"`
	Category   *string    `json:"category"`
	Quantity   *int64     `json:"quantity" binding:"omitempty,gt=0"`
	Unit       *string    `json:"unit"`
	ExpiryDate *time.Time `json:"expiryDate"`
}

// UpdateItemStatusRequest carries a requested inventory status change.
type UpdateItemStatusRequest struct {
	Status domain.ItemStatus `json:"status" binding:"required,oneof=pending verified stored allocated distributed"`
}

// InventoryItemResponse defines the data returned for an inventory item.
type InventoryItemResponse struct {
	ItemID          string            `json:"itemID"`
	DonorID         string            `json:"donorID"`
	DonationID      *string           `json:"donationID,omitempty"`
	Name            string            `json:"name"`
	Category        string            `json:"category"`
	Quantity        int64             `json:"quantity"`
	Unit            string            `json:"unit"`
	ExpiryDate      *time.Time        `json:"expiryDate,omitempty"`
	ReceivedAt      time.Time         `json:"receivedAt"`
	Status          domain.ItemStatus `json:"status"`
	DistributionID  *string           `json:"distributionID,omitempty"`
	SplitFromItemID *string           `json:"splitFromItemID,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	CreatedBy       string            `json:"createdBy"`
	LastUpdatedAt   time.Time         `json:"lastUpdatedAt"`
	LastUpdatedBy   string            `json:"lastUpdatedBy"`
}

// ToInventoryItemResponse converts a domain.InventoryItem to an InventoryItemResponse DTO
func ToInventoryItemResponse(it *domain.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ItemID:          it.ItemID,
		DonorID:         it.DonorID,
		DonationID:      it.DonationID,
		Name:            it.Name,
		Category:        it.Category,
		Quantity:        it.Quantity,
		Unit:            it.Unit,
		ExpiryDate:      it.ExpiryDate,
		ReceivedAt:      it.ReceivedAt,
		Status:          it.Status,
		DistributionID:  it.DistributionID,
		SplitFromItemID: it.SplitFromItemID,
		CreatedAt:       it.CreatedAt,
		CreatedBy:       it.CreatedBy,
		LastUpdatedAt:   it.LastUpdatedAt,
		LastUpdatedBy:   it.LastUpdatedBy,
	}
}

// ToListInventoryItemResponse converts a slice of domain.InventoryItem to DTOs
func ToListInventoryItemResponse(items []domain.InventoryItem) []InventoryItemResponse {
	res := make([]InventoryItemResponse, len(items))
	for i := range items {
		res[i] = ToInventoryItemResponse(&items[i])
	}
	return res
}

// ListInventoryParams defines query parameters for listing inventory items.
type ListInventoryParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
	Status    *string `form:"status"`
	Category  *string `form:"category"`
	DonorID   *string `form:"donorID"`
}

// ListInventoryResponse wraps the list of items with the pagination cursor.
type ListInventoryResponse struct {
	Items     []InventoryItemResponse `json:"items"`
	NextToken *string                 `json:"nextToken,omitempty"`
}
