package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

// CreateDistributionRequest defines the data needed to plan a distribution.
type CreateDistributionRequest struct {
	Name                 string                  `json:"name" binding:"required"`
	DistType             domain.DistributionType `json:"distType" binding:"required,oneof=monetary in-kind mixed"`
	OrgID                *string                 `json:"orgID"`
	Location             string                  `json:"location" binding:"required"`
	ScheduledDate        time.Time               `json:"scheduledDate" binding:"required"`
	Beneficiaries        int                     `json:"beneficiaries" binding:"required,gt=0"`
	AmountPerBeneficiary *decimal.Decimal        `json:"amountPerBeneficiary"`
	RequestedItems       map[string]int64        `json:"requestedItems"`
	Notes                string                  `json:"notes"`
}

// UpdateDistributionRequest defines the fields editable while a distribution
// is still pending.
type UpdateDistributionRequest struct {
	Name                 *string          `json:"name"`
	Location             *string          `json:"location"`
	ScheduledDate        *time.Time       `json:"scheduledDate"`
	Beneficiaries        *int             `json:"beneficiaries" binding:"omitempty,gt=0"`
	AmountPerBeneficiary *decimal.Decimal `json:"amountPerBeneficiary"`
	RequestedItems       map[string]int64 `json:"requestedItems"`
	Notes                *string          `json:"notes"`
}

// UpdateDistributionStatusRequest carries a requested distribution status change.
type UpdateDistributionStatusRequest struct {
	Status domain.DistributionStatus `json:"status" binding:"required,oneof=pending ongoing completed cancelled"`
}

// AllocationRequest asks for inventory and funds to be reserved against a
// distribution. The same body drives both preview and commit.
type AllocationRequest struct {
	Items          map[string]int64 `json:"items"`
	MonetaryAmount *decimal.Decimal `json:"monetaryAmount"`
}

// AllocationLinePreview describes one planned consumption of a stored item.
type AllocationLinePreview struct {
	ItemID    string `json:"itemID"`
	ItemName  string `json:"itemName"`
	Category  string `json:"category"`
	Quantity  int64  `json:"quantity"`
	Remaining int64  `json:"remaining"` // quantity left on the item after the split
}

// AllocationShortage reports a category the inventory cannot cover.
type AllocationShortage struct {
	Category  string `json:"category"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
}

// AllocationPreviewResponse reports what a commit with the same request body
// would consume. Nothing is reserved by a preview.
type AllocationPreviewResponse struct {
	Feasible       bool                    `json:"feasible"`
	Lines          []AllocationLinePreview `json:"lines"`
	MonetaryAmount *decimal.Decimal        `json:"monetaryAmount,omitempty"`
	Shortages      []AllocationShortage    `json:"shortages,omitempty"`
}

// AllocationLineResponse defines one committed allocation line.
type AllocationLineResponse struct {
	LineID   string `json:"lineID"`
	ItemID   string `json:"itemID"`
	Category string `json:"category"`
	Quantity int64  `json:"quantity"`
}

// AllocationResponse defines the data returned for a committed allocation.
type AllocationResponse struct {
	AllocationID   string                   `json:"allocationID"`
	DistributionID string                   `json:"distributionID"`
	MonetaryAmount *decimal.Decimal         `json:"monetaryAmount,omitempty"`
	Lines          []AllocationLineResponse `json:"lines"`
	CreatedAt      time.Time                `json:"createdAt"`
	CreatedBy      string                   `json:"createdBy"`
}

// ToAllocationResponse converts a domain.Allocation to an AllocationResponse DTO
func ToAllocationResponse(a *domain.Allocation) AllocationResponse {
	lines := make([]AllocationLineResponse, len(a.Lines))
	for i, l := range a.Lines {
		lines[i] = AllocationLineResponse{
			LineID:   l.LineID,
			ItemID:   l.ItemID,
			Category: l.Category,
			Quantity: l.Quantity,
		}
	}
	resp := AllocationResponse{
		AllocationID:   a.AllocationID,
		DistributionID: a.DistributionID,
		Lines:          lines,
		CreatedAt:      a.CreatedAt,
		CreatedBy:      a.CreatedBy,
	}
	if !a.MonetaryAmount.IsZero() {
		amount := a.MonetaryAmount
		resp.MonetaryAmount = &amount
	}
	return resp
}

// ToListAllocationResponse converts a slice of domain.Allocation to DTOs
func ToListAllocationResponse(allocations []domain.Allocation) []AllocationResponse {
	res := make([]AllocationResponse, len(allocations))
	for i := range allocations {
		res[i] = ToAllocationResponse(&allocations[i])
	}
	return res
}

// DistributionResponse defines the data returned for a distribution.
type DistributionResponse struct {
	DistributionID       string                    `json:"distributionID"`
	Name                 string                    `json:"name"`
	DistType             domain.DistributionType   `json:"distType"`
	OrgID                *string                   `json:"orgID,omitempty"`
	Location             string                    `json:"location"`
	ScheduledDate        time.Time                 `json:"scheduledDate"`
	Beneficiaries        int                       `json:"beneficiaries"`
	AmountPerBeneficiary decimal.Decimal           `json:"amountPerBeneficiary"`
	TotalMonetary        decimal.Decimal           `json:"totalMonetary"`
	RequestedItems       map[string]int64          `json:"requestedItems,omitempty"`
	Notes                string                    `json:"notes,omitempty"`
	Status               domain.DistributionStatus `json:"status"`
	CreatedAt            time.Time                 `json:"createdAt"`
	CreatedBy            string                    `json:"createdBy"`
	LastUpdatedAt        time.Time                 `json:"lastUpdatedAt"`
	LastUpdatedBy        string                    `json:"lastUpdatedBy"`
}

// ToDistributionResponse converts a domain.Distribution to a DistributionResponse DTO
func ToDistributionResponse(d *domain.Distribution) DistributionResponse {
	return DistributionResponse{
		DistributionID:       d.DistributionID,
		Name:                 d.Name,
		DistType:             d.DistType,
		OrgID:                d.OrgID,
		Location:             d.Location,
		ScheduledDate:        d.ScheduledDate,
		Beneficiaries:        d.Beneficiaries,
		AmountPerBeneficiary: d.AmountPerBeneficiary,
		TotalMonetary:        d.TotalMonetary(),
		RequestedItems:       d.RequestedItems,
		Notes:                d.Notes,
		Status:               d.Status,
		CreatedAt:            d.CreatedAt,
		CreatedBy:            d.CreatedBy,
		LastUpdatedAt:        d.LastUpdatedAt,
		LastUpdatedBy:        d.LastUpdatedBy,
	}
}

// ToListDistributionResponse converts a slice of domain.Distribution to DTOs
func ToListDistributionResponse(distributions []domain.Distribution) []DistributionResponse {
	res := make([]DistributionResponse, len(distributions))
	for i := range distributions {
		res[i] = ToDistributionResponse(&distributions[i])
	}
	return res
}

// ListDistributionsParams defines query parameters for listing distributions.
type ListDistributionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
	Status    *string `form:"status"`
	OrgID     *string `form:"orgID"`
}

// ListDistributionsResponse wraps the list of distributions with the pagination cursor.
type ListDistributionsResponse struct {
	Distributions []DistributionResponse `json:"distributions"`
	NextToken     *string                `json:"nextToken,omitempty"`
}
