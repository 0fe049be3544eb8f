package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

// CreateOrganizationRequest defines the data needed to register a partner organization.
type CreateOrganizationRequest struct {
	Name          string  `json:"name" binding:"required"`
	OrgType       string  `json:"orgType" binding:"required,oneof=corporate ngo government community"`
	ContactPerson string  `json:"contactPerson" binding:"required"`
	Email         string  `json:"email" binding:"required,email"`
	Phone         string  `json:"phone"`
	DonorID       *string `json:"donorID"`
}

// UpdateOrganizationRequest defines the data allowed for updating an organization.
type UpdateOrganizationRequest struct {
	Name          *string `json:"name"`
	OrgType       *string `json:"orgType" binding:"omitempty,oneof=corporate ngo government community"`
	ContactPerson *string `json:"contactPerson"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phone         *string `json:"phone"`
}

// UpdateOrgStatusRequest carries a requested organization status change.
type UpdateOrgStatusRequest struct {
	Status domain.OrgStatus `json:"status" binding:"required,oneof=pending active inactive"`
}

// OrganizationResponse defines the data returned for an organization.
type OrganizationResponse struct {
	OrgID         string           `json:"orgID"`
	DonorID       *string          `json:"donorID,omitempty"`
	Name          string           `json:"name"`
	OrgType       string           `json:"orgType"`
	ContactPerson string           `json:"contactPerson"`
	Email         string           `json:"email"`
	Phone         string           `json:"phone,omitempty"`
	Status        domain.OrgStatus `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	CreatedBy     string           `json:"createdBy"`
	LastUpdatedAt time.Time        `json:"lastUpdatedAt"`
	LastUpdatedBy string           `json:"lastUpdatedBy"`
}

// ToOrganizationResponse converts a domain.Organization to an OrganizationResponse DTO
func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrgID:         o.OrgID,
		DonorID:       o.DonorID,
		Name:          o.Name,
		OrgType:       o.OrgType,
		ContactPerson: o.ContactPerson,
		Email:         o.Email,
		Phone:         o.Phone,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
		CreatedBy:     o.CreatedBy,
		LastUpdatedAt: o.LastUpdatedAt,
		LastUpdatedBy: o.LastUpdatedBy,
	}
}

// ToListOrganizationResponse converts a slice of domain.Organization to DTOs
func ToListOrganizationResponse(orgs []domain.Organization) []OrganizationResponse {
	res := make([]OrganizationResponse, len(orgs))
	for i := range orgs {
		res[i] = ToOrganizationResponse(&orgs[i])
	}
	return res
}

// ContributionSummaryResponse reports an organization's aggregated giving.
type ContributionSummaryResponse struct {
	OrgID         string          `json:"orgID"`
	MonetaryTotal decimal.Decimal `json:"monetaryTotal"`
	InKindCount   int64           `json:"inKindCount"`
}

// ListOrganizationsParams defines query parameters for listing organizations.
type ListOrganizationsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
	Status    *string `form:"status"`
}

// ListOrganizationsResponse wraps the list of organizations with the pagination cursor.
type ListOrganizationsResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
	NextToken     *string                `json:"nextToken,omitempty"`
}
