package services

import (
	"context"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
)

// OrganizationReaderSvc defines read operations for organization data
type OrganizationReaderSvc interface {
	// GetOrganizationByID retrieves a specific organization by its unique identifier.
	GetOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error)

	// ListOrganizations retrieves a paginated list of organizations, optionally filtered by status.
	ListOrganizations(ctx context.Context, limit int, nextToken *string, status *domain.OrgStatus) ([]domain.Organization, *string, error)

	// GetContributionSummary aggregates the organization's giving history.
	GetContributionSummary(ctx context.Context, orgID string) (*domain.ContributionSummary, error)
}

// OrganizationWriterSvc defines write operations for organization data
type OrganizationWriterSvc interface {
	// CreateOrganization registers a new partner organization.
	CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, userID string) (*domain.Organization, error)

	// UpdateOrganization updates an existing organization's details.
	UpdateOrganization(ctx context.Context, orgID string, req dto.UpdateOrganizationRequest, userID string) (*domain.Organization, error)

	// TransitionOrgStatus moves an organization to a new lifecycle status.
	TransitionOrgStatus(ctx context.Context, orgID string, target domain.OrgStatus, userID string) (*domain.Organization, error)
}

// OrganizationSvcFacade combines all organization-related service interfaces
type OrganizationSvcFacade interface {
	OrganizationReaderSvc
	OrganizationWriterSvc
}
