package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

// OrganizationReader defines read operations for organization data
type OrganizationReader interface {
	// FindOrganizationByID retrieves a specific organization by its unique identifier.
	FindOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error)

	// FindOrganizationByName retrieves an organization by its registered name.
	FindOrganizationByName(ctx context.Context, name string) (*domain.Organization, error)

	// ListOrganizations retrieves a paginated list of organizations, optionally filtered by status.
	ListOrganizations(ctx context.Context, limit int, nextToken *string, status *domain.OrgStatus) ([]domain.Organization, *string, error)

	// ContributionSummary aggregates an organization's monetary total and in-kind count.
	ContributionSummary(ctx context.Context, orgID string) (*domain.ContributionSummary, error)
}

// OrganizationWriter defines write operations for organization data
type OrganizationWriter interface {
	// SaveOrganization persists a new organization.
	SaveOrganization(ctx context.Context, org domain.Organization) error

	// UpdateOrganization persists changes to an organization.
	UpdateOrganization(ctx context.Context, org domain.Organization) error

	// UpdateOrganizationStatus updates only the organization's lifecycle status.
	UpdateOrganizationStatus(ctx context.Context, orgID string, status domain.OrgStatus, userID string, now time.Time) error
}

// OrganizationRepositoryFacade combines all organization-related repository interfaces
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
}

// OrganizationTransactionSupport defines organization operations that run
// inside a caller-owned database transaction.
type OrganizationTransactionSupport interface {
	// SaveOrganizationInTx persists a new organization within the transaction.
	SaveOrganizationInTx(ctx context.Context, tx pgx.Tx, org domain.Organization) error
}

// OrganizationRepositoryWithTx combines the facade with transaction support
type OrganizationRepositoryWithTx interface {
	OrganizationRepositoryFacade
	OrganizationTransactionSupport
	TransactionManager
}
