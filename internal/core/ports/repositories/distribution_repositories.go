package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

// DistributionListFilter narrows ListDistributions results.
type DistributionListFilter struct {
	Status *domain.DistributionStatus
	OrgID  *string
}

// DistributionReader defines read operations for distribution data
type DistributionReader interface {
	// FindDistributionByID retrieves a specific distribution by its unique identifier.
	FindDistributionByID(ctx context.Context, distributionID string) (*domain.Distribution, error)

	// ListDistributions retrieves a paginated list of distributions matching the filter.
	ListDistributions(ctx context.Context, limit int, nextToken *string, filter DistributionListFilter) ([]domain.Distribution, *string, error)

	// CountByStatus returns the number of distributions in the given status.
	CountByStatus(ctx context.Context, status domain.DistributionStatus) (int64, error)
}

// DistributionWriter defines write operations for distribution data
type DistributionWriter interface {
	// SaveDistribution persists a new distribution.
	SaveDistribution(ctx context.Context, distribution domain.Distribution) error

	// UpdateDistribution persists changes to an editable distribution.
	UpdateDistribution(ctx context.Context, distribution domain.Distribution) error

	// UpdateDistributionStatus updates only the distribution's lifecycle status.
	UpdateDistributionStatus(ctx context.Context, distributionID string, status domain.DistributionStatus, userID string, now time.Time) error
}

// DistributionTransactionSupport defines distribution operations that run
// inside a caller-owned database transaction.
type DistributionTransactionSupport interface {
	// FindDistributionByIDForUpdate selects a distribution and locks its row within the transaction.
	FindDistributionByIDForUpdate(ctx context.Context, tx pgx.Tx, distributionID string) (*domain.Distribution, error)

	// UpdateDistributionStatusInTx updates a distribution's status within the transaction.
	UpdateDistributionStatusInTx(ctx context.Context, tx pgx.Tx, distributionID string, status domain.DistributionStatus, userID string, now time.Time) error
}

// DistributionRepositoryFacade combines all distribution-related repository interfaces
type DistributionRepositoryFacade interface {
	DistributionReader
	DistributionWriter
}

// DistributionRepositoryWithTx extends DistributionRepositoryFacade with transaction capabilities
type DistributionRepositoryWithTx interface {
	DistributionRepositoryFacade
	DistributionTransactionSupport
	TransactionManager
}
