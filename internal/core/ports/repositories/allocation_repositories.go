package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

// AllocationReader defines read operations for allocation data
type AllocationReader interface {
	// ListAllocationsByDistribution retrieves all allocations committed against a distribution.
	ListAllocationsByDistribution(ctx context.Context, distributionID string) ([]domain.Allocation, error)
}

// AllocationTransactionSupport defines allocation operations that run inside a
// caller-owned database transaction.
type AllocationTransactionSupport interface {
	// SaveAllocationInTx persists an allocation and its lines within the transaction.
	SaveAllocationInTx(ctx context.Context, tx pgx.Tx, allocation domain.Allocation) error

	// AvailableFundsInTx computes verified monetary donations minus committed
	// monetary allocations, within the transaction.
	AvailableFundsInTx(ctx context.Context, tx pgx.Tx) (decimal.Decimal, error)
}

// AllocationRepositoryFacade combines all allocation-related repository interfaces
type AllocationRepositoryFacade interface {
	AllocationReader
}

// AllocationRepositoryWithTx extends AllocationRepositoryFacade with transaction capabilities
type AllocationRepositoryWithTx interface {
	AllocationRepositoryFacade
	AllocationTransactionSupport
	TransactionManager
}
