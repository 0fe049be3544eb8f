package services

import (
	"context"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	"github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
)

// DistributionReaderSvc defines read operations for distribution data
type DistributionReaderSvc interface {
	// GetDistributionByID retrieves a specific distribution by its unique identifier.
	GetDistributionByID(ctx context.Context, distributionID string) (*domain.Distribution, error)

	// ListDistributions retrieves a paginated list of distributions matching the filter.
	ListDistributions(ctx context.Context, limit int, nextToken *string, filter repositories.DistributionListFilter) ([]domain.Distribution, *string, error)

	// ListAllocations retrieves the allocations committed against a distribution.
	ListAllocations(ctx context.Context, distributionID string) ([]domain.Allocation, error)
}

// DistributionWriterSvc defines write operations for distribution data
type DistributionWriterSvc interface {
	// CreateDistribution plans a new distribution event.
	CreateDistribution(ctx context.Context, req dto.CreateDistributionRequest, userID string) (*domain.Distribution, error)

	// UpdateDistribution edits a pending distribution.
	UpdateDistribution(ctx context.Context, distributionID string, req dto.UpdateDistributionRequest, userID string) (*domain.Distribution, error)

	// TransitionDistributionStatus moves a distribution to a new lifecycle status.
	// Completing a distribution marks its allocated items distributed.
	TransitionDistributionStatus(ctx context.Context, distributionID string, target domain.DistributionStatus, userID string) (*domain.Distribution, error)
}

// AllocatorSvc defines the two-step reservation protocol. Preview computes
// the plan without reserving anything; Allocate commits it atomically.
type AllocatorSvc interface {
	// PreviewAllocation reports what Allocate with the same request would consume.
	PreviewAllocation(ctx context.Context, distributionID string, req dto.AllocationRequest) (*dto.AllocationPreviewResponse, error)

	// Allocate reserves inventory and funds against the distribution in a
	// single transaction. Oldest stored items are consumed first; an item
	// larger than the remaining need is split.
	Allocate(ctx context.Context, distributionID string, req dto.AllocationRequest, userID string) (*domain.Allocation, error)
}

// DistributionSvcFacade combines all distribution-related service interfaces
type DistributionSvcFacade interface {
	DistributionReaderSvc
	DistributionWriterSvc
	AllocatorSvc
}
