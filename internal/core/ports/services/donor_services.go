package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
)

// DonorReaderSvc defines read operations for donor data
type DonorReaderSvc interface {
	// GetDonorByID retrieves a specific donor by their unique identifier.
	GetDonorByID(ctx context.Context, donorID string) (*domain.Donor, error)

	// ListDonors retrieves a paginated list of donors, optionally filtered by status.
	ListDonors(ctx context.Context, limit int, nextToken *string, status *domain.DonorStatus) ([]domain.Donor, *string, error)

	// GetDonorTotal computes the donor's derived contribution total.
	// Only verified-or-later monetary donations count unless includePending is set.
	GetDonorTotal(ctx context.Context, donorID string, includePending bool) (decimal.Decimal, error)
}

// DonorWriterSvc defines write operations for donor data
type DonorWriterSvc interface {
	// CreateDonor registers a new donor.
	CreateDonor(ctx context.Context, req dto.CreateDonorRequest, userID string) (*domain.Donor, error)

	// UpdateDonor updates an existing donor's profile.
	UpdateDonor(ctx context.Context, donorID string, req dto.UpdateDonorRequest, userID string) (*domain.Donor, error)

	// TransitionDonorStatus moves a donor to a new lifecycle status.
	TransitionDonorStatus(ctx context.Context, donorID string, target domain.DonorStatus, userID string) (*domain.Donor, error)
}

// DonorSvcFacade combines all donor-related service interfaces
// This is a facade for clients that need access to all operations
type DonorSvcFacade interface {
	DonorReaderSvc
	DonorWriterSvc
}
