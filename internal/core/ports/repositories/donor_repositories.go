package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DonorReader defines read operations for donor data
type DonorReader interface {
	// FindDonorByID retrieves a specific donor by its unique identifier.
	FindDonorByID(ctx context.Context, donorID string) (*domain.Donor, error)

	// FindDonorByEmail retrieves a donor by email address.
	FindDonorByEmail(ctx context.Context, email string) (*domain.Donor, error)

	// ListDonors retrieves a paginated list of donors, optionally filtered by status.
	ListDonors(ctx context.Context, limit int, nextToken *string, status *domain.DonorStatus) ([]domain.Donor, *string, error)

	// TotalForDonor derives the donor's total donated amount from the donation
	// ledger. The strict definition counts monetary donations with status
	// verified, received or distributed; includePending widens it to pending
	// pledges as a reporting variant.
	TotalForDonor(ctx context.Context, donorID string, includePending bool) (decimal.Decimal, error)
}

// DonorWriter defines write operations for donor data
type DonorWriter interface {
	// SaveDonor persists a new donor.
	SaveDonor(ctx context.Context, donor domain.Donor) error

	// UpdateDonor updates an existing donor's details.
	UpdateDonor(ctx context.Context, donor domain.Donor) error

	// UpdateDonorStatus updates only the donor's lifecycle status.
	UpdateDonorStatus(ctx context.Context, donorID string, status domain.DonorStatus, userID string, now time.Time) error
}

// DonorRepositoryFacade combines all donor-related repository interfaces
type DonorRepositoryFacade interface {
	DonorReader
	DonorWriter
}

// DonorTransactionSupport defines donor operations that run inside a
// caller-owned database transaction.
type DonorTransactionSupport interface {
	// SaveDonorInTx persists a new donor within the transaction.
	SaveDonorInTx(ctx context.Context, tx pgx.Tx, donor domain.Donor) error
}

// DonorRepositoryWithTx combines the facade with transaction support
type DonorRepositoryWithTx interface {
	DonorRepositoryFacade
	DonorTransactionSupport
	TransactionManager
}
