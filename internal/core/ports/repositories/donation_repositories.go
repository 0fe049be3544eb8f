package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

// DonationListFilter narrows ListDonations results.
type DonationListFilter struct {
	Status  *domain.DonationStatus
	DonorID *string
	Kind    *domain.DonationKind
}

// DonationReader defines read operations for donation data
type DonationReader interface {
	// FindDonationByID retrieves a specific donation by its unique identifier.
	FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error)

	// ListDonations retrieves a paginated list of donations matching the filter.
	ListDonations(ctx context.Context, limit int, nextToken *string, filter DonationListFilter) ([]domain.Donation, *string, error)

	// RecentDonations retrieves the most recently pledged donations.
	RecentDonations(ctx context.Context, limit int) ([]domain.Donation, error)
}

// DonationWriter defines write operations for donation data
type DonationWriter interface {
	// SaveDonation persists a new donation.
	SaveDonation(ctx context.Context, donation domain.Donation) error

	// UpdateDonationStatus updates only the donation's lifecycle status.
	UpdateDonationStatus(ctx context.Context, donationID string, status domain.DonationStatus, userID string, now time.Time) error
}

// DonationTransactionSupport defines donation operations that run inside a
// caller-owned database transaction.
type DonationTransactionSupport interface {
	// FindDonationByIDForUpdate selects a donation and locks its row within the transaction.
	FindDonationByIDForUpdate(ctx context.Context, tx pgx.Tx, donationID string) (*domain.Donation, error)

	// UpdateDonationStatusInTx updates a donation's status within the transaction.
	UpdateDonationStatusInTx(ctx context.Context, tx pgx.Tx, donationID string, status domain.DonationStatus, userID string, now time.Time) error
}

// DonationRepositoryFacade combines all donation-related repository interfaces
type DonationRepositoryFacade interface {
	DonationReader
	DonationWriter
}

// DonationRepositoryWithTx extends DonationRepositoryFacade with transaction capabilities
type DonationRepositoryWithTx interface {
	DonationRepositoryFacade
	DonationTransactionSupport
	TransactionManager
}
