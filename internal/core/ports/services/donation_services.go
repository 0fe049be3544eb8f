package services

import (
	"context"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	"github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
)

// DonationReaderSvc defines read operations for donation data
type DonationReaderSvc interface {
	// GetDonationByID retrieves a specific donation by its unique identifier.
	GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error)

	// ListDonations retrieves a paginated list of donations matching the filter.
	ListDonations(ctx context.Context, limit int, nextToken *string, filter repositories.DonationListFilter) ([]domain.Donation, *string, error)
}

// DonationWriterSvc defines write operations for donation data
type DonationWriterSvc interface {
	// CreateDonation records a new pledge. Blacklisted donors are refused.
	CreateDonation(ctx context.Context, req dto.CreateDonationRequest, userID string) (*domain.Donation, error)

	// TransitionDonationStatus moves a donation to a new lifecycle status.
	// Marking an in-kind donation received also creates its pending inventory
	// item in the same transaction.
	TransitionDonationStatus(ctx context.Context, donationID string, target domain.DonationStatus, userID string) (*domain.Donation, error)
}

// DonationSvcFacade combines all donation-related service interfaces
type DonationSvcFacade interface {
	DonationReaderSvc
	DonationWriterSvc
}
