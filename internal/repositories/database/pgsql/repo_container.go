package pgsql

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool, storeTimeout time.Duration) portsrepo.RepositoryProvider {
	donorRepo := newPgxDonorRepository(dbPool, storeTimeout)
	donationRepo := newPgxDonationRepository(dbPool, storeTimeout)
	inventoryRepo := newPgxInventoryRepository(dbPool, storeTimeout)
	distributionRepo := newPgxDistributionRepository(dbPool, storeTimeout)
	allocationRepo := newPgxAllocationRepository(dbPool, storeTimeout)
	organizationRepo := newPgxOrganizationRepository(dbPool, storeTimeout)
	userRepo := newPgxUserRepository(dbPool, storeTimeout)
	reportRepo := newPgxReportRepository(dbPool, storeTimeout)
	reportingRepo := newReportingRepository(dbPool, storeTimeout)

	return portsrepo.RepositoryProvider{
		DonorRepo:        donorRepo,
		DonationRepo:     donationRepo,
		InventoryRepo:    inventoryRepo,
		DistributionRepo: distributionRepo,
		AllocationRepo:   allocationRepo,
		OrganizationRepo: organizationRepo,
		UserRepo:         userRepo,
		ReportRepo:       reportRepo,
		ReportingRepo:    reportingRepo,
	}
}
