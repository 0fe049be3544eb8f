package services

import (
	portsrepo "github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/reliefbase/relief_ledger_app/internal/core/ports/services"
	"github.com/reliefbase/relief_ledger_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Donor = NewDonorService(repos.DonorRepo)
	container.Donation = NewDonationService(repos.DonationRepo, repos.InventoryRepo, repos.DonorRepo)
	container.Inventory = NewInventoryService(repos.InventoryRepo, repos.DonorRepo, repos.ReportingRepo)
	container.Organization = NewOrganizationService(repos.OrganizationRepo, repos.DonorRepo)
	container.Distribution = NewDistributionService(
		repos.DistributionRepo,
		repos.InventoryRepo,
		repos.AllocationRepo,
		repos.OrganizationRepo,
		cfg.AllocationMaxRetries,
	)
	container.User = NewUserService(repos.UserRepo, repos.DonorRepo, repos.OrganizationRepo)
	container.Token = NewTokenService(cfg, repos.UserRepo)
	container.Reporting = NewReportingService(repos.ReportRepo, repos.ReportingRepo, repos.DonationRepo)

	return container
}
