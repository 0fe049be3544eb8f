package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	DonorRepo        DonorRepositoryWithTx
	DonationRepo     DonationRepositoryWithTx
	InventoryRepo    InventoryRepositoryWithTx
	DistributionRepo DistributionRepositoryWithTx
	AllocationRepo   AllocationRepositoryWithTx
	OrganizationRepo OrganizationRepositoryWithTx
	UserRepo         UserRepositoryWithTx
	ReportRepo       ReportRepositoryFacade
	ReportingRepo    ReportingRepository
}
