package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

// Period bounds an aggregate query. Zero-valued bounds mean unbounded.
type Period struct {
	From time.Time
	To   time.Time
}

// DonorCounts holds total and active donor counts.
type DonorCounts struct {
	Total  int64
	Active int64
}

// DonationCounts holds donation counts broken down by verification state.
type DonationCounts struct {
	Total    int64
	Pending  int64
	Verified int64
}

// DistributionStats holds distribution counts and reach for a period.
type DistributionStats struct {
	Total               int64
	Completed           int64
	BeneficiariesServed int64
}

// TopDonor pairs a donor with their verified monetary total.
type TopDonor struct {
	DonorID string
	Name    string
	Total   decimal.Decimal
}

// ReportingRepository defines the aggregate queries behind dashboards and
// generated reports. All queries read committed data only.
type ReportingRepository interface {
	// DonorCounts returns total and active donor counts.
	DonorCounts(ctx context.Context) (*DonorCounts, error)

	// DonationCounts returns donation counts by verification state for a period.
	DonationCounts(ctx context.Context, period Period) (*DonationCounts, error)

	// MonetaryTotal returns the sum of verified monetary donations for a period.
	MonetaryTotal(ctx context.Context, period Period) (decimal.Decimal, error)

	// InventorySummary returns received, stored, allocated and distributed
	// quantities plus a per-category stored breakdown.
	InventorySummary(ctx context.Context) (*domain.InventorySummary, error)

	// DistributionStats returns distribution counts and beneficiaries served for a period.
	DistributionStats(ctx context.Context, period Period) (*DistributionStats, error)

	// TopDonors returns donors ranked by verified monetary total for a period.
	TopDonors(ctx context.Context, period Period, limit int) ([]TopDonor, error)

	// DonorActivity returns per-donor donation counts and totals for a period.
	DonorActivity(ctx context.Context, period Period, donorID *string) ([]domain.DonorActivityRow, error)
}
