package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryQuantity is a per-category quantity aggregate row.
type CategoryQuantity struct {
	Category string `json:"category"`
	Quantity int64  `json:"quantity"`
}

// InventorySummary aggregates item quantities by lifecycle stage.
type InventorySummary struct {
	TotalReceived    int64              `json:"totalReceived"`
	TotalStored      int64              `json:"totalStored"`
	TotalAllocated   int64              `json:"totalAllocated"`
	TotalDistributed int64              `json:"totalDistributed"`
	StoredByCategory []CategoryQuantity `json:"storedByCategory"`
}

// DonorActivityRow is a per-donor aggregate row for activity reports.
type DonorActivityRow struct {
	DonorID       string          `json:"donorId"`
	Name          string          `json:"name"`
	DonationCount int64           `json:"donationCount"`
	MonetaryTotal decimal.Decimal `json:"monetaryTotal"`
	InKindCount   int64           `json:"inKindCount"`
	LastDonatedAt *time.Time      `json:"lastDonatedAt,omitempty"`
}

// DashboardStats is the aggregate snapshot behind the admin dashboard.
// Every figure is derived from the ledger; nothing here is primary truth.
type DashboardStats struct {
	TotalDonors          int64            `json:"totalDonors"`
	ActiveDonors         int64            `json:"activeDonors"`
	TotalDonations       int64            `json:"totalDonations"`
	PendingDonations     int64            `json:"pendingDonations"`
	VerifiedDonations    int64            `json:"verifiedDonations"`
	MonetaryTotal        decimal.Decimal  `json:"monetaryTotal"` // verified-or-later only
	Inventory            InventorySummary `json:"inventory"`
	OngoingDistributions int64            `json:"ongoingDistributions"`
	BeneficiariesServed  int64            `json:"beneficiariesServed"` // completed distributions
	RecentDonations      []Donation       `json:"recentDonations"`
}
