package domain

import "github.com/shopspring/decimal"

// AllocationLine records one inventory item consumed by an allocation.
type AllocationLine struct {
	LineID       string `json:"lineID"`
	AllocationID string `json:"allocationID"`
	ItemID       string `json:"itemID"`
	Category     string `json:"category"`
	Quantity     int64  `json:"quantity"`
}

// Allocation is the ledger fact that stored inventory and/or verified
// unallocated funds were committed to a distribution event. Either all of
// its lines and the monetary amount were applied, or the allocation does
// not exist; there is no partially applied allocation.
type Allocation struct {
	AllocationID   string           `json:"allocationID"`
	DistributionID string           `json:"distributionID"`
	MonetaryAmount decimal.Decimal  `json:"monetaryAmount"`
	Lines          []AllocationLine `json:"lines,omitempty"`
	AuditFields
}
