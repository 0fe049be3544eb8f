package models

import "github.com/shopspring/decimal"

// Allocation is the row shape of the allocations table.
type Allocation struct {
	AllocationID   string          `db:"allocation_id"`
	DistributionID string          `db:"distribution_id"`
	MonetaryAmount decimal.Decimal `db:"monetary_amount"`
	AuditFields
}

// AllocationLine is the row shape of the allocation_lines table.
type AllocationLine struct {
	LineID       string `db:"line_id"`
	AllocationID string `db:"allocation_id"`
	ItemID       string `db:"item_id"`
	Category     string `db:"category"`
	Quantity     int64  `db:"quantity"`
}
