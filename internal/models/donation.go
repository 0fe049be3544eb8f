package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation is the row shape of the donations table.
type Donation struct {
	DonationID string          `db:"donation_id"`
	DonorID    string          `db:"donor_id"`
	Kind       string          `db:"kind"`
	Amount     decimal.Decimal `db:"amount"`
	ItemName   string          `db:"item_name"`
	Category   string          `db:"category"`
	Quantity   int64           `db:"quantity"`
	Unit       string          `db:"unit"`
	Status     string          `db:"status"`
	DonatedAt  time.Time       `db:"donated_at"`
	AuditFields
}
