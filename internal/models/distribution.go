package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Distribution is the row shape of the distributions table.
// RequestedItems is stored as a JSONB column mapping category to quantity.
type Distribution struct {
	DistributionID       string          `db:"distribution_id"`
	Name                 string          `db:"name"`
	OrgID                *string         `db:"org_id"`
	Location             string          `db:"location"`
	ScheduledDate        time.Time       `db:"scheduled_date"`
	DistType             string          `db:"dist_type"`
	Beneficiaries        int             `db:"beneficiaries"`
	AmountPerBeneficiary decimal.Decimal `db:"amount_per_beneficiary"`
	RequestedItems       []byte          `db:"requested_items"`
	Notes                string          `db:"notes"`
	Status               string          `db:"status"`
	AuditFields
}
