package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DistributionType describes what a distribution event hands out.
type DistributionType string

const (
	DistMonetary DistributionType = "monetary"
	DistInKind   DistributionType = "in-kind"
	DistMixed    DistributionType = "mixed"
)

// DistributionStatus is the lifecycle state of an aid event.
type DistributionStatus string

const (
	DistPending   DistributionStatus = "pending"
	DistOngoing   DistributionStatus = "ongoing"
	DistCompleted DistributionStatus = "completed"
	DistCancelled DistributionStatus = "cancelled"
)

var distributionTransitions = map[DistributionStatus][]DistributionStatus{
	DistPending:   {DistOngoing, DistCancelled},
	DistOngoing:   {DistCompleted},
	DistCompleted: {},
	DistCancelled: {},
}

// CanTransitionTo reports whether target is a direct successor of s.
func (s DistributionStatus) CanTransitionTo(target DistributionStatus) bool {
	for _, next := range distributionTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted from s.
func (s DistributionStatus) IsTerminal() bool {
	return len(distributionTransitions[s]) == 0
}

// NextStatuses returns the legal successors of s.
func (s DistributionStatus) NextStatuses() []DistributionStatus {
	return distributionTransitions[s]
}

// IsEditable reports whether the distribution's details may still change.
// Only pending distributions may be edited or cancelled.
func (s DistributionStatus) IsEditable() bool {
	return s == DistPending
}

// AcceptsAllocations reports whether inventory or funds may still be
// committed to the distribution.
func (s DistributionStatus) AcceptsAllocations() bool {
	return s == DistPending || s == DistOngoing
}

// Distribution is an aid event at a location and date. RequestedItems maps
// item category to the quantity the event plans to hand out.
type Distribution struct {
	DistributionID       string             `json:"distributionID"`
	Name                 string             `json:"name"`
	OrgID                *string            `json:"orgID,omitempty"`
	Location             string             `json:"location"`
	ScheduledDate        time.Time          `json:"scheduledDate"`
	DistType             DistributionType   `json:"distType"`
	Beneficiaries        int                `json:"beneficiaries"`
	AmountPerBeneficiary decimal.Decimal    `json:"amountPerBeneficiary"`
	RequestedItems       map[string]int64   `json:"requestedItems,omitempty"`
	Notes                string             `json:"notes,omitempty"`
	Status               DistributionStatus `json:"status"`
	AuditFields
}

// TotalMonetary is the full monetary commitment of the event.
func (d Distribution) TotalMonetary() decimal.Decimal {
	return d.AmountPerBeneficiary.Mul(decimal.NewFromInt(int64(d.Beneficiaries)))
}
