package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonationKind distinguishes monetary pledges from in-kind pledges of goods.
type DonationKind string

const (
	Monetary DonationKind = "monetary"
	InKind   DonationKind = "in_kind"
)

// DonationStatus is the lifecycle state of a pledge.
type DonationStatus string

const (
	DonationPending     DonationStatus = "pending"
	DonationVerified    DonationStatus = "verified"
	DonationRejected    DonationStatus = "rejected"
	DonationReceived    DonationStatus = "received"
	DonationDistributed DonationStatus = "distributed"
)

// donationTransitions: pending may be verified or rejected; verified pledges
// are received, then distributed. Rejected and distributed are terminal.
var donationTransitions = map[DonationStatus][]DonationStatus{
	DonationPending:     {DonationVerified, DonationRejected},
	DonationVerified:    {DonationReceived},
	DonationReceived:    {DonationDistributed},
	DonationRejected:    {},
	DonationDistributed: {},
}

// CanTransitionTo reports whether target is a direct successor of s.
func (s DonationStatus) CanTransitionTo(target DonationStatus) bool {
	for _, next := range donationTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted from s.
func (s DonationStatus) IsTerminal() bool {
	return len(donationTransitions[s]) == 0
}

// NextStatuses returns the legal successors of s.
func (s DonationStatus) NextStatuses() []DonationStatus {
	return donationTransitions[s]
}

// CountsTowardDonorTotal reports whether a donation in this status
// contributes to the donor's derived total. Only verified-or-later
// statuses count; pending and rejected pledges are excluded.
func (s DonationStatus) CountsTowardDonorTotal() bool {
	switch s {
	case DonationVerified, DonationReceived, DonationDistributed:
		return true
	}
	return false
}

// Donation is a monetary or in-kind pledge from a donor.
// Monetary donations carry Amount; in-kind donations carry the item fields.
type Donation struct {
	DonationID string          `json:"donationID"`
	DonorID    string          `json:"donorID"`
	Kind       DonationKind    `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	ItemName   string          `json:"itemName,omitempty"`
	Category   string          `json:"category,omitempty"`
	Quantity   int64           `json:"quantity,omitempty"`
	Unit       string          `json:"unit,omitempty"`
	Status     DonationStatus  `json:"status"`
	DonatedAt  time.Time       `json:"donatedAt"`
	AuditFields
}
