package domain

import "time"

// ItemStatus is the lifecycle state of a physical donated good.
type ItemStatus string

const (
	ItemPending     ItemStatus = "pending"
	ItemVerified    ItemStatus = "verified"
	ItemStored      ItemStatus = "stored"
	ItemAllocated   ItemStatus = "allocated"
	ItemDistributed ItemStatus = "distributed"
)

// itemTransitions is strictly linear: an item cannot skip storage or
// allocation on its way to distribution.
var itemTransitions = map[ItemStatus][]ItemStatus{
	ItemPending:     {ItemVerified},
	ItemVerified:    {ItemStored},
	ItemStored:      {ItemAllocated},
	ItemAllocated:   {ItemDistributed},
	ItemDistributed: {},
}

// CanTransitionTo reports whether target is a direct successor of s.
func (s ItemStatus) CanTransitionTo(target ItemStatus) bool {
	for _, next := range itemTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted from s.
func (s ItemStatus) IsTerminal() bool {
	return len(itemTransitions[s]) == 0
}

// NextStatuses returns the legal successors of s.
func (s ItemStatus) NextStatuses() []ItemStatus {
	return itemTransitions[s]
}

// IsMutable reports whether the item may still be edited or deleted.
// Once an item is allocated its quantity is committed to a distribution
// and history may no longer be rewritten.
func (s ItemStatus) IsMutable() bool {
	return s == ItemPending || s == ItemVerified
}

// InventoryItem is a physical donated good tracked from receipt to distribution.
// SplitFromItemID is set on synthetic rows created when an allocation consumes
// only part of a stored row's quantity.
type InventoryItem struct {
	ItemID          string     `json:"itemID"`
	DonorID         string     `json:"donorID"`
	DonationID      *string    `json:"donationID,omitempty"` // originating in-kind pledge, when known
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	Quantity        int64      `json:"quantity"`
	Unit            string     `json:"unit"`
	ExpiryDate      *time.Time `json:"expiryDate,omitempty"`
	ReceivedAt      time.Time  `json:"receivedAt"`
	Status          ItemStatus `json:"status"`
	DistributionID  *string    `json:"distributionID,omitempty"` // set once allocated
	SplitFromItemID *string    `json:"splitFromItemID,omitempty"`
	AuditFields
}
