package domain

import "github.com/shopspring/decimal"

// OrgStatus is the registration state of a partner organization.
type OrgStatus string

const (
	OrgActive   OrgStatus = "active"
	OrgInactive OrgStatus = "inactive"
	OrgPending  OrgStatus = "pending"
)

var orgTransitions = map[OrgStatus][]OrgStatus{
	OrgPending:  {OrgActive, OrgInactive},
	OrgActive:   {OrgInactive},
	OrgInactive: {OrgActive},
}

// CanTransitionTo reports whether target is a direct successor of s.
func (s OrgStatus) CanTransitionTo(target OrgStatus) bool {
	for _, next := range orgTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted from s.
func (s OrgStatus) IsTerminal() bool {
	return len(orgTransitions[s]) == 0
}

// Organization is a donor specialization: an institution whose contribution
// history is aggregated from the donations of its linked donor record.
type Organization struct {
	OrgID         string    `json:"orgID"`
	DonorID       *string   `json:"donorID,omitempty"`
	Name          string    `json:"name"`
	OrgType       string    `json:"orgType"` // e.g. corporate, ngo, government, community
	ContactPerson string    `json:"contactPerson"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Status        OrgStatus `json:"status"`
	AuditFields
}

// ContributionSummary aggregates an organization's giving history.
type ContributionSummary struct {
	MonetaryTotal decimal.Decimal `json:"monetaryTotal"`
	InKindCount   int64           `json:"inKindCount"`
}
