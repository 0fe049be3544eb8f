package domain

// DonorType distinguishes individual donors from donating organizations.
type DonorType string

const (
	DonorIndividual   DonorType = "individual"
	DonorOrganization DonorType = "organization"
)

// DonorStatus indicates whether a donor may pledge new donations.
type DonorStatus string

const (
	DonorActive      DonorStatus = "active"
	DonorInactive    DonorStatus = "inactive"
	DonorBlacklisted DonorStatus = "blacklisted"
)

// donorTransitions is the legal successor set per donor status.
// Blacklisting is terminal.
var donorTransitions = map[DonorStatus][]DonorStatus{
	DonorActive:      {DonorInactive, DonorBlacklisted},
	DonorInactive:    {DonorActive, DonorBlacklisted},
	DonorBlacklisted: {},
}

// CanTransitionTo reports whether target is a direct successor of s.
func (s DonorStatus) CanTransitionTo(target DonorStatus) bool {
	for _, next := range donorTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted from s.
func (s DonorStatus) IsTerminal() bool {
	return len(donorTransitions[s]) == 0
}

// NextStatuses returns the legal successors of s.
func (s DonorStatus) NextStatuses() []DonorStatus {
	return donorTransitions[s]
}

// Donor represents a registered donor, individual or organizational.
// Total-donated is never stored on the donor; it is derived from the
// donation ledger on demand (see DonorRepository.TotalForDonor).
type Donor struct {
	DonorID   string      `json:"donorID"`
	UserID    *string     `json:"userID,omitempty"` // set when the donor self-registered
	Name      string      `json:"name"`
	DonorType DonorType   `json:"donorType"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	Status    DonorStatus `json:"status"`
	AuditFields
}
