package mapping

import (
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	"github.com/reliefbase/relief_ledger_app/internal/models"
)

// ToModelDonation converts a domain Donation to a model Donation
func ToModelDonation(d domain.Donation) models.Donation {
	return models.Donation{
		DonationID:  d.DonationID,
		DonorID:     d.DonorID,
		Kind:        string(d.Kind),
		Amount:      d.Amount,
		ItemName:    d.ItemName,
		Category:    d.Category,
		Quantity:    d.Quantity,
		Unit:        d.Unit,
		Status:      string(d.Status),
		DonatedAt:   d.DonatedAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDonation converts a model Donation to a domain Donation
func ToDomainDonation(m models.Donation) domain.Donation {
	return domain.Donation{
		DonationID:  m.DonationID,
		DonorID:     m.DonorID,
		Kind:        domain.DonationKind(m.Kind),
		Amount:      m.Amount,
		ItemName:    m.ItemName,
		Category:    m.Category,
		Quantity:    m.Quantity,
		Unit:        m.Unit,
		Status:      domain.DonationStatus(m.Status),
		DonatedAt:   m.DonatedAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDonationSlice converts a slice of model Donations to a slice of domain Donations
func ToDomainDonationSlice(ms []models.Donation) []domain.Donation {
	ds := make([]domain.Donation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDonation(m)
	}
	return ds
}
