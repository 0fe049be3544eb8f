package mapping

import (
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	"github.com/reliefbase/relief_ledger_app/internal/models"
)

// ToModelDonor converts a domain Donor to a model Donor
func ToModelDonor(d domain.Donor) models.Donor {
	return models.Donor{
		DonorID:     d.DonorID,
		UserID:      d.UserID,
		Name:        d.Name,
		DonorType:   string(d.DonorType),
		Email:       d.Email,
		Phone:       d.Phone,
		Address:     d.Address,
		Status:      string(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDonor converts a model Donor to a domain Donor
func ToDomainDonor(m models.Donor) domain.Donor {
	return domain.Donor{
		DonorID:     m.DonorID,
		UserID:      m.UserID,
		Name:        m.Name,
		DonorType:   domain.DonorType(m.DonorType),
		Email:       m.Email,
		Phone:       m.Phone,
		Address:     m.Address,
		Status:      domain.DonorStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDonorSlice converts a slice of model Donors to a slice of domain Donors
func ToDomainDonorSlice(ms []models.Donor) []domain.Donor {
	ds := make([]domain.Donor, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDonor(m)
	}
	return ds
}
