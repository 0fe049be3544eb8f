package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	"github.com/reliefbase/relief_ledger_app/internal/models"
)

// ToModelDistribution converts a domain Distribution to a model Distribution.
// RequestedItems is serialized to JSON for the JSONB column.
func ToModelDistribution(d domain.Distribution) (models.Distribution, error) {
	items := d.RequestedItems
	if items == nil {
		items = map[string]int64{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return models.Distribution{}, fmt.Errorf("failed to marshal requested items for distribution %s: %w", d.DistributionID, err)
	}
	return models.Distribution{
		DistributionID:       d.DistributionID,
		Name:                 d.Name,
		OrgID:                d.OrgID,
		Location:             d.Location,
		ScheduledDate:        d.ScheduledDate,
		DistType:             string(d.DistType),
		Beneficiaries:        d.Beneficiaries,
		AmountPerBeneficiary: d.AmountPerBeneficiary,
		RequestedItems:       raw,
		Notes:                d.Notes,
		Status:               string(d.Status),
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainDistribution converts a model Distribution to a domain Distribution.
func ToDomainDistribution(m models.Distribution) (domain.Distribution, error) {
	items := map[string]int64{}
	if len(m.RequestedItems) > 0 {
		if err := json.Unmarshal(m.RequestedItems, &items); err != nil {
			return domain.Distribution{}, fmt.Errorf("failed to unmarshal requested items for distribution %s: %w", m.DistributionID, err)
		}
	}
	return domain.Distribution{
		DistributionID:       m.DistributionID,
		Name:                 m.Name,
		OrgID:                m.OrgID,
		Location:             m.Location,
		ScheduledDate:        m.ScheduledDate,
		DistType:             domain.DistributionType(m.DistType),
		Beneficiaries:        m.Beneficiaries,
		AmountPerBeneficiary: m.AmountPerBeneficiary,
		RequestedItems:       items,
		Notes:                m.Notes,
		Status:               domain.DistributionStatus(m.Status),
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}, nil
}
