package mapping

import (
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	"github.com/reliefbase/relief_ledger_app/internal/models"
)

// ToModelInventoryItem converts a domain InventoryItem to a model InventoryItem
func ToModelInventoryItem(d domain.InventoryItem) models.InventoryItem {
	return models.InventoryItem{
		ItemID:          d.ItemID,
		DonorID:         d.DonorID,
		DonationID:      d.DonationID,
		Name:            d.Name,
		Category:        d.Category,
		Quantity:        d.Quantity,
		Unit:            d.Unit,
		ExpiryDate:      d.ExpiryDate,
		ReceivedAt:      d.ReceivedAt,
		Status:          string(d.Status),
		DistributionID:  d.DistributionID,
		SplitFromItemID: d.SplitFromItemID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInventoryItem converts a model InventoryItem to a domain InventoryItem
func ToDomainInventoryItem(m models.InventoryItem) domain.InventoryItem {
	return domain.InventoryItem{
		ItemID:          m.ItemID,
		DonorID:         m.DonorID,
		DonationID:      m.DonationID,
		Name:            m.Name,
		Category:        m.Category,
		Quantity:        m.Quantity,
		Unit:            m.Unit,
		ExpiryDate:      m.ExpiryDate,
		ReceivedAt:      m.ReceivedAt,
		Status:          domain.ItemStatus(m.Status),
		DistributionID:  m.DistributionID,
		SplitFromItemID: m.SplitFromItemID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInventoryItemSlice converts a slice of model items to domain items
func ToDomainInventoryItemSlice(ms []models.InventoryItem) []domain.InventoryItem {
	ds := make([]domain.InventoryItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInventoryItem(m)
	}
	return ds
}
