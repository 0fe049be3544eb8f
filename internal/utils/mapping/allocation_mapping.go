package mapping

import (
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	"github.com/reliefbase/relief_ledger_app/internal/models"
)

// ToModelAllocation converts a domain Allocation to its row shape.
// Lines are persisted separately.
func ToModelAllocation(a domain.Allocation) models.Allocation {
	return models.Allocation{
		AllocationID:   a.AllocationID,
		DistributionID: a.DistributionID,
		MonetaryAmount: a.MonetaryAmount,
		AuditFields:    ToModelAuditFields(a.AuditFields),
	}
}

// ToModelAllocationLine converts a domain AllocationLine to its row shape.
func ToModelAllocationLine(l domain.AllocationLine) models.AllocationLine {
	return models.AllocationLine{
		LineID:       l.LineID,
		AllocationID: l.AllocationID,
		ItemID:       l.ItemID,
		Category:     l.Category,
		Quantity:     l.Quantity,
	}
}

// ToDomainAllocation converts a model Allocation and its lines to a domain Allocation.
func ToDomainAllocation(m models.Allocation, lines []models.AllocationLine) domain.Allocation {
	domainLines := make([]domain.AllocationLine, len(lines))
	for i, l := range lines {
		domainLines[i] = domain.AllocationLine{
			LineID:       l.LineID,
			AllocationID: l.AllocationID,
			ItemID:       l.ItemID,
			Category:     l.Category,
			Quantity:     l.Quantity,
		}
	}
	return domain.Allocation{
		AllocationID:   m.AllocationID,
		DistributionID: m.DistributionID,
		MonetaryAmount: m.MonetaryAmount,
		Lines:          domainLines,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
