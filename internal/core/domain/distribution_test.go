package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

func TestDistributionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.DistributionStatus
		to   domain.DistributionStatus
		want bool
	}{
		{name: "pending to ongoing", from: domain.DistPending, to: domain.DistOngoing, want: true},
		{name: "pending to cancelled", from: domain.DistPending, to: domain.DistCancelled, want: true},
		{name: "pending cannot skip to completed", from: domain.DistPending, to: domain.DistCompleted, want: false},
		{name: "ongoing to completed", from: domain.DistOngoing, to: domain.DistCompleted, want: true},
		{name: "ongoing cannot be cancelled", from: domain.DistOngoing, to: domain.DistCancelled, want: false},
		{name: "completed is terminal", from: domain.DistCompleted, to: domain.DistOngoing, want: false},
		{name: "cancelled is terminal", from: domain.DistCancelled, to: domain.DistPending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDistributionStatus_IsEditable(t *testing.T) {
	assert.True(t, domain.DistPending.IsEditable())
	assert.False(t, domain.DistOngoing.IsEditable())
	assert.False(t, domain.DistCompleted.IsEditable())
	assert.False(t, domain.DistCancelled.IsEditable())
}

func TestDistributionStatus_AcceptsAllocations(t *testing.T) {
	assert.True(t, domain.DistPending.AcceptsAllocations())
	assert.True(t, domain.DistOngoing.AcceptsAllocations())
	assert.False(t, domain.DistCompleted.AcceptsAllocations())
	assert.False(t, domain.DistCancelled.AcceptsAllocations())
}

func TestDistribution_TotalMonetary(t *testing.T) {
	d := domain.Distribution{
		Beneficiaries:        120,
		AmountPerBeneficiary: decimal.NewFromFloat(25.50),
	}
	assert.True(t, decimal.NewFromFloat(3060).Equal(d.TotalMonetary()))

	none := domain.Distribution{Beneficiaries: 120}
	assert.True(t, none.TotalMonetary().IsZero())
}
