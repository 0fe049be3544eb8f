package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

func TestDonationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.DonationStatus
		to     domain.DonationStatus
		want   bool
	}{
		{name: "pending can be verified", from: domain.DonationPending, to: domain.DonationVerified, want: true},
		{name: "pending can be rejected", from: domain.DonationPending, to: domain.DonationRejected, want: true},
		{name: "pending cannot skip to received", from: domain.DonationPending, to: domain.DonationReceived, want: false},
		{name: "pending cannot skip to distributed", from: domain.DonationPending, to: domain.DonationDistributed, want: false},
		{name: "verified can be received", from: domain.DonationVerified, to: domain.DonationReceived, want: true},
		{name: "verified cannot be rejected", from: domain.DonationVerified, to: domain.DonationRejected, want: false},
		{name: "received can be distributed", from: domain.DonationReceived, to: domain.DonationDistributed, want: true},
		{name: "received cannot go back to pending", from: domain.DonationReceived, to: domain.DonationPending, want: false},
		{name: "rejected is terminal", from: domain.DonationRejected, to: domain.DonationPending, want: false},
		{name: "distributed is terminal", from: domain.DonationDistributed, to: domain.DonationReceived, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDonationStatus_IsTerminal(t *testing.T) {
	assert.False(t, domain.DonationPending.IsTerminal())
	assert.False(t, domain.DonationVerified.IsTerminal())
	assert.False(t, domain.DonationReceived.IsTerminal())
	assert.True(t, domain.DonationRejected.IsTerminal())
	assert.True(t, domain.DonationDistributed.IsTerminal())
}

func TestDonationStatus_CountsTowardDonorTotal(t *testing.T) {
	tests := []struct {
		status domain.DonationStatus
		want   bool
	}{
		{status: domain.DonationPending, want: false},
		{status: domain.DonationVerified, want: true},
		{status: domain.DonationReceived, want: true},
		{status: domain.DonationDistributed, want: true},
		{status: domain.DonationRejected, want: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.CountsTowardDonorTotal())
		})
	}
}
