package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/reliefbase/relief_ledger_app/internal/apperrors"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	portsrepo "github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/reliefbase/relief_ledger_app/internal/core/ports/services"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
)

// donationService implements the DonationSvcFacade interface
type donationService struct {
	BaseService
	donationRepo  portsrepo.DonationRepositoryWithTx
	inventoryRepo portsrepo.InventoryRepositoryWithTx
	donorRepo     portsrepo.DonorRepositoryFacade
}

// NewDonationService creates a new donation service
func NewDonationService(
	donationRepo portsrepo.DonationRepositoryWithTx,
	inventoryRepo portsrepo.InventoryRepositoryWithTx,
	donorRepo portsrepo.DonorRepositoryFacade,
) portssvc.DonationSvcFacade {
	return &donationService{
		donationRepo:  donationRepo,
		inventoryRepo: inventoryRepo,
		donorRepo:     donorRepo,
	}
}

var _ portssvc.DonationSvcFacade = (*donationService)(nil)

func (s *donationService) CreateDonation(ctx context.Context, req dto.CreateDonationRequest, userID string) (*domain.Donation, error) {
	donor, err := s.donorRepo.FindDonorByID(ctx, req.DonorID)
	if err != nil {
		return nil, err
	}
	if donor.Status == domain.DonorBlacklisted {
		return nil, fmt.Errorf("donor %s is blacklisted: %w", req.DonorID, apperrors.ErrDonorBlacklisted)
	}
	if donor.Status != domain.DonorActive {
		return nil, fmt.Errorf("donor %s is not active: %w", req.DonorID, apperrors.ErrValidation)
	}

	donation := domain.Donation{
		DonationID: uuid.NewString(),
		DonorID:    req.DonorID,
		Kind:       req.Kind,
		Status:     domain.DonationPending,
		DonatedAt:  time.Now(),
	}

	switch req.Kind {
	case domain.Monetary:
		if req.Amount == nil || req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("monetary donation requires a positive amount: %w", apperrors.ErrValidation)
		}
		donation.Amount = *req.Amount
	case domain.InKind:
		if req.ItemName == "" || req.Category == "" || req.Unit == "" {
			return nil, fmt.Errorf("in-kind donation requires item name, category and unit: %w", apperrors.ErrValidation)
		}
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("in-kind donation requires a positive quantity: %w", apperrors.ErrValidation)
		}
		donation.ItemName = req.ItemName
		donation.Category = req.Category
		donation.Quantity = req.Quantity
		donation.Unit = req.Unit
	default:
		return nil, fmt.Errorf("unknown donation kind %q: %w", req.Kind, apperrors.ErrValidation)
	}

	now := time.Now()
	donation.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	if err := s.donationRepo.SaveDonation(ctx, donation); err != nil {
		s.LogError(ctx, err, "Failed to save donation", slog.String("donation_id", donation.DonationID))
		return nil, err
	}

	s.LogInfo(ctx, "Donation recorded",
		slog.String("donation_id", donation.DonationID),
		slog.String("donor_id", donation.DonorID),
		slog.String("kind", string(donation.Kind)))
	return &donation, nil
}

func (s *donationService) GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	donation, err := s.donationRepo.FindDonationByID(ctx, donationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find donation by ID", slog.String("donation_id", donationID))
		}
		return nil, err
	}
	return donation, nil
}

func (s *donationService) ListDonations(ctx context.Context, limit int, nextToken *string, filter portsrepo.DonationListFilter) ([]domain.Donation, *string, error) {
	donations, next, err := s.donationRepo.ListDonations(ctx, limit, nextToken, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list donations", slog.Int("limit", limit))
		return nil, nil, fmt.Errorf("failed to list donations: %w", err)
	}
	if donations == nil {
		donations = []domain.Donation{}
	}
	return donations, next, nil
}

// TransitionDonationStatus applies a lifecycle change after checking the
// transition table. The status row is locked so concurrent transitions
// serialize; the first writer wins and the second sees the new state.
// Marking an in-kind donation received also creates its pending inventory
// item inside the same transaction, so the pledge and the stock record
// cannot diverge.
func (s *donationService) TransitionDonationStatus(ctx context.Context, donationID string, target domain.DonationStatus, userID string) (*domain.Donation, error) {
	tx, err := s.donationRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transaction for donation transition", slog.String("donation_id", donationID))
		return nil, err
	}
	defer func() { _ = s.donationRepo.Rollback(ctx, tx) }()

	donation, err := s.donationRepo.FindDonationByIDForUpdate(ctx, tx, donationID)
	if err != nil {
		return nil, err
	}

	if donation.Status.IsTerminal() {
		return nil, fmt.Errorf("donation %s is %s, a terminal status: %w",
			donationID, donation.Status, apperrors.ErrEntityLocked)
	}
	if !donation.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("donation %s cannot move from %s to %s: %w",
			donationID, donation.Status, target, apperrors.ErrInvalidTransition)
	}

	now := time.Now()
	if err := s.donationRepo.UpdateDonationStatusInTx(ctx, tx, donationID, target, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to update donation status",
			slog.String("donation_id", donationID), slog.String("target", string(target)))
		return nil, err
	}

	if target == domain.DonationReceived && donation.Kind == domain.InKind {
		item := domain.InventoryItem{
			ItemID:     uuid.NewString(),
			DonorID:    donation.DonorID,
			DonationID: &donation.DonationID,
			Name:       donation.ItemName,
			Category:   donation.Category,
			Quantity:   donation.Quantity,
			Unit:       donation.Unit,
			ReceivedAt: now,
			Status:     domain.ItemPending,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := s.inventoryRepo.SaveItemInTx(ctx, tx, item); err != nil {
			s.LogError(ctx, err, "Failed to create inventory item for received donation",
				slog.String("donation_id", donationID))
			return nil, err
		}
		s.LogInfo(ctx, "Inventory item created from received donation",
			slog.String("donation_id", donationID), slog.String("item_id", item.ItemID))
	}

	if err := s.donationRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit donation transition", slog.String("donation_id", donationID))
		return nil, err
	}

	donation.Status = target
	donation.LastUpdatedAt = now
	donation.LastUpdatedBy = userID
	s.LogInfo(ctx, "Donation status changed",
		slog.String("donation_id", donationID), slog.String("status", string(target)))
	return donation, nil
}
