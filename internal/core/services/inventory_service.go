package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/reliefbase/relief_ledger_app/internal/apperrors"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	portsrepo "github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/reliefbase/relief_ledger_app/internal/core/ports/services"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
)

// inventoryService implements the InventorySvcFacade interface
type inventoryService struct {
	BaseService
	inventoryRepo portsrepo.InventoryRepositoryWithTx
	donorRepo     portsrepo.DonorRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	inventoryRepo portsrepo.InventoryRepositoryWithTx,
	donorRepo portsrepo.DonorRepositoryFacade,
	reportingRepo portsrepo.ReportingRepository,
) portssvc.InventorySvcFacade {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		donorRepo:     donorRepo,
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

func (s *inventoryService) CreateItem(ctx context.Context, req dto.CreateInventoryItemRequest, userID string) (*domain.InventoryItem, error) {
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

	now := time.Now()
	receivedAt := now
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}

	item := domain.InventoryItem{
		ItemID:     uuid.NewString(),
		DonorID:    req.DonorID,
		DonationID: req.DonationID,
		Name:       req.Name,
		Category:   req.Category,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		ExpiryDate: req.ExpiryDate,
		ReceivedAt: receivedAt,
		Status:     domain.ItemPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.inventoryRepo.SaveItem(ctx, item); err != nil {
		s.LogError(ctx, err, "Failed to save inventory item", slog.String("item_id", item.ItemID))
		return nil, err
	}

	s.LogInfo(ctx, "Inventory item recorded",
		slog.String("item_id", item.ItemID), slog.String("category", item.Category))
	return &item, nil
}

func (s *inventoryService) GetItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	item, err := s.inventoryRepo.FindItemByID(ctx, itemID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find inventory item by ID", slog.String("item_id", itemID))
		}
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) ListItems(ctx context.Context, limit int, nextToken *string, filter portsrepo.InventoryListFilter) ([]domain.InventoryItem, *string, error) {
	items, next, err := s.inventoryRepo.ListItems(ctx, limit, nextToken, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list inventory items", slog.Int("limit", limit))
		return nil, nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	if items == nil {
		items = []domain.InventoryItem{}
	}
	return items, next, nil
}

func (s *inventoryService) GetInventorySummary(ctx context.Context) (*domain.InventorySummary, error) {
	summary, err := s.reportingRepo.InventorySummary(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute inventory summary")
		return nil, err
	}
	return summary, nil
}

// UpdateItem edits an item while it is still pending or verified. Items that
// reached stored are immutable; splits during allocation are the only change
// they may undergo.
func (s *inventoryService) UpdateItem(ctx context.Context, itemID string, req dto.UpdateInventoryItemRequest, userID string) (*domain.InventoryItem, error) {
	item, err := s.inventoryRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !item.Status.IsMutable() {
		return nil, fmt.Errorf("item %s in status %s cannot be edited: %w",
			itemID, item.Status, apperrors.ErrImmutableEntity)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.ExpiryDate != nil {
		item.ExpiryDate = req.ExpiryDate
	}
	item.LastUpdatedAt = time.Now()
	item.LastUpdatedBy = userID

	if err := s.inventoryRepo.UpdateItem(ctx, *item); err != nil {
		s.LogError(ctx, err, "Failed to update inventory item", slog.String("item_id", itemID))
		return nil, err
	}

	s.LogInfo(ctx, "Inventory item updated", slog.String("item_id", itemID))
	return item, nil
}

// TransitionItemStatus applies a lifecycle change after checking the
// transition table. The chain is strictly linear; allocated and distributed
// are reached only through the allocation and completion paths, never by a
// direct request.
func (s *inventoryService) TransitionItemStatus(ctx context.Context, itemID string, target domain.ItemStatus, userID string) (*domain.InventoryItem, error) {
	if target == domain.ItemAllocated || target == domain.ItemDistributed {
		return nil, fmt.Errorf("item status %s is set by allocation, not directly: %w",
			target, apperrors.ErrInvalidTransition)
	}

	item, err := s.inventoryRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.Status.IsTerminal() {
		return nil, fmt.Errorf("item %s is %s, a terminal status: %w",
			itemID, item.Status, apperrors.ErrEntityLocked)
	}
	if !item.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("item %s cannot move from %s to %s: %w",
			itemID, item.Status, target, apperrors.ErrInvalidTransition)
	}

	now := time.Now()
	if err := s.inventoryRepo.UpdateItemStatus(ctx, itemID, item.Status, target, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to update inventory item status",
			slog.String("item_id", itemID), slog.String("target", string(target)))
		return nil, err
	}

	item.Status = target
	item.LastUpdatedAt = now
	item.LastUpdatedBy = userID
	s.LogInfo(ctx, "Inventory item status changed",
		slog.String("item_id", itemID), slog.String("status", string(target)))
	return item, nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, itemID string, userID string) error {
	item, err := s.inventoryRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return err
	}

	if !item.Status.IsMutable() {
		return fmt.Errorf("item %s in status %s cannot be deleted: %w",
			itemID, item.Status, apperrors.ErrImmutableEntity)
	}

	if err := s.inventoryRepo.DeleteItem(ctx, itemID); err != nil {
		s.LogError(ctx, err, "Failed to delete inventory item", slog.String("item_id", itemID))
		return err
	}

	s.LogInfo(ctx, "Inventory item deleted", slog.String("item_id", itemID))
	return nil
}
