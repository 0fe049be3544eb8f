package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/reliefbase/relief_ledger_app/internal/apperrors"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	portsrepo "github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/reliefbase/relief_ledger_app/internal/core/ports/services"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
)

// distributionService implements the DistributionSvcFacade interface
type distributionService struct {
	BaseService
	distributionRepo portsrepo.DistributionRepositoryWithTx
	inventoryRepo    portsrepo.InventoryRepositoryWithTx
	allocationRepo   portsrepo.AllocationRepositoryWithTx
	orgRepo          portsrepo.OrganizationRepositoryFacade
	maxRetries       int
}

// NewDistributionService creates a new distribution service
func NewDistributionService(
	distributionRepo portsrepo.DistributionRepositoryWithTx,
	inventoryRepo portsrepo.InventoryRepositoryWithTx,
	allocationRepo portsrepo.AllocationRepositoryWithTx,
	orgRepo portsrepo.OrganizationRepositoryFacade,
	maxRetries int,
) portssvc.DistributionSvcFacade {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &distributionService{
		distributionRepo: distributionRepo,
		inventoryRepo:    inventoryRepo,
		allocationRepo:   allocationRepo,
		orgRepo:          orgRepo,
		maxRetries:       maxRetries,
	}
}

var _ portssvc.DistributionSvcFacade = (*distributionService)(nil)

func (s *distributionService) CreateDistribution(ctx context.Context, req dto.CreateDistributionRequest, userID string) (*domain.Distribution, error) {
	if req.OrgID != nil {
		org, err := s.orgRepo.FindOrganizationByID(ctx, *req.OrgID)
		if err != nil {
			return nil, fmt.Errorf("invalid organization: %w", err)
		}
		if org.Status != domain.OrgActive {
			return nil, fmt.Errorf("organization %s is not active: %w", *req.OrgID, apperrors.ErrValidation)
		}
	}

	perBeneficiary := decimal.Zero
	if req.AmountPerBeneficiary != nil {
		perBeneficiary = *req.AmountPerBeneficiary
	}
	if err := validateDistributionShape(req.DistType, req.RequestedItems, perBeneficiary); err != nil {
		return nil, err
	}

	now := time.Now()
	distribution := domain.Distribution{
		DistributionID:       uuid.NewString(),
		Name:                 req.Name,
		OrgID:                req.OrgID,
		Location:             req.Location,
		ScheduledDate:        req.ScheduledDate,
		DistType:             req.DistType,
		Beneficiaries:        req.Beneficiaries,
		AmountPerBeneficiary: perBeneficiary,
		RequestedItems:       req.RequestedItems,
		Notes:                req.Notes,
		Status:               domain.DistPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.distributionRepo.SaveDistribution(ctx, distribution); err != nil {
		s.LogError(ctx, err, "Failed to save distribution", slog.String("distribution_id", distribution.DistributionID))
		return nil, err
	}

	s.LogInfo(ctx, "Distribution planned",
		slog.String("distribution_id", distribution.DistributionID),
		slog.String("type", string(distribution.DistType)))
	return &distribution, nil
}

func validateDistributionShape(distType domain.DistributionType, items map[string]int64, perBeneficiary decimal.Decimal) error {
	hasItems := len(items) > 0
	hasMoney := perBeneficiary.GreaterThan(decimal.Zero)
	for category, qty := range items {
		if category == "" || qty <= 0 {
			return fmt.Errorf("requested items need a category and a positive quantity: %w", apperrors.ErrValidation)
		}
	}
	switch distType {
	case domain.DistMonetary:
		if !hasMoney || hasItems {
			return fmt.Errorf("monetary distribution requires an amount per beneficiary and no items: %w", apperrors.ErrValidation)
		}
	case domain.DistInKind:
		if !hasItems || hasMoney {
			return fmt.Errorf("in-kind distribution requires requested items and no amount: %w", apperrors.ErrValidation)
		}
	case domain.DistMixed:
		if !hasItems || !hasMoney {
			return fmt.Errorf("mixed distribution requires both items and an amount: %w", apperrors.ErrValidation)
		}
	default:
		return fmt.Errorf("unknown distribution type %q: %w", distType, apperrors.ErrValidation)
	}
	return nil
}

func (s *distributionService) GetDistributionByID(ctx context.Context, distributionID string) (*domain.Distribution, error) {
	distribution, err := s.distributionRepo.FindDistributionByID(ctx, distributionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find distribution by ID", slog.String("distribution_id", distributionID))
		}
		return nil, err
	}
	return distribution, nil
}

func (s *distributionService) ListDistributions(ctx context.Context, limit int, nextToken *string, filter portsrepo.DistributionListFilter) ([]domain.Distribution, *string, error) {
	distributions, next, err := s.distributionRepo.ListDistributions(ctx, limit, nextToken, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list distributions", slog.Int("limit", limit))
		return nil, nil, fmt.Errorf("failed to list distributions: %w", err)
	}
	if distributions == nil {
		distributions = []domain.Distribution{}
	}
	return distributions, next, nil
}

func (s *distributionService) ListAllocations(ctx context.Context, distributionID string) ([]domain.Allocation, error) {
	if _, err := s.distributionRepo.FindDistributionByID(ctx, distributionID); err != nil {
		return nil, err
	}
	allocations, err := s.allocationRepo.ListAllocationsByDistribution(ctx, distributionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list allocations", slog.String("distribution_id", distributionID))
		return nil, err
	}
	if allocations == nil {
		allocations = []domain.Allocation{}
	}
	return allocations, nil
}

func (s *distributionService) UpdateDistribution(ctx context.Context, distributionID string, req dto.UpdateDistributionRequest, userID string) (*domain.Distribution, error) {
	distribution, err := s.distributionRepo.FindDistributionByID(ctx, distributionID)
	if err != nil {
		return nil, err
	}

	if !distribution.Status.IsEditable() {
		return nil, fmt.Errorf("distribution %s in status %s cannot be edited: %w",
			distributionID, distribution.Status, apperrors.ErrImmutableEntity)
	}

	if req.Name != nil {
		distribution.Name = *req.Name
	}
	if req.Location != nil {
		distribution.Location = *req.Location
	}
	if req.ScheduledDate != nil {
		distribution.ScheduledDate = *req.ScheduledDate
	}
	if req.Beneficiaries != nil {
		distribution.Beneficiaries = *req.Beneficiaries
	}
	if req.AmountPerBeneficiary != nil {
		distribution.AmountPerBeneficiary = *req.AmountPerBeneficiary
	}
	if req.RequestedItems != nil {
		distribution.RequestedItems = req.RequestedItems
	}
	if req.Notes != nil {
		distribution.Notes = *req.Notes
	}

	if err := validateDistributionShape(distribution.DistType, distribution.RequestedItems, distribution.AmountPerBeneficiary); err != nil {
		return nil, err
	}

	distribution.LastUpdatedAt = time.Now()
	distribution.LastUpdatedBy = userID

	if err := s.distributionRepo.UpdateDistribution(ctx, *distribution); err != nil {
		s.LogError(ctx, err, "Failed to update distribution", slog.String("distribution_id", distributionID))
		return nil, err
	}

	s.LogInfo(ctx, "Distribution updated", slog.String("distribution_id", distributionID))
	return distribution, nil
}

// TransitionDistributionStatus applies a lifecycle change after checking the
// transition table. Completing a distribution marks every item allocated to
// it as distributed, inside the same transaction as the status change.
func (s *distributionService) TransitionDistributionStatus(ctx context.Context, distributionID string, target domain.DistributionStatus, userID string) (*domain.Distribution, error) {
	tx, err := s.distributionRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transaction for distribution transition", slog.String("distribution_id", distributionID))
		return nil, err
	}
	defer func() { _ = s.distributionRepo.Rollback(ctx, tx) }()

	distribution, err := s.distributionRepo.FindDistributionByIDForUpdate(ctx, tx, distributionID)
	if err != nil {
		return nil, err
	}

	if distribution.Status.IsTerminal() {
		return nil, fmt.Errorf("distribution %s is %s, a terminal status: %w",
			distributionID, distribution.Status, apperrors.ErrEntityLocked)
	}
	if !distribution.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("distribution %s cannot move from %s to %s: %w",
			distributionID, distribution.Status, target, apperrors.ErrInvalidTransition)
	}

	now := time.Now()
	if err := s.distributionRepo.UpdateDistributionStatusInTx(ctx, tx, distributionID, target, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to update distribution status",
			slog.String("distribution_id", distributionID), slog.String("target", string(target)))
		return nil, err
	}

	if target == domain.DistCompleted {
		items, err := s.inventoryRepo.FindItemsByDistributionForUpdate(ctx, tx, distributionID)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if item.Status != domain.ItemAllocated {
				continue
			}
			if err := s.inventoryRepo.UpdateItemStatusInTx(ctx, tx, item.ItemID, domain.ItemDistributed, userID, now); err != nil {
				s.LogError(ctx, err, "Failed to mark item distributed",
					slog.String("item_id", item.ItemID), slog.String("distribution_id", distributionID))
				return nil, err
			}
		}
	}

	if err := s.distributionRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit distribution transition", slog.String("distribution_id", distributionID))
		return nil, err
	}

	distribution.Status = target
	distribution.LastUpdatedAt = now
	distribution.LastUpdatedBy = userID
	s.LogInfo(ctx, "Distribution status changed",
		slog.String("distribution_id", distributionID), slog.String("status", string(target)))
	return distribution, nil
}

// PreviewAllocation computes the consumption plan Allocate would commit,
// without taking locks or writing anything. The answer can go stale the
// moment it is returned; only Allocate decides.
func (s *distributionService) PreviewAllocation(ctx context.Context, distributionID string, req dto.AllocationRequest) (*dto.AllocationPreviewResponse, error) {
	distribution, err := s.distributionRepo.FindDistributionByID(ctx, distributionID)
	if err != nil {
		return nil, err
	}
	if !distribution.Status.AcceptsAllocations() {
		return nil, fmt.Errorf("distribution %s in status %s does not accept allocations: %w",
			distributionID, distribution.Status, apperrors.ErrInvalidTransition)
	}
	if err := validateAllocationRequest(req); err != nil {
		return nil, err
	}

	preview := &dto.AllocationPreviewResponse{Feasible: true}
	for _, category := range sortedCategories(req.Items) {
		requested := req.Items[category]
		items, err := s.inventoryRepo.StoredItemsByCategory(ctx, category)
		if err != nil {
			return nil, err
		}

		remaining := requested
		var available int64
		for _, item := range items {
			available += item.Quantity
			if remaining <= 0 {
				continue
			}
			take := item.Quantity
			if take > remaining {
				take = remaining
			}
			preview.Lines = append(preview.Lines, dto.AllocationLinePreview{
				ItemID:    item.ItemID,
				ItemName:  item.Name,
				Category:  category,
				Quantity:  take,
				Remaining: item.Quantity - take,
			})
			remaining -= take
		}
		if remaining > 0 {
			preview.Feasible = false
			preview.Shortages = append(preview.Shortages, dto.AllocationShortage{
				Category:  category,
				Requested: requested,
				Available: available,
			})
		}
	}

	if req.MonetaryAmount != nil && req.MonetaryAmount.GreaterThan(decimal.Zero) {
		preview.MonetaryAmount = req.MonetaryAmount
	}
	if !preview.Feasible {
		preview.Lines = nil
	}
	return preview, nil
}

// Allocate reserves stored inventory and verified funds against a
// distribution. All checks and writes happen inside one transaction with the
// distribution row and the candidate item rows locked, so two concurrent
// allocations can never consume the same unit. Serialization failures are
// retried a bounded number of times.
func (s *distributionService) Allocate(ctx context.Context, distributionID string, req dto.AllocationRequest, userID string) (*domain.Allocation, error) {
	if err := validateAllocationRequest(req); err != nil {
		return nil, err
	}

	var allocation *domain.Allocation
	var err error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		allocation, err = s.allocateOnce(ctx, distributionID, req, userID)
		if err == nil || !isSerializationFailure(err) {
			return allocation, err
		}
		s.LogInfo(ctx, "Allocation retrying after serialization failure",
			slog.String("distribution_id", distributionID), slog.Int("attempt", attempt))
	}
	s.LogError(ctx, err, "Allocation gave up after retries", slog.String("distribution_id", distributionID))
	return nil, fmt.Errorf("allocation for distribution %s kept conflicting: %w",
		distributionID, apperrors.ErrConcurrentUpdateConflict)
}

func validateAllocationRequest(req dto.AllocationRequest) error {
	hasItems := len(req.Items) > 0
	hasMoney := req.MonetaryAmount != nil && req.MonetaryAmount.GreaterThan(decimal.Zero)
	if !hasItems && !hasMoney {
		return fmt.Errorf("allocation requires items or a monetary amount: %w", apperrors.ErrValidation)
	}
	if req.MonetaryAmount != nil && req.MonetaryAmount.LessThan(decimal.Zero) {
		return fmt.Errorf("allocation amount cannot be negative: %w", apperrors.ErrValidation)
	}
	for category, qty := range req.Items {
		if category == "" || qty <= 0 {
			return fmt.Errorf("allocation items need a category and a positive quantity: %w", apperrors.ErrValidation)
		}
	}
	return nil
}

// sortedCategories fixes the lock acquisition order across concurrent
// allocations, which keeps them from deadlocking on each other.
func sortedCategories(items map[string]int64) []string {
	categories := make([]string, 0, len(items))
	for category := range items {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

func (s *distributionService) allocateOnce(ctx context.Context, distributionID string, req dto.AllocationRequest, userID string) (*domain.Allocation, error) {
	tx, err := s.distributionRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin allocation transaction", slog.String("distribution_id", distributionID))
		return nil, err
	}
	defer func() { _ = s.distributionRepo.Rollback(ctx, tx) }()

	distribution, err := s.distributionRepo.FindDistributionByIDForUpdate(ctx, tx, distributionID)
	if err != nil {
		return nil, err
	}
	if !distribution.Status.AcceptsAllocations() {
		return nil, fmt.Errorf("distribution %s in status %s does not accept allocations: %w",
			distributionID, distribution.Status, apperrors.ErrInvalidTransition)
	}

	now := time.Now()
	allocation := domain.Allocation{
		AllocationID:   uuid.NewString(),
		DistributionID: distributionID,
		MonetaryAmount: decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	var consumedItemIDs []string
	for _, category := range sortedCategories(req.Items) {
		requested := req.Items[category]
		items, err := s.inventoryRepo.FindStoredItemsForUpdate(ctx, tx, category)
		if err != nil {
			return nil, err
		}

		var available int64
		for _, item := range items {
			available += item.Quantity
		}
		if available < requested {
			return nil, &apperrors.InsufficientInventoryError{
				Category:  category,
				Requested: requested,
				Available: available,
			}
		}

		remaining := requested
		for _, item := range items {
			if remaining <= 0 {
				break
			}
			if item.Quantity > remaining {
				// Partial consumption: the locked row keeps the leftover and a
				// synthetic split row carries the consumed part.
				split := domain.InventoryItem{
					ItemID:          uuid.NewString(),
					DonorID:         item.DonorID,
					DonationID:      item.DonationID,
					Name:            item.Name,
					Category:        item.Category,
					Quantity:        remaining,
					Unit:            item.Unit,
					ExpiryDate:      item.ExpiryDate,
					ReceivedAt:      item.ReceivedAt,
					Status:          domain.ItemStored,
					SplitFromItemID: &item.ItemID,
					AuditFields: domain.AuditFields{
						CreatedAt:     now,
						CreatedBy:     userID,
						LastUpdatedAt: now,
						LastUpdatedBy: userID,
					},
				}
				if err := s.inventoryRepo.SaveItemInTx(ctx, tx, split); err != nil {
					return nil, err
				}
				if err := s.inventoryRepo.UpdateItemQuantityInTx(ctx, tx, item.ItemID, item.Quantity-remaining, userID, now); err != nil {
					return nil, err
				}
				consumedItemIDs = append(consumedItemIDs, split.ItemID)
				allocation.Lines = append(allocation.Lines, domain.AllocationLine{
					LineID:       uuid.NewString(),
					AllocationID: allocation.AllocationID,
					ItemID:       split.ItemID,
					Category:     category,
					Quantity:     remaining,
				})
				remaining = 0
			} else {
				consumedItemIDs = append(consumedItemIDs, item.ItemID)
				allocation.Lines = append(allocation.Lines, domain.AllocationLine{
					LineID:       uuid.NewString(),
					AllocationID: allocation.AllocationID,
					ItemID:       item.ItemID,
					Category:     category,
					Quantity:     item.Quantity,
				})
				remaining -= item.Quantity
			}
		}
	}

	if req.MonetaryAmount != nil && req.MonetaryAmount.GreaterThan(decimal.Zero) {
		available, err := s.allocationRepo.AvailableFundsInTx(ctx, tx)
		if err != nil {
			return nil, err
		}
		if available.LessThan(*req.MonetaryAmount) {
			return nil, &apperrors.InsufficientFundsError{
				Requested: *req.MonetaryAmount,
				Available: available,
			}
		}
		allocation.MonetaryAmount = *req.MonetaryAmount
	}

	if len(consumedItemIDs) > 0 {
		if err := s.inventoryRepo.MarkItemsAllocatedInTx(ctx, tx, consumedItemIDs, distributionID, userID, now); err != nil {
			return nil, err
		}
	}
	if err := s.allocationRepo.SaveAllocationInTx(ctx, tx, allocation); err != nil {
		return nil, err
	}

	if err := s.distributionRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit allocation", slog.String("distribution_id", distributionID))
		return nil, err
	}

	s.LogInfo(ctx, "Allocation committed",
		slog.String("allocation_id", allocation.AllocationID),
		slog.String("distribution_id", distributionID),
		slog.Int("lines", len(allocation.Lines)))
	return &allocation, nil
}

// isSerializationFailure reports whether err is a Postgres serialization
// failure or deadlock, both of which are safe to retry from scratch.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
