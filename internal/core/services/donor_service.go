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

// donorService implements the DonorSvcFacade interface
type donorService struct {
	BaseService
	donorRepo portsrepo.DonorRepositoryFacade
}

// NewDonorService creates a new donor service
func NewDonorService(repo portsrepo.DonorRepositoryFacade) portssvc.DonorSvcFacade {
	return &donorService{donorRepo: repo}
}

var _ portssvc.DonorSvcFacade = (*donorService)(nil)

func (s *donorService) CreateDonor(ctx context.Context, req dto.CreateDonorRequest, userID string) (*domain.Donor, error) {
	existing, err := s.donorRepo.FindDonorByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check donor email uniqueness", slog.String("email", req.Email))
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("donor with email %s already exists: %w", req.Email, apperrors.ErrDuplicate)
	}

	now := time.Now()
	donor := domain.Donor{
		DonorID:   uuid.NewString(),
		UserID:    req.UserID,
		Name:      req.Name,
		DonorType: req.DonorType,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Status:    domain.DonorActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.donorRepo.SaveDonor(ctx, donor); err != nil {
		s.LogError(ctx, err, "Failed to save donor", slog.String("donor_id", donor.DonorID))
		return nil, err
	}

	s.LogInfo(ctx, "Donor created", slog.String("donor_id", donor.DonorID))
	return &donor, nil
}

func (s *donorService) GetDonorByID(ctx context.Context, donorID string) (*domain.Donor, error) {
	donor, err := s.donorRepo.FindDonorByID(ctx, donorID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find donor by ID", slog.String("donor_id", donorID))
		}
		return nil, err
	}
	return donor, nil
}

func (s *donorService) ListDonors(ctx context.Context, limit int, nextToken *string, status *domain.DonorStatus) ([]domain.Donor, *string, error) {
	donors, next, err := s.donorRepo.ListDonors(ctx, limit, nextToken, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list donors", slog.Int("limit", limit))
		return nil, nil, fmt.Errorf("failed to list donors: %w", err)
	}
	if donors == nil {
		donors = []domain.Donor{}
	}
	return donors, next, nil
}

// GetDonorTotal derives the donor's contribution total from their monetary
// donations. The figure is never read from a stored column.
func (s *donorService) GetDonorTotal(ctx context.Context, donorID string, includePending bool) (decimal.Decimal, error) {
	if _, err := s.donorRepo.FindDonorByID(ctx, donorID); err != nil {
		return decimal.Zero, err
	}
	total, err := s.donorRepo.TotalForDonor(ctx, donorID, includePending)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute donor total", slog.String("donor_id", donorID))
		return decimal.Zero, err
	}
	return total, nil
}

func (s *donorService) UpdateDonor(ctx context.Context, donorID string, req dto.UpdateDonorRequest, userID string) (*domain.Donor, error) {
	donor, err := s.donorRepo.FindDonorByID(ctx, donorID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != donor.Email {
		existing, err := s.donorRepo.FindDonorByEmail(ctx, *req.Email)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("donor with email %s already exists: %w", *req.Email, apperrors.ErrDuplicate)
		}
		donor.Email = *req.Email
	}
	if req.Name != nil {
		donor.Name = *req.Name
	}
	if req.Phone != nil {
		donor.Phone = *req.Phone
	}
	if req.Address != nil {
		donor.Address = *req.Address
	}
	donor.LastUpdatedAt = time.Now()
	donor.LastUpdatedBy = userID

	if err := s.donorRepo.UpdateDonor(ctx, *donor); err != nil {
		s.LogError(ctx, err, "Failed to update donor", slog.String("donor_id", donorID))
		return nil, err
	}

	s.LogInfo(ctx, "Donor updated", slog.String("donor_id", donorID))
	return donor, nil
}

// TransitionDonorStatus applies a lifecycle change after checking the
// transition table. Blacklisted is terminal; nothing leaves it.
func (s *donorService) TransitionDonorStatus(ctx context.Context, donorID string, target domain.DonorStatus, userID string) (*domain.Donor, error) {
	donor, err := s.donorRepo.FindDonorByID(ctx, donorID)
	if err != nil {
		return nil, err
	}

	if donor.Status.IsTerminal() {
		return nil, fmt.Errorf("donor %s is %s, a terminal status: %w",
			donorID, donor.Status, apperrors.ErrEntityLocked)
	}
	if !donor.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("donor %s cannot move from %s to %s: %w",
			donorID, donor.Status, target, apperrors.ErrInvalidTransition)
	}

	now := time.Now()
	if err := s.donorRepo.UpdateDonorStatus(ctx, donorID, target, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to update donor status",
			slog.String("donor_id", donorID), slog.String("target", string(target)))
		return nil, err
	}

	donor.Status = target
	donor.LastUpdatedAt = now
	donor.LastUpdatedBy = userID
	s.LogInfo(ctx, "Donor status changed",
		slog.String("donor_id", donorID), slog.String("status", string(target)))
	return donor, nil
}
