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

// organizationService implements the OrganizationSvcFacade interface
type organizationService struct {
	BaseService
	orgRepo   portsrepo.OrganizationRepositoryFacade
	donorRepo portsrepo.DonorRepositoryFacade
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(orgRepo portsrepo.OrganizationRepositoryFacade, donorRepo portsrepo.DonorRepositoryFacade) portssvc.OrganizationSvcFacade {
	return &organizationService{orgRepo: orgRepo, donorRepo: donorRepo}
}

var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

func (s *organizationService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, userID string) (*domain.Organization, error) {
	existing, err := s.orgRepo.FindOrganizationByName(ctx, req.Name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check organization name uniqueness", slog.String("name", req.Name))
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("organization %q already exists: %w", req.Name, apperrors.ErrDuplicate)
	}

	if req.DonorID != nil {
		donor, err := s.donorRepo.FindDonorByID(ctx, *req.DonorID)
		if err != nil {
			return nil, fmt.Errorf("invalid linked donor: %w", err)
		}
		if donor.DonorType != domain.DonorOrganization {
			return nil, fmt.Errorf("linked donor %s is not an organization donor: %w", *req.DonorID, apperrors.ErrValidation)
		}
	}

	now := time.Now()
	org := domain.Organization{
		OrgID:         uuid.NewString(),
		DonorID:       req.DonorID,
		Name:          req.Name,
		OrgType:       req.OrgType,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Status:        domain.OrgPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.orgRepo.SaveOrganization(ctx, org); err != nil {
		s.LogError(ctx, err, "Failed to save organization", slog.String("org_id", org.OrgID))
		return nil, err
	}

	s.LogInfo(ctx, "Organization registered", slog.String("org_id", org.OrgID))
	return &org, nil
}

func (s *organizationService) GetOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error) {
	org, err := s.orgRepo.FindOrganizationByID(ctx, orgID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find organization by ID", slog.String("org_id", orgID))
		}
		return nil, err
	}
	return org, nil
}

func (s *organizationService) ListOrganizations(ctx context.Context, limit int, nextToken *string, status *domain.OrgStatus) ([]domain.Organization, *string, error) {
	orgs, next, err := s.orgRepo.ListOrganizations(ctx, limit, nextToken, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list organizations", slog.Int("limit", limit))
		return nil, nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	if orgs == nil {
		orgs = []domain.Organization{}
	}
	return orgs, next, nil
}

func (s *organizationService) GetContributionSummary(ctx context.Context, orgID string) (*domain.ContributionSummary, error) {
	if _, err := s.orgRepo.FindOrganizationByID(ctx, orgID); err != nil {
		return nil, err
	}
	summary, err := s.orgRepo.ContributionSummary(ctx, orgID)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute contribution summary", slog.String("org_id", orgID))
		return nil, err
	}
	return summary, nil
}

func (s *organizationService) UpdateOrganization(ctx context.Context, orgID string, req dto.UpdateOrganizationRequest, userID string) (*domain.Organization, error) {
	org, err := s.orgRepo.FindOrganizationByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != org.Name {
		existing, err := s.orgRepo.FindOrganizationByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("organization %q already exists: %w", *req.Name, apperrors.ErrDuplicate)
		}
		org.Name = *req.Name
	}
	if req.OrgType != nil {
		org.OrgType = *req.OrgType
	}
	if req.ContactPerson != nil {
		org.ContactPerson = *req.ContactPerson
	}
	if req.Email != nil {
		org.Email = *req.Email
	}
	if req.Phone != nil {
		org.Phone = *req.Phone
	}
	org.LastUpdatedAt = time.Now()
	org.LastUpdatedBy = userID

	if err := s.orgRepo.UpdateOrganization(ctx, *org); err != nil {
		s.LogError(ctx, err, "Failed to update organization", slog.String("org_id", orgID))
		return nil, err
	}

	s.LogInfo(ctx, "Organization updated", slog.String("org_id", orgID))
	return org, nil
}

func (s *organizationService) TransitionOrgStatus(ctx context.Context, orgID string, target domain.OrgStatus, userID string) (*domain.Organization, error) {
	org, err := s.orgRepo.FindOrganizationByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if org.Status.IsTerminal() {
		return nil, fmt.Errorf("organization %s is %s, a terminal status: %w",
			orgID, org.Status, apperrors.ErrEntityLocked)
	}
	if !org.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("organization %s cannot move from %s to %s: %w",
			orgID, org.Status, target, apperrors.ErrInvalidTransition)
	}

	now := time.Now()
	if err := s.orgRepo.UpdateOrganizationStatus(ctx, orgID, target, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to update organization status",
			slog.String("org_id", orgID), slog.String("target", string(target)))
		return nil, err
	}

	org.Status = target
	org.LastUpdatedAt = now
	org.LastUpdatedBy = userID
	s.LogInfo(ctx, "Organization status changed",
		slog.String("org_id", orgID), slog.String("status", string(target)))
	return org, nil
}
